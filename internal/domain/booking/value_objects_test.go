//go:build unit

package booking_test

import (
	"testing"

	"glowbook/internal/domain/booking"
	"glowbook/internal/domain/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricing(t *testing.T) {
	newPricing := func(t *testing.T, baseCents int64) booking.Pricing {
		t.Helper()
		p, err := booking.NewPricing(money.New(baseCents))
		require.NoError(t, err)
		return p
	}

	t.Run("negotiated price starts at base", func(t *testing.T) {
		p := newPricing(t, 10000)
		assert.Equal(t, int64(10000), p.NegotiatedPrice().Cents())
		assert.Equal(t, int64(10000), p.Total().Cents())
		assert.Equal(t, int64(1000), p.Deposit().Cents())
	})

	t.Run("negative base price is rejected", func(t *testing.T) {
		_, err := booking.NewPricing(money.New(-1))
		require.ErrorIs(t, err, money.ErrNegativeAmount)
	})

	t.Run("floor price is 80 percent of base", func(t *testing.T) {
		p := newPricing(t, 10000)
		assert.Equal(t, int64(8000), p.FloorPrice().Cents())
	})

	t.Run("counter offer at the floor is accepted", func(t *testing.T) {
		p := newPricing(t, 10000)
		updated, err := p.WithCounterOffer(money.New(8000))
		require.NoError(t, err)
		require.NotNil(t, updated.CounterOffer())
		assert.Equal(t, int64(8000), updated.CounterOffer().Cents())
	})

	t.Run("counter offer below the floor is rejected", func(t *testing.T) {
		p := newPricing(t, 10000)
		_, err := p.WithCounterOffer(money.New(7999))
		require.ErrorIs(t, err, booking.ErrCounterOfferBelowFloor)
	})

	t.Run("settling the price consumes the counter offer", func(t *testing.T) {
		p := newPricing(t, 10000)
		p, err := p.WithCounterOffer(money.New(9000))
		require.NoError(t, err)
		require.NotNil(t, p.CounterOffer())

		p = p.WithNegotiatedPrice(money.New(9000))
		assert.Nil(t, p.CounterOffer())
	})

	t.Run("total and deposit follow the negotiated price", func(t *testing.T) {
		p := newPricing(t, 10000).WithNegotiatedPrice(money.New(9000))
		assert.Equal(t, int64(9000), p.Total().Cents())
		assert.Equal(t, int64(900), p.Deposit().Cents())
		assert.Equal(t, int64(10000), p.BasePrice().Cents())
	})

	t.Run("fees add onto the total but not the deposit", func(t *testing.T) {
		p := newPricing(t, 10000)
		p, err := p.WithFee(booking.Fee{Label: "travel", Amount: money.New(500)})
		require.NoError(t, err)
		p, err = p.WithFee(booking.Fee{Label: "hair extensions", Amount: money.New(1500)})
		require.NoError(t, err)

		assert.Equal(t, int64(2000), p.FeeTotal().Cents())
		assert.Equal(t, int64(12000), p.Total().Cents())
		assert.Equal(t, int64(1000), p.Deposit().Cents())
		assert.Len(t, p.Fees(), 2)
	})

	t.Run("negative fee is rejected", func(t *testing.T) {
		p := newPricing(t, 10000)
		_, err := p.WithFee(booking.Fee{Label: "discount", Amount: money.New(-100)})
		require.ErrorIs(t, err, booking.ErrNegativeFee)
	})

	t.Run("deposit rounds half up", func(t *testing.T) {
		p := newPricing(t, 10000).WithNegotiatedPrice(money.New(9995))
		// 10% of 99.95 is 9.995, rounded to 10.00
		assert.Equal(t, int64(1000), p.Deposit().Cents())
	})
}
