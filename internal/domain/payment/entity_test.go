//go:build unit

package payment_test

import (
	"testing"
	"time"

	"glowbook/internal/domain/money"
	"glowbook/internal/domain/payment"
	"glowbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFees(t *testing.T) {
	cases := []struct {
		name         string
		amountCents  int64
		method       payment.Method
		wantPlatform int64
		wantGateway  int64
	}{
		{"mobile money", 10000, payment.MethodMobileMoney, 500, 150},
		{"card", 10000, payment.MethodCard, 500, 290},
		{"gateway fee rounds half up", 10100, payment.MethodMobileMoney, 505, 152},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fees := payment.ComputeFees(money.New(tc.amountCents), tc.method)
			assert.Equal(t, tc.wantPlatform, fees.Platform.Cents())
			assert.Equal(t, tc.wantGateway, fees.Gateway.Cents())
			assert.Equal(t, tc.wantPlatform+tc.wantGateway, fees.Total().Cents())
		})
	}
}

func TestNewPayment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, payment.StatusPending, p.Status())
		assert.Equal(t, int64(500), p.PaymentFees().Platform.Cents())
		assert.Equal(t, int64(150), p.PaymentFees().Gateway.Cents())
		assert.Equal(t, int64(9350), p.NetAmount().Cents())
		assert.NotEqual(t, uuid.Nil, p.IdempotencyKey())

		require.Len(t, p.Timeline(), 1)
		assert.Equal(t, payment.StatusPending, p.Timeline()[0].Status)
		assert.Equal(t, "payment created", p.Timeline()[0].Description)
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		_, err := builder.NewPaymentBuilder().WithAmountCents(0).BuildDomain()
		require.ErrorIs(t, err, money.ErrNegativeAmount)
	})

	t.Run("currency defaults to USD", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		b.Currency = ""
		p, err := b.BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "USD", p.Currency())
	})
}

func TestHold(t *testing.T) {
	t.Run("captures funds into escrow and arms auto release", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, p.MarkProcessing("txn-1", b.Now))
		require.Equal(t, payment.StatusProcessing, p.Status())
		require.NotNil(t, p.GatewayTxnID())
		assert.Equal(t, "txn-1", *p.GatewayTxnID())

		require.NoError(t, p.Hold(b.Now))
		assert.Equal(t, payment.StatusHeld, p.Status())

		escrow := p.EscrowState()
		require.NotNil(t, escrow.HeldAt)
		assert.Equal(t, b.Now, *escrow.HeldAt)
		require.NotNil(t, escrow.ReleaseScheduledAt)
		assert.Equal(t, b.Now.Add(payment.AutoReleaseWindow), *escrow.ReleaseScheduledAt)
		assert.Equal(t, "service_completed", escrow.ReleaseConditions)
	})

	t.Run("cannot hold before the gateway accepts", func(t *testing.T) {
		p, err := builder.NewPaymentBuilder().BuildDomain()
		require.NoError(t, err)
		require.ErrorIs(t, p.Hold(time.Now()), payment.ErrInvalidTransition)
	})

	t.Run("direct settlement bypasses escrow", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, p.MarkProcessing("txn-2", b.Now))
		require.NoError(t, p.CompleteDirect(b.Now))
		assert.Equal(t, payment.StatusCompleted, p.Status())
		assert.Nil(t, p.EscrowState().HeldAt)
	})
}

func TestRelease(t *testing.T) {
	releaser := uuid.New()

	t.Run("pays out held funds once the booking is completed", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomainHeld("txn-3")
		require.NoError(t, err)
		releaseAt := b.Now.Add(time.Hour)

		require.NoError(t, p.Release(releaser, "service_completed", true, releaseAt))
		assert.Equal(t, payment.StatusCompleted, p.Status())

		escrow := p.EscrowState()
		require.NotNil(t, escrow.ReleasedAt)
		assert.Equal(t, releaseAt, *escrow.ReleasedAt)
		require.NotNil(t, escrow.ReleasedBy)
		assert.Equal(t, releaser, *escrow.ReleasedBy)
		assert.Equal(t, "service_completed", escrow.ReleaseReason)

		entries := p.DrainPendingEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, "escrow released: service_completed", entries[0].Description)
	})

	t.Run("booking not completed", func(t *testing.T) {
		p, err := builder.NewPaymentBuilder().BuildDomainHeld("txn-4")
		require.NoError(t, err)
		require.ErrorIs(t, p.Release(releaser, "manual", false, time.Now()), payment.ErrEscrowNotReady)
	})

	t.Run("not held", func(t *testing.T) {
		p, err := builder.NewPaymentBuilder().BuildDomain()
		require.NoError(t, err)
		require.ErrorIs(t, p.Release(releaser, "manual", true, time.Now()), payment.ErrEscrowNotReady)
	})
}

func TestAutoRelease(t *testing.T) {
	t.Run("releases at the scheduled time", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomainHeld("txn-5")
		require.NoError(t, err)
		dueAt := b.Now.Add(payment.AutoReleaseWindow)

		require.True(t, p.IsDueForAutoRelease(dueAt))
		require.NoError(t, p.AutoRelease(true, dueAt))
		assert.Equal(t, payment.StatusCompleted, p.Status())
		assert.Equal(t, payment.ReleaseReasonTimeout, p.EscrowState().ReleaseReason)

		entries := p.DrainPendingEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, "escrow released: automatic_timeout", entries[0].Description)
	})

	t.Run("too early", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomainHeld("txn-6")
		require.NoError(t, err)
		early := b.Now.Add(payment.AutoReleaseWindow - time.Second)

		assert.False(t, p.IsDueForAutoRelease(early))
		require.ErrorIs(t, p.AutoRelease(true, early), payment.ErrEscrowNotReady)
		assert.Equal(t, payment.StatusHeld, p.Status())
	})

	t.Run("booking not completed", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomainHeld("txn-7")
		require.NoError(t, err)

		require.ErrorIs(t, p.AutoRelease(false, b.Now.Add(payment.AutoReleaseWindow)), payment.ErrEscrowNotReady)
	})

	t.Run("second release is a no-op error", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomainHeld("txn-8")
		require.NoError(t, err)
		dueAt := b.Now.Add(payment.AutoReleaseWindow)

		require.NoError(t, p.AutoRelease(true, dueAt))
		p.DrainPendingEntries()

		require.ErrorIs(t, p.AutoRelease(true, dueAt.Add(time.Minute)), payment.ErrEscrowNotReady)
		assert.Empty(t, p.DrainPendingEntries())
	})
}

func TestApplyRefund(t *testing.T) {
	t.Run("refunds held funds and records the sub-record", func(t *testing.T) {
		b := builder.NewPaymentBuilder().WithAmountCents(10000)
		p, err := b.BuildDomainHeld("txn-9")
		require.NoError(t, err)
		refundAt := b.Now.Add(time.Hour)

		require.NoError(t, p.ApplyRefund(money.New(5000), "customer cancelled", "rf-1", refundAt))
		assert.Equal(t, payment.StatusRefunded, p.Status())

		refund := p.RefundRecord()
		require.NotNil(t, refund)
		assert.Equal(t, int64(5000), refund.Amount.Cents())
		assert.Equal(t, "customer cancelled", refund.Reason)
		assert.Equal(t, "rf-1", refund.GatewayRef)
		assert.Equal(t, refundAt, refund.At)
	})

	t.Run("refund larger than the payment", func(t *testing.T) {
		p, err := builder.NewPaymentBuilder().WithAmountCents(10000).BuildDomainHeld("txn-10")
		require.NoError(t, err)
		require.ErrorIs(t, p.ApplyRefund(money.New(10001), "x", "", time.Now()), payment.ErrRefundTooLarge)
	})

	t.Run("negative refund", func(t *testing.T) {
		p, err := builder.NewPaymentBuilder().BuildDomainHeld("txn-11")
		require.NoError(t, err)
		require.ErrorIs(t, p.ApplyRefund(money.New(-1), "x", "", time.Now()), payment.ErrNegativeRefund)
	})

	t.Run("refund from pending", func(t *testing.T) {
		p, err := builder.NewPaymentBuilder().BuildDomain()
		require.NoError(t, err)
		require.ErrorIs(t, p.ApplyRefund(money.New(100), "x", "", time.Now()), payment.ErrRefundNotAllowed)
	})
}

func TestDispute(t *testing.T) {
	t.Run("open and resolve to refunded", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomainHeld("txn-12")
		require.NoError(t, err)

		require.NoError(t, p.OpenDispute("no-show claim", b.Now.Add(time.Hour)))
		assert.Equal(t, payment.StatusDisputed, p.Status())

		require.NoError(t, p.ResolveDispute(payment.StatusRefunded, "customer upheld", b.Now.Add(2*time.Hour)))
		assert.Equal(t, payment.StatusRefunded, p.Status())
	})

	t.Run("resolve requires an open dispute", func(t *testing.T) {
		p, err := builder.NewPaymentBuilder().BuildDomainHeld("txn-13")
		require.NoError(t, err)
		require.ErrorIs(t, p.ResolveDispute(payment.StatusCompleted, "x", time.Now()), payment.ErrNotDisputed)
	})

	t.Run("dispute cannot resolve to held", func(t *testing.T) {
		p, err := builder.NewPaymentBuilder().BuildDomainHeld("txn-14")
		require.NoError(t, err)
		require.NoError(t, p.OpenDispute("claim", time.Now()))
		require.ErrorIs(t, p.ResolveDispute(payment.StatusHeld, "x", time.Now()), payment.ErrInvalidDisputeOutcome)
	})
}

func TestTimeline(t *testing.T) {
	t.Run("pending entries drain once", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, p.MarkProcessing("txn-15", b.Now))
		entries := p.DrainPendingEntries()
		require.Len(t, entries, 2)
		assert.Empty(t, p.DrainPendingEntries())
		assert.Len(t, p.Timeline(), 2)
	})

	t.Run("gateway events append without changing status", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomainHeld("txn-16")
		require.NoError(t, err)

		p.RecordGatewayEvent("gateway poll: still held", b.Now.Add(time.Minute))
		assert.Equal(t, payment.StatusHeld, p.Status())

		entries := p.DrainPendingEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, payment.StatusHeld, entries[0].Status)
		assert.Equal(t, "gateway poll: still held", entries[0].Description)
	})
}
