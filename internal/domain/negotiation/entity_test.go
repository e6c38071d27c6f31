//go:build unit

package negotiation_test

import (
	"testing"
	"time"

	"glowbook/internal/domain/money"
	"glowbook/internal/domain/negotiation"
	"glowbook/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropose(t *testing.T) {
	t.Run("offer at the floor opens a pending offer", func(t *testing.T) {
		b := builder.NewConversationBuilder().WithBasePriceCents(10000)
		conv := b.BuildDomain()
		now := b.Now

		offer, err := conv.Propose(b.CustomerID, money.New(8000), negotiation.DefaultOfferTTL, now)
		require.NoError(t, err)
		require.NotNil(t, offer)

		assert.Equal(t, int64(8000), offer.Amount.Cents())
		assert.Equal(t, b.CustomerID, offer.OfferedBy)
		assert.Equal(t, now.Add(negotiation.DefaultOfferTTL), offer.ExpiresAt)

		pending, ok := conv.State().(negotiation.PendingOffer)
		require.True(t, ok)
		assert.Equal(t, offer.ID, pending.Offer.ID)
		require.Len(t, conv.History(), 1)
		assert.Equal(t, negotiation.OfferPending, conv.History()[0].Status)
	})

	t.Run("offer below the floor is rejected", func(t *testing.T) {
		b := builder.NewConversationBuilder().WithBasePriceCents(10000)
		conv := b.BuildDomain()

		_, err := conv.Propose(b.CustomerID, money.New(7999), negotiation.DefaultOfferTTL, b.Now)
		require.ErrorIs(t, err, negotiation.ErrOfferTooLow)
		assert.Empty(t, conv.History())
	})

	t.Run("second offer while one is pending is rejected", func(t *testing.T) {
		b := builder.NewConversationBuilder()
		conv, _, err := b.BuildDomainWithPendingOffer(9000)
		require.NoError(t, err)

		_, err = conv.Propose(b.StylistID, money.New(9500), negotiation.DefaultOfferTTL, b.Now)
		require.ErrorIs(t, err, negotiation.ErrOfferInProgress)
	})

	t.Run("outsider cannot propose", func(t *testing.T) {
		b := builder.NewConversationBuilder()
		conv := b.BuildDomain()

		_, err := conv.Propose(builder.NewConversationBuilder().CustomerID, money.New(9000), negotiation.DefaultOfferTTL, b.Now)
		require.ErrorIs(t, err, negotiation.ErrNotParticipant)
	})

	t.Run("closed conversation rejects offers", func(t *testing.T) {
		b := builder.NewConversationBuilder()
		conv, _, err := b.BuildDomainWithPendingOffer(9000)
		require.NoError(t, err)

		_, err = conv.Respond(b.StylistID, negotiation.DecisionAccepted, nil, b.Now.Add(time.Minute))
		require.NoError(t, err)

		_, err = conv.Propose(b.CustomerID, money.New(9500), negotiation.DefaultOfferTTL, b.Now.Add(2*time.Minute))
		require.ErrorIs(t, err, negotiation.ErrClosed)
	})
}

func TestRespond(t *testing.T) {
	t.Run("acceptance records the agreed price and closes the negotiation", func(t *testing.T) {
		b := builder.NewConversationBuilder().WithBasePriceCents(10000)
		conv, offer, err := b.BuildDomainWithPendingOffer(8500)
		require.NoError(t, err)
		respondAt := b.Now.Add(time.Hour)

		outcome, err := conv.Respond(b.StylistID, negotiation.DecisionAccepted, nil, respondAt)
		require.NoError(t, err)
		require.NotNil(t, outcome)

		assert.Equal(t, offer.ID, outcome.ResolvedOffer.ID)
		require.NotNil(t, outcome.AgreedPrice)
		assert.Equal(t, int64(8500), outcome.AgreedPrice.Cents())
		assert.Nil(t, outcome.CounterOffer)

		require.NotNil(t, conv.FinalAgreedPrice())
		assert.Equal(t, int64(8500), conv.FinalAgreedPrice().Cents())
		require.NotNil(t, conv.AgreedAt())
		assert.Equal(t, respondAt, *conv.AgreedAt())
		assert.False(t, conv.IsActive())

		resolved, ok := conv.State().(negotiation.ResolvedOffer)
		require.True(t, ok)
		assert.Equal(t, negotiation.OfferAccepted, resolved.Outcome)
	})

	t.Run("rejection with a counter opens the counter atomically", func(t *testing.T) {
		b := builder.NewConversationBuilder().WithBasePriceCents(10000)
		conv, first, err := b.BuildDomainWithPendingOffer(8000)
		require.NoError(t, err)
		counter := money.New(9000)

		outcome, err := conv.Respond(b.StylistID, negotiation.DecisionRejected, &counter, b.Now.Add(time.Minute))
		require.NoError(t, err)

		assert.Equal(t, first.ID, outcome.ResolvedOffer.ID)
		assert.Nil(t, outcome.AgreedPrice)
		require.NotNil(t, outcome.CounterOffer)
		assert.Equal(t, int64(9000), outcome.CounterOffer.Amount.Cents())
		assert.Equal(t, b.StylistID, outcome.CounterOffer.OfferedBy)

		assert.True(t, conv.IsActive())
		pending, ok := conv.State().(negotiation.PendingOffer)
		require.True(t, ok)
		assert.Equal(t, outcome.CounterOffer.ID, pending.Offer.ID)
		require.Len(t, conv.History(), 2)
		assert.Equal(t, negotiation.OfferRejected, conv.History()[0].Status)
		assert.Equal(t, negotiation.OfferPending, conv.History()[1].Status)
	})

	t.Run("back and forth until acceptance", func(t *testing.T) {
		b := builder.NewConversationBuilder().WithBasePriceCents(10000)
		conv, _, err := b.BuildDomainWithPendingOffer(8000)
		require.NoError(t, err)

		counter := money.New(9000)
		outcome, err := conv.Respond(b.StylistID, negotiation.DecisionRejected, &counter, b.Now.Add(time.Minute))
		require.NoError(t, err)
		require.NotNil(t, outcome.CounterOffer)

		outcome, err = conv.Respond(b.CustomerID, negotiation.DecisionAccepted, nil, b.Now.Add(2*time.Minute))
		require.NoError(t, err)
		require.NotNil(t, outcome.AgreedPrice)
		assert.Equal(t, int64(9000), outcome.AgreedPrice.Cents())
		assert.False(t, conv.IsActive())
	})

	t.Run("cannot respond to own offer", func(t *testing.T) {
		b := builder.NewConversationBuilder()
		conv, _, err := b.BuildDomainWithPendingOffer(9000)
		require.NoError(t, err)

		_, err = conv.Respond(b.CustomerID, negotiation.DecisionAccepted, nil, b.Now.Add(time.Minute))
		require.ErrorIs(t, err, negotiation.ErrOwnOffer)
	})

	t.Run("late response to an expired offer fails", func(t *testing.T) {
		b := builder.NewConversationBuilder()
		conv, _, err := b.BuildDomainWithPendingOffer(9000)
		require.NoError(t, err)

		_, err = conv.Respond(b.StylistID, negotiation.DecisionAccepted, nil, b.Now.Add(negotiation.DefaultOfferTTL+time.Second))
		require.ErrorIs(t, err, negotiation.ErrOfferExpired)
	})

	t.Run("counter offer cannot accompany acceptance", func(t *testing.T) {
		b := builder.NewConversationBuilder()
		conv, _, err := b.BuildDomainWithPendingOffer(9000)
		require.NoError(t, err)
		counter := money.New(9500)

		_, err = conv.Respond(b.StylistID, negotiation.DecisionAccepted, &counter, b.Now.Add(time.Minute))
		require.ErrorIs(t, err, negotiation.ErrCounterOnAccept)
	})

	t.Run("counter below the floor is rejected", func(t *testing.T) {
		b := builder.NewConversationBuilder().WithBasePriceCents(10000)
		conv, _, err := b.BuildDomainWithPendingOffer(8000)
		require.NoError(t, err)
		counter := money.New(7000)

		_, err = conv.Respond(b.StylistID, negotiation.DecisionRejected, &counter, b.Now.Add(time.Minute))
		require.ErrorIs(t, err, negotiation.ErrOfferTooLow)
	})

	t.Run("no pending offer to respond to", func(t *testing.T) {
		b := builder.NewConversationBuilder()
		conv := b.BuildDomain()

		_, err := conv.Respond(b.StylistID, negotiation.DecisionAccepted, nil, b.Now)
		require.ErrorIs(t, err, negotiation.ErrNoActiveOffer)
	})
}

func TestExpire(t *testing.T) {
	t.Run("resolves a pending offer past its deadline", func(t *testing.T) {
		b := builder.NewConversationBuilder()
		conv, offer, err := b.BuildDomainWithPendingOffer(9000)
		require.NoError(t, err)

		expired, ok := conv.Expire(b.Now.Add(negotiation.DefaultOfferTTL + time.Second))
		require.True(t, ok)
		assert.Equal(t, offer.ID, expired.ID)

		resolved, stateOK := conv.State().(negotiation.ResolvedOffer)
		require.True(t, stateOK)
		assert.Equal(t, negotiation.OfferExpired, resolved.Outcome)
		assert.True(t, conv.IsActive())
	})

	t.Run("does nothing before the deadline", func(t *testing.T) {
		b := builder.NewConversationBuilder()
		conv, _, err := b.BuildDomainWithPendingOffer(9000)
		require.NoError(t, err)

		_, ok := conv.Expire(b.Now.Add(time.Hour))
		assert.False(t, ok)
	})

	t.Run("negotiation stays open for new offers after expiry", func(t *testing.T) {
		b := builder.NewConversationBuilder()
		conv, _, err := b.BuildDomainWithPendingOffer(9000)
		require.NoError(t, err)

		after := b.Now.Add(negotiation.DefaultOfferTTL + time.Second)
		_, ok := conv.Expire(after)
		require.True(t, ok)

		_, err = conv.Propose(b.StylistID, money.New(9500), negotiation.DefaultOfferTTL, after)
		require.NoError(t, err)
	})
}
