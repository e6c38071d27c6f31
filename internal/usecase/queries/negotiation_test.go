//go:build unit

package queries_test

import (
	"context"
	"testing"

	"glowbook/internal/domain/actor"
	"glowbook/internal/infra"
	"glowbook/internal/pkg/errs"
	"glowbook/internal/usecase/queries"
	"glowbook/tests/common/builder"
	queriesmock "glowbook/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newNegotiationQueries(t *testing.T) (queries.NegotiationQueries, *queriesmock.MockConversationReader) {
	t.Helper()
	ctrl := gomock.NewController(t)
	conversations := queriesmock.NewMockConversationReader(ctrl)
	return queries.NewNegotiationQueries(conversations, nil), conversations
}

func TestNegotiationQueries_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success: participant sees the pending offer", func(t *testing.T) {
		q, conversations := newNegotiationQueries(t)
		b := builder.NewConversationBuilder().WithBasePriceCents(10000)
		conv, offer, err := b.BuildDomainWithPendingOffer(9000)
		require.NoError(t, err)

		conversations.EXPECT().FindByID(ctx, gomock.Any(), conv.ID()).Return(conv, nil)

		view, err := q.GetByID(ctx, actor.New(b.StylistID, actor.RoleStylist), conv.ID())
		require.NoError(t, err)
		assert.Equal(t, conv.ID(), view.ID)
		assert.Equal(t, int64(8000), view.FloorPriceCents)
		require.NotNil(t, view.CurrentOffer)
		assert.Equal(t, offer.ID, view.CurrentOffer.ID)
		assert.Equal(t, int64(9000), view.CurrentOffer.AmountCents)
		assert.Equal(t, "pending", view.CurrentOffer.Status)
		require.Len(t, view.OfferHistory, 1)
		assert.True(t, view.Active)
	})

	t.Run("success: no current offer on a fresh conversation", func(t *testing.T) {
		q, conversations := newNegotiationQueries(t)
		b := builder.NewConversationBuilder()
		conv := b.BuildDomain()

		conversations.EXPECT().FindByID(ctx, gomock.Any(), conv.ID()).Return(conv, nil)

		view, err := q.GetByID(ctx, actor.New(b.CustomerID, actor.RoleCustomer), conv.ID())
		require.NoError(t, err)
		assert.Nil(t, view.CurrentOffer)
		assert.Empty(t, view.OfferHistory)
	})

	t.Run("error: outsider is rejected", func(t *testing.T) {
		q, conversations := newNegotiationQueries(t)
		conv := builder.NewConversationBuilder().BuildDomain()

		conversations.EXPECT().FindByID(ctx, gomock.Any(), conv.ID()).Return(conv, nil)

		_, err := q.GetByID(ctx, actor.New(uuid.New(), actor.RoleStylist), conv.ID())
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("error: not found maps to the conversation sentinel", func(t *testing.T) {
		q, conversations := newNegotiationQueries(t)
		id := uuid.New()

		conversations.EXPECT().FindByID(ctx, gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("conversation not found", nil, infra.KindNotFound))

		_, err := q.GetByID(ctx, actor.New(uuid.New(), actor.RoleCustomer), id)
		require.ErrorIs(t, err, errs.ErrConversationNotFound)
	})
}
