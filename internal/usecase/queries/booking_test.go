//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"

	"glowbook/internal/domain/actor"
	"glowbook/internal/domain/booking"
	"glowbook/internal/infra"
	"glowbook/internal/pkg/clock"
	"glowbook/internal/pkg/errs"
	"glowbook/internal/usecase/queries"
	"glowbook/tests/common/builder"
	queriesmock "glowbook/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errDBConnectionLost = errors.New("database connection lost")

func newBookingQueries(t *testing.T) (queries.BookingQueries, *queriesmock.MockBookingReader, *queriesmock.MockConversationReader) {
	t.Helper()
	ctrl := gomock.NewController(t)
	bookings := queriesmock.NewMockBookingReader(ctrl)
	conversations := queriesmock.NewMockConversationReader(ctrl)
	return queries.NewBookingQueries(bookings, conversations, nil, clock.NewRealClock()), bookings, conversations
}

func TestBookingQueries_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success: participant sees the booking view", func(t *testing.T) {
		q, bookings, _ := newBookingQueries(t)
		b := builder.NewBookingBuilder()
		domainBooking, err := b.BuildDomain()
		require.NoError(t, err)

		bookings.EXPECT().FindByID(ctx, gomock.Any(), domainBooking.ID()).
			Return(domainBooking, nil)

		view, err := q.GetByID(ctx, actor.New(b.CustomerID, actor.RoleCustomer), domainBooking.ID())
		require.NoError(t, err)
		assert.Equal(t, domainBooking.ID(), view.ID)
		assert.Equal(t, b.BasePriceCents, view.BasePriceCents)
		assert.Equal(t, "pending", view.Status)
		assert.Equal(t, domainBooking.Pricing().Deposit().Cents(), view.DepositCents)
	})

	t.Run("success: admin sees any booking", func(t *testing.T) {
		q, bookings, _ := newBookingQueries(t)
		domainBooking, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		bookings.EXPECT().FindByID(ctx, gomock.Any(), domainBooking.ID()).
			Return(domainBooking, nil)

		_, err = q.GetByID(ctx, actor.New(uuid.New(), actor.RoleAdmin), domainBooking.ID())
		require.NoError(t, err)
	})

	t.Run("error: outsider is rejected", func(t *testing.T) {
		q, bookings, _ := newBookingQueries(t)
		domainBooking, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		bookings.EXPECT().FindByID(ctx, gomock.Any(), domainBooking.ID()).
			Return(domainBooking, nil)

		_, err = q.GetByID(ctx, actor.New(uuid.New(), actor.RoleCustomer), domainBooking.ID())
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("error: not found maps to the booking sentinel", func(t *testing.T) {
		q, bookings, _ := newBookingQueries(t)
		id := uuid.New()

		bookings.EXPECT().FindByID(ctx, gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		_, err := q.GetByID(ctx, actor.New(uuid.New(), actor.RoleCustomer), id)
		require.ErrorIs(t, err, errs.ErrBookingNotFound)
	})

	t.Run("error: database failure maps to the database sentinel", func(t *testing.T) {
		q, bookings, _ := newBookingQueries(t)
		id := uuid.New()

		bookings.EXPECT().FindByID(ctx, gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("query failed", errDBConnectionLost))

		_, err := q.GetByID(ctx, actor.New(uuid.New(), actor.RoleCustomer), id)
		require.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
	})
}

func TestBookingQueries_GetByIDSystem(t *testing.T) {
	ctx := context.Background()

	t.Run("skips the participant check", func(t *testing.T) {
		q, bookings, _ := newBookingQueries(t)
		domainBooking, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		bookings.EXPECT().FindByID(ctx, gomock.Any(), domainBooking.ID()).
			Return(domainBooking, nil)

		view, err := q.GetByIDSystem(ctx, domainBooking.ID())
		require.NoError(t, err)
		assert.Equal(t, domainBooking.ID(), view.ID)
	})
}

func TestBookingQueries_ListByParticipant(t *testing.T) {
	ctx := context.Background()
	partyID := uuid.New()

	t.Run("success: maps bookings to list items", func(t *testing.T) {
		q, bookings, _ := newBookingQueries(t)
		b := builder.NewBookingBuilder().WithCustomerID(partyID)
		domainBooking, err := b.BuildDomain()
		require.NoError(t, err)

		bookings.EXPECT().FindByParticipant(ctx, gomock.Any(), partyID, int32(20), int32(0)).
			Return([]*booking.Booking{domainBooking}, nil)

		items, err := q.ListByParticipant(ctx, partyID, 20, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, domainBooking.ID(), items[0].ID)
		assert.Equal(t, domainBooking.Pricing().Total().Cents(), items[0].TotalCents)
	})

	t.Run("success: out-of-range limit is clamped to the default", func(t *testing.T) {
		q, bookings, _ := newBookingQueries(t)

		bookings.EXPECT().FindByParticipant(ctx, gomock.Any(), partyID, int32(50), int32(0)).
			Return(nil, nil)

		_, err := q.ListByParticipant(ctx, partyID, 500, 0)
		require.NoError(t, err)
	})

	t.Run("error: database failure", func(t *testing.T) {
		q, bookings, _ := newBookingQueries(t)

		bookings.EXPECT().FindByParticipant(ctx, gomock.Any(), partyID, int32(20), int32(0)).
			Return(nil, errDBConnectionLost)

		_, err := q.ListByParticipant(ctx, partyID, 20, 0)
		require.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
	})
}
