//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"glowbook/internal/domain/actor"
	"glowbook/internal/domain/booking"
	"glowbook/internal/infra"
	"glowbook/internal/pkg/clock"
	"glowbook/internal/pkg/errs"
	"glowbook/internal/usecase/commands"
	"glowbook/tests/common/builder"
	"glowbook/tests/common/testutil"
	commandsmock "glowbook/tests/mock/commands"
	queriesmock "glowbook/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type bookingCommandMocks struct {
	bookingRepo      *commandsmock.MockBookingRepository
	negotiationRepo  *commandsmock.MockNegotiationRepository
	paymentRepo      *commandsmock.MockPaymentRepository
	notificationRepo *commandsmock.MockNotificationRepository
	bookingQueries   *queriesmock.MockBookingQueries
}

func newBookingUseCase(t *testing.T, now time.Time) (commands.BookingCommands, bookingCommandMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := bookingCommandMocks{
		bookingRepo:      commandsmock.NewMockBookingRepository(ctrl),
		negotiationRepo:  commandsmock.NewMockNegotiationRepository(ctrl),
		paymentRepo:      commandsmock.NewMockPaymentRepository(ctrl),
		notificationRepo: commandsmock.NewMockNotificationRepository(ctrl),
		bookingQueries:   queriesmock.NewMockBookingQueries(ctrl),
	}
	uc := commands.NewBookingUseCase(
		m.bookingRepo,
		m.negotiationRepo,
		m.paymentRepo,
		m.notificationRepo,
		m.bookingQueries,
		testutil.NewStubPool(),
		clock.NewMockClock(now),
	)
	return uc, m
}

func TestBookingCommands_ChangeStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// in-progress booking with a linked payment, ready to complete
	newReadyBooking := func(t *testing.T, paymentID uuid.UUID) (*booking.Booking, actor.Actor) {
		t.Helper()
		b := builder.NewBookingBuilder().WithNow(now).WithAppointmentAt(now.Add(2 * time.Hour))
		bk, err := b.BuildDomain()
		require.NoError(t, err)
		stylist := actor.New(b.StylistID, actor.RoleStylist)
		require.NoError(t, bk.Transition(booking.StatusAccepted, stylist, now))
		require.NoError(t, bk.Transition(booking.StatusInProgress, stylist, now))
		bk.AttachPayment(paymentID)
		return bk, stylist
	}

	t.Run("completion requires the payment to be in custody", func(t *testing.T) {
		paymentID := uuid.New()
		bk, stylist := newReadyBooking(t, paymentID)
		pendingPayment, err := builder.NewPaymentBuilder().WithNow(now).BuildDomain()
		require.NoError(t, err)

		uc, m := newBookingUseCase(t, now)
		m.bookingRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), bk.ID()).Return(bk, nil)
		m.paymentRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), paymentID).Return(pendingPayment, nil)

		_, err = uc.ChangeStatus(context.Background(), bk.ID(), booking.StatusCompleted, stylist)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, booking.StatusInProgress, bk.Status())
	})

	t.Run("completion without a linked payment is blocked", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithNow(now).WithAppointmentAt(now.Add(2 * time.Hour))
		bk, err := b.BuildDomain()
		require.NoError(t, err)
		stylist := actor.New(b.StylistID, actor.RoleStylist)
		require.NoError(t, bk.Transition(booking.StatusAccepted, stylist, now))
		require.NoError(t, bk.Transition(booking.StatusInProgress, stylist, now))

		uc, m := newBookingUseCase(t, now)
		m.bookingRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), bk.ID()).Return(bk, nil)

		_, err = uc.ChangeStatus(context.Background(), bk.ID(), booking.StatusCompleted, stylist)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("completion succeeds with a held payment", func(t *testing.T) {
		paymentID := uuid.New()
		bk, stylist := newReadyBooking(t, paymentID)
		heldPayment, err := builder.NewPaymentBuilder().WithNow(now).BuildDomainHeld("txn-1")
		require.NoError(t, err)

		uc, m := newBookingUseCase(t, now)
		m.bookingRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), bk.ID()).Return(bk, nil)
		m.paymentRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), paymentID).Return(heldPayment, nil)
		m.bookingRepo.EXPECT().SaveTransition(gomock.Any(), gomock.Any(), bk, booking.StatusInProgress).Return(nil)
		m.notificationRepo.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), commands.TopicBookingStatusChanged, gomock.Any(), now).
			Return(nil)
		m.bookingQueries.EXPECT().GetByIDSystem(gomock.Any(), bk.ID()).Return(builder.NewBookingBuilder().BuildView(), nil)

		view, err := uc.ChangeStatus(context.Background(), bk.ID(), booking.StatusCompleted, stylist)

		require.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, booking.StatusCompleted, bk.Status())
	})

	t.Run("a concurrent writer surfaces as a conflict", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithNow(now).WithAppointmentAt(now.Add(2 * time.Hour))
		bk, err := b.BuildDomain()
		require.NoError(t, err)
		stylist := actor.New(b.StylistID, actor.RoleStylist)

		uc, m := newBookingUseCase(t, now)
		m.bookingRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), bk.ID()).Return(bk, nil)
		m.bookingRepo.EXPECT().
			SaveTransition(gomock.Any(), gomock.Any(), bk, booking.StatusPending).
			Return(infra.WrapRepoErr("booking status changed concurrently", nil, infra.KindStaleStatus))

		_, err = uc.ChangeStatus(context.Background(), bk.ID(), booking.StatusAccepted, stylist)

		require.ErrorIs(t, err, errs.ErrConcurrentModification)
	})

	t.Run("cancelled is not reachable through the status change", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithNow(now).WithAppointmentAt(now.Add(2 * time.Hour))
		bk, err := b.BuildDomain()
		require.NoError(t, err)
		customer := actor.New(b.CustomerID, actor.RoleCustomer)

		uc, m := newBookingUseCase(t, now)
		m.bookingRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), bk.ID()).Return(bk, nil)

		_, err = uc.ChangeStatus(context.Background(), bk.ID(), booking.StatusCancelled, customer)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, booking.StatusPending, bk.Status())
		assert.Nil(t, bk.Cancellation())
	})

	t.Run("missing booking", func(t *testing.T) {
		uc, m := newBookingUseCase(t, now)
		id := uuid.New()
		m.bookingRepo.EXPECT().
			FindByID(gomock.Any(), gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		_, err := uc.ChangeStatus(context.Background(), id, booking.StatusAccepted, actor.New(uuid.New(), actor.RoleStylist))

		require.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

func TestBookingCommands_CancelBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	newPendingBooking := func(t *testing.T, appointmentIn time.Duration) (*booking.Booking, actor.Actor) {
		t.Helper()
		b := builder.NewBookingBuilder().WithNow(now).WithAppointmentAt(now.Add(appointmentIn))
		bk, err := b.BuildDomain()
		require.NoError(t, err)
		return bk, actor.New(b.CustomerID, actor.RoleCustomer)
	}

	t.Run("records the policy verdict with the cancellation", func(t *testing.T) {
		bk, customer := newPendingBooking(t, 30*time.Hour)

		uc, m := newBookingUseCase(t, now)
		m.bookingRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), bk.ID()).Return(bk, nil)
		m.bookingRepo.EXPECT().SaveTransition(gomock.Any(), gomock.Any(), bk, booking.StatusPending).Return(nil)
		m.notificationRepo.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), commands.TopicBookingStatusChanged, gomock.Any(), now).
			Return(nil)
		m.bookingQueries.EXPECT().GetByIDSystem(gomock.Any(), bk.ID()).Return(builder.NewBookingBuilder().BuildView(), nil)

		_, err := uc.CancelBooking(context.Background(), bk.ID(), customer, "schedule conflict", "rebooking next week")

		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, bk.Status())
		c := bk.Cancellation()
		require.NotNil(t, c)
		assert.Equal(t, "schedule conflict", c.Reason)
		assert.Equal(t, 100, c.RefundPercentage)
		assert.False(t, c.WithPenalty)
		assert.Equal(t, now, c.At)
	})

	t.Run("short notice takes the penalty tier", func(t *testing.T) {
		bk, customer := newPendingBooking(t, 10*time.Hour)

		uc, m := newBookingUseCase(t, now)
		m.bookingRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), bk.ID()).Return(bk, nil)
		m.bookingRepo.EXPECT().SaveTransition(gomock.Any(), gomock.Any(), bk, booking.StatusPending).Return(nil)
		m.notificationRepo.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), commands.TopicBookingStatusChanged, gomock.Any(), now).
			Return(nil)
		m.bookingQueries.EXPECT().GetByIDSystem(gomock.Any(), bk.ID()).Return(builder.NewBookingBuilder().BuildView(), nil)

		_, err := uc.CancelBooking(context.Background(), bk.ID(), customer, "ran out of budget", "")

		require.NoError(t, err)
		c := bk.Cancellation()
		require.NotNil(t, c)
		assert.Equal(t, 50, c.RefundPercentage)
		assert.True(t, c.WithPenalty)
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		bk, customer := newPendingBooking(t, 30*time.Hour)

		uc, m := newBookingUseCase(t, now)
		m.bookingRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), bk.ID()).Return(bk, nil)

		_, err := uc.CancelBooking(context.Background(), bk.ID(), customer, "", "")

		require.ErrorIs(t, err, errs.ErrCancelReasonNeeded)
		assert.Equal(t, booking.StatusPending, bk.Status())
	})
}
