package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"glowbook/internal/domain/actor"
	"glowbook/internal/domain/booking"
	"glowbook/internal/domain/money"
	"glowbook/internal/domain/negotiation"
	"glowbook/internal/domain/payment"
	reqdto "glowbook/internal/handler/dto/request"
	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
	"glowbook/internal/pkg/clock"
	"glowbook/internal/pkg/errs"
	"glowbook/internal/usecase/queries"
	"glowbook/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	TopicBookingStatusChanged = "booking_status_changed"
	TopicOfferReceived        = "offer_received"
	TopicOfferResolved        = "offer_resolved"
	TopicPaymentStatusChanged = "payment_status_changed"
	TopicReminderDue          = "reminder_due"
)

type BookingCommands interface {
	CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, by actor.Actor) (*queries.BookingView, error)
	ChangeStatus(ctx context.Context, bookingID uuid.UUID, next booking.Status, by actor.Actor) (*queries.BookingView, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, by actor.Actor, reason, note string) (*queries.BookingView, error)
}

type bookingUseCaseImpl struct {
	bookingRepo      BookingRepository
	negotiationRepo  NegotiationRepository
	paymentRepo      PaymentRepository
	notificationRepo NotificationRepository
	bookingQueries   queries.BookingQueries
	pool             db.Pool
	clock            clock.Clock
}

func NewBookingUseCase(
	bookingRepo BookingRepository,
	negotiationRepo NegotiationRepository,
	paymentRepo PaymentRepository,
	notificationRepo NotificationRepository,
	bookingQueries queries.BookingQueries,
	pool db.Pool,
	clock clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		bookingRepo:      bookingRepo,
		negotiationRepo:  negotiationRepo,
		paymentRepo:      paymentRepo,
		notificationRepo: notificationRepo,
		bookingQueries:   bookingQueries,
		pool:             pool,
		clock:            clock,
	}
}

// CreateBooking opens the appointment record along with its negotiation
// conversation, so price offers have a home from the start.
func (u *bookingUseCaseImpl) CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, by actor.Actor) (*queries.BookingView, error) {
	now := u.clock.Now()

	b, err := req.ToDomain(now, by.ID)
	if err != nil {
		return nil, mapBookingDomainError(err)
	}

	conversation := negotiation.NewConversation(now, b.ID(), b.CustomerID(), b.StylistID(), b.Pricing().BasePrice())
	b.AttachConversation(conversation.ID())

	_, err = shared.WithDefaultRetry(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		if err := u.bookingRepo.Create(ctx, tx, b); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := u.negotiationRepo.CreateConversation(ctx, tx, conversation); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := u.bookingRepo.SetConversationID(ctx, tx, b.ID(), conversation.ID()); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := u.notifyBookingStatus(ctx, tx, b); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	return u.bookingQueries.GetByIDSystem(ctx, b.ID())
}

// ChangeStatus applies one lifecycle transition under the booking's
// compare-and-swap discipline. Completion additionally requires the linked
// payment to be in custody or settled.
func (u *bookingUseCaseImpl) ChangeStatus(ctx context.Context, bookingID uuid.UUID, next booking.Status, by actor.Actor) (*queries.BookingView, error) {
	now := u.clock.Now()

	_, err := shared.RunInTx(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		b, err := u.findBooking(ctx, tx, bookingID)
		if err != nil {
			return struct{}{}, err
		}
		from := b.Status()

		if next == booking.StatusCompleted {
			if err := u.ensureCompletionAllowed(ctx, tx, b); err != nil {
				return struct{}{}, err
			}
		}

		if err := b.Transition(next, by, now); err != nil {
			return struct{}{}, mapBookingDomainError(err)
		}
		if err := u.bookingRepo.SaveTransition(ctx, tx, b, from); err != nil {
			return struct{}{}, mapBookingRepoError(err)
		}
		if err := u.notifyBookingStatus(ctx, tx, b); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	return u.bookingQueries.GetByIDSystem(ctx, bookingID)
}

// CancelBooking evaluates the cancellation policy against the current clock
// and records its verdict. The transition never recomputes refund terms.
func (u *bookingUseCaseImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID, by actor.Actor, reason, note string) (*queries.BookingView, error) {
	now := u.clock.Now()

	_, err := shared.RunInTx(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		b, err := u.findBooking(ctx, tx, bookingID)
		if err != nil {
			return struct{}{}, err
		}
		from := b.Status()

		assessment := booking.AssessCancellation(b.Status(), b.AppointmentAt(), now, b.IsParticipant(by.ID))
		if err := b.Cancel(by, reason, note, assessment, now); err != nil {
			return struct{}{}, mapBookingDomainError(err)
		}
		if err := u.bookingRepo.SaveTransition(ctx, tx, b, from); err != nil {
			return struct{}{}, mapBookingRepoError(err)
		}
		if err := u.notifyBookingStatus(ctx, tx, b); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	return u.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (u *bookingUseCaseImpl) findBooking(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error) {
	b, err := u.bookingRepo.FindByID(ctx, q, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, nil
}

// ensureCompletionAllowed enforces the cross-entity rule that a booking only
// completes once its payment is held or completed. Violations are logged with
// full record context; they indicate a bug, not a user mistake.
func (u *bookingUseCaseImpl) ensureCompletionAllowed(ctx context.Context, q db.Querier, b *booking.Booking) error {
	if b.PaymentID() == nil {
		slog.Error("invariant violation: completing booking with no linked payment",
			"booking_id", b.ID(), "status", b.Status().String())
		return errs.ErrInvalidTransition
	}
	p, err := u.paymentRepo.FindByID(ctx, q, *b.PaymentID())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if p.Status() != payment.StatusHeld && p.Status() != payment.StatusCompleted {
		slog.Error("invariant violation: completing booking while payment not in custody",
			"booking_id", b.ID(), "payment_id", p.ID(), "payment_status", p.Status().String())
		return errs.ErrInvalidTransition
	}
	return nil
}

func (u *bookingUseCaseImpl) notifyBookingStatus(ctx context.Context, q db.Querier, b *booking.Booking) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id":  b.ID(),
		"customer_id": b.CustomerID(),
		"stylist_id":  b.StylistID(),
		"status":      b.Status().String(),
	})
	if err != nil {
		return err
	}
	return u.notificationRepo.CreateJob(ctx, q, TopicBookingStatusChanged, payload, u.clock.Now())
}

func mapBookingDomainError(err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidTransition), errors.Is(err, booking.ErrInvalidStatusValue),
		errors.Is(err, booking.ErrCancelViaTransition):
		return errs.Mark(err, errs.ErrInvalidTransition)
	case errors.Is(err, booking.ErrUnauthorizedParty):
		return errs.Mark(err, errs.ErrUnauthorized)
	case errors.Is(err, booking.ErrMissingReason):
		return errs.Mark(err, errs.ErrCancelReasonNeeded)
	case errors.Is(err, booking.ErrCancelDisallowed), errors.Is(err, booking.ErrAlreadyCancelled):
		return errs.Mark(err, errs.ErrCancelNotAllowed)
	case errors.Is(err, booking.ErrAppointmentInPast):
		return errs.Mark(err, errs.ErrAppointmentInPast)
	case errors.Is(err, booking.ErrInvalidDuration):
		return errs.Mark(err, errs.ErrInvalidDuration)
	case errors.Is(err, booking.ErrCounterOfferBelowFloor):
		return errs.Mark(err, errs.ErrOfferTooLow)
	case errors.Is(err, money.ErrNegativeAmount):
		return errs.Mark(err, errs.ErrInvalidAmount)
	default:
		return err
	}
}

func mapBookingRepoError(err error) error {
	switch {
	case infra.IsKind(err, infra.KindStaleStatus):
		return errs.Mark(err, errs.ErrConcurrentModification)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrBookingNotFound)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
