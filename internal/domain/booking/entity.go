package booking

import (
	"errors"
	"time"

	"glowbook/internal/domain/actor"
	"glowbook/internal/domain/money"

	"github.com/google/uuid"
)

// Bookings left pending this long are flagged for follow-up by the sweeper.
const AutoConfirmWindow = 24 * time.Hour

var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrUnauthorizedParty   = errors.New("acting party is not a booking participant")
	ErrMissingReason       = errors.New("cancellation reason is required")
	ErrAppointmentInPast   = errors.New("appointment time must be in the future")
	ErrInvalidDuration     = errors.New("service duration must be positive")
	ErrCancelDisallowed    = errors.New("cancellation disallowed by policy")
	ErrCancelViaTransition = errors.New("cancellation must use the cancel operation")
	ErrAlreadyCancelled    = errors.New("booking is already cancelled")
	ErrInvalidStatusValue  = errors.New("unknown booking status")
)

// Cancellation records the outcome of an assessed cancellation. The refund
// figures come from the policy evaluator and are never recomputed here.
type Cancellation struct {
	ByID             uuid.UUID
	ByRole           actor.Role
	Reason           string
	Note             string
	RefundPercentage int
	WithPenalty      bool
	At               time.Time
}

type Booking struct {
	id         uuid.UUID
	customerID uuid.UUID
	stylistID  uuid.UUID
	profileID  uuid.UUID

	pricing       Pricing
	appointmentAt time.Time
	duration      time.Duration

	status Status

	conversationID *uuid.UUID
	paymentID      *uuid.UUID

	customerConfirmedAt *time.Time
	stylistConfirmedAt  *time.Time
	autoConfirmDeadline time.Time

	cancellation *Cancellation
	completedAt  *time.Time

	createdAt time.Time
	updatedAt time.Time
}

func NewBooking(
	now time.Time,
	customerID, stylistID, profileID uuid.UUID,
	basePrice money.Money,
	appointmentAt time.Time,
	duration time.Duration,
) (*Booking, error) {
	if !appointmentAt.After(now) {
		return nil, ErrAppointmentInPast
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	pricing, err := NewPricing(basePrice)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:                  uuid.New(),
		customerID:          customerID,
		stylistID:           stylistID,
		profileID:           profileID,
		pricing:             pricing,
		appointmentAt:       appointmentAt,
		duration:            duration,
		status:              StatusPending,
		autoConfirmDeadline: now.Add(AutoConfirmWindow),
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

func Reconstruct(
	id, customerID, stylistID, profileID uuid.UUID,
	pricing Pricing,
	appointmentAt time.Time,
	duration time.Duration,
	status Status,
	conversationID, paymentID *uuid.UUID,
	customerConfirmedAt, stylistConfirmedAt *time.Time,
	autoConfirmDeadline time.Time,
	cancellation *Cancellation,
	completedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                  id,
		customerID:          customerID,
		stylistID:           stylistID,
		profileID:           profileID,
		pricing:             pricing,
		appointmentAt:       appointmentAt,
		duration:            duration,
		status:              status,
		conversationID:      conversationID,
		paymentID:           paymentID,
		customerConfirmedAt: customerConfirmedAt,
		stylistConfirmedAt:  stylistConfirmedAt,
		autoConfirmDeadline: autoConfirmDeadline,
		cancellation:        cancellation,
		completedAt:         completedAt,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// Transition moves the booking to next if the table allows it. Completion
// timestamps are set exactly once; re-completing an already completed booking
// is rejected by the table, so idempotence lives in the timestamp itself.
func (b *Booking) Transition(next Status, by actor.Actor, now time.Time) error {
	if !next.IsValid() {
		return ErrInvalidStatusValue
	}
	// Cancellation carries a mandatory reason and a policy verdict; Cancel is
	// the only path into cancelled.
	if next == StatusCancelled {
		return ErrCancelViaTransition
	}
	if !b.IsParticipant(by.ID) && !by.IsAdmin() {
		return ErrUnauthorizedParty
	}
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}

	b.status = next
	b.updatedAt = now

	if next == StatusCompleted && b.completedAt == nil {
		t := now
		b.completedAt = &t
	}
	if next == StatusConfirmed {
		b.recordConfirmation(by, now)
	}
	return nil
}

func (b *Booking) recordConfirmation(by actor.Actor, now time.Time) {
	t := now
	switch by.ID {
	case b.customerID:
		if b.customerConfirmedAt == nil {
			b.customerConfirmedAt = &t
		}
	case b.stylistID:
		if b.stylistConfirmedAt == nil {
			b.stylistConfirmedAt = &t
		}
	}
}

// Cancel applies an already-evaluated cancellation assessment. The reason is
// mandatory; the assessment decides eligibility and refund terms.
func (b *Booking) Cancel(by actor.Actor, reason, note string, assessment CancellationAssessment, now time.Time) error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !b.IsParticipant(by.ID) {
		return ErrUnauthorizedParty
	}
	if reason == "" {
		return ErrMissingReason
	}
	if !assessment.CanCancel {
		return ErrCancelDisallowed
	}
	if !b.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}

	b.status = StatusCancelled
	b.cancellation = &Cancellation{
		ByID:             by.ID,
		ByRole:           by.Role,
		Reason:           reason,
		Note:             note,
		RefundPercentage: assessment.RefundPercentage,
		WithPenalty:      assessment.WithPenalty,
		At:               now,
	}
	b.updatedAt = now
	return nil
}

// ApplyAgreedPrice propagates a negotiation outcome into the commercial
// terms. The deposit and total follow the new negotiated price, and any
// outstanding counter-offer is consumed by the agreement.
func (b *Booking) ApplyAgreedPrice(amount money.Money, now time.Time) {
	b.pricing = b.pricing.WithNegotiatedPrice(amount)
	b.updatedAt = now
}

// RecordCounterOffer mirrors the live counter-offer onto the commercial
// terms so the booking shows the amount currently under discussion.
func (b *Booking) RecordCounterOffer(amount money.Money, now time.Time) error {
	p, err := b.pricing.WithCounterOffer(amount)
	if err != nil {
		return err
	}
	b.pricing = p
	b.updatedAt = now
	return nil
}

func (b *Booking) AttachConversation(conversationID uuid.UUID) {
	b.conversationID = &conversationID
}

func (b *Booking) AttachPayment(paymentID uuid.UUID) {
	b.paymentID = &paymentID
}

func (b *Booking) IsParticipant(id uuid.UUID) bool {
	return id == b.customerID || id == b.stylistID
}

func (b *Booking) EstimatedEnd() time.Time {
	return b.appointmentAt.Add(b.duration)
}

func (b *Booking) IsOverdueForConfirmation(now time.Time) bool {
	return b.status == StatusPending && now.After(b.autoConfirmDeadline)
}

func (b *Booking) ID() uuid.UUID                    { return b.id }
func (b *Booking) CustomerID() uuid.UUID            { return b.customerID }
func (b *Booking) StylistID() uuid.UUID             { return b.stylistID }
func (b *Booking) ProfileID() uuid.UUID             { return b.profileID }
func (b *Booking) Pricing() Pricing                 { return b.pricing }
func (b *Booking) AppointmentAt() time.Time         { return b.appointmentAt }
func (b *Booking) Duration() time.Duration          { return b.duration }
func (b *Booking) Status() Status                   { return b.status }
func (b *Booking) ConversationID() *uuid.UUID       { return b.conversationID }
func (b *Booking) PaymentID() *uuid.UUID            { return b.paymentID }
func (b *Booking) CustomerConfirmedAt() *time.Time  { return b.customerConfirmedAt }
func (b *Booking) StylistConfirmedAt() *time.Time   { return b.stylistConfirmedAt }
func (b *Booking) AutoConfirmDeadline() time.Time   { return b.autoConfirmDeadline }
func (b *Booking) Cancellation() *Cancellation      { return b.cancellation }
func (b *Booking) CompletedAt() *time.Time          { return b.completedAt }
func (b *Booking) CreatedAt() time.Time             { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time             { return b.updatedAt }
