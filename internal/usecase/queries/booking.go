package queries

import (
	"context"
	"log/slog"
	"time"

	"glowbook/internal/domain/actor"
	"glowbook/internal/domain/booking"
	"glowbook/internal/domain/money"
	"glowbook/internal/domain/negotiation"
	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
	"glowbook/internal/pkg/clock"
	"glowbook/internal/pkg/errs"
	"glowbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID                   uuid.UUID         `json:"id"`
	CustomerID           uuid.UUID         `json:"customer_id"`
	StylistID            uuid.UUID         `json:"stylist_id"`
	ProfileID            uuid.UUID         `json:"profile_id"`
	BasePriceCents       int64             `json:"base_price_cents"`
	NegotiatedPriceCents int64             `json:"negotiated_price_cents"`
	CounterOfferCents    *int64            `json:"counter_offer_cents,omitempty"`
	AdditionalFees       []FeeView         `json:"additional_fees"`
	DepositCents         int64             `json:"deposit_cents"`
	TotalCents           int64             `json:"total_cents"`
	AppointmentAt        time.Time         `json:"appointment_at"`
	DurationMinutes      int               `json:"duration_minutes"`
	EstimatedEndAt       time.Time         `json:"estimated_end_at"`
	Status               string            `json:"status"`
	ConversationID       *uuid.UUID        `json:"conversation_id,omitempty"`
	PaymentID            *uuid.UUID        `json:"payment_id,omitempty"`
	CustomerConfirmedAt  *time.Time        `json:"customer_confirmed_at,omitempty"`
	StylistConfirmedAt   *time.Time        `json:"stylist_confirmed_at,omitempty"`
	AutoConfirmDeadline  time.Time         `json:"auto_confirm_deadline"`
	Cancellation         *CancellationView `json:"cancellation,omitempty"`
	CompletedAt          *time.Time        `json:"completed_at,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

type FeeView struct {
	Label       string `json:"label"`
	AmountCents int64  `json:"amount_cents"`
}

type CancellationView struct {
	ByID             uuid.UUID `json:"by_id"`
	ByRole           string    `json:"by_role"`
	Reason           string    `json:"reason"`
	Note             string    `json:"note,omitempty"`
	RefundPercentage int       `json:"refund_percentage"`
	WithPenalty      bool      `json:"with_penalty"`
	At               time.Time `json:"at"`
}

type BookingListItem struct {
	ID            uuid.UUID `json:"id"`
	StylistID     uuid.UUID `json:"stylist_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	AppointmentAt time.Time `json:"appointment_at"`
	Status        string    `json:"status"`
	TotalCents    int64     `json:"total_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, by actor.Actor, id uuid.UUID) (*BookingView, error)
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByParticipant(ctx context.Context, partyID uuid.UUID, limit, offset int32) ([]*BookingListItem, error)
}

type BookingReader interface {
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error)
	FindByParticipant(ctx context.Context, q db.Querier, partyID uuid.UUID, limit, offset int32) ([]*booking.Booking, error)
	ApplyAgreedPrice(ctx context.Context, q db.Querier, id uuid.UUID, agreed money.Money, now time.Time) error
}

type ConversationReader interface {
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*negotiation.Conversation, error)
}

type bookingQueriesImpl struct {
	bookings      BookingReader
	conversations ConversationReader
	pool          db.Pool
	clock         clock.Clock
}

func NewBookingQueries(bookings BookingReader, conversations ConversationReader, pool db.Pool, clock clock.Clock) BookingQueries {
	return &bookingQueriesImpl{
		bookings:      bookings,
		conversations: conversations,
		pool:          pool,
		clock:         clock,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, by actor.Actor, id uuid.UUID) (*BookingView, error) {
	b, err := q.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsParticipant(by.ID) && !by.IsAdmin() {
		return nil, errs.ErrUnauthorized
	}
	return ToBookingView(b), nil
}

// GetByIDSystem skips the participant check; used for read-after-write inside
// command flows.
func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	b, err := q.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToBookingView(b), nil
}

func (q *bookingQueriesImpl) ListByParticipant(ctx context.Context, partyID uuid.UUID, limit, offset int32) ([]*BookingListItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	bs, err := q.bookings.FindByParticipant(ctx, q.pool, partyID, limit, offset)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	items := make([]*BookingListItem, len(bs))
	for i, b := range bs {
		items[i] = &BookingListItem{
			ID:            b.ID(),
			StylistID:     b.StylistID(),
			CustomerID:    b.CustomerID(),
			AppointmentAt: b.AppointmentAt(),
			Status:        b.Status().String(),
			TotalCents:    b.Pricing().Total().Cents(),
			CreatedAt:     b.CreatedAt(),
		}
	}
	return items, nil
}

// load reads the booking and repairs a half-applied negotiation acceptance:
// when the conversation carries a final agreed price the booking never
// received, the propagation step is re-applied before the view is built.
// Acceptance is the trigger of record and is never rolled back.
func (q *bookingQueriesImpl) load(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := q.bookings.FindByID(ctx, q.pool, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	agreed, diverged := q.divergedAgreedPrice(ctx, b)
	if !diverged {
		return b, nil
	}

	slog.Warn("healing negotiated price divergence",
		"booking_id", b.ID(),
		"booking_price_cents", b.Pricing().NegotiatedPrice().Cents(),
		"agreed_price_cents", agreed.Cents())

	_, err = shared.RunInTx(ctx, q.pool, func(tx db.Querier) (struct{}, error) {
		return struct{}{}, q.bookings.ApplyAgreedPrice(ctx, tx, b.ID(), agreed, q.clock.Now())
	})
	if err != nil {
		// Serve the stale row; the sweeper's reconciliation pass retries.
		slog.Error("failed to heal negotiated price divergence", "booking_id", b.ID(), "error", err)
		return b, nil
	}

	healed, err := q.bookings.FindByID(ctx, q.pool, b.ID())
	if err != nil {
		return b, nil
	}
	return healed, nil
}

func (q *bookingQueriesImpl) divergedAgreedPrice(ctx context.Context, b *booking.Booking) (money.Money, bool) {
	if b.ConversationID() == nil {
		return money.Zero(), false
	}
	c, err := q.conversations.FindByID(ctx, q.pool, *b.ConversationID())
	if err != nil || c.FinalAgreedPrice() == nil {
		return money.Zero(), false
	}
	agreed := *c.FinalAgreedPrice()
	return agreed, b.Pricing().NegotiatedPrice() != agreed
}

func ToBookingView(b *booking.Booking) *BookingView {
	fees := make([]FeeView, 0, len(b.Pricing().Fees()))
	for _, f := range b.Pricing().Fees() {
		fees = append(fees, FeeView{Label: f.Label, AmountCents: f.Amount.Cents()})
	}

	var counterOffer *int64
	if c := b.Pricing().CounterOffer(); c != nil {
		cents := c.Cents()
		counterOffer = &cents
	}

	var cancellation *CancellationView
	if c := b.Cancellation(); c != nil {
		cancellation = &CancellationView{
			ByID:             c.ByID,
			ByRole:           c.ByRole.String(),
			Reason:           c.Reason,
			Note:             c.Note,
			RefundPercentage: c.RefundPercentage,
			WithPenalty:      c.WithPenalty,
			At:               c.At,
		}
	}

	return &BookingView{
		ID:                   b.ID(),
		CustomerID:           b.CustomerID(),
		StylistID:            b.StylistID(),
		ProfileID:            b.ProfileID(),
		BasePriceCents:       b.Pricing().BasePrice().Cents(),
		NegotiatedPriceCents: b.Pricing().NegotiatedPrice().Cents(),
		CounterOfferCents:    counterOffer,
		AdditionalFees:       fees,
		DepositCents:         b.Pricing().Deposit().Cents(),
		TotalCents:           b.Pricing().Total().Cents(),
		AppointmentAt:        b.AppointmentAt(),
		DurationMinutes:      int(b.Duration() / time.Minute),
		EstimatedEndAt:       b.EstimatedEnd(),
		Status:               b.Status().String(),
		ConversationID:       b.ConversationID(),
		PaymentID:            b.PaymentID(),
		CustomerConfirmedAt:  b.CustomerConfirmedAt(),
		StylistConfirmedAt:   b.StylistConfirmedAt(),
		AutoConfirmDeadline:  b.AutoConfirmDeadline(),
		Cancellation:         cancellation,
		CompletedAt:          b.CompletedAt(),
		CreatedAt:            b.CreatedAt(),
		UpdatedAt:            b.UpdatedAt(),
	}
}
