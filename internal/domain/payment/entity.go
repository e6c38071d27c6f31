package payment

import (
	"errors"
	"time"

	"glowbook/internal/domain/money"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition     = errors.New("invalid payment status transition")
	ErrEscrowNotReady        = errors.New("escrow is not ready for release")
	ErrRefundTooLarge        = errors.New("refund exceeds original payment amount")
	ErrRefundNotAllowed      = errors.New("refund only allowed from held or completed")
	ErrInvalidDisputeOutcome = errors.New("dispute resolves to completed or refunded only")
	ErrNotDisputed           = errors.New("payment is not disputed")
	ErrNegativeRefund        = errors.New("refund amount cannot be negative")
)

// Refund is the terminal refund sub-record.
type Refund struct {
	Amount     money.Money
	Reason     string
	GatewayRef string
	At         time.Time
}

// Escrow is the custody sub-state, populated once funds are held.
type Escrow struct {
	HeldAt             *time.Time
	ReleaseConditions  string
	ReleaseScheduledAt *time.Time
	ReleasedAt         *time.Time
	ReleasedBy         *uuid.UUID
	ReleaseReason      string
}

type Payment struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	customerID uuid.UUID
	stylistID  uuid.UUID

	typ      Type
	method   Method
	amount   money.Money
	currency string
	fees     Fees

	status Status
	escrow Escrow
	refund *Refund

	gatewayTxnID   *string
	idempotencyKey uuid.UUID

	timeline []TimelineEntry
	// timeline entries appended since load, not yet persisted
	pendingEntries []TimelineEntry

	createdAt time.Time
	updatedAt time.Time
}

func NewPayment(
	now time.Time,
	bookingID, customerID, stylistID uuid.UUID,
	typ Type,
	method Method,
	amount money.Money,
	currency string,
) (*Payment, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, money.ErrNegativeAmount
	}
	if currency == "" {
		currency = "USD"
	}

	p := &Payment{
		id:             uuid.New(),
		bookingID:      bookingID,
		customerID:     customerID,
		stylistID:      stylistID,
		typ:            typ,
		method:         method,
		amount:         amount,
		currency:       currency,
		fees:           ComputeFees(amount, method),
		status:         StatusPending,
		idempotencyKey: uuid.New(),
		createdAt:      now,
		updatedAt:      now,
	}
	p.appendTimeline(StatusPending, "payment created", now)
	return p, nil
}

func Reconstruct(
	id, bookingID, customerID, stylistID uuid.UUID,
	typ Type,
	method Method,
	amount money.Money,
	currency string,
	fees Fees,
	status Status,
	escrow Escrow,
	refund *Refund,
	gatewayTxnID *string,
	idempotencyKey uuid.UUID,
	timeline []TimelineEntry,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:             id,
		bookingID:      bookingID,
		customerID:     customerID,
		stylistID:      stylistID,
		typ:            typ,
		method:         method,
		amount:         amount,
		currency:       currency,
		fees:           fees,
		status:         status,
		escrow:         escrow,
		refund:         refund,
		gatewayTxnID:   gatewayTxnID,
		idempotencyKey: idempotencyKey,
		timeline:       timeline,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (p *Payment) transition(next Status, description string, now time.Time) error {
	if !p.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	p.status = next
	p.appendTimeline(next, description, now)
	p.updatedAt = now
	return nil
}

func (p *Payment) appendTimeline(status Status, description string, at time.Time) {
	entry := TimelineEntry{
		Status:      status,
		Description: description,
		At:          at,
	}
	p.timeline = append(p.timeline, entry)
	p.pendingEntries = append(p.pendingEntries, entry)
}

// DrainPendingEntries returns timeline entries appended since the entity was
// loaded and resets the pending list. The repository persists them in the
// same transaction as the status write.
func (p *Payment) DrainPendingEntries() []TimelineEntry {
	out := p.pendingEntries
	p.pendingEntries = nil
	return out
}

// RecordGatewayEvent appends an observed gateway response to the timeline
// without touching status. Call before any state mutation driven by that
// response.
func (p *Payment) RecordGatewayEvent(description string, now time.Time) {
	p.appendTimeline(p.status, description, now)
	p.updatedAt = now
}

func (p *Payment) MarkProcessing(gatewayTxnID string, now time.Time) error {
	if err := p.transition(StatusProcessing, "gateway accepted initiate request", now); err != nil {
		return err
	}
	p.gatewayTxnID = &gatewayTxnID
	return nil
}

func (p *Payment) MarkFailed(reason string, now time.Time) error {
	return p.transition(StatusFailed, reason, now)
}

func (p *Payment) MarkCancelled(reason string, now time.Time) error {
	return p.transition(StatusCancelled, reason, now)
}

// Hold moves captured funds into escrow and arms the auto-release valve.
func (p *Payment) Hold(now time.Time) error {
	if err := p.transition(StatusHeld, "funds captured into escrow", now); err != nil {
		return err
	}
	heldAt := now
	releaseAt := now.Add(AutoReleaseWindow)
	p.escrow.HeldAt = &heldAt
	p.escrow.ReleaseScheduledAt = &releaseAt
	if p.escrow.ReleaseConditions == "" {
		p.escrow.ReleaseConditions = "service_completed"
	}
	return nil
}

// CompleteDirect settles a payment that bypasses escrow.
func (p *Payment) CompleteDirect(now time.Time) error {
	return p.transition(StatusCompleted, "payment settled without escrow", now)
}

// Release pays held funds out to the stylist. Only legal from held, and only
// once the owning booking is completed.
func (p *Payment) Release(by uuid.UUID, reason string, bookingCompleted bool, now time.Time) error {
	if p.status != StatusHeld || !bookingCompleted {
		return ErrEscrowNotReady
	}
	if err := p.transition(StatusCompleted, "escrow released: "+reason, now); err != nil {
		return err
	}
	releasedAt := now
	releasedBy := by
	p.escrow.ReleasedAt = &releasedAt
	p.escrow.ReleasedBy = &releasedBy
	p.escrow.ReleaseReason = reason
	return nil
}

// AutoRelease is the sweeper's variant of Release: no acting party, fixed
// reason, gated on the scheduled release time having passed.
func (p *Payment) AutoRelease(bookingCompleted bool, now time.Time) error {
	if p.status != StatusHeld || p.escrow.ReleaseScheduledAt == nil || now.Before(*p.escrow.ReleaseScheduledAt) {
		return ErrEscrowNotReady
	}
	if !bookingCompleted {
		return ErrEscrowNotReady
	}
	if err := p.transition(StatusCompleted, "escrow released: "+ReleaseReasonTimeout, now); err != nil {
		return err
	}
	releasedAt := now
	p.escrow.ReleasedAt = &releasedAt
	p.escrow.ReleaseReason = ReleaseReasonTimeout
	return nil
}

// ApplyRefund moves funds out of escrow (or claws back a completed payment)
// and records the terminal refund sub-record.
func (p *Payment) ApplyRefund(amount money.Money, reason, gatewayRef string, now time.Time) error {
	if p.status != StatusHeld && p.status != StatusCompleted {
		return ErrRefundNotAllowed
	}
	if amount.IsNegative() {
		return ErrNegativeRefund
	}
	if p.amount.LessThan(amount) {
		return ErrRefundTooLarge
	}
	if err := p.transition(StatusRefunded, "refunded: "+reason, now); err != nil {
		return err
	}
	p.refund = &Refund{
		Amount:     amount,
		Reason:     reason,
		GatewayRef: gatewayRef,
		At:         now,
	}
	return nil
}

func (p *Payment) OpenDispute(reason string, now time.Time) error {
	return p.transition(StatusDisputed, "dispute opened: "+reason, now)
}

// ResolveDispute settles a disputed payment to completed or refunded.
func (p *Payment) ResolveDispute(outcome Status, reason string, now time.Time) error {
	if p.status != StatusDisputed {
		return ErrNotDisputed
	}
	if outcome != StatusCompleted && outcome != StatusRefunded {
		return ErrInvalidDisputeOutcome
	}
	return p.transition(outcome, "dispute resolved: "+reason, now)
}

func (p *Payment) NetAmount() money.Money {
	return p.amount.Sub(p.fees.Total())
}

func (p *Payment) IsDueForAutoRelease(now time.Time) bool {
	return p.status == StatusHeld &&
		p.escrow.ReleaseScheduledAt != nil &&
		!now.Before(*p.escrow.ReleaseScheduledAt)
}

func (p *Payment) ID() uuid.UUID             { return p.id }
func (p *Payment) BookingID() uuid.UUID      { return p.bookingID }
func (p *Payment) CustomerID() uuid.UUID     { return p.customerID }
func (p *Payment) StylistID() uuid.UUID      { return p.stylistID }
func (p *Payment) Type() Type                { return p.typ }
func (p *Payment) Method() Method            { return p.method }
func (p *Payment) Amount() money.Money       { return p.amount }
func (p *Payment) Currency() string          { return p.currency }
func (p *Payment) PaymentFees() Fees         { return p.fees }
func (p *Payment) Status() Status            { return p.status }
func (p *Payment) EscrowState() Escrow       { return p.escrow }
func (p *Payment) RefundRecord() *Refund     { return p.refund }
func (p *Payment) GatewayTxnID() *string     { return p.gatewayTxnID }
func (p *Payment) IdempotencyKey() uuid.UUID { return p.idempotencyKey }
func (p *Payment) CreatedAt() time.Time      { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time      { return p.updatedAt }

func (p *Payment) Timeline() []TimelineEntry {
	out := make([]TimelineEntry, len(p.timeline))
	copy(out, p.timeline)
	return out
}
