package queries

import (
	"context"
	"time"

	"glowbook/internal/domain/actor"
	"glowbook/internal/domain/payment"
	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
	"glowbook/internal/pkg/errs"

	"github.com/google/uuid"
)

type PaymentView struct {
	ID               uuid.UUID           `json:"id"`
	BookingID        uuid.UUID           `json:"booking_id"`
	CustomerID       uuid.UUID           `json:"customer_id"`
	StylistID        uuid.UUID           `json:"stylist_id"`
	Type             string              `json:"type"`
	Method           string              `json:"method"`
	AmountCents      int64               `json:"amount_cents"`
	Currency         string              `json:"currency"`
	PlatformFeeCents int64               `json:"platform_fee_cents"`
	GatewayFeeCents  int64               `json:"gateway_fee_cents"`
	TotalFeesCents   int64               `json:"total_fees_cents"`
	NetAmountCents   int64               `json:"net_amount_cents"`
	Status           string              `json:"status"`
	Escrow           *EscrowView         `json:"escrow,omitempty"`
	Refund           *RefundView         `json:"refund,omitempty"`
	GatewayTxnID     *string             `json:"gateway_txn_id,omitempty"`
	Timeline         []TimelineEntryView `json:"timeline"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

type EscrowView struct {
	HeldAt             *time.Time `json:"held_at,omitempty"`
	ReleaseConditions  string     `json:"release_conditions,omitempty"`
	ReleaseScheduledAt *time.Time `json:"release_scheduled_at,omitempty"`
	ReleasedAt         *time.Time `json:"released_at,omitempty"`
	ReleasedBy         *uuid.UUID `json:"released_by,omitempty"`
	ReleaseReason      string     `json:"release_reason,omitempty"`
}

type RefundView struct {
	AmountCents int64     `json:"amount_cents"`
	Reason      string    `json:"reason"`
	GatewayRef  string    `json:"gateway_ref,omitempty"`
	At          time.Time `json:"at"`
}

type TimelineEntryView struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

type PaymentQueries interface {
	GetByID(ctx context.Context, by actor.Actor, id uuid.UUID) (*PaymentView, error)
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*PaymentView, error)
}

type PaymentReader interface {
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*payment.Payment, error)
}

type paymentQueriesImpl struct {
	payments PaymentReader
	pool     db.Pool
}

func NewPaymentQueries(payments PaymentReader, pool db.Pool) PaymentQueries {
	return &paymentQueriesImpl{payments: payments, pool: pool}
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, by actor.Actor, id uuid.UUID) (*PaymentView, error) {
	p, err := q.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if by.ID != p.CustomerID() && by.ID != p.StylistID() && !by.IsAdmin() {
		return nil, errs.ErrUnauthorized
	}
	return ToPaymentView(p), nil
}

func (q *paymentQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*PaymentView, error) {
	p, err := q.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPaymentView(p), nil
}

func (q *paymentQueriesImpl) load(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, err := q.payments.FindByID(ctx, q.pool, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrPaymentNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return p, nil
}

func ToPaymentView(p *payment.Payment) *PaymentView {
	timeline := make([]TimelineEntryView, 0, len(p.Timeline()))
	for _, e := range p.Timeline() {
		timeline = append(timeline, TimelineEntryView{
			Status:      e.Status.String(),
			Description: e.Description,
			At:          e.At,
		})
	}

	var escrowView *EscrowView
	if e := p.EscrowState(); e.HeldAt != nil {
		escrowView = &EscrowView{
			HeldAt:             e.HeldAt,
			ReleaseConditions:  e.ReleaseConditions,
			ReleaseScheduledAt: e.ReleaseScheduledAt,
			ReleasedAt:         e.ReleasedAt,
			ReleasedBy:         e.ReleasedBy,
			ReleaseReason:      e.ReleaseReason,
		}
	}

	var refundView *RefundView
	if r := p.RefundRecord(); r != nil {
		refundView = &RefundView{
			AmountCents: r.Amount.Cents(),
			Reason:      r.Reason,
			GatewayRef:  r.GatewayRef,
			At:          r.At,
		}
	}

	return &PaymentView{
		ID:               p.ID(),
		BookingID:        p.BookingID(),
		CustomerID:       p.CustomerID(),
		StylistID:        p.StylistID(),
		Type:             string(p.Type()),
		Method:           string(p.Method()),
		AmountCents:      p.Amount().Cents(),
		Currency:         p.Currency(),
		PlatformFeeCents: p.PaymentFees().Platform.Cents(),
		GatewayFeeCents:  p.PaymentFees().Gateway.Cents(),
		TotalFeesCents:   p.PaymentFees().Total().Cents(),
		NetAmountCents:   p.NetAmount().Cents(),
		Status:           p.Status().String(),
		Escrow:           escrowView,
		Refund:           refundView,
		GatewayTxnID:     p.GatewayTxnID(),
		Timeline:         timeline,
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
}
