package commands

import (
	"context"
	"time"

	"glowbook/internal/domain/booking"
	"glowbook/internal/domain/money"
	"glowbook/internal/domain/negotiation"
	"glowbook/internal/domain/payment"
	"glowbook/internal/infra/db"

	"github.com/google/uuid"
)

// Write-side ports. Implementations take the transaction handle explicitly so
// a command controls what shares a transaction.

type BookingRepository interface {
	Create(ctx context.Context, q db.Querier, b *booking.Booking) error
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error)
	SaveTransition(ctx context.Context, q db.Querier, b *booking.Booking, from booking.Status) error
	ApplyAgreedPrice(ctx context.Context, q db.Querier, id uuid.UUID, agreed money.Money, now time.Time) error
	SaveCounterOffer(ctx context.Context, q db.Querier, id uuid.UUID, amount money.Money, now time.Time) error
	SetConversationID(ctx context.Context, q db.Querier, id, conversationID uuid.UUID) error
	SetPaymentID(ctx context.Context, q db.Querier, id, paymentID uuid.UUID) error
}

type NegotiationRepository interface {
	CreateConversation(ctx context.Context, q db.Querier, c *negotiation.Conversation) error
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*negotiation.Conversation, error)
	SaveProposal(ctx context.Context, q db.Querier, conversationID uuid.UUID, offer negotiation.Offer, now time.Time) error
	SaveResolution(ctx context.Context, q db.Querier, c *negotiation.Conversation, offerID uuid.UUID, outcome negotiation.OfferStatus, now time.Time) error
}

type PaymentRepository interface {
	Create(ctx context.Context, q db.Querier, p *payment.Payment) error
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*payment.Payment, error)
	FindByBookingID(ctx context.Context, q db.Querier, bookingID uuid.UUID) (*payment.Payment, error)
	SaveStatus(ctx context.Context, q db.Querier, p *payment.Payment, from payment.Status) error
	AppendEvent(ctx context.Context, q db.Querier, p *payment.Payment) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, q db.Querier, topic string, payload []byte, runAt time.Time) error
}

// GatewayStatus is the collaborator's view of a transaction.
type GatewayStatus string

const (
	GatewayStatusPending   GatewayStatus = "PENDING"
	GatewayStatusCompleted GatewayStatus = "COMPLETED"
	GatewayStatusFailed    GatewayStatus = "FAILED"
)

type GatewayInitiateRequest struct {
	AmountCents    int64
	Currency       string
	PayerPhone     string
	Method         payment.Method
	IdempotencyKey uuid.UUID
}

type GatewayInitiateResult struct {
	GatewayTxnID string
	PollURL      string
}

type GatewayPollResult struct {
	Status GatewayStatus
}

type GatewayRefundResult struct {
	RefundTxnID string
	Status      GatewayStatus
}

// Gateway is the payment collaborator boundary. Calls are treated as
// unreliable: the idempotency key makes initiate and refund safe to repeat,
// and results only land in local state via the payment timeline.
type Gateway interface {
	Initiate(ctx context.Context, req GatewayInitiateRequest) (*GatewayInitiateResult, error)
	PollStatus(ctx context.Context, gatewayTxnID string) (*GatewayPollResult, error)
	Refund(ctx context.Context, gatewayTxnID string, amountCents int64, idempotencyKey uuid.UUID) (*GatewayRefundResult, error)
}
