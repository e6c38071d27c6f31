package request

import (
	"strings"

	"glowbook/internal/domain/payment"

	"github.com/google/uuid"
)

type InitiatePaymentRequest struct {
	BookingID  uuid.UUID `json:"booking_id" binding:"required"`
	Type       string    `json:"type" binding:"required,oneof=deposit full_payment"`
	Method     string    `json:"method" binding:"required,oneof=mobile_money card"`
	PayerPhone string    `json:"payer_phone" binding:"required"`
}

func (r InitiatePaymentRequest) ToType() payment.Type {
	return payment.Type(r.Type)
}

func (r InitiatePaymentRequest) ToMethod() payment.Method {
	return payment.Method(r.Method)
}

func (r InitiatePaymentRequest) GetPayerPhone() string {
	return strings.TrimSpace(r.PayerPhone)
}

type ReleaseEscrowRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RefundPaymentRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Reason      string `json:"reason" binding:"required"`
}

type ResolveDisputeRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=completed refunded"`
	Reason  string `json:"reason" binding:"required"`
}

func (r ResolveDisputeRequest) ToOutcome() payment.Status {
	return payment.Status(r.Outcome)
}
