package response

import (
	"time"

	"glowbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PaymentResponse struct {
	ID               uuid.UUID               `json:"id"`
	BookingID        uuid.UUID               `json:"bookingId"`
	CustomerID       uuid.UUID               `json:"customerId"`
	StylistID        uuid.UUID               `json:"stylistId"`
	Type             string                  `json:"type"`
	Method           string                  `json:"method"`
	AmountCents      int64                   `json:"amountCents"`
	Currency         string                  `json:"currency"`
	PlatformFeeCents int64                   `json:"platformFeeCents"`
	GatewayFeeCents  int64                   `json:"gatewayFeeCents"`
	TotalFeesCents   int64                   `json:"totalFeesCents"`
	NetAmountCents   int64                   `json:"netAmountCents"`
	Status           string                  `json:"status"`
	Escrow           *EscrowResponse         `json:"escrow,omitempty"`
	Refund           *RefundResponse         `json:"refund,omitempty"`
	GatewayTxnID     *string                 `json:"gatewayTxnId,omitempty"`
	Timeline         []TimelineEntryResponse `json:"timeline"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

type EscrowResponse struct {
	HeldAt             *time.Time `json:"heldAt,omitempty"`
	ReleaseConditions  string     `json:"releaseConditions,omitempty"`
	ReleaseScheduledAt *time.Time `json:"releaseScheduledAt,omitempty"`
	ReleasedAt         *time.Time `json:"releasedAt,omitempty"`
	ReleasedBy         *uuid.UUID `json:"releasedBy,omitempty"`
	ReleaseReason      string     `json:"releaseReason,omitempty"`
}

type RefundResponse struct {
	AmountCents int64     `json:"amountCents"`
	Reason      string    `json:"reason"`
	GatewayRef  string    `json:"gatewayRef,omitempty"`
	At          time.Time `json:"at"`
}

type TimelineEntryResponse struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

func FromPaymentView(v *queries.PaymentView) *PaymentResponse {
	var resp PaymentResponse
	if err := copier.Copy(&resp, v); err != nil {
		return &PaymentResponse{}
	}
	return &resp
}
