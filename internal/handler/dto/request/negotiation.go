package request

import (
	"time"

	"glowbook/internal/domain/negotiation"
)

type ProposeOfferRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
	ExpiryHours *int  `json:"expiry_hours,omitempty" binding:"omitempty,gt=0"`
}

// TTL falls back to the protocol default of 24 hours.
func (r ProposeOfferRequest) TTL() time.Duration {
	if r.ExpiryHours == nil {
		return negotiation.DefaultOfferTTL
	}
	return time.Duration(*r.ExpiryHours) * time.Hour
}

type RespondToOfferRequest struct {
	Decision          string `json:"decision" binding:"required,oneof=accepted rejected"`
	CounterOfferCents *int64 `json:"counter_offer_cents,omitempty" binding:"omitempty,gt=0"`
}

func (r RespondToOfferRequest) ToDecision() negotiation.Decision {
	return negotiation.Decision(r.Decision)
}
