package response

import (
	"time"

	"glowbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ConversationResponse struct {
	ID                    uuid.UUID       `json:"id"`
	BookingID             uuid.UUID       `json:"bookingId"`
	CustomerID            uuid.UUID       `json:"customerId"`
	StylistID             uuid.UUID       `json:"stylistId"`
	BasePriceCents        int64           `json:"basePriceCents"`
	FloorPriceCents       int64           `json:"floorPriceCents"`
	CurrentOffer          *OfferResponse  `json:"currentOffer,omitempty"`
	OfferHistory          []OfferResponse `json:"offerHistory"`
	FinalAgreedPriceCents *int64          `json:"finalAgreedPriceCents,omitempty"`
	AgreedAt              *time.Time      `json:"agreedAt,omitempty"`
	Active                bool            `json:"active"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

type OfferResponse struct {
	ID          uuid.UUID  `json:"id"`
	AmountCents int64      `json:"amountCents"`
	OfferedBy   uuid.UUID  `json:"offeredBy"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
}

func FromConversationView(v *queries.ConversationView) *ConversationResponse {
	var resp ConversationResponse
	if err := copier.Copy(&resp, v); err != nil {
		return &ConversationResponse{}
	}
	return &resp
}
