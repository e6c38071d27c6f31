package negotiation

import (
	"time"

	"glowbook/internal/domain/money"

	"github.com/google/uuid"
)

// Offer is one price proposal inside a conversation.
type Offer struct {
	ID        uuid.UUID
	Amount    money.Money
	OfferedBy uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (o Offer) IsExpiredAt(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// OfferState is a sealed variant over the conversation's current-offer slot.
// Exactly one of NoActiveOffer, PendingOffer or ResolvedOffer holds at any
// time, so two simultaneous pending offers cannot be represented.
type OfferState interface {
	isOfferState()
}

type NoActiveOffer struct{}

type PendingOffer struct {
	Offer Offer
}

type ResolvedOffer struct {
	Offer      Offer
	Outcome    OfferStatus
	ResolvedAt time.Time
}

func (NoActiveOffer) isOfferState() {}
func (PendingOffer) isOfferState()  {}
func (ResolvedOffer) isOfferState() {}

// HistoryEntry is one row of the append-only offer log.
type HistoryEntry struct {
	OfferID    uuid.UUID
	Amount     money.Money
	OfferedBy  uuid.UUID
	Status     OfferStatus
	CreatedAt  time.Time
	ExpiresAt  time.Time
	ResolvedAt *time.Time
}
