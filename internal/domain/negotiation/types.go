package negotiation

import "time"

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
	OfferExpired  OfferStatus = "expired"
)

func (s OfferStatus) String() string {
	return string(s)
}

type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

func (d Decision) IsValid() bool {
	return d == DecisionAccepted || d == DecisionRejected
}

// Offers expire a day after they are made unless resolved first.
const DefaultOfferTTL = 24 * time.Hour
