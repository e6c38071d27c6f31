package negotiation

import (
	"errors"
	"time"

	"glowbook/internal/domain/money"

	"github.com/google/uuid"
)

var (
	ErrOfferTooLow     = errors.New("offer is below the floor price")
	ErrOfferInProgress = errors.New("another offer is still pending")
	ErrOfferExpired    = errors.New("offer has expired")
	ErrNoActiveOffer   = errors.New("no active offer to respond to")
	ErrOwnOffer        = errors.New("cannot respond to your own offer")
	ErrNotParticipant  = errors.New("acting party is not part of this conversation")
	ErrClosed          = errors.New("negotiation is closed")
	ErrInvalidDecision = errors.New("decision must be accepted or rejected")
	ErrAlreadyAgreed   = errors.New("a price has already been agreed")
	ErrNegativeOffer   = errors.New("offer amount cannot be negative")
	ErrCounterOnAccept = errors.New("counter offer cannot accompany an acceptance")
)

// Conversation is the price-agreement sub-protocol attached to one booking.
type Conversation struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	customerID uuid.UUID
	stylistID  uuid.UUID

	basePrice money.Money
	state     OfferState
	history   []HistoryEntry

	finalAgreedPrice *money.Money
	agreedAt         *time.Time

	active    bool
	createdAt time.Time
	updatedAt time.Time
}

func NewConversation(now time.Time, bookingID, customerID, stylistID uuid.UUID, basePrice money.Money) *Conversation {
	return &Conversation{
		id:         uuid.New(),
		bookingID:  bookingID,
		customerID: customerID,
		stylistID:  stylistID,
		basePrice:  basePrice,
		state:      NoActiveOffer{},
		active:     true,
		createdAt:  now,
		updatedAt:  now,
	}
}

func ReconstructConversation(
	id, bookingID, customerID, stylistID uuid.UUID,
	basePrice money.Money,
	state OfferState,
	history []HistoryEntry,
	finalAgreedPrice *money.Money,
	agreedAt *time.Time,
	active bool,
	createdAt, updatedAt time.Time,
) *Conversation {
	if state == nil {
		state = NoActiveOffer{}
	}
	return &Conversation{
		id:               id,
		bookingID:        bookingID,
		customerID:       customerID,
		stylistID:        stylistID,
		basePrice:        basePrice,
		state:            state,
		history:          history,
		finalAgreedPrice: finalAgreedPrice,
		agreedAt:         agreedAt,
		active:           active,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// FloorPrice is 80% of the booking's base price; offers below it are invalid.
func (c *Conversation) FloorPrice() money.Money {
	return c.basePrice.PercentBps(8000)
}

// Propose opens a new pending offer. Only one pending offer may exist; use
// Respond with a counter offer to replace it.
func (c *Conversation) Propose(by uuid.UUID, amount money.Money, ttl time.Duration, now time.Time) (*Offer, error) {
	if !c.active {
		return nil, ErrClosed
	}
	if c.finalAgreedPrice != nil {
		return nil, ErrAlreadyAgreed
	}
	if !c.isParticipant(by) {
		return nil, ErrNotParticipant
	}
	if amount.IsNegative() {
		return nil, ErrNegativeOffer
	}
	if amount.LessThan(c.FloorPrice()) {
		return nil, ErrOfferTooLow
	}
	if _, pending := c.state.(PendingOffer); pending {
		return nil, ErrOfferInProgress
	}
	if ttl <= 0 {
		ttl = DefaultOfferTTL
	}

	offer := Offer{
		ID:        uuid.New(),
		Amount:    amount,
		OfferedBy: by,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	c.state = PendingOffer{Offer: offer}
	c.history = append(c.history, HistoryEntry{
		OfferID:   offer.ID,
		Amount:    offer.Amount,
		OfferedBy: offer.OfferedBy,
		Status:    OfferPending,
		CreatedAt: offer.CreatedAt,
		ExpiresAt: offer.ExpiresAt,
	})
	c.updatedAt = now
	return &offer, nil
}

// RespondOutcome reports what a response did, so the caller can run the
// booking-side propagation and notifications.
type RespondOutcome struct {
	ResolvedOffer Offer
	Decision      Decision
	AgreedPrice   *money.Money
	CounterOffer  *Offer
}

// Respond resolves the pending offer. Accepting records the final agreed
// price and closes the negotiation; rejecting with a counter opens a new
// pending offer atomically.
func (c *Conversation) Respond(by uuid.UUID, decision Decision, counter *money.Money, now time.Time) (*RespondOutcome, error) {
	if !c.active {
		return nil, ErrClosed
	}
	if !c.isParticipant(by) {
		return nil, ErrNotParticipant
	}
	if !decision.IsValid() {
		return nil, ErrInvalidDecision
	}

	pending, ok := c.state.(PendingOffer)
	if !ok {
		return nil, ErrNoActiveOffer
	}
	offer := pending.Offer

	if offer.OfferedBy == by {
		return nil, ErrOwnOffer
	}
	// Expired offers are resolved by the sweeper only; late responses fail.
	if offer.IsExpiredAt(now) {
		return nil, ErrOfferExpired
	}

	switch decision {
	case DecisionAccepted:
		if counter != nil {
			return nil, ErrCounterOnAccept
		}
		c.resolve(offer, OfferAccepted, now)
		agreed := offer.Amount
		c.finalAgreedPrice = &agreed
		c.agreedAt = &now
		c.active = false
		return &RespondOutcome{
			ResolvedOffer: offer,
			Decision:      DecisionAccepted,
			AgreedPrice:   &agreed,
		}, nil

	case DecisionRejected:
		c.resolve(offer, OfferRejected, now)
		if counter == nil {
			return &RespondOutcome{
				ResolvedOffer: offer,
				Decision:      DecisionRejected,
			}, nil
		}
		counterOffer, err := c.Propose(by, *counter, DefaultOfferTTL, now)
		if err != nil {
			return nil, err
		}
		return &RespondOutcome{
			ResolvedOffer: offer,
			Decision:      DecisionRejected,
			CounterOffer:  counterOffer,
		}, nil
	}

	return nil, ErrInvalidDecision
}

// Expire resolves a pending offer whose deadline has passed. The sweeper is
// the only caller. Returns false when there is nothing to expire.
func (c *Conversation) Expire(now time.Time) (Offer, bool) {
	pending, ok := c.state.(PendingOffer)
	if !ok || !pending.Offer.IsExpiredAt(now) {
		return Offer{}, false
	}
	c.resolve(pending.Offer, OfferExpired, now)
	return pending.Offer, true
}

func (c *Conversation) resolve(offer Offer, outcome OfferStatus, now time.Time) {
	c.state = ResolvedOffer{Offer: offer, Outcome: outcome, ResolvedAt: now}
	for i := len(c.history) - 1; i >= 0; i-- {
		if c.history[i].OfferID == offer.ID {
			c.history[i].Status = outcome
			t := now
			c.history[i].ResolvedAt = &t
			break
		}
	}
	c.updatedAt = now
}

func (c *Conversation) isParticipant(id uuid.UUID) bool {
	return id == c.customerID || id == c.stylistID
}

func (c *Conversation) ID() uuid.UUID                  { return c.id }
func (c *Conversation) BookingID() uuid.UUID           { return c.bookingID }
func (c *Conversation) CustomerID() uuid.UUID          { return c.customerID }
func (c *Conversation) StylistID() uuid.UUID           { return c.stylistID }
func (c *Conversation) BasePrice() money.Money         { return c.basePrice }
func (c *Conversation) State() OfferState              { return c.state }
func (c *Conversation) FinalAgreedPrice() *money.Money { return c.finalAgreedPrice }
func (c *Conversation) AgreedAt() *time.Time           { return c.agreedAt }
func (c *Conversation) IsActive() bool                 { return c.active }
func (c *Conversation) CreatedAt() time.Time           { return c.createdAt }
func (c *Conversation) UpdatedAt() time.Time           { return c.updatedAt }

func (c *Conversation) History() []HistoryEntry {
	out := make([]HistoryEntry, len(c.history))
	copy(out, c.history)
	return out
}
