package queries

import (
	"context"
	"time"

	"glowbook/internal/domain/actor"
	"glowbook/internal/domain/negotiation"
	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
	"glowbook/internal/pkg/errs"

	"github.com/google/uuid"
)

type ConversationView struct {
	ID                    uuid.UUID   `json:"id"`
	BookingID             uuid.UUID   `json:"booking_id"`
	CustomerID            uuid.UUID   `json:"customer_id"`
	StylistID             uuid.UUID   `json:"stylist_id"`
	BasePriceCents        int64       `json:"base_price_cents"`
	FloorPriceCents       int64       `json:"floor_price_cents"`
	CurrentOffer          *OfferView  `json:"current_offer,omitempty"`
	OfferHistory          []OfferView `json:"offer_history"`
	FinalAgreedPriceCents *int64      `json:"final_agreed_price_cents,omitempty"`
	AgreedAt              *time.Time  `json:"agreed_at,omitempty"`
	Active                bool        `json:"active"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

type OfferView struct {
	ID          uuid.UUID  `json:"id"`
	AmountCents int64      `json:"amount_cents"`
	OfferedBy   uuid.UUID  `json:"offered_by"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

type NegotiationQueries interface {
	GetByID(ctx context.Context, by actor.Actor, id uuid.UUID) (*ConversationView, error)
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ConversationView, error)
}

type negotiationQueriesImpl struct {
	conversations ConversationReader
	pool          db.Pool
}

func NewNegotiationQueries(conversations ConversationReader, pool db.Pool) NegotiationQueries {
	return &negotiationQueriesImpl{conversations: conversations, pool: pool}
}

func (q *negotiationQueriesImpl) GetByID(ctx context.Context, by actor.Actor, id uuid.UUID) (*ConversationView, error) {
	c, err := q.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if by.ID != c.CustomerID() && by.ID != c.StylistID() && !by.IsAdmin() {
		return nil, errs.ErrUnauthorized
	}
	return ToConversationView(c), nil
}

func (q *negotiationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ConversationView, error) {
	c, err := q.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToConversationView(c), nil
}

func (q *negotiationQueriesImpl) load(ctx context.Context, id uuid.UUID) (*negotiation.Conversation, error) {
	c, err := q.conversations.FindByID(ctx, q.pool, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrConversationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return c, nil
}

func ToConversationView(c *negotiation.Conversation) *ConversationView {
	history := make([]OfferView, 0, len(c.History()))
	for _, h := range c.History() {
		history = append(history, OfferView{
			ID:          h.OfferID,
			AmountCents: h.Amount.Cents(),
			OfferedBy:   h.OfferedBy,
			Status:      h.Status.String(),
			CreatedAt:   h.CreatedAt,
			ExpiresAt:   h.ExpiresAt,
			ResolvedAt:  h.ResolvedAt,
		})
	}

	var current *OfferView
	switch s := c.State().(type) {
	case negotiation.PendingOffer:
		current = &OfferView{
			ID:          s.Offer.ID,
			AmountCents: s.Offer.Amount.Cents(),
			OfferedBy:   s.Offer.OfferedBy,
			Status:      negotiation.OfferPending.String(),
			CreatedAt:   s.Offer.CreatedAt,
			ExpiresAt:   s.Offer.ExpiresAt,
		}
	case negotiation.ResolvedOffer:
		resolvedAt := s.ResolvedAt
		current = &OfferView{
			ID:          s.Offer.ID,
			AmountCents: s.Offer.Amount.Cents(),
			OfferedBy:   s.Offer.OfferedBy,
			Status:      s.Outcome.String(),
			CreatedAt:   s.Offer.CreatedAt,
			ExpiresAt:   s.Offer.ExpiresAt,
			ResolvedAt:  &resolvedAt,
		}
	}

	var agreedCents *int64
	if p := c.FinalAgreedPrice(); p != nil {
		cents := p.Cents()
		agreedCents = &cents
	}

	return &ConversationView{
		ID:                    c.ID(),
		BookingID:             c.BookingID(),
		CustomerID:            c.CustomerID(),
		StylistID:             c.StylistID(),
		BasePriceCents:        c.BasePrice().Cents(),
		FloorPriceCents:       c.FloorPrice().Cents(),
		CurrentOffer:          current,
		OfferHistory:          history,
		FinalAgreedPriceCents: agreedCents,
		AgreedAt:              c.AgreedAt(),
		Active:                c.IsActive(),
		CreatedAt:             c.CreatedAt(),
		UpdatedAt:             c.UpdatedAt(),
	}
}
