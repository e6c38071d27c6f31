//go:build unit || e2e

package builder

import (
	"time"

	"glowbook/internal/domain/money"
	domnegotiation "glowbook/internal/domain/negotiation"
	reqdto "glowbook/internal/handler/dto/request"
	"glowbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type ConversationBuilder struct {
	BookingID      uuid.UUID
	CustomerID     uuid.UUID
	StylistID      uuid.UUID
	BasePriceCents int64
	Now            time.Time
}

func NewConversationBuilder() *ConversationBuilder {
	return &ConversationBuilder{
		BookingID:      uuid.New(),
		CustomerID:     uuid.New(),
		StylistID:      uuid.New(),
		BasePriceCents: 10000,
		Now:            time.Now(),
	}
}

func (c *ConversationBuilder) With(mutate func(*ConversationBuilder)) *ConversationBuilder {
	mutate(c)
	return c
}

func (c *ConversationBuilder) BuildDomain() *domnegotiation.Conversation {
	return domnegotiation.NewConversation(c.Now, c.BookingID, c.CustomerID, c.StylistID, money.New(c.BasePriceCents))
}

// BuildDomainWithPendingOffer returns a conversation where the customer has
// already proposed the given amount.
func (c *ConversationBuilder) BuildDomainWithPendingOffer(amountCents int64) (*domnegotiation.Conversation, *domnegotiation.Offer, error) {
	conv := c.BuildDomain()
	offer, err := conv.Propose(c.CustomerID, money.New(amountCents), domnegotiation.DefaultOfferTTL, c.Now)
	return conv, offer, err
}

func (c *ConversationBuilder) BuildProposeRequestDTO(amountCents int64) reqdto.ProposeOfferRequest {
	return reqdto.ProposeOfferRequest{AmountCents: amountCents}
}

func (c *ConversationBuilder) BuildView() *queries.ConversationView {
	return &queries.ConversationView{
		ID:              uuid.New(),
		BookingID:       c.BookingID,
		CustomerID:      c.CustomerID,
		StylistID:       c.StylistID,
		BasePriceCents:  c.BasePriceCents,
		FloorPriceCents: (c.BasePriceCents*8000 + 5000) / 10000,
		OfferHistory:    []queries.OfferView{},
		Active:          true,
		CreatedAt:       c.Now,
		UpdatedAt:       c.Now,
	}
}

func (c *ConversationBuilder) WithCustomerID(id uuid.UUID) *ConversationBuilder {
	c.CustomerID = id
	return c
}

func (c *ConversationBuilder) WithStylistID(id uuid.UUID) *ConversationBuilder {
	c.StylistID = id
	return c
}

func (c *ConversationBuilder) WithBasePriceCents(cents int64) *ConversationBuilder {
	c.BasePriceCents = cents
	return c
}

func (c *ConversationBuilder) WithNow(now time.Time) *ConversationBuilder {
	c.Now = now
	return c
}
