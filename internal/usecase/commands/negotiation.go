package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"glowbook/internal/domain/actor"
	"glowbook/internal/domain/money"
	"glowbook/internal/domain/negotiation"
	reqdto "glowbook/internal/handler/dto/request"
	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
	"glowbook/internal/pkg/clock"
	"glowbook/internal/pkg/errs"
	"glowbook/internal/usecase/queries"
	"glowbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type NegotiationCommands interface {
	ProposeOffer(ctx context.Context, conversationID uuid.UUID, req reqdto.ProposeOfferRequest, by actor.Actor) (*queries.ConversationView, error)
	RespondToOffer(ctx context.Context, conversationID uuid.UUID, req reqdto.RespondToOfferRequest, by actor.Actor) (*queries.ConversationView, error)
}

type negotiationUseCaseImpl struct {
	negotiationRepo    NegotiationRepository
	bookingRepo        BookingRepository
	notificationRepo   NotificationRepository
	negotiationQueries queries.NegotiationQueries
	pool               db.Pool
	clock              clock.Clock
}

func NewNegotiationUseCase(
	negotiationRepo NegotiationRepository,
	bookingRepo BookingRepository,
	notificationRepo NotificationRepository,
	negotiationQueries queries.NegotiationQueries,
	pool db.Pool,
	clock clock.Clock,
) NegotiationCommands {
	return &negotiationUseCaseImpl{
		negotiationRepo:    negotiationRepo,
		bookingRepo:        bookingRepo,
		notificationRepo:   notificationRepo,
		negotiationQueries: negotiationQueries,
		pool:               pool,
		clock:              clock,
	}
}

func (u *negotiationUseCaseImpl) ProposeOffer(ctx context.Context, conversationID uuid.UUID, req reqdto.ProposeOfferRequest, by actor.Actor) (*queries.ConversationView, error) {
	now := u.clock.Now()

	amount, err := money.FromCents(req.AmountCents)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidAmount)
	}

	_, err = shared.RunInTx(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		c, err := u.findConversation(ctx, tx, conversationID)
		if err != nil {
			return struct{}{}, err
		}

		offer, err := c.Propose(by.ID, amount, req.TTL(), now)
		if err != nil {
			return struct{}{}, mapNegotiationDomainError(err)
		}
		if err := u.negotiationRepo.SaveProposal(ctx, tx, c.ID(), *offer, now); err != nil {
			return struct{}{}, mapNegotiationRepoError(err)
		}
		if err := u.notifyOffer(ctx, tx, TopicOfferReceived, c, *offer); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	return u.negotiationQueries.GetByIDSystem(ctx, conversationID)
}

// RespondToOffer resolves the pending offer. Acceptance is a two-step saga:
// the negotiation-side commit is the trigger of record, then the agreed price
// propagates into the booking. A failed propagation is logged and repaired by
// the next read or the sweeper's reconciliation pass, never rolled back.
func (u *negotiationUseCaseImpl) RespondToOffer(ctx context.Context, conversationID uuid.UUID, req reqdto.RespondToOfferRequest, by actor.Actor) (*queries.ConversationView, error) {
	now := u.clock.Now()

	var counter *money.Money
	if req.CounterOfferCents != nil {
		m, err := money.FromCents(*req.CounterOfferCents)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidAmount)
		}
		counter = &m
	}

	outcome, err := shared.RunInTx(ctx, u.pool, func(tx db.Querier) (*negotiation.RespondOutcome, error) {
		c, err := u.findConversation(ctx, tx, conversationID)
		if err != nil {
			return nil, err
		}

		outcome, err := c.Respond(by.ID, req.ToDecision(), counter, now)
		if err != nil {
			return nil, mapNegotiationDomainError(err)
		}

		status := negotiation.OfferAccepted
		if outcome.Decision == negotiation.DecisionRejected {
			status = negotiation.OfferRejected
		}
		if err := u.negotiationRepo.SaveResolution(ctx, tx, c, outcome.ResolvedOffer.ID, status, now); err != nil {
			return nil, mapNegotiationRepoError(err)
		}
		if outcome.CounterOffer != nil {
			if err := u.negotiationRepo.SaveProposal(ctx, tx, c.ID(), *outcome.CounterOffer, now); err != nil {
				return nil, mapNegotiationRepoError(err)
			}
			if err := u.mirrorCounterOffer(ctx, tx, c.BookingID(), outcome.CounterOffer.Amount, now); err != nil {
				return nil, err
			}
			if err := u.notifyOffer(ctx, tx, TopicOfferReceived, c, *outcome.CounterOffer); err != nil {
				return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		if err := u.notifyOffer(ctx, tx, TopicOfferResolved, c, outcome.ResolvedOffer); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return outcome, nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.AgreedPrice != nil {
		u.propagateAgreedPrice(ctx, conversationID, *outcome.AgreedPrice, now)
	}

	return u.negotiationQueries.GetByIDSystem(ctx, conversationID)
}

// mirrorCounterOffer keeps the booking's commercial terms showing the amount
// currently on the table. Shares the resolution transaction.
func (u *negotiationUseCaseImpl) mirrorCounterOffer(ctx context.Context, q db.Querier, bookingID uuid.UUID, amount money.Money, now time.Time) error {
	b, err := u.bookingRepo.FindByID(ctx, q, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrBookingNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := b.RecordCounterOffer(amount, now); err != nil {
		return mapBookingDomainError(err)
	}
	if err := u.bookingRepo.SaveCounterOffer(ctx, q, b.ID(), *b.Pricing().CounterOffer(), now); err != nil {
		return mapBookingRepoError(err)
	}
	return nil
}

// propagateAgreedPrice is the saga's second step. Errors are absorbed: the
// acceptance already committed and reconciliation re-applies this write.
func (u *negotiationUseCaseImpl) propagateAgreedPrice(ctx context.Context, conversationID uuid.UUID, agreed money.Money, now time.Time) {
	_, err := shared.RunInTx(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		c, err := u.negotiationRepo.FindByID(ctx, tx, conversationID)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, u.bookingRepo.ApplyAgreedPrice(ctx, tx, c.BookingID(), agreed, now)
	})
	if err != nil {
		slog.Error("failed to propagate agreed price to booking",
			"conversation_id", conversationID,
			"agreed_price_cents", agreed.Cents(),
			"error", err)
	}
}

func (u *negotiationUseCaseImpl) findConversation(ctx context.Context, q db.Querier, id uuid.UUID) (*negotiation.Conversation, error) {
	c, err := u.negotiationRepo.FindByID(ctx, q, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrConversationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return c, nil
}

func (u *negotiationUseCaseImpl) notifyOffer(ctx context.Context, q db.Querier, topic string, c *negotiation.Conversation, offer negotiation.Offer) error {
	payload, err := json.Marshal(map[string]any{
		"conversation_id": c.ID(),
		"booking_id":      c.BookingID(),
		"offer_id":        offer.ID,
		"amount_cents":    offer.Amount.Cents(),
		"offered_by":      offer.OfferedBy,
	})
	if err != nil {
		return err
	}
	return u.notificationRepo.CreateJob(ctx, q, topic, payload, u.clock.Now())
}

func mapNegotiationDomainError(err error) error {
	switch {
	case errors.Is(err, negotiation.ErrOfferTooLow):
		return errs.Mark(err, errs.ErrOfferTooLow)
	case errors.Is(err, negotiation.ErrOfferInProgress):
		return errs.Mark(err, errs.ErrOfferInProgress)
	case errors.Is(err, negotiation.ErrOfferExpired):
		return errs.Mark(err, errs.ErrOfferExpired)
	case errors.Is(err, negotiation.ErrNoActiveOffer):
		return errs.Mark(err, errs.ErrNoActiveOffer)
	case errors.Is(err, negotiation.ErrOwnOffer), errors.Is(err, negotiation.ErrNotParticipant):
		return errs.Mark(err, errs.ErrUnauthorized)
	case errors.Is(err, negotiation.ErrClosed), errors.Is(err, negotiation.ErrAlreadyAgreed):
		return errs.Mark(err, errs.ErrNegotiationClosed)
	case errors.Is(err, negotiation.ErrInvalidDecision), errors.Is(err, negotiation.ErrCounterOnAccept):
		return errs.Mark(err, errs.ErrInvalidDecision)
	case errors.Is(err, negotiation.ErrNegativeOffer), errors.Is(err, money.ErrNegativeAmount):
		return errs.Mark(err, errs.ErrInvalidAmount)
	default:
		return err
	}
}

func mapNegotiationRepoError(err error) error {
	switch {
	case infra.IsKind(err, infra.KindStaleStatus):
		return errs.Mark(err, errs.ErrConcurrentModification)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrConversationNotFound)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
