package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"glowbook/internal/domain/actor"
	"glowbook/internal/domain/booking"
	"glowbook/internal/domain/money"
	"glowbook/internal/domain/payment"
	reqdto "glowbook/internal/handler/dto/request"
	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
	"glowbook/internal/pkg/clock"
	"glowbook/internal/pkg/errs"
	"glowbook/internal/usecase/queries"
	"glowbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentCommands interface {
	InitiatePayment(ctx context.Context, req reqdto.InitiatePaymentRequest, by actor.Actor) (*queries.PaymentView, error)
	PollPayment(ctx context.Context, paymentID uuid.UUID, by actor.Actor) (*queries.PaymentView, error)
	ReleaseEscrow(ctx context.Context, paymentID uuid.UUID, by actor.Actor, reason string) (*queries.PaymentView, error)
	RefundPayment(ctx context.Context, paymentID uuid.UUID, by actor.Actor, amountCents int64, reason string) (*queries.PaymentView, error)
	ResolveDispute(ctx context.Context, paymentID uuid.UUID, by actor.Actor, outcome payment.Status, reason string) (*queries.PaymentView, error)
}

type paymentUseCaseImpl struct {
	paymentRepo      PaymentRepository
	bookingRepo      BookingRepository
	notificationRepo NotificationRepository
	gateway          Gateway
	paymentQueries   queries.PaymentQueries
	pool             db.Pool
	clock            clock.Clock
}

func NewPaymentUseCase(
	paymentRepo PaymentRepository,
	bookingRepo BookingRepository,
	notificationRepo NotificationRepository,
	gateway Gateway,
	paymentQueries queries.PaymentQueries,
	pool db.Pool,
	clock clock.Clock,
) PaymentCommands {
	return &paymentUseCaseImpl{
		paymentRepo:      paymentRepo,
		bookingRepo:      bookingRepo,
		notificationRepo: notificationRepo,
		gateway:          gateway,
		paymentQueries:   paymentQueries,
		pool:             pool,
		clock:            clock,
	}
}

// InitiatePayment creates the payment record for a booking and asks the
// gateway to start collection. Re-initiating a still-pending payment reuses
// the record and its idempotency key rather than creating a duplicate.
func (u *paymentUseCaseImpl) InitiatePayment(ctx context.Context, req reqdto.InitiatePaymentRequest, by actor.Actor) (*queries.PaymentView, error) {
	now := u.clock.Now()

	p, err := shared.WithDefaultRetry(ctx, u.pool, func(tx db.Querier) (*payment.Payment, error) {
		b, err := u.bookingRepo.FindByID(ctx, tx, req.BookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, errs.ErrBookingNotFound)
			}
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !b.IsParticipant(by.ID) {
			return nil, errs.ErrUnauthorized
		}
		if b.Status() != booking.StatusAccepted && b.Status() != booking.StatusConfirmed {
			return nil, errs.ErrBookingNotPayable
		}

		if existing, err := u.paymentRepo.FindByBookingID(ctx, tx, b.ID()); err == nil {
			if existing.Status() == payment.StatusPending {
				return existing, nil
			}
			return nil, errs.ErrPaymentExists
		} else if !infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		amount := b.Pricing().Total()
		if req.ToType() == payment.TypeDeposit {
			amount = b.Pricing().Deposit()
		}

		p, err := payment.NewPayment(now, b.ID(), b.CustomerID(), b.StylistID(), req.ToType(), req.ToMethod(), amount, "")
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidAmount)
		}
		if err := u.paymentRepo.Create(ctx, tx, p); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return nil, errs.Mark(err, errs.ErrPaymentExists)
			}
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := u.bookingRepo.SetPaymentID(ctx, tx, b.ID(), p.ID()); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return nil, errs.Mark(err, errs.ErrPaymentExists)
			}
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := u.notifyPaymentStatus(ctx, tx, p); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	result, gatewayErr := u.gateway.Initiate(ctx, GatewayInitiateRequest{
		AmountCents:    p.Amount().Cents(),
		Currency:       p.Currency(),
		PayerPhone:     req.GetPayerPhone(),
		Method:         p.Method(),
		IdempotencyKey: p.IdempotencyKey(),
	})
	if gatewayErr != nil {
		// The payment stays pending; re-initiating retries the gateway with
		// the same idempotency key.
		u.recordGatewayEvent(ctx, p.ID(), fmt.Sprintf("gateway initiate failed: %v", gatewayErr))
		return nil, errs.Mark(gatewayErr, errs.ErrGatewayUnavailable)
	}

	_, err = shared.RunInTx(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		p, err := u.findPayment(ctx, tx, p.ID())
		if err != nil {
			return struct{}{}, err
		}
		from := p.Status()
		p.RecordGatewayEvent(fmt.Sprintf("gateway accepted initiate, txn %s", result.GatewayTxnID), u.clock.Now())
		if err := p.MarkProcessing(result.GatewayTxnID, u.clock.Now()); err != nil {
			return struct{}{}, mapPaymentDomainError(err)
		}
		if err := u.paymentRepo.SaveStatus(ctx, tx, p, from); err != nil {
			return struct{}{}, mapPaymentRepoError(err)
		}
		return struct{}{}, u.notifyPaymentStatus(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	return u.paymentQueries.GetByIDSystem(ctx, p.ID())
}

// PollPayment asks the gateway for the current transaction state and merges
// the answer into the local machine. A pending answer or an unreachable
// gateway leaves the payment in processing for the next cycle.
func (u *paymentUseCaseImpl) PollPayment(ctx context.Context, paymentID uuid.UUID, by actor.Actor) (*queries.PaymentView, error) {
	p, err := u.loadAuthorized(ctx, paymentID, by)
	if err != nil {
		return nil, err
	}
	if p.Status() != payment.StatusProcessing || p.GatewayTxnID() == nil {
		return u.paymentQueries.GetByIDSystem(ctx, paymentID)
	}

	result, gatewayErr := u.gateway.PollStatus(ctx, *p.GatewayTxnID())
	if gatewayErr != nil {
		u.recordGatewayEvent(ctx, paymentID, fmt.Sprintf("gateway poll failed: %v", gatewayErr))
		return nil, errs.Mark(gatewayErr, errs.ErrGatewayUnavailable)
	}

	_, err = shared.RunInTx(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		p, err := u.findPayment(ctx, tx, paymentID)
		if err != nil {
			return struct{}{}, err
		}
		if p.Status() != payment.StatusProcessing {
			// A concurrent poll already applied the gateway's answer.
			return struct{}{}, nil
		}
		from := p.Status()
		p.RecordGatewayEvent(fmt.Sprintf("gateway poll returned %s", result.Status), u.clock.Now())

		switch result.Status {
		case GatewayStatusCompleted:
			// Full payments go into escrow custody; deposits settle directly.
			if p.Type() == payment.TypeFullPayment {
				err = p.Hold(u.clock.Now())
			} else {
				err = p.CompleteDirect(u.clock.Now())
			}
			if err != nil {
				return struct{}{}, mapPaymentDomainError(err)
			}
		case GatewayStatusFailed:
			if err := p.MarkFailed("gateway reported failure", u.clock.Now()); err != nil {
				return struct{}{}, mapPaymentDomainError(err)
			}
		case GatewayStatusPending:
			return struct{}{}, u.paymentRepo.AppendEvent(ctx, tx, p)
		}

		if err := u.paymentRepo.SaveStatus(ctx, tx, p, from); err != nil {
			return struct{}{}, mapPaymentRepoError(err)
		}
		return struct{}{}, u.notifyPaymentStatus(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	return u.paymentQueries.GetByIDSystem(ctx, paymentID)
}

// ReleaseEscrow pays held funds out to the stylist. Legal only while the
// payment is held and the booking is completed.
func (u *paymentUseCaseImpl) ReleaseEscrow(ctx context.Context, paymentID uuid.UUID, by actor.Actor, reason string) (*queries.PaymentView, error) {
	now := u.clock.Now()

	_, err := shared.RunInTx(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		p, err := u.findPayment(ctx, tx, paymentID)
		if err != nil {
			return struct{}{}, err
		}
		if by.ID != p.StylistID() && !by.IsAdmin() {
			return struct{}{}, errs.ErrUnauthorized
		}

		b, err := u.bookingRepo.FindByID(ctx, tx, p.BookingID())
		if err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		from := p.Status()
		if err := p.Release(by.ID, reason, b.Status() == booking.StatusCompleted, now); err != nil {
			return struct{}{}, mapPaymentDomainError(err)
		}
		if err := u.paymentRepo.SaveStatus(ctx, tx, p, from); err != nil {
			return struct{}{}, mapPaymentRepoError(err)
		}
		return struct{}{}, u.notifyPaymentStatus(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	return u.paymentQueries.GetByIDSystem(ctx, paymentID)
}

// RefundPayment claws funds back through the gateway and records the terminal
// refund. The gateway response lands in the timeline before the local state
// moves.
func (u *paymentUseCaseImpl) RefundPayment(ctx context.Context, paymentID uuid.UUID, by actor.Actor, amountCents int64, reason string) (*queries.PaymentView, error) {
	now := u.clock.Now()

	amount, err := money.FromCents(amountCents)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidAmount)
	}

	p, err := u.loadAuthorized(ctx, paymentID, by)
	if err != nil {
		return nil, err
	}
	if p.Status() != payment.StatusHeld && p.Status() != payment.StatusCompleted {
		return nil, errs.ErrInvalidPaymentChange
	}
	if p.Amount().LessThan(amount) {
		return nil, errs.ErrRefundTooLarge
	}
	if p.GatewayTxnID() == nil {
		return nil, errs.ErrInvalidPaymentChange
	}

	result, gatewayErr := u.gateway.Refund(ctx, *p.GatewayTxnID(), amount.Cents(), p.IdempotencyKey())
	if gatewayErr != nil {
		u.recordGatewayEvent(ctx, paymentID, fmt.Sprintf("gateway refund failed: %v", gatewayErr))
		return nil, errs.Mark(gatewayErr, errs.ErrGatewayUnavailable)
	}

	_, err = shared.RunInTx(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		p, err := u.findPayment(ctx, tx, paymentID)
		if err != nil {
			return struct{}{}, err
		}
		from := p.Status()
		p.RecordGatewayEvent(fmt.Sprintf("gateway refund %s returned %s", result.RefundTxnID, result.Status), now)
		if err := p.ApplyRefund(amount, reason, result.RefundTxnID, now); err != nil {
			return struct{}{}, mapPaymentDomainError(err)
		}
		if err := u.paymentRepo.SaveStatus(ctx, tx, p, from); err != nil {
			return struct{}{}, mapPaymentRepoError(err)
		}
		return struct{}{}, u.notifyPaymentStatus(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	return u.paymentQueries.GetByIDSystem(ctx, paymentID)
}

// ResolveDispute settles a disputed payment to completed or refunded. Admin
// only; regular parties go through release and refund.
func (u *paymentUseCaseImpl) ResolveDispute(ctx context.Context, paymentID uuid.UUID, by actor.Actor, outcome payment.Status, reason string) (*queries.PaymentView, error) {
	if !by.IsAdmin() {
		return nil, errs.ErrUnauthorized
	}
	now := u.clock.Now()

	_, err := shared.RunInTx(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		p, err := u.findPayment(ctx, tx, paymentID)
		if err != nil {
			return struct{}{}, err
		}
		from := p.Status()
		if err := p.ResolveDispute(outcome, reason, now); err != nil {
			return struct{}{}, mapPaymentDomainError(err)
		}
		if err := u.paymentRepo.SaveStatus(ctx, tx, p, from); err != nil {
			return struct{}{}, mapPaymentRepoError(err)
		}
		return struct{}{}, u.notifyPaymentStatus(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	return u.paymentQueries.GetByIDSystem(ctx, paymentID)
}

func (u *paymentUseCaseImpl) loadAuthorized(ctx context.Context, paymentID uuid.UUID, by actor.Actor) (*payment.Payment, error) {
	p, err := u.findPayment(ctx, u.pool, paymentID)
	if err != nil {
		return nil, err
	}
	if by.ID != p.CustomerID() && by.ID != p.StylistID() && !by.IsAdmin() {
		return nil, errs.ErrUnauthorized
	}
	return p, nil
}

func (u *paymentUseCaseImpl) findPayment(ctx context.Context, q db.Querier, id uuid.UUID) (*payment.Payment, error) {
	p, err := u.paymentRepo.FindByID(ctx, q, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrPaymentNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return p, nil
}

// recordGatewayEvent persists a gateway observation outside of any status
// change, keeping the audit trail intact even when the call failed.
func (u *paymentUseCaseImpl) recordGatewayEvent(ctx context.Context, paymentID uuid.UUID, description string) {
	_, err := shared.RunInTx(ctx, u.pool, func(tx db.Querier) (struct{}, error) {
		p, err := u.findPayment(ctx, tx, paymentID)
		if err != nil {
			return struct{}{}, err
		}
		p.RecordGatewayEvent(description, u.clock.Now())
		return struct{}{}, u.paymentRepo.AppendEvent(ctx, tx, p)
	})
	if err != nil {
		// Nothing else to do; the next poll writes a fresh entry.
		return
	}
}

func (u *paymentUseCaseImpl) notifyPaymentStatus(ctx context.Context, q db.Querier, p *payment.Payment) error {
	payload, err := json.Marshal(map[string]any{
		"payment_id":  p.ID(),
		"booking_id":  p.BookingID(),
		"customer_id": p.CustomerID(),
		"stylist_id":  p.StylistID(),
		"status":      p.Status().String(),
	})
	if err != nil {
		return err
	}
	return u.notificationRepo.CreateJob(ctx, q, TopicPaymentStatusChanged, payload, u.clock.Now())
}

func mapPaymentDomainError(err error) error {
	switch {
	case errors.Is(err, payment.ErrInvalidTransition), errors.Is(err, payment.ErrNotDisputed), errors.Is(err, payment.ErrInvalidDisputeOutcome):
		return errs.Mark(err, errs.ErrInvalidPaymentChange)
	case errors.Is(err, payment.ErrEscrowNotReady):
		return errs.Mark(err, errs.ErrEscrowNotReady)
	case errors.Is(err, payment.ErrRefundTooLarge):
		return errs.Mark(err, errs.ErrRefundTooLarge)
	case errors.Is(err, payment.ErrRefundNotAllowed):
		return errs.Mark(err, errs.ErrInvalidPaymentChange)
	case errors.Is(err, payment.ErrNegativeRefund), errors.Is(err, money.ErrNegativeAmount):
		return errs.Mark(err, errs.ErrInvalidAmount)
	default:
		return err
	}
}

func mapPaymentRepoError(err error) error {
	switch {
	case infra.IsKind(err, infra.KindStaleStatus):
		return errs.Mark(err, errs.ErrConcurrentModification)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrPaymentNotFound)
	case infra.IsKind(err, infra.KindDuplicateKey):
		return errs.Mark(err, errs.ErrPaymentExists)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
