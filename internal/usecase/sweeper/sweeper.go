// Package sweeper applies every time-triggered transition in the system:
// overdue booking flags, offer expiry, escrow auto-release, reminder marks
// and saga price reconciliation. Each step works record by record under the
// same compare-and-swap discipline as user actions, so a sweep racing a user
// request loses cleanly and moves on.
package sweeper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"glowbook/internal/domain/booking"
	"glowbook/internal/domain/money"
	"glowbook/internal/domain/negotiation"
	"glowbook/internal/domain/payment"
	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
	"glowbook/internal/infra/repository"
	"glowbook/internal/pkg/clock"
	"glowbook/internal/pkg/config"
	"glowbook/internal/usecase/commands"
	"glowbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingRepository interface {
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error)
	ApplyAgreedPrice(ctx context.Context, q db.Querier, id uuid.UUID, agreed money.Money, now time.Time) error
	FindOverduePending(ctx context.Context, q db.Querier, now time.Time, limit int32) ([]uuid.UUID, error)
	FlagOverdue(ctx context.Context, q db.Querier, id uuid.UUID, now time.Time) (bool, error)
	FindDueReminders(ctx context.Context, q db.Querier, threshold repository.ReminderThreshold, within time.Duration, now time.Time, limit int32) ([]uuid.UUID, error)
	MarkReminderSent(ctx context.Context, q db.Querier, id uuid.UUID, threshold repository.ReminderThreshold, now time.Time) (bool, error)
}

type NegotiationRepository interface {
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*negotiation.Conversation, error)
	SaveResolution(ctx context.Context, q db.Querier, c *negotiation.Conversation, offerID uuid.UUID, outcome negotiation.OfferStatus, now time.Time) error
	FindExpiredPending(ctx context.Context, q db.Querier, now time.Time, limit int32) ([]uuid.UUID, error)
	FindAcceptedPriceMismatches(ctx context.Context, q db.Querier, limit int32) ([]uuid.UUID, error)
}

type PaymentRepository interface {
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*payment.Payment, error)
	SaveStatus(ctx context.Context, q db.Querier, p *payment.Payment, from payment.Status) error
	AppendEvent(ctx context.Context, q db.Querier, p *payment.Payment) error
	FindDueForRelease(ctx context.Context, q db.Querier, now time.Time, limit int32) ([]uuid.UUID, error)
	FindStaleProcessing(ctx context.Context, q db.Querier, olderThan time.Time, limit int32) ([]uuid.UUID, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, q db.Querier, topic string, payload []byte, runAt time.Time) error
}

// reminderWindows pairs each reminder column with how far ahead of the
// appointment it fires.
var reminderWindows = []struct {
	threshold repository.ReminderThreshold
	within    time.Duration
}{
	{repository.Reminder24h, 24 * time.Hour},
	{repository.Reminder2h, 2 * time.Hour},
	{repository.Reminder30m, 30 * time.Minute},
}

// Payments stuck in processing longer than this are re-polled by the sweep.
const staleProcessingAge = 5 * time.Minute

type Sweeper struct {
	bookings      BookingRepository
	negotiations  NegotiationRepository
	payments      PaymentRepository
	notifications NotificationRepository
	gateway       commands.Gateway
	pool          db.Pool
	clock         clock.Clock
	cfg           config.SweeperConfig
}

func New(
	bookings BookingRepository,
	negotiations NegotiationRepository,
	payments PaymentRepository,
	notifications NotificationRepository,
	gateway commands.Gateway,
	pool db.Pool,
	clock clock.Clock,
	cfg config.SweeperConfig,
) *Sweeper {
	return &Sweeper{
		bookings:      bookings,
		negotiations:  negotiations,
		payments:      payments,
		notifications: notifications,
		gateway:       gateway,
		pool:          pool,
		clock:         clock,
		cfg:           cfg,
	}
}

// Run ticks until the context is cancelled. Concurrent sweepers are safe:
// every mutation is guarded, so double application cannot happen.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes every step. Steps are independent: a failing step is
// logged and the rest still run.
func (s *Sweeper) RunOnce(ctx context.Context) {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"flag_overdue_bookings", s.FlagOverdueBookings},
		{"expire_offers", s.ExpireOffers},
		{"auto_release_escrow", s.AutoReleaseEscrow},
		{"send_reminders", s.SendReminders},
		{"reconcile_prices", s.ReconcilePrices},
		{"poll_stale_processing", s.PollStaleProcessing},
	}

	for _, step := range steps {
		stepCtx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
		if err := step.fn(stepCtx); err != nil {
			slog.Error("sweep step failed", "step", step.name, "error", err)
		}
		cancel()
	}
}

// FlagOverdueBookings marks pending bookings past their auto-confirm deadline
// for follow-up. The flag is informational; the sweep never transitions them.
func (s *Sweeper) FlagOverdueBookings(ctx context.Context) error {
	now := s.clock.Now()
	ids, err := s.bookings.FindOverduePending(ctx, s.pool, now, s.cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, id := range ids {
		flagged, err := s.bookings.FlagOverdue(ctx, s.pool, id, now)
		if err != nil {
			slog.Error("failed to flag overdue booking", "booking_id", id, "error", err)
			continue
		}
		if flagged {
			slog.Info("flagged overdue pending booking", "booking_id", id)
		}
	}
	return nil
}

// ExpireOffers resolves pending offers past their deadline. The booking price
// is never touched; an expired offer simply ends the exchange.
func (s *Sweeper) ExpireOffers(ctx context.Context) error {
	now := s.clock.Now()
	ids, err := s.negotiations.FindExpiredPending(ctx, s.pool, now, s.cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.expireOne(ctx, id, now); err != nil {
			if infra.IsKind(err, infra.KindStaleStatus) {
				// A user response landed between the scan and this write.
				continue
			}
			slog.Error("failed to expire offer", "conversation_id", id, "error", err)
		}
	}
	return nil
}

func (s *Sweeper) expireOne(ctx context.Context, conversationID uuid.UUID, now time.Time) error {
	_, err := shared.RunInTx(ctx, s.pool, func(tx db.Querier) (struct{}, error) {
		c, err := s.negotiations.FindByID(ctx, tx, conversationID)
		if err != nil {
			return struct{}{}, err
		}
		offer, ok := c.Expire(now)
		if !ok {
			return struct{}{}, nil
		}
		if err := s.negotiations.SaveResolution(ctx, tx, c, offer.ID, negotiation.OfferExpired, now); err != nil {
			return struct{}{}, err
		}
		payload, err := json.Marshal(map[string]any{
			"conversation_id": c.ID(),
			"booking_id":      c.BookingID(),
			"offer_id":        offer.ID,
			"amount_cents":    offer.Amount.Cents(),
			"offered_by":      offer.OfferedBy,
			"resolution":      negotiation.OfferExpired.String(),
		})
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.notifications.CreateJob(ctx, tx, commands.TopicOfferResolved, payload, now)
	})
	return err
}

// AutoReleaseEscrow settles held payments whose release schedule has passed,
// exactly as if the stylist had released them, with the fixed timeout reason.
// The status guard in the save makes a re-run a no-op.
func (s *Sweeper) AutoReleaseEscrow(ctx context.Context) error {
	now := s.clock.Now()
	ids, err := s.payments.FindDueForRelease(ctx, s.pool, now, s.cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.releaseOne(ctx, id, now); err != nil {
			if infra.IsKind(err, infra.KindStaleStatus) {
				continue
			}
			slog.Error("failed to auto-release escrow", "payment_id", id, "error", err)
		}
	}
	return nil
}

func (s *Sweeper) releaseOne(ctx context.Context, paymentID uuid.UUID, now time.Time) error {
	_, err := shared.RunInTx(ctx, s.pool, func(tx db.Querier) (struct{}, error) {
		p, err := s.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return struct{}{}, err
		}
		b, err := s.bookings.FindByID(ctx, tx, p.BookingID())
		if err != nil {
			return struct{}{}, err
		}

		from := p.Status()
		err = p.AutoRelease(b.Status() == booking.StatusCompleted, now)
		if err != nil {
			// Not ready yet (booking unfinished or a user action won); the
			// next sweep reconsiders.
			slog.Info("skipping escrow auto-release", "payment_id", paymentID, "reason", err)
			return struct{}{}, nil
		}
		if err := s.payments.SaveStatus(ctx, tx, p, from); err != nil {
			return struct{}{}, err
		}

		payload, err := json.Marshal(map[string]any{
			"payment_id": p.ID(),
			"booking_id": p.BookingID(),
			"status":     p.Status().String(),
			"reason":     payment.ReleaseReasonTimeout,
		})
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.notifications.CreateJob(ctx, tx, commands.TopicPaymentStatusChanged, payload, now)
	})
	return err
}

// SendReminders marks each due reminder threshold at most once and queues the
// matching notification in the same transaction.
func (s *Sweeper) SendReminders(ctx context.Context) error {
	now := s.clock.Now()
	for _, window := range reminderWindows {
		ids, err := s.bookings.FindDueReminders(ctx, s.pool, window.threshold, window.within, now, s.cfg.BatchSize)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := s.remindOne(ctx, id, window.threshold, now); err != nil {
				slog.Error("failed to send reminder", "booking_id", id, "threshold", window.threshold, "error", err)
			}
		}
	}
	return nil
}

func (s *Sweeper) remindOne(ctx context.Context, bookingID uuid.UUID, threshold repository.ReminderThreshold, now time.Time) error {
	_, err := shared.RunInTx(ctx, s.pool, func(tx db.Querier) (struct{}, error) {
		marked, err := s.bookings.MarkReminderSent(ctx, tx, bookingID, threshold, now)
		if err != nil {
			return struct{}{}, err
		}
		if !marked {
			// Another sweep got here first.
			return struct{}{}, nil
		}
		b, err := s.bookings.FindByID(ctx, tx, bookingID)
		if err != nil {
			return struct{}{}, err
		}
		payload, err := json.Marshal(map[string]any{
			"booking_id":     b.ID(),
			"customer_id":    b.CustomerID(),
			"stylist_id":     b.StylistID(),
			"appointment_at": b.AppointmentAt(),
			"threshold":      string(threshold),
		})
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.notifications.CreateJob(ctx, tx, commands.TopicReminderDue, payload, now)
	})
	return err
}

// ReconcilePrices re-applies the saga's second step wherever an accepted
// negotiation and its booking disagree on the price.
func (s *Sweeper) ReconcilePrices(ctx context.Context) error {
	now := s.clock.Now()
	ids, err := s.negotiations.FindAcceptedPriceMismatches(ctx, s.pool, s.cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.reconcileOne(ctx, id, now); err != nil {
			slog.Error("failed to reconcile price", "conversation_id", id, "error", err)
		}
	}
	return nil
}

func (s *Sweeper) reconcileOne(ctx context.Context, conversationID uuid.UUID, now time.Time) error {
	_, err := shared.RunInTx(ctx, s.pool, func(tx db.Querier) (struct{}, error) {
		c, err := s.negotiations.FindByID(ctx, tx, conversationID)
		if err != nil {
			return struct{}{}, err
		}
		agreed := c.FinalAgreedPrice()
		if agreed == nil {
			return struct{}{}, nil
		}
		slog.Warn("reconciling negotiated price divergence",
			"conversation_id", c.ID(),
			"booking_id", c.BookingID(),
			"agreed_price_cents", agreed.Cents())
		return struct{}{}, s.bookings.ApplyAgreedPrice(ctx, tx, c.BookingID(), *agreed, now)
	})
	return err
}

// PollStaleProcessing re-polls payments the happy-path poll never finished.
// Gateway failures leave them in processing for the next cycle.
func (s *Sweeper) PollStaleProcessing(ctx context.Context) error {
	now := s.clock.Now()
	ids, err := s.payments.FindStaleProcessing(ctx, s.pool, now.Add(-staleProcessingAge), s.cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.pollOne(ctx, id, now); err != nil {
			if infra.IsKind(err, infra.KindStaleStatus) {
				continue
			}
			slog.Error("failed to poll stale payment", "payment_id", id, "error", err)
		}
	}
	return nil
}

func (s *Sweeper) pollOne(ctx context.Context, paymentID uuid.UUID, now time.Time) error {
	p, err := s.payments.FindByID(ctx, s.pool, paymentID)
	if err != nil {
		return err
	}
	if p.Status() != payment.StatusProcessing || p.GatewayTxnID() == nil {
		return nil
	}

	result, err := s.gateway.PollStatus(ctx, *p.GatewayTxnID())
	if err != nil {
		return err
	}
	if result.Status == commands.GatewayStatusPending {
		return nil
	}

	_, err = shared.RunInTx(ctx, s.pool, func(tx db.Querier) (struct{}, error) {
		p, err := s.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return struct{}{}, err
		}
		if p.Status() != payment.StatusProcessing {
			return struct{}{}, nil
		}
		from := p.Status()
		p.RecordGatewayEvent(fmt.Sprintf("sweep poll returned %s", result.Status), now)

		if result.Status == commands.GatewayStatusCompleted {
			if p.Type() == payment.TypeFullPayment {
				err = p.Hold(now)
			} else {
				err = p.CompleteDirect(now)
			}
		} else {
			err = p.MarkFailed("gateway reported failure", now)
		}
		if err != nil {
			return struct{}{}, err
		}
		if err := s.payments.SaveStatus(ctx, tx, p, from); err != nil {
			return struct{}{}, err
		}

		payload, err := json.Marshal(map[string]any{
			"payment_id": p.ID(),
			"booking_id": p.BookingID(),
			"status":     p.Status().String(),
		})
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.notifications.CreateJob(ctx, tx, commands.TopicPaymentStatusChanged, payload, now)
	})
	return err
}
