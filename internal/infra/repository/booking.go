package repository

import (
	"context"
	"encoding/json"
	"time"

	"glowbook/internal/domain/actor"
	"glowbook/internal/domain/booking"
	"glowbook/internal/domain/money"
	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
	"glowbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ReminderThreshold selects which reminder column a sweep is marking.
type ReminderThreshold string

const (
	Reminder24h ReminderThreshold = "reminder_24h_sent_at"
	Reminder2h  ReminderThreshold = "reminder_2h_sent_at"
	Reminder30m ReminderThreshold = "reminder_30m_sent_at"
)

type feeRow struct {
	Label       string `json:"label"`
	AmountCents int64  `json:"amount_cents"`
}

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const bookingColumns = `
	id, customer_id, stylist_id, profile_id,
	base_price_cents, negotiated_price_cents, counter_offer_cents, additional_fees,
	appointment_at, duration_minutes, status,
	conversation_id, payment_id,
	customer_confirmed_at, stylist_confirmed_at, auto_confirm_deadline,
	cancelled_by, cancelled_by_role, cancel_reason, cancel_note,
	refund_percentage, with_penalty, cancelled_at,
	completed_at, created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, q db.Querier, b *booking.Booking) error {
	fees, err := marshalFees(b.Pricing().Fees())
	if err != nil {
		return infra.WrapRepoErr("failed to encode additional fees", err)
	}

	query := `
		INSERT INTO bookings (
			id, customer_id, stylist_id, profile_id,
			base_price_cents, negotiated_price_cents, deposit_cents, total_cents, additional_fees,
			appointment_at, duration_minutes, estimated_end_at, status,
			auto_confirm_deadline, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = q.Exec(ctx, query,
		b.ID(), b.CustomerID(), b.StylistID(), b.ProfileID(),
		b.Pricing().BasePrice().Cents(),
		b.Pricing().NegotiatedPrice().Cents(),
		b.Pricing().Deposit().Cents(),
		b.Pricing().Total().Cents(),
		fees,
		b.AppointmentAt(),
		int32(b.Duration()/time.Minute),
		b.EstimatedEnd(),
		b.Status().String(),
		b.AutoConfirmDeadline(),
		b.CreatedAt(),
		b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error) {
	row := q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}
	return b, nil
}

// SaveTransition persists a status change with a compare-and-swap on the
// previously read status. A zero row count with an existing row means a
// concurrent writer won.
func (r *BookingRepository) SaveTransition(ctx context.Context, q db.Querier, b *booking.Booking, from booking.Status) error {
	var cancelledBy pgtype.UUID
	var cancelledByRole, cancelReason, cancelNote pgtype.Text
	var refundPercentage pgtype.Int4
	var withPenalty *bool
	var cancelledAt pgtype.Timestamptz
	if c := b.Cancellation(); c != nil {
		cancelledBy = pgconv.UUIDToPgtype(c.ByID)
		cancelledByRole = pgconv.StringToPgtype(c.ByRole.String())
		cancelReason = pgconv.StringToPgtype(c.Reason)
		cancelNote = pgconv.StringToPgtype(c.Note)
		refundPercentage = pgtype.Int4{Int32: int32(c.RefundPercentage), Valid: true}
		wp := c.WithPenalty
		withPenalty = &wp
		cancelledAt = pgconv.TimeToPgtype(c.At)
	}

	query := `
		UPDATE bookings SET
			status = $2,
			customer_confirmed_at = $3,
			stylist_confirmed_at = $4,
			cancelled_by = $5,
			cancelled_by_role = $6,
			cancel_reason = $7,
			cancel_note = $8,
			refund_percentage = $9,
			with_penalty = $10,
			cancelled_at = $11,
			completed_at = $12,
			updated_at = $13
		WHERE id = $1 AND status = $14`

	tag, err := q.Exec(ctx, query,
		b.ID(),
		b.Status().String(),
		pgconv.TimePtrToPgtype(b.CustomerConfirmedAt()),
		pgconv.TimePtrToPgtype(b.StylistConfirmedAt()),
		cancelledBy,
		cancelledByRole,
		cancelReason,
		cancelNote,
		refundPercentage,
		withPenalty,
		cancelledAt,
		pgconv.TimePtrToPgtype(b.CompletedAt()),
		b.UpdatedAt(),
		from.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save booking transition", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking status changed concurrently", nil, infra.KindStaleStatus)
	}
	return nil
}

// ApplyAgreedPrice writes the negotiation outcome into the booking's
// commercial terms. Unconditional and idempotent so the saga's second step
// can be re-applied during reconciliation.
func (r *BookingRepository) ApplyAgreedPrice(ctx context.Context, q db.Querier, id uuid.UUID, agreed money.Money, now time.Time) error {
	query := `
		UPDATE bookings SET
			negotiated_price_cents = $2,
			deposit_cents = $3,
			total_cents = $2 + (
				SELECT COALESCE(SUM((fee->>'amount_cents')::bigint), 0)
				FROM jsonb_array_elements(additional_fees) AS fee
			),
			counter_offer_cents = NULL,
			updated_at = $4
		WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, agreed.Cents(), agreed.PercentBps(booking.DepositRateBps).Cents(), now)
	if err != nil {
		return infra.WrapRepoErr("failed to apply agreed price", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// SaveCounterOffer mirrors the pending counter-offer amount onto the booking
// row. Cleared again by ApplyAgreedPrice when the negotiation settles.
func (r *BookingRepository) SaveCounterOffer(ctx context.Context, q db.Querier, id uuid.UUID, amount money.Money, now time.Time) error {
	tag, err := q.Exec(ctx,
		`UPDATE bookings SET counter_offer_cents = $2, updated_at = $3 WHERE id = $1`,
		id, amount.Cents(), now)
	if err != nil {
		return infra.WrapRepoErr("failed to save counter offer", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) SetConversationID(ctx context.Context, q db.Querier, id, conversationID uuid.UUID) error {
	tag, err := q.Exec(ctx,
		`UPDATE bookings SET conversation_id = $2 WHERE id = $1 AND conversation_id IS NULL`,
		id, conversationID)
	if err != nil {
		return infra.WrapRepoErr("failed to link conversation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking already has a conversation", nil, infra.KindDuplicateKey)
	}
	return nil
}

func (r *BookingRepository) SetPaymentID(ctx context.Context, q db.Querier, id, paymentID uuid.UUID) error {
	tag, err := q.Exec(ctx,
		`UPDATE bookings SET payment_id = $2 WHERE id = $1 AND payment_id IS NULL`,
		id, paymentID)
	if err != nil {
		return infra.WrapRepoErr("failed to link payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking already has a payment", nil, infra.KindDuplicateKey)
	}
	return nil
}

// FindByParticipant lists bookings where the party appears on either side,
// newest first.
func (r *BookingRepository) FindByParticipant(ctx context.Context, q db.Querier, partyID uuid.UUID, limit, offset int32) ([]*booking.Booking, error) {
	rows, err := q.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE customer_id = $1 OR stylist_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, partyID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by participant", err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return out, nil
}

// FindOverduePending lists pending bookings past their auto-confirm deadline
// that have not been flagged yet.
func (r *BookingRepository) FindOverduePending(ctx context.Context, q db.Querier, now time.Time, limit int32) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT id FROM bookings
		WHERE status = 'pending'
		  AND auto_confirm_deadline <= $1
		  AND flagged_overdue_at IS NULL
		ORDER BY auto_confirm_deadline
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query overdue bookings", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// FlagOverdue marks a pending booking for follow-up, at most once. The
// status guard keeps the sweep from flagging a booking a user just moved.
func (r *BookingRepository) FlagOverdue(ctx context.Context, q db.Querier, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE bookings SET flagged_overdue_at = $2
		WHERE id = $1 AND status = 'pending' AND flagged_overdue_at IS NULL`, id, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to flag overdue booking", err)
	}
	return tag.RowsAffected() == 1, nil
}

// FindDueReminders lists bookings whose appointment falls inside the window
// and whose reminder column for the threshold is still unset.
func (r *BookingRepository) FindDueReminders(ctx context.Context, q db.Querier, threshold ReminderThreshold, within time.Duration, now time.Time, limit int32) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT id FROM bookings
		WHERE status IN ('accepted', 'confirmed')
		  AND appointment_at > $1
		  AND appointment_at <= $2
		  AND `+string(threshold)+` IS NULL
		ORDER BY appointment_at
		LIMIT $3`, now, now.Add(within), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query due reminders", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// MarkReminderSent sets the threshold column once; a false return means a
// concurrent sweep already sent it.
func (r *BookingRepository) MarkReminderSent(ctx context.Context, q db.Querier, id uuid.UUID, threshold ReminderThreshold, now time.Time) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE bookings SET `+string(threshold)+` = $2
		WHERE id = $1 AND `+string(threshold)+` IS NULL`, id, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark reminder sent", err)
	}
	return tag.RowsAffected() == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		id, customerID, stylistID, profileID       uuid.UUID
		basePriceCents, negotiatedPriceCents       int64
		counterOfferCents                          pgtype.Int8
		feesJSON                                   []byte
		appointmentAt                              time.Time
		durationMinutes                            int32
		status                                     string
		conversationID, paymentID                  pgtype.UUID
		customerConfirmedAt, stylistConfirmedAt    pgtype.Timestamptz
		autoConfirmDeadline                        time.Time
		cancelledBy                                pgtype.UUID
		cancelledByRole, cancelReason, cancelNote  pgtype.Text
		refundPercentage                           pgtype.Int4
		withPenalty                                *bool
		cancelledAt, completedAt                   pgtype.Timestamptz
		createdAt, updatedAt                       time.Time
	)

	err := row.Scan(
		&id, &customerID, &stylistID, &profileID,
		&basePriceCents, &negotiatedPriceCents, &counterOfferCents, &feesJSON,
		&appointmentAt, &durationMinutes, &status,
		&conversationID, &paymentID,
		&customerConfirmedAt, &stylistConfirmedAt, &autoConfirmDeadline,
		&cancelledBy, &cancelledByRole, &cancelReason, &cancelNote,
		&refundPercentage, &withPenalty, &cancelledAt,
		&completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	fees, err := unmarshalFees(feesJSON)
	if err != nil {
		return nil, err
	}

	var counterOffer *money.Money
	if c := pgconv.Int64PtrFromPgtype(counterOfferCents); c != nil {
		m := money.New(*c)
		counterOffer = &m
	}

	pricing := booking.ReconstructPricing(
		money.New(basePriceCents),
		money.New(negotiatedPriceCents),
		counterOffer,
		fees,
	)

	var cancellation *booking.Cancellation
	if cancelledBy.Valid {
		cancellation = &booking.Cancellation{
			ByID:             uuid.UUID(cancelledBy.Bytes),
			ByRole:           actor.Role(cancelledByRole.String),
			Reason:           cancelReason.String,
			Note:             cancelNote.String,
			RefundPercentage: int(refundPercentage.Int32),
			At:               cancelledAt.Time,
		}
		if withPenalty != nil {
			cancellation.WithPenalty = *withPenalty
		}
	}

	return booking.Reconstruct(
		id, customerID, stylistID, profileID,
		pricing,
		appointmentAt,
		time.Duration(durationMinutes)*time.Minute,
		booking.Status(status),
		pgconv.UUIDPtrFromPgtype(conversationID),
		pgconv.UUIDPtrFromPgtype(paymentID),
		pgconv.TimePtrFromPgtype(customerConfirmedAt),
		pgconv.TimePtrFromPgtype(stylistConfirmedAt),
		autoConfirmDeadline,
		cancellation,
		pgconv.TimePtrFromPgtype(completedAt),
		createdAt, updatedAt,
	), nil
}

func marshalFees(fees []booking.Fee) ([]byte, error) {
	rows := make([]feeRow, len(fees))
	for i, f := range fees {
		rows[i] = feeRow{Label: f.Label, AmountCents: f.Amount.Cents()}
	}
	return json.Marshal(rows)
}

func unmarshalFees(data []byte) ([]booking.Fee, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rows []feeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	fees := make([]booking.Fee, len(rows))
	for i, r := range rows {
		fees[i] = booking.Fee{Label: r.Label, Amount: money.New(r.AmountCents)}
	}
	return fees, nil
}
