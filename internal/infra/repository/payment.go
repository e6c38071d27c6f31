package repository

import (
	"context"
	"time"

	"glowbook/internal/domain/money"
	"glowbook/internal/domain/payment"
	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
	"glowbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

const paymentColumns = `
	id, booking_id, customer_id, stylist_id,
	type, method, amount_cents, currency,
	platform_fee_cents, gateway_fee_cents, status,
	held_at, release_conditions, release_scheduled_at,
	released_at, released_by, release_reason,
	refund_amount_cents, refund_reason, refund_gateway_ref, refunded_at,
	gateway_txn_id, idempotency_key, created_at, updated_at`

func (r *PaymentRepository) Create(ctx context.Context, q db.Querier, p *payment.Payment) error {
	fees := p.PaymentFees()
	query := `
		INSERT INTO payments (
			id, booking_id, customer_id, stylist_id,
			type, method, amount_cents, currency,
			platform_fee_cents, gateway_fee_cents, status,
			idempotency_key, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := q.Exec(ctx, query,
		p.ID(), p.BookingID(), p.CustomerID(), p.StylistID(),
		string(p.Type()), string(p.Method()), p.Amount().Cents(), p.Currency(),
		fees.Platform.Cents(), fees.Gateway.Cents(), p.Status().String(),
		p.IdempotencyKey(), p.CreatedAt(), p.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("payment already exists for booking", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create payment", err)
	}

	return r.appendTimeline(ctx, q, p.ID(), p.DrainPendingEntries())
}

func (r *PaymentRepository) FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx, q, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r *PaymentRepository) FindByBookingID(ctx context.Context, q db.Querier, bookingID uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx, q, `SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1`, bookingID)
}

func (r *PaymentRepository) findOne(ctx context.Context, q db.Querier, query string, arg any) (*payment.Payment, error) {
	row := q.QueryRow(ctx, query, arg)

	var (
		id, bookingID, customerID, stylistID      uuid.UUID
		typ, method, currency, status             string
		amountCents, platformFee, gatewayFee      int64
		heldAt                                    pgtype.Timestamptz
		releaseConditions                         pgtype.Text
		releaseScheduledAt, releasedAt            pgtype.Timestamptz
		releasedBy                                pgtype.UUID
		releaseReason                             pgtype.Text
		refundAmountCents                         pgtype.Int8
		refundReason, refundGatewayRef            pgtype.Text
		refundedAt                                pgtype.Timestamptz
		gatewayTxnID                              pgtype.Text
		idempotencyKey                            uuid.UUID
		createdAt, updatedAt                      time.Time
	)

	err := row.Scan(
		&id, &bookingID, &customerID, &stylistID,
		&typ, &method, &amountCents, &currency,
		&platformFee, &gatewayFee, &status,
		&heldAt, &releaseConditions, &releaseScheduledAt,
		&releasedAt, &releasedBy, &releaseReason,
		&refundAmountCents, &refundReason, &refundGatewayRef, &refundedAt,
		&gatewayTxnID, &idempotencyKey, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}

	timeline, err := r.loadTimeline(ctx, q, id)
	if err != nil {
		return nil, err
	}

	escrow := payment.Escrow{
		HeldAt:             pgconv.TimePtrFromPgtype(heldAt),
		ReleaseScheduledAt: pgconv.TimePtrFromPgtype(releaseScheduledAt),
		ReleasedAt:         pgconv.TimePtrFromPgtype(releasedAt),
		ReleasedBy:         pgconv.UUIDPtrFromPgtype(releasedBy),
	}
	if releaseConditions.Valid {
		escrow.ReleaseConditions = releaseConditions.String
	}
	if releaseReason.Valid {
		escrow.ReleaseReason = releaseReason.String
	}

	var refund *payment.Refund
	if refundAmountCents.Valid {
		refund = &payment.Refund{
			Amount:     money.New(refundAmountCents.Int64),
			Reason:     refundReason.String,
			GatewayRef: refundGatewayRef.String,
			At:         refundedAt.Time,
		}
	}

	return payment.Reconstruct(
		id, bookingID, customerID, stylistID,
		payment.Type(typ),
		payment.Method(method),
		money.New(amountCents),
		currency,
		payment.Fees{Platform: money.New(platformFee), Gateway: money.New(gatewayFee)},
		payment.Status(status),
		escrow,
		refund,
		pgconv.StringPtrFromPgtype(gatewayTxnID),
		idempotencyKey,
		timeline,
		createdAt, updatedAt,
	), nil
}

func (r *PaymentRepository) loadTimeline(ctx context.Context, q db.Querier, paymentID uuid.UUID) ([]payment.TimelineEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT status, description, occurred_at
		FROM payment_timeline
		WHERE payment_id = $1
		ORDER BY occurred_at, id`, paymentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load payment timeline", err)
	}
	defer rows.Close()

	var timeline []payment.TimelineEntry
	for rows.Next() {
		var status, description string
		var at time.Time
		if err := rows.Scan(&status, &description, &at); err != nil {
			return nil, infra.WrapRepoErr("failed to scan timeline row", err)
		}
		timeline = append(timeline, payment.TimelineEntry{
			Status:      payment.Status(status),
			Description: description,
			At:          at,
		})
	}
	return timeline, rows.Err()
}

// SaveStatus persists a state change with a compare-and-swap on the status
// the caller read, and appends the entity's new timeline entries in the same
// transaction.
func (r *PaymentRepository) SaveStatus(ctx context.Context, q db.Querier, p *payment.Payment, from payment.Status) error {
	escrow := p.EscrowState()

	var refundAmount pgtype.Int8
	var refundReason, refundGatewayRef pgtype.Text
	var refundedAt pgtype.Timestamptz
	if ref := p.RefundRecord(); ref != nil {
		refundAmount = pgtype.Int8{Int64: ref.Amount.Cents(), Valid: true}
		refundReason = pgconv.StringToPgtype(ref.Reason)
		refundGatewayRef = pgconv.StringToPgtype(ref.GatewayRef)
		refundedAt = pgconv.TimeToPgtype(ref.At)
	}

	var releaseConditions, releaseReason pgtype.Text
	if escrow.ReleaseConditions != "" {
		releaseConditions = pgconv.StringToPgtype(escrow.ReleaseConditions)
	}
	if escrow.ReleaseReason != "" {
		releaseReason = pgconv.StringToPgtype(escrow.ReleaseReason)
	}

	tag, err := q.Exec(ctx, `
		UPDATE payments SET
			status = $2,
			held_at = $3,
			release_conditions = $4,
			release_scheduled_at = $5,
			released_at = $6,
			released_by = $7,
			release_reason = $8,
			refund_amount_cents = $9,
			refund_reason = $10,
			refund_gateway_ref = $11,
			refunded_at = $12,
			gateway_txn_id = $13,
			updated_at = $14
		WHERE id = $1 AND status = $15`,
		p.ID(),
		p.Status().String(),
		pgconv.TimePtrToPgtype(escrow.HeldAt),
		releaseConditions,
		pgconv.TimePtrToPgtype(escrow.ReleaseScheduledAt),
		pgconv.TimePtrToPgtype(escrow.ReleasedAt),
		pgconv.UUIDPtrToPgtype(escrow.ReleasedBy),
		releaseReason,
		refundAmount,
		refundReason,
		refundGatewayRef,
		refundedAt,
		pgconv.StringPtrToPgtype(p.GatewayTxnID()),
		p.UpdatedAt(),
		from.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment status changed concurrently", nil, infra.KindStaleStatus)
	}

	return r.appendTimeline(ctx, q, p.ID(), p.DrainPendingEntries())
}

// AppendEvent records a gateway observation without a status change.
func (r *PaymentRepository) AppendEvent(ctx context.Context, q db.Querier, p *payment.Payment) error {
	return r.appendTimeline(ctx, q, p.ID(), p.DrainPendingEntries())
}

func (r *PaymentRepository) appendTimeline(ctx context.Context, q db.Querier, paymentID uuid.UUID, entries []payment.TimelineEntry) error {
	for _, e := range entries {
		_, err := q.Exec(ctx, `
			INSERT INTO payment_timeline (payment_id, status, description, occurred_at)
			VALUES ($1, $2, $3, $4)`,
			paymentID, e.Status.String(), e.Description, e.At,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to append payment timeline", err)
		}
	}
	return nil
}

// FindDueForRelease lists held payments whose auto-release time has passed.
func (r *PaymentRepository) FindDueForRelease(ctx context.Context, q db.Querier, now time.Time, limit int32) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT id FROM payments
		WHERE status = 'held'
		  AND release_scheduled_at <= $1
		ORDER BY release_scheduled_at
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query due escrow releases", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// FindStaleProcessing lists payments stuck in processing longer than the
// given age, so the sweeper can re-poll the gateway.
func (r *PaymentRepository) FindStaleProcessing(ctx context.Context, q db.Querier, olderThan time.Time, limit int32) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT id FROM payments
		WHERE status = 'processing'
		  AND updated_at <= $1
		ORDER BY updated_at
		LIMIT $2`, olderThan, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query stale processing payments", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}
