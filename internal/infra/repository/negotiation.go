package repository

import (
	"context"
	"time"

	"glowbook/internal/domain/money"
	"glowbook/internal/domain/negotiation"
	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
	"glowbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type NegotiationRepository struct{}

func NewNegotiationRepository() *NegotiationRepository {
	return &NegotiationRepository{}
}

const conversationColumns = `
	id, booking_id, customer_id, stylist_id, base_price_cents,
	current_offer_id, current_offer_amount_cents, current_offer_by,
	current_offer_created_at, current_offer_expires_at,
	current_offer_status, current_offer_resolved_at,
	final_agreed_price_cents, agreed_at, active, created_at, updated_at`

func (r *NegotiationRepository) CreateConversation(ctx context.Context, q db.Querier, c *negotiation.Conversation) error {
	query := `
		INSERT INTO conversations (
			id, booking_id, customer_id, stylist_id, base_price_cents,
			active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := q.Exec(ctx, query,
		c.ID(), c.BookingID(), c.CustomerID(), c.StylistID(),
		c.BasePrice().Cents(), c.IsActive(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create conversation", err)
	}
	return nil
}

func (r *NegotiationRepository) FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*negotiation.Conversation, error) {
	return r.findOne(ctx, q, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
}

func (r *NegotiationRepository) FindByBookingID(ctx context.Context, q db.Querier, bookingID uuid.UUID) (*negotiation.Conversation, error) {
	return r.findOne(ctx, q, `SELECT `+conversationColumns+` FROM conversations WHERE booking_id = $1`, bookingID)
}

func (r *NegotiationRepository) findOne(ctx context.Context, q db.Querier, query string, arg any) (*negotiation.Conversation, error) {
	row := q.QueryRow(ctx, query, arg)

	var (
		id, bookingID, customerID, stylistID uuid.UUID
		basePriceCents                       int64
		offerID, offerBy                     pgtype.UUID
		offerAmountCents                     pgtype.Int8
		offerCreatedAt, offerExpiresAt       pgtype.Timestamptz
		offerStatus                          pgtype.Text
		offerResolvedAt                      pgtype.Timestamptz
		finalAgreedPriceCents                pgtype.Int8
		agreedAt                             pgtype.Timestamptz
		active                               bool
		createdAt, updatedAt                 time.Time
	)

	err := row.Scan(
		&id, &bookingID, &customerID, &stylistID, &basePriceCents,
		&offerID, &offerAmountCents, &offerBy,
		&offerCreatedAt, &offerExpiresAt,
		&offerStatus, &offerResolvedAt,
		&finalAgreedPriceCents, &agreedAt, &active, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("conversation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find conversation", err)
	}

	history, err := r.loadHistory(ctx, q, id)
	if err != nil {
		return nil, err
	}

	state := buildOfferState(offerID, offerAmountCents, offerBy, offerCreatedAt, offerExpiresAt, offerStatus, offerResolvedAt)

	var finalAgreed *money.Money
	if v := pgconv.Int64PtrFromPgtype(finalAgreedPriceCents); v != nil {
		m := money.New(*v)
		finalAgreed = &m
	}

	return negotiation.ReconstructConversation(
		id, bookingID, customerID, stylistID,
		money.New(basePriceCents),
		state,
		history,
		finalAgreed,
		pgconv.TimePtrFromPgtype(agreedAt),
		active,
		createdAt, updatedAt,
	), nil
}

func buildOfferState(
	offerID pgtype.UUID,
	amount pgtype.Int8,
	by pgtype.UUID,
	createdAt, expiresAt pgtype.Timestamptz,
	status pgtype.Text,
	resolvedAt pgtype.Timestamptz,
) negotiation.OfferState {
	if !offerID.Valid {
		return negotiation.NoActiveOffer{}
	}
	offer := negotiation.Offer{
		ID:        uuid.UUID(offerID.Bytes),
		Amount:    money.New(amount.Int64),
		OfferedBy: uuid.UUID(by.Bytes),
		CreatedAt: createdAt.Time,
		ExpiresAt: expiresAt.Time,
	}
	if negotiation.OfferStatus(status.String) == negotiation.OfferPending {
		return negotiation.PendingOffer{Offer: offer}
	}
	return negotiation.ResolvedOffer{
		Offer:      offer,
		Outcome:    negotiation.OfferStatus(status.String),
		ResolvedAt: resolvedAt.Time,
	}
}

func (r *NegotiationRepository) loadHistory(ctx context.Context, q db.Querier, conversationID uuid.UUID) ([]negotiation.HistoryEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT id, amount_cents, offered_by, status, created_at, expires_at, resolved_at
		FROM negotiation_offers
		WHERE conversation_id = $1
		ORDER BY created_at, id`, conversationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load offer history", err)
	}
	defer rows.Close()

	var history []negotiation.HistoryEntry
	for rows.Next() {
		var (
			entryID    uuid.UUID
			cents      int64
			offeredBy  uuid.UUID
			status     string
			created    time.Time
			expires    time.Time
			resolvedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&entryID, &cents, &offeredBy, &status, &created, &expires, &resolvedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan offer history row", err)
		}
		history = append(history, negotiation.HistoryEntry{
			OfferID:    entryID,
			Amount:     money.New(cents),
			OfferedBy:  offeredBy,
			Status:     negotiation.OfferStatus(status),
			CreatedAt:  created,
			ExpiresAt:  expires,
			ResolvedAt: pgconv.TimePtrFromPgtype(resolvedAt),
		})
	}
	return history, rows.Err()
}

// SaveProposal installs a new pending offer and appends it to the history.
// The predicate rejects the write if another pending offer slipped in.
func (r *NegotiationRepository) SaveProposal(ctx context.Context, q db.Querier, conversationID uuid.UUID, offer negotiation.Offer, now time.Time) error {
	tag, err := q.Exec(ctx, `
		UPDATE conversations SET
			current_offer_id = $2,
			current_offer_amount_cents = $3,
			current_offer_by = $4,
			current_offer_created_at = $5,
			current_offer_expires_at = $6,
			current_offer_status = 'pending',
			current_offer_resolved_at = NULL,
			updated_at = $7
		WHERE id = $1
		  AND active
		  AND (current_offer_status IS NULL OR current_offer_status <> 'pending')`,
		conversationID, offer.ID, offer.Amount.Cents(), offer.OfferedBy,
		offer.CreatedAt, offer.ExpiresAt, now,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save offer proposal", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("another offer is pending or conversation closed", nil, infra.KindStaleStatus)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO negotiation_offers (id, conversation_id, amount_cents, offered_by, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6)`,
		offer.ID, conversationID, offer.Amount.Cents(), offer.OfferedBy, offer.CreatedAt, offer.ExpiresAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append offer history", err)
	}
	return nil
}

// SaveResolution closes the identified pending offer with the given outcome.
// Acceptance also records the agreed price and deactivates the negotiation.
func (r *NegotiationRepository) SaveResolution(ctx context.Context, q db.Querier, c *negotiation.Conversation, offerID uuid.UUID, outcome negotiation.OfferStatus, now time.Time) error {
	var finalAgreed pgtype.Int8
	var agreedAt pgtype.Timestamptz
	if p := c.FinalAgreedPrice(); p != nil {
		finalAgreed = pgtype.Int8{Int64: p.Cents(), Valid: true}
	}
	if t := c.AgreedAt(); t != nil {
		agreedAt = pgconv.TimeToPgtype(*t)
	}

	tag, err := q.Exec(ctx, `
		UPDATE conversations SET
			current_offer_status = $3,
			current_offer_resolved_at = $4,
			final_agreed_price_cents = $5,
			agreed_at = $6,
			active = $7,
			updated_at = $4
		WHERE id = $1
		  AND current_offer_id = $2
		  AND current_offer_status = 'pending'`,
		c.ID(), offerID, string(outcome), now, finalAgreed, agreedAt, c.IsActive(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to resolve offer", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("offer already resolved concurrently", nil, infra.KindStaleStatus)
	}

	_, err = q.Exec(ctx, `
		UPDATE negotiation_offers SET status = $3, resolved_at = $4
		WHERE id = $2 AND conversation_id = $1`,
		c.ID(), offerID, string(outcome), now,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update offer history", err)
	}
	return nil
}

// FindExpiredPending lists conversations whose pending offer deadline passed.
func (r *NegotiationRepository) FindExpiredPending(ctx context.Context, q db.Querier, now time.Time, limit int32) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT id FROM conversations
		WHERE current_offer_status = 'pending'
		  AND current_offer_expires_at <= $1
		ORDER BY current_offer_expires_at
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query expired offers", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// FindAcceptedPriceMismatches lists bookings whose negotiated price diverged
// from an accepted negotiation, i.e. saga step 2 never landed.
func (r *NegotiationRepository) FindAcceptedPriceMismatches(ctx context.Context, q db.Querier, limit int32) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT c.id FROM conversations c
		JOIN bookings b ON b.id = c.booking_id
		WHERE c.final_agreed_price_cents IS NOT NULL
		  AND b.negotiated_price_cents <> c.final_agreed_price_cents
		LIMIT $1`, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query price mismatches", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}
