package repository

import (
	"context"
	"time"

	"glowbook/internal/infra"
	"glowbook/internal/infra/db"
)

// NotificationRepository queues fire-and-forget events for the notification
// collaborator. Jobs are written in the same transaction as the state change
// they announce; delivery and fan-out are the collaborator's problem.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, q db.Querier, topic string, payload []byte, runAt time.Time) error {
	_, err := q.Exec(ctx, `
		INSERT INTO notification_jobs (topic, payload, run_at, created_at)
		VALUES ($1, $2, $3, now())`,
		topic, payload, runAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
