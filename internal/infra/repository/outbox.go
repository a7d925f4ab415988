package repository

import (
	"context"

	"loyalty-core/internal/infra"
	"loyalty-core/internal/infra/db"
)

// OutboxRepository stages events in the same transaction as the state they
// describe; a relay drains the table out of band.
type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, topic string, payload []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO outbox_event (topic, payload)
		VALUES ($1, $2)`,
		topic, payload,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}
