package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prasetya/ridelink/internal/pkg/database"
	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

type deadLetterRepo struct {
	pg *database.PostgresClient
}

// NewDeadLetterRepository creates the postgres-backed dead letter sink.
// Events land here after publish retries are exhausted and wait for manual
// or scripted replay.
func NewDeadLetterRepository(pg *database.PostgresClient) events.DeadLetterSink {
	return &deadLetterRepo{pg: pg}
}

func (r *deadLetterRepo) Record(ctx context.Context, topic string, ev models.Event, cause error) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal dead letter payload: %w", err)
	}

	query := `
		INSERT INTO event_dead_letters (id, topic, event_type, ride_id, payload, cause, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := r.pg.GetDB().ExecContext(ctx, query,
		uuid.New(), topic, ev.Type, ev.RideID, payload, cause.Error(), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert dead letter for topic %s: %w", topic, err)
	}
	return nil
}
