package repository

//go:generate mockgen -source=event_repository.go -destination=mocks/mock_event_repository.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
)

// EventFilter defines query params for event listing. Empty fields are not applied,
// except ClientID which is always required. A zero Limit returns every match.
type EventFilter struct {
	ClientID  string
	Kind      domain.EventKind
	SessionID string
	URL       string
	Limit     int
}

// EventRepository persists analytics records.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	List(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	// Delete removes one record owned by clientID and reports whether it existed.
	Delete(ctx context.Context, clientID string, kind domain.EventKind, id string) (bool, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates the repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO analytics_events (id, kind, client_id, session_id, url, occurred_at, attributes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at`

	attrs := event.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	if err := r.pool.QueryRow(ctx, query,
		event.ID,
		event.Kind,
		event.ClientID,
		event.SessionID,
		event.URL,
		event.OccurredAt,
		attrs,
	).Scan(&event.CreatedAt); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	query := `
        SELECT id, kind, client_id, session_id, url, occurred_at, attributes, created_at
        FROM analytics_events`
	args := []any{filter.ClientID}
	clauses := []string{"client_id=$1"}

	if filter.Kind != "" {
		args = append(args, filter.Kind)
		clauses = append(clauses, fmt.Sprintf("kind=$%d", len(args)))
	}
	if filter.SessionID != "" {
		args = append(args, filter.SessionID)
		clauses = append(clauses, fmt.Sprintf("session_id=$%d", len(args)))
	}
	if filter.URL != "" {
		args = append(args, filter.URL)
		clauses = append(clauses, fmt.Sprintf("url=$%d", len(args)))
	}
	query += " WHERE " + strings.Join(clauses, " AND ")

	query += " ORDER BY occurred_at ASC, created_at ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	result := []domain.Event{}
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.Kind,
			&event.ClientID,
			&event.SessionID,
			&event.URL,
			&event.OccurredAt,
			&event.Attributes,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *eventRepository) Delete(ctx context.Context, clientID string, kind domain.EventKind, id string) (bool, error) {
	const query = `
        DELETE FROM analytics_events
        WHERE id=$1 AND client_id=$2 AND kind=$3`
	cmd, err := r.pool.Exec(ctx, query, id, clientID, kind)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
