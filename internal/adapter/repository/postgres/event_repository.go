package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

const eventColumns = `id, title, status, pre_open_at, pre_close_at, ticket_open_at, ticket_close_at, event_date, max_ticket_amount, created_at, updated_at`

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Status,
		&e.PreOpenAt,
		&e.PreCloseAt,
		&e.TicketOpenAt,
		&e.TicketCloseAt,
		&e.EventDate,
		&e.MaxTicketAmount,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID)
}

// LockByID reads the event with FOR UPDATE; it must run inside a transaction.
func (r *EventRepository) LockByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID)
}

func (r *EventRepository) getOne(ctx context.Context, query string, eventID uuid.UUID) (*domain.Event, error) {
	e, err := scanEvent(conn(ctx, r.db).QueryRowContext(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
		}
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return e, nil
}

func triggerColumn(t domain.LifecycleTrigger) (string, error) {
	switch t {
	case domain.TriggerPreOpenAt, domain.TriggerPreCloseAt, domain.TriggerTicketOpenAt, domain.TriggerTicketCloseAt:
		return string(t), nil
	}
	return "", fmt.Errorf("unknown lifecycle trigger %q", t)
}

func (r *EventRepository) FindDue(ctx context.Context, rule domain.LifecycleRule, now time.Time, limit int) ([]domain.Event, error) {
	col, err := triggerColumn(rule.Trigger)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + eventColumns + ` FROM events
	WHERE status = $1 AND ` + col + ` <= $2
	ORDER BY ` + col + `
	LIMIT $3`

	return r.list(ctx, query, rule.From, now, limit)
}

func (r *EventRepository) FindByStatus(ctx context.Context, status domain.EventStatus) ([]domain.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE status = $1 ORDER BY ticket_open_at`, status)
}

// FindShuffleCandidates returns registration-closed events opening inside the
// window that have no queue yet.
func (r *EventRepository) FindShuffleCandidates(ctx context.Context, openFrom, openTo time.Time) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e
	WHERE e.status = $1
		AND e.ticket_open_at BETWEEN $2 AND $3
		AND NOT EXISTS (SELECT 1 FROM queue_entries q WHERE q.event_id = e.id)
	ORDER BY e.ticket_open_at`

	return r.list(ctx, query, domain.EventPreClosed, openFrom, openTo)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}

	return events, rows.Err()
}

func (r *EventRepository) UpdateStatus(ctx context.Context, eventID uuid.UUID, from, to domain.EventStatus) (bool, error) {
	query := `
	UPDATE events
	SET status = $1, updated_at = NOW()
	WHERE id = $2 AND status = $3
	`

	res, err := conn(ctx, r.db).ExecContext(ctx, query, to, eventID, from)
	if err != nil {
		return false, fmt.Errorf("update event %s status: %w", eventID, err)
	}

	return rowsChanged(res)
}
