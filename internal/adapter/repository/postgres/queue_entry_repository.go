package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

const queueEntryColumns = `id, event_id, user_id, queue_rank, status, entered_at, expired_at, created_at, updated_at`

type QueueEntryRepository struct {
	db *sql.DB
}

func NewQueueEntryRepository(db *sql.DB) *QueueEntryRepository {
	return &QueueEntryRepository{db: db}
}

func scanQueueEntry(row rowScanner) (*domain.QueueEntry, error) {
	var q domain.QueueEntry
	var enteredAt, expiredAt sql.NullTime

	err := row.Scan(
		&q.ID,
		&q.EventID,
		&q.UserID,
		&q.Rank,
		&q.Status,
		&enteredAt,
		&expiredAt,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if enteredAt.Valid {
		q.EnteredAt = &enteredAt.Time
	}
	if expiredAt.Valid {
		q.ExpiredAt = &expiredAt.Time
	}

	return &q, nil
}

func (r *QueueEntryRepository) ExistsByEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM queue_entries WHERE event_id = $1)`, eventID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check queue for event %s: %w", eventID, err)
	}
	return exists, nil
}

// BulkInsert streams all entries through COPY in a single transaction.
func (r *QueueEntryRepository) BulkInsert(ctx context.Context, entries []domain.QueueEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return withTx(ctx, r.db, func(ctx context.Context) error {
		tx := txFromContext(ctx)

		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("queue_entries",
			"id", "event_id", "user_id", "queue_rank", "status", "created_at", "updated_at"))
		if err != nil {
			return fmt.Errorf("prepare copy queue_entries: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.ID, e.EventID, e.UserID, e.Rank, e.Status, e.CreatedAt, e.UpdatedAt); err != nil {
				return fmt.Errorf("copy queue entry user %s: %w", e.UserID, err)
			}
		}

		if _, err := stmt.ExecContext(ctx); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %v", domain.ErrQueueAlreadyExists, err)
			}
			return fmt.Errorf("flush copy queue_entries: %w", err)
		}

		return nil
	})
}

func (r *QueueEntryRepository) GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*domain.QueueEntry, error) {
	query := `SELECT ` + queueEntryColumns + ` FROM queue_entries WHERE event_id = $1 AND user_id = $2`

	q, err := scanQueueEntry(conn(ctx, r.db).QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: event %s user %s", domain.ErrQueueEntryNotFound, eventID, userID)
		}
		return nil, fmt.Errorf("get queue entry: %w", err)
	}
	return q, nil
}

func (r *QueueEntryRepository) Transition(ctx context.Context, entry *domain.QueueEntry, from domain.QueueStatus) (bool, error) {
	query := `
	UPDATE queue_entries
	SET status = $1,
		queue_rank = $2,
		entered_at = $3,
		expired_at = $4,
		updated_at = $5
	WHERE id = $6 AND status = $7
	`

	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		entry.Status,
		entry.Rank,
		entry.EnteredAt,
		entry.ExpiredAt,
		entry.UpdatedAt,
		entry.ID,
		from,
	)
	if err != nil {
		return false, fmt.Errorf("transition queue entry %s: %w", entry.ID, err)
	}

	return rowsChanged(res)
}

func (r *QueueEntryRepository) MaxRank(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var maxRank int64
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COALESCE(MAX(queue_rank), 0) FROM queue_entries WHERE event_id = $1`, eventID,
	).Scan(&maxRank)
	if err != nil {
		return 0, fmt.Errorf("max rank for event %s: %w", eventID, err)
	}
	return maxRank, nil
}

func (r *QueueEntryRepository) CountWaitingAhead(ctx context.Context, eventID uuid.UUID, rank int64) (int64, error) {
	var n int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `
	SELECT COUNT(*) FROM queue_entries
	WHERE event_id = $1 AND status = $2 AND queue_rank < $3
	`, eventID, domain.QueueWaiting, rank).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count waiting ahead: %w", err)
	}
	return n, nil
}

func (r *QueueEntryRepository) CountByStatus(ctx context.Context, eventID uuid.UUID) (map[domain.QueueStatus]int64, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT status, COUNT(*) FROM queue_entries WHERE event_id = $1 GROUP BY status`, eventID)
	if err != nil {
		return nil, fmt.Errorf("count queue entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.QueueStatus]int64, len(domain.QueueStatuses))
	for rows.Next() {
		var status domain.QueueStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}

	return counts, rows.Err()
}

func (r *QueueEntryRepository) ListByStatus(ctx context.Context, eventID uuid.UUID, status domain.QueueStatus) ([]domain.QueueEntry, error) {
	query := `SELECT ` + queueEntryColumns + ` FROM queue_entries
	WHERE event_id = $1 AND status = $2
	ORDER BY queue_rank`
	return r.list(ctx, query, eventID, status)
}

func (r *QueueEntryRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.QueueEntry, error) {
	query := `SELECT ` + queueEntryColumns + ` FROM queue_entries
	WHERE status = $1 AND expired_at < $2
	ORDER BY expired_at
	LIMIT $3`
	return r.list(ctx, query, domain.QueueEntered, now, limit)
}

func (r *QueueEntryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.QueueEntry, error) {
	query := `SELECT ` + queueEntryColumns + ` FROM queue_entries
	WHERE user_id = $1
	ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *QueueEntryRepository) list(ctx context.Context, query string, args ...any) ([]domain.QueueEntry, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query queue entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.QueueEntry
	for rows.Next() {
		q, err := scanQueueEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		entries = append(entries, *q)
	}

	return entries, rows.Err()
}

func (r *QueueEntryRepository) DeleteByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM queue_entries WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("delete queue for event %s: %w", eventID, err)
	}
	return res.RowsAffected()
}
