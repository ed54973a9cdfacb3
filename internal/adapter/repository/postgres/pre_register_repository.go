package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type PreRegisterRepository struct {
	db *sql.DB
}

func NewPreRegisterRepository(db *sql.DB) *PreRegisterRepository {
	return &PreRegisterRepository{db: db}
}

func (r *PreRegisterRepository) ListUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT user_id FROM pre_registrations WHERE event_id = $1 ORDER BY created_at, user_id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list pre-registrations for event %s: %w", eventID, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
