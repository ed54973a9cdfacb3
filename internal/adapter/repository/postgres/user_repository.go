package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, email FROM users WHERE id = $1`, userID,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	return &u, nil
}

// CountExisting counts distinct known users among userIDs.
func (r *UserRepository) CountExisting(ctx context.Context, userIDs []uuid.UUID) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE id = ANY($1::uuid[])`, pq.Array(ids),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
