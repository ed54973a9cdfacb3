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

type SeatRepository struct {
	db *sql.DB
}

func NewSeatRepository(db *sql.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

func (r *SeatRepository) GetByID(ctx context.Context, seatID uuid.UUID) (*domain.Seat, error) {
	query := `
	SELECT id, event_id, seat_code, grade, price, status, version, updated_at
	FROM seats
	WHERE id = $1
	`

	var seat domain.Seat
	err := conn(ctx, r.db).QueryRowContext(ctx, query, seatID).Scan(
		&seat.ID,
		&seat.EventID,
		&seat.SeatCode,
		&seat.Grade,
		&seat.Price,
		&seat.Status,
		&seat.Version,
		&seat.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSeatNotFound, seatID)
		}

		return nil, fmt.Errorf("get seat %s: %w", seatID, err)
	}

	return &seat, nil
}

func (r *SeatRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Seat, error) {
	query := `
	SELECT id, event_id, seat_code, grade, price, status, version, updated_at
	FROM seats
	WHERE event_id = $1
	ORDER BY CASE grade WHEN 'VIP' THEN 0 WHEN 'R' THEN 1 WHEN 'S' THEN 2 ELSE 3 END, seat_code
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list seats for event %s: %w", eventID, err)
	}

	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		var seat domain.Seat
		if err := rows.Scan(
			&seat.ID,
			&seat.EventID,
			&seat.SeatCode,
			&seat.Grade,
			&seat.Price,
			&seat.Status,
			&seat.Version,
			&seat.UpdatedAt,
		); err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

// UpdateStatus is the optimistic write: it lands only when nobody changed the
// row since expectedVersion was read.
func (r *SeatRepository) UpdateStatus(ctx context.Context, seat *domain.Seat, expectedVersion int) error {
	query := `
	UPDATE seats
	SET status = $1,
		updated_at = $2,
		version = version + 1
	WHERE id = $3 AND version = $4
	`

	now := time.Now().UTC()
	result, err := conn(ctx, r.db).ExecContext(ctx, query, seat.Status, now, seat.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update seat %s: %w", seat.ID, err)
	}

	changed, err := rowsChanged(result)
	if err != nil {
		return err
	}

	if !changed {
		return fmt.Errorf("%w: seat %s version %d", domain.ErrSeatConcurrencyFailure, seat.ID, expectedVersion)
	}

	seat.Version = expectedVersion + 1
	seat.UpdatedAt = now
	return nil
}
