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

const ticketColumns = `id, owner_id, event_id, seat_id, status, issued_at, created_at, updated_at`

type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var t domain.Ticket
	var seatID uuid.NullUUID
	var issuedAt sql.NullTime

	if err := row.Scan(&t.ID, &t.OwnerID, &t.EventID, &seatID, &t.Status, &issuedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	if seatID.Valid {
		id := seatID.UUID
		t.SeatID = &id
	}
	if issuedAt.Valid {
		t.IssuedAt = &issuedAt.Time
	}

	return &t, nil
}

func nullSeat(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
	INSERT INTO tickets (id, owner_id, event_id, seat_id, status, issued_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		ticket.ID,
		ticket.OwnerID,
		ticket.EventID,
		nullSeat(ticket.SeatID),
		ticket.Status,
		ticket.IssuedAt,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ticket %s", domain.ErrTicketAlreadyInProgress, ticket.ID)
		}
		return fmt.Errorf("insert ticket: %w", err)
	}

	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	t, err := scanTicket(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, ticketID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTicketNotFound, ticketID)
		}
		return nil, fmt.Errorf("get ticket %s: %w", ticketID, err)
	}
	return t, nil
}

// FindActiveBySeat returns nil without error when the seat has no DRAFT or PAID ticket.
func (r *TicketRepository) FindActiveBySeat(ctx context.Context, seatID uuid.UUID) (*domain.Ticket, error) {
	return r.findOptional(ctx, `SELECT `+ticketColumns+` FROM tickets
	WHERE seat_id = $1 AND status IN ($2, $3)
	LIMIT 1`, seatID, domain.TicketDraft, domain.TicketPaid)
}

func (r *TicketRepository) FindActiveByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*domain.Ticket, error) {
	return r.findOptional(ctx, `SELECT `+ticketColumns+` FROM tickets
	WHERE owner_id = $1 AND event_id = $2 AND status IN ($3, $4)
	LIMIT 1`, userID, eventID, domain.TicketDraft, domain.TicketPaid)
}

func (r *TicketRepository) findOptional(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	t, err := scanTicket(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, ticket *domain.Ticket, from domain.TicketStatus) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
	UPDATE tickets
	SET status = $1, issued_at = $2, updated_at = $3
	WHERE id = $4 AND status = $5
	`, ticket.Status, ticket.IssuedAt, ticket.UpdatedAt, ticket.ID, from)
	if err != nil {
		return fmt.Errorf("update ticket %s: %w", ticket.ID, err)
	}

	changed, err := rowsChanged(res)
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("%w: ticket %s is no longer %s", domain.ErrInvalidTicketState, ticket.ID, from)
	}
	return nil
}

func (r *TicketRepository) ListStaleDrafts(ctx context.Context, createdBefore time.Time, limit int) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets
	WHERE status = $1 AND created_at < $2
	ORDER BY created_at
	LIMIT $3`, domain.TicketDraft, createdBefore, limit)
}

func (r *TicketRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets
	WHERE owner_id = $1
	ORDER BY created_at DESC`, ownerID)
}

func (r *TicketRepository) list(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}

	return tickets, rows.Err()
}
