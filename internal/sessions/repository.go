package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bzt-portal/training-scheduler/internal/models"
	"github.com/bzt-portal/training-scheduler/pkg/apperror"
)

// Repository owns session rows and the max_seats / available_seats / status
// invariant. Seat mutations are single conditional statements so concurrent
// registrations and capacity edits cannot interleave on a stale snapshot.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a sessions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const sessionColumns = `tenant_id, id, class_id, date, start_time, end_time, location, instructor,
	max_seats, available_seats, status, created_at, updated_at`

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(&s.TenantID, &s.ID, &s.ClassID, &s.Date, &s.StartTime, &s.EndTime,
		&s.Location, &s.Instructor, &s.MaxSeats, &s.AvailableSeats, &s.Status,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListForClass returns a class's sessions ordered by date then start time.
// With futureOnly, only upcoming sessions still open for scheduling are returned.
func (r *Repository) ListForClass(ctx context.Context, tenantID int64, classID string, futureOnly bool) ([]models.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM training_sessions WHERE class_id = $1 AND tenant_id = $2`
	if futureOnly {
		q += ` AND date >= CURRENT_DATE AND status = 'scheduled'`
	}
	q += ` ORDER BY date, start_time`

	rows, err := r.pool.Query(ctx, q, classID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	list := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// Get returns a session by ID within the tenant scope.
func (r *Repository) Get(ctx context.Context, tenantID int64, id string) (*models.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM training_sessions WHERE id = $1 AND tenant_id = $2`
	s, err := scanSession(r.pool.QueryRow(ctx, q, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// SessionInput carries the fields of a session upsert.
type SessionInput struct {
	ID         string
	ClassID    string
	Date       time.Time
	StartTime  string
	EndTime    string
	Location   *string
	Instructor *string
	MaxSeats   int // 0 means default
	Status     string
}

// Upsert creates or replaces a session, keyed by id within the tenant scope.
// On create, available_seats starts at max_seats. On edit, a capacity
// reduction is subtracted from the available count, floored at zero; an
// increase leaves it untouched. The existing row is locked for the duration
// of the transaction so an in-flight registration cannot read a stale count.
func (r *Repository) Upsert(ctx context.Context, tenantID int64, in SessionInput) (*models.Session, error) {
	switch {
	case in.ID == "":
		return nil, fmt.Errorf("%w: session id is required", apperror.ErrValidation)
	case in.ClassID == "":
		return nil, fmt.Errorf("%w: class id is required", apperror.ErrValidation)
	case in.Date.IsZero():
		return nil, fmt.Errorf("%w: session date is required", apperror.ErrValidation)
	case in.MaxSeats < 0:
		return nil, fmt.Errorf("%w: max seats must be positive", apperror.ErrValidation)
	}
	maxSeats := in.MaxSeats
	if maxSeats == 0 {
		maxSeats = models.DefaultMaxSeats
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	available := maxSeats
	var oldMax, oldAvailable int
	err = tx.QueryRow(ctx,
		`SELECT max_seats, available_seats FROM training_sessions WHERE id = $1 AND tenant_id = $2 FOR UPDATE`,
		in.ID, tenantID,
	).Scan(&oldMax, &oldAvailable)
	switch {
	case err == nil:
		available = adjustedAvailable(oldMax, oldAvailable, maxSeats)
	case errors.Is(err, pgx.ErrNoRows):
		// fresh insert
	default:
		return nil, fmt.Errorf("lock session: %w", err)
	}

	const q = `INSERT INTO training_sessions
		(tenant_id, id, class_id, date, start_time, end_time, location, instructor, max_seats, available_seats, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			class_id = EXCLUDED.class_id,
			date = EXCLUDED.date,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			location = EXCLUDED.location,
			instructor = EXCLUDED.instructor,
			max_seats = EXCLUDED.max_seats,
			available_seats = EXCLUDED.available_seats,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING ` + sessionColumns
	s, err := scanSession(tx.QueryRow(ctx, q, tenantID, in.ID, in.ClassID, in.Date, in.StartTime,
		in.EndTime, in.Location, in.Instructor, maxSeats, available, statusFor(available, in.Status)))
	if err != nil {
		return nil, fmt.Errorf("upsert session: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit upsert: %w", err)
	}
	return s, nil
}

// ConsumeSeat decrements a session's available seats by one on the caller's
// transaction. The decrement is conditional on a seat remaining, so two
// registrations racing for the last seat cannot both succeed; the losing
// statement affects zero rows and the whole transaction aborts with
// apperror.ErrSessionFull. Reaching zero flips the status to full in the
// same statement.
func (r *Repository) ConsumeSeat(ctx context.Context, tx pgx.Tx, tenantID int64, sessionID string) error {
	const q = `UPDATE training_sessions
		SET available_seats = available_seats - 1,
			status = CASE WHEN available_seats - 1 <= 0 THEN 'full' ELSE status END,
			updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND available_seats > 0`
	tag, err := tx.Exec(ctx, q, sessionID, tenantID)
	if err != nil {
		return fmt.Errorf("consume seat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM training_sessions WHERE id = $1 AND tenant_id = $2)`,
			sessionID, tenantID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check session: %w", err)
		}
		if !exists {
			return apperror.ErrNotFound
		}
		return apperror.ErrSessionFull
	}
	return nil
}

// ReleaseSeat returns one consumed seat to a session and reverts a full
// session to scheduled. The increment is conditional on a seat actually
// being consumed, so it can never push available_seats past max_seats.
func (r *Repository) ReleaseSeat(ctx context.Context, tenantID int64, sessionID string) (*models.Session, error) {
	const q = `UPDATE training_sessions
		SET available_seats = available_seats + 1,
			status = CASE WHEN status = 'full' THEN 'scheduled' ELSE status END,
			updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND available_seats < max_seats
		RETURNING ` + sessionColumns
	s, err := scanSession(r.pool.QueryRow(ctx, q, sessionID, tenantID))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("release seat: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM training_sessions WHERE id = $1 AND tenant_id = $2)`,
		sessionID, tenantID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !exists {
		return nil, apperror.ErrNotFound
	}
	return nil, fmt.Errorf("%w: no consumed seats to release", apperror.ErrValidation)
}

// Delete removes a session unconditionally within the tenant scope.
// Registrations against it are kept as historical rows.
func (r *Repository) Delete(ctx context.Context, tenantID int64, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM training_sessions WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
