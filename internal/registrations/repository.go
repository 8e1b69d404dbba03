package registrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bzt-portal/training-scheduler/internal/models"
	"github.com/bzt-portal/training-scheduler/pkg/apperror"
)

// SeatConsumer decrements a session's capacity on the caller's transaction.
// Implemented by the sessions repository.
type SeatConsumer interface {
	ConsumeSeat(ctx context.Context, tx pgx.Tx, tenantID int64, sessionID string) error
}

// Repository orchestrates registration persistence. Creation is one atomic
// unit: the registration insert and the seat decrement commit together or
// not at all.
type Repository struct {
	pool  *pgxpool.Pool
	seats SeatConsumer
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool, seats SeatConsumer) *Repository {
	return &Repository{pool: pool, seats: seats}
}

const registrationColumns = `id, tenant_id, transaction_id, class_id, session_id, first_name, last_name,
	email, phone, experience_level, amount_cents, status, auth_code, waiver_accepted, rules_accepted, created_at`

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var reg models.Registration
	err := row.Scan(&reg.ID, &reg.TenantID, &reg.TransactionID, &reg.ClassID, &reg.SessionID,
		&reg.FirstName, &reg.LastName, &reg.Email, &reg.Phone, &reg.ExperienceLevel,
		&reg.AmountCents, &reg.Status, &reg.AuthCode, &reg.WaiverAccepted, &reg.RulesAccepted, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// NewRegistration carries the fields accepted when creating a registration.
type NewRegistration struct {
	TransactionID   string
	ClassID         string
	SessionID       string
	FirstName       string
	LastName        string
	Email           string
	Phone           *string
	ExperienceLevel *string
	AmountCents     int64
	Status          string // defaults to confirmed
	AuthCode        *string
	WaiverAccepted  bool
	RulesAccepted   bool
}

func (in NewRegistration) validate() error {
	switch {
	case in.TransactionID == "":
		return fmt.Errorf("%w: transaction id is required", apperror.ErrValidation)
	case in.ClassID == "":
		return fmt.Errorf("%w: class id is required", apperror.ErrValidation)
	case in.SessionID == "":
		return fmt.Errorf("%w: session id is required", apperror.ErrValidation)
	case in.FirstName == "" || in.LastName == "":
		return fmt.Errorf("%w: participant name is required", apperror.ErrValidation)
	case in.Email == "":
		return fmt.Errorf("%w: email is required", apperror.ErrValidation)
	case in.AmountCents < 0:
		return fmt.Errorf("%w: amount must be non-negative", apperror.ErrValidation)
	}
	return nil
}

// Create registers a participant against a session inside one transaction:
// it verifies the class and session exist for the tenant, inserts the
// registration, and consumes one seat via the conditional decrement. Any
// failure rolls the whole unit back; a session with no seats left surfaces
// as apperror.ErrSessionFull, everything else as apperror.ErrTxAborted.
func (r *Repository) Create(ctx context.Context, tenantID int64, in NewRegistration) (*models.Registration, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.RegistrationStatusConfirmed
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", apperror.ErrTxAborted, err)
	}
	defer tx.Rollback(ctx)

	var classExists, sessionMatches bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM training_classes WHERE id = $1 AND tenant_id = $2 AND active = TRUE),
			EXISTS (SELECT 1 FROM training_sessions WHERE id = $3 AND tenant_id = $2 AND class_id = $1)`,
		in.ClassID, tenantID, in.SessionID,
	).Scan(&classExists, &sessionMatches)
	if err != nil {
		return nil, fmt.Errorf("%w: validate references: %v", apperror.ErrTxAborted, err)
	}
	if !classExists {
		return nil, fmt.Errorf("%w: class %s", apperror.ErrNotFound, in.ClassID)
	}
	if !sessionMatches {
		return nil, fmt.Errorf("%w: session %s", apperror.ErrNotFound, in.SessionID)
	}

	const q = `INSERT INTO training_registrations
		(tenant_id, transaction_id, class_id, session_id, first_name, last_name, email, phone,
		 experience_level, amount_cents, status, auth_code, waiver_accepted, rules_accepted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(tx.QueryRow(ctx, q, tenantID, in.TransactionID, in.ClassID, in.SessionID,
		in.FirstName, in.LastName, in.Email, in.Phone, in.ExperienceLevel, in.AmountCents,
		status, in.AuthCode, in.WaiverAccepted, in.RulesAccepted))
	if err != nil {
		return nil, fmt.Errorf("%w: insert registration: %v", apperror.ErrTxAborted, err)
	}

	if err := r.seats.ConsumeSeat(ctx, tx, tenantID, in.SessionID); err != nil {
		if errors.Is(err, apperror.ErrSessionFull) || errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperror.ErrTxAborted, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", apperror.ErrTxAborted, err)
	}
	return reg, nil
}

// Filters narrows a registration listing. Each set field is an exact match;
// set fields are AND-combined.
type Filters struct {
	ClassID   string
	SessionID string
	Status    string
	Email     string
}

// Detail is a registration enriched with its class name and session schedule.
type Detail struct {
	models.Registration
	ClassName       string    `json:"class_name"`
	SessionDate     time.Time `json:"date"`
	SessionStart    string    `json:"start_time"`
	SessionEnd      string    `json:"end_time"`
	SessionLocation *string   `json:"location,omitempty"`
}

// List returns the tenant's registrations, newest first. The class and
// session joins carry the tenant predicate on every joined table, so an id
// collision across tenants can never leak a foreign row.
func (r *Repository) List(ctx context.Context, tenantID int64, f Filters) ([]Detail, error) {
	q := `SELECT r.id, r.tenant_id, r.transaction_id, r.class_id, r.session_id, r.first_name, r.last_name,
			r.email, r.phone, r.experience_level, r.amount_cents, r.status, r.auth_code,
			r.waiver_accepted, r.rules_accepted, r.created_at,
			c.name, s.date, s.start_time, s.end_time, s.location
		FROM training_registrations r
		JOIN training_classes c ON r.class_id = c.id AND r.tenant_id = c.tenant_id
		JOIN training_sessions s ON r.session_id = s.id AND r.tenant_id = s.tenant_id
		WHERE r.tenant_id = $1`
	args := []interface{}{tenantID}

	add := func(cond string, v interface{}) {
		args = append(args, v)
		q += fmt.Sprintf(cond, len(args))
	}
	if f.ClassID != "" {
		add(` AND r.class_id = $%d`, f.ClassID)
	}
	if f.SessionID != "" {
		add(` AND r.session_id = $%d`, f.SessionID)
	}
	if f.Status != "" {
		add(` AND r.status = $%d`, f.Status)
	}
	if f.Email != "" {
		add(` AND r.email = $%d`, f.Email)
	}
	q += ` ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	list := []Detail{}
	for rows.Next() {
		var d Detail
		err := rows.Scan(&d.ID, &d.TenantID, &d.TransactionID, &d.ClassID, &d.SessionID,
			&d.FirstName, &d.LastName, &d.Email, &d.Phone, &d.ExperienceLevel,
			&d.AmountCents, &d.Status, &d.AuthCode, &d.WaiverAccepted, &d.RulesAccepted, &d.CreatedAt,
			&d.ClassName, &d.SessionDate, &d.SessionStart, &d.SessionEnd, &d.SessionLocation)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// UpdateStatus records a status transition. It deliberately does not touch
// the session's seat count; reclaiming capacity is the separate release-seat
// operation on the sessions repository.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID int64, id uuid.UUID, status string) error {
	if status == "" {
		return fmt.Errorf("%w: status is required", apperror.ErrValidation)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE training_registrations SET status = $1 WHERE id = $2 AND tenant_id = $3`,
		status, id, tenantID)
	if err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
