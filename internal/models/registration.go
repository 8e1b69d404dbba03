package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration statuses. Confirmed and pending registrations count toward
// seat consumption; cancelled and refunded do not. The set is open: other
// values pass through unvalidated.
const (
	RegistrationStatusConfirmed = "confirmed"
	RegistrationStatusPending   = "pending"
	RegistrationStatusCancelled = "cancelled"
	RegistrationStatusRefunded  = "refunded"
)

// Registration records a participant holding one seat in a session.
type Registration struct {
	ID              uuid.UUID `json:"id"`
	TenantID        int64     `json:"tenant_id"`
	TransactionID   string    `json:"transaction_id"`
	ClassID         string    `json:"class_id"`
	SessionID       string    `json:"session_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Phone           *string   `json:"phone,omitempty"`
	ExperienceLevel *string   `json:"experience_level,omitempty"`
	AmountCents     int64     `json:"amount_cents"`
	Status          string    `json:"status"`
	AuthCode        *string   `json:"auth_code,omitempty"`
	WaiverAccepted  bool      `json:"waiver_accepted"`
	RulesAccepted   bool      `json:"rules_accepted"`
	CreatedAt       time.Time `json:"created_at"`
}
