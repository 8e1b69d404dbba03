package models

import "time"

// Session statuses. A session is full exactly when available_seats reaches
// zero, unless it was explicitly cancelled.
const (
	SessionStatusScheduled = "scheduled"
	SessionStatusFull      = "full"
	SessionStatusCancelled = "cancelled"
)

// DefaultMaxSeats is used when a session is created without a seat count.
const DefaultMaxSeats = 12

// Session is a scheduled occurrence of a class with finite seating.
type Session struct {
	TenantID       int64     `json:"tenant_id"`
	ID             string    `json:"id"`
	ClassID        string    `json:"class_id"`
	Date           time.Time `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	Location       *string   `json:"location,omitempty"`
	Instructor     *string   `json:"instructor,omitempty"`
	MaxSeats       int       `json:"max_seats"`
	AvailableSeats int       `json:"available_seats"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
