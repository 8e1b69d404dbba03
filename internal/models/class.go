package models

import "time"

// Class levels with a fixed display ordering; any other value sorts last.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// Class is a training class offered within a category.
type Class struct {
	TenantID      int64     `json:"tenant_id"`
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Level         string    `json:"level"`
	Duration      *string   `json:"duration,omitempty"`
	TuitionCents  int64     `json:"tuition_cents"`
	Category      string    `json:"category"`
	SortOrder     int       `json:"sort_order"`
	Badge         *string   `json:"badge,omitempty"`
	Summary       *string   `json:"summary,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Highlights    *string   `json:"highlights,omitempty"`
	Equipment     *string   `json:"equipment,omitempty"`
	Prerequisites *string   `json:"prerequisites,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
