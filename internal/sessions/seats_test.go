package sessions

import (
	"testing"

	"github.com/bzt-portal/training-scheduler/internal/models"
)

func TestAdjustedAvailable(t *testing.T) {
	tests := []struct {
		name         string
		oldMax       int
		oldAvailable int
		newMax       int
		want         int
	}{
		{name: "reduction floors at zero", oldMax: 12, oldAvailable: 4, newMax: 5, want: 0},
		{name: "reduction within availability", oldMax: 12, oldAvailable: 10, newMax: 8, want: 6},
		{name: "increase keeps consumed seats consumed", oldMax: 5, oldAvailable: 0, newMax: 12, want: 0},
		{name: "increase leaves available unchanged", oldMax: 10, oldAvailable: 3, newMax: 20, want: 3},
		{name: "unchanged max", oldMax: 12, oldAvailable: 7, newMax: 12, want: 7},
		{name: "reduction exceeding availability", oldMax: 10, oldAvailable: 2, newMax: 1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adjustedAvailable(tt.oldMax, tt.oldAvailable, tt.newMax)
			if got != tt.want {
				t.Fatalf("adjustedAvailable(%d, %d, %d) = %d, want %d",
					tt.oldMax, tt.oldAvailable, tt.newMax, got, tt.want)
			}
			if got < 0 || got > tt.newMax {
				t.Fatalf("available %d out of range [0, %d]", got, tt.newMax)
			}
		})
	}
}

func TestAdjustedAvailablePreservesConsumedCount(t *testing.T) {
	// Consumed seats (max - available) must survive a capacity increase.
	oldMax, oldAvailable := 12, 4
	consumed := oldMax - oldAvailable

	newMax := 20
	got := adjustedAvailable(oldMax, oldAvailable, newMax)
	if newMax-got-consumed != newMax-oldMax {
		t.Fatalf("increase changed consumed count: available %d", got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name      string
		available int
		requested string
		want      string
	}{
		{name: "seats remaining", available: 3, requested: "", want: models.SessionStatusScheduled},
		{name: "zero seats is full", available: 0, requested: "", want: models.SessionStatusFull},
		{name: "zero seats overrides scheduled", available: 0, requested: models.SessionStatusScheduled, want: models.SessionStatusFull},
		{name: "cancelled wins with seats", available: 5, requested: models.SessionStatusCancelled, want: models.SessionStatusCancelled},
		{name: "cancelled wins without seats", available: 0, requested: models.SessionStatusCancelled, want: models.SessionStatusCancelled},
		{name: "full with seats reverts to scheduled", available: 2, requested: models.SessionStatusFull, want: models.SessionStatusScheduled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.available, tt.requested); got != tt.want {
				t.Fatalf("statusFor(%d, %q) = %q, want %q", tt.available, tt.requested, got, tt.want)
			}
		})
	}
}
