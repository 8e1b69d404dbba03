package sessions

import "github.com/bzt-portal/training-scheduler/internal/models"

// adjustedAvailable computes the available seat count after a capacity edit.
// A reduction comes out of the currently available seats, floored at zero:
// seats already consumed by registrations are never fabricated back. An
// increase leaves the available count untouched, so max − available still
// equals the consumed count.
func adjustedAvailable(oldMax, oldAvailable, newMax int) int {
	if newMax < oldMax {
		reduction := oldMax - newMax
		if v := oldAvailable - reduction; v > 0 {
			return v
		}
		return 0
	}
	return oldAvailable
}

// statusFor derives the stored status from the available seat count and the
// requested status. Explicit cancellation always wins; otherwise the count
// decides: zero available is full, anything else is scheduled.
func statusFor(available int, requested string) string {
	if requested == models.SessionStatusCancelled {
		return models.SessionStatusCancelled
	}
	if available <= 0 {
		return models.SessionStatusFull
	}
	return models.SessionStatusScheduled
}
