// Package apperror defines the error kinds shared by the scheduler core.
// Repositories classify failures at the point of occurrence; handlers map
// each kind to a transport status code.
package apperror

import "errors"

var (
	// ErrUnauthorized means no tenant context could be resolved for the operation.
	ErrUnauthorized = errors.New("tenant context required")

	// ErrNotFound means a requested entity does not exist within the tenant scope.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the input failed validation before any write was attempted.
	ErrValidation = errors.New("validation failed")

	// ErrSessionFull means seat consumption found zero remaining seats at commit time.
	ErrSessionFull = errors.New("session full")

	// ErrTxAborted means the atomic registration unit failed and was fully rolled back.
	ErrTxAborted = errors.New("transaction aborted")
)
