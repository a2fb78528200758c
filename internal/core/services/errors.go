// internal/core/services/errors.go
package services

import "errors"

// Service-level error variants. Handlers map these to HTTP statuses;
// the storage layer's tagged variants stay wrapped underneath and remain
// reachable through errors.Is.
var (
	// ErrInvalidRequest marks a request rejected before any transaction
	// was opened. Nothing was written.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrOrderCreationFailed marks an order placement whose transaction
	// was rolled back. No partial order exists.
	ErrOrderCreationFailed = errors.New("order creation failed")

	// ErrInvalidCredentials marks a failed login attempt. It is the same
	// error for a missing account and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
