package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidPlan          = errors.New("invalid plan or duration option")
	ErrInvalidDuration      = errors.New("malformed duration label")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNoActiveSubscription = errors.New("no active subscription")

	// Storage-layer errors
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
