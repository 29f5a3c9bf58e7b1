package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrAlreadyEnrolled    = errors.New("user already has access to this course")
	ErrNoCourseAccess     = errors.New("no course access")
	ErrCourseNotPurchased = errors.New("course not purchased")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
