package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrInvalidLimit occurs when a journal query asks for a non-positive number of rows
	ErrInvalidLimit = errors.New("limit must be positive")
)
