package errors

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrDescriptionRequired = errors.New("description is required")
)
