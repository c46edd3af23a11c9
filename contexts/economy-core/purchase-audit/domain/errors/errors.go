package errors

import "errors"

var (
	ErrAttemptNotFound   = errors.New("purchase attempt not found")
	ErrPackageNotFound   = errors.New("spark package not found")
	ErrInvalidTransition = errors.New("invalid purchase status transition")
	ErrAccountRequired   = errors.New("account id is required")
)
