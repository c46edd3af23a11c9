package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound   = errors.New("spark account not found")
	ErrOwnerRequired     = errors.New("account owner is required")
	ErrInvalidAmount     = errors.New("spark amount must be positive")
	ErrReferenceRequired = errors.New("entry reference is required")
)

// InsufficientSparksError reports a debit that would take the balance below
// zero. AmountNeeded is how many more sparks the owner must acquire.
type InsufficientSparksError struct {
	OwnerID      string
	Requested    int64
	Balance      int64
	AmountNeeded int64
}

func (e *InsufficientSparksError) Error() string {
	return fmt.Sprintf(
		"insufficient sparks for %s: requested %d, balance %d, need %d more",
		e.OwnerID, e.Requested, e.Balance, e.AmountNeeded,
	)
}

func NewInsufficientSparks(ownerID string, requested int64, balance int64) *InsufficientSparksError {
	return &InsufficientSparksError{
		OwnerID:      ownerID,
		Requested:    requested,
		Balance:      balance,
		AmountNeeded: requested - balance,
	}
}

// IsInsufficientSparks reports whether err carries an insufficient-funds
// shortfall, returning the typed error when it does.
func IsInsufficientSparks(err error) (*InsufficientSparksError, bool) {
	var target *InsufficientSparksError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
