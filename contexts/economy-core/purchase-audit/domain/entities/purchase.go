package entities

import "time"

type Status string

const (
	StatusInitiated  Status = "initiated"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusDeclined   Status = "declined"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// allowedTransitions is the monotonic status machine: attempts move forward
// only, and terminal states accept nothing.
var allowedTransitions = map[Status][]Status{
	StatusInitiated:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusDeclined, StatusFailed},
}

func CanTransition(from Status, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminal(status Status) bool {
	switch status {
	case StatusCompleted, StatusDeclined, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// SparkPackage is one storefront bundle. BonusSparks are granted on top of
// the base amount when the purchase completes.
type SparkPackage struct {
	PackageID   string
	Sparks      int64
	BonusSparks int64
	PriceCents  int64
	Currency    string
}

func (p SparkPackage) TotalSparks() int64 {
	return p.Sparks + p.BonusSparks
}

// PurchaseAttempt is the audited record of one purchase. ErrorReason is the
// safe summary shown to callers; ErrorCode carries the full diagnostic and
// stays inside the audit trail. ExternalRef is set iff completed.
type PurchaseAttempt struct {
	AttemptID    string
	AccountID    string
	PackageID    string
	SparksAmount int64
	PriceCents   int64
	Currency     string
	Status       Status
	ErrorReason  string
	ErrorCode    string
	ExternalRef  string
	RetryCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}
