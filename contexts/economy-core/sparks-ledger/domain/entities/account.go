package entities

import "time"

// Account tracks one owner's spark balance. Unlimited accounts belong to
// privileged owners and never decrement on debit.
type Account struct {
	OwnerID   string
	Balance   int64
	Unlimited bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry is one row of the append-only journal. BalanceAfter snapshots the
// account balance at the moment the entry was applied.
type Entry struct {
	EntryID      string
	OwnerID      string
	Delta        int64
	BalanceAfter int64
	Reason       string
	Reference    string
	CreatedAt    time.Time
}
