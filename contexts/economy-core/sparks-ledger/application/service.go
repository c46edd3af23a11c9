package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"taleforge/contexts/economy-core/sparks-ledger/domain/entities"
	domainerrors "taleforge/contexts/economy-core/sparks-ledger/domain/errors"
	"taleforge/contexts/economy-core/sparks-ledger/ports"
)

type Service struct {
	Repo     ports.Repository
	Notifier ports.BalanceNotifier
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

type OpenAccountInput struct {
	OwnerID   string
	Opening   int64
	Unlimited bool
}

type OpenAccountResult struct {
	Account entities.Account
	Created bool
}

// OpenAccount is idempotent per owner: a second call returns the existing
// account untouched, ignoring the opening grant.
func (s Service) OpenAccount(ctx context.Context, input OpenAccountInput) (OpenAccountResult, error) {
	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return OpenAccountResult{}, domainerrors.ErrOwnerRequired
	}
	if input.Opening < 0 {
		return OpenAccountResult{}, domainerrors.ErrInvalidAmount
	}

	now := s.now()
	account, created, err := s.Repo.CreateAccount(ctx, entities.Account{
		OwnerID:   ownerID,
		Balance:   input.Opening,
		Unlimited: input.Unlimited,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return OpenAccountResult{}, err
	}
	if !created {
		return OpenAccountResult{Account: account}, nil
	}

	if input.Opening > 0 {
		if err := s.appendEntry(ctx, account, input.Opening, "opening_grant", "", now); err != nil {
			return OpenAccountResult{}, err
		}
		s.notify(ctx, ports.BalanceChange{
			OwnerID:      ownerID,
			Delta:        input.Opening,
			BalanceAfter: account.Balance,
			Reason:       "opening_grant",
			OccurredAt:   now,
		})
	}

	resolveLogger(s.Logger).Info("spark account opened",
		"event", "spark_account_opened",
		"module", "economy-core/sparks-ledger",
		"layer", "application",
		"owner_id", ownerID,
		"opening_balance", input.Opening,
		"unlimited", input.Unlimited,
	)
	return OpenAccountResult{Account: account, Created: true}, nil
}

func (s Service) GetAccount(ctx context.Context, ownerID string) (entities.Account, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return entities.Account{}, domainerrors.ErrOwnerRequired
	}
	return s.Repo.GetAccount(ctx, ownerID)
}

// Debit removes sparks from an account. Unlimited accounts accept any debit
// without decrementing; everyone else must cover the full amount or the call
// fails with the typed insufficient-funds error.
func (s Service) Debit(ctx context.Context, ownerID string, amount int64, reason string, reference string) (entities.Account, error) {
	return s.applyChange(ctx, ownerID, -amount, amount, reason, reference)
}

func (s Service) Credit(ctx context.Context, ownerID string, amount int64, reason string, reference string) (entities.Account, error) {
	return s.applyChange(ctx, ownerID, amount, amount, reason, reference)
}

// CreditOnce applies a credit at most once per (reason, reference) pair.
// Settlement flows pass their own id as the reference so a redelivered
// callback finds the earlier journal entry and leaves the balance alone.
func (s Service) CreditOnce(ctx context.Context, ownerID string, amount int64, reason string, reference string) (entities.Account, bool, error) {
	ownerID = strings.TrimSpace(ownerID)
	reason = strings.TrimSpace(reason)
	reference = strings.TrimSpace(reference)
	if ownerID == "" {
		return entities.Account{}, false, domainerrors.ErrOwnerRequired
	}
	if reference == "" {
		return entities.Account{}, false, domainerrors.ErrReferenceRequired
	}

	exists, err := s.Repo.HasEntry(ctx, ownerID, reason, reference)
	if err != nil {
		return entities.Account{}, false, err
	}
	if exists {
		resolveLogger(s.Logger).Warn("duplicate credit skipped",
			"event", "spark_credit_skipped",
			"module", "economy-core/sparks-ledger",
			"layer", "application",
			"owner_id", ownerID,
			"reason", reason,
			"reference", reference,
		)
		account, err := s.Repo.GetAccount(ctx, ownerID)
		return account, false, err
	}

	account, err := s.applyChange(ctx, ownerID, amount, amount, reason, reference)
	if err != nil {
		return entities.Account{}, false, err
	}
	return account, true, nil
}

func (s Service) applyChange(ctx context.Context, ownerID string, delta int64, amount int64, reason string, reference string) (entities.Account, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return entities.Account{}, domainerrors.ErrOwnerRequired
	}
	if amount <= 0 {
		return entities.Account{}, domainerrors.ErrInvalidAmount
	}

	now := s.now()
	account, err := s.Repo.ApplyDelta(ctx, ownerID, delta, now)
	if err != nil {
		return entities.Account{}, err
	}
	// Unlimited accounts keep their balance on debit; the journal still
	// records the usage as a zero-amount entry.
	if account.Unlimited && delta < 0 {
		delta = 0
	}
	if err := s.appendEntry(ctx, account, delta, reason, reference, now); err != nil {
		return entities.Account{}, err
	}
	s.notify(ctx, ports.BalanceChange{
		OwnerID:      ownerID,
		Delta:        delta,
		BalanceAfter: account.Balance,
		Reason:       strings.TrimSpace(reason),
		Reference:    strings.TrimSpace(reference),
		OccurredAt:   now,
	})

	resolveLogger(s.Logger).Info("spark balance changed",
		"event", "spark_balance_changed",
		"module", "economy-core/sparks-ledger",
		"layer", "application",
		"owner_id", ownerID,
		"delta", delta,
		"balance_after", account.Balance,
		"reason", strings.TrimSpace(reason),
	)
	return account, nil
}

func (s Service) ListEntries(ctx context.Context, ownerID string) ([]entities.Entry, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, domainerrors.ErrOwnerRequired
	}
	entries, err := s.Repo.ListEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].EntryID < entries[j].EntryID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s Service) appendEntry(ctx context.Context, account entities.Account, delta int64, reason string, reference string, now time.Time) error {
	entryID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return s.Repo.AppendEntry(ctx, entities.Entry{
		EntryID:      strings.TrimSpace(entryID),
		OwnerID:      account.OwnerID,
		Delta:        delta,
		BalanceAfter: account.Balance,
		Reason:       strings.TrimSpace(reason),
		Reference:    strings.TrimSpace(reference),
		CreatedAt:    now,
	})
}

func (s Service) notify(ctx context.Context, change ports.BalanceChange) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.NotifyBalanceChanged(ctx, change)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
