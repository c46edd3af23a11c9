package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"taleforge/contexts/economy-core/sparks-ledger/domain/entities"
	domainerrors "taleforge/contexts/economy-core/sparks-ledger/domain/errors"

	"github.com/google/uuid"
)

// accountSlot pairs an account with its own mutex. The balance
// read-check-write happens entirely under this lock, so deltas against
// distinct owners never contend.
type accountSlot struct {
	mu      sync.Mutex
	account entities.Account
}

// Store keeps one slot per account; the outer mutex only guards the maps
// themselves, never a balance update.
type Store struct {
	mu sync.RWMutex

	accounts map[string]*accountSlot
	entries  map[string][]entities.Entry
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*accountSlot),
		entries:  make(map[string][]entities.Entry),
	}
}

func (s *Store) slotFor(ownerID string) (*accountSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, exists := s.accounts[ownerID]
	return slot, exists
}

func (s *Store) CreateAccount(_ context.Context, account entities.Account) (entities.Account, bool, error) {
	s.mu.Lock()
	slot, exists := s.accounts[account.OwnerID]
	if !exists {
		s.accounts[account.OwnerID] = &accountSlot{account: account}
		s.mu.Unlock()
		return account, true, nil
	}
	s.mu.Unlock()

	slot.mu.Lock()
	existing := slot.account
	slot.mu.Unlock()
	return existing, false, nil
}

func (s *Store) GetAccount(_ context.Context, ownerID string) (entities.Account, error) {
	slot, exists := s.slotFor(strings.TrimSpace(ownerID))
	if !exists {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}

	slot.mu.Lock()
	account := slot.account
	slot.mu.Unlock()
	return account, nil
}

func (s *Store) ApplyDelta(_ context.Context, ownerID string, delta int64, now time.Time) (entities.Account, error) {
	ownerID = strings.TrimSpace(ownerID)
	slot, exists := s.slotFor(ownerID)
	if !exists {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	account := slot.account
	if account.Unlimited && delta < 0 {
		account.UpdatedAt = now
		slot.account = account
		return account, nil
	}
	if account.Balance+delta < 0 {
		return entities.Account{}, domainerrors.NewInsufficientSparks(ownerID, -delta, account.Balance)
	}
	account.Balance += delta
	account.UpdatedAt = now
	slot.account = account
	return account, nil
}

func (s *Store) AppendEntry(_ context.Context, entry entities.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.OwnerID] = append(s.entries[entry.OwnerID], entry)
	return nil
}

func (s *Store) ListEntries(_ context.Context, ownerID string) ([]entities.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.entries[strings.TrimSpace(ownerID)]
	return append([]entities.Entry(nil), items...), nil
}

func (s *Store) HasEntry(_ context.Context, ownerID string, reason string, reference string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.entries[strings.TrimSpace(ownerID)] {
		if entry.Reason == reason && entry.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
