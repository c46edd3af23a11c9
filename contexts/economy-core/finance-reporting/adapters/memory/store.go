package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taleforge/contexts/economy-core/finance-reporting/domain/entities"
	domainerrors "taleforge/contexts/economy-core/finance-reporting/domain/errors"
)

type Store struct {
	mu           sync.RWMutex
	transactions []entities.Transaction
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) AppendTransaction(_ context.Context, transaction entities.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, transaction)
	return nil
}

func (s *Store) GetTransaction(_ context.Context, transactionID string) (entities.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, transaction := range s.transactions {
		if transaction.TransactionID == transactionID {
			return transaction, nil
		}
	}
	return entities.Transaction{}, domainerrors.ErrTransactionNotFound
}

func (s *Store) ListTransactions(_ context.Context, from time.Time, to time.Time) ([]entities.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Transaction, 0)
	for _, transaction := range s.transactions {
		if transaction.Date.Before(from) || !transaction.Date.Before(to) {
			continue
		}
		out = append(out, transaction)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID() string {
	return uuid.NewString()
}
