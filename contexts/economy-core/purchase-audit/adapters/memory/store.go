package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	domainerrors "taleforge/contexts/economy-core/purchase-audit/domain/errors"
	"taleforge/contexts/economy-core/purchase-audit/ports"
	"taleforge/internal/shared/events"
)

type outboxRow struct {
	message     ports.OutboxMessage
	published   bool
	publishedAt time.Time
}

// Store is the in-memory attempt repository plus outbox used by tests and
// local runs.
type Store struct {
	mu       sync.RWMutex
	attempts map[string]entities.PurchaseAttempt
	outbox   []outboxRow
}

func NewStore() *Store {
	return &Store{
		attempts: make(map[string]entities.PurchaseAttempt),
	}
}

func (s *Store) CreateAttempt(_ context.Context, attempt entities.PurchaseAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.AttemptID] = cloneAttempt(attempt)
	return nil
}

func (s *Store) GetAttempt(_ context.Context, attemptID string) (entities.PurchaseAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[attemptID]
	if !ok {
		return entities.PurchaseAttempt{}, domainerrors.ErrAttemptNotFound
	}
	return cloneAttempt(attempt), nil
}

func (s *Store) UpdateAttempt(_ context.Context, attempt entities.PurchaseAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[attempt.AttemptID]; !ok {
		return domainerrors.ErrAttemptNotFound
	}
	s.attempts[attempt.AttemptID] = cloneAttempt(attempt)
	return nil
}

func (s *Store) ListAttemptsByAccount(_ context.Context, accountID string) ([]entities.PurchaseAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.PurchaseAttempt, 0)
	for _, attempt := range s.attempts {
		if attempt.AccountID == accountID {
			out = append(out, cloneAttempt(attempt))
		}
	}
	sortAttempts(out)
	return out, nil
}

func (s *Store) ListAttempts(_ context.Context) ([]entities.PurchaseAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.PurchaseAttempt, 0, len(s.attempts))
	for _, attempt := range s.attempts {
		out = append(out, cloneAttempt(attempt))
	}
	sortAttempts(out)
	return out, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:  uuid.NewString(),
			EventType: envelope.EventType,
			Payload:   payload,
			CreatedAt: envelope.OccurredAtUTC,
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].published = true
			s.outbox[i].publishedAt = publishedAt
			return nil
		}
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID() string {
	return uuid.NewString()
}

func cloneAttempt(attempt entities.PurchaseAttempt) entities.PurchaseAttempt {
	out := attempt
	if attempt.CompletedAt != nil {
		completedAt := *attempt.CompletedAt
		out.CompletedAt = &completedAt
	}
	return out
}

func sortAttempts(attempts []entities.PurchaseAttempt) {
	sort.Slice(attempts, func(i, j int) bool {
		if attempts[i].CreatedAt.Equal(attempts[j].CreatedAt) {
			return attempts[i].AttemptID < attempts[j].AttemptID
		}
		return attempts[i].CreatedAt.Before(attempts[j].CreatedAt)
	})
}
