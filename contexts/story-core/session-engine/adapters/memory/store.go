package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"taleforge/contexts/story-core/session-engine/domain/entities"
	domainerrors "taleforge/contexts/story-core/session-engine/domain/errors"
	"taleforge/contexts/story-core/session-engine/ports"
	"taleforge/internal/shared/events"

	"github.com/google/uuid"
)

type outboxRow struct {
	message     ports.OutboxMessage
	published   bool
	publishedAt time.Time
}

type Store struct {
	mu sync.RWMutex

	sessions  map[string]entities.Session
	deadlines map[string]entities.TurnDeadline
	outbox    []outboxRow
}

func NewStore() *Store {
	return &Store{
		sessions:  make(map[string]entities.Session),
		deadlines: make(map[string]entities.TurnDeadline),
	}
}

func cloneSession(session entities.Session) entities.Session {
	session.Participants = append([]string(nil), session.Participants...)
	session.Responses = append([]entities.TurnResponse(nil), session.Responses...)
	return session
}

func (s *Store) CreateSession(_ context.Context, session entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.SessionID]; exists {
		return domainerrors.ErrInvalidStateTransition
	}
	s.sessions[session.SessionID] = cloneSession(session)
	return nil
}

func (s *Store) UpdateSession(_ context.Context, session entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.SessionID]; !exists {
		return domainerrors.ErrSessionNotFound
	}
	s.sessions[session.SessionID] = cloneSession(session)
	return nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[strings.TrimSpace(sessionID)]
	if !exists {
		return entities.Session{}, domainerrors.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Store) ListSessions(_ context.Context, filter ports.SessionFilter) ([]entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if filter.HostID != "" && session.HostID != filter.HostID {
			continue
		}
		if filter.Status != "" && session.Status != filter.Status {
			continue
		}
		items = append(items, cloneSession(session))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].SessionID < items[j].SessionID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpsertDeadline(_ context.Context, deadline entities.TurnDeadline) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deadlines[deadline.SessionID] = deadline
	return nil
}

func (s *Store) DeleteDeadline(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.deadlines, strings.TrimSpace(sessionID))
	return nil
}

func (s *Store) ListExpiredDeadlines(_ context.Context, now time.Time, limit int) ([]entities.TurnDeadline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.TurnDeadline, 0)
	for _, deadline := range s.deadlines {
		if deadline.ExpiresAt.After(now) {
			continue
		}
		items = append(items, deadline)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ExpiresAt.Before(items[j].ExpiresAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
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

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
