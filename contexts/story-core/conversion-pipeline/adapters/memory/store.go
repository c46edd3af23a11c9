package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taleforge/contexts/story-core/conversion-pipeline/domain/entities"
)

// Store is the in-memory conversion repository used by tests and local runs.
type Store struct {
	mu          sync.RWMutex
	conversions map[string]entities.Conversion
}

func NewStore() *Store {
	return &Store{
		conversions: make(map[string]entities.Conversion),
	}
}

func (s *Store) CreateConversion(_ context.Context, conversion entities.Conversion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversions[conversion.ConversionID] = conversion
	return nil
}

func (s *Store) ListConversionsBySession(_ context.Context, sessionID string) ([]entities.Conversion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Conversion, 0)
	for _, conversion := range s.conversions {
		if conversion.SessionID == sessionID {
			out = append(out, conversion)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ConversionID < out[j].ConversionID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID() string {
	return uuid.NewString()
}
