package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taleforge/contexts/story-core/template-library/domain/entities"
	domainerrors "taleforge/contexts/story-core/template-library/domain/errors"
	"taleforge/contexts/story-core/template-library/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	templates map[string]entities.Template
}

func NewStore(seed []entities.Template) *Store {
	templates := make(map[string]entities.Template, len(seed))
	for _, item := range seed {
		templates[item.TemplateID] = item
	}
	return &Store{templates: templates}
}

func (s *Store) CreateTemplate(_ context.Context, template entities.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[template.TemplateID]; exists {
		return domainerrors.ErrTemplateAlreadyExists
	}
	s.templates[template.TemplateID] = template
	return nil
}

func (s *Store) GetTemplate(_ context.Context, templateID string) (entities.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.templates[strings.TrimSpace(templateID)]
	if !exists {
		return entities.Template{}, domainerrors.ErrTemplateNotFound
	}
	return item, nil
}

func (s *Store) ListTemplates(_ context.Context, filter ports.TemplateFilter) ([]entities.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Template, 0, len(s.templates))
	for _, template := range s.templates {
		if filter.Genre != "" && template.Genre != filter.Genre {
			continue
		}
		if filter.Difficulty != "" && template.Difficulty != filter.Difficulty {
			continue
		}
		items = append(items, template)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].TemplateID < items[j].TemplateID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
