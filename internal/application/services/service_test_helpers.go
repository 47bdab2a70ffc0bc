package services

import (
	"context"
	"sync"
	"time"

	"github.com/regelwerk/backend/pkg/models"
)

// In-memory store fakes for service tests. They follow the store
// contracts (nil on missing ids, order-preserving FilterExisting) so
// service behavior can be exercised without a database.

type memFieldStore struct {
	mu     sync.Mutex
	fields map[string]*models.Field
	order  []string
}

func newMemFieldStore(fields ...*models.Field) *memFieldStore {
	s := &memFieldStore{fields: map[string]*models.Field{}}
	for _, f := range fields {
		s.fields[f.ID] = f
		s.order = append(s.order, f.ID)
	}
	return s
}

func (s *memFieldStore) GetByID(_ context.Context, id string) (*models.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields[id], nil
}

func (s *memFieldStore) GetByIDs(_ context.Context, ids []string) ([]*models.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*models.Field{}
	for _, id := range ids {
		if f, ok := s.fields[id]; ok {
			result = append(result, f)
		}
	}
	return result, nil
}

func (s *memFieldStore) GetAll(_ context.Context) ([]*models.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*models.Field{}
	for _, id := range s.order {
		if f, ok := s.fields[id]; ok {
			result = append(result, f)
		}
	}
	return result, nil
}

func (s *memFieldStore) Insert(_ context.Context, field *models.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[field.ID] = field
	s.order = append(s.order, field.ID)
	return nil
}

func (s *memFieldStore) Update(_ context.Context, field *models.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[field.ID] = field
	return nil
}

func (s *memFieldStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fields, id)
	return nil
}

func (s *memFieldStore) FilterExisting(_ context.Context, ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := []string{}
	for _, id := range ids {
		if _, ok := s.fields[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept, nil
}

type memTemplateStore struct {
	mu        sync.Mutex
	templates map[string]*models.Template
}

func newMemTemplateStore(templates ...*models.Template) *memTemplateStore {
	s := &memTemplateStore{templates: map[string]*models.Template{}}
	for _, t := range templates {
		s.templates[t.ID] = t
	}
	return s
}

func (s *memTemplateStore) GetByID(_ context.Context, id string) (*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templates[id], nil
}

func (s *memTemplateStore) GetAll(_ context.Context) ([]*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*models.Template{}
	for _, t := range s.templates {
		result = append(result, t)
	}
	return result, nil
}

func (s *memTemplateStore) Insert(_ context.Context, t *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
	return nil
}

func (s *memTemplateStore) Update(_ context.Context, t *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
	return nil
}

func (s *memTemplateStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.templates, id)
	return nil
}

func (s *memTemplateStore) ReplaceFieldIDs(_ context.Context, templateID string, fieldIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.templates[templateID]; ok {
		t.FieldIDs = fieldIDs
	}
	return nil
}

func (s *memTemplateStore) RemoveFieldFromAll(_ context.Context, fieldID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.templates {
		kept := t.FieldIDs[:0]
		for _, id := range t.FieldIDs {
			if id != fieldID {
				kept = append(kept, id)
			}
		}
		t.FieldIDs = kept
	}
	return nil
}

type textKey struct {
	entityType string
	entityID   string
}

type memTextStore struct {
	mu    sync.Mutex
	texts map[textKey]models.MultiLanguageText
}

func newMemTextStore() *memTextStore {
	return &memTextStore{texts: map[textKey]models.MultiLanguageText{}}
}

func (s *memTextStore) GetAll(_ context.Context, entityType, entityID string) (models.MultiLanguageText, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := models.MultiLanguageText{}
	for lang, value := range s.texts[textKey{entityType, entityID}] {
		result[lang] = value
	}
	return result, nil
}

func (s *memTextStore) SetAll(_ context.Context, entityType, entityID string, texts models.MultiLanguageText) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := models.MultiLanguageText{}
	for lang, value := range texts {
		if value != "" {
			stored[lang] = value
		}
	}
	s.texts[textKey{entityType, entityID}] = stored
	return nil
}

func (s *memTextStore) UpdateAll(_ context.Context, entityType, entityID string, texts models.MultiLanguageText) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := textKey{entityType, entityID}
	if s.texts[key] == nil {
		s.texts[key] = models.MultiLanguageText{}
	}
	for lang, value := range texts {
		if value != "" {
			s.texts[key][lang] = value
		}
	}
	return nil
}

func (s *memTextStore) DeleteAll(_ context.Context, entityID string, entityTypes ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entityType := range entityTypes {
		delete(s.texts, textKey{entityType, entityID})
	}
	return nil
}

type memChangeLogStore struct {
	mu      sync.Mutex
	entries []*models.ChangeLogEntry
}

func newMemChangeLogStore() *memChangeLogStore {
	return &memChangeLogStore{}
}

func (s *memChangeLogStore) Append(_ context.Context, entry *models.ChangeLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memChangeLogStore) List(_ context.Context, limit int, entityType string) ([]*models.ChangeLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*models.ChangeLogEntry{}
	for i := len(s.entries) - 1; i >= 0 && len(result) < limit; i-- {
		if entityType == "" || s.entries[i].EntityType == entityType {
			result = append(result, s.entries[i])
		}
	}
	return result, nil
}

func (s *memChangeLogStore) ListForEntity(_ context.Context, entityID string) ([]*models.ChangeLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*models.ChangeLogEntry{}
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].EntityID == entityID {
			result = append(result, s.entries[i])
		}
	}
	return result, nil
}

func (s *memChangeLogStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	var deleted int64
	for _, e := range s.entries {
		if e.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}
