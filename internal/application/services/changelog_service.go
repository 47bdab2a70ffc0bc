package services

import (
	"context"
	"log"
	"time"

	"github.com/regelwerk/backend/internal/domain/ports"
	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/models"
	"github.com/regelwerk/backend/pkg/utils"
)

// ChangeLogService records create/update/delete events on templates and
// fields. Logging is fire-and-forget: a write failure is logged and
// swallowed so auditing can never break the operation it describes.
type ChangeLogService struct {
	store ports.ChangeLogStore
}

func NewChangeLogService(store ports.ChangeLogStore) *ChangeLogService {
	return &ChangeLogService{store: store}
}

// LogChange appends one audit entry. The changes map is free-form; CRUD
// callers pass the request payload that triggered the mutation.
func (s *ChangeLogService) LogChange(ctx context.Context, entityType, entityID string, action constants.ChangeAction, changes map[string]interface{}, user *models.UserSession) {
	entry := &models.ChangeLogEntry{
		ID:         utils.GenerateID(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    changes,
		Timestamp:  time.Now().UTC(),
	}
	if user != nil {
		entry.UserID = user.ID
		entry.UserName = user.Name
	}

	if err := s.store.Append(ctx, entry); err != nil {
		log.Printf("Failed to record change log for %s %s: %v", entityType, entityID, err)
	}
}

// List returns recent entries, newest first. A non-positive limit falls
// back to 100; entityType narrows the listing when set.
func (s *ChangeLogService) List(ctx context.Context, limit int, entityType string) ([]*models.ChangeLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.store.List(ctx, limit, entityType)
}

// ListForEntity returns the full history of one template or field
func (s *ChangeLogService) ListForEntity(ctx context.Context, entityID string) ([]*models.ChangeLogEntry, error) {
	return s.store.ListForEntity(ctx, entityID)
}

// Prune deletes entries older than the retention window and reports how
// many rows went away
func (s *ChangeLogService) Prune(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	return s.store.DeleteOlderThan(ctx, cutoff)
}
