package ports

import (
	"context"
	"time"

	"github.com/regelwerk/backend/pkg/models"
)

// FieldStore is the record store for field definitions
type FieldStore interface {
	GetByID(ctx context.Context, id string) (*models.Field, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Field, error)
	GetAll(ctx context.Context) ([]*models.Field, error)
	Insert(ctx context.Context, field *models.Field) error
	Update(ctx context.Context, field *models.Field) error
	// Delete removes the field row and its template memberships
	Delete(ctx context.Context, id string) error
	// FilterExisting returns the subset of ids present in the store,
	// preserving the input order. Unknown ids are dropped, never an error.
	FilterExisting(ctx context.Context, ids []string) ([]string, error)
}

// TemplateStore is the record store for templates and their field membership
type TemplateStore interface {
	GetByID(ctx context.Context, id string) (*models.Template, error)
	GetAll(ctx context.Context) ([]*models.Template, error)
	Insert(ctx context.Context, template *models.Template) error
	Update(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, id string) error
	// ReplaceFieldIDs swaps the ordered membership list of a template
	ReplaceFieldIDs(ctx context.Context, templateID string, fieldIDs []string) error
	// RemoveFieldFromAll detaches a field from every template that lists it
	RemoveFieldFromAll(ctx context.Context, fieldID string) error
}

// TextStore holds localized text keyed by (entity_type, entity_id, language)
type TextStore interface {
	GetAll(ctx context.Context, entityType, entityID string) (models.MultiLanguageText, error)
	// SetAll deletes then reinserts the texts of a slot, skipping empty strings
	SetAll(ctx context.Context, entityType, entityID string, texts models.MultiLanguageText) error
	// UpdateAll upserts per language, skipping empty strings
	UpdateAll(ctx context.Context, entityType, entityID string, texts models.MultiLanguageText) error
	DeleteAll(ctx context.Context, entityID string, entityTypes ...string) error
}

// ChangeLogStore is the append-only audit sink
type ChangeLogStore interface {
	Append(ctx context.Context, entry *models.ChangeLogEntry) error
	List(ctx context.Context, limit int, entityType string) ([]*models.ChangeLogEntry, error)
	ListForEntity(ctx context.Context, entityID string) ([]*models.ChangeLogEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// UserStore holds login accounts
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// EnsureUser inserts the user unless the email already exists
	EnsureUser(ctx context.Context, user *models.User) error
}
