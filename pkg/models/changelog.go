package models

import (
	"time"

	"github.com/regelwerk/backend/pkg/constants"
)

// ChangeLogEntry is an immutable audit record. Entries are append-only;
// the core never mutates or deletes them (retention pruning excepted).
type ChangeLogEntry struct {
	ID         string                 `json:"id"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Action     constants.ChangeAction `json:"action"`
	Changes    map[string]interface{} `json:"changes,omitempty"`
	UserID     string                 `json:"user_id"`
	UserName   string                 `json:"user_name"`
	Timestamp  time.Time              `json:"timestamp"`
}
