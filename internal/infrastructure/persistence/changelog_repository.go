package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/models"
)

// ChangeLogRepository is the append-only audit table
type ChangeLogRepository struct {
	db *sql.DB
}

func NewChangeLogRepository(db *sql.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

const changeLogColumns = "id, entity_type, entity_id, action, changes, user_id, user_name, timestamp"

// Append stores one audit entry
func (r *ChangeLogRepository) Append(ctx context.Context, entry *models.ChangeLogEntry) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		constants.TableChangeLogs, changeLogColumns,
	)
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.EntityType,
		entry.EntityID,
		string(entry.Action),
		marshalOrNull(entry.Changes, entry.Changes == nil),
		nullIfEmpty(entry.UserID),
		nullIfEmpty(entry.UserName),
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append change log: %w", err)
	}
	return nil
}

// List returns the newest entries first, optionally scoped to one entity type
func (r *ChangeLogRepository) List(ctx context.Context, limit int, entityType string) ([]*models.ChangeLogEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", changeLogColumns, constants.TableChangeLogs)
	args := []interface{}{}
	if entityType != "" {
		query += " WHERE entity_type = ?"
		args = append(args, entityType)
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query change logs: %w", err)
	}
	defer rows.Close()

	return collectChangeLogs(rows)
}

// ListForEntity returns the history of one entity, newest first
func (r *ChangeLogRepository) ListForEntity(ctx context.Context, entityID string) ([]*models.ChangeLogEntry, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE entity_id = ? ORDER BY timestamp DESC",
		changeLogColumns, constants.TableChangeLogs,
	)
	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query change logs: %w", err)
	}
	defer rows.Close()

	return collectChangeLogs(rows)
}

// DeleteOlderThan prunes entries older than the cutoff
func (r *ChangeLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE timestamp < ?", constants.TableChangeLogs), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune change logs: %w", err)
	}
	return result.RowsAffected()
}

func collectChangeLogs(rows *sql.Rows) ([]*models.ChangeLogEntry, error) {
	entries := []*models.ChangeLogEntry{}
	for rows.Next() {
		var e models.ChangeLogEntry
		var action string
		var changesJSON, userID, userName sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.EntityType,
			&e.EntityID,
			&action,
			&changesJSON,
			&userID,
			&userName,
			&e.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change log: %w", err)
		}

		e.Action = constants.ChangeAction(action)
		unmarshalColumn(changesJSON, &e.Changes, e.ID, "changes")
		e.UserID = userID.String
		e.UserName = userName.String
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
