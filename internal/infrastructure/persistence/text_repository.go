package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/models"
)

// TextRepository persists localized text, one row per
// (entity_type, entity_id, language_code). Empty strings are never
// stored; absence of a row means absence of a translation.
type TextRepository struct {
	db *sql.DB
}

func NewTextRepository(db *sql.DB) *TextRepository {
	return &TextRepository{db: db}
}

// GetAll loads the translations of one text slot
func (r *TextRepository) GetAll(ctx context.Context, entityType, entityID string) (models.MultiLanguageText, error) {
	query := fmt.Sprintf(
		"SELECT language_code, text_value FROM %s WHERE entity_type = ? AND entity_id = ?",
		constants.TableTexts,
	)
	rows, err := r.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query texts: %w", err)
	}
	defer rows.Close()

	texts := models.MultiLanguageText{}
	for rows.Next() {
		var lang, value string
		if err := rows.Scan(&lang, &value); err != nil {
			return nil, fmt.Errorf("failed to scan text: %w", err)
		}
		texts[lang] = value
	}
	return texts, rows.Err()
}

// SetAll replaces the translations of a slot wholesale. Languages with
// empty values end up with no row at all.
func (r *TextRepository) SetAll(ctx context.Context, entityType, entityID string, texts models.MultiLanguageText) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE entity_type = ? AND entity_id = ?", constants.TableTexts),
		entityType, entityID); err != nil {
		return fmt.Errorf("failed to clear texts: %w", err)
	}

	insert := fmt.Sprintf(
		"INSERT INTO %s (entity_type, entity_id, language_code, text_value) VALUES (?, ?, ?, ?)",
		constants.TableTexts,
	)
	for lang, value := range texts {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, insert, entityType, entityID, lang, value); err != nil {
			return fmt.Errorf("failed to insert text %s/%s: %w", entityType, lang, err)
		}
	}
	return tx.Commit()
}

// UpdateAll upserts translations per language, leaving languages that
// are not mentioned untouched. Empty values are skipped, not deleted.
func (r *TextRepository) UpdateAll(ctx context.Context, entityType, entityID string, texts models.MultiLanguageText) error {
	query := fmt.Sprintf(`INSERT INTO %s (entity_type, entity_id, language_code, text_value)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE text_value = VALUES(text_value)`, constants.TableTexts)

	for lang, value := range texts {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, query, entityType, entityID, lang, value); err != nil {
			return fmt.Errorf("failed to upsert text %s/%s: %w", entityType, lang, err)
		}
	}
	return nil
}

// DeleteAll removes every translation of an entity across the given slots
func (r *TextRepository) DeleteAll(ctx context.Context, entityID string, entityTypes ...string) error {
	if len(entityTypes) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(entityTypes)), ", ")
	args := make([]interface{}, 0, len(entityTypes)+1)
	args = append(args, entityID)
	for _, t := range entityTypes {
		args = append(args, t)
	}

	query := fmt.Sprintf(
		"DELETE FROM %s WHERE entity_id = ? AND entity_type IN (%s)",
		constants.TableTexts, placeholders,
	)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete texts: %w", err)
	}
	return nil
}
