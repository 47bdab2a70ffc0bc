package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/models"
)

// TemplateRepository persists templates and their ordered field
// membership. Membership lives in a separate join table so the field
// order survives as an explicit position column.
type TemplateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

var templateColumns = []string{
	"id",
	"role_config",
	"customer_specific",
	"visible_for_customers",
	"created_at",
	"updated_at",
	"created_by",
	"updated_by",
}

func (r *TemplateRepository) selectQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(templateColumns, ", "), constants.TableTemplates)
}

// GetByID loads one template with its ordered field ids. Returns
// (nil, nil) when the id is unknown.
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	row := r.db.QueryRowContext(ctx, r.selectQuery()+" WHERE id = ?", id)
	tmpl, err := scanTemplate(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}

	fieldIDs, err := r.fieldIDsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	tmpl.FieldIDs = fieldIDs
	return tmpl, nil
}

// GetAll loads every template, each with its ordered field ids
func (r *TemplateRepository) GetAll(ctx context.Context) ([]*models.Template, error) {
	rows, err := r.db.QueryContext(ctx, r.selectQuery()+" ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.Template{}
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, tmpl := range templates {
		fieldIDs, err := r.fieldIDsFor(ctx, tmpl.ID)
		if err != nil {
			return nil, err
		}
		tmpl.FieldIDs = fieldIDs
	}
	return templates, nil
}

// Insert stores a new template together with its field membership
func (r *TemplateRepository) Insert(ctx context.Context, tmpl *models.Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		constants.TableTemplates, strings.Join(templateColumns, ", "),
	)
	_, err = tx.ExecContext(ctx, query,
		tmpl.ID,
		marshalOrNull(tmpl.RoleConfig, tmpl.RoleConfig == nil),
		tmpl.CustomerSpecific,
		marshalOrNull(tmpl.VisibleForCustomers, tmpl.VisibleForCustomers == nil),
		tmpl.CreatedAt,
		tmpl.UpdatedAt,
		nullIfEmpty(tmpl.CreatedBy),
		nullIfEmpty(tmpl.UpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}

	if err := insertFieldIDs(ctx, tx, tmpl.ID, tmpl.FieldIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the template row; membership is handled by ReplaceFieldIDs
func (r *TemplateRepository) Update(ctx context.Context, tmpl *models.Template) error {
	query := fmt.Sprintf(`UPDATE %s SET
		role_config = ?, customer_specific = ?, visible_for_customers = ?,
		updated_at = ?, updated_by = ?
		WHERE id = ?`, constants.TableTemplates)

	_, err := r.db.ExecContext(ctx, query,
		marshalOrNull(tmpl.RoleConfig, tmpl.RoleConfig == nil),
		tmpl.CustomerSpecific,
		marshalOrNull(tmpl.VisibleForCustomers, tmpl.VisibleForCustomers == nil),
		tmpl.UpdatedAt,
		nullIfEmpty(tmpl.UpdatedBy),
		tmpl.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}

// ReplaceFieldIDs swaps a template's field membership for the given
// ordered list inside one transaction
func (r *TemplateRepository) ReplaceFieldIDs(ctx context.Context, templateID string, fieldIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE template_id = ?", constants.TableTemplateFields), templateID); err != nil {
		return fmt.Errorf("failed to clear template fields: %w", err)
	}
	if err := insertFieldIDs(ctx, tx, templateID, fieldIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes the template and its membership rows
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE template_id = ?", constants.TableTemplateFields), id); err != nil {
		return fmt.Errorf("failed to clear template fields: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", constants.TableTemplates), id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return tx.Commit()
}

// RemoveFieldFromAll detaches a field from every template that lists it
func (r *TemplateRepository) RemoveFieldFromAll(ctx context.Context, fieldID string) error {
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE field_id = ?", constants.TableTemplateFields), fieldID)
	if err != nil {
		return fmt.Errorf("failed to detach field: %w", err)
	}
	return nil
}

func (r *TemplateRepository) fieldIDsFor(ctx context.Context, templateID string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT field_id FROM %s WHERE template_id = ? ORDER BY position",
		constants.TableTemplateFields,
	)
	rows, err := r.db.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query template fields: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan field id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertFieldIDs(ctx context.Context, tx *sql.Tx, templateID string, fieldIDs []string) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (template_id, field_id, position) VALUES (?, ?, ?)",
		constants.TableTemplateFields,
	)
	for pos, fieldID := range fieldIDs {
		if _, err := tx.ExecContext(ctx, query, templateID, fieldID, pos); err != nil {
			return fmt.Errorf("failed to attach field %s: %w", fieldID, err)
		}
	}
	return nil
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var t models.Template
	var roleConfigJSON, visibleForJSON, createdBy, updatedBy sql.NullString

	err := row.Scan(
		&t.ID,
		&roleConfigJSON,
		&t.CustomerSpecific,
		&visibleForJSON,
		&t.CreatedAt,
		&t.UpdatedAt,
		&createdBy,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}

	unmarshalColumn(roleConfigJSON, &t.RoleConfig, t.ID, "role_config")
	unmarshalColumn(visibleForJSON, &t.VisibleForCustomers, t.ID, "visible_for_customers")
	t.CreatedBy = createdBy.String
	t.UpdatedBy = updatedBy.String
	t.FieldIDs = []string{}
	return &t, nil
}
