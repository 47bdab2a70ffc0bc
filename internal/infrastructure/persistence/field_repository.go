package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/models"
	"github.com/regelwerk/backend/pkg/validation"
)

// FieldRepository persists field definitions. JSON-valued columns
// (validation, options, role_config, dependencies, ...) are stored as
// serialized text and decoded on scan.
type FieldRepository struct {
	db *sql.DB
}

func NewFieldRepository(db *sql.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

var fieldColumns = []string{
	"id",
	"type",
	"visibility",
	"requirement",
	"validation",
	"select_type",
	"options",
	"document_mode",
	"document_constraints",
	"role_config",
	"customer_specific",
	"visible_for_customers",
	"dependencies",
	"created_at",
	"updated_at",
}

func (r *FieldRepository) selectQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(fieldColumns, ", "), constants.TableFields)
}

// GetByID loads one field. Returns (nil, nil) when the id is unknown.
func (r *FieldRepository) GetByID(ctx context.Context, id string) (*models.Field, error) {
	row := r.db.QueryRowContext(ctx, r.selectQuery()+" WHERE id = ?", id)
	field, err := scanField(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan field: %w", err)
	}
	return field, nil
}

// GetByIDs loads the fields for a set of ids. Unknown ids are simply
// absent from the result.
func (r *FieldRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Field, error) {
	if len(ids) == 0 {
		return []*models.Field{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, r.selectQuery()+" WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fields: %w", err)
	}
	defer rows.Close()

	return collectFields(rows)
}

// GetAll loads every field definition
func (r *FieldRepository) GetAll(ctx context.Context) ([]*models.Field, error) {
	rows, err := r.db.QueryContext(ctx, r.selectQuery()+" ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query fields: %w", err)
	}
	defer rows.Close()

	return collectFields(rows)
}

// Insert stores a new field definition
func (r *FieldRepository) Insert(ctx context.Context, field *models.Field) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		constants.TableFields, strings.Join(fieldColumns, ", "),
	)
	_, err := r.db.ExecContext(ctx, query,
		field.ID,
		string(field.Type),
		string(field.Visibility),
		string(field.Requirement),
		marshalOrNull(field.Validation, field.Validation.IsZero()),
		nullIfEmpty(string(field.SelectType)),
		marshalOrNull(field.Options, field.Options == nil),
		nullIfEmpty(string(field.DocumentMode)),
		marshalOrNull(field.DocumentConstraints, field.DocumentConstraints == nil),
		marshalOrNull(field.RoleConfig, field.RoleConfig == nil),
		field.CustomerSpecific,
		marshalOrNull(field.VisibleForCustomers, field.VisibleForCustomers == nil),
		marshalOrNull(field.Dependencies, field.Dependencies == nil),
		field.CreatedAt,
		field.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert field: %w", err)
	}
	return nil
}

// Update rewrites a field definition in place
func (r *FieldRepository) Update(ctx context.Context, field *models.Field) error {
	query := fmt.Sprintf(`UPDATE %s SET
		type = ?, visibility = ?, requirement = ?, validation = ?,
		select_type = ?, options = ?, document_mode = ?, document_constraints = ?,
		role_config = ?, customer_specific = ?, visible_for_customers = ?,
		dependencies = ?, updated_at = ?
		WHERE id = ?`, constants.TableFields)

	_, err := r.db.ExecContext(ctx, query,
		string(field.Type),
		string(field.Visibility),
		string(field.Requirement),
		marshalOrNull(field.Validation, field.Validation.IsZero()),
		nullIfEmpty(string(field.SelectType)),
		marshalOrNull(field.Options, field.Options == nil),
		nullIfEmpty(string(field.DocumentMode)),
		marshalOrNull(field.DocumentConstraints, field.DocumentConstraints == nil),
		marshalOrNull(field.RoleConfig, field.RoleConfig == nil),
		field.CustomerSpecific,
		marshalOrNull(field.VisibleForCustomers, field.VisibleForCustomers == nil),
		marshalOrNull(field.Dependencies, field.Dependencies == nil),
		field.UpdatedAt,
		field.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update field: %w", err)
	}
	return nil
}

// Delete removes the field row and detaches it from every template
func (r *FieldRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE field_id = ?", constants.TableTemplateFields), id); err != nil {
		return fmt.Errorf("failed to detach field from templates: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", constants.TableFields), id); err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}
	return nil
}

// FilterExisting returns the ids that reference stored fields, in the
// order they were given. Unknown ids are dropped silently; the template
// membership update relies on this.
func (r *FieldRepository) FilterExisting(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf("SELECT id FROM %s WHERE id IN (%s)", constants.TableFields, placeholders)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query field ids: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan field id: %w", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if existing[id] {
			kept = append(kept, id)
		}
	}
	return kept, nil
}

func collectFields(rows *sql.Rows) ([]*models.Field, error) {
	fields := []*models.Field{}
	for rows.Next() {
		field, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanField(row rowScanner) (*models.Field, error) {
	var f models.Field
	var validationJSON, selectType, optionsJSON, documentMode sql.NullString
	var docConstraintsJSON, roleConfigJSON, visibleForJSON, dependenciesJSON sql.NullString
	var fieldType, visibility, requirement string

	err := row.Scan(
		&f.ID,
		&fieldType,
		&visibility,
		&requirement,
		&validationJSON,
		&selectType,
		&optionsJSON,
		&documentMode,
		&docConstraintsJSON,
		&roleConfigJSON,
		&f.CustomerSpecific,
		&visibleForJSON,
		&dependenciesJSON,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.Type = constants.FieldType(fieldType)
	f.Visibility = constants.FieldVisibility(visibility)
	f.Requirement = constants.FieldRequirement(requirement)
	f.SelectType = constants.SelectType(selectType.String)
	f.DocumentMode = constants.DocumentMode(documentMode.String)

	if validationJSON.Valid && validationJSON.String != "" {
		cfg, err := validation.ParseConfig(json.RawMessage(validationJSON.String))
		if err != nil {
			log.Printf("Field %s carries malformed validation config: %v", f.ID, err)
		} else {
			f.Validation = cfg
		}
	}
	unmarshalColumn(optionsJSON, &f.Options, f.ID, "options")
	unmarshalColumn(docConstraintsJSON, &f.DocumentConstraints, f.ID, "document_constraints")
	unmarshalColumn(roleConfigJSON, &f.RoleConfig, f.ID, "role_config")
	unmarshalColumn(visibleForJSON, &f.VisibleForCustomers, f.ID, "visible_for_customers")
	unmarshalColumn(dependenciesJSON, &f.Dependencies, f.ID, "dependencies")

	return &f, nil
}

// unmarshalColumn decodes a nullable JSON column; malformed content is
// logged and left zero so one bad row cannot poison a whole listing.
func unmarshalColumn(col sql.NullString, dest interface{}, id, name string) {
	if !col.Valid || col.String == "" {
		return
	}
	if err := json.Unmarshal([]byte(col.String), dest); err != nil {
		log.Printf("Record %s carries malformed %s JSON: %v", id, name, err)
	}
}

// marshalOrNull serializes a JSON column value, storing NULL for absent ones
func marshalOrNull(v interface{}, isNull bool) interface{} {
	if isNull {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal JSON column: %v", err)
		return nil
	}
	return string(data)
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
