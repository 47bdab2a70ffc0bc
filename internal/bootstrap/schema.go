package bootstrap

import (
	"fmt"
	"log"

	"github.com/regelwerk/backend/internal/infrastructure/database"
)

// Table DDL. JSON-valued columns are TEXT so the schema works on older
// MySQL versions as well.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS templates (
		id VARCHAR(36) PRIMARY KEY,
		role_config TEXT,
		customer_specific BOOLEAN NOT NULL DEFAULT FALSE,
		visible_for_customers TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		created_by VARCHAR(36),
		updated_by VARCHAR(36)
	)`,
	`CREATE TABLE IF NOT EXISTS fields (
		id VARCHAR(36) PRIMARY KEY,
		type VARCHAR(20) NOT NULL,
		visibility VARCHAR(20) NOT NULL,
		requirement VARCHAR(20) NOT NULL,
		validation TEXT,
		select_type VARCHAR(20),
		options TEXT,
		document_mode VARCHAR(40),
		document_constraints TEXT,
		role_config TEXT,
		customer_specific BOOLEAN NOT NULL DEFAULT FALSE,
		visible_for_customers TEXT,
		dependencies TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS template_fields (
		template_id VARCHAR(36) NOT NULL,
		field_id VARCHAR(36) NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (template_id, field_id),
		INDEX idx_template_fields_field (field_id)
	)`,
	`CREATE TABLE IF NOT EXISTS multilanguage_texts (
		entity_type VARCHAR(40) NOT NULL,
		entity_id VARCHAR(36) NOT NULL,
		language_code VARCHAR(2) NOT NULL,
		text_value TEXT NOT NULL,
		PRIMARY KEY (entity_type, entity_id, language_code)
	)`,
	`CREATE TABLE IF NOT EXISTS change_logs (
		id VARCHAR(36) PRIMARY KEY,
		entity_type VARCHAR(40) NOT NULL,
		entity_id VARCHAR(36) NOT NULL,
		action VARCHAR(20) NOT NULL,
		changes TEXT,
		user_id VARCHAR(36),
		user_name VARCHAR(255),
		timestamp DATETIME NOT NULL,
		INDEX idx_change_logs_entity (entity_id),
		INDEX idx_change_logs_timestamp (timestamp)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL
	)`,
}

// InitializeSchema creates the tables if they do not exist yet
func InitializeSchema(db *database.Connection) error {
	for _, stmt := range schemaStatements {
		if _, err := db.DB().Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	log.Println("📋 Database schema ready")
	return nil
}
