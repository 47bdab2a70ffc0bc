package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/models"
)

// UserRepository holds the login accounts
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, name, role, password_hash, created_at"

// GetByEmail looks an account up by its login email. Returns (nil, nil)
// for unknown emails.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE email = ?", userColumns, constants.TableUsers)
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID loads an account by id. Returns (nil, nil) for unknown ids.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", userColumns, constants.TableUsers)
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// EnsureUser inserts the account unless the email is already taken
func (r *UserRepository) EnsureUser(ctx context.Context, user *models.User) error {
	existing, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)",
		constants.TableUsers, userColumns,
	)
	_, err = r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		string(user.Role),
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.Role = constants.UserRole(role)
	return &u, nil
}
