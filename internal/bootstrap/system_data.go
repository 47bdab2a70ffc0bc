package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/regelwerk/backend/internal/domain/ports"
	"github.com/regelwerk/backend/pkg/auth"
	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/models"
	"github.com/regelwerk/backend/pkg/utils"
)

const (
	defaultAdminEmail    = "admin@regelwerk.local"
	defaultAdminPassword = "admin123"
)

// InitializeSystemData seeds the admin account when it does not exist.
// ADMIN_EMAIL and ADMIN_PASSWORD override the development defaults.
func InitializeSystemData(ctx context.Context, users ports.UserStore) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
		log.Println("⚠️  ADMIN_PASSWORD not set, using development default")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:           utils.GenerateID(),
		Email:        email,
		Name:         "Administrator",
		Role:         constants.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.EnsureUser(ctx, admin); err != nil {
		return err
	}

	log.Printf("👤 Admin account ready (%s)", email)
	return nil
}
