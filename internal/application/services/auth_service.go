package services

import (
	"context"
	"log"

	"github.com/regelwerk/backend/internal/domain/ports"
	"github.com/regelwerk/backend/pkg/auth"
	apperrors "github.com/regelwerk/backend/pkg/errors"
	"github.com/regelwerk/backend/pkg/models"
)

// AuthService handles login and session lookups
type AuthService struct {
	users ports.UserStore
}

func NewAuthService(users ports.UserStore) *AuthService {
	return &AuthService{users: users}
}

// LoginResult carries the issued token and the session it encodes
type LoginResult struct {
	Token string             `json:"token"`
	User  models.UserSession `json:"user"`
}

// Login verifies credentials and issues a JWT. Unknown emails and wrong
// passwords fail with the same error so the response does not leak
// which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}

	session := models.UserSession{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	token, err := auth.GenerateToken(session)
	if err != nil {
		log.Printf("Failed to issue token for %s: %v", email, err)
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	return &LoginResult{Token: token, User: session}, nil
}

// CurrentUser resolves a session back to the stored account
func (s *AuthService) CurrentUser(ctx context.Context, session *models.UserSession) (*models.User, error) {
	user, err := s.users.GetByID(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("User", session.ID)
	}
	return user, nil
}
