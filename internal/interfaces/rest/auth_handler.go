package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regelwerk/backend/internal/application/services"
	"github.com/regelwerk/backend/pkg/errors"
)

// AuthHandler exposes login and session inspection
type AuthHandler struct {
	services *services.ServiceManager
}

func NewAuthHandler(sm *services.ServiceManager) *AuthHandler {
	return &AuthHandler{services: sm}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	session := GetUserFromContext(c)
	if session == nil {
		RespondAppError(c, errors.NewUnauthorizedError("no session"))
		return
	}

	user, err := h.services.Auth.CurrentUser(c.Request.Context(), session)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
