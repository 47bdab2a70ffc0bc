package rest

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/errors"
	"github.com/regelwerk/backend/pkg/models"
)

// GetUserFromContext extracts the authenticated session from gin.Context.
// Nil when the route ran without RequireAuth.
func GetUserFromContext(c *gin.Context) *models.UserSession {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}
	session, ok := value.(models.UserSession)
	if !ok {
		return nil
	}
	return &session
}

// RespondAppError sends a standardised JSON error response using pkg/errors
func RespondAppError(c *gin.Context, err error) {
	code := errors.GetHTTPStatus(err)

	if code >= 500 {
		log.Printf("❌ ERROR [%d] %s %s: %v", code, c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(code, gin.H{
		constants.ResponseError: err.Error(),
		"code":                  errors.GetErrorCode(err),
	})
}

// BindJSON binds the request body and answers 400 itself on failure
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondAppError(c, errors.NewValidationError("body", err.Error()))
		return false
	}
	return true
}

// HandleGetEnvelope executes a read action and wraps the result in a JSON key
func HandleGetEnvelope(c *gin.Context, key string, action func() (interface{}, error)) {
	result, err := action()
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: result})
}

// HandleMutationEnvelope executes a mutation and wraps the result with a
// success message. status is StatusCreated for creates, StatusOK otherwise.
func HandleMutationEnvelope(c *gin.Context, status int, key, successMsg string, action func() (interface{}, error)) {
	result, err := action()
	if err != nil {
		RespondAppError(c, err)
		return
	}
	response := gin.H{constants.FieldMessage: successMsg}
	if key != "" {
		response[key] = result
	}
	c.JSON(status, response)
}

// HandleDeleteEnvelope executes a delete action and returns a success message
func HandleDeleteEnvelope(c *gin.Context, successMsg string, action func() error) {
	if err := action(); err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.FieldMessage: successMsg})
}
