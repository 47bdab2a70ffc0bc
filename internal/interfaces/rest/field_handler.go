package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regelwerk/backend/internal/application/services"
)

// FieldHandler exposes field CRUD, value validation and the validation
// schema catalog
type FieldHandler struct {
	services *services.ServiceManager
}

func NewFieldHandler(sm *services.ServiceManager) *FieldHandler {
	return &FieldHandler{services: sm}
}

// List handles GET /api/fields
func (h *FieldHandler) List(c *gin.Context) {
	HandleGetEnvelope(c, "fields", func() (interface{}, error) {
		return h.services.Fields.List(c.Request.Context())
	})
}

// Get handles GET /api/fields/:id
func (h *FieldHandler) Get(c *gin.Context) {
	HandleGetEnvelope(c, "field", func() (interface{}, error) {
		return h.services.Fields.Get(c.Request.Context(), c.Param("id"))
	})
}

// Create handles POST /api/fields
func (h *FieldHandler) Create(c *gin.Context) {
	var input services.FieldInput
	if !BindJSON(c, &input) {
		return
	}
	HandleMutationEnvelope(c, http.StatusCreated, "field", "Field created", func() (interface{}, error) {
		return h.services.Fields.Create(c.Request.Context(), input, GetUserFromContext(c))
	})
}

// Update handles PUT /api/fields/:id
func (h *FieldHandler) Update(c *gin.Context) {
	var input services.FieldInput
	if !BindJSON(c, &input) {
		return
	}
	HandleMutationEnvelope(c, http.StatusOK, "field", "Field updated", func() (interface{}, error) {
		return h.services.Fields.Update(c.Request.Context(), c.Param("id"), input, GetUserFromContext(c))
	})
}

// Delete handles DELETE /api/fields/:id
func (h *FieldHandler) Delete(c *gin.Context) {
	HandleDeleteEnvelope(c, "Field deleted", func() error {
		return h.services.Fields.Delete(c.Request.Context(), c.Param("id"), GetUserFromContext(c))
	})
}

type validateValueRequest struct {
	Value interface{} `json:"value"`
}

// ValidateValue handles POST /api/fields/:id/validate
func (h *FieldHandler) ValidateValue(c *gin.Context) {
	var req validateValueRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.services.Fields.ValidateValue(c.Request.Context(), c.Param("id"), req.Value)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ValidationSchema handles GET /api/fields/validation-schema/:type
func (h *FieldHandler) ValidationSchema(c *gin.Context) {
	HandleGetEnvelope(c, "schema", func() (interface{}, error) {
		return h.services.Fields.ValidationSchema(c.Param("type"))
	})
}
