package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/regelwerk/backend/internal/application/services"
	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/errors"
)

// TemplateHandler exposes template CRUD, export, render and simulation
type TemplateHandler struct {
	services *services.ServiceManager
}

func NewTemplateHandler(sm *services.ServiceManager) *TemplateHandler {
	return &TemplateHandler{services: sm}
}

// List handles GET /api/templates
func (h *TemplateHandler) List(c *gin.Context) {
	HandleGetEnvelope(c, "templates", func() (interface{}, error) {
		return h.services.Templates.List(c.Request.Context())
	})
}

// Get handles GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	HandleGetEnvelope(c, "template", func() (interface{}, error) {
		return h.services.Templates.Get(c.Request.Context(), c.Param("id"))
	})
}

// Create handles POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var input services.TemplateInput
	if !BindJSON(c, &input) {
		return
	}
	HandleMutationEnvelope(c, http.StatusCreated, "template", "Template created", func() (interface{}, error) {
		return h.services.Templates.Create(c.Request.Context(), input, GetUserFromContext(c))
	})
}

// Update handles PUT /api/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	var input services.TemplateInput
	if !BindJSON(c, &input) {
		return
	}
	HandleMutationEnvelope(c, http.StatusOK, "template", "Template updated", func() (interface{}, error) {
		return h.services.Templates.Update(c.Request.Context(), c.Param("id"), input, GetUserFromContext(c))
	})
}

// Delete handles DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	HandleDeleteEnvelope(c, "Template deleted", func() error {
		return h.services.Templates.Delete(c.Request.Context(), c.Param("id"), GetUserFromContext(c))
	})
}

// Export handles GET /api/templates/:id/export
func (h *TemplateHandler) Export(c *gin.Context) {
	HandleGetEnvelope(c, "export", func() (interface{}, error) {
		return h.services.Templates.Export(c.Request.Context(), c.Param("id"))
	})
}

// ExportAll handles GET /api/templates/export with an optional
// comma-separated ids filter
func (h *TemplateHandler) ExportAll(c *gin.Context) {
	HandleGetEnvelope(c, "exports", func() (interface{}, error) {
		idsParam := strings.TrimSpace(c.Query("ids"))
		if idsParam == "" {
			return h.services.Templates.ExportAll(c.Request.Context())
		}

		exports := []interface{}{}
		for _, id := range strings.Split(idsParam, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			export, err := h.services.Templates.Export(c.Request.Context(), id)
			if err != nil {
				return nil, err
			}
			exports = append(exports, export)
		}
		return exports, nil
	})
}

type renderRequest struct {
	TemplateIDs []string               `json:"template_ids" binding:"required,min=1"`
	Role        string                 `json:"role" binding:"required"`
	CustomerID  string                 `json:"customer_id"`
	Language    string                 `json:"language"`
	FieldValues map[string]interface{} `json:"field_values"`
}

// Render handles POST /api/templates/render
func (h *TemplateHandler) Render(c *gin.Context) {
	var req renderRequest
	if !BindJSON(c, &req) {
		return
	}
	if !constants.IsValidUserRole(req.Role) {
		RespondAppError(c, errors.NewValidationError("role", "must be anmelder, klient or admin"))
		return
	}

	HandleGetEnvelope(c, "templates", func() (interface{}, error) {
		return h.services.Render.RenderTemplates(c.Request.Context(), req.TemplateIDs, services.RenderContext{
			Role:        constants.UserRole(req.Role),
			CustomerID:  req.CustomerID,
			Language:    req.Language,
			FieldValues: req.FieldValues,
		})
	})
}

type simulateRequest struct {
	Role        string                 `json:"role" binding:"required"`
	CustomerID  string                 `json:"customer_id"`
	FieldValues map[string]interface{} `json:"field_values"`
}

// Simulate handles POST /api/templates/:id/simulate
func (h *TemplateHandler) Simulate(c *gin.Context) {
	var req simulateRequest
	if !BindJSON(c, &req) {
		return
	}
	if !constants.IsValidUserRole(req.Role) {
		RespondAppError(c, errors.NewValidationError("role", "must be anmelder, klient or admin"))
		return
	}

	HandleGetEnvelope(c, "steps", func() (interface{}, error) {
		return h.services.Render.Simulate(c.Request.Context(), c.Param("id"), services.RenderContext{
			Role:        constants.UserRole(req.Role),
			CustomerID:  req.CustomerID,
			FieldValues: req.FieldValues,
		})
	})
}
