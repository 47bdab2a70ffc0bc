package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/regelwerk/backend/internal/application/services"
)

// ChangeLogHandler exposes the audit trail
type ChangeLogHandler struct {
	services *services.ServiceManager
}

func NewChangeLogHandler(sm *services.ServiceManager) *ChangeLogHandler {
	return &ChangeLogHandler{services: sm}
}

// List handles GET /api/changelog?limit=&entity_type=
func (h *ChangeLogHandler) List(c *gin.Context) {
	HandleGetEnvelope(c, "entries", func() (interface{}, error) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		return h.services.ChangeLog.List(c.Request.Context(), limit, c.Query("entity_type"))
	})
}

// ListForEntity handles GET /api/changelog/:entityId
func (h *ChangeLogHandler) ListForEntity(c *gin.Context) {
	HandleGetEnvelope(c, "entries", func() (interface{}, error) {
		return h.services.ChangeLog.ListForEntity(c.Request.Context(), c.Param("entityId"))
	})
}
