package handlers

import (
	"net/http"

	portssvc "github.com/Fridah34/bank-management-api/internal/core/ports/services"
	"github.com/Fridah34/bank-management-api/internal/dto"
	"github.com/Fridah34/bank-management-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// auditHandler exposes the read side of the audit log.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// registerAuditRoutes registers routes related to the audit log.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := &auditHandler{auditService: auditService}
	rg.GET("/audit", h.listAuditEntries)
}

func (h *auditHandler) listAuditEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.auditService.ListAuditEntries(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list audit entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}
