// internal/interfaces/http/handlers/audit.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pharmacy-dashboard/internal/domain/audit"
)

// AuditHandler handles the activity trail endpoints
type AuditHandler struct {
	auditService *audit.Service
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *audit.Service) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// GetAuditLog handles GET /audit
func (h *AuditHandler) GetAuditLog(c *gin.Context) {
	var req audit.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	entries, total, err := h.auditService.List(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve audit log",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Audit log retrieved successfully",
		"data":    entries,
		"total":   total,
	})
}
