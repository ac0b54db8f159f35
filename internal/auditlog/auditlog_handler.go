package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"assettracker/pkg/models"
	"assettracker/pkg/roles"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
)

type LogReader interface {
	GetResourceLog(ctx context.Context, id int64, resourceType string) ([]models.AuditLog, error)
}

type AuditLogHandler struct {
	logs LogReader
}

func NewHandler(logs LogReader) *AuditLogHandler {
	return &AuditLogHandler{logs: logs}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs/:resource_type/:id", security.Authorize(roles.ManageWorkspace), h.GetResourceLog)
}

func (h *AuditLogHandler) GetResourceLog(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter, must be an integer"})
		return
	}

	logs, err := h.logs.GetResourceLog(c.Request.Context(), id, c.Param("resource_type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit log", "details": err.Error()})
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	c.JSON(http.StatusOK, logs)
}
