package workspace

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"assettracker/internal/inventory/assignments"
	"assettracker/internal/inventory/importer"
	inventorylog "assettracker/internal/inventory/inventory_log"
	"assettracker/internal/inventory/store"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/roles"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Assigner persists an assignment in the database.
type Assigner interface {
	Assign(ctx context.Context, req assignments.AssignRequest) (*assignments.AssignResult, error)
}

// WorkbookSource reads a remote spreadsheet, such as a Google Sheet.
type WorkbookSource interface {
	ReadWorkbook(ctx context.Context, spreadsheetID string) (string, []importer.Sheet, error)
}

type WorkspaceHandler struct {
	store    *store.Store
	assigner Assigner
	sheets   WorkbookSource
	events   *inventorylog.InventoryLog
	logger   *zap.Logger
}

// NewWorkspaceHandler wires the workspace routes. assigner and sheets may be nil.
func NewWorkspaceHandler(s *store.Store, assigner Assigner, sheets WorkbookSource, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		store:    s,
		assigner: assigner,
		sheets:   sheets,
		logger:   logger,
	}
}

// WithInventoryLog records imports, import history operations and clears in the audit log.
func (h *WorkspaceHandler) WithInventoryLog(events *inventorylog.InventoryLog) *WorkspaceHandler {
	h.events = events
	return h
}

func (h *WorkspaceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/imports", security.Authorize(roles.ImportExport), h.ImportWorkbook)
	router.POST("/imports/google", security.Authorize(roles.ImportExport), h.ImportGoogleSheet)
	router.GET("/imports", security.Authorize(roles.ViewAll), h.GetImportHistory)
	router.POST("/imports/rollback", security.Authorize(roles.ImportExport), h.RollbackLastImport)
	router.POST("/imports/:index/rollback", security.Authorize(roles.ImportExport), h.RollbackImport)
	router.POST("/imports/:index/restore", security.Authorize(roles.ImportExport), h.RestoreImport)

	router.GET("/changes", security.Authorize(roles.ViewAll), h.GetChangeHistory)
	router.POST("/changes/undo", security.Authorize(roles.ManageAssets), h.UndoLastChange)
	router.POST("/changes/:index/undo", security.Authorize(roles.ManageAssets), h.UndoChange)
	router.POST("/changes/:index/restore", security.Authorize(roles.ManageAssets), h.RestoreChange)

	ws := router.Group("/workspace")
	ws.GET("/assets/:category", security.Authorize(roles.ViewAll), h.GetAssets)
	ws.POST("/assets/:category", security.Authorize(roles.ManageAssets), h.AddAsset)
	ws.PATCH("/assets/:category/:id", security.Authorize(roles.ManageAssets), h.EditAsset)
	ws.DELETE("/assets/:category/:id", security.Authorize(roles.ManageAssets), h.DeleteAsset)
	ws.PATCH("/assets/:category/:id/status", security.Authorize(roles.ChangeStatus), h.ChangeStatus)
	ws.POST("/assets/:category/:id/unassign", security.Authorize(roles.AssignUnassign), h.UnassignAsset)

	ws.GET("/assignments", security.Authorize(roles.ViewAll), h.GetAssignments)
	ws.POST("/assignments", security.Authorize(roles.AssignUnassign), h.AssignAsset)

	ws.GET("/employees", security.Authorize(roles.ViewAll), h.GetEmployees)
	ws.POST("/employees", security.Authorize(roles.ManageEmployees), h.AddEmployee)
	ws.PATCH("/employees/:id", security.Authorize(roles.ManageEmployees), h.EditEmployee)
	ws.DELETE("/employees/:id", security.Authorize(roles.ManageEmployees), h.DeleteEmployee)
	ws.POST("/employees/sync", security.Authorize(roles.ManageEmployees), h.SyncEmployees)

	ws.GET("/stats", security.Authorize(roles.ViewAll), h.GetStats)
	ws.DELETE("", security.Authorize(roles.ManageWorkspace), h.ClearWorkspace)

	router.GET("/export.xlsx", security.Authorize(roles.ImportExport), h.ExportWorkbook)
}

func (h *WorkspaceHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":   h.store.Stats(),
		"offline": h.store.Offline(),
	})
}

func (h *WorkspaceHandler) ClearWorkspace(c *gin.Context) {
	if err := h.store.Clear(); err != nil {
		h.logger.Error("failed to clear workspace", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear workspace", "details": err.Error()})
		return
	}

	h.logger.Info("workspace cleared", zap.String("username", security.GetUsername(c)))
	h.events.CreateWorkspaceLogEntry(c.Request.Context(), "clear", security.GetUsername(c), "All data has been cleared")
	c.JSON(http.StatusOK, gin.H{"message": "All data has been cleared successfully"})
}

func categoryParam(c *gin.Context) (metadata.Category, bool) {
	cat, err := metadata.NewCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category", "details": err.Error()})
		return "", false
	}
	return cat, true
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid history index", "details": err.Error()})
		return 0, false
	}
	return index, true
}

// respondError maps store failures onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var invalid *custom_error.InvalidCategoryError

	switch {
	case errors.Is(err, custom_error.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "details": err.Error()})
	case errors.Is(err, custom_error.ErrHistoryEmpty):
		c.JSON(http.StatusNotFound, gin.H{"error": "Nothing to restore", "details": err.Error()})
	case errors.Is(err, custom_error.ErrHistoryIndex):
		c.JSON(http.StatusNotFound, gin.H{"error": "No such history entry", "details": err.Error()})
	case errors.Is(err, custom_error.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in the required fields", "details": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Workspace operation failed", "details": err.Error()})
	}
}
