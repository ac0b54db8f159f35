package workspace

import (
	"net/http"
	"path/filepath"
	"strings"

	"assettracker/internal/inventory/importer"
	"assettracker/internal/inventory/store"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type googleImportRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" binding:"required"`
}

func (h *WorkspaceHandler) ImportWorkbook(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing workbook file", "details": err.Error()})
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .xlsx workbooks can be imported"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to open workbook", "details": err.Error()})
		return
	}
	defer file.Close()

	sheets, err := importer.ReadExcel(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read workbook", "details": err.Error()})
		return
	}

	h.respondImport(c, header.Filename, sheets)
}

func (h *WorkspaceHandler) ImportGoogleSheet(c *gin.Context) {
	if h.sheets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Sheets import is not configured"})
		return
	}

	var req googleImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	title, sheets, err := h.sheets.ReadWorkbook(c.Request.Context(), req.SpreadsheetID)
	if err != nil {
		h.logger.Error("failed to read google spreadsheet", zap.String("spreadsheet_id", req.SpreadsheetID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unable to read spreadsheet", "details": err.Error()})
		return
	}

	h.respondImport(c, title, sheets)
}

func (h *WorkspaceHandler) respondImport(c *gin.Context, fileName string, sheets []importer.Sheet) {
	report := h.store.ApplyImport(fileName, sheets)

	h.logger.Info("import applied",
		zap.String("file", fileName),
		zap.String("username", security.GetUsername(c)),
		zap.Int("total", report.Totals.TotalImported),
	)
	h.events.CreateImportLogEntry(c.Request.Context(), report, security.GetUsername(c))
	c.JSON(http.StatusOK, report)
}

func (h *WorkspaceHandler) GetImportHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.ImportHistory())
}

func (h *WorkspaceHandler) RollbackLastImport(c *gin.Context) {
	h.respondImportEntry(c, "rollback_import", "rolled back", h.store.RollbackLastImport)
}

func (h *WorkspaceHandler) RollbackImport(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.respondImportEntry(c, "rollback_import", "rolled back", func() (store.ImportSummary, error) {
		return h.store.RollbackImport(index)
	})
}

func (h *WorkspaceHandler) RestoreImport(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.respondImportEntry(c, "restore_import", "restored", func() (store.ImportSummary, error) {
		return h.store.RestoreImport(index)
	})
}

func (h *WorkspaceHandler) respondImportEntry(c *gin.Context, action, verb string, fn func() (store.ImportSummary, error)) {
	entry, err := fn()
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Import from " + entry.FileName + " has been " + verb
	h.events.CreateWorkspaceLogEntry(c.Request.Context(), action, security.GetUsername(c), message)
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"import":  entry,
	})
}

func (h *WorkspaceHandler) GetChangeHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.ChangeHistory())
}

func (h *WorkspaceHandler) UndoLastChange(c *gin.Context) {
	h.respondChangeEntry(c, "Undo successful", h.store.UndoLastChange)
}

func (h *WorkspaceHandler) UndoChange(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.respondChangeEntry(c, "Undo successful", func() (store.ChangeSummary, error) {
		return h.store.UndoChange(index)
	})
}

func (h *WorkspaceHandler) RestoreChange(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.respondChangeEntry(c, "Restored state before", func() (store.ChangeSummary, error) {
		return h.store.RestoreChange(index)
	})
}

func (h *WorkspaceHandler) respondChangeEntry(c *gin.Context, prefix string, fn func() (store.ChangeSummary, error)) {
	entry, err := fn()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": prefix + ": " + entry.Action,
		"change":  entry,
	})
}
