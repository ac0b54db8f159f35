package workspace

import (
	"net/http"
	"time"

	"assettracker/internal/inventory/assignments"
	"assettracker/pkg/metadata"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type assignRequest struct {
	AssetType      string `json:"asset_type" binding:"required"`
	AssetID        string `json:"asset_id" binding:"required"`
	EmployeeID     string `json:"employee_id" binding:"required"`
	AssignmentDate string `json:"assignment_date"`
	Notes          string `json:"notes"`
}

type employeeRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Source     string `json:"source"`
}

func (h *WorkspaceHandler) GetAssets(c *gin.Context) {
	cat, ok := categoryParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.store.Assets(cat))
}

func (h *WorkspaceHandler) AddAsset(c *gin.Context) {
	cat, ok := categoryParam(c)
	if !ok {
		return
	}

	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	record, err := h.store.AddAsset(cat, fields)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *WorkspaceHandler) EditAsset(c *gin.Context) {
	cat, ok := categoryParam(c)
	if !ok {
		return
	}

	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	record, err := h.store.EditAsset(cat, c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *WorkspaceHandler) DeleteAsset(c *gin.Context) {
	cat, ok := categoryParam(c)
	if !ok {
		return
	}

	if err := h.store.DeleteAsset(cat, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

func (h *WorkspaceHandler) ChangeStatus(c *gin.Context) {
	cat, ok := categoryParam(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	if _, err := metadata.NewStatus(req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status", "details": err.Error()})
		return
	}

	record, err := h.store.ChangeStatus(cat, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *WorkspaceHandler) UnassignAsset(c *gin.Context) {
	cat, ok := categoryParam(c)
	if !ok {
		return
	}

	record, err := h.store.Unassign(cat, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *WorkspaceHandler) GetAssignments(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Assignments())
}

// AssignAsset records the assignment in the workspace first and then in the
// database. A failed database write keeps the local assignment and is reported
// with persisted set to false.
func (h *WorkspaceHandler) AssignAsset(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select both an asset and an employee", "details": err.Error()})
		return
	}

	cat, err := metadata.NewCategory(req.AssetType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset_type", "details": err.Error()})
		return
	}

	date, err := parseAssignmentDate(req.AssignmentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment_date", "details": err.Error()})
		return
	}

	assignment, err := h.store.Assign(cat, req.AssetID, req.EmployeeID, date, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"assignment": assignment, "persisted": false}
	if h.assigner == nil {
		body["warning"] = "Assignment saved locally. Server persistence is not configured."
		c.JSON(http.StatusOK, body)
		return
	}

	result, err := h.assigner.Assign(c.Request.Context(), assignments.AssignRequest{
		AssetType:  cat.String(),
		AssetID:    req.AssetID,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		h.logger.Warn("assignment not persisted to server, kept locally",
			zap.String("asset_type", cat.String()),
			zap.String("asset_id", req.AssetID),
			zap.String("username", security.GetUsername(c)),
			zap.Error(err),
		)
		body["warning"] = "Assignment saved locally. Server persistence failed."
		body["details"] = err.Error()
		if result != nil {
			body["state"] = result.State
		}
		c.JSON(http.StatusOK, body)
		return
	}

	body["persisted"] = true
	body["server"] = result
	c.JSON(http.StatusOK, body)
}

// parseAssignmentDate accepts a plain date or an RFC 3339 timestamp. Empty means now.
func parseAssignmentDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (h *WorkspaceHandler) GetEmployees(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Employees())
}

func (h *WorkspaceHandler) AddEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	employee, err := h.store.AddEmployee(req.Name, req.Department, req.Source)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, employee)
}

func (h *WorkspaceHandler) EditEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	employee, err := h.store.EditEmployee(c.Param("id"), req.Name, req.Department)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *WorkspaceHandler) DeleteEmployee(c *gin.Context) {
	if err := h.store.DeleteEmployee(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

func (h *WorkspaceHandler) SyncEmployees(c *gin.Context) {
	added, err := h.store.SyncEmployeesFromAssets()
	if err != nil {
		respondError(c, err)
		return
	}

	message := "No new employees found in asset data"
	if added > 0 {
		message = "New employees extracted from assets"
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "message": message})
}
