package assignments

import (
	"errors"
	"net/http"

	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/roles"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	service *AssignmentService
}

func NewAssignmentHandler(s *AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: s}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/assignments", security.Authorize(roles.AssignUnassign), h.AssignAsset)
}

func (h *AssignmentHandler) AssignAsset(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		status, body := errorResponse(err)
		body["state"] = result.State
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"assignment_id": result.AssignmentID,
		"resolution":    result.Resolution,
		"state":         result.State,
		"note":          result.Note,
	})
}

// errorResponse maps assignment failures onto HTTP statuses.
func errorResponse(err error) (int, gin.H) {
	var (
		invalid    *custom_error.InvalidCategoryError
		unresolved *custom_error.UnresolvedIdentifierError
		txErr      *custom_error.TransactionError
	)

	switch {
	case errors.Is(err, custom_error.ErrMissingFields):
		return http.StatusBadRequest, gin.H{"error": "Missing required fields: asset_type, asset_id, employee_id are required"}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, gin.H{"error": "Invalid asset_type", "details": err.Error()}
	case errors.As(err, &unresolved):
		return http.StatusUnprocessableEntity, gin.H{
			"error":   "Could not map asset_id to a database row. Use the numeric id or a stable external identifier.",
			"details": err.Error(),
			"tried":   unresolved.Tried,
		}
	case errors.As(err, &txErr):
		return http.StatusInternalServerError, gin.H{"error": "Assignment failed and was rolled back", "details": err.Error()}
	default:
		return http.StatusInternalServerError, gin.H{"error": "Assignment failed", "details": err.Error()}
	}
}
