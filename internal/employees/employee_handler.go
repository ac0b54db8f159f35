package employees

import (
	"net/http"
	"strings"

	"assettracker/pkg/models"
	"assettracker/pkg/roles"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Mirror receives employees persisted through the API.
type Mirror interface {
	MirrorEmployee(employee models.Employee)
}

type EmployeeHandler struct {
	repository EmployeeRepository
	mirror     Mirror
	logger     *zap.Logger
}

func NewEmployeeHandler(r EmployeeRepository, mirror Mirror, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{repository: r, mirror: mirror, logger: logger}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/employees", security.Authorize(roles.ViewAll), h.GetEmployees)
	router.POST("/employees", security.Authorize(roles.ManageEmployees), h.CreateEmployee)
}

func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	employees, err := h.repository.GetEmployees(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to fetch employees", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of employees", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Employee name is required"})
		return
	}

	employee, err := h.repository.PersistEmployee(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to create employee", zap.String("name", req.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee", "details": err.Error()})
		return
	}

	if h.mirror != nil {
		h.mirror.MirrorEmployee(*employee)
	}

	c.JSON(http.StatusCreated, employee)
}
