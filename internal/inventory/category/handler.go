package category

import (
	"net/http"

	"assettracker/pkg/metadata"
	"assettracker/pkg/roles"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	registry *Registry
}

func NewCategoryHandler(r *Registry) *CategoryHandler {
	return &CategoryHandler{registry: r}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", security.Authorize(roles.ViewAll), h.GetCategories)
	router.GET("/categories/:category", security.Authorize(roles.ViewAll), h.GetCategory)
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.All())
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	key, err := metadata.NewCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category", "details": err.Error()})
		return
	}

	schema, ok := h.registry.ByCategory(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not configured"})
		return
	}

	c.JSON(http.StatusOK, schema)
}
