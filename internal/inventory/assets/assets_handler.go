package assets

import (
	"context"
	"errors"
	"net/http"

	"assettracker/internal/inventory/category"
	inventorylog "assettracker/internal/inventory/inventory_log"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"
	"assettracker/pkg/roles"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssetStore interface {
	FetchAll(ctx context.Context) (map[metadata.Category][]Row, error)
	Insert(ctx context.Context, c metadata.Category, payload map[string]interface{}) (*InsertResult, error)
}

// Mirror receives assets persisted through the API so the workspace stays in step.
type Mirror interface {
	MirrorAsset(record models.AssetRecord)
}

type AssetHandler struct {
	assets   AssetStore
	registry *category.Registry
	mirror   Mirror
	events   *inventorylog.InventoryLog
	logger   *zap.Logger
}

func NewAssetHandler(assets AssetStore, registry *category.Registry, mirror Mirror, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{
		assets:   assets,
		registry: registry,
		mirror:   mirror,
		logger:   logger,
	}
}

// WithInventoryLog records created assets in the audit log.
func (h *AssetHandler) WithInventoryLog(events *inventorylog.InventoryLog) *AssetHandler {
	h.events = events
	return h
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assets", security.Authorize(roles.ViewAll), h.GetAssets)
	router.POST("/assets", security.Authorize(roles.ManageAssets), h.CreateAsset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	all, err := h.assets.FetchAll(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to fetch assets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, all)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	rawCategory, _ := payload["category"].(string)
	if rawCategory == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing category"})
		return
	}
	delete(payload, "category")

	cat, err := metadata.NewCategory(rawCategory)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category", "details": err.Error()})
		return
	}

	result, err := h.assets.Insert(c.Request.Context(), cat, payload)
	if err != nil {
		var missing *MissingColumnsError
		var unique *custom_error.UniqueViolationError
		switch {
		case errors.As(err, &missing):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing columns in target table", "details": missing.Columns})
		case errors.Is(err, custom_error.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No asset fields provided"})
		case errors.As(err, &unique):
			c.JSON(http.StatusConflict, gin.H{"error": "Asset already exists", "details": err.Error()})
		default:
			h.logger.Error("failed to insert asset", zap.String("category", cat.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create asset", "details": err.Error()})
		}
		return
	}

	if schema, ok := h.registry.ByCategory(cat); ok && h.mirror != nil {
		h.mirror.MirrorAsset(RowToRecord(schema, result.Inserted))
	}
	h.events.CreateAssetAuditLogEntry(c.Request.Context(), "create", cat, rowKey(result.Inserted), security.GetUsername(c), payload)

	body := gin.H{"success": true, "inserted": result.Inserted}
	if len(result.Warnings) > 0 {
		body["warnings"] = result.Warnings
	}
	c.JSON(http.StatusOK, body)
}
