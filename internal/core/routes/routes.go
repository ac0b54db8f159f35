package routes

import (
	"os"

	"assettracker/internal/core/container"
	"assettracker/internal/middleware"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	container.CategoryHandler.RegisterRoutes(protectedRoutes)
	container.AssetHandler.RegisterRoutes(protectedRoutes)
	container.EmployeeHandler.RegisterRoutes(protectedRoutes)
	container.AssignmentHandler.RegisterRoutes(protectedRoutes)
	container.WorkspaceHandler.RegisterRoutes(protectedRoutes)
	container.UserHandler.RegisterRoutes(protectedRoutes)
	container.AuditLogHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine, logger *zap.Logger) {
	router.GET("/health", middleware.HealthCheckMiddleware())

	openapiFilePath := "./docs/index.html"
	if _, err := os.Stat(openapiFilePath); err == nil {
		router.GET("/openapi.html", func(c *gin.Context) {
			c.File(openapiFilePath)
		})
		logger.Info("Route /openapi.html registered", zap.String("file", openapiFilePath))
	} else {
		logger.Debug("Route /openapi.html not registered", zap.String("file", openapiFilePath))
	}
}
