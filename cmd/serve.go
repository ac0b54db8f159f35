package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"assettracker/internal/core/container"
	"assettracker/internal/core/routes"
	"assettracker/internal/database"
	"assettracker/internal/middleware"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrate, _ := cmd.Flags().GetBool("migrate")
			return serve(cmd.Context(), a, migrate)
		},
	}
	serveCmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")

	return serveCmd
}

func serve(ctx context.Context, a *app, migrate bool) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if err := security.SetSecret(a.cfg.JWTSecret); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrate {
		if err := database.RunMigrations(a.cfg.DSN(), a.cfg.MigrationsDir, a.logger); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	db, err := database.NewPostgresConnection(ctx, a.cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	a.logger.Info("Connected to the database successfully")

	c, err := container.NewAppContainer(ctx, db, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to write workspace snapshot", zap.Error(err))
		}
	}()

	middleware.SetVersion(a.cfg.Version)
	middleware.SetOffline(c.Store.Offline())
	a.logger.Info("workspace ready", zap.String("source", string(c.LoadSource)), zap.Bool("offline", c.Store.Offline()))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		middleware.RequestLogger(a.logger),
		middleware.RecoveryMiddleware(a.logger),
		middleware.TimeoutMiddleware(a.cfg.RequestTimeout),
	)

	routes.RegisterUtilityRoutes(router, a.logger)
	routes.RegisterPublicRoutes(router, c)
	routes.RegisterProtectedRoutes(router, c)

	server := &http.Server{
		Addr:              a.cfg.AppHost,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", zap.String("addr", a.cfg.AppHost))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
