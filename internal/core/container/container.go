package container

import (
	"context"
	"database/sql"
	"fmt"

	"assettracker/internal/auditlog"
	"assettracker/internal/core/config"
	"assettracker/internal/employees"
	"assettracker/internal/integrations/googlesheets"
	"assettracker/internal/inventory/assets"
	"assettracker/internal/inventory/assignments"
	"assettracker/internal/inventory/category"
	"assettracker/internal/inventory/importer"
	inventorylog "assettracker/internal/inventory/inventory_log"
	"assettracker/internal/inventory/reconcile"
	"assettracker/internal/inventory/resolver"
	"assettracker/internal/inventory/store"
	"assettracker/internal/inventory/workspace"
	"assettracker/internal/rate_limiter"
	"assettracker/internal/repository"
	"assettracker/internal/users"
	pkgauditlog "assettracker/pkg/auditlog"
	"assettracker/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository  *repository.Repository
	AuditLog    *pkgauditlog.Auditlog
	Registry    *category.Registry
	Store       *store.Store
	LoadSource  store.LoadSource
	Resolver    *resolver.Resolver
	Assignments *assignments.AssignmentService
	RateLimiter *rate_limiter.RateLimiter

	LoginHandler      *security.LoginHandler
	CategoryHandler   *category.CategoryHandler
	AssetHandler      *assets.AssetHandler
	EmployeeHandler   *employees.EmployeeHandler
	AssignmentHandler *assignments.AssignmentHandler
	WorkspaceHandler  *workspace.WorkspaceHandler
	UserHandler       *users.UsersHandler
	AuditLogHandler   *auditlog.AuditLogHandler
}

// NewWorkspace builds the workspace store and its importer. It needs no database.
func NewWorkspace(cfg *config.Config, logger *zap.Logger) (*category.Registry, *store.Store, error) {
	policy, err := reconcile.NewConflictPolicy(cfg.ImportConflictPolicy)
	if err != nil {
		return nil, nil, fmt.Errorf("IMPORT_CONFLICT_POLICY: %w", err)
	}

	registry := category.DefaultRegistry()
	imp := importer.NewImporter(registry, policy, logger)
	s := store.NewStore(registry, imp, store.NewSnapshotFile(cfg.SnapshotPath), logger)

	return registry, s, nil
}

func NewAppContainer(ctx context.Context, db *sql.DB, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	registry, workspaceStore, err := NewWorkspace(cfg, logger)
	if err != nil {
		return nil, err
	}

	repo := repository.NewRepository(db)
	auditLogRepo := auditlog.NewRepository(repo)
	auditLog := pkgauditlog.NewAuditLog(auditLogRepo, logger)
	events := inventorylog.NewInventoryLog(auditLog)
	userRepo := users.NewRepository(repo)
	assetRepo := assets.NewAssetsRepository(repo)
	employeeRepo := employees.NewRepository(repo)

	source := workspaceStore.Load(ctx, assetRepo, employeeRepo)

	assetResolver := resolver.NewResolver(resolver.Options{
		MaxLookups: cfg.Resolver.MaxLookups,
		Timeout:    cfg.Resolver.Timeout,
	}, logger)
	assignmentService := assignments.NewAssignmentService(repo, assetResolver, auditLog, logger)

	var sheets workspace.WorkbookSource
	if cfg.Sheets.Enabled() {
		service, err := googlesheets.NewSheetsService(ctx, cfg.Sheets.CredentialsJSON, cfg.Sheets.CredentialsFile, logger)
		if err != nil {
			logger.Warn("Google Sheets import disabled", zap.Error(err))
		} else {
			sheets = googlesheets.NewWorkbookReader(service, logger)
		}
	}

	limiter := rate_limiter.NewRateLimiter(cfg.Login.RateLimit, cfg.Login.RateWindow)

	return &Container{
		Repository:  repo,
		AuditLog:    auditLog,
		Registry:    registry,
		Store:       workspaceStore,
		LoadSource:  source,
		Resolver:    assetResolver,
		Assignments: assignmentService,
		RateLimiter: limiter,

		LoginHandler:      security.NewLoginHandler(userRepo, limiter, logger),
		CategoryHandler:   category.NewCategoryHandler(registry),
		AssetHandler:      assets.NewAssetHandler(assetRepo, registry, workspaceStore, logger).WithInventoryLog(events),
		EmployeeHandler:   employees.NewEmployeeHandler(employeeRepo, workspaceStore, logger),
		AssignmentHandler: assignments.NewAssignmentHandler(assignmentService),
		WorkspaceHandler:  workspace.NewWorkspaceHandler(workspaceStore, assignmentService, sheets, logger).WithInventoryLog(events),
		UserHandler:       users.NewHandler(userRepo, logger),
		AuditLogHandler:   auditlog.NewHandler(auditLogRepo),
	}, nil
}

// Close flushes the workspace snapshot and stops background workers.
func (c *Container) Close() error {
	c.RateLimiter.Close()
	return c.Store.Close()
}
