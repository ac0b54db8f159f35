package assignments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assettracker/internal/inventory/resolver"
	"assettracker/internal/repository"
	"assettracker/pkg/auditlog"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// State is the position of an assignment request in its lifecycle.
type State string

const (
	StateReceived         State = "received"
	StateValidated        State = "validated"
	StateCategoryRejected State = "category_rejected"
	StateResolving        State = "resolving"
	StateUnresolved       State = "unresolved"
	StateResolved         State = "resolved"
	StateCommitting       State = "committing"
	StateCommitted        State = "committed"
	StateRolledBack       State = "rolled_back"
)

type AssignRequest struct {
	AssetType  string `json:"asset_type"`
	AssetID    string `json:"asset_id"`
	EmployeeID string `json:"employee_id"`
}

type AssignResult struct {
	AssignmentID int64               `json:"assignment_id,omitempty"`
	Resolution   resolver.Resolution `json:"resolution"`
	State        State               `json:"state"`
	Note         string              `json:"note,omitempty"`
}

func (r *AssignResult) CreateLogView() models.AuditLog {
	return models.AuditLog{
		ResourceID:   r.AssignmentID,
		ResourceType: "assignment",
	}
}

// ConnProvider hands out a connection reserved for one request.
type ConnProvider interface {
	Conn(ctx context.Context) (*goqu.Database, func() error, error)
}

type AssignmentService struct {
	conns    ConnProvider
	resolver *resolver.Resolver
	audit    *auditlog.Auditlog
	logger   *zap.Logger
}

func NewAssignmentService(conns ConnProvider, r *resolver.Resolver, audit *auditlog.Auditlog, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		conns:    conns,
		resolver: r,
		audit:    audit,
		logger:   logger,
	}
}

// Assign resolves the asset identifier and, in one transaction, records the
// assignment and marks the asset Assigned. The result is never nil and its State
// tells where the request stopped.
func (s *AssignmentService) Assign(ctx context.Context, req AssignRequest) (*AssignResult, error) {
	result := &AssignResult{State: StateReceived}

	req.AssetType = strings.TrimSpace(req.AssetType)
	req.AssetID = strings.TrimSpace(req.AssetID)
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.AssetType == "" || req.AssetID == "" || req.EmployeeID == "" {
		return result, custom_error.ErrMissingFields
	}

	category, err := metadata.NewCategory(req.AssetType)
	if err != nil {
		result.State = StateCategoryRejected
		return result, &custom_error.InvalidCategoryError{Value: req.AssetType}
	}
	result.State = StateValidated

	db, release, err := s.conns.Conn(ctx)
	if err != nil {
		return result, err
	}
	defer func() {
		if cerr := release(); cerr != nil {
			s.logger.Warn("failed to release connection", zap.Error(cerr))
		}
	}()

	result.State = StateResolving
	resolution, err := s.resolver.Resolve(ctx, resolver.NewPostgresCatalog(db), category.String(), req.AssetID)
	if err != nil {
		var invalid *custom_error.InvalidCategoryError
		if errors.As(err, &invalid) {
			result.State = StateCategoryRejected
		} else {
			result.State = StateUnresolved
		}
		return result, err
	}
	result.Resolution = resolution
	result.State = StateCommitting
	err = repository.WithTransaction(ctx, db, func(tx *goqu.TxDatabase) error {
		var id int64
		_, err := tx.Insert("assignments").
			Rows(goqu.Record{
				"asset_type":  category.TableName(),
				"asset_id":    resolution.Key,
				"employee_id": req.EmployeeID,
			}).
			Returning("id").
			Executor().
			ScanValContext(ctx, &id)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", custom_error.FromPQ(err))
		}

		res, err := tx.Update(category.TableName()).
			Set(goqu.Record{"status": metadata.StatusAssigned.String()}).
			Where(goqu.Ex{"id": resolution.Key}).
			Executor().
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to update asset status: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("asset %d in %s: %w", resolution.Key, category, custom_error.ErrNotFound)
		}

		result.AssignmentID = id
		return nil
	})
	if err != nil {
		result.State = StateRolledBack
		result.AssignmentID = 0
		s.logger.Error("assignment rolled back",
			zap.String("category", category.String()),
			zap.Int64("asset_key", resolution.Key),
			zap.Error(err),
		)
		return result, &custom_error.TransactionError{Op: "assign", Err: err}
	}

	result.State = StateCommitted
	if resolution.Strategy != resolver.StrategyNumeric {
		result.Note = fmt.Sprintf("Mapped provided id using column %s", resolution.Column)
	}

	s.logger.Info("asset assigned",
		zap.String("category", category.String()),
		zap.Int64("asset_key", resolution.Key),
		zap.String("employee_id", req.EmployeeID),
		zap.String("strategy", string(resolution.Strategy)),
	)
	s.audit.Log(ctx, "assign", map[string]interface{}{
		"asset_type":  category.String(),
		"asset_id":    req.AssetID,
		"employee_id": req.EmployeeID,
		"resolution":  resolution,
	}, result)

	return result, nil
}
