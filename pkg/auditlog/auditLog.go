package auditlog

import (
	"context"

	"assettracker/pkg/models"

	"go.uber.org/zap"
)

type Persister interface {
	PersistLog(ctx context.Context, auditlog models.AuditLog, data interface{}) error
}

type Auditlog struct {
	r      Persister
	logger *zap.Logger
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

func NewAuditLog(r Persister, logger *zap.Logger) *Auditlog {
	return &Auditlog{r: r, logger: logger}
}

// Log records an action against item. A failed write is logged and swallowed;
// a nil Auditlog does nothing.
func (a *Auditlog) Log(ctx context.Context, action string, data interface{}, item Auditable) {
	if a == nil {
		return
	}

	auditLog := item.CreateLogView()
	auditLog.Action = action

	if err := a.r.PersistLog(ctx, auditLog, data); err != nil {
		a.logger.Warn("unable to create audit log entry",
			zap.String("resource_type", auditLog.ResourceType),
			zap.Int64("resource_id", auditLog.ResourceID),
			zap.Error(err),
		)
		return
	}

	a.logger.Debug("created audit log entry",
		zap.String("resource_type", auditLog.ResourceType),
		zap.Int64("resource_id", auditLog.ResourceID),
	)
}
