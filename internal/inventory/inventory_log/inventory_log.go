package inventorylog

import (
	"context"

	"assettracker/internal/inventory/importer"
	"assettracker/pkg/auditlog"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"
)

// WorkspaceResource is the audit resource type of workspace-wide events. The
// workspace is a singleton so its resource id is always 0.
const WorkspaceResource = "workspace"

type assetRef struct {
	table string
	id    int64
}

func (r assetRef) CreateLogView() models.AuditLog {
	return models.AuditLog{ResourceID: r.id, ResourceType: r.table}
}

type workspaceRef struct{}

func (workspaceRef) CreateLogView() models.AuditLog {
	return models.AuditLog{ResourceType: WorkspaceResource}
}

// InventoryLog writes inventory events to the audit log. A nil InventoryLog does nothing.
type InventoryLog struct {
	a *auditlog.Auditlog
}

func NewInventoryLog(a *auditlog.Auditlog) *InventoryLog {
	return &InventoryLog{a: a}
}

func (s *InventoryLog) CreateAssetAuditLogEntry(ctx context.Context, action string, c metadata.Category, id int64, username string, fields map[string]interface{}) {
	if s == nil {
		return
	}
	s.a.Log(
		ctx,
		action,
		map[string]interface{}{
			"asset_type": c.String(),
			"asset_id":   id,
			"username":   username,
			"fields":     fields,
		},
		assetRef{table: c.TableName(), id: id},
	)
}

func (s *InventoryLog) CreateImportLogEntry(ctx context.Context, report importer.Report, username string) {
	if s == nil {
		return
	}

	sheets := make([]map[string]interface{}, 0, len(report.Sheets))
	for _, sheet := range report.Sheets {
		sheets = append(sheets, map[string]interface{}{
			"sheet":    sheet.SheetName,
			"category": sheet.Category,
			"status":   sheet.Status,
			"records":  sheet.RecordCount,
		})
	}

	s.a.Log(
		ctx,
		"import",
		map[string]interface{}{
			"file":     report.FileName,
			"username": username,
			"totals":   report.Totals,
			"sheets":   sheets,
		},
		workspaceRef{},
	)
}

// CreateWorkspaceLogEntry records a history operation or a clear.
func (s *InventoryLog) CreateWorkspaceLogEntry(ctx context.Context, action, username, msg string) {
	if s == nil {
		return
	}
	s.a.Log(
		ctx,
		action,
		map[string]interface{}{
			"username": username,
			"msg":      msg,
		},
		workspaceRef{},
	)
}
