package importer

import (
	"fmt"
	"strings"
	"time"

	"assettracker/internal/inventory/category"
	"assettracker/internal/inventory/reconcile"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"go.uber.org/zap"
)

type SheetStatus string

const (
	StatusSuccess SheetStatus = "success"
	StatusWarning SheetStatus = "warning"
)

const unknownCategory = "unknown"

type SheetResult struct {
	SheetName    string               `json:"sheetName"`
	Category     string               `json:"category"`
	Status       SheetStatus          `json:"status"`
	Message      string               `json:"message"`
	RecordCount  int                  `json:"recordCount"`
	MergeResults *reconcile.Outcome   `json:"mergeResults,omitempty"`
	Conflicts    []reconcile.Conflict `json:"conflicts,omitempty"`
}

// Report is the outcome of importing one workbook.
type Report struct {
	FileName     string            `json:"fileName"`
	Sheets       []SheetResult     `json:"results"`
	Totals       reconcile.Outcome `json:"totals"`
	RecordCounts map[string]int    `json:"recordCounts"`

	// Collections holds the merged records of every category the workbook touched.
	Collections map[metadata.Category][]models.AssetRecord `json:"-"`
}

type Importer struct {
	registry *category.Registry
	policy   reconcile.ConflictPolicy
	ids      IDGenerator
	logger   *zap.Logger
}

func NewImporter(registry *category.Registry, policy reconcile.ConflictPolicy, logger *zap.Logger) *Importer {
	return &Importer{
		registry: registry,
		policy:   policy,
		ids:      TimestampIDs(time.Now),
		logger:   logger,
	}
}

// WithIDGenerator replaces the id source, mainly for deterministic tests.
func (i *Importer) WithIDGenerator(ids IDGenerator) *Importer {
	i.ids = ids
	return i
}

// Run parses and merges every sheet against existing. existing is not modified;
// the merged collections are returned in the report.
func (i *Importer) Run(fileName string, sheets []Sheet, existing map[metadata.Category][]models.AssetRecord) Report {
	report := Report{
		FileName:     fileName,
		RecordCounts: map[string]int{},
		Collections:  map[metadata.Category][]models.AssetRecord{},
	}

	for _, sheet := range sheets {
		result := i.processSheet(sheet, existing, report.Collections)
		if result.MergeResults != nil {
			report.Totals.Add(*result.MergeResults)
		}
		report.RecordCounts[result.Category] += result.RecordCount
		report.Sheets = append(report.Sheets, result)
	}

	i.logger.Info("workbook imported",
		zap.String("file", fileName),
		zap.Int("sheets", len(sheets)),
		zap.Int("new", report.Totals.NewAssets),
		zap.Int("updated", report.Totals.UpdatedAssets),
		zap.Int("conflicts", report.Totals.Conflicts),
	)

	return report
}

func (i *Importer) processSheet(sheet Sheet, existing, merged map[metadata.Category][]models.AssetRecord) SheetResult {
	schema, ok := i.registry.BySheet(sheet.Name)
	if !ok {
		i.logger.Warn("sheet not recognized", zap.String("sheet", sheet.Name))
		return SheetResult{
			SheetName: sheet.Name,
			Category:  unknownCategory,
			Status:    StatusWarning,
			Message:   fmt.Sprintf("Sheet '%s' not recognized - skipped", sheet.Name),
		}
	}

	records := ParseRows(sheet.Rows, schema, i.ids)
	if len(records) == 0 {
		return SheetResult{
			SheetName: sheet.Name,
			Category:  schema.Key.String(),
			Status:    StatusWarning,
			Message:   fmt.Sprintf("Sheet '%s' is empty", sheet.Name),
		}
	}

	current, touched := merged[schema.Key]
	if !touched {
		current = existing[schema.Key]
	}

	result := reconcile.Merge(current, records, schema, reconcile.Options{Policy: i.policy})
	merged[schema.Key] = result.Merged

	for _, c := range result.Conflicts {
		i.logger.Debug("import conflict",
			zap.String("sheet", sheet.Name),
			zap.String("field", c.Field),
			zap.String("existing", c.ExistingValue),
			zap.String("incoming", c.IncomingValue),
		)
	}

	outcome := result.Outcome
	return SheetResult{
		SheetName: sheet.Name,
		Category:  schema.Key.String(),
		Status:    StatusSuccess,
		Message: fmt.Sprintf("Successfully merged %d %s (%d new, %d updated, %d conflicts)",
			len(records), strings.ToLower(schema.DisplayName),
			outcome.NewAssets, outcome.UpdatedAssets, outcome.Conflicts),
		RecordCount:  len(records),
		MergeResults: &outcome,
		Conflicts:    result.Conflicts,
	}
}
