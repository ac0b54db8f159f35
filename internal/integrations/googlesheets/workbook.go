package googlesheets

import (
	"context"
	"fmt"
	"strings"

	"assettracker/internal/inventory/importer"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"
)

// WorkbookReader reads every tab of a spreadsheet in the shape the importer expects.
type WorkbookReader struct {
	service *sheets.Service
	logger  *zap.Logger
}

func NewWorkbookReader(service *sheets.Service, logger *zap.Logger) *WorkbookReader {
	return &WorkbookReader{service: service, logger: logger}
}

// ReadWorkbook returns the spreadsheet title and its tabs in order.
func (r *WorkbookReader) ReadWorkbook(ctx context.Context, spreadsheetID string) (string, []importer.Sheet, error) {
	spreadsheet, err := r.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to open spreadsheet: %w", err)
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	ranges := make([]string, 0, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		if s.Properties == nil {
			continue
		}
		titles = append(titles, s.Properties.Title)
		ranges = append(ranges, SheetRange(s.Properties.Title))
	}

	title := spreadsheetID
	if spreadsheet.Properties != nil && spreadsheet.Properties.Title != "" {
		title = spreadsheet.Properties.Title
	}
	if len(ranges) == 0 {
		return title, []importer.Sheet{}, nil
	}

	resp, err := r.service.Spreadsheets.Values.BatchGet(spreadsheetID).Ranges(ranges...).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to read spreadsheet values: %w", err)
	}

	result := make([]importer.Sheet, len(titles))
	for i, name := range titles {
		result[i] = importer.Sheet{Name: name, Rows: [][]string{}}
		if i < len(resp.ValueRanges) && resp.ValueRanges[i] != nil {
			result[i].Rows = ToRows(resp.ValueRanges[i].Values)
		}
	}

	r.logger.Info("read google spreadsheet", zap.String("title", title), zap.Int("sheets", len(result)))
	return title, result, nil
}

// SheetRange quotes a tab title so it can be used as an A1 range.
func SheetRange(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// ToRows converts API cell values to strings.
func ToRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = toString(cell)
		}
		rows[i] = cells
	}
	return rows
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
