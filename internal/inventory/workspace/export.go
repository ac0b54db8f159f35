package workspace

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"assettracker/internal/inventory/category"
	"assettracker/internal/inventory/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	employeesSheet = "Employees"
	defaultSheet   = "Sheet1"
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type exportSheet struct {
	name string
	rows [][]interface{}
}

// WriteWorkbook writes one sheet per non-empty category, named after its display
// name, and an Employees sheet. Synthetic ids are not exported.
func WriteWorkbook(w io.Writer, state store.State, registry *category.Registry) error {
	var sheets []exportSheet

	for _, schema := range registry.All() {
		records := state.Assets[schema.Key]
		if len(records) == 0 {
			continue
		}

		header := append([]string{}, schema.Columns...)
		if !schema.HasColumn(schema.StatusField()) {
			header = append(header, schema.StatusField())
		}

		rows := [][]interface{}{toRow(header)}
		for _, record := range records {
			row := make([]interface{}, len(header))
			for i, column := range header {
				row[i] = record.Fields[column]
			}
			rows = append(rows, row)
		}
		sheets = append(sheets, exportSheet{name: schema.DisplayName, rows: rows})
	}

	employees := [][]interface{}{{"Name", "Department", "Source", "Last Updated"}}
	for _, e := range state.Employees {
		updated := ""
		if !e.LastUpdated.IsZero() {
			updated = e.LastUpdated.Format(time.DateTime)
		}
		employees = append(employees, []interface{}{e.Name, e.Department, e.Source, updated})
	}
	sheets = append(sheets, exportSheet{name: employeesSheet, rows: employees})

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet.name, err)
		}

		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return fmt.Errorf("failed to write sheet %q: %w", sheet.name, err)
			}
		}
	}

	return f.Write(w)
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func (h *WorkspaceHandler) ExportWorkbook(c *gin.Context) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, h.store.State(), h.store.Registry()); err != nil {
		h.logger.Error("failed to export workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export workbook", "details": err.Error()})
		return
	}

	fileName := fmt.Sprintf("IT_Assets_Export_%s.xlsx", time.Now().Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}
