package importer

import (
	"strings"
	"time"

	"assettracker/internal/inventory/category"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"
)

// IDGenerator returns the synthetic id for the row at index of a sheet.
type IDGenerator func(c metadata.Category, index int) string

// TimestampIDs stamps each id with the clock reading taken when it is generated.
func TimestampIDs(now func() time.Time) IDGenerator {
	return func(c metadata.Category, index int) string {
		return metadata.NewRecordID(c, now(), index).String()
	}
}

// ParseRows zips each row positionally onto the schema columns. The sheet's own
// header text is never consulted. Blank rows are dropped before an id is assigned,
// so indexes keep their position in the sheet body.
func ParseRows(rows [][]string, schema category.Schema, ids IDGenerator) []models.AssetRecord {
	if schema.HasHeaderInFirstRow && len(rows) > 0 {
		rows = rows[1:]
	}

	records := make([]models.AssetRecord, 0, len(rows))
	for index, row := range rows {
		if isBlank(row) {
			continue
		}

		fields := make(map[string]string, len(schema.Columns))
		for col, name := range schema.Columns {
			if col < len(row) {
				fields[name] = row[col]
			} else {
				fields[name] = ""
			}
		}

		records = append(records, models.NewAssetRecord(ids(schema.Key, index), schema.Key, fields))
	}

	return records
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
