package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
)

// Column is one column of a live table as reported by information_schema.
type Column struct {
	Name string `db:"column_name" json:"name"`
	Type string `db:"data_type" json:"type"`
}

// IsInteger reports whether the column holds integer values.
func (c Column) IsInteger() bool {
	switch strings.ToLower(c.Type) {
	case "integer", "bigint", "smallint":
		return true
	default:
		return false
	}
}

// ListColumns returns the columns of table in the current schema, in ordinal order.
func ListColumns(ctx context.Context, db *goqu.Database, table string) ([]Column, error) {
	var columns []Column

	err := db.From(goqu.S("information_schema").Table("columns")).
		Select("column_name", "data_type").
		Where(
			goqu.Ex{"table_name": table},
			goqu.L("table_schema = current_schema()"),
		).
		Order(goqu.C("ordinal_position").Asc()).
		ScanStructsContext(ctx, &columns)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", table, err)
	}

	return columns, nil
}

func ColumnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}
