package category

import (
	"fmt"

	"assettracker/pkg/metadata"
)

// Schema describes how one workbook sheet maps onto an asset category.
type Schema struct {
	SheetName           string            `json:"sheetName"`
	Key                 metadata.Category `json:"key"`
	DisplayName         string            `json:"displayName"`
	Columns             []string          `json:"columns"`
	KeyFields           []string          `json:"keyFields"`
	UserColumn          string            `json:"userColumn,omitempty"`
	DeptColumn          string            `json:"deptColumn,omitempty"`
	StatusColumn        string            `json:"statusColumn,omitempty"`
	LocationColumn      string            `json:"locationColumn,omitempty"`
	HasHeaderInFirstRow bool              `json:"hasHeaderInFirstRow"`
}

// DefaultStatusField is written when a category has no status column of its own.
const DefaultStatusField = "status"

// Validate checks that every key, user, dept, status and location column is a declared column.
func (s Schema) Validate() error {
	if !s.Key.IsValid() {
		return fmt.Errorf("sheet %q: unknown category %q", s.SheetName, s.Key)
	}
	if len(s.KeyFields) == 0 {
		return fmt.Errorf("sheet %q: no key fields", s.SheetName)
	}

	for _, field := range s.KeyFields {
		if !s.HasColumn(field) {
			return fmt.Errorf("sheet %q: key field %q is not a column", s.SheetName, field)
		}
	}

	for _, field := range []string{s.UserColumn, s.DeptColumn, s.StatusColumn, s.LocationColumn} {
		if field != "" && !s.HasColumn(field) {
			return fmt.Errorf("sheet %q: column %q is not declared", s.SheetName, field)
		}
	}

	return nil
}

func (s Schema) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (s Schema) IsKeyField(name string) bool {
	for _, k := range s.KeyFields {
		if k == name {
			return true
		}
	}
	return false
}

// StatusField is the field holding the asset status.
func (s Schema) StatusField() string {
	if s.StatusColumn != "" {
		return s.StatusColumn
	}
	return DefaultStatusField
}
