package category

import (
	"fmt"

	"assettracker/pkg/metadata"
)

// Registry holds the sheet definitions of the inventory workbook.
type Registry struct {
	schemas []Schema
	bySheet map[string]Schema
	byKey   map[metadata.Category]Schema
}

func NewRegistry(schemas ...Schema) (*Registry, error) {
	r := &Registry{
		bySheet: make(map[string]Schema, len(schemas)),
		byKey:   make(map[metadata.Category]Schema, len(schemas)),
	}

	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.bySheet[s.SheetName]; exists {
			return nil, fmt.Errorf("duplicate sheet %q", s.SheetName)
		}
		if _, exists := r.byKey[s.Key]; exists {
			return nil, fmt.Errorf("duplicate category %q", s.Key)
		}
		r.schemas = append(r.schemas, s)
		r.bySheet[s.SheetName] = s
		r.byKey[s.Key] = s
	}

	return r, nil
}

// DefaultRegistry returns the five sheets of the inventory workbook.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultSchemas()...)
	if err != nil {
		panic(err)
	}
	return r
}

// BySheet matches the exact sheet name.
func (r *Registry) BySheet(name string) (Schema, bool) {
	s, ok := r.bySheet[name]
	return s, ok
}

func (r *Registry) ByCategory(c metadata.Category) (Schema, bool) {
	s, ok := r.byKey[c]
	return s, ok
}

// All returns the schemas in whitelist order.
func (r *Registry) All() []Schema {
	out := make([]Schema, 0, len(r.schemas))
	for _, c := range metadata.Categories {
		if s, ok := r.byKey[c]; ok {
			out = append(out, s)
		}
	}
	return out
}

func DefaultSchemas() []Schema {
	return []Schema{
		{
			SheetName:   "LAPTOP & DESKTOP",
			Key:         metadata.CategoryLaptops,
			DisplayName: "Laptops & Desktops",
			Columns: []string{
				"Serial No.", "Location", "Assets Code", "IP Address", "Assets Tag/No.", "laptop/PC",
				"Make", "Model", "Serial No", "Ram ", "HDD", "SSD", "Processor", "OS", "Office",
				"Anti Virus", "Keyboard Mouse", "User Name", "Deptt", "Status",
			},
			KeyFields:      []string{"Assets Tag/No.", "Serial No"},
			UserColumn:     "User Name",
			DeptColumn:     "Deptt",
			StatusColumn:   "Status",
			LocationColumn: "Location",
		},
		{
			SheetName:           "TFT & MONITERS",
			Key:                 metadata.CategoryMonitors,
			DisplayName:         "TFT & Monitors",
			Columns:             []string{"S.NO", "LOCATION", "USERS", "ASSETS TAG", "ASSETS", "MAKE", "MODEL", "SERIAL NO."},
			KeyFields:           []string{"ASSETS TAG", "SERIAL NO."},
			UserColumn:          "USERS",
			LocationColumn:      "LOCATION",
			HasHeaderInFirstRow: true,
		},
		{
			SheetName:           "Printers & Scanners,PhotoState",
			Key:                 metadata.CategoryPrinters,
			DisplayName:         "Printers & Scanners",
			Columns:             []string{"S.NO.", "location", "ASSETS CODE", "IP Address", "Assets Tag/No.", "ASSETS", "MAKE", "MODEL", "SERIAL NUMBER"},
			KeyFields:           []string{"Assets Tag/No.", "SERIAL NUMBER"},
			LocationColumn:      "location",
			HasHeaderInFirstRow: true,
		},
		{
			SheetName:      "Camera",
			Key:            metadata.CategoryCameras,
			DisplayName:    "Cameras",
			Columns:        []string{"Company Name", "Location ", "IP", "No. Of CCTV", "Recording "},
			KeyFields:      []string{"IP"},
			LocationColumn: "Location ",
		},
		{
			SheetName:           "wifi",
			Key:                 metadata.CategoryWifi,
			DisplayName:         "WiFi Devices",
			Columns:             []string{"Device Name", "IP"},
			KeyFields:           []string{"IP"},
			HasHeaderInFirstRow: true,
		},
	}
}
