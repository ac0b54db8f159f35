package models

import (
	"strings"

	"assettracker/pkg/metadata"
)

// AssetRecord is one asset as held in the workspace. Fields are keyed by the column
// headers of the category schema, so two categories rarely share a field name.
type AssetRecord struct {
	ID       string            `json:"id"`
	Category metadata.Category `json:"category"`
	Fields   map[string]string `json:"fields"`
}

func NewAssetRecord(id string, category metadata.Category, fields map[string]string) AssetRecord {
	if fields == nil {
		fields = map[string]string{}
	}
	return AssetRecord{ID: id, Category: category, Fields: fields}
}

// Get returns the trimmed value of a field, "" when absent.
func (a AssetRecord) Get(field string) string {
	return strings.TrimSpace(a.Fields[field])
}

func (a *AssetRecord) Set(field, value string) {
	if a.Fields == nil {
		a.Fields = map[string]string{}
	}
	a.Fields[field] = value
}

// Clone returns a deep copy; the field map is never shared.
func (a AssetRecord) Clone() AssetRecord {
	fields := make(map[string]string, len(a.Fields))
	for k, v := range a.Fields {
		fields[k] = v
	}
	return AssetRecord{ID: a.ID, Category: a.Category, Fields: fields}
}

func CloneRecords(records []AssetRecord) []AssetRecord {
	if records == nil {
		return nil
	}
	out := make([]AssetRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
