package store

import (
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"
)

// State is everything the workspace holds apart from its history.
type State struct {
	Assets      map[metadata.Category][]models.AssetRecord `json:"assets"`
	Employees   []models.Employee                          `json:"employees"`
	Assignments []models.Assignment                        `json:"assignments"`
}

func emptyState() State {
	s := State{
		Assets:      make(map[metadata.Category][]models.AssetRecord, len(metadata.Categories)),
		Employees:   []models.Employee{},
		Assignments: []models.Assignment{},
	}
	for _, c := range metadata.Categories {
		s.Assets[c] = []models.AssetRecord{}
	}
	return s
}

// Clone deep-copies the state. History entries hold clones so later edits never reach them.
func (s State) Clone() State {
	out := State{
		Assets:      make(map[metadata.Category][]models.AssetRecord, len(s.Assets)),
		Employees:   make([]models.Employee, len(s.Employees)),
		Assignments: make([]models.Assignment, len(s.Assignments)),
	}
	for c, records := range s.Assets {
		cloned := models.CloneRecords(records)
		if cloned == nil {
			cloned = []models.AssetRecord{}
		}
		out.Assets[c] = cloned
	}
	copy(out.Employees, s.Employees)
	copy(out.Assignments, s.Assignments)
	return out
}

// normalized fills in missing categories and nil slices of a decoded state.
func (s State) normalized() State {
	out := emptyState()
	for c, records := range s.Assets {
		if !c.IsValid() || records == nil {
			continue
		}
		out.Assets[c] = records
	}
	if s.Employees != nil {
		out.Employees = s.Employees
	}
	if s.Assignments != nil {
		out.Assignments = s.Assignments
	}
	return out
}

func (s State) assetCount() int {
	total := 0
	for _, records := range s.Assets {
		total += len(records)
	}
	return total
}
