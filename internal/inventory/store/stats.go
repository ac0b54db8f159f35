package store

import (
	"assettracker/internal/inventory/category"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"
)

type Stats struct {
	TotalAssets     int            `json:"totalAssets"`
	AssignedAssets  int            `json:"assignedAssets"`
	AvailableAssets int            `json:"availableAssets"`
	TotalEmployees  int            `json:"totalEmployees"`
	Breakdown       map[string]int `json:"breakdown"`
}

// IsAvailable reports whether an asset can be handed out: its status is blank or an
// available status, and its user column is blank or a stock placeholder.
func IsAvailable(schema category.Schema, record models.AssetRecord) bool {
	status := record.Get(schema.StatusField())
	statusAvailable := status == "" || metadata.Status(status).IsAvailable()

	user := ""
	if schema.UserColumn != "" {
		user = record.Get(schema.UserColumn)
	}

	return statusAvailable && metadata.IsUserPlaceholder(user)
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		TotalEmployees: len(s.state.Employees),
		Breakdown:      make(map[string]int, len(s.state.Assets)),
	}

	for _, schema := range s.registry.All() {
		records := s.state.Assets[schema.Key]
		stats.Breakdown[schema.DisplayName] = len(records)
		stats.TotalAssets += len(records)

		for _, record := range records {
			if IsAvailable(schema, record) {
				stats.AvailableAssets++
			} else {
				stats.AssignedAssets++
			}
		}
	}

	return stats
}
