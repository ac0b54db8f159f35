package metadata

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusAvailable        Status = "Available"
	StatusAssigned         Status = "Assigned"
	StatusInRepair         Status = "In Repair"
	StatusDead             Status = "Dead"
	StatusInStock          Status = "In Stock"
	StatusOK               Status = "OK"
	StatusDamaged          Status = "Damaged"
	StatusUnderMaintenance Status = "Under Maintenance"
)

// userPlaceholders are values found in user columns of imported sheets that do not name a person.
var userPlaceholders = []string{"Available", "IN STOCK", "DEAD", "Transfer", "N/A", "NA"}

func NewStatus(value string) (Status, error) {
	status := Status(strings.TrimSpace(value))
	if !status.isValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return status, nil
}

func (s Status) isValid() bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusInRepair, StatusDead,
		StatusInStock, StatusOK, StatusDamaged, StatusUnderMaintenance:
		return true
	default:
		return false
	}
}

// IsAvailable reports whether the status means the asset can be handed out.
func (s Status) IsAvailable() bool {
	switch s {
	case StatusAvailable, StatusInStock, StatusOK:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// IsUserPlaceholder reports whether a user column value is a stock marker rather than a name.
func IsUserPlaceholder(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	for _, placeholder := range userPlaceholders {
		if value == placeholder {
			return true
		}
	}
	return false
}
