package models

import (
	"time"

	"assettracker/pkg/metadata"
)

// Assignment links an asset to an employee. In the workspace IDs are tokens; in the
// database the row id is a serial.
type Assignment struct {
	ID             string            `json:"id"`
	AssetID        string            `json:"assetId"`
	AssetCategory  metadata.Category `json:"assetCategory"`
	EmployeeID     string            `json:"employeeId"`
	EmployeeName   string            `json:"employeeName,omitempty"`
	AssignmentDate time.Time         `json:"assignmentDate"`
	Notes          string            `json:"notes,omitempty"`
}

