package models

import "time"

const (
	EmployeeSourceManual = "manual"
	EmployeeSourceExcel  = "excel"
)

type Employee struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Department  string    `json:"department" db:"department"`
	Source      string    `json:"source" db:"source"`
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`
}
