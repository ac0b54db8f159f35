package store

import (
	"fmt"
	"strings"

	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"
)

const unknownDepartment = "Unknown"

func (s *Store) Employees() []models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Employee, len(s.state.Employees))
	copy(out, s.state.Employees)
	return out
}

func (s *Store) Assignments() []models.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Assignment, len(s.state.Assignments))
	copy(out, s.state.Assignments)
	return out
}

func (s *Store) AddEmployee(name, department, source string) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Employee{}, fmt.Errorf("%w: name", custom_error.ErrMissingFields)
	}
	if source == "" {
		source = models.EmployeeSourceManual
	}

	employee := models.Employee{
		ID:          newToken("EMP"),
		Name:        name,
		Department:  strings.TrimSpace(department),
		Source:      source,
		LastUpdated: s.now(),
	}

	err := s.change("Add employee", func() (string, error) {
		s.state.Employees = append([]models.Employee{employee}, s.state.Employees...)
		return employee.Name, nil
	})
	return employee, err
}

// EditEmployee overwrites name and department with the non-empty values given.
func (s *Store) EditEmployee(id, name, department string) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findEmployee(id)
	if err != nil {
		return models.Employee{}, err
	}

	var updated models.Employee
	err = s.change("Edit employee", func() (string, error) {
		employee := s.state.Employees[i]
		if v := strings.TrimSpace(name); v != "" {
			employee.Name = v
		}
		if v := strings.TrimSpace(department); v != "" {
			employee.Department = v
		}
		employee.LastUpdated = s.now()
		s.state.Employees[i] = employee
		updated = employee
		return employee.Name, nil
	})
	return updated, err
}

func (s *Store) DeleteEmployee(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findEmployee(id)
	if err != nil {
		return err
	}

	return s.change("Delete employee", func() (string, error) {
		name := s.state.Employees[i].Name
		s.state.Employees = remove(s.state.Employees, i)
		return name, nil
	})
}

// SyncEmployeesFromAssets creates an employee for every distinct name found in a
// user column. Placeholders are skipped and names compare case-insensitively.
// It returns the number of employees added.
func (s *Store) SyncEmployeesFromAssets() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]bool, len(s.state.Employees))
	for _, e := range s.state.Employees {
		known[strings.ToLower(strings.TrimSpace(e.Name))] = true
	}

	var found []models.Employee
	for _, schema := range s.registry.All() {
		if schema.UserColumn == "" {
			continue
		}
		for _, record := range s.state.Assets[schema.Key] {
			name := record.Get(schema.UserColumn)
			if metadata.IsUserPlaceholder(name) || known[strings.ToLower(name)] {
				continue
			}
			known[strings.ToLower(name)] = true

			department := unknownDepartment
			if schema.DeptColumn != "" && record.Get(schema.DeptColumn) != "" {
				department = record.Get(schema.DeptColumn)
			}
			found = append(found, models.Employee{
				ID:          newToken("EMP"),
				Name:        name,
				Department:  department,
				Source:      models.EmployeeSourceExcel,
				LastUpdated: s.now(),
			})
		}
	}

	err := s.change("Sync employees", func() (string, error) {
		if len(found) == 0 {
			return "", errUnchanged
		}
		s.state.Employees = append(s.state.Employees, found...)
		return fmt.Sprintf("%d employees extracted from assets", len(found)), nil
	})
	return len(found), err
}

// MirrorEmployee adds an employee persisted elsewhere, replacing one with the same id.
func (s *Store) MirrorEmployee(employee models.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.change("Add employee", func() (string, error) {
		if i, err := s.findEmployee(employee.ID); err == nil {
			s.state.Employees[i] = employee
		} else {
			s.state.Employees = append([]models.Employee{employee}, s.state.Employees...)
		}
		return employee.Name + " (database)", nil
	})
}
