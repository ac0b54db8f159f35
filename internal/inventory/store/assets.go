package store

import (
	"fmt"
	"strings"
	"time"

	"assettracker/internal/inventory/category"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"
)

// Assets returns a copy of the records of one category.
func (s *Store) Assets(c metadata.Category) []models.AssetRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := models.CloneRecords(s.state.Assets[c])
	if records == nil {
		return []models.AssetRecord{}
	}
	return records
}

func (s *Store) Asset(c metadata.Category, id string) (models.AssetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findAsset(c, id)
	if err != nil {
		return models.AssetRecord{}, err
	}
	return s.state.Assets[c][i].Clone(), nil
}

// schemaFields keeps only the fields the schema knows, the status field included.
func schemaFields(schema category.Schema, fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for name, value := range fields {
		if schema.HasColumn(name) || name == schema.StatusField() {
			out[name] = value
		}
	}
	return out
}

// AddAsset creates a record with a fresh synthetic id. Every key field must be filled.
func (s *Store) AddAsset(c metadata.Category, fields map[string]string) (models.AssetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema, err := s.schema(c)
	if err != nil {
		return models.AssetRecord{}, err
	}
	for _, key := range schema.KeyFields {
		if strings.TrimSpace(fields[key]) == "" {
			return models.AssetRecord{}, fmt.Errorf("%w: %s", custom_error.ErrMissingFields, key)
		}
	}

	record := models.NewAssetRecord(
		metadata.NewRecordID(c, s.now(), len(s.state.Assets[c])).String(),
		c,
		schemaFields(schema, fields),
	)
	if record.Get(schema.StatusField()) == "" {
		record.Set(schema.StatusField(), metadata.StatusAvailable.String())
	}

	err = s.change("Add asset", func() (string, error) {
		s.state.Assets[c] = append(s.state.Assets[c], record)
		return fmt.Sprintf("%s %s", c, record.ID), nil
	})
	return record.Clone(), err
}

// EditAsset overwrites the given fields. Key fields may change but never become empty.
func (s *Store) EditAsset(c metadata.Category, id string, fields map[string]string) (models.AssetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema, err := s.schema(c)
	if err != nil {
		return models.AssetRecord{}, err
	}
	i, err := s.findAsset(c, id)
	if err != nil {
		return models.AssetRecord{}, err
	}

	updates := schemaFields(schema, fields)
	for name, value := range updates {
		if schema.IsKeyField(name) && strings.TrimSpace(value) == "" {
			return models.AssetRecord{}, fmt.Errorf("%w: %s", custom_error.ErrMissingFields, name)
		}
	}

	var updated models.AssetRecord
	err = s.change("Edit asset", func() (string, error) {
		record := s.state.Assets[c][i].Clone()
		for name, value := range updates {
			record.Set(name, value)
		}
		s.state.Assets[c][i] = record
		updated = record.Clone()
		return fmt.Sprintf("%s %s", c, id), nil
	})
	return updated, err
}

func (s *Store) DeleteAsset(c metadata.Category, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findAsset(c, id)
	if err != nil {
		return err
	}

	return s.change("Delete asset", func() (string, error) {
		s.state.Assets[c] = remove(s.state.Assets[c], i)
		return fmt.Sprintf("%s %s", c, id), nil
	})
}

// ChangeStatus writes the status field of the category. An available status also
// clears the user and department columns.
func (s *Store) ChangeStatus(c metadata.Category, id string, value string) (models.AssetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, err := metadata.NewStatus(value)
	if err != nil {
		return models.AssetRecord{}, err
	}
	schema, err := s.schema(c)
	if err != nil {
		return models.AssetRecord{}, err
	}
	i, err := s.findAsset(c, id)
	if err != nil {
		return models.AssetRecord{}, err
	}

	var updated models.AssetRecord
	err = s.change("Change status", func() (string, error) {
		record := s.state.Assets[c][i].Clone()
		record.Set(schema.StatusField(), status.String())
		if status.IsAvailable() {
			clearHolder(&record, schema)
		}
		s.state.Assets[c][i] = record
		updated = record.Clone()
		return fmt.Sprintf("%s %s -> %s", c, id, status), nil
	})
	return updated, err
}

// Assign hands an asset to an employee in the workspace only. The database write
// path lives in the assignment service.
func (s *Store) Assign(c metadata.Category, id, employeeID string, date time.Time, notes string) (models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema, err := s.schema(c)
	if err != nil {
		return models.Assignment{}, err
	}
	i, err := s.findAsset(c, id)
	if err != nil {
		return models.Assignment{}, err
	}
	e, err := s.findEmployee(employeeID)
	if err != nil {
		return models.Assignment{}, err
	}
	employee := s.state.Employees[e]
	if date.IsZero() {
		date = s.now()
	}

	assignment := models.Assignment{
		ID:             newToken("ASG"),
		AssetID:        id,
		AssetCategory:  c,
		EmployeeID:     employee.ID,
		EmployeeName:   employee.Name,
		AssignmentDate: date,
		Notes:          notes,
	}

	err = s.change("Assign asset", func() (string, error) {
		record := s.state.Assets[c][i].Clone()
		if schema.UserColumn != "" {
			record.Set(schema.UserColumn, employee.Name)
		}
		if schema.DeptColumn != "" {
			record.Set(schema.DeptColumn, employee.Department)
		}
		record.Set(schema.StatusField(), metadata.StatusAssigned.String())
		s.state.Assets[c][i] = record
		s.state.Assignments = append(s.state.Assignments, assignment)
		return fmt.Sprintf("%s %s -> %s", c, id, employee.Name), nil
	})
	return assignment, err
}

func (s *Store) Unassign(c metadata.Category, id string) (models.AssetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema, err := s.schema(c)
	if err != nil {
		return models.AssetRecord{}, err
	}
	i, err := s.findAsset(c, id)
	if err != nil {
		return models.AssetRecord{}, err
	}

	var updated models.AssetRecord
	err = s.change("Unassign asset", func() (string, error) {
		record := s.state.Assets[c][i].Clone()
		clearHolder(&record, schema)
		record.Set(schema.StatusField(), metadata.StatusAvailable.String())
		s.state.Assets[c][i] = record
		updated = record.Clone()
		return fmt.Sprintf("%s %s", c, id), nil
	})
	return updated, err
}

func clearHolder(record *models.AssetRecord, schema category.Schema) {
	if schema.UserColumn != "" {
		record.Set(schema.UserColumn, "")
	}
	if schema.DeptColumn != "" {
		record.Set(schema.DeptColumn, "")
	}
}

// MirrorAsset adds a record persisted elsewhere, replacing one with the same id.
func (s *Store) MirrorAsset(record models.AssetRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !record.Category.IsValid() {
		return
	}
	_ = s.change("Add asset", func() (string, error) {
		if i, err := s.findAsset(record.Category, record.ID); err == nil {
			s.state.Assets[record.Category][i] = record.Clone()
		} else {
			s.state.Assets[record.Category] = append(s.state.Assets[record.Category], record.Clone())
		}
		return fmt.Sprintf("%s %s (database)", record.Category, record.ID), nil
	})
}
