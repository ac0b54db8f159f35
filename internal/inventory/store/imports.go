package store

import (
	"assettracker/internal/inventory/importer"
	custom_error "assettracker/pkg/errors"

	"go.uber.org/zap"
)

// ApplyImport merges a workbook into the workspace. The state before the import is
// kept in the import history so the import can be rolled back.
func (s *Store) ApplyImport(fileName string, sheets []importer.Sheet) importer.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.state.Clone()
	report := s.importer.Run(fileName, sheets, s.state.Assets)

	for c, records := range report.Collections {
		s.state.Assets[c] = records
	}

	s.importHistory = prepend(s.importHistory, ImportEntry{
		Timestamp:    s.now(),
		FileName:     fileName,
		RecordCounts: report.RecordCounts,
		MergeResults: report.Totals,
		Backup:       backup,
	}, MaxImportHistory)
	s.persist()

	return report
}

// PreviewImport runs the import against a copy of the workspace and changes nothing.
func (s *Store) PreviewImport(fileName string, sheets []importer.Sheet) importer.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.importer.Run(fileName, sheets, s.state.Assets)
}

func (s *Store) ImportHistory() []ImportSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ImportSummary, len(s.importHistory))
	for i, e := range s.importHistory {
		out[i] = e.summary(i)
	}
	return out
}

func (s *Store) ChangeHistory() []ChangeSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ChangeSummary, len(s.changeHistory))
	for i, e := range s.changeHistory {
		out[i] = e.summary(i)
	}
	return out
}

func (s *Store) RollbackLastImport() (ImportSummary, error) {
	return s.RollbackImport(0)
}

// RollbackImport restores the state from before import index and drops the entry.
func (s *Store) RollbackImport(index int) (ImportSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkIndex(index, len(s.importHistory)); err != nil {
		return ImportSummary{}, err
	}

	entry := s.importHistory[index]
	s.importHistory = remove(s.importHistory, index)
	s.restore(entry.Backup)

	s.logger.Info("import rolled back", zap.String("file", entry.FileName), zap.Int("index", index))
	return entry.summary(index), nil
}

// RestoreImport restores the state from before import index and keeps the entry.
func (s *Store) RestoreImport(index int) (ImportSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkIndex(index, len(s.importHistory)); err != nil {
		return ImportSummary{}, err
	}

	entry := s.importHistory[index]
	s.restore(entry.Backup)
	return entry.summary(index), nil
}

func (s *Store) UndoLastChange() (ChangeSummary, error) {
	return s.UndoChange(0)
}

// UndoChange restores the state from before change index and drops the entry.
func (s *Store) UndoChange(index int) (ChangeSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkIndex(index, len(s.changeHistory)); err != nil {
		return ChangeSummary{}, err
	}

	entry := s.changeHistory[index]
	s.changeHistory = remove(s.changeHistory, index)
	s.restore(entry.Backup)

	s.logger.Info("change undone", zap.String("action", entry.Action), zap.Int("index", index))
	return entry.summary(index), nil
}

func (s *Store) RestoreChange(index int) (ChangeSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkIndex(index, len(s.changeHistory)); err != nil {
		return ChangeSummary{}, err
	}

	entry := s.changeHistory[index]
	s.restore(entry.Backup)
	return entry.summary(index), nil
}

func checkIndex(index, length int) error {
	if length == 0 {
		return custom_error.ErrHistoryEmpty
	}
	if index < 0 || index >= length {
		return custom_error.ErrHistoryIndex
	}
	return nil
}
