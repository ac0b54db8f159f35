package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"assettracker/internal/inventory/category"
	"assettracker/internal/inventory/importer"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoadSource tells where the workspace came from on Load.
type LoadSource string

const (
	SourceDatabase LoadSource = "database"
	SourceSnapshot LoadSource = "snapshot"
	SourceEmpty    LoadSource = "empty"
)

type AssetSource interface {
	FetchRecords(ctx context.Context, registry *category.Registry) (map[metadata.Category][]models.AssetRecord, error)
}

type EmployeeSource interface {
	GetEmployees(ctx context.Context) ([]models.Employee, error)
}

// errUnchanged lets a mutation finish without recording a history entry.
var errUnchanged = errors.New("unchanged")

// Store is the in-memory workspace: assets, employees and local assignments plus
// their import and change history. All access goes through its mutex.
type Store struct {
	mu sync.Mutex

	state         State
	importHistory []ImportEntry
	changeHistory []ChangeEntry
	offline       bool

	registry *category.Registry
	importer *importer.Importer
	snapshot *SnapshotFile
	now      func() time.Time
	logger   *zap.Logger
}

// NewStore returns an empty workspace. snapshot may be nil to keep the workspace in memory only.
func NewStore(registry *category.Registry, imp *importer.Importer, snapshot *SnapshotFile, logger *zap.Logger) *Store {
	return &Store{
		state:    emptyState(),
		registry: registry,
		importer: imp,
		snapshot: snapshot,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Load fills the workspace from the database. When that fails it falls back to the
// snapshot file and, failing that, starts empty. History always comes from the snapshot.
func (s *Store) Load(ctx context.Context, assets AssetSource, employees EmployeeSource) LoadSource {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.readSnapshot()
	if doc != nil {
		s.importHistory = doc.ImportHistory
		s.changeHistory = doc.ChangeHistory
	}

	state, err := s.loadFromDatabase(ctx, assets, employees)
	if err == nil {
		if doc != nil {
			state.Assignments = doc.State.Assignments
		}
		s.state = state.normalized()
		s.offline = false
		s.logger.Info("workspace loaded from database",
			zap.Int("assets", s.state.assetCount()),
			zap.Int("employees", len(s.state.Employees)),
		)
		return SourceDatabase
	}

	s.offline = true
	s.logger.Warn("failed to load workspace from database, falling back to snapshot", zap.Error(err))

	if doc != nil {
		s.state = doc.State
		s.logger.Warn("running in offline mode on cached workspace", zap.Time("saved_at", doc.SavedAt))
		return SourceSnapshot
	}

	s.state = emptyState()
	return SourceEmpty
}

func (s *Store) loadFromDatabase(ctx context.Context, assets AssetSource, employees EmployeeSource) (State, error) {
	if assets == nil || employees == nil {
		return State{}, errors.New("no database configured")
	}

	records, err := assets.FetchRecords(ctx, s.registry)
	if err != nil {
		return State{}, err
	}
	people, err := employees.GetEmployees(ctx)
	if err != nil {
		return State{}, err
	}

	return State{Assets: records, Employees: people}, nil
}

func (s *Store) readSnapshot() *document {
	if s.snapshot == nil {
		return nil
	}
	doc, err := s.snapshot.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("unable to read workspace snapshot", zap.String("path", s.snapshot.Path()), zap.Error(err))
		}
		return nil
	}
	return doc
}

// Offline reports whether the last Load could not reach the database.
func (s *Store) Offline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offline
}

// Close writes the final snapshot.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// State returns a deep copy of the current workspace.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Registry() *category.Registry {
	return s.registry
}

// persist writes the snapshot; a failure is logged and the in-memory change stands.
func (s *Store) persist() {
	if err := s.save(); err != nil {
		s.logger.Warn("could not persist workspace snapshot", zap.Error(err))
	}
}

func (s *Store) save() error {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.write(document{
		SavedAt:       s.now(),
		State:         s.state,
		ImportHistory: s.importHistory,
		ChangeHistory: s.changeHistory,
	})
}

// change runs fn against the live state. On success the state as it was before fn
// goes into the change history; on error the state is put back untouched.
func (s *Store) change(action string, fn func() (string, error)) error {
	backup := s.state.Clone()

	details, err := fn()
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		s.state = backup
		return err
	}

	s.changeHistory = prepend(s.changeHistory, ChangeEntry{
		Timestamp: s.now(),
		Action:    action,
		Details:   details,
		Backup:    backup,
	}, MaxChangeHistory)
	s.persist()

	s.logger.Debug("workspace changed", zap.String("action", action), zap.String("details", details))
	return nil
}

func (s *Store) restore(backup State) {
	s.state = backup.Clone().normalized()
	s.persist()
}

// Clear drops the whole workspace including its history.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = emptyState()
	s.importHistory = nil
	s.changeHistory = nil

	if s.snapshot != nil {
		if err := s.snapshot.remove(); err != nil {
			return err
		}
	}
	s.logger.Info("workspace cleared")
	return nil
}

func (s *Store) schema(c metadata.Category) (category.Schema, error) {
	schema, ok := s.registry.ByCategory(c)
	if !ok {
		return category.Schema{}, &custom_error.InvalidCategoryError{Value: c.String()}
	}
	return schema, nil
}

func (s *Store) findAsset(c metadata.Category, id string) (int, error) {
	for i, record := range s.state.Assets[c] {
		if record.ID == id {
			return i, nil
		}
	}
	return -1, custom_error.ErrNotFound
}

func (s *Store) findEmployee(id string) (int, error) {
	for i, employee := range s.state.Employees {
		if employee.ID == id {
			return i, nil
		}
	}
	return -1, custom_error.ErrNotFound
}

func newToken(prefix string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
