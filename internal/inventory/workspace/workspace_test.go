package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assettracker/internal/inventory/assignments"
	"assettracker/internal/inventory/category"
	"assettracker/internal/inventory/importer"
	"assettracker/internal/inventory/reconcile"
	"assettracker/internal/inventory/resolver"
	"assettracker/internal/inventory/store"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type MockAssigner struct {
	mock.Mock
}

func (m *MockAssigner) Assign(ctx context.Context, req assignments.AssignRequest) (*assignments.AssignResult, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignments.AssignResult), args.Error(1)
}

type fakeWorkbookSource struct {
	title  string
	sheets []importer.Sheet
	err    error
}

func (f fakeWorkbookSource) ReadWorkbook(ctx context.Context, spreadsheetID string) (string, []importer.Sheet, error) {
	return f.title, f.sheets, f.err
}

func newTestStore() *store.Store {
	registry := category.DefaultRegistry()
	imp := importer.NewImporter(registry, reconcile.ConflictSkip, zap.NewNop())
	return store.NewStore(registry, imp, nil, zap.NewNop())
}

func newRouter(h *WorkspaceHandler, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", func(c *gin.Context) {
		c.Set("role", role)
		c.Set("username", "tester")
	})
	h.RegisterRoutes(group)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func wifiWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "wifi"))
	require.NoError(t, f.SetSheetRow("wifi", "A1", &[]interface{}{"Device Name", "IP"}))
	require.NoError(t, f.SetSheetRow("wifi", "A2", &[]interface{}{"AP-1", "10.0.0.1"}))
	require.NoError(t, f.SetSheetRow("wifi", "A3", &[]interface{}{"AP-2", "10.0.0.2"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/imports", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestImportWorkbook(t *testing.T) {
	s := newTestStore()
	r := newRouter(NewWorkspaceHandler(s, nil, nil, zap.NewNop()), "admin")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "inventory.xlsx", wifiWorkbook(t)))

	require.Equal(t, http.StatusOK, w.Code)
	var report importer.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Totals.NewAssets)
	assert.Equal(t, "success", string(report.Sheets[0].Status))

	w = doJSON(t, r, http.MethodGet, "/workspace/assets/wifi", nil)
	var records []models.AssetRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 2)

	w = doJSON(t, r, http.MethodGet, "/imports", nil)
	var history []store.ImportSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "inventory.xlsx", history[0].FileName)

	w = doJSON(t, r, http.MethodPost, "/imports/0/rollback", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.Assets(metadata.CategoryWifi))
}

func TestImportWorkbookRejectsBadUploads(t *testing.T) {
	r := newRouter(NewWorkspaceHandler(newTestStore(), nil, nil, zap.NewNop()), "admin")

	tests := []struct {
		name     string
		fileName string
		content  []byte
	}{
		{"wrong extension", "inventory.csv", []byte("a,b")},
		{"not a workbook", "inventory.xlsx", []byte("garbage")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, uploadRequest(t, tt.fileName, tt.content))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestImportRequiresPermission(t *testing.T) {
	r := newRouter(NewWorkspaceHandler(newTestStore(), nil, nil, zap.NewNop()), "user")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "inventory.xlsx", wifiWorkbook(t)))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestImportGoogleSheet(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		r := newRouter(NewWorkspaceHandler(newTestStore(), nil, nil, zap.NewNop()), "admin")
		w := doJSON(t, r, http.MethodPost, "/imports/google", gin.H{"spreadsheet_id": "abc"})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("imported", func(t *testing.T) {
		source := fakeWorkbookSource{title: "Inventory", sheets: []importer.Sheet{
			{Name: "Camera", Rows: [][]string{{"Acme", "HQ", "10.1.1.1", "4", "NVR"}}},
		}}
		s := newTestStore()
		r := newRouter(NewWorkspaceHandler(s, nil, source, zap.NewNop()), "admin")

		w := doJSON(t, r, http.MethodPost, "/imports/google", gin.H{"spreadsheet_id": "abc"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, s.Assets(metadata.CategoryCameras), 1)
		assert.Equal(t, "Inventory", s.ImportHistory()[0].FileName)
	})

	t.Run("source failure", func(t *testing.T) {
		source := fakeWorkbookSource{err: errors.New("403 forbidden")}
		r := newRouter(NewWorkspaceHandler(newTestStore(), nil, source, zap.NewNop()), "admin")

		w := doJSON(t, r, http.MethodPost, "/imports/google", gin.H{"spreadsheet_id": "abc"})

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestHistoryErrors(t *testing.T) {
	r := newRouter(NewWorkspaceHandler(newTestStore(), nil, nil, zap.NewNop()), "admin")

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodPost, "/imports/rollback", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodPost, "/changes/undo", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/changes/abc/restore", nil).Code)
}

func TestWorkspaceAssetLifecycle(t *testing.T) {
	s := newTestStore()
	r := newRouter(NewWorkspaceHandler(s, nil, nil, zap.NewNop()), "admin")

	w := doJSON(t, r, http.MethodPost, "/workspace/assets/wifi", map[string]string{"Device Name": "AP-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/workspace/assets/wifi", map[string]string{"Device Name": "AP-1", "IP": "10.0.0.1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var record models.AssetRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))

	w = doJSON(t, r, http.MethodPatch, "/workspace/assets/wifi/"+record.ID+"/status", gin.H{"status": "Broken"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/workspace/assets/wifi/"+record.ID+"/status", gin.H{"status": "Dead"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/workspace/assets/wifi/"+record.ID, map[string]string{"Device Name": "AP-9"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/changes", nil)
	var changes []store.ChangeSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &changes))
	assert.Len(t, changes, 3)

	w = doJSON(t, r, http.MethodDelete, "/workspace/assets/wifi/"+record.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/workspace/assets/wifi/"+record.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/workspace/assets/users", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignAsset(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(m *MockAssigner)
		wantPersisted bool
	}{
		{
			name: "persisted",
			setupMock: func(m *MockAssigner) {
				m.On("Assign", mock.Anything).Return(&assignments.AssignResult{
					AssignmentID: 11,
					Resolution:   resolver.Resolution{Key: 4, Strategy: resolver.StrategySecondary, Column: "external_id"},
					State:        assignments.StateCommitted,
				}, nil)
			},
			wantPersisted: true,
		},
		{
			name: "server failure keeps local assignment",
			setupMock: func(m *MockAssigner) {
				m.On("Assign", mock.Anything).Return(
					&assignments.AssignResult{State: assignments.StateUnresolved},
					errors.New("could not resolve"),
				)
			},
			wantPersisted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			record, err := s.AddAsset(metadata.CategoryLaptops, map[string]string{"Assets Tag/No.": "T1", "Serial No": "S1"})
			require.NoError(t, err)
			employee, err := s.AddEmployee("Ayesha", "HR", "")
			require.NoError(t, err)

			assigner := new(MockAssigner)
			tt.setupMock(assigner)
			r := newRouter(NewWorkspaceHandler(s, assigner, nil, zap.NewNop()), "user")

			w := doJSON(t, r, http.MethodPost, "/workspace/assignments", gin.H{
				"asset_type":      "laptops",
				"asset_id":        record.ID,
				"employee_id":     employee.ID,
				"assignment_date": "2024-05-02",
			})

			require.Equal(t, http.StatusOK, w.Code)
			var body struct {
				Persisted  bool              `json:"persisted"`
				Warning    string            `json:"warning"`
				Assignment models.Assignment `json:"assignment"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantPersisted, body.Persisted)
			assert.Equal(t, tt.wantPersisted, body.Warning == "")
			assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), body.Assignment.AssignmentDate)

			assigned, err := s.Asset(metadata.CategoryLaptops, record.ID)
			require.NoError(t, err)
			assert.Equal(t, "Ayesha", assigned.Get("User Name"))
			assigner.AssertCalled(t, "Assign", assignments.AssignRequest{AssetType: "laptops", AssetID: record.ID, EmployeeID: employee.ID})
		})
	}
}

func TestAssignAssetValidation(t *testing.T) {
	r := newRouter(NewWorkspaceHandler(newTestStore(), nil, nil, zap.NewNop()), "admin")

	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/workspace/assignments", gin.H{"asset_type": "laptops"}).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/workspace/assignments",
		gin.H{"asset_type": "phones", "asset_id": "1", "employee_id": "2"}).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodPost, "/workspace/assignments",
		gin.H{"asset_type": "laptops", "asset_id": "1", "employee_id": "2"}).Code)
}

func TestEmployeesAndStats(t *testing.T) {
	s := newTestStore()
	r := newRouter(NewWorkspaceHandler(s, nil, nil, zap.NewNop()), "admin")

	w := doJSON(t, r, http.MethodPost, "/workspace/employees", gin.H{"name": "Ayesha", "department": "HR"})
	require.Equal(t, http.StatusCreated, w.Code)
	var employee models.Employee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &employee))

	w = doJSON(t, r, http.MethodPatch, "/workspace/employees/"+employee.ID, gin.H{"department": "Finance"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/workspace/employees/sync", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/workspace/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Stats store.Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Stats.TotalEmployees)

	w = doJSON(t, r, http.MethodDelete, "/workspace/employees/"+employee.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClearWorkspaceIsAdminOnly(t *testing.T) {
	s := newTestStore()
	_, err := s.AddEmployee("Ayesha", "HR", "")
	require.NoError(t, err)

	w := doJSON(t, newRouter(NewWorkspaceHandler(s, nil, nil, zap.NewNop()), "user"), http.MethodDelete, "/workspace", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Len(t, s.Employees(), 1)

	w = doJSON(t, newRouter(NewWorkspaceHandler(s, nil, nil, zap.NewNop()), "admin"), http.MethodDelete, "/workspace", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.Employees())
}

func TestExportWorkbook(t *testing.T) {
	s := newTestStore()
	_, err := s.AddAsset(metadata.CategoryWifi, map[string]string{"Device Name": "AP-1", "IP": "10.0.0.1"})
	require.NoError(t, err)
	_, err = s.AddEmployee("Ayesha", "HR", "")
	require.NoError(t, err)
	r := newRouter(NewWorkspaceHandler(s, nil, nil, zap.NewNop()), "admin")

	w := doJSON(t, r, http.MethodGet, "/export.xlsx", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxMIME, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"WiFi Devices", "Employees"}, f.GetSheetList())

	rows, err := f.GetRows("WiFi Devices")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Device Name", "IP", "status"}, {"AP-1", "10.0.0.1", "Available"}}, rows)

	rows, err = f.GetRows("Employees")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "Department", "Source", "Last Updated"}, rows[0])
	assert.Equal(t, "Ayesha", rows[1][0])
}

func TestWriteWorkbookWithoutAssets(t *testing.T) {
	var buf bytes.Buffer
	state := store.State{Assets: map[metadata.Category][]models.AssetRecord{}}

	require.NoError(t, WriteWorkbook(&buf, state, category.DefaultRegistry()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Employees"}, f.GetSheetList())
}
