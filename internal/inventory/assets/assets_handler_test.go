package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"assettracker/internal/inventory/category"
	inventorylog "assettracker/internal/inventory/inventory_log"
	"assettracker/pkg/auditlog"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/metadata"
	"assettracker/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) FetchAll(ctx context.Context) (map[metadata.Category][]Row, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[metadata.Category][]Row), args.Error(1)
}

func (m *MockAssetStore) Insert(ctx context.Context, c metadata.Category, payload map[string]interface{}) (*InsertResult, error) {
	args := m.Called(c, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InsertResult), args.Error(1)
}

type recordingMirror struct {
	records []models.AssetRecord
}

func (m *recordingMirror) MirrorAsset(record models.AssetRecord) {
	m.records = append(m.records, record)
}

func TestCreateAsset(t *testing.T) {
	gin.SetMode(gin.TestMode)

	payload := map[string]interface{}{"Device Name": "AP-1", "IP": "10.0.0.1"}

	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMock      func(m *MockAssetStore)
		expectedStatus int
		expectMirror   bool
	}{
		{
			name: "inserted",
			body: map[string]interface{}{"category": "WIFI", "Device Name": "AP-1", "IP": "10.0.0.1"},
			setupMock: func(m *MockAssetStore) {
				m.On("Insert", metadata.CategoryWifi, payload).
					Return(&InsertResult{Inserted: Row{"id": int64(1), "device_name": "AP-1", "ip": "10.0.0.1"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectMirror:   true,
		},
		{
			name:           "missing category",
			body:           payload,
			setupMock:      func(m *MockAssetStore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "category outside whitelist",
			body:           map[string]interface{}{"category": "users", "name": "x"},
			setupMock:      func(m *MockAssetStore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing columns",
			body: map[string]interface{}{"category": "wifi", "Device Name": "AP-1", "IP": "10.0.0.1"},
			setupMock: func(m *MockAssetStore) {
				m.On("Insert", metadata.CategoryWifi, payload).
					Return(nil, &MissingColumnsError{Table: "wifi", Columns: []MissingColumn{{Provided: "IP", ExpectedColumn: "ip"}}})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate",
			body: map[string]interface{}{"category": "wifi", "Device Name": "AP-1", "IP": "10.0.0.1"},
			setupMock: func(m *MockAssetStore) {
				m.On("Insert", metadata.CategoryWifi, payload).Return(nil, custom_error.WrapDBError("dup", "23505"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "database failure",
			body: map[string]interface{}{"category": "wifi", "Device Name": "AP-1", "IP": "10.0.0.1"},
			setupMock: func(m *MockAssetStore) {
				m.On("Insert", metadata.CategoryWifi, payload).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockAssetStore)
			mirror := &recordingMirror{}
			tt.setupMock(store)
			handler := NewAssetHandler(store, category.DefaultRegistry(), mirror, zap.NewNop())

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			body, _ := json.Marshal(tt.body)
			c.Request = httptest.NewRequest(http.MethodPost, "/assets", bytes.NewBuffer(body))

			handler.CreateAsset(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			store.AssertExpectations(t)
			if tt.expectMirror {
				require.Len(t, mirror.records, 1)
				assert.Equal(t, "1", mirror.records[0].ID)
				assert.Equal(t, "10.0.0.1", mirror.records[0].Get("IP"))
			} else {
				assert.Empty(t, mirror.records)
			}
		})
	}
}

type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) PersistLog(ctx context.Context, log models.AuditLog, data interface{}) error {
	args := m.Called(log, data)
	return args.Error(0)
}

func TestCreateAssetWritesAuditLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := new(MockAssetStore)
	store.On("Insert", metadata.CategoryCameras, map[string]interface{}{"IP": "10.1.1.9"}).
		Return(&InsertResult{Inserted: Row{"id": int64(12), "ip": "10.1.1.9"}}, nil)
	persister := new(MockPersister)
	persister.On("PersistLog", models.AuditLog{ResourceID: 12, ResourceType: "cameras", Action: "create"}, mock.Anything).
		Return(nil)

	handler := NewAssetHandler(store, category.DefaultRegistry(), nil, zap.NewNop()).
		WithInventoryLog(inventorylog.NewInventoryLog(auditlog.NewAuditLog(persister, zap.NewNop())))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("username", "amir")
	c.Request = httptest.NewRequest(http.MethodPost, "/assets", bytes.NewBufferString(`{"category":"cameras","IP":"10.1.1.9"}`))

	handler.CreateAsset(c)

	assert.Equal(t, http.StatusOK, w.Code)
	persister.AssertExpectations(t)
}

func TestRowKey(t *testing.T) {
	assert.Equal(t, int64(7), rowKey(Row{"id": int64(7)}))
	assert.Equal(t, int64(8), rowKey(Row{"id": "8"}))
	assert.Equal(t, int64(0), rowKey(Row{"ip": "10.0.0.1"}))
}

func TestGetAssets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := new(MockAssetStore)
	store.On("FetchAll").Return(map[metadata.Category][]Row{
		metadata.CategoryCameras: {{"id": int64(3), "ip": "10.1.1.3"}},
	}, nil)
	handler := NewAssetHandler(store, category.DefaultRegistry(), nil, zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/assets", nil)

	handler.GetAssets(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "10.1.1.3", body["cameras"][0]["ip"])
}
