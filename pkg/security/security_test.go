package security

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assettracker/internal/rate_limiter"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/models"
	"assettracker/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func setupSecret(t *testing.T) {
	require.NoError(t, SetSecret("test-secret"))
}

func protectedRouter(permission roles.Permission) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTMiddleware(), Authorize(permission), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetUsername(c), "id": GetUserID(c)})
	})
	return r
}

func TestSetSecretRejectsEmpty(t *testing.T) {
	assert.Error(t, SetSecret(""))
}

func TestJWTMiddlewareAndAuthorize(t *testing.T) {
	setupSecret(t)

	adminToken, err := GenerateJWT("1", "admin", "root")
	require.NoError(t, err)
	userToken, err := GenerateJWT("2", "user", "desk")
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		permission     roles.Permission
		expectedStatus int
	}{
		{"missing header", "", roles.ViewAll, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", roles.ViewAll, http.StatusUnauthorized},
		{"admin can import", "Bearer " + adminToken, roles.ImportExport, http.StatusOK},
		{"user can assign", "Bearer " + userToken, roles.AssignUnassign, http.StatusOK},
		{"user cannot import", "Bearer " + userToken, roles.ImportExport, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			protectedRouter(tt.permission).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	setupSecret(t)
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	finder := new(MockUserFinder)
	finder.On("FindByUsername", "admin").Return(&models.User{ID: 1, Username: "admin", PasswordHash: string(hash), Role: "admin"}, nil)
	finder.On("FindByUsername", "ghost").Return(nil, custom_error.ErrNotFound)

	limiter := rate_limiter.NewRateLimiter(3, time.Hour)
	defer limiter.Close()

	router := gin.New()
	NewLoginHandler(finder, limiter, zap.NewNop()).RegisterRoutes(router)

	login := func(username, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"username": username, "password": password})
		req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewBuffer(body))
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := login("admin", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	claims, err := parseToken(resp["token"])
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["role"])

	assert.Equal(t, http.StatusUnauthorized, login("admin", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, login("ghost", "whatever").Code)
	assert.Equal(t, http.StatusTooManyRequests, login("admin", "s3cret").Code)
}

func TestIsPrivateIP(t *testing.T) {
	assert.True(t, isPrivateIP("192.168.1.10"))
	assert.True(t, isPrivateIP("172.20.0.1"))
	assert.False(t, isPrivateIP("172.32.0.1"))
	assert.False(t, isPrivateIP("203.0.113.7"))
}
