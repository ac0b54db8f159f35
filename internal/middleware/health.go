package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthStatus struct {
	Status      string    `json:"status"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
	Offline     bool      `json:"offline"`
}

var (
	healthStatus = HealthStatus{
		Status:      "ok",
		LastChecked: time.Now(),
		Uptime:      "0s",
		Version:     "dev",
	}
	healthMutex      sync.Mutex
	startTime        = time.Now()
	lastResponse     []byte
	lastResponseTime time.Time
	cacheDuration    = 5 * time.Second
)

// HealthCheckMiddleware serves the health payload, cached for a few seconds.
func HealthCheckMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		healthMutex.Lock()
		defer healthMutex.Unlock()

		if time.Since(lastResponseTime) < cacheDuration && lastResponse != nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", lastResponse)
			return
		}

		healthStatus.Uptime = time.Since(startTime).Round(time.Second).String()
		healthStatus.LastChecked = time.Now()

		response, err := json.Marshal(healthStatus)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode health status"})
			return
		}
		lastResponse = response
		lastResponseTime = time.Now()

		c.Data(http.StatusOK, "application/json; charset=utf-8", response)
	}
}

func UpdateHealthStatus(status string) {
	healthMutex.Lock()
	defer healthMutex.Unlock()

	healthStatus.Status = status
	healthStatus.LastChecked = time.Now()
	lastResponse = nil
}

// SetOffline marks the service as running from its local snapshot.
func SetOffline(offline bool) {
	healthMutex.Lock()
	defer healthMutex.Unlock()

	healthStatus.Offline = offline
	if offline {
		healthStatus.Status = "degraded"
	} else {
		healthStatus.Status = "ok"
	}
	lastResponse = nil
}

func SetVersion(version string) {
	healthMutex.Lock()
	defer healthMutex.Unlock()

	healthStatus.Version = version
	lastResponse = nil
}
