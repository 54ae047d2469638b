package routes

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"pixbatch/config"
	"pixbatch/history"
	"pixbatch/logger"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	GoVersion string    `json:"go_version"`
	Uptime    string    `json:"uptime"`
	StartTime string    `json:"start_time"`
	History   string    `json:"history"`
}

var startTime = time.Now()

// formatUptime formats a duration into days, hours, minutes, seconds
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
}

// HealthHandler reports liveness and the state of the history store.
// A history store that is open but failing turns the status to "degraded".
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Health check request: remoteAddr=%s", r.RemoteAddr)

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   config.Version,
		GoVersion: runtime.Version(),
		Uptime:    formatUptime(time.Since(startTime)),
		StartTime: startTime.Format("2006-01-02 15:04:05 MST"),
		History:   "disabled",
	}

	status := http.StatusOK
	if history.Enabled() {
		if err := history.CheckHealth(); err != nil {
			logger.Warnf("History store unhealthy: %v", err)
			response.Status = "degraded"
			response.History = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			response.History = "ok"
		}
	}

	writeJSON(w, status, response)
}
