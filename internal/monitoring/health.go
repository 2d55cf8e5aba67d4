// internal/monitoring/health.go
package monitoring

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthStatus is the payload of the /health endpoint.
type HealthStatus struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (c *Collector) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status: "ok",
		Uptime: time.Since(c.startedAt).Round(time.Second).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
