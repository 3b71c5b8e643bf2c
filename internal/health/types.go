package health

import (
	"encoding/json"
	"time"
)

// HealthStatus represents the health state of an upstream.
type HealthStatus string

const (
	StatusOK      HealthStatus = "ok"
	StatusWarning HealthStatus = "warning"
	StatusError   HealthStatus = "error"
)

// HealthItem represents a single tracked upstream dependency.
type HealthItem struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Status    HealthStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
	Timestamp *time.Time   `json:"timestamp,omitempty"`

	// failure is the status a reported error moves the item to.
	failure HealthStatus
}

// MarshalJSON customizes JSON output to omit timestamp for OK status.
func (h HealthItem) MarshalJSON() ([]byte, error) {
	type Alias HealthItem
	alias := Alias(h)

	if h.Status == StatusOK {
		alias.Timestamp = nil
		alias.Message = ""
	}

	return json.Marshal(alias)
}

// HealthSummary provides counts across all tracked items.
type HealthSummary struct {
	OK        int  `json:"ok"`
	Warning   int  `json:"warning"`
	Error     int  `json:"error"`
	HasIssues bool `json:"hasIssues"`
}

// TestResult is the outcome of an on-demand check.
type TestResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}
