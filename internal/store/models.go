package store

import (
	"encoding/json"
	"time"
)

// Session is a browser-tab (or chat) scoped lifetime. Workflow history lives
// only as long as its session; the sweeper removes sessions past the timeout.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// WorkflowEntry aggregates the three stage results of one workflow run.
// Stage payloads are kept as raw JSON so the history endpoint can re-emit
// them without another decode round trip.
type WorkflowEntry struct {
	ID              int64           `json:"-"`
	WorkflowID      string          `json:"workflow_id"`
	SessionID       string          `json:"session_id"`
	Task            string          `json:"task"`
	Status          string          `json:"status"` // completed, failed
	Research        json.RawMessage `json:"research_results,omitempty"`
	Planning        json.RawMessage `json:"planning_results,omitempty"`
	Execution       json.RawMessage `json:"execution_results,omitempty"`
	StartedAt       time.Time       `json:"started_at"`
	DurationSeconds float64         `json:"total_duration"`
}
