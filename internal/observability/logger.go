package observability

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeWorkflow  EventType = "workflow"
	EventTypeStage     EventType = "stage"
	EventTypeLLM       EventType = "llm"
	EventTypeSession   EventType = "session"
	EventTypePolicy    EventType = "policy"
	EventTypeHeartbeat EventType = "heartbeat"
)

// Event represents a structured log entry.
type Event struct {
	Type       EventType `json:"type"`
	SessionID  string    `json:"session_id,omitempty"`
	WorkflowID string    `json:"workflow_id,omitempty"`
	Data       any       `json:"data"`
	Timestamp  time.Time `json:"timestamp"`
}

// Logger handles structured logging.
type Logger struct {
	llmLogPath string
	maxSize    int64
}

func NewLogger() *Logger {
	return NewLoggerAt(filepath.Join("logs", "llm.jsonl"))
}

// NewLoggerAt uses a custom path for the llm event sink.
func NewLoggerAt(path string) *Logger {
	return &Logger{
		llmLogPath: path,
		maxSize:    10 * 1024 * 1024, // 10MB
	}
}

// Log emits a structured JSON event to stdout.
func (l *Logger) Log(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		fmt.Printf("{\"error\": \"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Println(string(data))

	if evt.Type == EventTypeLLM {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.llmLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.llmLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.llmLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.llmLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.llmLogPath, oldPath)
}

// Helper methods for common events

func (l *Logger) LogWorkflow(sessionID, workflowID, status string, duration time.Duration) {
	l.Log(Event{
		Type:       EventTypeWorkflow,
		SessionID:  sessionID,
		WorkflowID: workflowID,
		Data: map[string]any{
			"status":           status,
			"duration_seconds": duration.Seconds(),
		},
	})
}

func (l *Logger) LogStage(sessionID, workflowID, stage, status string) {
	l.Log(Event{
		Type:       EventTypeStage,
		SessionID:  sessionID,
		WorkflowID: workflowID,
		Data: map[string]string{
			"stage":  stage,
			"status": status,
		},
	})
}

func (l *Logger) LogSession(sessionID, action string) {
	l.Log(Event{
		Type:      EventTypeSession,
		SessionID: sessionID,
		Data:      map[string]string{"action": action},
	})
}

func (l *Logger) LogPolicy(sessionID, effect, reason string) {
	l.Log(Event{
		Type:      EventTypePolicy,
		SessionID: sessionID,
		Data: map[string]string{
			"effect": effect,
			"reason": reason,
		},
	})
}

func (l *Logger) LogHeartbeat() {
	l.Log(Event{
		Type: EventTypeHeartbeat,
		Data: map[string]string{"status": "alive"},
	})
}

func (l *Logger) LogLLM(sessionID, workflowID, stage string, prompt any, response string) {
	l.Log(Event{
		Type:       EventTypeLLM,
		SessionID:  sessionID,
		WorkflowID: workflowID,
		Data: map[string]any{
			"stage":    stage,
			"prompt":   prompt,
			"response": response,
		},
	})
}
