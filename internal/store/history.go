package store

import (
	"database/sql"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// HistoryStore keeps per-session workflow history in an in-memory SQLite
// database. Nothing survives the process: the DSN is :memory: and the single
// connection keeps every statement on the same database.
type HistoryStore struct {
	DB *sql.DB
}

// InMemoryDSN is the only DSN the service uses. A file path still works for
// local debugging, but history is session-bound and must not persist.
const InMemoryDSN = ":memory:"

func NewHistoryStore(dsn string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// An in-memory sqlite database exists per connection; pin the pool to
	// one connection so all queries see the same tables.
	db.SetMaxOpenConns(1)

	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_seen DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS workflows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			workflow_id TEXT,
			session_id TEXT,
			task TEXT,
			status TEXT,
			research TEXT,
			planning TEXT,
			execution TEXT,
			started_at DATETIME,
			duration_seconds REAL
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return nil, err
		}
	}

	return &HistoryStore{DB: db}, nil
}

// Touch creates the session row if needed and refreshes its last_seen time.
func (h *HistoryStore) Touch(sessionID string) error {
	query := `INSERT INTO sessions (id) VALUES (?)
		ON CONFLICT(id) DO UPDATE SET last_seen = CURRENT_TIMESTAMP`
	_, err := h.DB.Exec(query, sessionID)
	return err
}

func (h *HistoryStore) AppendWorkflow(entry *WorkflowEntry) error {
	if err := h.Touch(entry.SessionID); err != nil {
		return err
	}
	query := `INSERT INTO workflows
		(workflow_id, session_id, task, status, research, planning, execution, started_at, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := h.DB.Exec(query,
		entry.WorkflowID, entry.SessionID, entry.Task, entry.Status,
		nullable(entry.Research), nullable(entry.Planning), nullable(entry.Execution),
		entry.StartedAt.UTC(), entry.DurationSeconds)
	if err != nil {
		return err
	}
	entry.ID, _ = res.LastInsertId()
	return nil
}

// ListWorkflows returns a session's entries in insertion order.
func (h *HistoryStore) ListWorkflows(sessionID string) ([]WorkflowEntry, error) {
	query := `SELECT id, workflow_id, task, status, research, planning, execution, started_at, duration_seconds
		FROM workflows WHERE session_id = ? ORDER BY id ASC`
	rows, err := h.DB.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []WorkflowEntry
	for rows.Next() {
		e := WorkflowEntry{SessionID: sessionID}
		var research, planning, execution sql.NullString
		if err := rows.Scan(&e.ID, &e.WorkflowID, &e.Task, &e.Status,
			&research, &planning, &execution, &e.StartedAt, &e.DurationSeconds); err != nil {
			return nil, err
		}
		if research.Valid {
			e.Research = []byte(research.String)
		}
		if planning.Valid {
			e.Planning = []byte(planning.String)
		}
		if execution.Valid {
			e.Execution = []byte(execution.String)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteSession removes a session and all of its workflow history.
func (h *HistoryStore) DeleteSession(sessionID string) error {
	if _, err := h.DB.Exec(`DELETE FROM workflows WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	_, err := h.DB.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

// ExpireSessions drops every session (and its history) idle for longer than
// maxIdle. Returns how many sessions were removed.
func (h *HistoryStore) ExpireSessions(maxIdle time.Duration) (int, error) {
	rows, err := h.DB.Query(
		`SELECT id FROM sessions WHERE (julianday('now') - julianday(last_seen)) * 86400 >= ?`,
		maxIdle.Seconds())
	if err != nil {
		return 0, err
	}
	var expired []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		expired = append(expired, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range expired {
		if err := h.DeleteSession(id); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}

// CountSessions reports live sessions for the health endpoint.
func (h *HistoryStore) CountSessions() (int, error) {
	var n int
	err := h.DB.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

func (h *HistoryStore) Close() error {
	return h.DB.Close()
}

func nullable(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
