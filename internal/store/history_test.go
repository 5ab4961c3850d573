package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	h, err := NewHistoryStore(InMemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestAppendAndListPreservesInsertionOrder(t *testing.T) {
	h := newTestStore(t)

	tasks := []string{"first task", "second task", "third task"}
	for _, task := range tasks {
		entry := &WorkflowEntry{
			WorkflowID: "wf-" + task,
			SessionID:  "sess-1",
			Task:       task,
			Status:     "completed",
			Research:   json.RawMessage(`{"stage":"research"}`),
			StartedAt:  time.Now(),
		}
		require.NoError(t, h.AppendWorkflow(entry))
		assert.NotZero(t, entry.ID)
	}

	entries, err := h.ListWorkflows("sess-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, task := range tasks {
		assert.Equal(t, task, entries[i].Task)
	}
	assert.JSONEq(t, `{"stage":"research"}`, string(entries[0].Research))
}

func TestListWorkflowsIsSessionScoped(t *testing.T) {
	h := newTestStore(t)

	require.NoError(t, h.AppendWorkflow(&WorkflowEntry{
		WorkflowID: "wf-a", SessionID: "sess-a", Task: "a", Status: "completed", StartedAt: time.Now(),
	}))
	require.NoError(t, h.AppendWorkflow(&WorkflowEntry{
		WorkflowID: "wf-b", SessionID: "sess-b", Task: "b", Status: "failed", StartedAt: time.Now(),
	}))

	entries, err := h.ListWorkflows("sess-a")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Task)
}

func TestDeleteSession(t *testing.T) {
	h := newTestStore(t)

	require.NoError(t, h.AppendWorkflow(&WorkflowEntry{
		WorkflowID: "wf-1", SessionID: "sess-1", Task: "t", Status: "completed", StartedAt: time.Now(),
	}))
	require.NoError(t, h.DeleteSession("sess-1"))

	entries, err := h.ListWorkflows("sess-1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	n, err := h.CountSessions()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExpireSessionsRemovesHistory(t *testing.T) {
	h := newTestStore(t)

	require.NoError(t, h.AppendWorkflow(&WorkflowEntry{
		WorkflowID: "wf-1", SessionID: "sess-old", Task: "t", Status: "completed", StartedAt: time.Now(),
	}))

	// Zero idle time expires everything seen up to now.
	expired, err := h.ExpireSessions(0)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	entries, err := h.ListWorkflows("sess-old")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExpireSessionsKeepsFreshSessions(t *testing.T) {
	h := newTestStore(t)

	require.NoError(t, h.Touch("sess-fresh"))

	expired, err := h.ExpireSessions(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, expired)

	n, err := h.CountSessions()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
