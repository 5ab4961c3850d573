package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rahul/sutra/internal/agent"
	"github.com/rahul/sutra/internal/governance"
	"github.com/rahul/sutra/internal/observability"
	"github.com/rahul/sutra/internal/store"
	"github.com/rahul/sutra/internal/tools"
)

// Request is the immutable input of one workflow run.
type Request struct {
	Task          string   `json:"task"`
	Context       string   `json:"context,omitempty"`
	ReferenceURLs []string `json:"reference_urls,omitempty"`
	SessionID     string   `json:"session_id,omitempty"`
}

// Result aggregates the three stage outputs of a completed workflow.
type Result struct {
	Status        string                 `json:"status"`
	SessionID     string                 `json:"session_id"`
	WorkflowID    string                 `json:"workflow_id"`
	Research      *agent.ResearchResult  `json:"research_results"`
	Planning      *agent.PlanResult      `json:"planning_results"`
	Execution     *agent.ExecutionResult `json:"execution_results"`
	TotalDuration float64                `json:"total_duration"`
}

// StageError reports which stage halted the pipeline. Later stages are
// never invoked after a failure.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ValidationError rejects a request before any model call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// History is the slice of the store the orchestrator needs.
type History interface {
	Touch(sessionID string) error
	AppendWorkflow(entry *store.WorkflowEntry) error
}

// Orchestrator sequences the three agents: research, then planning on the
// research output, then execution on both.
type Orchestrator struct {
	Research  *agent.ResearchAgent
	Planning  *agent.PlanningAgent
	Execution *agent.ExecutionAgent
	Policy    governance.PolicyEngine
	History   History
	Fetcher   *tools.Fetcher
	Logger    *observability.Logger
	MaxURLs   int
}

func New(research *agent.ResearchAgent, planning *agent.PlanningAgent, execution *agent.ExecutionAgent,
	policy governance.PolicyEngine, history History, fetcher *tools.Fetcher, logger *observability.Logger) *Orchestrator {
	return &Orchestrator{
		Research:  research,
		Planning:  planning,
		Execution: execution,
		Policy:    policy,
		History:   history,
		Fetcher:   fetcher,
		Logger:    logger,
		MaxURLs:   3,
	}
}

// Run executes the pipeline for one request. It fails at the first erroring
// stage; no retries, no partial results.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	policyRes, err := o.Policy.Evaluate(ctx, governance.Request{
		Task:      req.Task,
		Context:   req.Context,
		SessionID: req.SessionID,
	})
	if err != nil {
		return nil, err
	}
	if policyRes.Effect == governance.EffectDeny {
		o.Logger.LogPolicy(req.SessionID, string(policyRes.Effect), policyRes.Reason)
		return nil, &ValidationError{Reason: policyRes.Reason}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	workflowID := uuid.NewString()

	if err := o.History.Touch(sessionID); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	taskContext := req.Context
	if o.Fetcher != nil {
		taskContext = o.Fetcher.EnrichContext(ctx, req.Context, req.ReferenceURLs, o.MaxURLs)
	}

	defer observability.SetStatus(observability.StageIdle, "")

	// Stage 1: research
	observability.SetStatus(observability.StageResearch, req.Task)
	o.Logger.LogStage(sessionID, workflowID, agent.StageResearch, "started")
	research, err := o.Research.Process(ctx, req.Task, taskContext)
	if err != nil {
		return nil, o.fail(sessionID, workflowID, req.Task, agent.StageResearch, start, err)
	}
	o.logStageDone(sessionID, workflowID, agent.StageResearch, research)

	// Stage 2: planning, on the research output
	observability.SetStatus(observability.StagePlanning, req.Task)
	o.Logger.LogStage(sessionID, workflowID, agent.StagePlanning, "started")
	plan, err := o.Planning.Process(ctx, req.Task, research)
	if err != nil {
		return nil, o.fail(sessionID, workflowID, req.Task, agent.StagePlanning, start, err)
	}
	o.logStageDone(sessionID, workflowID, agent.StagePlanning, plan)

	// Stage 3: execution, on both prior outputs
	observability.SetStatus(observability.StageExecution, req.Task)
	o.Logger.LogStage(sessionID, workflowID, agent.StageExecution, "started")
	execution, err := o.Execution.Process(ctx, req.Task, research, plan)
	if err != nil {
		return nil, o.fail(sessionID, workflowID, req.Task, agent.StageExecution, start, err)
	}
	o.logStageDone(sessionID, workflowID, agent.StageExecution, execution)

	duration := time.Since(start)
	result := &Result{
		Status:        "completed",
		SessionID:     sessionID,
		WorkflowID:    workflowID,
		Research:      research,
		Planning:      plan,
		Execution:     execution,
		TotalDuration: duration.Seconds(),
	}

	entry := &store.WorkflowEntry{
		WorkflowID:      workflowID,
		SessionID:       sessionID,
		Task:            req.Task,
		Status:          "completed",
		Research:        mustJSON(research),
		Planning:        mustJSON(plan),
		Execution:       mustJSON(execution),
		StartedAt:       start,
		DurationSeconds: duration.Seconds(),
	}
	if err := o.History.AppendWorkflow(entry); err != nil {
		return nil, fmt.Errorf("failed to record workflow: %w", err)
	}

	o.Logger.LogWorkflow(sessionID, workflowID, "completed", duration)
	return result, nil
}

func (o *Orchestrator) fail(sessionID, workflowID, task, stage string, start time.Time, err error) error {
	duration := time.Since(start)
	o.Logger.LogStage(sessionID, workflowID, stage, "failed")
	o.Logger.LogWorkflow(sessionID, workflowID, "failed", duration)

	// Best effort; the stage error is what the caller needs to see.
	_ = o.History.AppendWorkflow(&store.WorkflowEntry{
		WorkflowID:      workflowID,
		SessionID:       sessionID,
		Task:            task,
		Status:          "failed",
		StartedAt:       start,
		DurationSeconds: duration.Seconds(),
	})

	return &StageError{Stage: stage, Err: err}
}

func (o *Orchestrator) logStageDone(sessionID, workflowID, stage string, result any) {
	o.Logger.LogStage(sessionID, workflowID, stage, "completed")
	o.Logger.LogLLM(sessionID, workflowID, stage, nil, string(mustJSON(result)))
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
