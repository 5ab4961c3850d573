package agent

import (
	"context"
	"fmt"

	"github.com/rahul/sutra/internal/llm"
)

// ExecutionAgent synthesizes research and plan into the final deliverable.
type ExecutionAgent struct {
	base
}

func NewExecutionAgent(client *llm.Client, prompts *PromptManager) *ExecutionAgent {
	return &ExecutionAgent{base{Client: client, Prompts: prompts}}
}

func (a *ExecutionAgent) Name() string { return StageExecution }

func (a *ExecutionAgent) Process(ctx context.Context, task string, research *ResearchResult, plan *PlanResult) (*ExecutionResult, error) {
	sp, err := a.prompt(StageExecution)
	if err != nil {
		return nil, err
	}

	researchSummary := research.Summary()
	planSummary := plan.Summary()
	prompt := fmt.Sprintf(
		"ORIGINAL TASK: %s\n\nRESEARCH FINDINGS:\n%s\n\nEXECUTION PLAN:\n%s\n\n"+
			"Deliver the final output for this task. Build on the plan, address every research area, "+
			"and make each deliverable immediately usable.",
		task, researchSummary, planSummary)

	raw, err := a.Client.GenerateStructured(ctx, sp.System, prompt, llm.Options{
		Temperature: sp.Temperature,
		MaxTokens:   sp.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var result ExecutionResult
	if !decodeInto(raw, &result) {
		result = ExecutionResult{Freeform: string(raw)}
	}
	result.Metadata = StageMetadata{
		Agent:           "Execution Agent",
		Task:            task,
		ResearchSummary: researchSummary,
		PlanningSummary: planSummary,
		Timestamp:       now(),
	}
	return &result, nil
}

// Validate runs the agent against canned upstream results.
func (a *ExecutionAgent) Validate(ctx context.Context) error {
	research := &ResearchResult{
		TaskAnalysis: TaskAnalysis{MainObjective: "Create a simple web application"},
		Questions:    []ResearchQuestion{{Question: "Which framework fits?"}},
	}
	plan := &PlanResult{
		ExecutionPlan: PlanOverview{Overview: "Build the app with a modern stack"},
		Phases:        []PlanPhase{{PhaseNumber: 1, PhaseName: "Setup"}},
		Steps:         []PlanStep{{StepNumber: 1, Title: "Choose the stack"}},
	}

	result, err := a.Process(ctx, "Create a web app", research, plan)
	if err != nil {
		return err
	}
	if result.Freeform != "" || len(result.Deliverables) == 0 {
		return fmt.Errorf("execution agent returned an unstructured or empty result")
	}
	return nil
}
