package agent

import (
	"context"
	"fmt"

	"github.com/rahul/sutra/internal/llm"
)

// PlanningAgent converts research findings into an ordered execution plan.
type PlanningAgent struct {
	base
}

func NewPlanningAgent(client *llm.Client, prompts *PromptManager) *PlanningAgent {
	return &PlanningAgent{base{Client: client, Prompts: prompts}}
}

func (a *PlanningAgent) Name() string { return StagePlanning }

func (a *PlanningAgent) Process(ctx context.Context, task string, research *ResearchResult) (*PlanResult, error) {
	sp, err := a.prompt(StagePlanning)
	if err != nil {
		return nil, err
	}

	researchSummary := research.Summary()
	prompt := fmt.Sprintf(
		"ORIGINAL TASK: %s\n\nRESEARCH FINDINGS:\n%s\n\n"+
			"Create a detailed execution plan from the findings above. Cover every research area, "+
			"order steps by their dependencies, and give each step clear success criteria.",
		task, researchSummary)

	raw, err := a.Client.GenerateStructured(ctx, sp.System, prompt, llm.Options{
		Temperature: sp.Temperature,
		MaxTokens:   sp.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var result PlanResult
	if !decodeInto(raw, &result) {
		result = PlanResult{Freeform: string(raw)}
	}
	result.Metadata = StageMetadata{
		Agent:           "Planning Agent",
		Task:            task,
		ResearchSummary: researchSummary,
		Timestamp:       now(),
	}
	return &result, nil
}

// Validate runs the agent against a canned research result.
func (a *PlanningAgent) Validate(ctx context.Context) error {
	research := &ResearchResult{
		TaskAnalysis: TaskAnalysis{
			MainObjective:   "Create a simple web application",
			KeyDomains:      []string{"Frontend", "Backend"},
			ComplexityLevel: "medium",
		},
		Questions: []ResearchQuestion{{Question: "Which framework fits?", Priority: "high"}},
		Areas:     []ResearchArea{{Area: "Technology Stack", Description: "Pick the stack"}},
	}

	result, err := a.Process(ctx, "Create a web app", research)
	if err != nil {
		return err
	}
	if result.Freeform != "" || len(result.Phases) == 0 || len(result.Steps) == 0 {
		return fmt.Errorf("planning agent returned an unstructured or empty result")
	}
	return nil
}
