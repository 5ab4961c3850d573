package agent

import (
	"context"
	"fmt"

	"github.com/rahul/sutra/internal/llm"
)

// ResearchAgent expands a task into research questions and areas. It is the
// first stage of the pipeline and the only one that sees the user's raw
// context.
type ResearchAgent struct {
	base
}

func NewResearchAgent(client *llm.Client, prompts *PromptManager) *ResearchAgent {
	return &ResearchAgent{base{Client: client, Prompts: prompts}}
}

func (a *ResearchAgent) Name() string { return StageResearch }

func (a *ResearchAgent) Process(ctx context.Context, task, taskContext string) (*ResearchResult, error) {
	sp, err := a.prompt(StageResearch)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("TASK: %s\n", task)
	if taskContext != "" {
		prompt += fmt.Sprintf("\nCONTEXT: %s\n", taskContext)
	}
	prompt += "\nAnalyze this task and produce a research plan following the structure in the system prompt."

	raw, err := a.Client.GenerateStructured(ctx, sp.System, prompt, llm.Options{
		Temperature: sp.Temperature,
		MaxTokens:   sp.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var result ResearchResult
	if !decodeInto(raw, &result) {
		result = ResearchResult{Freeform: string(raw)}
	}
	result.Metadata = StageMetadata{
		Agent:     "Research Agent",
		Task:      task,
		Context:   taskContext,
		Timestamp: now(),
	}
	return &result, nil
}

// Validate runs a smoke task through the agent and checks the structured
// fields came back populated.
func (a *ResearchAgent) Validate(ctx context.Context) error {
	result, err := a.Process(ctx, "Create a simple to-do list application", "")
	if err != nil {
		return err
	}
	if result.Freeform != "" || len(result.Questions) == 0 || len(result.Areas) == 0 {
		return fmt.Errorf("research agent returned an unstructured or empty result")
	}
	return nil
}
