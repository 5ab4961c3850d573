package agent

import (
	"context"
	"testing"

	"github.com/rahul/sutra/internal/llm"
	"github.com/rahul/sutra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const researchJSON = `{
	"task_analysis": {
		"main_objective": "Build a todo app",
		"key_domains": ["Frontend", "Backend"],
		"complexity_level": "low",
		"estimated_scope": "small"
	},
	"research_questions": [
		{"question": "Which framework?", "category": "Frontend", "priority": "high", "rationale": "drives everything"},
		{"question": "Which storage?", "category": "Backend", "priority": "medium", "rationale": "data model"}
	],
	"research_areas": [
		{"area": "Technology Stack", "description": "Pick the stack", "key_topics": ["frameworks"], "dependencies": []}
	],
	"success_criteria": ["questions answered"]
}`

const planJSON = `{
	"execution_plan": {
		"overview": "Three phase build",
		"total_estimated_effort": "medium",
		"estimated_timeline": "2 weeks",
		"key_milestones": ["skeleton", "features"]
	},
	"phases": [
		{"phase_number": 1, "phase_name": "Setup", "description": "bootstrap", "objectives": ["init repo"], "estimated_duration": "1 day", "dependencies": []}
	],
	"detailed_steps": [
		{"step_number": 1, "phase": "Setup", "title": "Initialize project", "description": "create repo", "effort_estimate": "low"}
	],
	"risk_assessment": [],
	"resource_requirements": {"tools": ["git"], "skills": ["go"], "materials": []}
}`

func TestResearchAgent_Process(t *testing.T) {
	fake := &testutil.FakeModel{Responses: []string{researchJSON}}
	a := NewResearchAgent(llm.NewClient(fake), NewPromptManager(""))

	result, err := a.Process(context.Background(), "Build a todo app", "keep it small")
	require.NoError(t, err)

	assert.Equal(t, "Build a todo app", result.TaskAnalysis.MainObjective)
	assert.Len(t, result.Questions, 2)
	assert.Empty(t, result.Freeform)
	assert.Equal(t, "Research Agent", result.Metadata.Agent)
	assert.Equal(t, "keep it small", result.Metadata.Context)

	// Task and context must reach the prompt.
	prompt := fake.PromptText(0)
	assert.Contains(t, prompt, "TASK: Build a todo app")
	assert.Contains(t, prompt, "CONTEXT: keep it small")
	assert.NotEmpty(t, fake.SystemText(0))
}

func TestResearchAgent_FreeformFallback(t *testing.T) {
	fake := &testutil.FakeModel{Responses: []string{"I cannot produce JSON today."}}
	a := NewResearchAgent(llm.NewClient(fake), NewPromptManager(""))

	result, err := a.Process(context.Background(), "task", "")
	require.NoError(t, err)
	assert.Equal(t, "I cannot produce JSON today.", result.Freeform)
	assert.Empty(t, result.Questions)
}

func TestPlanningAgent_ProcessFeedsResearchForward(t *testing.T) {
	fake := &testutil.FakeModel{Responses: []string{planJSON}}
	a := NewPlanningAgent(llm.NewClient(fake), NewPromptManager(""))

	research := &ResearchResult{
		TaskAnalysis: TaskAnalysis{MainObjective: "Build a todo app", KeyDomains: []string{"Frontend"}},
		Questions:    []ResearchQuestion{{Question: "Which framework?", Priority: "high"}},
		Areas:        []ResearchArea{{Area: "Technology Stack", Description: "Pick the stack"}},
	}

	result, err := a.Process(context.Background(), "Build a todo app", research)
	require.NoError(t, err)
	assert.Equal(t, "Three phase build", result.ExecutionPlan.Overview)
	require.Len(t, result.Phases, 1)

	prompt := fake.PromptText(0)
	assert.Contains(t, prompt, "Build a todo app")
	assert.Contains(t, prompt, "Which framework?")
	assert.Contains(t, prompt, "Technology Stack")
	assert.Contains(t, result.Metadata.ResearchSummary, "Which framework?")
}

func TestExecutionAgent_ProcessFeedsBothSummaries(t *testing.T) {
	execJSON := `{
		"executive_summary": {"problem_statement": "todo app", "solution_overview": "build it", "key_insights": ["keep it simple"], "recommendations": []},
		"deliverables": [{"type": "code", "title": "App skeleton", "description": "starter", "content": "...", "format": "code", "priority": "high"}],
		"implementation_guide": {"prerequisites": [], "step_by_step_instructions": [], "timeline": "", "resource_allocation": ""},
		"code_templates": [],
		"quality_assurance": {"testing_strategy": "", "validation_criteria": [], "risk_mitigation": []},
		"next_steps": []
	}`
	fake := &testutil.FakeModel{Responses: []string{execJSON}}
	a := NewExecutionAgent(llm.NewClient(fake), NewPromptManager(""))

	research := &ResearchResult{TaskAnalysis: TaskAnalysis{MainObjective: "Build a todo app"}}
	plan := &PlanResult{
		ExecutionPlan: PlanOverview{Overview: "Three phase build"},
		Steps:         []PlanStep{{StepNumber: 1, Title: "Initialize project"}},
	}

	result, err := a.Process(context.Background(), "Build a todo app", research, plan)
	require.NoError(t, err)
	require.Len(t, result.Deliverables, 1)
	assert.Equal(t, "App skeleton", result.Deliverables[0].Title)

	prompt := fake.PromptText(0)
	assert.Contains(t, prompt, "RESEARCH FINDINGS")
	assert.Contains(t, prompt, "EXECUTION PLAN")
	assert.Contains(t, prompt, "Three phase build")
	assert.Contains(t, prompt, "Initialize project")
}

func TestResearchSummary(t *testing.T) {
	r := &ResearchResult{
		TaskAnalysis: TaskAnalysis{
			MainObjective:   "Build a todo app",
			KeyDomains:      []string{"Frontend", "Backend"},
			ComplexityLevel: "low",
		},
		Questions: []ResearchQuestion{
			{Question: "q1", Priority: "high"}, {Question: "q2", Priority: "low"},
			{Question: "q3"}, {Question: "q4"}, {Question: "q5"}, {Question: "q6"},
		},
		Areas: []ResearchArea{{Area: "Stack", Description: "pick it"}},
	}

	s := r.Summary()
	assert.Contains(t, s, "Main Objective: Build a todo app")
	assert.Contains(t, s, "Frontend, Backend")
	assert.Contains(t, s, "Research Questions (6 total)")
	assert.Contains(t, s, "q5")
	assert.NotContains(t, s, "q6", "summary shows at most five questions")
	assert.Contains(t, s, "- Stack: pick it")
}

func TestPlanSummary_Freeform(t *testing.T) {
	p := &PlanResult{Freeform: "a plain text plan"}
	assert.Equal(t, "a plain text plan", p.Summary())
}

func TestAgentValidate(t *testing.T) {
	t.Run("research passes on structured output", func(t *testing.T) {
		fake := &testutil.FakeModel{Responses: []string{researchJSON}}
		a := NewResearchAgent(llm.NewClient(fake), NewPromptManager(""))
		assert.NoError(t, a.Validate(context.Background()))
	})

	t.Run("research fails on prose output", func(t *testing.T) {
		fake := &testutil.FakeModel{Responses: []string{"prose"}}
		a := NewResearchAgent(llm.NewClient(fake), NewPromptManager(""))
		assert.Error(t, a.Validate(context.Background()))
	})

	t.Run("planning passes on structured output", func(t *testing.T) {
		fake := &testutil.FakeModel{Responses: []string{planJSON}}
		a := NewPlanningAgent(llm.NewClient(fake), NewPromptManager(""))
		assert.NoError(t, a.Validate(context.Background()))
	})
}
