package agent

import (
	"fmt"
	"strings"
	"time"
)

// StageMetadata is attached to every stage result so history entries are
// self-describing.
type StageMetadata struct {
	Agent           string    `json:"agent"`
	Task            string    `json:"task"`
	Context         string    `json:"context,omitempty"`
	ResearchSummary string    `json:"research_summary,omitempty"`
	PlanningSummary string    `json:"planning_summary,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// --- Research stage ---

type TaskAnalysis struct {
	MainObjective   string   `json:"main_objective"`
	KeyDomains      []string `json:"key_domains"`
	ComplexityLevel string   `json:"complexity_level"`
	EstimatedScope  string   `json:"estimated_scope"`
}

type ResearchQuestion struct {
	Question  string `json:"question"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Rationale string `json:"rationale"`
}

type ResearchArea struct {
	Area         string   `json:"area"`
	Description  string   `json:"description"`
	KeyTopics    []string `json:"key_topics"`
	Dependencies []string `json:"dependencies"`
}

// ResearchResult is the research agent's output. Freeform carries the raw
// model text when the response could not be parsed as the expected JSON.
type ResearchResult struct {
	TaskAnalysis    TaskAnalysis       `json:"task_analysis"`
	Questions       []ResearchQuestion `json:"research_questions"`
	Areas           []ResearchArea     `json:"research_areas"`
	SuccessCriteria []string           `json:"success_criteria"`
	Freeform        string             `json:"response,omitempty"`
	Metadata        StageMetadata      `json:"metadata"`
}

// Summary renders the compact digest fed into the planning prompt.
func (r *ResearchResult) Summary() string {
	if r.Freeform != "" {
		return truncate(r.Freeform, 2000)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Main Objective: %s\n", orNA(r.TaskAnalysis.MainObjective))
	fmt.Fprintf(&b, "Key Domains: %s\n", strings.Join(r.TaskAnalysis.KeyDomains, ", "))
	fmt.Fprintf(&b, "Complexity: %s\n", orNA(r.TaskAnalysis.ComplexityLevel))

	if len(r.Questions) > 0 {
		fmt.Fprintf(&b, "\nResearch Questions (%d total):\n", len(r.Questions))
		for i, q := range r.Questions {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "%d. %s (%s priority)\n", i+1, q.Question, orNA(q.Priority))
		}
	}

	if len(r.Areas) > 0 {
		fmt.Fprintf(&b, "\nResearch Areas (%d total):\n", len(r.Areas))
		for _, a := range r.Areas {
			fmt.Fprintf(&b, "- %s: %s\n", a.Area, a.Description)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// --- Planning stage ---

type PlanOverview struct {
	Overview             string   `json:"overview"`
	TotalEstimatedEffort string   `json:"total_estimated_effort"`
	EstimatedTimeline    string   `json:"estimated_timeline"`
	KeyMilestones        []string `json:"key_milestones"`
}

type PlanPhase struct {
	PhaseNumber       int      `json:"phase_number"`
	PhaseName         string   `json:"phase_name"`
	Description       string   `json:"description"`
	Objectives        []string `json:"objectives"`
	EstimatedDuration string   `json:"estimated_duration"`
	Dependencies      []string `json:"dependencies"`
}

type PlanStep struct {
	StepNumber      int      `json:"step_number"`
	Phase           string   `json:"phase"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	InputsRequired  []string `json:"inputs_required"`
	OutputsExpected []string `json:"outputs_expected"`
	EffortEstimate  string   `json:"effort_estimate"`
	Dependencies    []string `json:"dependencies"`
	SuccessCriteria []string `json:"success_criteria"`
}

type PlanRisk struct {
	Risk        string `json:"risk"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	Mitigation  string `json:"mitigation"`
}

type ResourceRequirements struct {
	Tools     []string `json:"tools"`
	Skills    []string `json:"skills"`
	Materials []string `json:"materials"`
}

// PlanResult is the planning agent's output.
type PlanResult struct {
	ExecutionPlan PlanOverview         `json:"execution_plan"`
	Phases        []PlanPhase          `json:"phases"`
	Steps         []PlanStep           `json:"detailed_steps"`
	Risks         []PlanRisk           `json:"risk_assessment"`
	Resources     ResourceRequirements `json:"resource_requirements"`
	Freeform      string               `json:"response,omitempty"`
	Metadata      StageMetadata        `json:"metadata"`
}

// Summary renders the compact digest fed into the execution prompt.
func (p *PlanResult) Summary() string {
	if p.Freeform != "" {
		return truncate(p.Freeform, 2000)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan Overview: %s\n", orNA(p.ExecutionPlan.Overview))
	fmt.Fprintf(&b, "Estimated Effort: %s\n", orNA(p.ExecutionPlan.TotalEstimatedEffort))
	fmt.Fprintf(&b, "Timeline: %s\n", orNA(p.ExecutionPlan.EstimatedTimeline))

	if len(p.Phases) > 0 {
		fmt.Fprintf(&b, "\nExecution Phases (%d total):\n", len(p.Phases))
		for _, ph := range p.Phases {
			fmt.Fprintf(&b, "- Phase %d: %s\n", ph.PhaseNumber, ph.PhaseName)
		}
	}

	if len(p.Steps) > 0 {
		fmt.Fprintf(&b, "\nDetailed Steps (%d total):\n", len(p.Steps))
		for i, s := range p.Steps {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, s.Title)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// --- Execution stage ---

type ExecutiveSummary struct {
	ProblemStatement string   `json:"problem_statement"`
	SolutionOverview string   `json:"solution_overview"`
	KeyInsights      []string `json:"key_insights"`
	Recommendations  []string `json:"recommendations"`
}

type Deliverable struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Format      string `json:"format"`
	Priority    string `json:"priority"`
}

type GuideStep struct {
	Step            int    `json:"step"`
	Action          string `json:"action"`
	Details         string `json:"details"`
	ExpectedOutcome string `json:"expected_outcome"`
	Validation      string `json:"validation"`
}

type ImplementationGuide struct {
	Prerequisites      []string    `json:"prerequisites"`
	Steps              []GuideStep `json:"step_by_step_instructions"`
	Timeline           string      `json:"timeline"`
	ResourceAllocation string      `json:"resource_allocation"`
}

type CodeTemplate struct {
	Language          string   `json:"language"`
	Purpose           string   `json:"purpose"`
	Filename          string   `json:"filename"`
	Code              string   `json:"code"`
	Dependencies      []string `json:"dependencies"`
	UsageInstructions string   `json:"usage_instructions"`
}

type QualityAssurance struct {
	TestingStrategy    string   `json:"testing_strategy"`
	ValidationCriteria []string `json:"validation_criteria"`
	RiskMitigation     []string `json:"risk_mitigation"`
}

type NextStep struct {
	Action       string   `json:"action"`
	Timeline     string   `json:"timeline"`
	Owner        string   `json:"owner"`
	Dependencies []string `json:"dependencies"`
}

// ExecutionResult is the execution agent's output and the workflow's
// terminal artifact.
type ExecutionResult struct {
	Summary       ExecutiveSummary    `json:"executive_summary"`
	Deliverables  []Deliverable       `json:"deliverables"`
	Guide         ImplementationGuide `json:"implementation_guide"`
	CodeTemplates []CodeTemplate      `json:"code_templates"`
	QA            QualityAssurance    `json:"quality_assurance"`
	NextSteps     []NextStep          `json:"next_steps"`
	Freeform      string              `json:"response,omitempty"`
	Metadata      StageMetadata       `json:"metadata"`
}

// Digest renders a short chat-friendly view of the final output, used by
// the telegram gateway.
func (e *ExecutionResult) Digest() string {
	if e.Freeform != "" {
		return truncate(e.Freeform, 3000)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Solution*: %s\n", orNA(e.Summary.SolutionOverview))
	if len(e.Summary.KeyInsights) > 0 {
		b.WriteString("\n*Key Insights*:\n")
		for _, k := range e.Summary.KeyInsights {
			fmt.Fprintf(&b, "- %s\n", k)
		}
	}
	if len(e.Deliverables) > 0 {
		fmt.Fprintf(&b, "\n*Deliverables* (%d):\n", len(e.Deliverables))
		for _, d := range e.Deliverables {
			fmt.Fprintf(&b, "- %s (%s)\n", d.Title, orNA(d.Type))
		}
	}
	if len(e.NextSteps) > 0 {
		b.WriteString("\n*Next Steps*:\n")
		for i, n := range e.NextSteps {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, n.Action)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (truncated) ..."
}
