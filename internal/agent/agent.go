package agent

import (
	"encoding/json"
	"time"

	"github.com/rahul/sutra/internal/llm"
)

// Stage names, also used as prompt file basenames and in error reporting.
const (
	StageResearch  = "research"
	StagePlanning  = "planning"
	StageExecution = "execution"
)

// base carries what every agent needs: the LLM client and prompt source.
type base struct {
	Client  *llm.Client
	Prompts *PromptManager
}

func (b base) prompt(stage string) (StagePrompt, error) {
	return b.Prompts.Get(stage)
}

// decodeInto unmarshals a structured model response into dst. Returns false
// when the payload does not fit the expected shape, in which case the caller
// keeps the raw text as a freeform result.
func decodeInto(raw json.RawMessage, dst any) bool {
	return json.Unmarshal(raw, dst) == nil
}

func now() time.Time {
	return time.Now().UTC()
}
