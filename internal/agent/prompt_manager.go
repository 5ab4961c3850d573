package agent

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var embeddedPrompts embed.FS

// StagePrompt is one stage's system prompt plus its sampling parameters,
// taken from the YAML front matter of the prompt file.
type StagePrompt struct {
	System      string
	Temperature float64
	MaxTokens   int
}

type frontMatter struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// PromptManager resolves stage prompts. Prompts ship embedded in the binary;
// a directory from config overrides them file by file.
type PromptManager struct {
	Directory string
}

func NewPromptManager(dir string) *PromptManager {
	return &PromptManager{Directory: dir}
}

// Get returns the prompt for a stage name (research, planning, execution).
func (pm *PromptManager) Get(stage string) (StagePrompt, error) {
	name := stage + ".md"

	if pm.Directory != "" {
		path := filepath.Join(pm.Directory, name)
		if data, err := os.ReadFile(path); err == nil {
			return parseStagePrompt(data)
		} else if !os.IsNotExist(err) {
			return StagePrompt{}, fmt.Errorf("failed to read prompt file %s: %v", path, err)
		}
	}

	data, err := embeddedPrompts.ReadFile("prompts/" + name)
	if err != nil {
		return StagePrompt{}, fmt.Errorf("no prompt for stage %q: %v", stage, err)
	}
	return parseStagePrompt(data)
}

// parseStagePrompt splits an optional YAML front matter block (delimited by
// --- lines) from the prompt body.
func parseStagePrompt(data []byte) (StagePrompt, error) {
	text := string(data)
	sp := StagePrompt{Temperature: 0.7, MaxTokens: 2048}

	if strings.HasPrefix(text, "---\n") {
		rest := text[len("---\n"):]
		idx := strings.Index(rest, "\n---")
		if idx < 0 {
			return StagePrompt{}, fmt.Errorf("unterminated front matter in prompt")
		}
		var fm frontMatter
		if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
			return StagePrompt{}, fmt.Errorf("invalid prompt front matter: %v", err)
		}
		if fm.Temperature > 0 {
			sp.Temperature = fm.Temperature
		}
		if fm.MaxTokens > 0 {
			sp.MaxTokens = fm.MaxTokens
		}
		body := rest[idx+len("\n---"):]
		body = strings.TrimPrefix(body, "\n")
		text = body
	}

	sp.System = strings.TrimSpace(text)
	if sp.System == "" {
		return StagePrompt{}, fmt.Errorf("prompt body is empty")
	}
	return sp, nil
}
