package governance

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Effect defines the result of a policy evaluation.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Request contains the parts of a workflow request subject to validation.
type Request struct {
	Task      string
	Context   string
	SessionID string
}

// Result contains the outcome of a policy evaluation.
type Result struct {
	Effect Effect
	Reason string
}

// PolicyEngine validates workflow requests before any model call is made.
type PolicyEngine interface {
	Evaluate(ctx context.Context, req Request) (Result, error)
}

// DefaultPolicyEngine rejects empty or oversized tasks and any input
// matching a denied pattern.
type DefaultPolicyEngine struct {
	MaxTaskLen    int
	MaxContextLen int
	DeniedRegex   []*regexp.Regexp
}

func NewDefaultPolicyEngine() *DefaultPolicyEngine {
	return &DefaultPolicyEngine{
		MaxTaskLen:    4000,
		MaxContextLen: 16000,
		DeniedRegex:   make([]*regexp.Regexp, 0),
	}
}

// DenyPattern rejects requests whose task or context matches pattern.
func (e *DefaultPolicyEngine) DenyPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	e.DeniedRegex = append(e.DeniedRegex, re)
	return nil
}

func (e *DefaultPolicyEngine) Evaluate(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Task) == "" {
		return Result{
			Effect: EffectDeny,
			Reason: "task must not be empty",
		}, nil
	}

	if e.MaxTaskLen > 0 && len(req.Task) > e.MaxTaskLen {
		return Result{
			Effect: EffectDeny,
			Reason: fmt.Sprintf("task exceeds maximum length of %d characters", e.MaxTaskLen),
		}, nil
	}

	if e.MaxContextLen > 0 && len(req.Context) > e.MaxContextLen {
		return Result{
			Effect: EffectDeny,
			Reason: fmt.Sprintf("context exceeds maximum length of %d characters", e.MaxContextLen),
		}, nil
	}

	for _, re := range e.DeniedRegex {
		if re.MatchString(req.Task) || re.MatchString(req.Context) {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("input matches restricted pattern: %s", re.String()),
			}, nil
		}
	}

	return Result{
		Effect: EffectAllow,
		Reason: "approved by default policy",
	}, nil
}
