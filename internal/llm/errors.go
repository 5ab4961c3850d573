package llm

import "strings"

// Kind classifies provider errors so gateways can pick a response code and
// users get an actionable message instead of a raw API dump.
type Kind string

const (
	KindAuth          Kind = "auth"
	KindRateLimit     Kind = "rate_limit"
	KindContextLength Kind = "context_length"
	KindModelNotFound Kind = "model_not_found"
	KindNetwork       Kind = "network"
	KindUnknown       Kind = "unknown"
)

// Classify inspects a provider/transport error message. Providers do not
// expose typed errors through the model interface, so substring matching is
// the only signal available.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	msg := err.Error()

	switch {
	case contains(msg, "401", "Unauthorized", "invalid_api_key", "Incorrect API key"):
		return KindAuth
	case contains(msg, "429", "Rate limit", "Too Many Requests", "rate_limit_exceeded"):
		return KindRateLimit
	case contains(msg, "context_length", "max_tokens", "too many tokens"):
		return KindContextLength
	case contains(msg, "model_not_found", "does not exist"):
		return KindModelNotFound
	case contains(msg, "deadline exceeded", "timeout", "connection refused", "no such host", "EOF"):
		return KindNetwork
	}
	return KindUnknown
}

// Describe turns a classified error into a short user-facing message.
func Describe(kind Kind) string {
	switch kind {
	case KindAuth:
		return "authentication failed: check the configured API key"
	case KindRateLimit:
		return "rate limit exceeded: wait a moment and try again"
	case KindContextLength:
		return "request too large for the model's context window"
	case KindModelNotFound:
		return "configured model is not available for this API key"
	case KindNetwork:
		return "could not reach the model provider"
	default:
		return "model provider returned an error"
	}
}

func contains(msg string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}
