package gateway

import (
	"context"

	"github.com/rahul/sutra/internal/orchestrator"
)

// Gateway defines the interface for workflow entry points (HTTP, Telegram).
type Gateway interface {
	// Start begins serving; it blocks until the gateway shuts down.
	Start() error
	// Stop gracefully shuts down the gateway
	Stop() error
}

// Runner is the slice of the orchestrator gateways depend on.
type Runner interface {
	Run(ctx context.Context, req orchestrator.Request) (*orchestrator.Result, error)
}
