package input

import (
	"context"

	"arch-agent/internal/application/port/output"
)

type SessionResult struct {
	FinalAnswer string
	Iterations  int
}

// SessionRunner drives one tool-augmented agent session: a natural-language
// prompt plus the tools of a single provider, returning the agent's final
// natural-language answer.
type SessionRunner interface {
	Run(ctx context.Context, prompt string, provider output.ToolProvider) (*SessionResult, error)
}
