package output

import (
	"context"

	"arch-agent/internal/domain/entity"
)

// ToolProvider is one external tool server scoped to a single domain
// (template authoring, diagram rendering, or price lookup). The tool list
// is passed through to the LLM opaquely; only its size is logged.
type ToolProvider interface {
	Name() string
	Connect(ctx context.Context) error
	Connected() bool
	Tools() []entity.ToolDefinition
	Call(ctx context.Context, name string, args map[string]any) (string, error)
	Close() error
}
