package service

import (
	"context"
	"fmt"

	"arch-agent/internal/application/port/output"
)

// Provider names, one per generation stage.
const (
	ProviderCloudFormation = "cloudformation"
	ProviderPricing        = "pricing"
	ProviderDiagram        = "diagram"
)

// ProviderRegistry holds the three tool providers the pipeline draws
// sessions from.
type ProviderRegistry struct {
	providers map[string]output.ToolProvider
	order     []string
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]output.ToolProvider),
	}
}

func (r *ProviderRegistry) Register(provider output.ToolProvider) {
	if _, exists := r.providers[provider.Name()]; !exists {
		r.order = append(r.order, provider.Name())
	}
	r.providers[provider.Name()] = provider
}

func (r *ProviderRegistry) Get(name string) (output.ToolProvider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

func (r *ProviderRegistry) All() []output.ToolProvider {
	result := make([]output.ToolProvider, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.providers[name])
	}
	return result
}

// ConnectAll connects every registered provider. Any failure is fatal for
// readiness: generation must not start against a partially connected
// registry.
func (r *ProviderRegistry) ConnectAll(ctx context.Context) error {
	for _, provider := range r.All() {
		if err := provider.Connect(ctx); err != nil {
			return fmt.Errorf("connect %s tool server: %w", provider.Name(), err)
		}
	}
	return nil
}

func (r *ProviderRegistry) Connected() bool {
	if len(r.providers) == 0 {
		return false
	}
	for _, provider := range r.providers {
		if !provider.Connected() {
			return false
		}
	}
	return true
}

func (r *ProviderRegistry) Close() {
	for _, provider := range r.All() {
		_ = provider.Close()
	}
}
