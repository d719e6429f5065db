package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/mcp-go/client"

	"arch-agent/internal/application/port/output"
	"arch-agent/internal/application/service"
	"arch-agent/internal/domain/entity"
)

var _ output.ToolProvider = (*Provider)(nil)

// ServerConfig describes how to spawn one MCP tool server over stdio.
type ServerConfig struct {
	Name    string
	Command string
	Args    []string
}

// DefaultServers returns the three AWS tool servers backing the pipeline,
// launched through uvx. The CloudFormation server supports a read-only
// flag so the agent can never mutate real infrastructure.
func DefaultServers(readonly bool) []ServerConfig {
	cfnArgs := []string{"awslabs.cfn-mcp-server@latest"}
	if readonly {
		cfnArgs = append(cfnArgs, "--readonly")
	}
	return []ServerConfig{
		{Name: service.ProviderCloudFormation, Command: "uvx", Args: cfnArgs},
		{Name: service.ProviderPricing, Command: "uvx", Args: []string{"awslabs.aws-pricing-mcp-server@latest"}},
		{Name: service.ProviderDiagram, Command: "uvx", Args: []string{"awslabs.aws-diagram-mcp-server@latest"}},
	}
}

// Provider wraps one MCP client and exposes its tools to the session loop.
type Provider struct {
	name      string
	command   string
	args      []string
	timeout   time.Duration
	logger    output.LoggerPort
	transport client.Transport
	client    *client.Client
	tools     []entity.ToolDefinition
	connected bool
}

func NewProvider(cfg ServerConfig, timeout time.Duration, logger output.LoggerPort) *Provider {
	return &Provider{
		name:    cfg.Name,
		command: cfg.Command,
		args:    cfg.Args,
		timeout: timeout,
		logger:  logger,
	}
}

// NewProviderWithTransport injects a pre-built transport; used by tests.
func NewProviderWithTransport(name string, transport client.Transport, timeout time.Duration, logger output.LoggerPort) *Provider {
	return &Provider{
		name:      name,
		transport: transport,
		timeout:   timeout,
		logger:    logger,
	}
}

func (p *Provider) Name() string {
	return p.name
}

// Connect spawns the server, performs the MCP handshake and caches the
// tool list. The tool list is passed through opaquely; only its size is
// logged.
func (p *Provider) Connect(ctx context.Context) error {
	if p.transport == nil {
		transport, err := client.NewStdioTransport(p.command, p.args...)
		if err != nil {
			return fmt.Errorf("stdio transport: %w", err)
		}
		p.transport = transport
	}

	p.client = client.New(p.transport, client.WithTimeout(p.timeout))

	info, err := p.client.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if !info.Capabilities.Tools {
		return fmt.Errorf("server %s does not expose tools", p.name)
	}

	tools, err := p.client.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}

	p.tools = make([]entity.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		p.tools = append(p.tools, entity.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schemaToParameters(t.InputSchema),
		})
	}

	p.connected = true
	p.logger.Info("Connected to tool server", "provider", p.name, "tools", len(p.tools))
	return nil
}

func (p *Provider) Connected() bool {
	return p.connected
}

func (p *Provider) Tools() []entity.ToolDefinition {
	return p.tools
}

// Call invokes one tool and flattens the text content of the result.
func (p *Provider) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	if !p.connected {
		return "", fmt.Errorf("provider %s not connected", p.name)
	}

	result, err := p.client.CallTool(ctx, name, args)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", name, err)
	}

	var parts []string
	for _, content := range result.Content {
		if content.Text != "" {
			parts = append(parts, content.Text)
		}
	}
	text := strings.Join(parts, "\n")

	if result.IsError {
		if text == "" {
			text = "tool reported an error"
		}
		return "", fmt.Errorf("tool %s: %s", name, text)
	}
	return text, nil
}

func (p *Provider) Close() error {
	p.connected = false
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// schemaToParameters converts a tool's JSON schema into the parameter map
// the LLM API expects. Tools without a usable schema get an empty object
// schema so the model can still call them.
func schemaToParameters(schema any) map[string]interface{} {
	if m, ok := schema.(map[string]interface{}); ok && len(m) > 0 {
		return m
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}
