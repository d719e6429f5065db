package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"arch-agent/internal/application/port/output"
	"arch-agent/internal/domain/entity"
)

type scriptedLLM struct {
	responses []entity.Message
	requests  []output.ChatRequest
	err       error
}

func (m *scriptedLLM) Chat(_ context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	msg := m.responses[0]
	m.responses = m.responses[1:]
	return &output.ChatResponse{Message: msg}, nil
}

type fakeProvider struct {
	name      string
	tools     []entity.ToolDefinition
	calls     []string
	result    string
	callErr   error
	connected bool
}

func (p *fakeProvider) Name() string                      { return p.name }
func (p *fakeProvider) Connect(context.Context) error     { p.connected = true; return nil }
func (p *fakeProvider) Connected() bool                   { return p.connected }
func (p *fakeProvider) Tools() []entity.ToolDefinition    { return p.tools }
func (p *fakeProvider) Close() error                      { return nil }

func (p *fakeProvider) Call(_ context.Context, name string, _ map[string]any) (string, error) {
	p.calls = append(p.calls, name)
	if p.callErr != nil {
		return "", p.callErr
	}
	return p.result, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                          {}
func (nopLogger) Info(string, ...any)                           {}
func (nopLogger) Warn(string, ...any)                           {}
func (nopLogger) Error(string, ...any)                          {}
func (l nopLogger) WithField(string, any) output.LoggerPort     { return l }
func (l nopLogger) WithFields(map[string]any) output.LoggerPort { return l }
func (nopLogger) Close() error                                  { return nil }

func TestRun_ToolLoopTerminatesOnFinalAnswer(t *testing.T) {
	llm := &scriptedLLM{
		responses: []entity.Message{
			{
				Role: entity.RoleAssistant,
				ToolCalls: []entity.ToolCall{
					{ID: "call_1", Name: "create_template", Arguments: `{"resource":"vpc"}`},
				},
			},
			{Role: entity.RoleAssistant, Content: "Here is your template."},
		},
	}
	provider := &fakeProvider{
		name:   "cloudformation",
		tools:  []entity.ToolDefinition{{Name: "create_template"}},
		result: "template created",
	}

	uc := New(llm, nopLogger{}, "system prompt")
	res, err := uc.Run(context.Background(), "build a vpc", provider)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.FinalAnswer != "Here is your template." {
		t.Errorf("final answer = %q", res.FinalAnswer)
	}
	if res.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", res.Iterations)
	}
	if len(provider.calls) != 1 || provider.calls[0] != "create_template" {
		t.Errorf("tool calls = %v", provider.calls)
	}

	// The tool observation must be fed back into the conversation.
	last := llm.requests[1].Messages[len(llm.requests[1].Messages)-1]
	if last.Role != entity.RoleTool || last.Content != "template created" {
		t.Errorf("unexpected tool message: %+v", last)
	}
	if last.ToolCallID != "call_1" {
		t.Errorf("tool call id = %q", last.ToolCallID)
	}
}

func TestRun_ToolErrorBecomesObservation(t *testing.T) {
	llm := &scriptedLLM{
		responses: []entity.Message{
			{
				Role:      entity.RoleAssistant,
				ToolCalls: []entity.ToolCall{{ID: "call_1", Name: "lookup", Arguments: `{}`}},
			},
			{Role: entity.RoleAssistant, Content: "done"},
		},
	}
	provider := &fakeProvider{name: "pricing", callErr: errors.New("server gone")}

	uc := New(llm, nopLogger{}, "system")
	if _, err := uc.Run(context.Background(), "price it", provider); err != nil {
		t.Fatalf("tool errors must not abort the session: %v", err)
	}

	last := llm.requests[1].Messages[len(llm.requests[1].Messages)-1]
	if !strings.HasPrefix(last.Content, "Error: ") {
		t.Errorf("tool failure should surface as an Error observation, got %q", last.Content)
	}
}

func TestRun_LLMFailurePropagates(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("timeout")}
	provider := &fakeProvider{name: "diagram"}

	uc := New(llm, nopLogger{}, "system")
	if _, err := uc.Run(context.Background(), "draw it", provider); err == nil {
		t.Fatal("expected an error from the llm failure")
	}
}

func TestRun_LongObservationIsTruncated(t *testing.T) {
	llm := &scriptedLLM{
		responses: []entity.Message{
			{
				Role:      entity.RoleAssistant,
				ToolCalls: []entity.ToolCall{{ID: "call_1", Name: "dump"}},
			},
			{Role: entity.RoleAssistant, Content: "done"},
		},
	}
	provider := &fakeProvider{name: "diagram", result: strings.Repeat("x", maxObservationLen+500)}

	uc := New(llm, nopLogger{}, "system")
	if _, err := uc.Run(context.Background(), "draw", provider); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	last := llm.requests[1].Messages[len(llm.requests[1].Messages)-1]
	if len(last.Content) > maxObservationLen+100 {
		t.Errorf("observation not truncated: %d chars", len(last.Content))
	}
	if !strings.HasSuffix(last.Content, "(truncated)") {
		t.Error("expected truncation marker")
	}
}
