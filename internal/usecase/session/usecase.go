package session

import (
	"context"
	"encoding/json"
	"fmt"

	"arch-agent/internal/application/port/input"
	"arch-agent/internal/application/port/output"
	"arch-agent/internal/domain/entity"
)

var _ input.SessionRunner = (*UseCase)(nil)

const (
	maxIterations     = 30
	maxObservationLen = 20000
)

// UseCase drives one tool-augmented agent session: the LLM is given the
// provider's tool definitions and looped until it answers without
// requesting a tool call.
type UseCase struct {
	llm          output.LLMPort
	logger       output.LoggerPort
	systemPrompt string
}

func New(llm output.LLMPort, logger output.LoggerPort, systemPrompt string) *UseCase {
	return &UseCase{
		llm:          llm,
		logger:       logger,
		systemPrompt: systemPrompt,
	}
}

func (uc *UseCase) Run(ctx context.Context, prompt string, provider output.ToolProvider) (*input.SessionResult, error) {
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: uc.systemPrompt},
		{Role: entity.RoleUser, Content: prompt},
	}

	toolDefs := provider.Tools()
	uc.logger.Debug("Session started", "provider", provider.Name(), "tools", len(toolDefs))

	for iteration := 1; iteration <= maxIterations; iteration++ {
		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: 0.0,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			uc.logger.Info("Session completed", "provider", provider.Name(), "iterations", iteration)
			return &input.SessionResult{
				FinalAnswer: resp.Message.Content,
				Iterations:  iteration,
			}, nil
		}

		for _, tc := range resp.Message.ToolCalls {
			observation := uc.executeTool(ctx, provider, tc)

			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Content:    observation,
			})
		}
	}

	return nil, fmt.Errorf("max iterations (%d) exceeded", maxIterations)
}

func (uc *UseCase) executeTool(ctx context.Context, provider output.ToolProvider, tc entity.ToolCall) string {
	args := make(map[string]any)
	if tc.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
			uc.logger.Warn("Invalid tool arguments", "name", tc.Name, "error", err)
			return fmt.Sprintf("Error: invalid arguments for tool '%s': %v", tc.Name, err)
		}
	}

	uc.logger.Info("Executing tool", "provider", provider.Name(), "name", tc.Name)

	result, err := provider.Call(ctx, tc.Name, args)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "Error: " + err.Error()
	}

	if len(result) > maxObservationLen {
		result = result[:maxObservationLen] + "\n... (truncated)"
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result
}
