package generator

import (
	"context"
	"errors"
	"fmt"

	"arch-agent/internal/application/port/input"
	"arch-agent/internal/application/port/output"
	"arch-agent/internal/application/service"
	"arch-agent/internal/domain/entity"
	"arch-agent/internal/infrastructure/prompts"
	"arch-agent/internal/usecase/extract"
)

var _ input.GenerationService = (*UseCase)(nil)

// ErrNotInitialized is surfaced when generation is attempted before the
// tool providers are connected. Unlike stage failures this is never
// absorbed into a fallback: no stage can even run.
var ErrNotInitialized = errors.New("tool providers not connected")

// Progress checkpoints. Exact intermediate values are not contractual;
// monotonicity and the terminal 100/0 are.
const (
	progressTemplate = 10
	progressDiagram  = 45
	progressPricing  = 75
)

// maxSummaryFallbackLen bounds the raw template excerpt used in the
// pricing prompt when the template cannot be summarized.
const maxSummaryFallbackLen = 4000

// UseCase sequences the three generation stages. Each stage runs one
// tool-augmented session and degrades to a fixed fallback on any failure;
// a failing stage never aborts the other two.
type UseCase struct {
	session   input.SessionRunner
	providers *service.ProviderRegistry
	tracker   *service.TaskTracker
	diagrams  output.DiagramStore
	logger    output.LoggerPort
}

func New(
	session input.SessionRunner,
	providers *service.ProviderRegistry,
	tracker *service.TaskTracker,
	diagrams output.DiagramStore,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		session:   session,
		providers: providers,
		tracker:   tracker,
		diagrams:  diagrams,
		logger:    logger,
	}
}

func (uc *UseCase) Ready() bool {
	return uc.providers.Connected()
}

// Generate runs the full pipeline synchronously.
func (uc *UseCase) Generate(ctx context.Context, requirements string) (*entity.ArchitectureResult, error) {
	return uc.run(ctx, requirements, func(entity.TaskStatus, int) {})
}

// Submit starts the pipeline on its own goroutine and returns the task id.
func (uc *UseCase) Submit(requirements string) (string, error) {
	if !uc.Ready() {
		return "", ErrNotInitialized
	}

	task := uc.tracker.Create(requirements)
	log := uc.logger.WithField("taskID", task.ID)

	go func() {
		// The submitting request is long gone by the time the stages
		// finish; the pipeline runs on its own context.
		ctx := context.Background()

		result, err := uc.run(ctx, requirements, func(status entity.TaskStatus, progress int) {
			uc.tracker.SetProgress(task.ID, status, progress)
		})
		if err != nil {
			log.Error("Generation task failed", "error", err)
			uc.tracker.Fail(task.ID, err)
			return
		}
		uc.tracker.Complete(task.ID, result)
		log.Info("Generation task completed")
	}()

	return task.ID, nil
}

func (uc *UseCase) Task(id string) (*entity.GenerationTask, error) {
	return uc.tracker.Get(id)
}

func (uc *UseCase) run(ctx context.Context, requirements string, report func(entity.TaskStatus, int)) (*entity.ArchitectureResult, error) {
	if !uc.Ready() {
		return nil, ErrNotInitialized
	}

	uc.logger.Info("Generating architecture", "requirements", requirements)

	report(entity.TaskStatusGeneratingCF, progressTemplate)
	template, templateOutcome := uc.templateStage(ctx, requirements)
	uc.logOutcome(templateOutcome)

	report(entity.TaskStatusGeneratingDiagram, progressDiagram)
	diagramRef, diagramOutcome := uc.diagramStage(ctx, template)
	uc.logOutcome(diagramOutcome)

	report(entity.TaskStatusCalculatingPricing, progressPricing)
	pricing, pricingOutcome := uc.pricingStage(ctx, template)
	uc.logOutcome(pricingOutcome)

	return &entity.ArchitectureResult{
		Template:   template,
		Pricing:    pricing,
		DiagramURL: diagramRef,
	}, nil
}

// templateStage obtains a CloudFormation document from the requirements.
func (uc *UseCase) templateStage(ctx context.Context, requirements string) (string, entity.StageOutcome) {
	text, err := uc.runStageSession(ctx, service.ProviderCloudFormation, func() (string, error) {
		return prompts.TemplatePrompt(requirements)
	})
	if err != nil {
		template, _ := extract.Template("")
		return template, entity.StageDegraded(entity.StageTemplate, err)
	}

	template, ok := extract.Template(text)
	if !ok {
		return template, entity.StageDegraded(entity.StageTemplate, fmt.Errorf("no template pattern in session output"))
	}
	return template, entity.StageOK(entity.StageTemplate)
}

// diagramStage renders the stage-1 template into an image and persists it.
func (uc *UseCase) diagramStage(ctx context.Context, template string) (string, entity.StageOutcome) {
	text, err := uc.runStageSession(ctx, service.ProviderDiagram, func() (string, error) {
		return prompts.DiagramPrompt(template)
	})
	if err != nil {
		return uc.diagrams.Placeholder(), entity.StageDegraded(entity.StageDiagram, err)
	}

	ref, ok := extract.Diagram(text, uc.diagrams)
	if !ok {
		return ref, entity.StageDegraded(entity.StageDiagram, fmt.Errorf("no diagram artifact in session output"))
	}
	return ref, entity.StageOK(entity.StageDiagram)
}

// pricingStage estimates monthly cost from a compact summary of the
// stage-1 template, not the full template.
func (uc *UseCase) pricingStage(ctx context.Context, template string) (entity.Pricing, entity.StageOutcome) {
	resources, err := SummarizeTemplate(template)
	if err != nil {
		uc.logger.Warn("Template summary failed, using raw excerpt", "error", err)
		resources = template
		if len(resources) > maxSummaryFallbackLen {
			resources = resources[:maxSummaryFallbackLen]
		}
	}

	text, err := uc.runStageSession(ctx, service.ProviderPricing, func() (string, error) {
		return prompts.PricingPrompt(resources)
	})
	if err != nil {
		pricing, _ := extract.Pricing("")
		return pricing, entity.StageDegraded(entity.StagePricing, err)
	}

	pricing, ok := extract.Pricing(text)
	if !ok {
		return pricing, entity.StageDegraded(entity.StagePricing, fmt.Errorf("no monetary value in session output"))
	}
	return pricing, entity.StageOK(entity.StagePricing)
}

func (uc *UseCase) runStageSession(ctx context.Context, providerName string, buildPrompt func() (string, error)) (string, error) {
	provider, ok := uc.providers.Get(providerName)
	if !ok {
		return "", fmt.Errorf("provider %s not registered", providerName)
	}

	prompt, err := buildPrompt()
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}

	res, err := uc.session.Run(ctx, prompt, provider)
	if err != nil {
		return "", fmt.Errorf("session failed: %w", err)
	}
	return res.FinalAnswer, nil
}

func (uc *UseCase) logOutcome(outcome entity.StageOutcome) {
	if outcome.Degraded {
		uc.logger.Warn("Stage degraded to fallback", "stage", outcome.Stage.String(), "cause", outcome.Cause)
		return
	}
	uc.logger.Info("Stage completed", "stage", outcome.Stage.String())
}
