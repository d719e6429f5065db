package di

import (
	"fmt"
	"net/http"
	"time"

	"arch-agent/internal/api"
	"arch-agent/internal/application/port/input"
	"arch-agent/internal/application/port/output"
	"arch-agent/internal/application/service"
	"arch-agent/internal/infrastructure/diagrams"
	"arch-agent/internal/infrastructure/llm/openrouter"
	"arch-agent/internal/infrastructure/logger"
	"arch-agent/internal/infrastructure/mcp"
	"arch-agent/internal/infrastructure/prompts"
	"arch-agent/internal/infrastructure/solutions"
	"arch-agent/internal/usecase/generator"
	"arch-agent/internal/usecase/session"
)

type Config struct {
	OpenRouterAPIKey string
	OpenRouterModel  string
	DiagramsDir      string
	SolutionsDir     string
	ReadonlyMode     bool
	ToolTimeout      time.Duration
	Debug            bool
}

// Container wires the full object graph. Providers are registered but not
// connected; the caller runs ConnectAll so startup failures stay fatal at
// one place.
type Container struct {
	Logger    output.LoggerPort
	Providers *service.ProviderRegistry
	Generator input.GenerationService
	Handler   http.Handler
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewZapAdapter(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	providers := service.NewProviderRegistry()
	for _, server := range mcp.DefaultServers(cfg.ReadonlyMode) {
		providers.Register(mcp.NewProvider(server, cfg.ToolTimeout, log.WithField("provider", server.Name)))
	}

	llmCfg := openrouter.DefaultConfig(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	llmCfg.Logger = log.WithField("component", "llm")
	llm := openrouter.NewOpenRouterAdapter(llmCfg)
	sessions := session.New(llm, log, prompts.SessionSystemPrompt)

	diagramStore, err := diagrams.NewStore(cfg.DiagramsDir, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("create diagram store: %w", err)
	}

	solutionStore, err := solutions.NewStore(cfg.SolutionsDir, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("create solution store: %w", err)
	}

	tracker := service.NewTaskTracker()
	gen := generator.New(sessions, providers, tracker, diagramStore, log)

	handler := api.NewHandler(gen, solutionStore, log)
	router := api.NewRouter(handler, cfg.DiagramsDir)

	return &Container{
		Logger:    log,
		Providers: providers,
		Generator: gen,
		Handler:   router,
	}, nil
}

func (c *Container) Close() {
	if c.Providers != nil {
		c.Providers.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
