// Package bootstrap owns the service lifecycle: configuration, client
// construction, route registration and graceful shutdown.
package bootstrap

import (
	"context"
	stderrors "errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"skyrchitect-server-go/internal/domain/analysis"
	"skyrchitect-server-go/internal/domain/architect"
	domainimage "skyrchitect-server-go/internal/domain/image"
	"skyrchitect-server-go/internal/domain/model"
	"skyrchitect-server-go/internal/domain/pdf"
	"skyrchitect-server-go/internal/platform/config"
	"skyrchitect-server-go/internal/platform/errors"
	"skyrchitect-server-go/internal/platform/logging"
	"skyrchitect-server-go/internal/platform/observability"
	"skyrchitect-server-go/internal/platform/storage"
	httptransport "skyrchitect-server-go/internal/transport/http"
	"skyrchitect-server-go/internal/transport/http/architectapi"
	"skyrchitect-server-go/internal/transport/http/diagram"
	"skyrchitect-server-go/internal/transport/http/health"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      errors.Kind
	Execute   stepFn
}

type appState struct {
	config     *config.Config
	configPath string
	logger     *logging.Logger
	metrics    *observability.Metrics

	visionClient model.Client
	llmClient    model.Client
	uploader     *storage.Uploader
}

// Run drives the whole service lifecycle: init steps, HTTP server, graceful
// shutdown on SIGINT/SIGTERM.
func Run(ctx context.Context) error {
	state := &appState{}

	if err := executeInitSteps(ctx, InitGraph(), state); err != nil {
		return err
	}

	logger := state.logger
	log := logger.Component("bootstrap")
	log.Infof("configuration loaded from %s", state.configPath)

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(signalCtx)

	if err := startHTTPServer(state, group, groupCtx); err != nil {
		return err
	}

	return waitForShutdown(groupCtx, logger, group)
}

// InitGraph is the ordered initialisation plan. Steps run sequentially;
// DependsOn documents and enforces the ordering contract.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    errors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      errors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "observability:init-metrics",
			Title:     "Initialise metrics registry",
			DependsOn: []string{"logging:init-provider"},
			Kind:      errors.KindBootstrap,
			Execute:   initMetricsStep,
		},
		{
			ID:        "model:init-clients",
			Title:     "Initialise model clients",
			DependsOn: []string{"observability:init-metrics"},
			Kind:      errors.KindConfig,
			Execute:   initModelClientsStep,
		},
		{
			ID:        "storage:init-uploader",
			Title:     "Initialise diagram backup storage",
			DependsOn: []string{"observability:init-metrics"},
			Kind:      errors.KindStorage,
			Execute:   initStorageStep,
		},
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return errors.New(errors.KindBootstrap, "execute init steps", "nil bootstrap state")
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return errors.New(errors.KindBootstrap, step.ID, "dependency %s not satisfied", dep)
			}
		}
		if step.Execute == nil {
			return errors.New(errors.KindBootstrap, step.ID, "missing execute function")
		}
		if err := step.Execute(ctx, state); err != nil {
			kind := step.Kind
			if kind == "" {
				kind = errors.KindBootstrap
			}
			return errors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := config.NewLoader().Load()
	if err != nil {
		return err
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	logger, err := logging.New(logging.Config{
		Level: state.config.Log.Level,
		Dir:   state.config.Log.Dir,
		File:  state.config.Log.File,
	})
	if err != nil {
		return err
	}
	state.logger = logger
	return nil
}

func initMetricsStep(_ context.Context, state *appState) error {
	state.metrics = observability.NewMetrics()
	return nil
}

func initModelClientsStep(_ context.Context, state *appState) error {
	cfg := state.config

	visionCfg, ok := cfg.Vision[cfg.Selected.Vision]
	if !ok {
		return errors.New(errors.KindConfig, "model:init-clients",
			"selected vision model %q is not configured", cfg.Selected.Vision)
	}
	visionClient, err := model.NewClient(visionCfg, state.logger, state.metrics)
	if err != nil {
		return err
	}

	llmCfg, ok := cfg.LLM[cfg.Selected.LLM]
	if !ok {
		return errors.New(errors.KindConfig, "model:init-clients",
			"selected LLM %q is not configured", cfg.Selected.LLM)
	}
	llmClient, err := model.NewClient(llmCfg, state.logger, state.metrics)
	if err != nil {
		return err
	}

	state.visionClient = visionClient
	state.llmClient = llmClient
	return nil
}

func initStorageStep(ctx context.Context, state *appState) error {
	if !state.config.Storage.Enabled {
		state.logger.Component("bootstrap").Info("diagram backup storage disabled")
		return nil
	}

	uploader, err := storage.NewUploader(ctx, state.config.Storage, state.logger, state.metrics)
	if err != nil {
		// backups are best effort, the service runs without them
		state.logger.Component("bootstrap").Warnf(
			"diagram backup storage unavailable, continuing without it: %v", err,
		)
		return nil
	}
	state.uploader = uploader
	return nil
}

func startHTTPServer(state *appState, group *errgroup.Group, groupCtx context.Context) error {
	cfg := state.config
	logger := state.logger
	log := logger.Component("http")

	router, err := httptransport.Build(httptransport.Options{
		Config:  cfg,
		Logger:  logger,
		Metrics: state.metrics,
	})
	if err != nil {
		return err
	}

	router.Engine.NoRoute(func(c *gin.Context) {
		httptransport.RespondError(c, http.StatusNotFound, "not found", gin.H{})
	})

	validator := domainimage.NewValidator(cfg.Upload.MaxImageBytes, logger)
	normalizer := domainimage.NewNormalizer(validator, cfg.Upload.MaxDimension, logger)
	rasterizer := pdf.NewRasterizer(cfg.Upload.MaxPDFBytes, cfg.Upload.PDFRenderDPI, logger)
	analyzer := analysis.NewAnalyzer(state.visionClient, logger, state.metrics)
	agent := architect.NewAgent(state.llmClient, logger)

	health.NewService(true, cfg.Vision[cfg.Selected.Vision].ModelName).Register(router)
	diagram.NewService(normalizer, rasterizer, analyzer, state.uploader, logger, state.metrics).Register(router)
	architectapi.NewService(agent, logger).Register(router)

	server := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router.Engine,
	}

	group.Go(func() error {
		log.Infof("listening on http://localhost:%d", cfg.Server.Port)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Errorf("HTTP server shutdown failed: %v", err)
			} else {
				log.Info("HTTP server stopped")
			}
		}()

		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	return nil
}

func waitForShutdown(ctx context.Context, logger *logging.Logger, group *errgroup.Group) error {
	<-ctx.Done()
	log := logger.Component("bootstrap")
	log.Info("shutdown requested, draining services")

	done := make(chan error, 1)
	go func() {
		done <- group.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Errorf("shutdown finished with error: %v", err)
			return err
		}
		log.Info("all services stopped")
		return nil
	case <-time.After(15 * time.Second):
		log.Error("shutdown timed out")
		return errors.New(errors.KindBootstrap, "bootstrap.waitForShutdown", "shutdown timed out")
	}
}
