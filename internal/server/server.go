package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/hueweave/hueweave/internal/api/http"
	"github.com/hueweave/hueweave/internal/api/middleware"
	"github.com/hueweave/hueweave/internal/domain/batch"
	"github.com/hueweave/hueweave/internal/domain/history"
	"github.com/hueweave/hueweave/internal/domain/state"
	"github.com/hueweave/hueweave/internal/domain/workflow"
	"github.com/hueweave/hueweave/internal/events"
	"github.com/hueweave/hueweave/internal/extract"
	"github.com/hueweave/hueweave/internal/infrastructure/config"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/infrastructure/monitoring"
	"github.com/hueweave/hueweave/internal/storage"
	"github.com/hueweave/hueweave/internal/wallpapers"
	"github.com/hueweave/hueweave/internal/ws"
)

// Server wires the theming core to its HTTP surface.
type Server struct {
	log        *logging.Logger
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server

	bus        *events.Bus
	store      *state.Store
	recorder   *history.Recorder
	queue      *batch.Queue
	controller *workflow.Controller
}

// New builds the full component graph from configuration.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	bus := events.NewBus()
	metrics := monitoring.NewMetrics()

	store := state.New(bus, log)
	recorder := history.NewRecorder(store, bus, cfg.History.Limit, log).WithMetrics(metrics)

	runner := extract.NewRunner(cfg.Extraction.Binary, log)
	queue := batch.NewQueue(runner, bus, log).WithMetrics(metrics)
	controller := workflow.New(store, queue, bus, log, workflow.Options{
		SelectionLimit:  cfg.Workflow.SelectionLimit,
		CompletionPause: time.Duration(cfg.Workflow.CompletionPauseMs) * time.Millisecond,
		PauseSet:        true,
	}).WithMetrics(metrics)

	library := storage.NewLibrary(cfg.Storage.Dir, log).WithMetrics(metrics)
	scanner := wallpapers.NewScanner(cfg.Wallpapers.Dirs, cfg.Wallpapers.Pattern, log)
	fetcher := extract.NewFetcher(cfg.Extraction.CacheDir, log)

	// Mutation counters ride the same notifications the recorder uses.
	bus.Subscribe(func(ev events.Event) {
		metrics.RecordStateMutation(string(ev.Type))
	},
		events.PaletteChanged,
		events.WallpaperChanged,
		events.AdjustmentsChanged,
		events.LightModeChanged,
		events.AppOverridesChanged,
		events.NeovimThemeChanged,
		events.StateReset,
	)

	handlers := api.NewHandlers(store, recorder, controller, library, scanner, fetcher, metrics, batch.Mode(cfg.Extraction.Mode), log)
	wsHandler := ws.NewHandler(bus, log).WithMetrics(metrics)

	router := newRouter(cfg, metrics)
	registerRoutes(router, handlers, wsHandler, metrics)

	return &Server{
		log:        log.Component("server"),
		cfg:        cfg,
		router:     router,
		bus:        bus,
		store:      store,
		recorder:   recorder,
		queue:      queue,
		controller: controller,
	}, nil
}

func newRouter(cfg *config.Config, metrics *monitoring.Metrics) *gin.Engine {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	return router
}

func registerRoutes(router *gin.Engine, h *api.Handlers, wsHandler *ws.Handler, metrics *monitoring.Metrics) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/stats", h.Stats)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	// Theme state
	router.GET("/theme", h.GetTheme)
	router.PUT("/theme/palette", h.SetPalette)
	router.PUT("/theme/palette/:index", h.SetColor)
	router.PUT("/theme/lock/:index", h.SetLock)
	router.PUT("/theme/wallpaper", h.SetWallpaper)
	router.PUT("/theme/adjustments", h.SetAdjustments)
	router.DELETE("/theme/adjustments", h.ResetAdjustments)
	router.PUT("/theme/overrides/:app", h.SetAppOverride)
	router.DELETE("/theme/overrides/:app", h.RemoveAppOverride)
	router.PUT("/theme/lightmode", h.SetLightMode)
	router.PUT("/theme/neovim", h.SetNeovimTheme)
	router.POST("/theme/reset", h.ResetTheme)

	// History
	router.GET("/history", h.GetHistory)
	router.POST("/history/undo", h.Undo)
	router.POST("/history/redo", h.Redo)

	// Batch workflow
	router.GET("/workflow", h.GetWorkflow)
	router.POST("/workflow/selection/enter", h.EnterSelection)
	router.POST("/workflow/selection/exit", h.ExitSelection)
	router.POST("/workflow/selection/toggle", h.ToggleSelection)
	router.POST("/workflow/start", h.StartProcessing)
	router.POST("/workflow/cancel", h.CancelProcessing)
	router.POST("/workflow/preview", h.SetPreview)
	router.POST("/workflow/apply", h.ApplyPreview)
	router.POST("/workflow/discard", h.DiscardResults)

	// Wallpaper library
	router.GET("/wallpapers", h.ListWallpapers)
	router.POST("/wallpapers/fetch", h.FetchWallpaper)

	// Saved themes
	router.GET("/themes", h.ListThemes)
	router.POST("/themes", h.SaveTheme)
	router.GET("/themes/:id", h.GetSavedTheme)
	router.POST("/themes/:id/apply", h.ApplySavedTheme)
	router.DELETE("/themes/:id", h.DeleteTheme)
	router.GET("/themes/:id/base16", h.ExportBase16)
	router.POST("/themes/import/base16", h.ImportBase16)

	// Event stream
	router.GET("/stream", wsHandler.HandleConnection)
}

// Start begins serving and blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	s.log.Info("listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, cancels any running batch and
// releases bus subscriptions.
func (s *Server) Shutdown(ctx context.Context) error {
	s.queue.Cancel()
	s.controller.Close()
	s.recorder.Close()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
