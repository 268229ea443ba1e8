package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hueweave/hueweave/internal/domain/batch"
	"github.com/hueweave/hueweave/internal/domain/history"
	"github.com/hueweave/hueweave/internal/domain/state"
	"github.com/hueweave/hueweave/internal/domain/workflow"
	"github.com/hueweave/hueweave/internal/extract"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/infrastructure/monitoring"
	"github.com/hueweave/hueweave/internal/storage"
	"github.com/hueweave/hueweave/internal/wallpapers"
)

// Version is the service version reported by the banner endpoint.
const Version = "0.3.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	log        *logging.Logger
	store      *state.Store
	recorder   *history.Recorder
	controller *workflow.Controller
	library    *storage.Library
	scanner    *wallpapers.Scanner
	fetcher    *extract.Fetcher
	metrics    *monitoring.Metrics

	// defaultMode applies when a batch start request names no mode.
	defaultMode batch.Mode
}

// NewHandlers creates a new handler set
func NewHandlers(
	store *state.Store,
	recorder *history.Recorder,
	controller *workflow.Controller,
	library *storage.Library,
	scanner *wallpapers.Scanner,
	fetcher *extract.Fetcher,
	metrics *monitoring.Metrics,
	defaultMode batch.Mode,
	log *logging.Logger,
) *Handlers {
	if defaultMode == "" {
		defaultMode = batch.ModeAuto
	}
	return &Handlers{
		log:         log.Component("http"),
		store:       store,
		recorder:    recorder,
		controller:  controller,
		library:     library,
		scanner:     scanner,
		fetcher:     fetcher,
		metrics:     metrics,
		defaultMode: defaultMode,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "HueWeave Theming Service",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"workflow": gin.H{
			"phase":      h.controller.Phase(),
			"processing": h.controller.Phase() == workflow.PhaseProcessing,
		},
		"history": gin.H{
			"depth":   h.recorder.Depth(),
			"canUndo": h.recorder.CanUndo(),
			"canRedo": h.recorder.CanRedo(),
		},
	})
}

// Stats reports request counters for the JSON stats endpoint
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.GetSnapshot())
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func notFound(c *gin.Context, err error) {
	c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
}

func conflict(c *gin.Context, err error) {
	c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
}
