package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hueweave/hueweave/internal/domain/batch"
	"github.com/hueweave/hueweave/internal/domain/workflow"
)

// GetWorkflow reports the current phase, selection and results
func (h *Handlers) GetWorkflow(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"phase":        h.controller.Phase(),
		"selection":    h.controller.Selection(),
		"results":      h.controller.Results(),
		"previewIndex": h.controller.PreviewIndex(),
	})
}

// EnterSelection moves the workflow into selection mode
func (h *Handlers) EnterSelection(c *gin.Context) {
	if err := h.controller.EnterSelection(); err != nil {
		conflict(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": h.controller.Phase()})
}

// ExitSelection abandons selection mode
func (h *Handlers) ExitSelection(c *gin.Context) {
	if err := h.controller.ExitSelection(); err != nil {
		conflict(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": h.controller.Phase()})
}

// ToggleSelection adds or removes one wallpaper from the selection
func (h *Handlers) ToggleSelection(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	selected := h.controller.ToggleSelection(req.Path)
	c.JSON(http.StatusOK, gin.H{
		"selected":  selected,
		"selection": h.controller.Selection(),
	})
}

// StartProcessing hands the selection to the batch queue
func (h *Handlers) StartProcessing(c *gin.Context) {
	var req struct {
		Mode  string `json:"mode"`
		Light bool   `json:"light"`
	}
	// Body is optional; an empty request runs with defaults.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	mode := batch.Mode(req.Mode)
	if mode == "" {
		mode = h.defaultMode
	}

	// The run outlives this request; it is cancelled through the
	// workflow endpoint, not the request context.
	err := h.controller.StartProcessing(context.Background(), batch.Options{
		Mode:  mode,
		Light: req.Light,
	})
	switch {
	case errors.Is(err, workflow.ErrPhase):
		conflict(c, err)
	case errors.Is(err, workflow.ErrEmptySelection):
		badRequest(c, err)
	case err != nil:
		conflict(c, err)
	default:
		c.JSON(http.StatusAccepted, gin.H{"phase": h.controller.Phase()})
	}
}

// CancelProcessing requests cooperative cancellation of the batch run
func (h *Handlers) CancelProcessing(c *gin.Context) {
	h.controller.Cancel()
	c.JSON(http.StatusAccepted, gin.H{"status": "cancelling"})
}

// SetPreview points the comparison view at one result
func (h *Handlers) SetPreview(c *gin.Context) {
	var req struct {
		Index *int `json:"index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.controller.SetPreview(*req.Index); err != nil {
		if errors.Is(err, workflow.ErrPhase) {
			conflict(c, err)
		} else {
			badRequest(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"previewIndex": h.controller.PreviewIndex()})
}

// ApplyPreview commits the previewed result
func (h *Handlers) ApplyPreview(c *gin.Context) {
	if err := h.controller.Apply(); err != nil {
		if errors.Is(err, workflow.ErrPhase) {
			conflict(c, err)
		} else {
			badRequest(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": h.controller.Phase()})
}

// DiscardResults abandons the comparison set and restores the original
func (h *Handlers) DiscardResults(c *gin.Context) {
	if err := h.controller.Discard(); err != nil {
		conflict(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": h.controller.Phase()})
}
