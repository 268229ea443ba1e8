package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHistory reports undo/redo availability
func (h *Handlers) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"canUndo": h.recorder.CanUndo(),
		"canRedo": h.recorder.CanRedo(),
		"depth":   h.recorder.Depth(),
	})
}

// Undo steps back one snapshot. Returns 200 with the applied flag;
// stepping past the oldest entry is a no-op, not an error.
func (h *Handlers) Undo(c *gin.Context) {
	applied := h.recorder.Undo()
	c.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"canUndo": h.recorder.CanUndo(),
		"canRedo": h.recorder.CanRedo(),
	})
}

// Redo steps forward one snapshot
func (h *Handlers) Redo(c *gin.Context) {
	applied := h.recorder.Redo()
	c.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"canUndo": h.recorder.CanUndo(),
		"canRedo": h.recorder.CanRedo(),
	})
}
