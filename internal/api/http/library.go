package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hueweave/hueweave/internal/shared/color"
	"github.com/hueweave/hueweave/internal/storage"
)

// themePalette parses the 16 colors out of a saved theme's blueprint.
func themePalette(t *storage.Theme) (color.Palette, error) {
	return color.ParsePalette(t.Blueprint.Palette.Colors)
}

// ListThemes lists saved theme metadata, newest first
func (h *Handlers) ListThemes(c *gin.Context) {
	metas, err := h.library.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"themes": metas})
}

// SaveTheme stores the current state as a named theme
func (h *Handlers) SaveTheme(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	theme, err := h.library.Save(req.Name, h.store.Blueprint())
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":   theme.ID,
		"name": theme.Name,
	})
}

// GetSavedTheme fetches one saved theme with its blueprint
func (h *Handlers) GetSavedTheme(c *gin.Context) {
	theme, err := h.library.Load(c.Param("id"))
	if err != nil {
		notFound(c, err)
		return
	}
	c.JSON(http.StatusOK, theme)
}

// ApplySavedTheme loads a saved theme into the store as one undo step
func (h *Handlers) ApplySavedTheme(c *gin.Context) {
	theme, err := h.library.Load(c.Param("id"))
	if err != nil {
		notFound(c, err)
		return
	}

	h.recorder.Batch("load theme "+theme.Name, func() {
		h.store.Restore(theme.Blueprint)
	})
	c.JSON(http.StatusOK, gin.H{"applied": theme.ID})
}

// DeleteTheme removes a saved theme
func (h *Handlers) DeleteTheme(c *gin.Context) {
	if err := h.library.Delete(c.Param("id")); err != nil {
		notFound(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ExportBase16 renders a saved theme's palette as a Base16 scheme
func (h *Handlers) ExportBase16(c *gin.Context) {
	theme, err := h.library.Load(c.Param("id"))
	if err != nil {
		notFound(c, err)
		return
	}

	palette, err := themePalette(theme)
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := storage.ExportBase16(theme.Name, palette)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/yaml", data)
}

// ImportBase16 parses a Base16 scheme and writes its palette into the
// store as a regular, undoable mutation
func (h *Handlers) ImportBase16(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty scheme body"})
		return
	}

	palette, name, err := storage.ImportBase16(data)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.store.SetPalette(palette.Slice()); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scheme":  strings.TrimSpace(name),
		"palette": h.store.Palette().Strings(),
	})
}
