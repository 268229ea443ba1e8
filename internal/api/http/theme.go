package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hueweave/hueweave/internal/domain/state"
	"github.com/hueweave/hueweave/internal/shared/color"
)

// GetTheme returns the full current state
func (h *Handlers) GetTheme(c *gin.Context) {
	locks := h.store.Locks()
	c.JSON(http.StatusOK, gin.H{
		"palette":     h.store.Palette().Strings(),
		"locks":       locks[:],
		"roles":       h.store.Roles(),
		"wallpaper":   h.store.Wallpaper(),
		"adjustments": h.store.Adjustments(),
		"overrides":   h.store.Overrides(),
		"lightMode":   h.store.LightMode(),
		"neovimTheme": h.store.NeovimTheme(),
	})
}

// SetPalette replaces the full 16-color palette
func (h *Handlers) SetPalette(c *gin.Context) {
	var req struct {
		Colors []string `json:"colors" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := color.ParsePalette(req.Colors)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.store.SetPalette(p.Slice()); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"palette": h.store.Palette().Strings()})
}

// SetColor updates a single palette slot
func (h *Handlers) SetColor(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= color.PaletteSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be 0-15"})
		return
	}

	var req struct {
		Color string `json:"color" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	parsed, err := color.Parse(req.Color)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.store.SetColor(index, parsed); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "color": parsed})
}

// SetLock toggles bulk-overwrite protection on one palette slot
func (h *Handlers) SetLock(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= color.PaletteSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be 0-15"})
		return
	}

	var req struct {
		Locked *bool `json:"locked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	h.store.SetLock(index, *req.Locked)
	locks := h.store.Locks()
	c.JSON(http.StatusOK, gin.H{"locks": locks[:]})
}

// SetWallpaper replaces the wallpaper reference
func (h *Handlers) SetWallpaper(c *gin.Context) {
	var req struct {
		Path   string `json:"path" binding:"required"`
		URL    string `json:"url"`
		Source string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var meta *state.Wallpaper
	if req.URL != "" || req.Source != "" {
		meta = &state.Wallpaper{URL: req.URL, Source: req.Source}
	}
	h.store.SetWallpaper(req.Path, meta)
	c.JSON(http.StatusOK, gin.H{"wallpaper": h.store.Wallpaper()})
}

// SetAdjustments merges a partial adjustments record
func (h *Handlers) SetAdjustments(c *gin.Context) {
	var patch state.AdjustmentsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	h.store.SetAdjustments(patch)
	c.JSON(http.StatusOK, gin.H{"adjustments": h.store.Adjustments()})
}

// ResetAdjustments restores every slider to its neutral value
func (h *Handlers) ResetAdjustments(c *gin.Context) {
	h.store.ResetAdjustments()
	c.JSON(http.StatusOK, gin.H{"adjustments": h.store.Adjustments()})
}

// SetAppOverride sets the per-application color override map
func (h *Handlers) SetAppOverride(c *gin.Context) {
	app := c.Param("app")

	var req map[string]color.Color
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	for name, v := range req {
		if !v.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid color for " + name})
			return
		}
	}

	h.store.SetAppOverride(app, req)
	c.JSON(http.StatusOK, gin.H{"overrides": h.store.Overrides()})
}

// RemoveAppOverride deletes one application's override map
func (h *Handlers) RemoveAppOverride(c *gin.Context) {
	h.store.RemoveAppOverride(c.Param("app"))
	c.JSON(http.StatusOK, gin.H{"overrides": h.store.Overrides()})
}

// SetLightMode flips the light/dark flag
func (h *Handlers) SetLightMode(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	h.store.SetLightMode(*req.Enabled)
	c.JSON(http.StatusOK, gin.H{"lightMode": h.store.LightMode()})
}

// SetNeovimTheme selects the neovim colorscheme variant
func (h *Handlers) SetNeovimTheme(c *gin.Context) {
	var req struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	h.store.SetNeovimTheme(req.Theme)
	c.JSON(http.StatusOK, gin.H{"neovimTheme": h.store.NeovimTheme()})
}

// ResetTheme restores the store to defaults
func (h *Handlers) ResetTheme(c *gin.Context) {
	h.store.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
