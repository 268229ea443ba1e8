package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListWallpapers scans the configured wallpaper directories
func (h *Handlers) ListWallpapers(c *gin.Context) {
	found, err := h.scanner.Scan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallpapers": found,
		"count":      len(found),
	})
}

// FetchWallpaper downloads a remote wallpaper into the local cache and
// returns its path with provenance
func (h *Handlers) FetchWallpaper(c *gin.Context) {
	var req struct {
		URL    string `json:"url" binding:"required"`
		Source string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	path, err := h.fetcher.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":   path,
		"url":    req.URL,
		"source": req.Source,
	})
}
