package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hueweave/hueweave/internal/infrastructure/config"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/shared/color"
	"github.com/hueweave/hueweave/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	cfg.Extraction.CacheDir = t.TempDir()
	cfg.Wallpapers.Dirs = []string{t.TempDir()}
	cfg.Workflow.CompletionPauseMs = 0
	cfg.RateLimit.Enabled = false

	srv, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.controller.Close() })
	return srv
}

func (s *Server) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func paletteBody(c string) map[string]interface{} {
	colors := make([]string, color.PaletteSize)
	for i := range colors {
		colors[i] = c
	}
	return map[string]interface{}{"colors": colors}
}

func TestBannerAndHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestThemeEndpointRoundTrip(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/theme/palette", paletteBody("#445566"))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	palette := body["palette"].([]interface{})
	require.Len(t, palette, 16)
	assert.Equal(t, "#445566", palette[0])
	roles := body["roles"].(map[string]interface{})
	assert.Equal(t, "#445566", roles["background"])
}

func TestSetPaletteRejectsWrongLength(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/theme/palette", map[string]interface{}{
		"colors": []string{"#111111", "#222222"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetColorValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/theme/palette/20", map[string]interface{}{"color": "#ffffff"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/theme/palette/3", map[string]interface{}{"color": "#ffffff"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/history/undo", nil)
	assert.Equal(t, false, decode(t, w)["applied"], "nothing to undo yet")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/theme/palette", paletteBody("#111111")).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/theme/palette", paletteBody("#222222")).Code)

	w = s.do(t, http.MethodGet, "/history", nil)
	assert.Equal(t, true, decode(t, w)["canUndo"])

	w = s.do(t, http.MethodPost, "/history/undo", nil)
	assert.Equal(t, true, decode(t, w)["applied"])
	assert.Equal(t, color.Color("#111111"), s.store.Palette()[0])

	w = s.do(t, http.MethodPost, "/history/redo", nil)
	assert.Equal(t, true, decode(t, w)["applied"])
	assert.Equal(t, color.Color("#222222"), s.store.Palette()[0])
}

func TestThemeLibraryEndpoints(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/theme/palette", paletteBody("#334455")).Code)

	w := s.do(t, http.MethodPost, "/themes", map[string]interface{}{"name": "Ocean"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = s.do(t, http.MethodGet, "/themes", nil)
	themes := decode(t, w)["themes"].([]interface{})
	require.Len(t, themes, 1)

	// Mutate, then apply the saved theme back.
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/theme/palette", paletteBody("#999999")).Code)
	w = s.do(t, http.MethodPost, "/themes/"+id+"/apply", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, color.Color("#334455"), s.store.Palette()[0])

	w = s.do(t, http.MethodDelete, "/themes/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/themes/"+id, nil).Code)
}

func TestWorkflowEndpointGuards(t *testing.T) {
	s := newTestServer(t)

	// Starting outside the selecting phase conflicts.
	w := s.do(t, http.MethodPost, "/workflow/start", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/workflow/selection/enter", nil).Code)

	// Starting with an empty selection is a bad request.
	w = s.do(t, http.MethodPost, "/workflow/start", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/workflow/selection/toggle", map[string]interface{}{"path": "/w/a.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["selected"])

	w = s.do(t, http.MethodGet, "/workflow", nil)
	body := decode(t, w)
	assert.Equal(t, "selecting", body["phase"])
	assert.Len(t, body["selection"].([]interface{}), 1)
}

func TestBase16ImportEndpoint(t *testing.T) {
	s := newTestServer(t)

	colors := make([]color.Color, color.PaletteSize)
	for i := range colors {
		colors[i] = color.Color(fmt.Sprintf("#2a2b%02x", i))
	}
	p, err := color.NewPalette(colors)
	require.NoError(t, err)
	data, err := storage.ExportBase16("Imported", p)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/themes/import/base16", bytes.NewReader(data))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, color.Color("#2a2b00"), s.store.Palette()[0])
}
