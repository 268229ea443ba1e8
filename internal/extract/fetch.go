package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/hueweave/hueweave/internal/infrastructure/logging"
)

// Fetcher downloads remote wallpapers into the local cache so the
// extraction binary always works on a file path.
type Fetcher struct {
	log      *logging.Logger
	client   *resty.Client
	cacheDir string
}

// NewFetcher creates a fetcher writing into cacheDir.
func NewFetcher(cacheDir string, log *logging.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Fetcher{
		log:      log.Component("fetch"),
		client:   client,
		cacheDir: cacheDir,
	}
}

// Fetch downloads the wallpaper at url and returns its cached local
// path. Cache keys are derived from the URL, so repeat fetches of the
// same wallpaper are served from disk.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	key := cacheKey(url)
	if path, ok := f.cached(key); ok {
		f.log.Debug("cache hit", zap.String("url", url), zap.String("path", path))
		return path, nil
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch wallpaper: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch wallpaper: %s returned %s", url, resp.Status())
	}

	body := resp.Body()
	mtype := mimetype.Detect(body)
	if !isImage(mtype) {
		return "", fmt.Errorf("fetch wallpaper: %s is %s, not an image", url, mtype.String())
	}

	path := filepath.Join(f.cacheDir, key+mtype.Extension())
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write cached wallpaper: %w", err)
	}

	f.log.Info("wallpaper cached",
		zap.String("url", url),
		zap.String("path", path),
		zap.Int("bytes", len(body)))
	return path, nil
}

// cached returns the existing cache entry for key, regardless of its
// extension.
func (f *Fetcher) cached(key string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(f.cacheDir, key+".*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:8])
}

func isImage(m *mimetype.MIME) bool {
	for _, want := range []string{"image/png", "image/jpeg", "image/webp", "image/bmp"} {
		if m.Is(want) {
			return true
		}
	}
	return false
}
