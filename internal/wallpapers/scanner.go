package wallpapers

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/hueweave/hueweave/internal/infrastructure/logging"
)

// DefaultPattern matches the image formats the extractor understands.
const DefaultPattern = "**/*.{png,jpg,jpeg,webp}"

// Wallpaper is one discovered image file.
type Wallpaper struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Scanner discovers wallpaper images under the configured directories.
type Scanner struct {
	log     *logging.Logger
	dirs    []string
	pattern string
}

// NewScanner creates a scanner over the given directories. An empty
// pattern falls back to DefaultPattern.
func NewScanner(dirs []string, pattern string, log *logging.Logger) *Scanner {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Scanner{
		log:     log.Component("wallpapers"),
		dirs:    dirs,
		pattern: pattern,
	}
}

// Scan walks all configured directories and returns matching images,
// newest first. Missing directories are skipped with a warning; a
// matching extension is confirmed by content sniffing so a mislabeled
// file never reaches the extractor.
func (s *Scanner) Scan(ctx context.Context) ([]Wallpaper, error) {
	var (
		mu    sync.Mutex
		found []Wallpaper
	)

	conf := fastwalk.Config{Follow: true}
	for _, dir := range s.dirs {
		if _, err := os.Stat(dir); err != nil {
			s.log.Warn("wallpaper directory skipped", zap.String("dir", dir), zap.Error(err))
			continue
		}

		root := dir
		err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.log.Debug("walk error", zap.String("path", path), zap.Error(err))
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			match, err := doublestar.Match(s.pattern, filepath.ToSlash(strings.ToLower(rel)))
			if err != nil || !match {
				return nil
			}
			if !s.confirmImage(path) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}
			mu.Lock()
			found = append(found, Wallpaper{
				Path:     path,
				Name:     d.Name(),
				Size:     info.Size(),
				Modified: info.ModTime(),
			})
			mu.Unlock()
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Modified.After(found[j].Modified)
	})
	s.log.Info("scan complete", zap.Int("wallpapers", len(found)))
	return found, nil
}

// confirmImage sniffs file content, guarding against mislabeled files.
func (s *Scanner) confirmImage(path string) bool {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mtype.String(), "image/")
}
