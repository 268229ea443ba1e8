package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hueweave/hueweave/internal/domain/state"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/infrastructure/monitoring"
)

// Theme is a named, saved blueprint in the library.
type Theme struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Blueprint *state.Blueprint `json:"blueprint"`
}

// Meta is the listing view of a theme, without the blueprint body.
type Meta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Library persists named themes as JSON files under one directory,
// with an in-memory cache in front of the disk.
type Library struct {
	log     *logging.Logger
	dir     string
	metrics *monitoring.Metrics

	mu     sync.RWMutex
	themes map[string]*Theme
	loaded bool
}

// NewLibrary creates a theme library rooted at dir.
func NewLibrary(dir string, log *logging.Logger) *Library {
	return &Library{
		log:    log.Component("storage"),
		dir:    dir,
		themes: make(map[string]*Theme),
	}
}

// WithMetrics adds metrics tracking to the library.
func (l *Library) WithMetrics(m *monitoring.Metrics) *Library {
	l.metrics = m
	return l
}

// Save stores the blueprint under a new ID and returns the theme.
func (l *Library) Save(name string, bp *state.Blueprint) (*Theme, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("theme name is empty")
	}

	now := time.Now()
	theme := &Theme{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Blueprint: bp,
	}
	if err := l.write(theme); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.themes[theme.ID] = theme
	l.mu.Unlock()

	if l.metrics != nil {
		l.metrics.IncThemesSaved()
	}
	l.log.Info("theme saved", zap.String("id", theme.ID), zap.String("name", name))
	return theme, nil
}

// Update overwrites an existing theme's blueprint and bumps its stamp.
func (l *Library) Update(id string, bp *state.Blueprint) (*Theme, error) {
	if err := l.ensureLoaded(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	theme, ok := l.themes[id]
	if !ok {
		l.mu.Unlock()
		return nil, fmt.Errorf("theme %s not found", id)
	}
	theme.Blueprint = bp
	theme.UpdatedAt = time.Now()
	l.mu.Unlock()

	if err := l.write(theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// Load returns the theme with the given ID.
func (l *Library) Load(id string) (*Theme, error) {
	if err := l.ensureLoaded(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	theme, ok := l.themes[id]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("theme %s not found", id)
	}

	if l.metrics != nil {
		l.metrics.IncThemesLoaded()
	}
	return theme, nil
}

// List returns metadata for every saved theme, newest first.
func (l *Library) List() ([]Meta, error) {
	if err := l.ensureLoaded(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	metas := make([]Meta, 0, len(l.themes))
	for _, t := range l.themes {
		metas = append(metas, Meta{
			ID:        t.ID,
			Name:      t.Name,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}
	l.mu.RUnlock()

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Delete removes a saved theme from disk and cache.
func (l *Library) Delete(id string) error {
	if err := l.ensureLoaded(); err != nil {
		return err
	}

	l.mu.Lock()
	_, ok := l.themes[id]
	delete(l.themes, id)
	l.mu.Unlock()

	if !ok {
		return fmt.Errorf("theme %s not found", id)
	}
	if err := os.Remove(l.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete theme: %w", err)
	}
	l.log.Info("theme deleted", zap.String("id", id))
	return nil
}

// ensureLoaded lazily reads the library directory into the cache.
func (l *Library) ensureLoaded() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return nil
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create theme dir: %w", err)
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("read theme dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			l.log.Warn("theme file unreadable", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		var theme Theme
		if err := sonic.Unmarshal(data, &theme); err != nil {
			l.log.Warn("theme file malformed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		l.themes[theme.ID] = &theme
	}

	l.loaded = true
	l.log.Debug("theme library loaded", zap.Int("themes", len(l.themes)))
	return nil
}

func (l *Library) write(theme *Theme) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create theme dir: %w", err)
	}
	data, err := sonic.MarshalIndent(theme, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal theme: %w", err)
	}
	if err := os.WriteFile(l.path(theme.ID), data, 0o644); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

func (l *Library) path(id string) string {
	return filepath.Join(l.dir, id+".json")
}
