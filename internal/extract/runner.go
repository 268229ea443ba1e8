package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/hueweave/hueweave/internal/domain/batch"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/shared/color"
)

// Runner invokes the external palette extraction binary. It satisfies
// the queue's Extractor contract.
//
// The subprocess is given no deadline of its own: a hung extractor
// stalls the queue until the run is cancelled. See the package note.
type Runner struct {
	log    *logging.Logger
	binary string
}

// NewRunner creates a runner around the given extractor binary.
func NewRunner(binary string, log *logging.Logger) *Runner {
	return &Runner{
		log:    log.Component("extract"),
		binary: binary,
	}
}

// Extract runs the binary against one wallpaper and parses the
// 16-color palette from its output.
//
// Invocation: <binary> <path> --mode <mode> [--light]. Output contract:
// 16 hex colors on stdout, whitespace- or line-separated; anything on a
// line after a '#'-prefixed color is ignored.
func (r *Runner) Extract(ctx context.Context, wallpaperPath string, mode batch.Mode, light bool) (color.Palette, error) {
	args := []string{wallpaperPath, "--mode", string(mode)}
	if light {
		args = append(args, "--light")
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("running extractor",
		zap.String("binary", r.binary),
		zap.String("path", wallpaperPath),
		zap.String("mode", string(mode)))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return color.Palette{}, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return color.Palette{}, fmt.Errorf("extractor failed: %s", msg)
	}

	palette, err := ParseOutput(stdout.String())
	if err != nil {
		return color.Palette{}, fmt.Errorf("extractor output: %w", err)
	}
	return palette, nil
}

// ParseOutput extracts a 16-color palette from extractor stdout. Tokens
// that are not valid hex colors are skipped; exactly 16 colors must
// remain.
func ParseOutput(out string) (color.Palette, error) {
	var colors []color.Color
	for _, field := range strings.Fields(out) {
		c, err := color.Parse(field)
		if err != nil {
			continue
		}
		colors = append(colors, c)
	}
	if len(colors) != color.PaletteSize {
		return color.Palette{}, fmt.Errorf("expected %d colors, found %d", color.PaletteSize, len(colors))
	}
	return color.NewPalette(colors)
}
