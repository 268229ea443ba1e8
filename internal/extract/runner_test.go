package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hueweave/hueweave/internal/domain/batch"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/shared/color"
)

func sixteenColors(sep string) string {
	parts := make([]string, 16)
	for i := range parts {
		parts[i] = fmt.Sprintf("#%02x%02x%02x", i, i*2, i*3)
	}
	return strings.Join(parts, sep)
}

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		wantErr bool
	}{
		{"newline separated", sixteenColors("\n"), false},
		{"space separated", sixteenColors(" "), false},
		{"with noise lines", "extracting...\n" + sixteenColors("\n") + "\ndone\n", false},
		{"too few", sixteenColors("\n")[:40], true},
		{"too many", sixteenColors("\n") + "\n#ffffff", true},
		{"empty", "", true},
		{"garbage only", "no colors here", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseOutput(tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, color.Color("#000000"), p[0])
			assert.Equal(t, color.Color("#0f1e2d"), p[15])
		})
	}
}

func TestExtractMissingBinary(t *testing.T) {
	r := NewRunner("/nonexistent/hueweave-extract", logging.NewNop())

	_, err := r.Extract(context.Background(), "/w.png", batch.ModeAuto, false)
	assert.Error(t, err)
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner("/nonexistent/hueweave-extract", logging.NewNop())
	_, err := r.Extract(ctx, "/w.png", batch.ModeAuto, false)
	assert.ErrorIs(t, err, context.Canceled)
}
