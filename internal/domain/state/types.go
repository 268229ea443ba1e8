package state

import "github.com/hueweave/hueweave/internal/shared/color"

// Wallpaper is an opaque path plus optional provenance metadata.
type Wallpaper struct {
	Path   string `json:"path"`
	URL    string `json:"url,omitempty"`
	Source string `json:"source,omitempty"`
}

// Adjustments is the record of numeric sliders applied on top of the
// extracted palette. Zero is neutral for every slider except Gamma and
// WhitePoint, whose neutral value is 1.
type Adjustments struct {
	Vibrance    float64 `json:"vibrance"`
	Contrast    float64 `json:"contrast"`
	Brightness  float64 `json:"brightness"`
	HueShift    float64 `json:"hueShift"`
	Temperature float64 `json:"temperature"`
	Gamma       float64 `json:"gamma"`
	Saturation  float64 `json:"saturation"`
	Shadows     float64 `json:"shadows"`
	Highlights  float64 `json:"highlights"`
	Tint        float64 `json:"tint"`
	BlackPoint  float64 `json:"blackPoint"`
	WhitePoint  float64 `json:"whitePoint"`
}

// DefaultAdjustments returns every slider at its neutral value.
func DefaultAdjustments() Adjustments {
	return Adjustments{
		Gamma:      1.0,
		WhitePoint: 1.0,
	}
}

// AdjustmentsPatch is a partial adjustments update; nil fields are left
// unchanged by the merge.
type AdjustmentsPatch struct {
	Vibrance    *float64 `json:"vibrance,omitempty"`
	Contrast    *float64 `json:"contrast,omitempty"`
	Brightness  *float64 `json:"brightness,omitempty"`
	HueShift    *float64 `json:"hueShift,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Gamma       *float64 `json:"gamma,omitempty"`
	Saturation  *float64 `json:"saturation,omitempty"`
	Shadows     *float64 `json:"shadows,omitempty"`
	Highlights  *float64 `json:"highlights,omitempty"`
	Tint        *float64 `json:"tint,omitempty"`
	BlackPoint  *float64 `json:"blackPoint,omitempty"`
	WhitePoint  *float64 `json:"whitePoint,omitempty"`
}

func (a Adjustments) merge(patch AdjustmentsPatch) Adjustments {
	apply := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&a.Vibrance, patch.Vibrance)
	apply(&a.Contrast, patch.Contrast)
	apply(&a.Brightness, patch.Brightness)
	apply(&a.HueShift, patch.HueShift)
	apply(&a.Temperature, patch.Temperature)
	apply(&a.Gamma, patch.Gamma)
	apply(&a.Saturation, patch.Saturation)
	apply(&a.Shadows, patch.Shadows)
	apply(&a.Highlights, patch.Highlights)
	apply(&a.Tint, patch.Tint)
	apply(&a.BlackPoint, patch.BlackPoint)
	apply(&a.WhitePoint, patch.WhitePoint)
	return a
}

// Overrides maps application name to sparse color-variable overrides.
// Absence of an entry means the derived color roles apply unchanged.
type Overrides map[string]map[string]color.Color

func (o Overrides) clone() Overrides {
	out := make(Overrides, len(o))
	for app, vars := range o {
		appVars := make(map[string]color.Color, len(vars))
		for k, v := range vars {
			appVars[k] = v
		}
		out[app] = appVars
	}
	return out
}

// Snapshot is an immutable capture of store state used for undo/redo:
// the palette, its derived roles, the adjustments and the mode flags,
// plus a human-readable action label. Created once, never mutated.
type Snapshot struct {
	Label       string
	Palette     color.Palette
	Roles       color.Roles
	Adjustments Adjustments
	LightMode   bool
	NeovimTheme string
}
