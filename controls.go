package primarybrief

import (
	"net/url"
	"strconv"
	"strings"
)

// Frame widths in CSS pixels. The stylesheet caps frames at the column width.
const (
	FullFrameWidth = 2200
	PairFrameWidth = 1200
)

// Query parameter names for the display controls.
const (
	ParamFullHeight = "full_h"
	ParamPairHeight = "pair_h"
)

// Slider describes a bounded integer control.
type Slider struct {
	Min, Max, Default, Step int
}

// Height sliders for the full-width map and the bottom pair.
var (
	FullHeightSlider = Slider{Min: 400, Max: 1600, Default: 600, Step: 10}
	PairHeightSlider = Slider{Min: 300, Max: 1400, Default: 600, Step: 10}
)

// Clamp bounds v to [Min, Max] and snaps it down onto the step grid
// anchored at Min.
func (s Slider) Clamp(v int) int {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	if s.Step > 1 {
		v = s.Min + (v-s.Min)/s.Step*s.Step
	}
	return v
}

// Parse reads a control value leniently: anything that is not an integer
// yields Default, everything else is clamped.
func (s Slider) Parse(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.Default
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return s.Default
	}
	return s.Clamp(v)
}

// Controls holds the viewer's display settings.
type Controls struct {
	FullHeight int
	PairHeight int
}

// DefaultControls returns the slider defaults.
func DefaultControls() Controls {
	return Controls{
		FullHeight: FullHeightSlider.Default,
		PairHeight: PairHeightSlider.Default,
	}
}

// ParseControls reads full_h and pair_h from q.
func ParseControls(q url.Values) Controls {
	return Controls{
		FullHeight: FullHeightSlider.Parse(q.Get(ParamFullHeight)),
		PairHeight: PairHeightSlider.Parse(q.Get(ParamPairHeight)),
	}
}

// Normalize clamps both heights. Zero values take the defaults.
func (c Controls) Normalize() Controls {
	if c.FullHeight == 0 {
		c.FullHeight = FullHeightSlider.Default
	}
	if c.PairHeight == 0 {
		c.PairHeight = PairHeightSlider.Default
	}
	c.FullHeight = FullHeightSlider.Clamp(c.FullHeight)
	c.PairHeight = PairHeightSlider.Clamp(c.PairHeight)
	return c
}

// Query encodes c as query parameters accepted by ParseControls.
func (c Controls) Query() url.Values {
	q := url.Values{}
	q.Set(ParamFullHeight, strconv.Itoa(c.FullHeight))
	q.Set(ParamPairHeight, strconv.Itoa(c.PairHeight))
	return q
}
