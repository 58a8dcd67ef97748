package tui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"
)

// ShimmerConfig holds configuration for shimmer effects
type ShimmerConfig struct {
	Enabled        bool
	ReduceMotion   bool    // static highlight instead of a moving band
	SpeedMs        int     // tick interval
	WidthRatio     float64 // band width relative to the text
	CycleMs        int     // time for one sweep
	PauseBetweenMs int     // rest between sweeps
}

// ShimmerState holds the current state of a shimmer effect
type ShimmerState struct {
	Config    ShimmerConfig
	Active    bool
	TrueColor bool

	center     float64
	lastUpdate time.Time
	pausedAt   time.Time // zero while sweeping
}

// DefaultShimmerConfig returns default shimmer configuration.
// LOGBOOK_REDUCE_MOTION turns the sweep into a static highlight.
func DefaultShimmerConfig() ShimmerConfig {
	return ShimmerConfig{
		Enabled:        true,
		ReduceMotion:   os.Getenv("LOGBOOK_REDUCE_MOTION") != "",
		SpeedMs:        100,
		WidthRatio:     0.25,
		CycleMs:        1800,
		PauseBetweenMs: 500,
	}
}

// NewShimmerState creates a new shimmer state
func NewShimmerState(config ShimmerConfig) *ShimmerState {
	return &ShimmerState{
		Config:     config,
		Active:     config.Enabled && !config.ReduceMotion,
		TrueColor:  os.Getenv("COLORTERM") == "truecolor",
		lastUpdate: time.Now(),
	}
}

// advance moves the band along a text of n visible glyphs
func (s *ShimmerState) advance(n int, now time.Time) {
	if !s.Active || n <= 0 || now.Sub(s.lastUpdate) < s.interval() {
		return
	}
	s.lastUpdate = now

	margin := float64(n) * s.Config.WidthRatio
	if !s.pausedAt.IsZero() {
		if now.Sub(s.pausedAt) >= time.Duration(s.Config.PauseBetweenMs)*time.Millisecond {
			s.pausedAt = time.Time{}
			s.center = -margin
		}
		return
	}

	// The band starts and ends outside the text.
	ticks := float64(s.Config.CycleMs) / float64(s.Config.SpeedMs)
	s.center += (float64(n) + 2*margin) / ticks
	if end := float64(n) + margin; s.center >= end {
		s.center = end
		s.pausedAt = now
	}
}

// Reset restarts the sweep, e.g. when the selection changes
func (s *ShimmerState) Reset() {
	s.center = 0
	s.lastUpdate = time.Now()
	s.pausedAt = time.Time{}
}

// RenderShimmerText renders text truncated to maxWidth with the shimmer band
func (s *ShimmerState) RenderShimmerText(text string, maxWidth int) string {
	visible := truncate(text, maxWidth)
	if visible == "" {
		return ""
	}

	s.advance(len(visible), time.Now())

	switch {
	case !s.Active:
		return fmt.Sprintf("\033[38;2;167;139;250m%s\033[0m", visible)
	case !s.TrueColor:
		return s.render256(visible)
	default:
		return s.renderTrueColor(visible)
	}
}

// renderTrueColor blends each glyph from the base grey towards light violet
// along a gaussian centred on the band.
func (s *ShimmerState) renderTrueColor(text string) string {
	base := [3]float64{177, 184, 199}      // #B1B8C7
	highlight := [3]float64{234, 230, 255} // #EAE6FF

	sigma := math.Max(s.Config.WidthRatio*float64(len(text))/2, 1)

	var b strings.Builder
	for i, char := range text {
		dx := float64(i) - s.center
		w := math.Exp(-(dx * dx) / (2 * sigma * sigma))
		fmt.Fprintf(&b, "\033[38;2;%d;%d;%dm%c",
			int(base[0]*(1-w)+highlight[0]*w),
			int(base[1]*(1-w)+highlight[1]*w),
			int(base[2]*(1-w)+highlight[2]*w),
			char)
	}
	b.WriteString("\033[0m")
	return b.String()
}

// render256 highlights a fixed-width window for terminals without truecolor
func (s *ShimmerState) render256(text string) string {
	width := max(int(s.Config.WidthRatio*float64(len(text))), 1)
	start := int(s.center) - width/2

	var b strings.Builder
	for i, char := range text {
		color := 250
		if i >= start && i < start+width {
			color = 147
		}
		fmt.Fprintf(&b, "\033[38;5;%dm%c", color, char)
	}
	b.WriteString("\033[0m")
	return b.String()
}

func (s *ShimmerState) interval() time.Duration {
	return time.Duration(s.Config.SpeedMs) * time.Millisecond
}

// GetTickInterval returns the interval for tea.Tick commands
func (s *ShimmerState) GetTickInterval() time.Duration {
	if !s.Active {
		return 0
	}
	return s.interval()
}

// ShouldTick returns true if shimmer should be ticking
func (s *ShimmerState) ShouldTick() bool {
	return s.Active && s.Config.Enabled && !s.Config.ReduceMotion
}
