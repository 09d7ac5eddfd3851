package ui

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Truncate shortens a string to the given display width, appending an
// ellipsis when content is cut. Width-aware for CJK and emoji.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders a numeric series as block characters, resampling to
// fit the given width. Flat series render as a middle band.
func Sparkline(points []float64, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	// Resample to width by picking evenly spaced points. The first sample
	// is always points[0], which keeps width 1 clear of the divisor.
	sampled := points
	if len(points) > width {
		sampled = make([]float64, width)
		sampled[0] = points[0]
		for i := 1; i < width; i++ {
			sampled[i] = points[i*(len(points)-1)/(width-1)]
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range sampled {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var sb strings.Builder
	for _, v := range sampled {
		idx := len(sparkRunes) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}
