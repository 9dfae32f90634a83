package ui

import (
	"fmt"
	"math"

	"github.com/mattn/go-runewidth"
)

// maxCellWidth keeps one long district name from pushing the other columns
// off screen.
const maxCellWidth = 28

// truncate cuts s to maxWidth terminal cells, ending in an ellipsis.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

func formatScore(score float64) string {
	return fmt.Sprintf("%s%.1f%s", ScoreTag(score), score, tagOff)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// formatShift renders a rank movement as ▲3, ▼2 or –.
func formatShift(shift float64) string {
	n := int(math.Round(shift))
	switch {
	case n > 0:
		return fmt.Sprintf("%s▲%d%s", ShiftTag(shift), n, tagOff)
	case n < 0:
		return fmt.Sprintf("%s▼%d%s", ShiftTag(shift), -n, tagOff)
	default:
		return tagMute + "–" + tagOff
	}
}

// formatCount abbreviates large counts: 1.2M, 45.3K.
func formatCount(v float64) string {
	switch {
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case math.Abs(v) >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func formatChange(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("%s+%.1f%s", tagFoam, v, tagOff)
	}
	return fmt.Sprintf("%s%.1f%s", tagLove, v, tagOff)
}
