package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// renderProgressBar draws a filled percentage bar with the value centered
// inside it, e.g. a 20-cell bar that is 65% blue with "65%" in the middle.
func renderProgressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	inner := fmt.Sprintf("%d%%", pct)
	innerRunes := []rune(inner)

	// Ascii profile: a plain cookie reads better than an uncolored bar.
	if lipgloss.ColorProfile() == termenv.Ascii {
		filled := pct * width / 100
		return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "] " + inner
	}

	minW := len(innerRunes) + 2
	if width < minW {
		width = minW
	}
	filledN := int(math.Round(float64(pct) / 100 * float64(width)))
	if filledN > width {
		filledN = width
	}
	start := (width - len(innerRunes)) / 2

	var b strings.Builder
	for i := 0; i < width; i++ {
		bg := progressEmptyBg
		fg := progressEmptyFg
		if i < filledN {
			bg = progressFillBg
			fg = progressFillFg
		}
		ch := " "
		if i >= start && i < start+len(innerRunes) {
			ch = string(innerRunes[i-start])
		}
		b.WriteString(lipgloss.NewStyle().Background(bg).Foreground(fg).Render(ch))
	}
	return b.String()
}
