package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestApplyThemePreference(t *testing.T) {
	oldProfile := lipgloss.ColorProfile()
	oldBG := lipgloss.HasDarkBackground()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(oldProfile)
		lipgloss.SetHasDarkBackground(oldBG)
	})

	t.Setenv("OBRALOG_TUI_THEME", "light")
	t.Setenv("OBRALOG_TUI_DARKBG", "")
	t.Setenv("COLORFGBG", "")
	applyThemePreference()
	if lipgloss.HasDarkBackground() {
		t.Fatalf("expected light background after forcing light theme")
	}

	t.Setenv("OBRALOG_TUI_THEME", "dark")
	applyThemePreference()
	if !lipgloss.HasDarkBackground() {
		t.Fatalf("expected dark background after forcing dark theme")
	}

	// The explicit theme wins over the darkbg hint.
	t.Setenv("OBRALOG_TUI_THEME", "light")
	t.Setenv("OBRALOG_TUI_DARKBG", "true")
	applyThemePreference()
	if lipgloss.HasDarkBackground() {
		t.Fatalf("theme env should win over darkbg hint")
	}

	// COLORFGBG heuristic: "15;0" is a dark background.
	t.Setenv("OBRALOG_TUI_THEME", "")
	t.Setenv("OBRALOG_TUI_DARKBG", "")
	t.Setenv("COLORFGBG", "15;0")
	applyThemePreference()
	if !lipgloss.HasDarkBackground() {
		t.Fatalf("COLORFGBG=15;0 should mean dark background")
	}
}
