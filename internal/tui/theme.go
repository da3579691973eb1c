package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette. Everything is adaptive so the shelf stays readable on light and dark
// terminals; faint styling is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted        lipgloss.TerminalColor = ac("240", "243")
	colorSurfaceFg    lipgloss.TerminalColor = ac("235", "252")
	colorCardBorder   lipgloss.TerminalColor = ac("250", "243")
	colorSelected     lipgloss.TerminalColor = ac("232", "255")
	colorAccent       lipgloss.TerminalColor = ac("27", "62")
	colorGhost        lipgloss.TerminalColor = ac("27", "111")
	colorDraggedFg    lipgloss.TerminalColor = ac("247", "240")
	colorToastErrorBg lipgloss.TerminalColor = ac("196", "160")
	colorToastErrorFg lipgloss.TerminalColor = ac("255", "255")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func styleToastError() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorToastErrorBg).Foreground(colorToastErrorFg).Padding(0, 1)
}

func styleGhost() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorGhost).Bold(true)
}

// applyColorProfilePreference honours NO_COLOR and otherwise trusts TERM/COLORTERM
// over termenv's detection when they claim more colours.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(pickColorProfile(termenv.ColorProfile(), os.Getenv("TERM"), os.Getenv("COLORTERM")))
}

func pickColorProfile(detected termenv.Profile, term, colorterm string) termenv.Profile {
	term = strings.ToLower(strings.TrimSpace(term))
	colorterm = strings.ToLower(strings.TrimSpace(colorterm))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if detected != termenv.Ascii {
			return termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if detected == termenv.Ascii || detected == termenv.ANSI {
			return termenv.ANSI256
		}
	}
	return detected
}

// applyThemePreference decides light vs dark. FOLDERDECK_TUI_THEME wins over
// the configured theme; "auto" falls back to the COLORFGBG heuristic.
func applyThemePreference(configured string) {
	if dark, ok := darkBackground(os.Getenv("FOLDERDECK_TUI_THEME"), configured, os.Getenv("COLORFGBG")); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

func darkBackground(envTheme, configured, colorfgbg string) (dark bool, ok bool) {
	for _, v := range []string{envTheme, configured} {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "light":
			return false, true
		case "dark":
			return true, true
		}
	}
	// COLORFGBG is "fg;bg" (sometimes more segments); the last one is the background.
	if v := strings.TrimSpace(colorfgbg); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			return bg < 7, true
		}
	}
	return false, false
}
