package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// BandColor returns the lipgloss style for the given confidence band.
func BandColor(band domain.ConfidenceBand) lipgloss.Style {
	switch band {
	case domain.BandHigh:
		return StyleGreen
	case domain.BandMedium:
		return StyleYellow
	case domain.BandLow:
		return StyleRed
	default:
		return StyleDim
	}
}

// BandIndicator returns a colored confidence indicator string such as "● HIGH".
func BandIndicator(band domain.ConfidenceBand) string {
	switch band {
	case domain.BandHigh:
		return StyleGreen.Render("● HIGH")
	case domain.BandMedium:
		return StyleYellow.Render("● MEDIUM")
	case domain.BandLow:
		return StyleRed.Render("● LOW")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// HeatCell renders a heat score with temperature coloring.
func HeatCell(score int) string {
	text := fmt.Sprintf("%3d", score)
	switch {
	case score >= 70:
		return StyleRed.Render(text)
	case score >= 40:
		return StyleYellow.Render(text)
	default:
		return StyleGreen.Render(text)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
