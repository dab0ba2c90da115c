package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// IssueStatusPill returns a colored status indicator for issue status.
func IssueStatusPill(status domain.IssueStatus) string {
	switch status {
	case domain.IssueBacklog:
		return StyleDim.Render("○ Backlog")
	case domain.IssueTodo:
		return StyleBlue.Render("○ Todo")
	case domain.IssueInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.IssueInReview:
		return StylePurple.Render("◐ In Review")
	case domain.IssueTesting:
		return StyleYellow.Render("◑ Testing")
	case domain.IssueDone:
		return StyleDim.Render("✔ Done")
	default:
		return StyleDim.Render(string(status))
	}
}

// ScenarioBadge returns a styled scenario name with its delta against the
// baseline projection.
func ScenarioBadge(id domain.ScenarioID, delta float64) string {
	label := StylePurple.Render(string(id))
	if delta > 0 {
		return label + " " + StyleGreen.Render(fmt.Sprintf("(+%.1f)", delta))
	}
	if delta < 0 {
		return label + " " + StyleRed.Render(fmt.Sprintf("(%.1f)", delta))
	}
	return label + " " + StyleDim.Render("(±0.0)")
}

// Probability renders a goal probability with band coloring.
func Probability(p float64) string {
	text := fmt.Sprintf("%.1f%%", p)
	return BandColor(domainBand(p)).Render(text)
}

func domainBand(p float64) domain.ConfidenceBand {
	switch {
	case p >= 75.0:
		return domain.BandHigh
	case p >= 50.0:
		return domain.BandMedium
	default:
		return domain.BandLow
	}
}

// Pct renders a ratio percentage for the signals block.
func Pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
