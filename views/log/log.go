package log

import (
	"charm-wallet-connect/helpers"
	"charm-wallet-connect/styles"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// reservedHeight covers header, status panel, nav, log title and borders.
const reservedHeight = 14

// Height returns the viewport height for a terminal of height h: at most a
// third of the screen or 12 lines, never less than 3.
func Height(h int) int {
	available := helpers.Max(3, h-reservedHeight)
	return helpers.Max(3, helpers.Min(available, helpers.Min(h/3, 12)))
}

// Render renders the log panel. vp must already be sized with Height.
func Render(width int, logReady bool, logSpinnerView string, vp viewport.Model) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Log")

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2)).
		Height(vp.Height + 2)

	if !logReady {
		return border.Render(title + "\n\n" + "initializing...\n" + logSpinnerView)
	}

	if vp.TotalLineCount() > vp.Height {
		title += lipgloss.NewStyle().
			Foreground(styles.CMuted).
			Render(fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100)))
	}

	return border.Render(title + "\n\n" + vp.View())
}
