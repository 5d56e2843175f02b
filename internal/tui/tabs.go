package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a dashboard tab.
type Tab int

const (
	TabWindows Tab = iota
	TabLayout
	tabCount
)

var tabNames = [tabCount]string{"Windows", "Layout"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabNames[t]
}

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236"))
	activeTabStyle = tabStyle.
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))
	statusStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("235"))

	tagRowStyle      = lipgloss.NewStyle().Bold(true)
	currentTagStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("238"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(16)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	onlineDot        = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	offlineDot       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
)

// renderTabBar draws the tab strip followed by a blank line.
func renderTabBar(active Tab, width int) string {
	cells := make([]string, 0, 2*int(tabCount))
	for t := Tab(0); t < tabCount; t++ {
		style := tabStyle
		if t == active {
			style = activeTabStyle
		}
		cells = append(cells, style.Render(t.String()), " ")
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return lipgloss.NewStyle().Width(width).MarginBottom(1).Render(row)
}

// renderStatusBar draws the top line: the current tag summary, or a notice
// that the daemon cannot be reached.
func renderStatusBar(connected bool, summary string, width int) string {
	text := offlineDot + " daemon not running"
	if connected {
		text = onlineDot + " " + summary
	}
	return statusStyle.Width(width).Render(text)
}
