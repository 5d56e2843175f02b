package bar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/wm"
)

// Styles holds the terminal styles used by Render.
type Styles struct {
	Base     lipgloss.Style
	Current  lipgloss.Style
	Occupied lipgloss.Style
	Layout   lipgloss.Style
	Title    lipgloss.Style
}

// NewStyles derives terminal styles from the bar appearance settings.
func NewStyles(a config.Appearance) Styles {
	base := lipgloss.NewStyle().
		Foreground(lipgloss.Color(a.BarForeground)).
		Background(lipgloss.Color(a.BarBackground))
	return Styles{
		Base:     base,
		Current:  base.Bold(true).Foreground(lipgloss.Color(a.BorderFocus)),
		Occupied: base.Underline(true),
		Layout:   base.Faint(true),
		Title:    base.Italic(true),
	}
}

// Render draws the bar as a single styled terminal line of the given width
// in cells. It is meant for status-line consumers such as tmux or polybar.
func Render(s wm.State, width int, styles Styles, now time.Time) string {
	segs := Build(s, width, func(text string) int { return lipgloss.Width(text) }, now)

	var left []string
	var right string
	for _, seg := range segs {
		switch seg.Kind {
		case KindTag:
			st := styles.Base
			if seg.Current {
				st = styles.Current
			} else if seg.Occupied {
				st = styles.Occupied
			}
			left = append(left, st.Render(seg.Text))
		case KindSeparator:
			left = append(left, styles.Base.Render(seg.Text))
		case KindLayout:
			left = append(left, styles.Layout.Render(seg.Text))
		case KindTitle:
			left = append(left, styles.Title.Render(seg.Text))
		case KindClock:
			right = styles.Base.Render(seg.Text)
		}
	}

	line := strings.Join(left, styles.Base.Render(" "))
	gap := width - lipgloss.Width(line) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return line + styles.Base.Render(strings.Repeat(" ", gap)) + right
}
