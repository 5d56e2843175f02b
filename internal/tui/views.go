package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tagwm/internal/wm"
)

// windowsView lists tags and their windows, scrolled to keep the cursor in
// the visible height.
func (m model) windowsView(height int) string {
	var focused wm.WindowID
	if m.state.Focused != nil {
		focused = m.state.Focused.ID
	}

	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(m.rows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := m.rowLine(m.rows[i], focused)
		if i == m.cursor {
			line = selectedRowStyle.Width(m.width).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m model) rowLine(r row, focused wm.WindowID) string {
	if r.window == wm.NoWindow {
		t := m.state.Tags[r.tag]
		label := fmt.Sprintf("%d %s", t.ID.Number(), t.Name)
		if t.ID == m.state.Current {
			return currentTagStyle.Render("● "+label) + dimStyle.Render(fmt.Sprintf("  %s", t.Layout.Type))
		}
		if len(t.Windows) == 0 {
			return dimStyle.Render("  " + label)
		}
		return tagRowStyle.Render("  " + label)
	}

	w, ok := m.state.Window(r.window)
	if !ok {
		return "    ?"
	}
	marker := "   "
	if w.ID == focused {
		marker = "  *"
	}
	title := w.Title
	if title == "" {
		title = w.Class
	}
	var flags []string
	if w.Floating {
		flags = append(flags, "float")
	}
	if w.Fullscreen {
		flags = append(flags, "full")
	}
	if w.Minimized {
		flags = append(flags, "min")
	}
	line := fmt.Sprintf("%s %s", marker, title)
	if w.Class != "" && w.Class != title {
		line += dimStyle.Render(" [" + w.Class + "]")
	}
	if len(flags) > 0 {
		line += dimStyle.Render(" (" + strings.Join(flags, ",") + ")")
	}
	return line
}

// layoutView shows the current tag's layout and the spacing settings.
func (m model) layoutView() string {
	t := m.state.CurrentTag()
	field := func(name, value string) string {
		return labelStyle.Render(name) + value
	}

	lines := []string{
		field("Tag", fmt.Sprintf("%d %s", t.ID.Number(), t.Name)),
		field("Layout", string(t.Layout.Type)),
		field("Master ratio", fmt.Sprintf("%.2f", t.Layout.MasterRatio)),
		field("Master count", fmt.Sprint(t.Layout.MasterCount)),
		field("Windows", fmt.Sprint(len(t.Windows))),
		"",
		field("Screen", m.state.Screen.String()),
		field("Usable", m.state.Usable.String()),
		field("Bar", onOff(m.state.BarVisible)),
	}
	if m.cfg != nil {
		a := m.cfg.Appearance
		lines = append(lines,
			field("Outer gap", fmt.Sprintf("%dpx", a.GapSize)),
			field("Inner gap", fmt.Sprintf("%dpx", a.InnerGap)),
			field("Border", fmt.Sprintf("%dpx", a.BorderWidth)),
		)
	}
	return strings.Join(lines, "\n")
}

func onOff(v bool) string {
	if v {
		return "shown"
	}
	return "hidden"
}
