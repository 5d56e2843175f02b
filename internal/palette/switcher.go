package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/tagwm/internal/wm"
)

// Action prefixes used by switcher items.
const (
	actionTag   = "tag:"
	actionFocus = "focus:"
)

// Target receives the switcher's choice. *ipc.Client satisfies it.
type Target interface {
	SwitchTag(n int) (string, error)
	Focus(id wm.WindowID) (string, error)
}

// SwitcherItems lists every tag followed by its windows in stacking order.
// The current tag and the focused window are marked active.
func SwitcherItems(st *wm.State) []Item {
	var focused wm.WindowID
	if st.Focused != nil {
		focused = st.Focused.ID
	}

	items := make([]Item, 0, len(st.Tags)+len(st.Windows))
	for _, tag := range st.Tags {
		n := tag.ID.Number()
		label := fmt.Sprintf("%d: %s", n, tag.Name)
		if len(tag.Windows) > 0 {
			label += fmt.Sprintf(" (%d)", len(tag.Windows))
		}
		items = append(items, Item{
			Label:    label,
			Action:   actionTag + strconv.Itoa(n),
			Icon:     "preferences-desktop",
			Meta:     "tag " + tag.Name,
			IsActive: tag.ID == st.Current,
		})

		for _, id := range tag.Windows {
			w, ok := st.Window(id)
			if !ok {
				continue
			}
			items = append(items, windowItem(w, id == focused))
		}
	}
	return items
}

func windowItem(w wm.Window, focused bool) Item {
	title := w.Title
	if title == "" {
		title = w.Class
	}
	label := "    " + title
	if w.Class != "" && w.Class != title {
		label += " [" + w.Class + "]"
	}
	if w.Minimized {
		label += " (minimized)"
	}
	return Item{
		Label:    label,
		Action:   actionFocus + strconv.FormatUint(uint64(w.ID), 10),
		Icon:     strings.ToLower(w.Class),
		Meta:     w.Class + " " + w.Instance,
		IsActive: focused,
	}
}

// Apply performs the action of a selected switcher item on target.
func Apply(target Target, action string) (string, error) {
	switch {
	case strings.HasPrefix(action, actionTag):
		n, err := strconv.Atoi(strings.TrimPrefix(action, actionTag))
		if err != nil {
			return "", fmt.Errorf("palette: bad tag action %q", action)
		}
		return target.SwitchTag(n)
	case strings.HasPrefix(action, actionFocus):
		id, err := strconv.ParseUint(strings.TrimPrefix(action, actionFocus), 10, 64)
		if err != nil {
			return "", fmt.Errorf("palette: bad focus action %q", action)
		}
		return target.Focus(wm.WindowID(id))
	}
	return "", fmt.Errorf("palette: unknown action %q", action)
}

// Switch shows the switcher for st and applies the user's choice. It returns
// ErrCancelled when the palette is dismissed.
func Switch(backend Backend, target Target, st *wm.State) (string, error) {
	items := SwitcherItems(st)
	cur := st.CurrentTag()
	message := fmt.Sprintf("tag %d: %s, layout %s", cur.ID.Number(), cur.Name, cur.Layout.Type)

	res, err := backend.Show("tagwm", items, message)
	if err != nil {
		return "", err
	}
	if res.Item.IsHeader {
		return "", ErrCancelled
	}
	return Apply(target, res.Item.Action)
}
