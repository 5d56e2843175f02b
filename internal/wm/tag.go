package wm

import (
	"slices"

	"github.com/1broseidon/tagwm/internal/config"
)

// Tag is a named workspace holding an ordered list of windows.
type Tag struct {
	ID      TagID               `json:"id"`
	Name    string              `json:"name"`
	Layout  config.LayoutConfig `json:"layout"`
	Windows []WindowID          `json:"windows"`
	Focused WindowID            `json:"focused"` // NoWindow when nothing is focused
}

func (t *Tag) index(id WindowID) int {
	return slices.Index(t.Windows, id)
}

// add appends id and focuses it.
func (t *Tag) add(id WindowID) {
	t.Windows = append(t.Windows, id)
	t.Focused = id
}

// remove drops id from the list. If id was focused, focus falls back to the
// last remaining window, or to none.
func (t *Tag) remove(id WindowID) bool {
	i := t.index(id)
	if i < 0 {
		return false
	}
	t.Windows = slices.Delete(t.Windows, i, i+1)
	if t.Focused == id {
		t.Focused = NoWindow
		if n := len(t.Windows); n > 0 {
			t.Focused = t.Windows[n-1]
		}
	}
	return true
}

func (t *Tag) clone() Tag {
	out := *t
	out.Windows = append([]WindowID{}, t.Windows...)
	return out
}
