package wm

import (
	"slices"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/geom"
)

// Display applies the effects of state changes to the screen. Apply is
// called without the manager lock held, once per logical operation.
type Display interface {
	Apply(Update)
}

// DisplayFunc adapts a function to the Display interface.
type DisplayFunc func(Update)

func (f DisplayFunc) Apply(u Update) { f(u) }

type nopDisplay struct{}

func (nopDisplay) Apply(Update) {}

// Placement assigns an outer rectangle to a window.
type Placement struct {
	ID   WindowID  `json:"id"`
	Rect geom.Rect `json:"rect"`
}

// Update is the set of intents produced by one operation. The display
// layer decides how to realize them.
type Update struct {
	Placements []Placement `json:"placements,omitempty"`
	Show       []WindowID  `json:"show,omitempty"`
	Hide       []WindowID  `json:"hide,omitempty"`
	Close      []WindowID  `json:"close,omitempty"`

	// Focus is valid when FocusChanged is set; NoWindow means focus the root.
	Focus        WindowID `json:"focus"`
	FocusChanged bool     `json:"focus_changed"`

	// Bar is set when anything the bar displays may have changed.
	Bar        bool `json:"bar"`
	BarVisible bool `json:"bar_visible"`

	// Config is set when the active configuration was replaced.
	Config *config.Config `json:"-"`

	Exit bool `json:"exit"`
}

// Empty reports whether the update carries nothing to apply.
func (u *Update) Empty() bool {
	return len(u.Placements) == 0 && len(u.Show) == 0 && len(u.Hide) == 0 &&
		len(u.Close) == 0 && !u.FocusChanged && !u.Bar && u.Config == nil && !u.Exit
}

// place records r for id, replacing an earlier placement of the same window.
func (u *Update) place(id WindowID, r geom.Rect) {
	for i := range u.Placements {
		if u.Placements[i].ID == id {
			u.Placements[i].Rect = r
			return
		}
	}
	u.Placements = append(u.Placements, Placement{ID: id, Rect: r})
}

func (u *Update) show(id WindowID) {
	u.Hide = slices.DeleteFunc(u.Hide, func(x WindowID) bool { return x == id })
	if !slices.Contains(u.Show, id) {
		u.Show = append(u.Show, id)
	}
}

func (u *Update) hide(id WindowID) {
	u.Show = slices.DeleteFunc(u.Show, func(x WindowID) bool { return x == id })
	if !slices.Contains(u.Hide, id) {
		u.Hide = append(u.Hide, id)
	}
}

// forget drops every intent for a window that no longer exists.
func (u *Update) forget(id WindowID) {
	match := func(x WindowID) bool { return x == id }
	u.Show = slices.DeleteFunc(u.Show, match)
	u.Hide = slices.DeleteFunc(u.Hide, match)
	u.Placements = slices.DeleteFunc(u.Placements, func(p Placement) bool { return p.ID == id })
}
