package wm

import (
	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/geom"
)

// State is a point-in-time copy of the manager, safe to read without the
// lock and to encode as JSON.
type State struct {
	Current    TagID     `json:"current"`
	Tags       []Tag     `json:"tags"`
	Windows    []Window  `json:"windows"`
	Focused    *Window   `json:"focused,omitempty"`
	Screen     geom.Rect `json:"screen"`
	Usable     geom.Rect `json:"usable"`
	BarVisible bool      `json:"bar_visible"`
	BarHeight  int       `json:"bar_height"`
}

// CurrentTag returns the current tag of the snapshot.
func (s *State) CurrentTag() Tag {
	return s.Tags[s.Current]
}

// Window returns the snapshot record for id.
func (s *State) Window(id WindowID) (Window, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return Window{}, false
}

// State snapshots the manager.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{
		Current:    m.current,
		Tags:       make([]Tag, len(m.tags)),
		Windows:    []Window{},
		Screen:     m.screen,
		Usable:     m.usableAreaLocked(),
		BarVisible: m.barVisible,
		BarHeight:  m.cfg.Appearance.BarHeight,
	}
	for i, t := range m.tags {
		s.Tags[i] = t.clone()
	}
	for _, t := range m.tags {
		for _, id := range t.Windows {
			if w, ok := m.reg.Get(id); ok {
				s.Windows = append(s.Windows, *w)
			}
		}
	}
	if w, ok := m.focusedLocked(); ok {
		cp := *w
		s.Focused = &cp
	}
	return s
}

// Window returns a copy of the record for id.
func (m *Manager) Window(id WindowID) (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.reg.Get(id)
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Windows returns copies of the records on tag, in list order.
func (m *Manager) Windows(tag TagID) ([]Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tagLocked(tag)
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]Window, 0, len(t.Windows))
	for _, id := range t.Windows {
		if w, ok := m.reg.Get(id); ok {
			out = append(out, *w)
		}
	}
	return out, nil
}

// Focused returns the focused window of the current tag.
func (m *Manager) Focused() (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.focusedLocked()
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// CurrentTag returns a copy of the current tag.
func (m *Manager) CurrentTag() Tag {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tags[m.current].clone()
}

// Tag returns a copy of tag id.
func (m *Manager) Tag(id TagID) (Tag, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tagLocked(id)
	if !ok {
		return Tag{}, false
	}
	return t.clone(), true
}

// TagCount returns the number of tags.
func (m *Manager) TagCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tags)
}

// Config returns the active configuration. Callers must not modify it.
func (m *Manager) Config() *config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// WindowCount returns the number of managed windows.
func (m *Manager) WindowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.Len()
}
