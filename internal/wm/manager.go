package wm

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/geom"
	"github.com/1broseidon/tagwm/internal/tiling"
)

const (
	MasterRatioStep = 0.05
	MinMasterRatio  = 0.05
	MaxMasterRatio  = 0.95
)

// WindowInfo describes a new top-level window reported by the display.
type WindowInfo struct {
	Title    string
	Class    string
	Instance string
	Geometry geom.Rect

	// Bind, when set, receives the new id before the resulting update is
	// applied, so the display can resolve it. It runs under the manager
	// lock and must not call back into the manager.
	Bind func(WindowID)
}

// Manager owns all window, tag and focus state. Every exported method
// takes the lock for one logical operation, then hands the resulting
// Update to the display after releasing it.
type Manager struct {
	mu sync.Mutex

	cfg        *config.Config
	reg        *Registry
	tags       []*Tag
	current    TagID
	screen     geom.Rect
	barVisible bool

	pending   Update
	lastFocus WindowID

	display Display
	logger  *slog.Logger

	done     chan struct{}
	exitOnce sync.Once
}

// New creates a manager with one tag per configured tag name. A nil
// display discards updates; a nil logger uses slog.Default.
func New(cfg *config.Config, display Display, logger *slog.Logger) *Manager {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if display == nil {
		display = nopDisplay{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	names := cfg.Tags.Names
	if len(names) == 0 {
		names = []string{"1"}
	}
	tags := make([]*Tag, len(names))
	for i, name := range names {
		tags[i] = &Tag{
			ID:      TagID(i),
			Name:    name,
			Layout:  cfg.LayoutForTag(i),
			Windows: []WindowID{},
		}
	}

	return &Manager{
		cfg:        cfg,
		reg:        NewRegistry(),
		tags:       tags,
		barVisible: cfg.Appearance.BarHeight > 0,
		display:    display,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// run executes fn under the lock and applies the collected update after
// unlocking.
func (m *Manager) run(fn func() error) error {
	m.mu.Lock()
	err := fn()
	m.syncFocusLocked()
	u := m.pending
	m.pending = Update{}
	if u.Bar {
		u.BarVisible = m.barVisible
	}
	m.mu.Unlock()

	if !u.Empty() {
		m.display.Apply(u)
	}
	return err
}

func (m *Manager) syncFocusLocked() {
	focus := m.tags[m.current].Focused
	if focus != m.lastFocus {
		m.lastFocus = focus
		m.pending.Focus = focus
		m.pending.FocusChanged = true
		m.pending.Bar = true
	}
}

func (m *Manager) tagLocked(id TagID) (*Tag, bool) {
	if int(id) >= len(m.tags) {
		return nil, false
	}
	return m.tags[id], true
}

func (m *Manager) usableAreaLocked() geom.Rect {
	bar := 0
	if m.barVisible {
		bar = m.cfg.Appearance.BarHeight
	}
	return tiling.UsableArea(m.screen, bar, m.cfg.Appearance.GapSize)
}

// floatsLocked reports whether w keeps its own geometry: it is floating, or
// its tag uses the floating layout.
func (m *Manager) floatsLocked(w *Window) bool {
	return w.Floating || m.tags[w.Tag].Layout.Type == config.LayoutFloating
}

// visibleLocked reports whether w is on the current tag and not minimized.
func (m *Manager) visibleLocked(w *Window) bool {
	return w.Tag == m.current && !w.Minimized
}

// arrangeLocked recomputes tiled geometry for t. Placements are emitted
// only for the current tag; hidden tags keep their records up to date.
func (m *Manager) arrangeLocked(t *Tag) {
	if m.screen.Empty() {
		return
	}
	var tiled []*Window
	for _, id := range t.Windows {
		if w, ok := m.reg.Get(id); ok && w.Tiled() {
			tiled = append(tiled, w)
		}
	}
	rects, err := tiling.Arrange(len(tiled), m.usableAreaLocked(), t.Layout, m.cfg.Appearance.InnerGap)
	if err != nil {
		m.logger.Warn("arrange failed", "tag", t.Name, "windows", len(tiled), "error", err)
		return
	}
	for i, r := range rects {
		w := tiled[i]
		w.Geometry = r
		if t.ID == m.current {
			m.pending.place(w.ID, r)
		}
	}
}

func (m *Manager) arrangeAllLocked() {
	for _, t := range m.tags {
		m.arrangeLocked(t)
	}
}

// Manage registers a window reported by the display. The first matching
// window rule may make it floating or send it to another tag; otherwise
// it joins the current tag.
func (m *Manager) Manage(info WindowInfo) WindowID {
	var id WindowID
	_ = m.run(func() error {
		w := Window{
			Title:    info.Title,
			Class:    info.Class,
			Instance: info.Instance,
			Tag:      m.current,
			Geometry: info.Geometry,
		}
		if rule, ok := m.cfg.MatchRule(info.Class, info.Instance, info.Title); ok {
			w.Floating = rule.Floating
			if t, ok := TagFromNumber(rule.Tag); ok && int(t) < len(m.tags) {
				w.Tag = t
			}
			m.logger.Debug("window rule matched", "class", info.Class, "floating", rule.Floating, "tag", rule.Tag)
		}
		id = m.addLocked(w)
		if info.Bind != nil {
			info.Bind(id)
		}
		return nil
	})
	return id
}

// Add inserts a window on tag and focuses it there.
func (m *Manager) Add(title, class string, geometry geom.Rect, tag TagID) (WindowID, error) {
	var id WindowID
	err := m.run(func() error {
		if _, ok := m.tagLocked(tag); !ok {
			return fmt.Errorf("tag %d: %w", tag.Number(), ErrNotFound)
		}
		id = m.addLocked(Window{Title: title, Class: class, Tag: tag, Geometry: geometry})
		return nil
	})
	return id, err
}

func (m *Manager) addLocked(w Window) WindowID {
	w.Minimized = false
	w.Fullscreen = false
	w.RequestedGeometry = w.Geometry
	id := m.reg.Insert(w)

	t := m.tags[w.Tag]
	t.add(id)
	if w.Tag == m.current {
		m.pending.show(id)
		if w.Floating {
			m.pending.place(id, w.Geometry)
		}
	} else {
		m.pending.hide(id)
	}
	m.arrangeLocked(t)
	m.pending.Bar = true

	m.logger.Debug("window managed", "id", id, "class", w.Class, "tag", t.Name)
	return id
}

// Remove forgets a destroyed window. Unknown ids are ignored.
func (m *Manager) Remove(id WindowID) {
	_ = m.run(func() error {
		w, ok := m.reg.Remove(id)
		if !ok {
			return nil
		}
		t := m.tags[w.Tag]
		t.remove(id)
		m.pending.forget(id)
		m.arrangeLocked(t)
		m.pending.Bar = true
		m.logger.Debug("window unmanaged", "id", id, "tag", t.Name)
		return nil
	})
}

// SetTitle updates a window title.
func (m *Manager) SetTitle(id WindowID, title string) error {
	return m.run(func() error {
		w, ok := m.reg.Get(id)
		if !ok {
			return fmt.Errorf("window %s: %w", id, ErrNotFound)
		}
		if w.Title != title {
			w.Title = title
			m.pending.Bar = true
		}
		return nil
	})
}

// Configure handles a geometry request from a client. Floating windows,
// and windows on a floating layout, get what they asked for; tiled windows
// are told their current geometry again.
func (m *Manager) Configure(id WindowID, r geom.Rect) error {
	return m.run(func() error {
		w, ok := m.reg.Get(id)
		if !ok {
			return fmt.Errorf("window %s: %w", id, ErrNotFound)
		}
		if w.Fullscreen {
			w.RequestedGeometry = r
		} else if m.floatsLocked(w) {
			w.Geometry = r
			w.RequestedGeometry = r
		}
		if m.visibleLocked(w) {
			m.pending.place(id, w.Geometry)
		}
		return nil
	})
}

// SetFloating moves a window in or out of the layout engine's control.
func (m *Manager) SetFloating(id WindowID, floating bool) error {
	return m.run(func() error {
		return m.setFloatingLocked(id, floating)
	})
}

func (m *Manager) setFloatingLocked(id WindowID, floating bool) error {
	w, ok := m.reg.Get(id)
	if !ok {
		return fmt.Errorf("window %s: %w", id, ErrNotFound)
	}
	if w.Floating == floating {
		return nil
	}
	w.Floating = floating
	if floating && m.visibleLocked(w) && !w.Fullscreen {
		m.pending.place(id, w.Geometry)
	}
	m.arrangeLocked(m.tags[w.Tag])
	return nil
}

// SetFullscreen toggles fullscreen. Entering fullscreen saves the current
// geometry in RequestedGeometry; leaving restores it for floating windows and
// windows on a floating layout, and re-arranges tiled ones.
func (m *Manager) SetFullscreen(id WindowID, fullscreen bool) error {
	return m.run(func() error {
		return m.setFullscreenLocked(id, fullscreen)
	})
}

func (m *Manager) setFullscreenLocked(id WindowID, fullscreen bool) error {
	w, ok := m.reg.Get(id)
	if !ok {
		return fmt.Errorf("window %s: %w", id, ErrNotFound)
	}
	if w.Fullscreen == fullscreen {
		return nil
	}
	if fullscreen {
		w.RequestedGeometry = w.Geometry
		w.Fullscreen = true
		w.Geometry = m.screen
	} else {
		w.Fullscreen = false
		if m.floatsLocked(w) {
			w.Geometry = w.RequestedGeometry
		}
	}
	if m.visibleLocked(w) && (fullscreen || m.floatsLocked(w)) {
		m.pending.place(id, w.Geometry)
	}
	m.arrangeLocked(m.tags[w.Tag])
	return nil
}

// SetMinimized hides or restores a window without removing it from its tag.
func (m *Manager) SetMinimized(id WindowID, minimized bool) error {
	return m.run(func() error {
		return m.setMinimizedLocked(id, minimized)
	})
}

func (m *Manager) setMinimizedLocked(id WindowID, minimized bool) error {
	w, ok := m.reg.Get(id)
	if !ok {
		return fmt.Errorf("window %s: %w", id, ErrNotFound)
	}
	if w.Minimized == minimized {
		return nil
	}
	w.Minimized = minimized
	if w.Tag == m.current {
		if minimized {
			m.pending.hide(id)
		} else {
			m.pending.show(id)
			if !w.Tiled() {
				m.pending.place(id, w.Geometry)
			}
		}
	}
	m.arrangeLocked(m.tags[w.Tag])
	m.pending.Bar = true
	return nil
}

// focusedLocked returns the focused window of the current tag.
func (m *Manager) focusedLocked() (*Window, bool) {
	return m.reg.Get(m.tags[m.current].Focused)
}

// ToggleFloating flips floating on the focused window of the current tag.
func (m *Manager) ToggleFloating() {
	_ = m.run(func() error {
		if w, ok := m.focusedLocked(); ok {
			return m.setFloatingLocked(w.ID, !w.Floating)
		}
		return nil
	})
}

// ToggleFullscreen flips fullscreen on the focused window of the current tag.
func (m *Manager) ToggleFullscreen() {
	_ = m.run(func() error {
		if w, ok := m.focusedLocked(); ok {
			return m.setFullscreenLocked(w.ID, !w.Fullscreen)
		}
		return nil
	})
}

// ToggleMinimize flips minimized on the focused window of the current tag.
func (m *Manager) ToggleMinimize() {
	_ = m.run(func() error {
		if w, ok := m.focusedLocked(); ok {
			return m.setMinimizedLocked(w.ID, !w.Minimized)
		}
		return nil
	})
}

// SwitchTag makes id the current tag. Unknown or already-current tags are
// a no-op.
func (m *Manager) SwitchTag(id TagID) {
	_ = m.run(func() error {
		m.switchTagLocked(id)
		return nil
	})
}

func (m *Manager) switchTagLocked(id TagID) {
	next, ok := m.tagLocked(id)
	if !ok || id == m.current {
		return
	}
	for _, wid := range m.tags[m.current].Windows {
		m.pending.hide(wid)
	}
	m.current = id
	for _, wid := range next.Windows {
		w, ok := m.reg.Get(wid)
		if !ok || w.Minimized {
			continue
		}
		m.pending.show(wid)
		if !w.Tiled() {
			m.pending.place(wid, w.Geometry)
		}
	}
	m.arrangeLocked(next)
	m.pending.Bar = true
	m.logger.Debug("switched tag", "tag", next.Name)
}

// MoveWindowToTag moves a window to the end of target's list and focuses
// it there. The window is hidden if target is not the current tag.
func (m *Manager) MoveWindowToTag(id WindowID, target TagID) error {
	return m.run(func() error {
		return m.moveToTagLocked(id, target)
	})
}

func (m *Manager) moveToTagLocked(id WindowID, target TagID) error {
	w, ok := m.reg.Get(id)
	if !ok {
		return fmt.Errorf("window %s: %w", id, ErrNotFound)
	}
	dst, ok := m.tagLocked(target)
	if !ok {
		return fmt.Errorf("tag %d: %w", target.Number(), ErrNotFound)
	}
	if w.Tag == target {
		dst.Focused = id
		return nil
	}
	src := m.tags[w.Tag]
	src.remove(id)
	dst.add(id)
	w.Tag = target

	if target == m.current {
		if !w.Minimized {
			m.pending.show(id)
			if !w.Tiled() {
				m.pending.place(id, w.Geometry)
			}
		}
	} else {
		m.pending.hide(id)
	}
	m.arrangeLocked(src)
	m.arrangeLocked(dst)
	m.pending.Bar = true
	return nil
}

// MoveFocusedToTag moves the focused window of the current tag. It is a
// no-op when nothing is focused or target is unknown.
func (m *Manager) MoveFocusedToTag(target TagID) {
	_ = m.run(func() error {
		w, ok := m.focusedLocked()
		if !ok || int(target) >= len(m.tags) {
			return nil
		}
		return m.moveToTagLocked(w.ID, target)
	})
}

// FocusWindow focuses id on its own tag. The current tag does not change,
// so focusing a window on a hidden tag only takes effect once that tag is
// shown.
func (m *Manager) FocusWindow(id WindowID) error {
	return m.run(func() error {
		w, ok := m.reg.Get(id)
		if !ok {
			return fmt.Errorf("window %s: %w", id, ErrNotFound)
		}
		m.tags[w.Tag].Focused = id
		return nil
	})
}

// ShowWindow switches to the tag holding id and focuses it there, under one
// lock. It returns a copy of the window record.
func (m *Manager) ShowWindow(id WindowID) (Window, error) {
	var shown Window
	err := m.run(func() error {
		w, ok := m.reg.Get(id)
		if !ok {
			return fmt.Errorf("window %s: %w", id, ErrNotFound)
		}
		m.switchTagLocked(w.Tag)
		m.tags[w.Tag].Focused = id
		shown = *w
		return nil
	})
	return shown, err
}

// FocusNext focuses the next window of the current tag, wrapping around.
func (m *Manager) FocusNext() { m.cycleFocus(1) }

// FocusPrev focuses the previous window of the current tag, wrapping around.
func (m *Manager) FocusPrev() { m.cycleFocus(-1) }

func (m *Manager) cycleFocus(delta int) {
	_ = m.run(func() error {
		t := m.tags[m.current]
		n := len(t.Windows)
		if n == 0 {
			return nil
		}
		i := t.index(t.Focused)
		switch {
		case i >= 0:
			i = ((i+delta)%n + n) % n
		case delta > 0:
			i = 0
		default:
			i = n - 1
		}
		t.Focused = t.Windows[i]
		return nil
	})
}

// MoveWindowUp swaps the focused window with its predecessor.
func (m *Manager) MoveWindowUp() { m.shiftFocused(-1) }

// MoveWindowDown swaps the focused window with its successor.
func (m *Manager) MoveWindowDown() { m.shiftFocused(1) }

func (m *Manager) shiftFocused(delta int) {
	_ = m.run(func() error {
		t := m.tags[m.current]
		i := t.index(t.Focused)
		j := i + delta
		if i < 0 || j < 0 || j >= len(t.Windows) {
			return nil
		}
		t.Windows[i], t.Windows[j] = t.Windows[j], t.Windows[i]
		m.arrangeLocked(t)
		return nil
	})
}

// CycleLayout rotates the current tag through tiling, floating, monocle.
func (m *Manager) CycleLayout() {
	_ = m.run(func() error {
		t := m.tags[m.current]
		t.Layout.Type = t.Layout.Type.Next()
		m.arrangeLocked(t)
		m.pending.Bar = true
		return nil
	})
}

// SetLayout applies a named layout preset to the current tag.
func (m *Manager) SetLayout(name string) error {
	return m.run(func() error {
		lc, err := m.cfg.GetLayout(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		t := m.tags[m.current]
		t.Layout = lc
		m.arrangeLocked(t)
		m.pending.Bar = true
		return nil
	})
}

// AdjustMasterRatio changes the current tag's master ratio by delta,
// clamped to [MinMasterRatio, MaxMasterRatio].
func (m *Manager) AdjustMasterRatio(delta float64) {
	_ = m.run(func() error {
		t := m.tags[m.current]
		r := math.Round((t.Layout.MasterRatio+delta)*100) / 100
		t.Layout.MasterRatio = min(max(r, MinMasterRatio), MaxMasterRatio)
		m.arrangeLocked(t)
		return nil
	})
}

// AdjustMasterCount changes the current tag's master count by delta. The
// count never drops below 1.
func (m *Manager) AdjustMasterCount(delta int) {
	_ = m.run(func() error {
		t := m.tags[m.current]
		t.Layout.MasterCount = max(t.Layout.MasterCount+delta, 1)
		m.arrangeLocked(t)
		return nil
	})
}

// SetGap sets both the outer gap and the gap between tiled windows.
func (m *Manager) SetGap(px int) error {
	return m.run(func() error {
		if px < 0 || px > config.MaxGapSize {
			return fmt.Errorf("gap %d outside 0-%d: %w", px, config.MaxGapSize, ErrInvalidArgument)
		}
		cfg := m.cfg.Clone()
		cfg.Appearance.GapSize = px
		cfg.Appearance.InnerGap = px
		m.replaceConfigLocked(cfg)
		return nil
	})
}

// SetBorder sets the window border width.
func (m *Manager) SetBorder(px int) error {
	return m.run(func() error {
		if px < 0 || px > config.MaxBorderWidth {
			return fmt.Errorf("border %d outside 0-%d: %w", px, config.MaxBorderWidth, ErrInvalidArgument)
		}
		cfg := m.cfg.Clone()
		cfg.Appearance.BorderWidth = px
		m.replaceConfigLocked(cfg)
		return nil
	})
}

func (m *Manager) replaceConfigLocked(cfg *config.Config) {
	m.cfg = cfg
	m.pending.Config = cfg
	m.arrangeAllLocked()
}

// Reload replaces the configuration. Tag names and per-tag layouts are
// reset from the new config; the number of tags is fixed for the session.
// Validation problems are returned and logged but do not stop the reload.
func (m *Manager) Reload(cfg *config.Config) []string {
	problems := cfg.Validate()
	_ = m.run(func() error {
		if len(cfg.Tags.Names) != len(m.tags) {
			m.logger.Warn("tag count changed; keeping existing tags", "have", len(m.tags), "config", len(cfg.Tags.Names))
		}
		for i, t := range m.tags {
			if i < len(cfg.Tags.Names) {
				t.Name = cfg.Tags.Names[i]
			}
			t.Layout = cfg.LayoutForTag(i)
		}
		m.barVisible = cfg.Appearance.BarHeight > 0
		m.replaceConfigLocked(cfg)
		m.pending.Bar = true
		return nil
	})
	for _, p := range problems {
		m.logger.Warn("config problem", "problem", p)
	}
	m.logger.Info("config reloaded", "problems", len(problems))
	return problems
}

// ToggleBar shows or hides the bar and re-arranges every tag.
func (m *Manager) ToggleBar() {
	_ = m.run(func() error {
		m.barVisible = !m.barVisible
		m.arrangeAllLocked()
		m.pending.Bar = true
		return nil
	})
}

// SetScreen records new screen geometry and re-arranges every tag.
func (m *Manager) SetScreen(r geom.Rect) {
	_ = m.run(func() error {
		if r == m.screen {
			return nil
		}
		m.screen = r
		m.reg.Each(func(w *Window) {
			if w.Fullscreen {
				w.Geometry = r
				if m.visibleLocked(w) {
					m.pending.place(w.ID, r)
				}
			}
		})
		m.arrangeAllLocked()
		m.pending.Bar = true
		return nil
	})
}

// Close asks the display to close a window. The record stays until the
// display reports the window destroyed.
func (m *Manager) Close(id WindowID) error {
	return m.run(func() error {
		if _, ok := m.reg.Get(id); !ok {
			return fmt.Errorf("window %s: %w", id, ErrNotFound)
		}
		m.pending.Close = append(m.pending.Close, id)
		return nil
	})
}

// CloseFocused asks the display to close the focused window, if any.
func (m *Manager) CloseFocused() {
	_ = m.run(func() error {
		if w, ok := m.focusedLocked(); ok {
			m.pending.Close = append(m.pending.Close, w.ID)
		}
		return nil
	})
}

// Exit requests shutdown. Done is closed and the display receives an
// update with Exit set.
func (m *Manager) Exit() {
	_ = m.run(func() error {
		m.pending.Exit = true
		m.exitOnce.Do(func() { close(m.done) })
		return nil
	})
}

// Done is closed once Exit has been called.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Refresh re-emits visibility for every window, and placements and focus
// for the current tag.
func (m *Manager) Refresh() {
	_ = m.run(func() error {
		m.reg.Each(func(w *Window) {
			if !m.visibleLocked(w) {
				m.pending.hide(w.ID)
			}
		})
		for _, id := range m.tags[m.current].Windows {
			w, ok := m.reg.Get(id)
			if !ok || w.Minimized {
				continue
			}
			m.pending.show(id)
			m.pending.place(id, w.Geometry)
		}
		m.pending.Focus = m.tags[m.current].Focused
		m.pending.FocusChanged = true
		m.pending.Bar = true
		return nil
	})
}
