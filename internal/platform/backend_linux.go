//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagwm/internal/bar"
	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/geom"
	"github.com/1broseidon/tagwm/internal/hotkeys"
	"github.com/1broseidon/tagwm/internal/keys"
	"github.com/1broseidon/tagwm/internal/wm"
	"github.com/1broseidon/tagwm/internal/x11"
)

// WMName is published on the EWMH check window.
const WMName = "tagwm"

// barRefresh keeps the clock current.
const barRefresh = 30 * time.Second

// LinuxBackend realizes manager updates on an X11 display.
type LinuxBackend struct {
	conn    *x11.Connection
	logger  *slog.Logger
	windows *WindowMap

	mgr        *wm.Manager
	dispatcher *keys.Dispatcher
	hotkeys    *hotkeys.Handler
	bar        *x11.BarWindow

	mu          sync.Mutex
	border      int
	focusPixel  uint32
	normalPixel uint32
	barFG       uint32
	barBG       uint32
	fontSize    int
	focused     wm.WindowID

	stop     chan struct{}
	stopOnce sync.Once
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, logger *slog.Logger) *LinuxBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinuxBackend{
		conn:    conn,
		logger:  logger,
		windows: NewWindowMap(),
		stop:    make(chan struct{}),
	}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, logger), nil
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	return b.conn.XUtil
}

// Windows exposes the native window bindings.
func (b *LinuxBackend) Windows() *WindowMap {
	return b.windows
}

// Screen returns the primary monitor's bounds.
func (b *LinuxBackend) Screen() geom.Rect {
	return b.conn.Screen()
}

// Start becomes the window manager, publishes EWMH hints, grabs keys and
// adopts windows that were already mapped.
func (b *LinuxBackend) Start(mgr *wm.Manager, dispatcher *keys.Dispatcher) error {
	b.mgr = mgr
	b.dispatcher = dispatcher

	if err := b.conn.BecomeWM(); err != nil {
		return err
	}

	st := mgr.State()
	if err := b.conn.AnnounceWM(WMName, tagNames(st)); err != nil {
		b.logger.Warn("failed to publish EWMH hints", "error", err)
	}
	b.setAppearance(mgr.Config())

	screen := b.Screen()
	mgr.SetScreen(screen)

	barWin, err := b.conn.NewBarWindow(barBounds(screen, mgr.Config().Appearance.BarHeight))
	if err != nil {
		b.logger.Warn("bar disabled", "error", err)
	} else {
		b.bar = barWin
		xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
			if ev.Count == 0 {
				b.drawBar(b.mgr.State())
			}
		}).Connect(b.conn.XUtil, barWin.ID())
		xevent.ButtonPressFun(b.onButton).Connect(b.conn.XUtil, barWin.ID())
	}

	b.hotkeys = hotkeys.NewHandler(b.conn.XUtil, b.conn.Root, dispatcher, b.logger)
	if err := b.hotkeys.Bind(dispatcher.Table()); err != nil {
		b.logger.Warn("some keybindings could not be grabbed", "error", err)
	}
	dispatcher.OnRebind = func(table *keys.Table) {
		if err := b.hotkeys.Bind(table); err != nil {
			b.logger.Warn("some keybindings could not be grabbed", "error", err)
		}
	}

	xu := b.conn.XUtil
	xevent.MapRequestFun(b.onMapRequest).Connect(xu, b.conn.Root)
	xevent.ConfigureRequestFun(b.onConfigureRequest).Connect(xu, b.conn.Root)
	xevent.ButtonPressFun(b.onButton).Connect(xu, b.conn.Root)

	b.adopt()
	mgr.Refresh()

	go b.tickBar()
	return nil
}

// adopt manages windows that were mapped before we started.
func (b *LinuxBackend) adopt() {
	children, err := b.conn.Children()
	if err != nil {
		b.logger.Warn("failed to query existing windows", "error", err)
		return
	}
	adopted := 0
	for _, win := range children {
		if b.bar != nil && win == b.bar.ID() {
			continue
		}
		if b.conn.Manageable(win, true) && b.manage(win) {
			adopted++
		}
	}
	if adopted > 0 {
		b.logger.Info("adopted existing windows", "count", adopted)
	}
}

func (b *LinuxBackend) onMapRequest(_ *xgbutil.XUtil, ev xevent.MapRequestEvent) {
	if _, ok := b.windows.ID(NativeID(ev.Window)); ok {
		b.mgr.Refresh()
		return
	}
	if !b.conn.Manageable(ev.Window, false) {
		xproto.MapWindow(b.conn.XUtil.Conn(), ev.Window)
		return
	}
	if b.manage(ev.Window) {
		b.mgr.Refresh()
	}
}

// manage registers win with the manager and wires its events. It reports
// whether the window was newly bound.
func (b *LinuxBackend) manage(win xproto.Window) bool {
	native := NativeID(win)
	if _, ok := b.windows.ID(native); ok {
		return false
	}

	instance, class := b.conn.Class(win)
	info := wm.WindowInfo{
		Title:    b.conn.Title(win),
		Class:    class,
		Instance: instance,
		Bind:     func(id wm.WindowID) { b.windows.Bind(native, id) },
	}
	if r, err := b.conn.Geometry(win); err == nil {
		info.Geometry = r
	}

	xu := b.conn.XUtil
	if err := xwindow.New(xu, win).Listen(xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify); err != nil {
		b.logger.Debug("window vanished before it was managed", "window", win, "error", err)
		return false
	}

	b.mu.Lock()
	border, normal := b.border, b.normalPixel
	b.mu.Unlock()
	b.conn.SetBorder(win, border, normal)

	id := b.mgr.Manage(info)

	if b.conn.WantsFloating(win) {
		_ = b.mgr.SetFloating(id, true)
	}
	if b.conn.WantsFullscreen(win) {
		_ = b.mgr.SetFullscreen(id, true)
	}

	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		b.Forget(NativeID(ev.Window))
	}).Connect(xu, win)
	xevent.PropertyNotifyFun(b.onProperty).Connect(xu, win)
	if err := mousebind.ButtonPressFun(b.onButton).Connect(xu, win, "1", true, true); err != nil {
		b.logger.Debug("failed to grab click-to-focus", "window", win, "error", err)
	}
	b.bindDrags(win, id)

	b.publishClients()
	b.logger.Debug("window bound", "window", win, "id", id, "class", class)
	return true
}

// Forget drops a native window whose client is gone.
func (b *LinuxBackend) Forget(native NativeID) {
	id, ok := b.windows.Unbind(native)
	if !ok {
		return
	}
	win := xproto.Window(native)
	xevent.Detach(b.conn.XUtil, win)
	mousebind.Detach(b.conn.XUtil, win)

	b.mu.Lock()
	if b.focused == id {
		b.focused = wm.NoWindow
	}
	b.mu.Unlock()

	b.mgr.Remove(id)
	b.publishClients()
}

// Bound lists the native windows currently managed.
func (b *LinuxBackend) Bound() []NativeID {
	return b.windows.All()
}

// Native lists the root window's children.
func (b *LinuxBackend) Native() ([]NativeID, error) {
	children, err := b.conn.Children()
	if err != nil {
		return nil, err
	}
	out := make([]NativeID, len(children))
	for i, c := range children {
		out[i] = NativeID(c)
	}
	return out, nil
}

func (b *LinuxBackend) onConfigureRequest(_ *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
	id, ok := b.windows.ID(NativeID(ev.Window))
	if !ok {
		b.conn.Configure(ev)
		return
	}

	w, ok := b.mgr.Window(id)
	if !ok {
		return
	}
	r := w.Geometry
	if ev.ValueMask&xproto.ConfigWindowX != 0 {
		r.X = int(ev.X)
	}
	if ev.ValueMask&xproto.ConfigWindowY != 0 {
		r.Y = int(ev.Y)
	}
	if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
		r.Width = uint(ev.Width) + 2*uint(b.borderFor(w))
	}
	if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
		r.Height = uint(ev.Height) + 2*uint(b.borderFor(w))
	}
	if err := b.mgr.Configure(id, r); err != nil {
		b.logger.Debug("configure request ignored", "id", id, "error", err)
		return
	}

	// Tiled windows keep their slot; tell the client where it really is.
	if w, ok = b.mgr.Window(id); ok {
		b.conn.SendConfigureNotify(ev.Window, w.Geometry, b.borderFor(w))
	}
}

func (b *LinuxBackend) onProperty(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(b.conn.XUtil, ev.Atom)
	if err != nil {
		return
	}
	if name != "WM_NAME" && name != "_NET_WM_NAME" {
		return
	}
	id, ok := b.windows.ID(NativeID(ev.Window))
	if !ok {
		return
	}
	_ = b.mgr.SetTitle(id, b.conn.Title(ev.Window))
}

func (b *LinuxBackend) onButton(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
	p := geom.Point{X: int(ev.RootX), Y: int(ev.RootY)}
	b.dispatcher.HandlePointer(p, int(ev.Detail), true)
	if ev.Event != b.conn.Root && (b.bar == nil || ev.Event != b.bar.ID()) {
		xproto.AllowEvents(b.conn.XUtil.Conn(), xproto.AllowReplayPointer, 0)
	}
}

// bindDrags grabs mod+button1 to move and mod+button3 to resize win.
func (b *LinuxBackend) bindDrags(win xproto.Window, id wm.WindowID) {
	mod := b.mgr.Config().General.ModKey
	if mod == "" {
		mod = "Mod4"
	}
	for _, grab := range []struct {
		button string
		resize bool
	}{{"1", false}, {"3", true}} {
		resize := grab.resize
		var drag wm.Drag
		begin := func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) (bool, xproto.Cursor) {
			d, err := b.mgr.BeginDrag(id, geom.Point{X: rootX, Y: rootY}, resize)
			if err != nil {
				b.logger.Debug("drag refused", "id", id, "error", err)
				return false, 0
			}
			drag = d
			return true, 0
		}
		step := func(_ *xgbutil.XUtil, rootX, rootY, _, _ int) {
			if err := b.mgr.DragTo(drag, geom.Point{X: rootX, Y: rootY}); err != nil {
				b.logger.Debug("drag step failed", "id", id, "error", err)
			}
		}
		end := func(_ *xgbutil.XUtil, _, _, _, _ int) {
			drag = wm.Drag{}
		}
		mousebind.Drag(b.conn.XUtil, win, win, mod+"-"+grab.button, true, begin, step, end)
	}
}

// Apply realizes an update on the display.
func (b *LinuxBackend) Apply(u wm.Update) {
	if b.mgr == nil {
		return
	}
	if u.Config != nil {
		b.applyConfig(u.Config)
	}

	for _, id := range u.Hide {
		if native, ok := b.windows.Native(id); ok {
			b.conn.Unmap(xproto.Window(native))
		}
	}
	for _, p := range u.Placements {
		native, ok := b.windows.Native(p.ID)
		if !ok {
			continue
		}
		border := b.currentBorder()
		if w, ok := b.mgr.Window(p.ID); ok {
			border = b.borderFor(w)
		}
		b.conn.Place(xproto.Window(native), p.Rect, border)
	}
	for _, id := range u.Show {
		if native, ok := b.windows.Native(id); ok {
			b.conn.Map(xproto.Window(native))
		}
	}
	for _, id := range u.Close {
		if native, ok := b.windows.Native(id); ok {
			if err := b.conn.Close(xproto.Window(native)); err != nil {
				b.logger.Warn("failed to close window", "id", id, "error", err)
			}
		}
	}
	if u.FocusChanged {
		b.applyFocus(u.Focus)
	}
	if u.Bar {
		st := b.mgr.State()
		if err := b.conn.SetCurrentDesktop(int(st.Current)); err != nil {
			b.logger.Debug("failed to publish current tag", "error", err)
		}
		for _, w := range st.Windows {
			if native, ok := b.windows.Native(w.ID); ok {
				_ = b.conn.SetWindowDesktop(xproto.Window(native), int(w.Tag))
			}
		}
		if b.bar != nil {
			b.bar.SetBounds(barBounds(st.Screen, st.BarHeight))
			b.bar.SetVisible(u.BarVisible && st.BarHeight > 0)
			b.drawBar(st)
		}
	}
	if u.Exit {
		b.Quit()
	}
}

func (b *LinuxBackend) applyFocus(id wm.WindowID) {
	b.mu.Lock()
	prev := b.focused
	b.focused = id
	focusPixel, normalPixel := b.focusPixel, b.normalPixel
	b.mu.Unlock()

	if prev != id {
		if native, ok := b.windows.Native(prev); ok {
			b.conn.SetBorderColor(xproto.Window(native), normalPixel)
		}
	}

	native, ok := b.windows.Native(id)
	if !ok {
		b.conn.Focus(b.conn.Root)
		return
	}
	win := xproto.Window(native)
	b.conn.SetBorderColor(win, focusPixel)
	if w, ok := b.mgr.Window(id); ok && !w.Tiled() {
		b.conn.Raise(win)
	}
	b.conn.Focus(win)
}

func (b *LinuxBackend) applyConfig(cfg *config.Config) {
	b.setAppearance(cfg)

	b.mu.Lock()
	border, normal, focus, focused := b.border, b.normalPixel, b.focusPixel, b.focused
	b.mu.Unlock()

	for _, native := range b.windows.All() {
		id, _ := b.windows.ID(native)
		pixel := normal
		if id == focused {
			pixel = focus
		}
		b.conn.SetBorder(xproto.Window(native), border, pixel)
	}
	if err := b.conn.SetDesktops(tagNames(b.mgr.State())); err != nil {
		b.logger.Debug("failed to publish tags", "error", err)
	}
}

// setAppearance caches pixel values. Invalid colors keep the old value.
func (b *LinuxBackend) setAppearance(cfg *config.Config) {
	a := cfg.Appearance
	b.mu.Lock()
	defer b.mu.Unlock()
	b.border = a.BorderWidth
	b.fontSize = a.BarFontSize
	for _, c := range []struct {
		value string
		dst   *uint32
	}{
		{a.BorderFocus, &b.focusPixel},
		{a.BorderNormal, &b.normalPixel},
		{a.BarForeground, &b.barFG},
		{a.BarBackground, &b.barBG},
	} {
		pixel, err := bar.ParseColor(c.value)
		if err != nil {
			b.logger.Warn("ignoring color", "error", err)
			continue
		}
		*c.dst = pixel
	}
}

func (b *LinuxBackend) currentBorder() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.border
}

func (b *LinuxBackend) borderFor(w wm.Window) int {
	if w.Fullscreen {
		return 0
	}
	return b.currentBorder()
}

func (b *LinuxBackend) drawBar(st wm.State) {
	if b.bar == nil || !st.BarVisible {
		return
	}
	b.mu.Lock()
	fg, bg, size := b.barFG, b.barBG, b.fontSize
	b.mu.Unlock()
	segs := bar.Build(st, int(st.Screen.Width), bar.EstimateWidth(size), time.Now())
	b.bar.Draw(segs, fg, bg)
}

func (b *LinuxBackend) tickBar() {
	ticker := time.NewTicker(barRefresh)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.drawBar(b.mgr.State())
		case <-b.stop:
			return
		}
	}
}

func (b *LinuxBackend) publishClients() {
	bound := b.windows.All()
	wins := make([]xproto.Window, len(bound))
	for i, n := range bound {
		wins[i] = xproto.Window(n)
	}
	if err := b.conn.SetClientList(wins); err != nil {
		b.logger.Debug("failed to publish client list", "error", err)
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	b.conn.EventLoop()
}

// Quit stops the event loop and the bar ticker.
func (b *LinuxBackend) Quit() {
	b.stopOnce.Do(func() {
		close(b.stop)
		b.conn.Quit()
	})
}

// Disconnect releases grabs, maps every managed window so nothing is lost
// and closes the X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b.hotkeys != nil {
		b.hotkeys.Unbind()
	}
	for _, native := range b.windows.All() {
		b.conn.Map(xproto.Window(native))
	}
	if b.bar != nil {
		b.bar.Destroy()
	}
	b.conn.Withdraw()
	b.conn.Close()
}

func tagNames(st wm.State) []string {
	names := make([]string, len(st.Tags))
	for i, t := range st.Tags {
		names[i] = t.Name
	}
	return names
}

func barBounds(screen geom.Rect, height int) geom.Rect {
	return geom.New(screen.X, screen.Y, int(screen.Width), max(height, 1))
}
