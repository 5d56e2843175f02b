package x11

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagwm/internal/geom"
)

// Title returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) Title(win xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, win)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, win)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// Class returns the WM_CLASS instance and class names.
func (c *Connection) Class(win xproto.Window) (instance, class string) {
	wmClass, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(wmClass.Instance), strings.TrimSpace(wmClass.Class)
}

// Geometry returns the window's current rectangle.
func (c *Connection) Geometry(win xproto.Window) (geom.Rect, error) {
	r, err := xwindow.RawGeometry(c.XUtil, xproto.Drawable(win))
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.New(r.X(), r.Y(), r.Width(), r.Height()), nil
}

// Manageable reports whether win is a viewable or mapping-requested top
// level window that a window manager should handle.
func (c *Connection) Manageable(win xproto.Window, requireViewable bool) bool {
	attr, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	if err != nil || attr.OverrideRedirect {
		return false
	}
	if requireViewable && attr.MapState != xproto.MapStateViewable {
		return false
	}
	return c.IsNormalWindow(win)
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return true
}

// WantsFloating reports whether a window should start floating: dialogs,
// utility windows and transients.
func (c *Connection) WantsFloating(win xproto.Window) bool {
	if _, err := icccm.WmTransientForGet(c.XUtil, win); err == nil {
		return true
	}
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DIALOG",
			"_NET_WM_WINDOW_TYPE_UTILITY",
			"_NET_WM_WINDOW_TYPE_TOOLBAR":
			return true
		}
	}
	return false
}

// WantsFullscreen reports whether _NET_WM_STATE asks for fullscreen.
func (c *Connection) WantsFullscreen(win xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return false
	}
	return slices.Contains(states, "_NET_WM_STATE_FULLSCREEN")
}

// Place moves and resizes win so its outer rectangle, border included,
// matches r.
func (c *Connection) Place(win xproto.Window, r geom.Rect, border int) {
	inner := r.Inset(border)
	w := max(int(inner.Width), 1)
	h := max(int(inner.Height), 1)
	xproto.ConfigureWindow(c.XUtil.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(w), uint32(h), uint32(border)})
}

// SendConfigureNotify tells a client its geometry without moving it, as
// required when a configure request is refused.
func (c *Connection) SendConfigureNotify(win xproto.Window, r geom.Rect, border int) {
	inner := r.Inset(border)
	ev := xproto.ConfigureNotifyEvent{
		Event:            win,
		Window:           win,
		AboveSibling:     xevent.NoWindow,
		X:                int16(r.X),
		Y:                int16(r.Y),
		Width:            uint16(max(int(inner.Width), 1)),
		Height:           uint16(max(int(inner.Height), 1)),
		BorderWidth:      uint16(border),
		OverrideRedirect: false,
	}
	xproto.SendEvent(c.XUtil.Conn(), false, win, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

// Configure forwards a configure request for a window we do not manage.
func (c *Connection) Configure(ev xevent.ConfigureRequestEvent) {
	var values []uint32
	mask := ev.ValueMask
	if mask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(int32(ev.X)))
	}
	if mask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(int32(ev.Y)))
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(ev.Width))
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(ev.Height))
	}
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(ev.BorderWidth))
	}
	if mask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(ev.Sibling))
	}
	if mask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(ev.StackMode))
	}
	xproto.ConfigureWindow(c.XUtil.Conn(), ev.Window, mask, values)
}

// SetBorder sets a window's border width and color.
func (c *Connection) SetBorder(win xproto.Window, width int, pixel uint32) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwBorderPixel, []uint32{pixel})
	xproto.ConfigureWindow(c.XUtil.Conn(), win, xproto.ConfigWindowBorderWidth, []uint32{uint32(width)})
}

// SetBorderColor changes only the border color.
func (c *Connection) SetBorderColor(win xproto.Window, pixel uint32) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwBorderPixel, []uint32{pixel})
}

// Map shows a window and marks it normal.
func (c *Connection) Map(win xproto.Window) {
	xproto.MapWindow(c.XUtil.Conn(), win)
	icccm.WmStateSet(c.XUtil, win, &icccm.WmState{State: icccm.StateNormal})
}

// Unmap hides a window and marks it iconic.
func (c *Connection) Unmap(win xproto.Window) {
	xproto.UnmapWindow(c.XUtil.Conn(), win)
	icccm.WmStateSet(c.XUtil, win, &icccm.WmState{State: icccm.StateIconic})
}

// Raise puts a window on top of its siblings.
func (c *Connection) Raise(win xproto.Window) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

// Focus gives win the input focus and publishes it as the active window.
// Focusing the root window clears the active window.
func (c *Connection) Focus(win xproto.Window) {
	if win == 0 || win == c.Root {
		xproto.SetInputFocus(c.XUtil.Conn(), xproto.InputFocusPointerRoot, c.Root, xproto.TimeCurrentTime)
		ewmh.ActiveWindowSet(c.XUtil, 0)
		return
	}
	xproto.SetInputFocus(c.XUtil.Conn(), xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime)
	ewmh.ActiveWindowSet(c.XUtil, win)
}

// Close requests graceful window close via WM_DELETE_WINDOW, killing the
// client when it does not support the protocol.
func (c *Connection) Close(win xproto.Window) error {
	protocols, err := icccm.WmProtocolsGet(c.XUtil, win)
	if err != nil || !slices.Contains(protocols, "WM_DELETE_WINDOW") {
		return xproto.KillClientChecked(c.XUtil.Conn(), uint32(win)).Check()
	}

	deleteReply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}
	protocolsReply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern WM_PROTOCOLS: %w", err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocolsReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteReply.Atom), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		win,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// Children returns the root window's children in stacking order.
func (c *Connection) Children() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, err
	}
	return tree.Children, nil
}
