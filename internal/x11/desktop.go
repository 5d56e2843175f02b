package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// supportedHints lists the EWMH atoms we maintain.
var supportedHints = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
	"_NET_WM_DESKTOP",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_DOCK",
}

// AnnounceWM creates the _NET_SUPPORTING_WM_CHECK window and publishes
// the hints pagers and panels look for. Tags are exported as desktops.
func (c *Connection) AnnounceWM(name string, tagNames []string) error {
	check, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return fmt.Errorf("failed to allocate check window: %w", err)
	}
	if err := check.CreateChecked(c.Root, -1, -1, 1, 1, 0); err != nil {
		return fmt.Errorf("failed to create check window: %w", err)
	}
	c.check = check.Id

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, check.Id); err != nil {
		return fmt.Errorf("failed to set supporting wm check: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check.Id, check.Id); err != nil {
		return fmt.Errorf("failed to set supporting wm check: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, check.Id, name); err != nil {
		return fmt.Errorf("failed to set wm name: %w", err)
	}
	if err := ewmh.SupportedSet(c.XUtil, supportedHints); err != nil {
		return fmt.Errorf("failed to set supported hints: %w", err)
	}
	return c.SetDesktops(tagNames)
}

// SetDesktops publishes the tag names as virtual desktops.
func (c *Connection) SetDesktops(names []string) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(names))); err != nil {
		return fmt.Errorf("failed to set desktop count: %w", err)
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, names); err != nil {
		return fmt.Errorf("failed to set desktop names: %w", err)
	}
	return nil
}

// SetCurrentDesktop publishes the current tag index (0-based).
func (c *Connection) SetCurrentDesktop(index int) error {
	if err := ewmh.CurrentDesktopSet(c.XUtil, uint(index)); err != nil {
		return fmt.Errorf("failed to set current desktop: %w", err)
	}
	return nil
}

// SetWindowDesktop records which tag a client lives on.
func (c *Connection) SetWindowDesktop(win xproto.Window, index int) error {
	if err := ewmh.WmDesktopSet(c.XUtil, win, uint(index)); err != nil {
		return fmt.Errorf("failed to set window desktop: %w", err)
	}
	return nil
}

// SetClientList publishes the managed windows in mapping order.
func (c *Connection) SetClientList(wins []xproto.Window) error {
	if err := ewmh.ClientListSet(c.XUtil, wins); err != nil {
		return fmt.Errorf("failed to set client list: %w", err)
	}
	return nil
}

// Withdraw removes the check window so the next window manager starts
// from a clean root.
func (c *Connection) Withdraw() {
	if c.check == 0 {
		return
	}
	xproto.DestroyWindow(c.XUtil.Conn(), c.check)
	c.check = 0
}
