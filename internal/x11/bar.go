package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagwm/internal/bar"
	"github.com/1broseidon/tagwm/internal/geom"
)

// barFont is a core font whose 7px advance matches bar.EstimateWidth(12).
const barFont = "7x13"

// fallbackFont is available on every X server.
const fallbackFont = "fixed"

// BarWindow is an override-redirect strip that paints bar segments with
// a core X font.
type BarWindow struct {
	mu sync.Mutex

	conn   *Connection
	win    *xwindow.Window
	gc     xproto.Gcontext
	font   xproto.Font
	bounds geom.Rect
	mapped bool
}

// NewBarWindow creates the bar window at r. It starts unmapped.
func (c *Connection) NewBarWindow(r geom.Rect) (*BarWindow, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate bar window: %w", err)
	}
	err = win.CreateChecked(c.Root, r.X, r.Y, max(int(r.Width), 1), max(int(r.Height), 1),
		xproto.CwOverrideRedirect|xproto.CwEventMask,
		1, uint32(xproto.EventMaskExposure|xproto.EventMaskButtonPress))
	if err != nil {
		return nil, fmt.Errorf("failed to create bar window: %w", err)
	}

	font, err := xproto.NewFontId(c.XUtil.Conn())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate font: %w", err)
	}
	if err := xproto.OpenFontChecked(c.XUtil.Conn(), font, uint16(len(barFont)), barFont).Check(); err != nil {
		if err := xproto.OpenFontChecked(c.XUtil.Conn(), font, uint16(len(fallbackFont)), fallbackFont).Check(); err != nil {
			return nil, fmt.Errorf("failed to open bar font: %w", err)
		}
	}

	gc, err := xproto.NewGcontextId(c.XUtil.Conn())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate graphics context: %w", err)
	}
	err = xproto.CreateGCChecked(c.XUtil.Conn(), gc, xproto.Drawable(win.Id),
		xproto.GcFont, []uint32{uint32(font)}).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create graphics context: %w", err)
	}

	return &BarWindow{conn: c, win: win, gc: gc, font: font, bounds: r}, nil
}

// ID returns the bar's X window.
func (b *BarWindow) ID() xproto.Window {
	return b.win.Id
}

// SetBounds moves and resizes the bar.
func (b *BarWindow) SetBounds(r geom.Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r == b.bounds {
		return
	}
	b.bounds = r
	b.win.MoveResize(r.X, r.Y, max(int(r.Width), 1), max(int(r.Height), 1))
}

// SetVisible maps or unmaps the bar.
func (b *BarWindow) SetVisible(visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case visible && !b.mapped:
		b.win.Map()
		b.conn.Raise(b.win.Id)
	case !visible && b.mapped:
		b.win.Unmap()
	}
	b.mapped = visible
}

// Draw clears the bar to bg and paints segs in fg. The current tag is
// drawn inverted.
func (b *BarWindow) Draw(segs []bar.Segment, fg, bg uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mapped {
		return
	}
	conn := b.conn.XUtil.Conn()
	d := xproto.Drawable(b.win.Id)
	h := int(b.bounds.Height)
	baseline := int16(h/2 + 4)

	xproto.ChangeGC(conn, b.gc, xproto.GcForeground, []uint32{bg})
	xproto.PolyFillRectangle(conn, d, b.gc, []xproto.Rectangle{{
		Width: uint16(b.bounds.Width), Height: uint16(h),
	}})

	for _, seg := range segs {
		text := seg.Text
		if len(text) > 255 {
			text = text[:255]
		}
		segFG, segBG := fg, bg
		if seg.Current {
			segFG, segBG = bg, fg
			xproto.ChangeGC(conn, b.gc, xproto.GcForeground, []uint32{segBG})
			xproto.PolyFillRectangle(conn, d, b.gc, []xproto.Rectangle{{
				X: int16(seg.X - 2), Width: uint16(seg.Width + 4), Height: uint16(h),
			}})
		}
		xproto.ChangeGC(conn, b.gc, xproto.GcForeground|xproto.GcBackground, []uint32{segFG, segBG})
		xproto.ImageText8(conn, byte(len(text)), d, b.gc, int16(seg.X), baseline, text)
	}
}

// Destroy releases the bar's server resources.
func (b *BarWindow) Destroy() {
	conn := b.conn.XUtil.Conn()
	xproto.FreeGC(conn, b.gc)
	xproto.CloseFont(conn, b.font)
	b.win.Destroy()
}
