package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagwm/internal/geom"
)

// Monitor is one active RandR output.
type Monitor struct {
	Name    string
	Bounds  geom.Rect
	Primary bool
}

// Monitors lists the outputs that currently drive a CRTC.
func (c *Connection) Monitors() ([]Monitor, error) {
	xc := c.XUtil.Conn()
	if err := randr.Init(xc); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	res, err := randr.GetScreenResourcesCurrent(xc, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}
	var primary randr.Output
	if p, err := randr.GetOutputPrimary(xc, c.Root).Reply(); err == nil {
		primary = p.Output
	}

	var out []Monitor
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(xc, output, res.ConfigTimestamp).Reply()
		if err != nil || info.Crtc == 0 || info.Connection != randr.ConnectionConnected {
			continue
		}
		crtc, err := randr.GetCrtcInfo(xc, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil || crtc.Width == 0 || crtc.Height == 0 {
			continue
		}
		out = append(out, Monitor{
			Name:    string(info.Name),
			Bounds:  geom.New(int(crtc.X), int(crtc.Y), int(crtc.Width), int(crtc.Height)),
			Primary: output == primary,
		})
	}
	return out, nil
}

// Screen returns the area tags are laid out on: the primary output, else
// the first active one, else the whole root window.
func (c *Connection) Screen() geom.Rect {
	if monitors, err := c.Monitors(); err == nil && len(monitors) > 0 {
		for _, m := range monitors {
			if m.Primary {
				return m.Bounds
			}
		}
		return monitors[0].Bounds
	}
	r := xwindow.RootGeometry(c.XUtil)
	return geom.New(r.X(), r.Y(), r.Width(), r.Height())
}
