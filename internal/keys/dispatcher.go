package keys

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/tagwm/internal/bar"
	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/geom"
	"github.com/1broseidon/tagwm/internal/spawn"
	"github.com/1broseidon/tagwm/internal/wm"
)

// Pointer buttons as reported by the display layer.
const (
	ButtonLeft   = 1
	ButtonMiddle = 2
	ButtonRight  = 3
)

// Dispatcher turns key and pointer events into manager operations.
type Dispatcher struct {
	mgr     *wm.Manager
	spawner spawn.Spawner
	logger  *slog.Logger

	// Reload loads a fresh configuration. When nil, reload_config is
	// logged and ignored.
	Reload func() (*config.Config, error)

	// OnRebind is called with the new table after every successful
	// recompile, so key grabs can follow the bindings.
	OnRebind func(*Table)

	mu    sync.RWMutex
	table *Table
}

// NewDispatcher compiles the manager's keybindings. Problems found while
// compiling are logged and the offending bindings are skipped.
func NewDispatcher(mgr *wm.Manager, spawner spawn.Spawner, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{mgr: mgr, spawner: spawner, logger: logger}
	d.Rebind(mgr.Config())
	return d
}

// Rebind recompiles the binding table from cfg.
func (d *Dispatcher) Rebind(cfg *config.Config) []string {
	table, problems := Compile(cfg.Keybindings)
	for _, p := range problems {
		d.logger.Warn("skipping keybinding", "problem", p)
	}
	d.mu.Lock()
	d.table = table
	hook := d.OnRebind
	d.mu.Unlock()
	if hook != nil {
		hook(table)
	}
	return problems
}

// Table returns the current binding table.
func (d *Dispatcher) Table() *Table {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table
}

// HandleKey runs the action bound to key with mods held. It reports
// whether a binding matched.
func (d *Dispatcher) HandleKey(key string, mods Mod) bool {
	b := Binding{Mods: mods, Key: key}
	a, ok := d.Table().Lookup(b)
	if !ok {
		d.logger.Debug("unbound key", "binding", b.String())
		return false
	}
	if err := d.Execute(a); err != nil {
		d.logger.Warn("action failed", "binding", b.String(), "action", a.String(), "error", err)
	}
	return true
}

// HandlePointer handles a button press. A press in the visible bar runs
// the clicked segment's action; a press elsewhere focuses the window under
// the pointer. Releases are ignored.
func (d *Dispatcher) HandlePointer(p geom.Point, button int, pressed bool) bool {
	if !pressed || button != ButtonLeft {
		return false
	}
	s := d.mgr.State()
	if s.BarVisible && s.BarHeight > 0 && p.Y >= s.Screen.Y && p.Y < s.Screen.Y+s.BarHeight {
		measure := bar.EstimateWidth(d.mgr.Config().Appearance.BarFontSize)
		seg, ok := bar.Hit(bar.Build(s, int(s.Screen.Width), measure, time.Now()), p.X-s.Screen.X)
		if !ok {
			return false
		}
		if err := d.Run(seg.Action); err != nil {
			d.logger.Warn("bar action failed", "action", seg.Action, "error", err)
		}
		return true
	}
	return d.mgr.FocusAt(p)
}

// Run parses and executes an action string.
func (d *Dispatcher) Run(action string) error {
	a, err := ParseAction(action)
	if err != nil {
		return fmt.Errorf("%w: %v", wm.ErrInvalidArgument, err)
	}
	return d.Execute(a)
}

// Execute performs a parsed action. Tag numbers outside the configured
// range are ignored.
func (d *Dispatcher) Execute(a Action) error {
	m := d.mgr
	switch a.Verb {
	case VerbSpawn:
		if d.spawner == nil {
			return fmt.Errorf("%w: no spawner configured", wm.ErrSpawnFailed)
		}
		if err := d.spawner.Spawn(a.Command); err != nil {
			return fmt.Errorf("%w: %v", wm.ErrSpawnFailed, err)
		}
	case VerbCloseWindow:
		m.CloseFocused()
	case VerbToggleFloating:
		m.ToggleFloating()
	case VerbToggleFullscreen:
		m.ToggleFullscreen()
	case VerbToggleMinimize:
		m.ToggleMinimize()
	case VerbToggleBar:
		m.ToggleBar()
	case VerbCycleLayout:
		m.CycleLayout()
	case VerbSwitchTag:
		if t, ok := wm.TagFromNumber(a.Tag); ok {
			m.SwitchTag(t)
		}
	case VerbMoveToTag:
		if t, ok := wm.TagFromNumber(a.Tag); ok {
			m.MoveFocusedToTag(t)
		}
	case VerbFocusLeft:
		m.FocusDirection(wm.Left)
	case VerbFocusRight:
		m.FocusDirection(wm.Right)
	case VerbFocusUp:
		m.FocusDirection(wm.Up)
	case VerbFocusDown:
		m.FocusDirection(wm.Down)
	case VerbFocusNext:
		m.FocusNext()
	case VerbFocusPrev:
		m.FocusPrev()
	case VerbMoveLeft, VerbMoveUp:
		m.MoveWindowUp()
	case VerbMoveRight, VerbMoveDown:
		m.MoveWindowDown()
	case VerbIncreaseMaster:
		m.AdjustMasterRatio(wm.MasterRatioStep)
	case VerbDecreaseMaster:
		m.AdjustMasterRatio(-wm.MasterRatioStep)
	case VerbIncreaseMasterCount:
		m.AdjustMasterCount(1)
	case VerbDecreaseMasterCount:
		m.AdjustMasterCount(-1)
	case VerbReloadConfig:
		return d.reload()
	case VerbExit:
		d.logger.Info("exit requested")
		m.Exit()
	default:
		d.logger.Warn("unknown action verb", "verb", a.Verb)
	}
	return nil
}

func (d *Dispatcher) reload() error {
	if d.Reload == nil {
		d.logger.Warn("reload requested but no loader is configured")
		return nil
	}
	cfg, err := d.Reload()
	if err != nil {
		return fmt.Errorf("%w: %v", wm.ErrConfigInvalid, err)
	}
	d.mgr.Reload(cfg)
	d.Rebind(cfg)
	return nil
}
