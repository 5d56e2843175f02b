package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tagwm/internal/keys"
)

// KeyHandler receives grabbed key presses.
type KeyHandler interface {
	HandleKey(key string, mods keys.Mod) bool
}

// Handler grabs the configured key bindings on the root window and forwards
// presses to a KeyHandler.
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	handler KeyHandler
	logger  *slog.Logger

	mu sync.Mutex
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, handler KeyHandler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    root,
		handler: handler,
		logger:  logger,
	}
}

// Bind drops every existing grab and grabs each entry of table. Entries
// that cannot be grabbed are logged and skipped; their errors are joined
// into the result.
func (h *Handler) Bind(table *keys.Table) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	keybind.Detach(h.xu, h.root)

	var errs []error
	bound := 0
	for _, e := range table.Entries() {
		b := e.Binding
		if err := h.grab(b.XKeySequence(), func() {
			h.handler.HandleKey(b.Key, b.Mods)
		}); err != nil {
			h.logger.Warn("failed to grab key", "binding", b.String(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", b.String(), err))
			continue
		}
		bound++
	}
	h.logger.Debug("keys grabbed", "count", bound)
	return errors.Join(errs...)
}

// Unbind releases every grab.
func (h *Handler) Unbind() {
	h.mu.Lock()
	defer h.mu.Unlock()
	keybind.Detach(h.xu, h.root)
}

func (h *Handler) grab(sequence string, fn func()) error {
	return keybind.KeyPressFun(func(*xgbutil.XUtil, xevent.KeyPressEvent) {
		fn()
	}).Connect(h.xu, h.root, sequence, true)
}

// configureIgnoreMods makes grabs fire regardless of CapsLock, NumLock and
// ScrollLock state.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	locks := []uint16{uint16(xproto.ModMaskLock)}
	for _, sym := range []string{"Num_Lock", "Scroll_Lock"} {
		if mask := modMaskForKeysym(xu, sym); mask != 0 {
			locks = append(locks, mask)
		}
	}
	xevent.IgnoreMods = ignoreMasks(locks)
}

// ignoreMasks returns every combination of the distinct lock masks,
// including the empty one.
func ignoreMasks(locks []uint16) []uint16 {
	var distinct []uint16
	for _, m := range locks {
		if m != 0 && !slices.Contains(distinct, m) {
			distinct = append(distinct, m)
		}
	}

	masks := []uint16{0}
	for _, lock := range distinct {
		for _, m := range masks {
			masks = append(masks, m|lock)
		}
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
