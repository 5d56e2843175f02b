package platform

import (
	"slices"
	"sync"

	"github.com/1broseidon/tagwm/internal/geom"
	"github.com/1broseidon/tagwm/internal/keys"
	"github.com/1broseidon/tagwm/internal/wm"
)

// NativeID is the window system's handle for a client window.
type NativeID uint32

// Backend is a window system that can host the manager.
type Backend interface {
	wm.Display

	// Screen returns the area windows are tiled into.
	Screen() geom.Rect
	// Start takes over the display, adopts existing windows and begins
	// routing input to dispatcher.
	Start(mgr *wm.Manager, dispatcher *keys.Dispatcher) error
	// Native lists the top-level windows that currently exist.
	Native() ([]NativeID, error)
	// Bound lists the native windows bound to manager ids.
	Bound() []NativeID
	// Forget unbinds a native window and removes it from the manager.
	Forget(NativeID)
	EventLoop()
	Quit()
	Disconnect()
}

// WindowMap is the bidirectional association between native windows and
// manager ids.
type WindowMap struct {
	mu       sync.RWMutex
	byNative map[NativeID]wm.WindowID
	byID     map[wm.WindowID]NativeID
	order    []NativeID
}

// NewWindowMap returns an empty map.
func NewWindowMap() *WindowMap {
	return &WindowMap{
		byNative: make(map[NativeID]wm.WindowID),
		byID:     make(map[wm.WindowID]NativeID),
	}
}

// Bind associates native with id, replacing any earlier binding of either.
func (m *WindowMap) Bind(native NativeID, id wm.WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.byNative[native]; ok {
		delete(m.byID, old)
	} else {
		m.order = append(m.order, native)
	}
	if old, ok := m.byID[id]; ok && old != native {
		delete(m.byNative, old)
		m.order = slices.DeleteFunc(m.order, func(n NativeID) bool { return n == old })
	}
	m.byNative[native] = id
	m.byID[id] = native
}

// Unbind drops native and returns the id it was bound to.
func (m *WindowMap) Unbind(native NativeID) (wm.WindowID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byNative[native]
	if !ok {
		return wm.NoWindow, false
	}
	delete(m.byNative, native)
	delete(m.byID, id)
	m.order = slices.DeleteFunc(m.order, func(n NativeID) bool { return n == native })
	return id, true
}

// ID returns the manager id for native.
func (m *WindowMap) ID(native NativeID) (wm.WindowID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byNative[native]
	return id, ok
}

// Native returns the native window for id.
func (m *WindowMap) Native(id wm.WindowID) (NativeID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.byID[id]
	return n, ok
}

// All returns every bound native window in binding order.
func (m *WindowMap) All() []NativeID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// Len returns the number of bindings.
func (m *WindowMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byNative)
}
