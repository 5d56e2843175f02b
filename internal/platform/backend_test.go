package platform

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagwm/internal/wm"
)

func TestWindowMap_BindLookup(t *testing.T) {
	m := NewWindowMap()
	m.Bind(0x400001, wm.WindowID(1))
	m.Bind(0x400002, wm.WindowID(2))

	if id, ok := m.ID(0x400002); !ok || id != 2 {
		t.Fatalf("ID(0x400002) = %v, %v", id, ok)
	}
	if n, ok := m.Native(1); !ok || n != 0x400001 {
		t.Fatalf("Native(1) = %#x, %v", n, ok)
	}
	if _, ok := m.ID(0x999); ok {
		t.Fatalf("expected unknown native to miss")
	}
	if diff := cmp.Diff([]NativeID{0x400001, 0x400002}, m.All()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestWindowMap_Unbind(t *testing.T) {
	m := NewWindowMap()
	m.Bind(10, 1)
	m.Bind(11, 2)

	id, ok := m.Unbind(10)
	if !ok || id != 1 {
		t.Fatalf("Unbind(10) = %v, %v", id, ok)
	}
	if _, ok := m.Native(1); ok {
		t.Fatalf("expected id 1 to be gone")
	}
	if _, ok := m.Unbind(10); ok {
		t.Fatalf("expected second unbind to miss")
	}
	if m.Len() != 1 {
		t.Fatalf("expected one binding left, got %d", m.Len())
	}
}

func TestWindowMap_RebindReplaces(t *testing.T) {
	m := NewWindowMap()
	m.Bind(10, 1)
	m.Bind(10, 2)
	if _, ok := m.Native(1); ok {
		t.Fatalf("expected stale id to be dropped")
	}
	m.Bind(20, 2)
	if _, ok := m.ID(10); ok {
		t.Fatalf("expected stale native to be dropped")
	}
	if diff := cmp.Diff([]NativeID{20}, m.All()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}
