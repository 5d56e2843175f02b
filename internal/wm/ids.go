package wm

import "fmt"

// WindowID is a generational handle into the window registry. The low 32
// bits hold the slot index and the high 32 bits its generation, which
// starts at 1, so the zero value never names a window.
type WindowID uint64

// NoWindow is the zero WindowID.
const NoWindow WindowID = 0

func makeWindowID(slot, gen uint32) WindowID {
	return WindowID(uint64(gen)<<32 | uint64(slot))
}

func (id WindowID) slot() uint32 { return uint32(id) }

func (id WindowID) generation() uint32 { return uint32(id >> 32) }

// Valid reports whether id could name a window. It does not check that the
// window still exists.
func (id WindowID) Valid() bool { return id.generation() != 0 }

func (id WindowID) String() string {
	if !id.Valid() {
		return "none"
	}
	return fmt.Sprintf("%d:%d", id.slot(), id.generation())
}

// TagID is the 0-based position of a tag. Tags live for the whole session.
type TagID uint32

// Number returns the 1-based tag number used by actions and commands.
func (t TagID) Number() int { return int(t) + 1 }

// TagFromNumber converts a 1-based tag number into a TagID. It reports
// false for numbers below 1; the upper bound is checked by the manager.
func TagFromNumber(n int) (TagID, bool) {
	if n < 1 {
		return 0, false
	}
	return TagID(n - 1), true
}
