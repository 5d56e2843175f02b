package hotkeys

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIgnoreMasks(t *testing.T) {
	const (
		caps   = 1 << 1
		num    = 1 << 4
		scroll = 1 << 7
	)
	tests := []struct {
		name  string
		locks []uint16
		want  []uint16
	}{
		{"caps only", []uint16{caps}, []uint16{0, caps}},
		{"caps and num", []uint16{caps, num}, []uint16{0, caps, num, caps | num}},
		{"all three", []uint16{caps, num, scroll}, []uint16{
			0, caps, num, caps | num, scroll, caps | scroll, num | scroll, caps | num | scroll,
		}},
		{"duplicates and zero dropped", []uint16{caps, 0, caps, num}, []uint16{0, caps, num, caps | num}},
	}
	for _, tt := range tests {
		got := ignoreMasks(tt.locks)
		slices.Sort(got)
		want := slices.Clone(tt.want)
		slices.Sort(want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s: masks mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}
