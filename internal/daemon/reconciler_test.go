package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagwm/internal/platform"
)

type fakeSource struct {
	native    []platform.NativeID
	bound     []platform.NativeID
	err       error
	forgotten []platform.NativeID
}

func (f *fakeSource) Native() ([]platform.NativeID, error) { return f.native, f.err }
func (f *fakeSource) Bound() []platform.NativeID           { return f.bound }
func (f *fakeSource) Forget(n platform.NativeID)           { f.forgotten = append(f.forgotten, n) }

func quietConfig() ReconcilerConfig {
	return ReconcilerConfig{Interval: time.Millisecond, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestReconcileNow_DropsVanishedWindows(t *testing.T) {
	src := &fakeSource{
		native: []platform.NativeID{1, 3, 7},
		bound:  []platform.NativeID{1, 2, 3, 4},
	}
	r := NewReconciler(quietConfig(), src)
	if n := r.ReconcileNow(); n != 2 {
		t.Fatalf("expected 2 pruned, got %d", n)
	}
	if diff := cmp.Diff([]platform.NativeID{2, 4}, src.forgotten); diff != "" {
		t.Fatalf("forgotten mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileNow_ListErrorKeepsWindows(t *testing.T) {
	src := &fakeSource{bound: []platform.NativeID{1}, err: errors.New("connection lost")}
	r := NewReconciler(quietConfig(), src)
	if n := r.ReconcileNow(); n != 0 || len(src.forgotten) != 0 {
		t.Fatalf("expected nothing pruned on error, got %d %v", n, src.forgotten)
	}
}

func TestNewReconciler_DefaultInterval(t *testing.T) {
	r := NewReconciler(ReconcilerConfig{}, &fakeSource{})
	if r.interval != 10*time.Second {
		t.Fatalf("expected default interval, got %v", r.interval)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	src := &fakeSource{}
	r := NewReconciler(quietConfig(), src)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("reconciler did not stop")
	}
}
