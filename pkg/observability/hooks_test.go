package observability

import (
	"context"
	"testing"
	"time"
)

type recordingHooks struct {
	solves    int
	solutions int
	sizes     []int
}

func (r *recordingHooks) OnSolveStart(context.Context, int) { r.solves++ }
func (r *recordingHooks) OnSolveComplete(context.Context, int, string, time.Duration) {
}
func (r *recordingHooks) OnSolutionFound(_ context.Context, _, total int) { r.solutions = total }
func (r *recordingHooks) OnSizeStart(_ context.Context, size int)         { r.sizes = append(r.sizes, size) }
func (r *recordingHooks) OnSizeComplete(context.Context, int, int, time.Duration) {
}

func TestSetEnumerationHooks(t *testing.T) {
	t.Cleanup(func() { SetEnumerationHooks(nil) })

	rec := &recordingHooks{}
	SetEnumerationHooks(rec)

	ctx := context.Background()
	Enumeration().OnSolveStart(ctx, 1)
	Enumeration().OnSolutionFound(ctx, 2, 1)
	Enumeration().OnSizeStart(ctx, 3)

	if rec.solves != 1 || rec.solutions != 1 {
		t.Errorf("hooks not invoked: %+v", rec)
	}
	if len(rec.sizes) != 1 || rec.sizes[0] != 3 {
		t.Errorf("sizes = %v, want [3]", rec.sizes)
	}
}

func TestNilRestoresNoop(t *testing.T) {
	SetEnumerationHooks(&recordingHooks{})
	SetEnumerationHooks(nil)

	// The no-op default must absorb every event without panicking.
	ctx := context.Background()
	Enumeration().OnSolveStart(ctx, 0)
	Enumeration().OnSolveComplete(ctx, 0, "optimal", time.Millisecond)
	Enumeration().OnSolutionFound(ctx, 0, 0)
	Enumeration().OnSizeStart(ctx, 0)
	Enumeration().OnSizeComplete(ctx, 0, 0, 0)
}
