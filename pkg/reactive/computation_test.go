package reactive

import (
	"testing"

	"github.com/weft-ui/weft/internal/werrors"
)

func TestComputationRunsEagerly(t *testing.T) {
	runs := 0
	c := NewComputation(func() { runs++ })

	if runs != 1 {
		t.Errorf("expected one eager run, got %d", runs)
	}
	if c.ID() == 0 {
		t.Error("computation should have a non-zero ID")
	}
}

func TestDisposeStopsReruns(t *testing.T) {
	s := NewStore(nil)

	runs := 0
	c := NewComputation(func() {
		runs++
		_ = s.Get("k")
	})

	c.Dispose()
	if !c.IsDisposed() {
		t.Fatal("expected disposed")
	}

	s.Set("k", 1)
	if runs != 1 {
		t.Errorf("disposed computation must not rerun, got %d runs", runs)
	}
	if s.Get("k") != 1 {
		t.Error("value must still be stored after dispose")
	}

	// Dispose is idempotent.
	c.Dispose()
}

func TestDisposeDuringRunIgnoresLaterRun(t *testing.T) {
	runs := 0
	c := &Computation{id: nextID()}
	c.fn = func() { runs++ }

	c.Dispose()
	c.Run()
	if runs != 0 {
		t.Errorf("disposed computation must not run, got %d", runs)
	}
}

func TestNestedComputationsAttributeReadsCorrectly(t *testing.T) {
	s := NewStore(nil)

	outerRuns := 0
	innerRuns := 0

	NewComputation(func() {
		outerRuns++
		_ = s.Get("outer")

		if outerRuns == 1 {
			// Creating a computation inside a computation: the inner
			// one's reads belong to it, and after it finishes the
			// outer computation's tracking resumes.
			NewComputation(func() {
				innerRuns++
				_ = s.Get("inner")
			})
		}

		_ = s.Get("outer2")
	})

	s.Set("inner", 1)
	if innerRuns != 2 {
		t.Errorf("inner write should rerun inner only, got inner=%d", innerRuns)
	}
	if outerRuns != 1 {
		t.Errorf("inner write must not rerun outer, got outer=%d", outerRuns)
	}

	// A read performed after the nested computation finished still
	// belongs to the outer computation.
	s.Set("outer2", 1)
	if outerRuns != 2 {
		t.Errorf("outer2 write should rerun outer, got outer=%d", outerRuns)
	}
}

func TestUntrackSuspendsTracking(t *testing.T) {
	s := NewStore(nil)

	runs := 0
	NewComputation(func() {
		runs++
		Untrack(func() {
			_ = s.Get("quiet")
		})
	})

	s.Set("quiet", 1)
	if runs != 1 {
		t.Errorf("reads under Untrack must not subscribe, got %d runs", runs)
	}
}

func TestReentrantTriggerDoesNotCorruptIteration(t *testing.T) {
	s := NewStore(nil)
	other := NewStore(nil)

	// The first subscriber's rerun writes a key of another store that
	// the second subscriber reads. The trigger snapshot must deliver
	// both original subscribers exactly once for the outer write.
	bRuns := 0

	first := true
	NewComputation(func() {
		_ = s.Get("k")
		if !first {
			other.Set("x", 1)
		}
		first = false
	})
	NewComputation(func() {
		bRuns++
		_ = s.Get("k")
		_ = other.Get("x")
	})

	s.Set("k", 1)
	// b runs once for other.Set("x") fired from a's rerun, and once
	// for the outer write itself.
	if bRuns != 3 {
		t.Errorf("expected 3 total runs of b (eager, nested trigger, outer trigger), got %d", bRuns)
	}
}

func TestMaxDepthGuardPanics(t *testing.T) {
	s := NewStore(map[string]any{"n": 0})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected reentrant-update panic")
		}
		we, ok := r.(*werrors.Error)
		if !ok {
			t.Fatalf("expected *werrors.Error, got %T", r)
		}
		if we.Code != "E001" {
			t.Errorf("expected code E001, got %q", we.Code)
		}
	}()

	// A computation that writes the key it reads recurses; the guard
	// bounds it.
	NewComputation(func() {
		n := s.Get("n").(int)
		s.Set("n", n+1)
	}, WithMaxDepth(8))
}

func TestRunningFlag(t *testing.T) {
	var c *Computation
	sawRunning := false
	c = NewComputation(func() {
		if c != nil {
			sawRunning = c.Running()
		}
	})

	if c.Running() {
		t.Error("computation must not report running after the run completes")
	}

	c.Run()
	if !sawRunning {
		t.Error("computation must report running during its run")
	}
}

func TestWithScopeRestoresOnPanic(t *testing.T) {
	type scope struct{ name string }

	func() {
		defer func() { recover() }()
		WithScope(&scope{name: "failing"}, func() {
			panic("factory blew up")
		})
	}()

	if CurrentScope() != nil {
		t.Error("scope must be cleared even when the scoped function panics")
	}

	// A later scope still works.
	WithScope(&scope{name: "ok"}, func() {
		sc, _ := CurrentScope().(*scope)
		if sc == nil || sc.name != "ok" {
			t.Errorf("expected scope %q, got %+v", "ok", sc)
		}
	})
}

func TestWithComputationTracksManually(t *testing.T) {
	s := NewStore(nil)

	runs := 0
	c := &Computation{id: nextID()}
	c.fn = func() { runs++ }

	WithComputation(c, func() {
		_ = s.Get("k")
	})

	s.Set("k", 1)
	if runs != 1 {
		t.Errorf("manually tracked computation should rerun on write, got %d", runs)
	}
}
