package pipeline

import "testing"

func TestTrackerAllowsNormalLifecycle(t *testing.T) {
	var tr tracker
	for _, next := range []RunState{
		RunEnumerating, RunRendering, RunCleaning, RunRendering, RunCleaning, RunCompleted,
	} {
		if err := tr.to(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if !IsTerminal(tr.cur) {
		t.Error("completed run should be terminal")
	}
}

func TestTrackerRejectsInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []RunState
	}{
		{"render before enumerate", []RunState{RunRendering}},
		{"clean before render", []RunState{RunEnumerating, RunCleaning}},
		{"resume after completed", []RunState{RunEnumerating, RunCompleted, RunRendering}},
		{"resume after aborted", []RunState{RunEnumerating, RunRendering, RunAborted, RunRendering}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr tracker
			var err error
			for _, next := range tt.path {
				if err = tr.to(next); err != nil {
					break
				}
			}
			if err == nil {
				t.Errorf("path %v accepted", tt.path)
			}
		})
	}
}

func TestAbortReachableFromEveryActiveState(t *testing.T) {
	for _, from := range []RunState{RunEnumerating, RunRendering, RunCleaning} {
		if !allowedTransition(from, RunAborted) {
			t.Errorf("%s cannot abort", from)
		}
	}
	if allowedTransition(RunCompleted, RunAborted) {
		t.Error("completed run must not become aborted")
	}
}

func TestIsTerminal(t *testing.T) {
	for s, want := range map[RunState]bool{
		RunIdle:        false,
		RunEnumerating: false,
		RunRendering:   false,
		RunCleaning:    false,
		RunCompleted:   true,
		RunAborted:     true,
	} {
		if got := IsTerminal(s); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, want)
		}
	}
}
