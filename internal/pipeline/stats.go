package pipeline

import (
	"github.com/backmassage/skinforge/internal/catalog"
	"github.com/backmassage/skinforge/internal/engine"
)

// Failure records one non-fatal job failure for the end-of-run report.
type Failure struct {
	Job  string
	Kind string
	Msg  string
}

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Items            int
	MissingItems     int
	Textures         int
	Attempted        int
	Skipped          int
	Rendered         int
	Failed           int
	TotalOutputBytes int64
	Failures         []Failure
	Aborted          bool
	AbortReason      string
}

// RecordFailure appends a classified failure entry and bumps the counter.
func (s *RunStats) RecordFailure(j catalog.Job, err error) {
	s.Failed++
	s.Failures = append(s.Failures, Failure{
		Job:  j.String(),
		Kind: engine.Kind(err),
		Msg:  err.Error(),
	})
}
