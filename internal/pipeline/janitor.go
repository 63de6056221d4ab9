package pipeline

import (
	"github.com/backmassage/skinforge/internal/engine"
	"github.com/backmassage/skinforge/internal/logging"
)

// Janitor releases engine caches every Interval completed weapons. Cleanup
// only runs at weapon boundaries, never between the variants of one texture,
// so a render never observes a half-released scene.
type Janitor struct {
	interval int
	eng      engine.Engine
	log      *logging.Logger
	verbose  bool
	cleans   int
}

func NewJanitor(interval int, eng engine.Engine, log *logging.Logger, verbose bool) *Janitor {
	if interval < 1 {
		interval = 1
	}
	return &Janitor{interval: interval, eng: eng, log: log, verbose: verbose}
}

// ItemDone is called after each weapon finishes, regardless of whether any
// of its jobs failed. itemsDone is the 1-based count of finished weapons.
func (j *Janitor) ItemDone(itemsDone int) {
	if itemsDone%j.interval != 0 {
		return
	}
	j.eng.ReleaseCaches()
	j.cleans++
	j.log.Debug(j.verbose, "Released engine caches (%d weapons done)", itemsDone)
}

// Final releases caches once more at the end of the run so a partial
// interval does not leave engine memory held.
func (j *Janitor) Final() {
	j.eng.ReleaseCaches()
	j.cleans++
}

// Cleans returns how many cache releases have run.
func (j *Janitor) Cleans() int {
	return j.cleans
}
