// Package pipeline orchestrates weapon enumeration, per-variant rendering,
// and batch summary reporting.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/backmassage/skinforge/internal/catalog"
	"github.com/backmassage/skinforge/internal/config"
	"github.com/backmassage/skinforge/internal/display"
	"github.com/backmassage/skinforge/internal/engine"
	"github.com/backmassage/skinforge/internal/logging"
	"github.com/backmassage/skinforge/internal/naming"
	"github.com/backmassage/skinforge/internal/scene"
	"github.com/backmassage/skinforge/internal/variant"
)

type jobOutcome int

const (
	outcomeSkipped jobOutcome = iota
	outcomeRendered
	outcomeFailed
	outcomeFatal
)

// runner carries the per-batch collaborators so the job loop does not
// thread six parameters through every call.
type runner struct {
	cfg     *config.Config
	log     *logging.Logger
	eng     engine.Engine
	store   *naming.Store
	conf    *scene.Configurator
	exec    *Executor
	janitor *Janitor
	stats   RunStats
	state   tracker
}

// Run is the top-level batch entry point. It resolves the weapon catalog
// against the texture directory, renders every variant of every source
// texture sequentially, and returns aggregate stats.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, eng engine.Engine) RunStats {
	r := &runner{cfg: cfg, log: log, eng: eng}
	r.mustState(RunEnumerating)

	store, err := naming.NewStore(cfg.RenderDir)
	if err != nil {
		log.Error("Cannot create render directory: %v", err)
		r.abort("render directory unavailable")
		r.logSummary()
		return r.stats
	}
	r.store = store
	r.conf = scene.NewConfigurator(eng)
	r.exec = NewExecutor(eng, store)
	r.janitor = NewJanitor(cfg.CleanInterval, eng, log, cfg.Verbose)

	items, missing := catalog.Resolve(cfg.Weapons, cfg.TextureDir)
	for _, name := range missing {
		log.Warn("No texture folder for %q (expected %s), skipping weapon",
			name, filepath.Join(cfg.TextureDir, "weapon_"+catalog.Key(name)))
		r.stats.MissingItems++
	}
	r.stats.Items = len(items)

	r.logBatchHeader(len(items))

	if len(items) == 0 {
		log.Warn("Nothing to render")
		r.mustState(RunCompleted)
		r.logSummary()
		return r.stats
	}
	r.mustState(RunRendering)

	itemsDone := 0
	for i, item := range items {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			break
		}

		fatal := r.processItem(ctx, item, i+1, len(items))

		itemsDone++
		r.mustState(RunCleaning)
		r.janitor.ItemDone(itemsDone)
		r.mustState(RunRendering)

		if fatal {
			r.abort("engine reported a fatal error")
			r.logSummary()
			return r.stats
		}
	}

	r.janitor.Final()
	r.mustState(RunCompleted)
	r.logSummary()
	return r.stats
}

// processItem renders all textures of one weapon. It returns true when the
// engine failed fatally and the batch must stop.
func (r *runner) processItem(ctx context.Context, item catalog.Item, pos, total int) bool {
	texs, err := catalog.Textures(item)
	if err != nil {
		r.log.Error("Cannot list textures for %s: %v", item.Name, err)
		r.stats.Failed++
		r.stats.Failures = append(r.stats.Failures, Failure{
			Job:  item.Key,
			Kind: "missing-texture",
			Msg:  err.Error(),
		})
		return false
	}
	if len(texs) == 0 {
		r.log.Info("[%d/%d] %s: no source textures", pos, total, item.Name)
		return false
	}

	for ti, tex := range texs {
		if ctx.Err() != nil {
			return false
		}

		r.stats.Textures++
		r.log.Info("[%d/%d] %s — texture %d/%d (%s)", pos, total, item.Name, ti+1, len(texs), tex.Stem)

		// Whole-texture fast path: if all six artifacts exist there is no
		// reason to inspect or bind the source at all.
		if r.cfg.SkipExisting && !r.cfg.DryRun && r.store.AllExist(item, tex) {
			r.log.Warn("Skip (all %d exist): %s", variant.Count, tex.Stem)
			r.stats.Skipped += variant.Count
			fmt.Println()
			continue
		}

		w, h, err := catalog.Inspect(tex)
		if err != nil {
			r.log.Error("Unreadable source texture %s: %v", tex.Path, err)
			r.stats.Failed++
			r.stats.Failures = append(r.stats.Failures, Failure{
				Job:  item.Key + "/" + tex.Stem,
				Kind: "missing-texture",
				Msg:  err.Error(),
			})
			fmt.Println()
			continue
		}
		if w != h {
			r.log.Outlier("  Non-square texture: %s (%s)", display.FormatDimensions(w, h), tex.Stem)
		}

		for _, j := range catalog.Jobs(item, tex) {
			if ctx.Err() != nil {
				return false
			}
			if r.processJob(ctx, j) == outcomeFatal {
				return true
			}
		}
		fmt.Println()
	}
	return false
}

// processJob handles one variant: skip check → configure scene → render →
// persist. The skip check runs before any scene mutation so a skipped job
// leaves the engine untouched.
func (r *runner) processJob(ctx context.Context, j catalog.Job) jobOutcome {
	name := naming.ArtifactName(j)

	if r.cfg.SkipExisting && r.store.Exists(j) {
		r.log.Debug(r.cfg.Verbose, "  Skip (exists): %s", name)
		r.stats.Skipped++
		return outcomeSkipped
	}

	r.stats.Attempted++

	if r.cfg.DryRun {
		r.log.Success("  [DRY] Would render %s", name)
		r.stats.Rendered++
		return outcomeRendered
	}

	if err := r.conf.Apply(j); err != nil {
		return r.jobFailed(j, err)
	}

	path, n, err := r.exec.Render(ctx, j)
	if err != nil {
		return r.jobFailed(j, err)
	}

	r.stats.Rendered++
	r.stats.TotalOutputBytes += n
	r.log.Render("  %s -> %s (%s)", j.Variant, filepath.Base(path), display.FormatBytes(n))
	return outcomeRendered
}

// jobFailed records the failure and decides whether the batch continues.
// Scene and render errors are isolated to the job; fatal engine errors
// abort the run.
func (r *runner) jobFailed(j catalog.Job, err error) jobOutcome {
	r.log.Error("  %v", err)
	r.stats.RecordFailure(j, err)
	if engine.IsFatal(err) {
		return outcomeFatal
	}
	return outcomeFailed
}

func (r *runner) abort(reason string) {
	r.stats.Aborted = true
	r.stats.AbortReason = reason
	r.mustState(RunAborted)
}

// mustState advances the run state; a disallowed transition is an
// orchestration bug and is loud in logs rather than silently ignored.
func (r *runner) mustState(next RunState) {
	if err := r.state.to(next); err != nil {
		r.log.Error("%v", err)
	}
}

func (r *runner) logBatchHeader(items int) {
	r.log.Info("Rendering %d weapons (%d variants per texture)", items, variant.Count)
	r.log.Info("Engine: %s, resolution %dpx, samples %d", r.cfg.Engine, r.cfg.Resolution, r.cfg.Samples)
	if r.cfg.SkipExisting {
		r.log.Info("Skip policy: existing artifacts are kept")
	} else {
		r.log.Info("Skip policy: force re-render")
	}
	r.log.Info("Cache cleanup: every %d weapons", r.cfg.CleanInterval)
	if r.cfg.DryRun {
		r.log.Warn("Dry run: no frames will be rendered")
	}
	fmt.Println()
}

func (r *runner) logSummary() {
	s := &r.stats
	fmt.Println()
	r.log.Info("==================== Summary ====================")
	r.log.Info("Weapons: %d processed, %d without texture folders", s.Items, s.MissingItems)
	r.log.Info("Textures: %d", s.Textures)
	r.log.Info("Jobs: %d attempted, %d skipped, %d rendered, %d failed",
		s.Attempted, s.Skipped, s.Rendered, s.Failed)
	if s.TotalOutputBytes > 0 {
		r.log.Info("Output: %s", display.FormatBytes(s.TotalOutputBytes))
	}

	for _, f := range s.Failures {
		r.log.Error("  [%s] %s: %s", f.Kind, f.Job, f.Msg)
	}

	switch {
	case s.Aborted:
		r.log.Error("Batch aborted: %s", s.AbortReason)
	case s.Failed > 0:
		r.log.Warn("Batch completed with %d failures", s.Failed)
	default:
		r.log.Success("Batch completed")
	}
}
