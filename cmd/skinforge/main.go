// Command skinforge is the CLI entrypoint for the SkinForge batch skin
// renderer.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check) or the batch render pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/skinforge/internal/check"
	"github.com/backmassage/skinforge/internal/config"
	"github.com/backmassage/skinforge/internal/display"
	"github.com/backmassage/skinforge/internal/engine"
	"github.com/backmassage/skinforge/internal/engine/blender"
	"github.com/backmassage/skinforge/internal/engine/preview"
	"github.com/backmassage/skinforge/internal/logging"
	"github.com/backmassage/skinforge/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build", these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "skinforge: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "skinforge: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skinforge: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return 0
	}

	// Resolve and validate paths: textures must exist, the render directory
	// is created if needed and must not sit inside the texture tree
	// (prevents rendered frames from being picked up as sources).
	textureAbs, err := absPath(cfg.TextureDir)
	if err != nil {
		log.Error("Texture directory not found: %s", cfg.TextureDir)
		return 1
	}
	if err := os.MkdirAll(cfg.RenderDir, 0o755); err != nil {
		log.Error("Cannot create render directory: %s", cfg.RenderDir)
		return 1
	}
	renderAbs, err := absPath(cfg.RenderDir)
	if err != nil {
		log.Error("Cannot resolve render path: %s", cfg.RenderDir)
		return 1
	}
	if err := cfg.ValidatePaths(textureAbs, renderAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose a render path outside: %s", cfg.TextureDir)
		return 1
	}

	log.Info("=== SkinForge v%s (%s) ===", version, commit)
	log.Info("Textures: %s", cfg.TextureDir)
	log.Info("Renders:  %s", cfg.RenderDir)
	if cfg.DryRun {
		log.Warn("DRY RUN — no frames will be written")
	}
	log.Info("")

	// Fail fast if the selected backend or the directories are unusable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	eng, err := buildEngine(&cfg)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	defer eng.Close()

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// pipeline can stop between jobs without leaving partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current job…")
		cancel()
	}()

	// Phase 4: Run the batch.
	stats := pipeline.Run(ctx, &cfg, log, eng)

	if stats.Aborted {
		return 2
	}
	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// buildEngine constructs the configured render backend.
func buildEngine(cfg *config.Config) (engine.Engine, error) {
	switch cfg.Engine {
	case config.EngineBlender:
		return blender.New(blender.Options{
			Bin:        cfg.BlenderBin,
			BlendFile:  cfg.BlendFile,
			Resolution: cfg.Resolution,
			Samples:    cfg.Samples,
			Verbose:    cfg.Verbose,
		}), nil
	case config.EnginePreview:
		return preview.New(cfg.Resolution), nil
	default:
		return nil, fmt.Errorf("unknown engine mode: %s", cfg.Engine)
	}
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of texture vs render directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
