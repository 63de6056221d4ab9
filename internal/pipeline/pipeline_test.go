package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/skinforge/internal/config"
	"github.com/backmassage/skinforge/internal/engine"
	"github.com/backmassage/skinforge/internal/logging"
	"github.com/backmassage/skinforge/internal/variant"
)

// fakeEngine implements engine.Engine with an event log so tests can assert
// call ordering across jobs and cleanup boundaries.
type fakeEngine struct {
	events      []string
	renders     int
	releases    int
	failMask    bool  // SetMaterial(mask) fails with ErrMissingMaskMaterial
	renderErr   error // returned by every RenderFrame when set
	lastBound   string
}

func (f *fakeEngine) BindTexture(path string) error {
	f.events = append(f.events, "bind")
	f.lastBound = path
	return nil
}

func (f *fakeEngine) SetMaterial(m variant.Material) error {
	f.events = append(f.events, "material")
	if f.failMask && m == variant.MaterialMask {
		return fmt.Errorf("%w: weapon has no mask binding", engine.ErrMissingMaskMaterial)
	}
	return nil
}

func (f *fakeEngine) SetLighting(variant.Lighting) error {
	f.events = append(f.events, "lighting")
	return nil
}

func (f *fakeEngine) SetOrientation(float64) error {
	f.events = append(f.events, "orientation")
	return nil
}

func (f *fakeEngine) RenderFrame(ctx context.Context) ([]byte, error) {
	f.events = append(f.events, "render")
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	f.renders++
	return []byte("fake-frame"), nil
}

func (f *fakeEngine) ReleaseCaches() error {
	f.events = append(f.events, "release")
	f.releases++
	return nil
}

func (f *fakeEngine) Close() error { return nil }

// writePNG writes a decodable PNG so catalog.Inspect succeeds.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// setupTextureTree builds texture/render dirs with one karambit texture and
// returns a config pointed at them.
func setupTextureTree(t *testing.T, weapons ...string) *config.Config {
	t.Helper()
	texDir := t.TempDir()
	renderDir := t.TempDir()

	if len(weapons) == 0 {
		weapons = []string{"Karambit"}
	}
	for _, w := range weapons {
		dir := filepath.Join(texDir, "weapon_"+w)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		writePNG(t, filepath.Join(dir, w+"_damascus_103.png"), 64, 64)
	}

	cfg := config.DefaultConfig()
	cfg.TextureDir = texDir
	cfg.RenderDir = renderDir
	names := make([]string, len(weapons))
	for i, w := range weapons {
		names[i] = w
	}
	cfg.Weapons = names
	cfg.ColorMode = config.ColorNever
	return &cfg
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	return log
}

func TestRun_RendersAllVariants(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if stats.Aborted {
		t.Fatalf("run aborted: %s", stats.AbortReason)
	}
	if stats.Rendered != 6 || stats.Failed != 0 || stats.Skipped != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if eng.renders != 6 {
		t.Errorf("engine renders = %d, want 6", eng.renders)
	}

	want := []string{
		"karambit_blade_fancy_playside_103.png",
		"karambit_blade_fancy_backside_103.png",
		"karambit_blade_flat_playside_103.png",
		"karambit_blade_flat_backside_103.png",
		"karambit_mask_playside_103.png",
		"karambit_mask_backside_103.png",
	}
	for _, name := range want {
		path := filepath.Join(cfg.RenderDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
			continue
		}
		if string(data) != "fake-frame" {
			t.Errorf("%s: unexpected content %q", name, data)
		}
	}

	entries, err := os.ReadDir(cfg.RenderDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 6 {
		t.Errorf("render dir holds %d files, want 6", len(entries))
	}
}

func TestRun_SkipAllExisting(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	for _, v := range variant.All() {
		name := fmt.Sprintf("karambit_%s_%s_103.png", v.Label(), v.Side)
		if err := os.WriteFile(filepath.Join(cfg.RenderDir, name), []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if stats.Skipped != 6 || stats.Rendered != 0 || stats.Attempted != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if eng.renders != 0 {
		t.Errorf("engine rendered %d frames for a fully skipped texture", eng.renders)
	}
	// The fast path avoids even binding the texture.
	for _, e := range eng.events {
		if e == "bind" {
			t.Error("engine texture bound despite all artifacts existing")
		}
	}
	// Existing artifacts must be untouched.
	data, err := os.ReadFile(filepath.Join(cfg.RenderDir, "karambit_mask_playside_103.png"))
	if err != nil || string(data) != "old" {
		t.Errorf("existing artifact was rewritten: %q, %v", data, err)
	}
}

func TestRun_PartialSkip(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	for _, name := range []string{
		"karambit_blade_fancy_playside_103.png",
		"karambit_mask_backside_103.png",
	} {
		if err := os.WriteFile(filepath.Join(cfg.RenderDir, name), []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if stats.Skipped != 2 || stats.Rendered != 4 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRun_ForceRerendersEverything(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	cfg.SkipExisting = false
	for _, v := range variant.All() {
		name := fmt.Sprintf("karambit_%s_%s_103.png", v.Label(), v.Side)
		if err := os.WriteFile(filepath.Join(cfg.RenderDir, name), []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if stats.Rendered != 6 || stats.Skipped != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	data, err := os.ReadFile(filepath.Join(cfg.RenderDir, "karambit_mask_playside_103.png"))
	if err != nil || string(data) != "fake-frame" {
		t.Errorf("artifact not overwritten: %q, %v", data, err)
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	eng := &fakeEngine{failMask: true}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if stats.Aborted {
		t.Fatal("scene errors must not abort the batch")
	}
	if stats.Rendered != 4 || stats.Failed != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(stats.Failures) != 2 {
		t.Fatalf("failures = %+v", stats.Failures)
	}
	for _, f := range stats.Failures {
		if f.Kind != "missing-mask-material" {
			t.Errorf("failure kind = %q", f.Kind)
		}
	}

	// The four blade artifacts still exist; the mask ones do not.
	if _, err := os.Stat(filepath.Join(cfg.RenderDir, "karambit_blade_flat_backside_103.png")); err != nil {
		t.Error("blade artifact missing after isolated mask failure")
	}
	if _, err := os.Stat(filepath.Join(cfg.RenderDir, "karambit_mask_playside_103.png")); err == nil {
		t.Error("mask artifact exists despite failed configure")
	}
}

func TestRun_FatalAborts(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	eng := &fakeEngine{renderErr: fmt.Errorf("%w: segfault", engine.ErrFatal)}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if !stats.Aborted {
		t.Fatal("fatal engine error must abort the run")
	}
	if stats.Failed != 1 {
		t.Errorf("failed = %d, want 1 (no retries after fatal)", stats.Failed)
	}
	if len(stats.Failures) != 1 || stats.Failures[0].Kind != "engine-fatal" {
		t.Errorf("failures = %+v", stats.Failures)
	}
}

func TestRun_NonFatalRenderErrorContinues(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	eng := &fakeEngine{renderErr: fmt.Errorf("%w: device timeout", engine.ErrRenderFailed)}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if stats.Aborted {
		t.Fatal("render errors must not abort the batch")
	}
	if stats.Failed != 6 || stats.Rendered != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRun_JanitorCadence(t *testing.T) {
	cfg := setupTextureTree(t, "karambit", "bayonet", "huntsmanknife")
	cfg.CleanInterval = 1
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if stats.Items != 3 {
		t.Fatalf("items = %d", stats.Items)
	}
	// One release per weapon plus the final sweep.
	if eng.releases != 4 {
		t.Errorf("releases = %d, want 4", eng.releases)
	}

	// Releases only ever land on whole-texture boundaries: each one must be
	// preceded by a multiple of six renders.
	renders := 0
	for _, e := range eng.events {
		switch e {
		case "render":
			renders++
		case "release":
			if renders%variant.Count != 0 {
				t.Fatalf("cache release after %d renders (mid-texture)", renders)
			}
		}
	}
}

func TestRun_JanitorDefaultInterval(t *testing.T) {
	cfg := setupTextureTree(t, "karambit", "bayonet", "huntsmanknife", "gutknife")
	cfg.CleanInterval = 3
	eng := &fakeEngine{}

	Run(context.Background(), cfg, testLogger(t), eng)

	// One interval release (after weapon 3) plus the final sweep.
	if eng.releases != 2 {
		t.Errorf("releases = %d, want 2", eng.releases)
	}
}

func TestRun_MissingWeaponFolder(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	cfg.Weapons = []string{"Karambit", "Ghost Dagger"}
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if stats.Items != 1 || stats.MissingItems != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Rendered != 6 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRun_UnreadableTextureIsReported(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	dir := filepath.Join(cfg.TextureDir, "weapon_karambit")
	if err := os.WriteFile(filepath.Join(dir, "karambit_broken_007.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if stats.Aborted {
		t.Fatal("unreadable texture must not abort the batch")
	}
	// The good texture still rendered fully.
	if stats.Rendered != 6 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Failed != 1 || len(stats.Failures) != 1 {
		t.Fatalf("failures = %+v", stats.Failures)
	}
	if stats.Failures[0].Kind != "missing-texture" {
		t.Errorf("failure kind = %q", stats.Failures[0].Kind)
	}
}

func TestRun_DryRun(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	cfg.DryRun = true
	eng := &fakeEngine{}

	stats := Run(context.Background(), cfg, testLogger(t), eng)

	if stats.Rendered != 6 {
		t.Fatalf("stats = %+v", stats)
	}
	if eng.renders != 0 {
		t.Errorf("dry run rendered %d frames", eng.renders)
	}
	entries, err := os.ReadDir(cfg.RenderDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d files", len(entries))
	}
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	eng := &fakeEngine{}

	first := Run(context.Background(), cfg, testLogger(t), eng)
	if first.Rendered != 6 {
		t.Fatalf("first run: %+v", first)
	}

	second := Run(context.Background(), cfg, testLogger(t), &fakeEngine{})
	if second.Rendered != 0 || second.Skipped != 6 {
		t.Fatalf("second run: %+v", second)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	cfg := setupTextureTree(t, "karambit")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eng := &fakeEngine{}

	stats := Run(ctx, cfg, testLogger(t), eng)

	if eng.renders != 0 {
		t.Errorf("rendered %d frames after cancellation", eng.renders)
	}
	if stats.Aborted {
		t.Error("cancellation is not an engine abort")
	}
}
