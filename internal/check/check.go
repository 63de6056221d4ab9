// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for the render backends and the texture
// and render directories.
package check

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmassage/skinforge/internal/config"
	"github.com/backmassage/skinforge/internal/engine/preview"
	"github.com/backmassage/skinforge/internal/variant"
)

// Sentinel errors returned by CheckDeps when a backend or directory is unusable.
var (
	ErrBlenderNotFound      = errors.New("blender binary not found on PATH")
	ErrBlendFileMissing     = errors.New("blend file missing or unreadable")
	ErrPreviewTestFailed    = errors.New("preview engine self-test render failed")
	ErrTextureDirMissing    = errors.New("texture directory missing or not a directory")
	ErrRenderDirNotWritable = errors.New("render directory not writable")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: preview self-test, blender
// availability and version, blend file readability, and directory access.
// This is informational only — it does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkPreview(log)
	checkBlender(cfg, log)
	checkDirs(cfg, log)
}

// checkPreview runs a tiny in-process render to verify the preview backend.
func checkPreview(log Logger) {
	log.Info("Testing preview engine...")
	if err := selfTestPreview(); err != nil {
		log.Error("Preview engine self-test failed: %v", err)
		return
	}
	log.Success("Preview engine works")
}

// checkBlender verifies the configured blender binary and blend file. Both
// are informational when running in preview mode.
func checkBlender(cfg *config.Config, log Logger) {
	bin := cfg.BlenderBin
	if bin == "" {
		bin = "blender"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		if cfg.Engine == config.EngineBlender {
			log.Error("Blender not found: %s", bin)
		} else {
			log.Warn("Blender not found (%s); only the preview engine is available", bin)
		}
		return
	}

	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		log.Warn("Blender found but --version failed: %v", err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("Blender: %s (%s)", firstLine, path)

	if cfg.BlendFile != "" {
		if fi, err := os.Stat(cfg.BlendFile); err != nil || fi.IsDir() {
			log.Error("Blend file unreadable: %s", cfg.BlendFile)
		} else {
			log.Success("Blend file: %s", cfg.BlendFile)
		}
	} else if cfg.Engine == config.EngineBlender {
		log.Error("Blender mode selected but no blend file configured")
	}
}

// checkDirs reports texture directory readability and render directory
// writability when paths were given.
func checkDirs(cfg *config.Config, log Logger) {
	if cfg.TextureDir != "" {
		if fi, err := os.Stat(cfg.TextureDir); err != nil || !fi.IsDir() {
			log.Error("Texture directory missing: %s", cfg.TextureDir)
		} else {
			log.Success("Texture directory: %s", cfg.TextureDir)
		}
	}
	if cfg.RenderDir != "" {
		if err := probeWritable(cfg.RenderDir); err != nil {
			log.Error("Render directory not writable: %s (%v)", cfg.RenderDir, err)
		} else {
			log.Success("Render directory: %s", cfg.RenderDir)
		}
	}
}

// CheckDeps is the pre-pipeline validation: the texture directory must
// exist, the render directory must be writable, and the selected backend
// must pass a short smoke test. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if fi, err := os.Stat(cfg.TextureDir); err != nil || !fi.IsDir() {
		return ErrTextureDirMissing
	}
	if err := probeWritable(cfg.RenderDir); err != nil {
		return ErrRenderDirNotWritable
	}

	if cfg.Engine == config.EngineBlender {
		bin := cfg.BlenderBin
		if bin == "" {
			bin = "blender"
		}
		if _, err := exec.LookPath(bin); err != nil {
			return ErrBlenderNotFound
		}
		if fi, err := os.Stat(cfg.BlendFile); err != nil || fi.IsDir() {
			return ErrBlendFileMissing
		}
		return nil
	}

	if err := selfTestPreview(); err != nil {
		return ErrPreviewTestFailed
	}
	return nil
}

// --- internal helpers ---

// selfTestPreview renders one tiny frame through the preview engine against
// a generated texture.
func selfTestPreview() error {
	dir, err := os.MkdirTemp("", "skinforge-check-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	texPath := filepath.Join(dir, "check.png")
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	if err := os.WriteFile(texPath, buf.Bytes(), 0o644); err != nil {
		return err
	}

	eng := preview.New(16)
	defer eng.Close()

	if err := eng.BindTexture(texPath); err != nil {
		return err
	}
	if err := eng.SetMaterial(variant.MaterialNormal); err != nil {
		return err
	}
	if err := eng.SetLighting(variant.LightingFlat); err != nil {
		return err
	}
	if err := eng.SetOrientation(0); err != nil {
		return err
	}
	_, err = eng.RenderFrame(context.Background())
	return err
}

// probeWritable creates the directory if needed and verifies a file can be
// created inside it.
func probeWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".skinforge-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
