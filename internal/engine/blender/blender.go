// Package blender drives an external Blender process, one invocation per
// frame, against a prepared .blend scene. The scene conventions match the
// legacy export rig: a shared image-input node on every material, two
// lighting collections (lighting_fancy / lighting_flat), and a dedicated
// blade-mask material.
//
// Stderr from each invocation is captured and classified into the engine
// error taxonomy so the pipeline can tell a missing lighting collection from
// a device failure from a dead Blender install.
package blender

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/skinforge/internal/engine"
	"github.com/backmassage/skinforge/internal/variant"
)

// Options configures the Blender engine.
type Options struct {
	Bin        string // Blender executable, e.g. "blender".
	BlendFile  string // Scene file containing the weapon rig.
	Resolution int    // Square output resolution.
	Samples    int    // Cycles sample count.
	Verbose    bool   // Tee Blender stderr to os.Stderr.
}

// Engine implements engine.Engine by spawning one Blender process per frame.
// Scene configuration is accumulated locally and serialized into the python
// expression of the next invocation.
type Engine struct {
	opts  Options
	spool string // Temp dir for frame output; created lazily.

	texturePath string
	material    variant.Material
	lighting    variant.Lighting
	angleDeg    float64
}

var _ engine.Engine = (*Engine)(nil)

// New returns a Blender engine. No process is started until the first frame.
func New(opts Options) *Engine {
	return &Engine{
		opts:     opts,
		material: variant.MaterialNormal,
		lighting: variant.LightingFlat,
	}
}

// BindTexture records the texture for the next frame. The file must exist;
// Blender would otherwise fail late with an opaque load error.
func (e *Engine) BindTexture(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", engine.ErrMissingSourceTexture, path)
	}
	e.texturePath = path
	return nil
}

// SetMaterial records the material set for the next frame.
func (e *Engine) SetMaterial(m variant.Material) error {
	e.material = m
	return nil
}

// SetLighting records which lighting collection the next frame enables.
func (e *Engine) SetLighting(l variant.Lighting) error {
	e.lighting = l
	return nil
}

// SetOrientation records the absolute object angle in degrees.
func (e *Engine) SetOrientation(angleDeg float64) error {
	e.angleDeg = angleDeg
	return nil
}

// RenderFrame runs one Blender invocation and returns the produced PNG bytes.
func (e *Engine) RenderFrame(ctx context.Context) ([]byte, error) {
	if e.texturePath == "" {
		return nil, fmt.Errorf("%w: no texture bound", engine.ErrRenderFailed)
	}
	if e.spool == "" {
		dir, err := os.MkdirTemp("", "skinforge-spool-")
		if err != nil {
			return nil, fmt.Errorf("%w: spool dir: %v", engine.ErrRenderFailed, err)
		}
		e.spool = dir
	}

	outPath := filepath.Join(e.spool, "frame.png")
	args := BuildArgs(e.opts, frameSpec{
		TexturePath: e.texturePath,
		Material:    e.material,
		Lighting:    e.lighting,
		AngleDeg:    e.angleDeg,
		OutputPath:  outPath,
	})

	result := Execute(ctx, args, e.opts.Verbose)
	if result.Err != nil {
		return nil, Classify(result.Stderr, result.Err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: frame not written: %v", engine.ErrRenderFailed, err)
	}
	os.Remove(outPath)
	return data, nil
}

// ReleaseCaches clears the spool directory. Each frame runs in a fresh
// Blender process, so the spool is the only engine-side state that survives
// between jobs.
func (e *Engine) ReleaseCaches() error {
	if e.spool == "" {
		return nil
	}
	entries, err := os.ReadDir(e.spool)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		os.Remove(filepath.Join(e.spool, entry.Name()))
	}
	return nil
}

// Close removes the spool directory.
func (e *Engine) Close() error {
	if e.spool == "" {
		return nil
	}
	err := os.RemoveAll(e.spool)
	e.spool = ""
	return err
}
