// Package engine defines the narrow render-engine adapter the pipeline
// drives, plus the error taxonomy shared by all implementations. The
// orchestrator never touches engine internals: it configures the scene
// through this interface, asks for one frame, and periodically releases
// engine-side caches.
package engine

import (
	"context"

	"github.com/backmassage/skinforge/internal/variant"
)

// Engine is implemented by render backends (in-process preview, external
// Blender). All methods are called from a single goroutine; implementations
// need no locking.
//
// The four Set/Bind calls mutate the engine's single scene state in the
// order the configurator issues them. Orientation is always absolute.
type Engine interface {
	// BindTexture makes the image at path the shading input for all
	// materials using the target image-input slot.
	BindTexture(path string) error

	// SetMaterial selects the material set for the next frame.
	SetMaterial(m variant.Material) error

	// SetLighting enables exactly one lighting collection and disables the
	// other; the scene is never left with both or neither active.
	SetLighting(l variant.Lighting) error

	// SetOrientation sets the absolute object angle in degrees about the
	// fixed axis.
	SetOrientation(angleDeg float64) error

	// RenderFrame renders the currently configured scene and returns the
	// encoded PNG bytes.
	RenderFrame(ctx context.Context) ([]byte, error)

	// ReleaseCaches frees engine-side caches (loaded images, intermediate
	// buffers) that the next item does not need.
	ReleaseCaches() error

	// Close releases all engine resources at the end of the run.
	Close() error
}
