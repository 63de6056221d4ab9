package engine

import "errors"

// Sentinel errors classifying render failures. Implementations wrap these
// with detail via fmt.Errorf("%w: ..."); the pipeline matches them with
// errors.Is to decide per-job recovery vs batch abort.
var (
	// ErrMissingSourceTexture: the source image is absent or unreadable.
	ErrMissingSourceTexture = errors.New("source texture missing or unreadable")

	// ErrMissingImageSlot: no material exposes the target image-input slot,
	// so the bound texture would silently not appear in the render.
	ErrMissingImageSlot = errors.New("image input slot not found")

	// ErrMissingLightingCollection: the requested lighting collection does
	// not exist in the scene.
	ErrMissingLightingCollection = errors.New("lighting collection not found")

	// ErrMissingMaskMaterial: the mask material binding does not exist.
	ErrMissingMaskMaterial = errors.New("mask material not found")

	// ErrRenderFailed: the engine failed to produce the frame (timeout,
	// device error). Recoverable at the job level.
	ErrRenderFailed = errors.New("render failed")

	// ErrOutputWrite: the frame rendered but could not be persisted.
	ErrOutputWrite = errors.New("artifact write failed")

	// ErrFatal: the engine process is unusable. The only error that aborts
	// the remaining batch.
	ErrFatal = errors.New("engine unusable")
)

// Kind returns the short failure label used in diagnostics and the run
// summary. Unrecognized errors report as "render".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrFatal):
		return "engine-fatal"
	case errors.Is(err, ErrMissingSourceTexture):
		return "missing-texture"
	case errors.Is(err, ErrMissingImageSlot):
		return "missing-image-slot"
	case errors.Is(err, ErrMissingLightingCollection):
		return "missing-lighting"
	case errors.Is(err, ErrMissingMaskMaterial):
		return "missing-mask-material"
	case errors.Is(err, ErrOutputWrite):
		return "write"
	default:
		return "render"
	}
}

// IsFatal reports whether err must abort the remaining batch.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}
