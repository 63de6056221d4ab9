// Package preview is the built-in software render engine. It composites the
// bound source texture onto a transparent square canvas with gogpu/gg,
// approximating the three render looks: blade_fancy adds a highlight band,
// blade_flat is plain, and mask collapses the frame to a white silhouette.
//
// Decoded textures are cached per path; ReleaseCaches empties the cache, which
// is what bounds memory across a long sequential run.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	_ "image/jpeg"

	"github.com/backmassage/skinforge/internal/engine"
	"github.com/backmassage/skinforge/internal/variant"
)

// Engine renders frames in-process. Not safe for concurrent use; the pipeline
// is strictly sequential.
type Engine struct {
	res int

	// Scene state. Mutated only through the Engine interface setters.
	texture  *gg.ImageBuf
	material variant.Material
	lighting variant.Lighting
	angleDeg float64

	cache map[string]*gg.ImageBuf
}

var _ engine.Engine = (*Engine)(nil)

// New returns a preview engine producing res×res frames.
func New(res int) *Engine {
	return &Engine{
		res:      res,
		material: variant.MaterialNormal,
		lighting: variant.LightingFlat,
		cache:    make(map[string]*gg.ImageBuf),
	}
}

// BindTexture decodes and caches the texture at path, rescaled once to the
// render resolution with Catmull-Rom resampling.
func (e *Engine) BindTexture(path string) error {
	if buf, ok := e.cache[path]; ok {
		e.texture = buf
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s", engine.ErrMissingSourceTexture, path)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", engine.ErrMissingSourceTexture, path, err)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, e.res, e.res))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	buf := gg.ImageBufFromImage(scaled)
	e.cache[path] = buf
	e.texture = buf
	return nil
}

// SetMaterial selects the material look for the next frame.
func (e *Engine) SetMaterial(m variant.Material) error {
	e.material = m
	return nil
}

// SetLighting selects the lighting look. Exactly one is active at a time.
func (e *Engine) SetLighting(l variant.Lighting) error {
	e.lighting = l
	return nil
}

// SetOrientation sets the absolute object angle in degrees.
func (e *Engine) SetOrientation(angleDeg float64) error {
	e.angleDeg = angleDeg
	return nil
}

// RenderFrame composites the configured scene and returns PNG bytes.
func (e *Engine) RenderFrame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrRenderFailed, err)
	}
	if e.texture == nil {
		return nil, fmt.Errorf("%w: no texture bound", engine.ErrRenderFailed)
	}

	dc := gg.NewContext(e.res, e.res)
	defer dc.Close()
	dc.Clear()

	half := float64(e.res) / 2
	if e.angleDeg != 0 {
		dc.RotateAbout(e.angleDeg*math.Pi/180, half, half)
	}

	dc.DrawImageEx(e.texture, gg.DrawImageOptions{
		DstWidth:      float64(e.res),
		DstHeight:     float64(e.res),
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
	})

	if e.material == variant.MaterialNormal && e.lighting == variant.LightingFancy {
		// Key-light band across the upper third of the frame.
		dc.Identity()
		dc.SetRGBA(1, 1, 1, 0.18)
		dc.DrawRectangle(0, 0, float64(e.res), float64(e.res)/3)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("%w: %v", engine.ErrRenderFailed, err)
		}
	}

	frame := dc.Image()
	if e.material == variant.MaterialMask {
		frame = silhouette(frame)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", engine.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

// ReleaseCaches drops all cached textures. The current binding is also
// released; the next job rebinds before rendering.
func (e *Engine) ReleaseCaches() error {
	e.cache = make(map[string]*gg.ImageBuf)
	e.texture = nil
	return nil
}

// Close releases the engine.
func (e *Engine) Close() error {
	return e.ReleaseCaches()
}

// CachedTextures reports the number of textures currently held. Used by
// diagnostics and tests.
func (e *Engine) CachedTextures() int {
	return len(e.cache)
}

// silhouette maps every pixel with nonzero alpha to opaque white, producing
// the mask render.
func silhouette(src image.Image) image.Image {
	b := src.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := src.At(x, y).RGBA()
			if a > 0 {
				i := out.PixOffset(x, y)
				out.Pix[i+0] = 0xff
				out.Pix[i+1] = 0xff
				out.Pix[i+2] = 0xff
				out.Pix[i+3] = 0xff
			}
		}
	}
	return out
}
