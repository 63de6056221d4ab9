// Package scene owns the single mutable scene state and translates jobs into
// ordered engine configuration calls. No other package mutates the engine's
// scene; the pipeline only issues configuration requests through Apply.
package scene

import (
	"fmt"

	"github.com/backmassage/skinforge/internal/catalog"
	"github.com/backmassage/skinforge/internal/engine"
	"github.com/backmassage/skinforge/internal/variant"
)

// State records the configuration last applied to the engine. There is
// exactly one live State per run, owned by the Configurator.
type State struct {
	TexturePath string
	Material    variant.Material
	Lighting    variant.Lighting
	AngleDeg    float64
	Configured  bool // False until the first successful Apply.
}

// Configurator is the only writer of the scene state.
type Configurator struct {
	eng   engine.Engine
	state State
}

// NewConfigurator returns a configurator driving eng.
func NewConfigurator(eng engine.Engine) *Configurator {
	return &Configurator{eng: eng}
}

// Apply configures the scene for one job, in fixed order: texture binding,
// material set, lighting collection, orientation. Each orientation is set
// absolutely, never relative to the previous job, so no rotation drift can
// accumulate across the batch. On any step failure the state is marked
// unconfigured and the wrapped error carries the job identity.
func (c *Configurator) Apply(job catalog.Job) error {
	c.state.Configured = false

	if err := c.eng.BindTexture(job.Texture.Path); err != nil {
		return fmt.Errorf("configure %s: %w", job, err)
	}
	c.state.TexturePath = job.Texture.Path

	if err := c.eng.SetMaterial(job.Variant.Material); err != nil {
		return fmt.Errorf("configure %s: %w", job, err)
	}
	c.state.Material = job.Variant.Material

	if err := c.eng.SetLighting(job.Variant.Lighting); err != nil {
		return fmt.Errorf("configure %s: %w", job, err)
	}
	c.state.Lighting = job.Variant.Lighting

	angle := job.Variant.AngleDeg()
	if err := c.eng.SetOrientation(angle); err != nil {
		return fmt.Errorf("configure %s: %w", job, err)
	}
	c.state.AngleDeg = angle

	c.state.Configured = true
	return nil
}

// State returns a copy of the current scene state for inspection.
func (c *Configurator) State() State {
	return c.state
}
