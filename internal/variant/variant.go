// Package variant defines the closed set of render configurations produced
// for every source texture: material × lighting × side, excluding the invalid
// mask/fancy combination (mask renders only ever use flat lighting).
package variant

// Material selects which material set is bound before rendering.
type Material string

const (
	MaterialNormal Material = "blade" // The weapon's normal skin materials.
	MaterialMask   Material = "mask"  // The flat silhouette mask material.
)

// Lighting selects which lighting collection is active.
type Lighting string

const (
	LightingFancy Lighting = "fancy"
	LightingFlat  Lighting = "flat"
)

// Side selects the object orientation.
type Side string

const (
	SidePlayside Side = "playside" // 0° about the fixed axis.
	SideBackside Side = "backside" // 180° about the fixed axis.
)

// Variant is one render configuration. The zero value is not valid; use the
// entries from [All].
type Variant struct {
	Material Material
	Lighting Lighting
	Side     Side
}

// canonical is the fixed render order. Mask never pairs with fancy lighting.
var canonical = []Variant{
	{MaterialNormal, LightingFancy, SidePlayside},
	{MaterialNormal, LightingFancy, SideBackside},
	{MaterialNormal, LightingFlat, SidePlayside},
	{MaterialNormal, LightingFlat, SideBackside},
	{MaterialMask, LightingFlat, SidePlayside},
	{MaterialMask, LightingFlat, SideBackside},
}

// All returns the six variants in canonical render order. The returned slice
// is a copy; callers may reorder it freely.
func All() []Variant {
	return append([]Variant(nil), canonical...)
}

// Count is the number of artifacts produced per source texture.
const Count = 6

// Label returns the collapsed material/lighting label used in artifact names:
// "blade_fancy", "blade_flat", or "mask". Mask is never suffixed with its
// lighting because it is always flat.
func (v Variant) Label() string {
	if v.Material == MaterialMask {
		return "mask"
	}
	return string(v.Material) + "_" + string(v.Lighting)
}

// AngleDeg returns the absolute object orientation for this variant about the
// fixed axis. Orientation is always set absolutely, never relative to the
// previous job, so no drift accumulates across a run.
func (v Variant) AngleDeg() float64 {
	if v.Side == SideBackside {
		return 180
	}
	return 0
}

// String returns a human-readable identity like "blade_fancy/playside".
func (v Variant) String() string {
	return v.Label() + "/" + string(v.Side)
}
