package blender

import (
	"fmt"

	"github.com/backmassage/skinforge/internal/variant"
)

// Scene conventions inherited from the legacy export rig. The blend file must
// provide these names; the python expression raises tagged errors when they
// are absent so stderr classification stays deterministic.
const (
	// imageSlotNode is the shader node that receives the bound texture on
	// every material that uses it.
	imageSlotNode = "Image Texture.003"

	// Lighting collection names. Exactly one is render-enabled per frame.
	fancyCollection = "lighting_fancy"
	flatCollection  = "lighting_flat"

	// maskMaterialSuffix identifies the mask material by name; the legacy
	// rig names it weapon_knife_karambit_blade_mask.
	maskMaterialSuffix = "_blade_mask"
)

// frameSpec is one frame's scene configuration, serialized into the python
// expression of a single Blender invocation.
type frameSpec struct {
	TexturePath string
	Material    variant.Material
	Lighting    variant.Lighting
	AngleDeg    float64
	OutputPath  string
}

// BuildArgs builds the Blender command line for one frame: background mode,
// the rig blend file, and a python expression that applies the frame's scene
// configuration and renders. Exposed for tests.
func BuildArgs(opts Options, f frameSpec) []string {
	return []string{
		opts.Bin,
		"-b", opts.BlendFile,
		"--python-exit-code", "1",
		"--python-expr", pythonExpr(opts, f),
	}
}

// pythonExpr serializes the frame configuration into the expression Blender
// executes. Error messages raised here are matched by Classify; keep them in
// sync with errors.go.
func pythonExpr(opts Options, f frameSpec) string {
	useMask := "False"
	if f.Material == variant.MaterialMask {
		useMask = "True"
	}
	active, inactive := fancyCollection, flatCollection
	if f.Lighting == variant.LightingFlat {
		active, inactive = flatCollection, fancyCollection
	}

	return fmt.Sprintf(`import bpy, math
scene = bpy.context.scene
scene.render.engine = 'CYCLES'
scene.render.image_settings.file_format = 'PNG'
scene.render.image_settings.color_mode = 'RGBA'
scene.render.film_transparent = True
scene.render.resolution_x = %d
scene.render.resolution_y = %d
scene.render.resolution_percentage = 100
scene.cycles.samples = %d
img = bpy.data.images.load(%q, check_existing=True)
bound = False
for mat in bpy.data.materials:
    if not mat.use_nodes or not mat.node_tree:
        continue
    node = mat.node_tree.nodes.get(%q)
    if node is not None:
        node.image = img
        bound = True
if not bound:
    raise RuntimeError('image slot %s not found')
active = bpy.data.collections.get(%q)
inactive = bpy.data.collections.get(%q)
if active is None:
    raise RuntimeError('lighting collection %s not found')
if inactive is not None:
    inactive.hide_render = True
    inactive.hide_viewport = True
active.hide_render = False
active.hide_viewport = False
if %s:
    mask = next((m for m in bpy.data.materials if m.name.endswith(%q)), None)
    if mask is None:
        raise RuntimeError('mask material not found')
    for obj in scene.objects:
        if obj.type != 'MESH' or not obj.data.materials:
            continue
        if any(m and 'blade' in m.name.lower() for m in obj.data.materials):
            for i in range(len(obj.data.materials)):
                obj.data.materials[i] = mask
for obj in scene.objects:
    if obj.type != 'MESH' or obj.parent is not None:
        continue
    obj.rotation_mode = 'XYZ'
    obj.rotation_euler = (0.0, 0.0, math.radians(%g))
bpy.context.view_layer.update()
scene.render.filepath = %q
bpy.ops.render.render(write_still=True)
`,
		opts.Resolution, opts.Resolution, opts.Samples,
		f.TexturePath,
		imageSlotNode, imageSlotNode,
		active, inactive, active,
		useMask, maskMaterialSuffix,
		f.AngleDeg,
		f.OutputPath,
	)
}
