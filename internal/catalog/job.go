package catalog

import "github.com/backmassage/skinforge/internal/variant"

// Job is the unit of work: one (item, texture, variant) tuple. Immutable once
// constructed; it owns no resources, only references.
type Job struct {
	Item    Item
	Texture SourceTexture
	Variant variant.Variant
}

// Jobs expands one source texture into its six render jobs in canonical
// variant order.
func Jobs(item Item, tex SourceTexture) []Job {
	variants := variant.All()
	out := make([]Job, 0, len(variants))
	for _, v := range variants {
		out = append(out, Job{Item: item, Texture: tex, Variant: v})
	}
	return out
}

// String returns the job identity used in diagnostics, e.g.
// "Karambit/damascus_103/mask/playside".
func (j Job) String() string {
	return j.Item.Name + "/" + j.Texture.Stem + "/" + j.Variant.String()
}
