// Package naming derives deterministic artifact names from jobs and checks
// their existence against the authoritative render directory. Artifact names
// are the batch's only persisted state: a resumed run skips exactly the jobs
// whose artifacts are already on disk.
package naming

import (
	"fmt"

	"github.com/backmassage/skinforge/internal/catalog"
)

// ArtifactName returns the output file name for a job:
//
//	{key}_{blade_fancy|blade_flat|mask}_{side}_{suffix}.png
//
// The name is a pure function of the job's fields and is injective over
// distinct (item, texture, variant) tuples, which makes it safe to use as
// the idempotence key.
func ArtifactName(j catalog.Job) string {
	return fmt.Sprintf("%s_%s_%s_%s.png",
		j.Item.Key, j.Variant.Label(), j.Variant.Side, j.Texture.Suffix)
}
