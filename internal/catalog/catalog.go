// Package catalog enumerates the work for a batch run: the ordered weapon
// catalog, each weapon's source textures, and the per-texture job list.
package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

// texturePrefix is the directory name prefix for a weapon's texture folder,
// e.g. "weapon_karambit" for the Karambit.
const texturePrefix = "weapon_"

// Item is one catalog entry. Immutable for the run.
type Item struct {
	Name       string // Display name as listed in the catalog, e.g. "Five-Seven".
	Key        string // Lowercase name with spaces removed; used in paths and artifact names.
	TextureDir string // Absolute or base-relative path to the item's texture folder.
}

// Key converts a weapon name to its folder/artifact key: lowercase with
// spaces removed ("M9 Bayonet" -> "m9bayonet").
func Key(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

// Resolve maps catalog names to Items with existing texture folders under
// textureBase, preserving catalog order. Names whose folder does not exist
// (or is not a directory) are returned in missing for diagnostic reporting;
// they yield no jobs but are not an error.
func Resolve(names []string, textureBase string) (items []Item, missing []string) {
	for _, name := range names {
		key := Key(name)
		dir := filepath.Join(textureBase, texturePrefix+key)
		fi, err := os.Stat(dir)
		if err != nil || !fi.IsDir() {
			missing = append(missing, name)
			continue
		}
		items = append(items, Item{Name: name, Key: key, TextureDir: dir})
	}
	return items, missing
}
