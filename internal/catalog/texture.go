package catalog

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Registered for texture header validation via image.DecodeConfig.
	_ "image/jpeg"
	_ "image/png"
)

// Accepted source texture extensions (lowercase, with leading dot).
var textureExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// SourceTexture is one input image discovered under an item's texture folder.
// Read-only after discovery.
type SourceTexture struct {
	Path   string // Full path to the image file.
	Stem   string // Filename without extension, e.g. "damascus_103".
	Suffix string // Derived variant id: the last "_"-separated token of Stem.
}

// Suffix derives the texture variant id from a file stem. For stems without
// an underscore the whole stem is the suffix ("damascus_103" -> "103",
// "plain" -> "plain").
func Suffix(stem string) string {
	if i := strings.LastIndex(stem, "_"); i >= 0 {
		return stem[i+1:]
	}
	return stem
}

// Textures lists the item's source textures in sorted filename order, which
// keeps discovery order stable within a run. Subdirectories and files with
// other extensions are ignored. An empty result is not an error.
func Textures(item Item) ([]SourceTexture, error) {
	entries, err := os.ReadDir(item.TextureDir)
	if err != nil {
		return nil, fmt.Errorf("list textures for %s: %w", item.Name, err)
	}

	var out []SourceTexture
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !textureExtensions[ext] {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		out = append(out, SourceTexture{
			Path:   filepath.Join(item.TextureDir, e.Name()),
			Stem:   stem,
			Suffix: Suffix(stem),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Inspect validates that the texture file is a decodable image and returns
// its dimensions. Used at enumeration time so a corrupt texture skips its
// jobs with a diagnostic instead of failing six renders one by one.
func Inspect(t SourceTexture) (width, height int, err error) {
	f, err := os.Open(t.Path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", filepath.Base(t.Path), err)
	}
	return cfg.Width, cfg.Height, nil
}
