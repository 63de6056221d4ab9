// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Defaults match the legacy Blender export script for parity.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// EngineMode selects the render engine backend.
type EngineMode string

const (
	EnginePreview EngineMode = "preview" // In-process software renderer (default).
	EngineBlender EngineMode = "blender" // External Blender process per frame.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultCatalog is the weapon list processed when --weapons is not given.
// Order is preserved through the whole run. Each entry needs a texture folder
// named "weapon_<key>" (lowercase, spaces removed) under the texture dir.
var DefaultCatalog = []string{
	"Karambit", "Bayonet", "Bowie", "Butterfly", "Survival", "Classic",
	"Falchion", "Flip", "Gut", "Kukri", "M9", "Navaja", "Nomad", "Paracord",
	"Shadowdaggers", "Skeleton", "Stiletto", "Huntsman", "Talon", "Ursus",
	"AK-47", "Five-Seven",
}

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths (set from positional args).
	TextureDir string
	RenderDir  string

	// Catalog.
	Weapons []string // Default: DefaultCatalog. Overridden by --weapons.

	// Engine settings.
	Engine     EngineMode // Default: "preview".
	BlenderBin string     // Default: "blender". Used in blender mode.
	BlendFile  string     // Required in blender mode (--blend).
	Resolution int        // Default: 1024. Square output in preview mode.
	Samples    int        // Default: 1024. Cycles samples in blender mode.

	// Behavior flags.
	DryRun        bool
	SkipExisting  bool // Default: true. Cleared by --force.
	CleanInterval int  // Default: 3. Cache release cadence in completed items.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults matching the legacy export
// script. Used as the base before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Weapons:       append([]string(nil), DefaultCatalog...),
		Engine:        EnginePreview,
		BlenderBin:    "blender",
		Resolution:    1024,
		Samples:       1024,
		DryRun:        false,
		SkipExisting:  true,
		CleanInterval: 3,
		Verbose:       false,
		ColorMode:     ColorAuto,
		CheckOnly:     false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges. When not in CheckOnly mode
// it also requires both positional directory paths and, in blender mode, a
// blend file.
func (c *Config) Validate() error {
	switch c.Engine {
	case EnginePreview, EngineBlender:
		// valid
	default:
		return errors.New("invalid engine (use 'preview' or 'blender')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CleanInterval < 1 {
		return fmt.Errorf("clean interval must be at least 1 (got %d)", c.CleanInterval)
	}
	if c.Resolution < 16 || c.Resolution > 16384 {
		return fmt.Errorf("resolution must be between 16 and 16384 (got %d)", c.Resolution)
	}
	if len(c.Weapons) == 0 {
		return errors.New("weapon catalog must not be empty")
	}

	if c.Engine == EngineBlender && c.BlendFile == "" {
		return errors.New("blender engine needs --blend <file.blend>")
	}

	if c.CheckOnly {
		return nil
	}
	if c.TextureDir == "" || c.RenderDir == "" {
		return errors.New("need exactly texture_dir and render_dir")
	}
	return nil
}

// ValidatePaths ensures the resolved render directory is not inside (or equal
// to) the resolved texture directory. This prevents rendered artifacts from
// being discovered as source textures on a later run. Both arguments must be
// absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(textureAbs, renderAbs string) error {
	sep := string(filepath.Separator)
	if renderAbs == textureAbs || strings.HasPrefix(renderAbs+sep, textureAbs+sep) {
		return errors.New("render directory must not be inside texture directory")
	}
	return nil
}

// ParseWeaponList splits a comma-separated --weapons value, trimming spaces
// and dropping empty entries. Returns nil for an all-empty input.
func ParseWeaponList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
