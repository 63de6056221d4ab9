package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into catalog, engine, behavior, display, and utility.
// Negated flags (e.g. --force) are applied after Parse so Config defaults
// hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// args). version is shown in help and --version output.
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("skinforge", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() hold unless the user passes the flag.
	var negated negatedFlags
	var weaponList string

	defineCatalogFlags(fs, &weaponList)
	defineEngineFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "skinforge v"+version)
		os.Exit(0)
	}

	if weaponList != "" {
		weapons := ParseWeaponList(weaponList)
		if weapons == nil {
			return fmt.Errorf("invalid --weapons value %q", weaponList)
		}
		cfg.Weapons = weapons
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. force -> SkipExisting=false) or trigger
// exit (showHelp, showVersion).
type negatedFlags struct {
	force       bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineCatalogFlags registers -w/--weapons.
func defineCatalogFlags(fs *flag.FlagSet, weaponList *string) {
	fs.StringVar(weaponList, "weapons", "", "Comma-separated weapon names (default: built-in catalog)")
	fs.StringVar(weaponList, "w", "", "Same as --weapons")
}

// defineEngineFlags registers -e/--engine, --blend, --blender-bin, --resolution, --samples.
func defineEngineFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&engineModeValue{&cfg.Engine}, "engine", "Render engine: preview | blender")
	fs.Var(&engineModeValue{&cfg.Engine}, "e", "Same as --engine")
	fs.StringVar(&cfg.BlendFile, "blend", "", "Blend file driving the blender engine")
	fs.StringVar(&cfg.BlenderBin, "blender-bin", cfg.BlenderBin, "Blender executable (default: blender)")
	fs.IntVar(&cfg.Resolution, "resolution", cfg.Resolution, "Square render resolution in pixels")
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "Cycles sample count (blender engine)")
}

// defineBehaviorFlags registers dry-run, force, clean-every.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not render")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&n.force, "force", false, "Re-render even when artifacts exist")
	fs.BoolVar(&n.force, "f", false, "Same as --force")
	fs.IntVar(&cfg.CleanInterval, "clean-every", cfg.CleanInterval, "Release engine caches every N completed weapons")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg
// (e.g. force -> SkipExisting=false).
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.force {
		cfg.SkipExisting = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets TextureDir and RenderDir from the two positional
// args when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("need exactly texture_dir and render_dir")
	}
	cfg.TextureDir = NormalizeDirArg(args[0])
	cfg.RenderDir = NormalizeDirArg(args[1])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "SkinForge v" + version + " — batch weapon skin renderer"},
		{"", ""},
		{"  skinforge [OPTIONS] <texture_dir> <render_dir>", ""},
		{"", ""},
		{"Catalog", ""},
		{"  -w, --weapons <a,b,c>", "Weapon names to process (default: built-in list)"},
		{"", ""},
		{"Engine", ""},
		{"  -e, --engine <preview|blender>", "Render engine (default: preview)"},
		{"  --blend <file>", "Blend file for the blender engine"},
		{"  --blender-bin <path>", "Blender executable (default: blender)"},
		{"  --resolution <px>", "Square render resolution (default: 1024)"},
		{"  --samples <n>", "Cycles samples, blender engine (default: 1024)"},
		{"", ""},
		{"Behavior", ""},
		{"  -f, --force", "Re-render even when artifacts exist"},
		{"  -d, --dry-run", "Preview only; do not render"},
		{"  --clean-every <n>", "Release engine caches every N weapons (default: 3)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (engine, directories)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so we can use the EngineMode enum with flag.Var.

type engineModeValue struct{ p *EngineMode }

func (e *engineModeValue) String() string {
	if e.p == nil {
		return ""
	}
	return string(*e.p)
}

func (e *engineModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "preview":
		*e.p = EnginePreview
	case "blender":
		*e.p = EngineBlender
	default:
		return fmt.Errorf("invalid engine %q (use 'preview' or 'blender')", s)
	}
	return nil
}
