// Package config loads the ots.toml settings shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
)

// DefaultFile is the config file looked up in the working directory
const DefaultFile = "ots.toml"

// Config controls netlist resolution and simulation.
type Config struct {
	Spice   Spice   `toml:"spice"`
	Netlist Netlist `toml:"netlist"`
	Sim     Sim     `toml:"sim"`
}

// Spice settings for circuit assembly
type Spice struct {
	LibraryPaths  []string `toml:"library_paths"`  // Directories scanned for models, in order
	Title         string   `toml:"title"`          // Circuit title; defaults to the schematic title
	LenientModels bool     `toml:"lenient_models"` // Drop components with unresolved models
}

// Netlist settings for node resolution
type Netlist struct {
	PowerPrefix      string `toml:"power_prefix"`
	MechanicalPrefix string `toml:"mechanical_prefix"`
}

// Sim settings for the ngspice runner
type Sim struct {
	Ngspice string `toml:"ngspice"`  // Executable name or path
	WorkDir string `toml:"work_dir"` // Parent of temporary run directories
}

// Default returns a Config with the KiCad library prefixes and ngspice on
// the PATH.
func Default() *Config {
	return &Config{
		Netlist: Netlist{
			PowerPrefix:      schematic.PowerPrefix,
			MechanicalPrefix: schematic.MechanicalPrefix,
		},
		Sim: Sim{
			Ngspice: "ngspice",
		},
	}
}

// Load reads a config file over the defaults. An empty path looks for
// ots.toml in the working directory and falls back to the defaults when
// it does not exist. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	// Library paths are relative to the config file
	base := filepath.Dir(path)
	for i, p := range cfg.Spice.LibraryPaths {
		if p != "" && !filepath.IsAbs(p) {
			cfg.Spice.LibraryPaths[i] = filepath.Join(base, p)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration and drops empty library paths.
func (c *Config) Validate() error {
	paths := c.Spice.LibraryPaths[:0]
	for _, p := range c.Spice.LibraryPaths {
		if strings.TrimSpace(p) != "" {
			paths = append(paths, p)
		}
	}
	c.Spice.LibraryPaths = paths

	if c.Sim.Ngspice == "" {
		return errors.New("sim.ngspice must not be empty")
	}
	if c.Netlist.PowerPrefix != "" && c.Netlist.PowerPrefix == c.Netlist.MechanicalPrefix {
		return fmt.Errorf("netlist.power_prefix and netlist.mechanical_prefix are both %q", c.Netlist.PowerPrefix)
	}
	return nil
}
