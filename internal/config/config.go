package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Config holds all configurable paths and output settings.
type Config struct {
	// Paths
	BaseDir       string `json:"base_dir"`
	BundlesDir    string `json:"bundles_dir"`
	SpritesDir    string `json:"sprites_dir"`
	PortraitsDir  string `json:"portraits_dir"`
	InspectionDir string `json:"inspection_dir"`
	CatalogDB     string `json:"catalog_db"`

	// Output settings
	Format          string  `json:"format"`
	Workers         int     `json:"workers"`
	PlaceholderBody string  `json:"placeholder_body"`
	GIFFPS          float64 `json:"gif_fps"`
	GIFBackground   string  `json:"gif_background"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.DataDir != "" {
		c.BaseDir = flags.DataDir
	}
	if flags.SpritesDir != "" {
		c.SpritesDir = flags.SpritesDir
	}
	if flags.PortraitsDir != "" {
		c.PortraitsDir = flags.PortraitsDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Auto-detect base dir if still empty
	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Resolve relative paths against base dir
	c.BundlesDir = c.path(c.BundlesDir, "bundles")
	c.SpritesDir = c.path(c.SpritesDir, "output")
	c.PortraitsDir = c.path(c.PortraitsDir, "output_portraits")
	c.InspectionDir = c.path(c.InspectionDir, "inspection")
	if c.CatalogDB == "" {
		c.CatalogDB = filepath.Join(c.PortraitsDir, "catalog.db")
	} else {
		c.CatalogDB = c.path(c.CatalogDB, "")
	}

	// Defaults for output settings
	if c.Format == "" {
		c.Format = FormatPNG
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.PlaceholderBody == "" {
		c.PlaceholderBody = "dummy"
	}
	if c.GIFFPS == 0 {
		c.GIFFPS = 4
	}
	if c.GIFBackground == "" {
		c.GIFBackground = "#222222"
	}
}

// Validate reports settings that Resolve cannot repair.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatPNG, FormatWebP:
	default:
		return fmt.Errorf("config: unknown format %q (want %s or %s)", c.Format, FormatPNG, FormatWebP)
	}
	if c.GIFFPS <= 0 {
		return fmt.Errorf("config: gif_fps must be positive, got %g", c.GIFFPS)
	}
	return nil
}

func (c *Config) path(p, def string) string {
	if p == "" {
		p = def
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir      string
	SpritesDir   string
	PortraitsDir string
	Format       string
	Workers      int
}

func detectBaseDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir), filepath.Join(dir, "..", "..")} {
			if isDir(filepath.Join(base, "bundles")) {
				return base
			}
		}
	}

	// Try current working directory, then its parent
	cwd, _ := os.Getwd()
	if isDir(filepath.Join(cwd, "bundles")) {
		return cwd
	}
	if parent := filepath.Dir(cwd); isDir(filepath.Join(parent, "bundles")) {
		return parent
	}

	return cwd
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
