package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"base_dir": "`+filepath.ToSlash(dir)+`",
		"sprites_dir": "sprites",
		"portraits_dir": "/abs/portraits",
		"format": "webp",
		"workers": 3
	}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Resolve(Flags{})

	assert.Equal(t, filepath.Join(dir, "bundles"), cfg.BundlesDir)
	assert.Equal(t, filepath.Join(dir, "sprites"), cfg.SpritesDir)
	assert.Equal(t, "/abs/portraits", cfg.PortraitsDir)
	assert.Equal(t, filepath.Join(dir, "inspection"), cfg.InspectionDir)
	assert.Equal(t, filepath.Join("/abs/portraits", "catalog.db"), cfg.CatalogDB)
	assert.Equal(t, FormatWebP, cfg.Format)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "dummy", cfg.PlaceholderBody)
	assert.Equal(t, 4.0, cfg.GIFFPS)
	assert.Equal(t, "#222222", cfg.GIFBackground)
	assert.NoError(t, cfg.Validate())
}

func TestFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Format: "webp", Workers: 2}
	cfg.Resolve(Flags{DataDir: dir, PortraitsDir: "out", SpritesDir: "spr", Format: "png", Workers: 9})

	assert.Equal(t, dir, cfg.BaseDir)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.PortraitsDir)
	assert.Equal(t, filepath.Join(dir, "spr"), cfg.SpritesDir)
	assert.Equal(t, filepath.Join(dir, "out", "catalog.db"), cfg.CatalogDB)
	assert.Equal(t, FormatPNG, cfg.Format)
	assert.Equal(t, 9, cfg.Workers)
	assert.Positive(t, cfg.Workers)
}

func TestValidate(t *testing.T) {
	cfg := Config{BaseDir: t.TempDir(), Format: "gif"}
	cfg.Resolve(Flags{})
	assert.Error(t, cfg.Validate())

	cfg = Config{BaseDir: t.TempDir(), GIFFPS: -1}
	cfg.Resolve(Flags{})
	assert.Error(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
