package texture

import (
	"image"
	"os"
	"path/filepath"
	"strings"
)

var nameReplacer = strings.NewReplacer("/", "_", "\\", "_", " ", "_")

// SafeName replaces path separators and spaces in a sprite name so it can be
// used as a file stem.
func SafeName(name string) string {
	return nameReplacer.Replace(name)
}

// SpriteFileName returns the file name of a reconstructed sprite.
func SpriteFileName(name, ext string) string {
	return SafeName(name) + ext
}

// Index maps sanitized sprite stems to reconstructed image files in one
// character directory.
type Index struct {
	entries map[string]string // stem → full path
}

// BuildIndex scans dir for files with extension ext. A missing directory
// yields an empty index.
func BuildIndex(dir, ext string) *Index {
	idx := &Index{entries: make(map[string]string)}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		idx.entries[stem] = filepath.Join(dir, e.Name())
	}

	return idx
}

// ResolvePath returns the filesystem path for a sprite name, or ("", false).
func (idx *Index) ResolvePath(name string) (string, bool) {
	path, ok := idx.entries[SafeName(name)]
	return path, ok
}

// LoadSprite implements Loader.
func (idx *Index) LoadSprite(name string) (*image.NRGBA, error) {
	path, ok := idx.ResolvePath(name)
	if !ok {
		return nil, ErrNotFound
	}
	return Load(path)
}

// Len returns the number of indexed sprites.
func (idx *Index) Len() int {
	return len(idx.entries)
}
