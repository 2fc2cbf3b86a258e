package bundle

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"diced-portraits/internal/texture"
)

// Loader loads one bundle from a path.
type Loader interface {
	Load(path string) (*Bundle, error)
}

// JSONLoader reads bundles extracted to JSON, one file per bundle. Texture
// images are referenced relative to the bundle file.
type JSONLoader struct{}

// Load implements Loader.
func (JSONLoader) Load(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "bundle: read %s", path)
	}

	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "bundle: parse %s", path)
	}

	return &Bundle{
		Name:     Name(path),
		Path:     path,
		Nodes:    f.Nodes,
		Sprites:  f.Sprites,
		Textures: f.Textures,
		Metadata: f.Metadata,
		dir:      filepath.Dir(path),
	}, nil
}

// Name returns the bundle name for a bundle file path.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DecodeTexture returns the decoded atlas of texture id. Each atlas is
// decoded at most once per bundle.
func (b *Bundle) DecodeTexture(id int64) (*image.NRGBA, error) {
	b.mu.Lock()
	img, ok := b.atlases[id]
	b.mu.Unlock()
	if ok {
		return img, nil
	}

	t, ok := b.Texture(id)
	if !ok {
		return nil, errors.Errorf("bundle: texture %d not found", id)
	}
	if t.Image == "" {
		return nil, errors.Errorf("bundle: texture %d (%s) has no image", id, t.Name)
	}

	path := t.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.dir, path)
	}
	img, err := texture.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "bundle: texture %d (%s)", id, t.Name)
	}

	size := img.Bounds().Size()
	if (t.Width > 0 && size.X != t.Width) || (t.Height > 0 && size.Y != t.Height) {
		return nil, errors.Errorf("bundle: texture %d (%s) is %dx%d, want %dx%d",
			id, t.Name, size.X, size.Y, t.Width, t.Height)
	}

	b.AttachTexture(id, img)
	return img, nil
}

var charCodeRe = regexp.MustCompile(`^dice_([a-z]+)`)

// CharCode derives the character code from the dicing atlas name, checking
// sprites first and then textures. It falls back to the bundle name.
func (b *Bundle) CharCode() string {
	for _, s := range b.Sprites {
		if m := charCodeRe.FindStringSubmatch(s.Name); m != nil {
			return m[1]
		}
	}
	for _, t := range b.Textures {
		if m := charCodeRe.FindStringSubmatch(t.Name); m != nil {
			return m[1]
		}
	}
	return b.Name
}
