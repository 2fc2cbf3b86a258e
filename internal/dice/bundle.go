package dice

import (
	"image"

	"github.com/pkg/errors"

	"diced-portraits/internal/bundle"
)

// ErrMissingTexture is returned when a sprite's atlas cannot be decoded.
var ErrMissingTexture = errors.New("dice: atlas texture missing")

// FromBundle reconstructs s using the atlas it references in b.
func FromBundle(b *bundle.Bundle, s bundle.Sprite) (*image.NRGBA, error) {
	atlas, err := b.DecodeTexture(s.Texture)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingTexture, "sprite %q: %v", s.Name, err)
	}
	return Reconstruct(atlas, s)
}

// Loader returns a function that reconstructs sprites of b by name on
// demand. Atlas previews are never returned.
func Loader(b *bundle.Bundle) func(name string) (*image.NRGBA, error) {
	return func(name string) (*image.NRGBA, error) {
		s, ok := b.Sprite(name)
		if !ok || s.IsAtlasPreview() {
			return nil, errors.Errorf("dice: sprite %q not in bundle %s", name, b.Name)
		}
		return FromBundle(b, s)
	}
}
