package batch

import (
	"path/filepath"

	"github.com/pkg/errors"

	"diced-portraits/internal/dice"
	"diced-portraits/internal/postprocess"
	"diced-portraits/internal/texture"
)

// ReconstructOptions configures the reconstruct task.
type ReconstructOptions struct {
	OutDir string // sprites land in OutDir/<dir>/
	Format string
}

// Reconstruct rebuilds every logical sprite of a bundle from its atlas and
// saves one image per sprite. Sprites that cannot be rebuilt are skipped
// with a warning.
func Reconstruct(opts ReconstructOptions) Task {
	return func(ctx *BundleContext) (Stats, error) {
		var st Stats
		b := ctx.Bundle
		if len(b.Textures) == 0 {
			return st, errors.Wrap(ErrSkipBundle, "no textures found")
		}

		dir := filepath.Join(opts.OutDir, filepath.FromSlash(ctx.Dir))
		ext := postprocess.Ext(opts.Format)
		seen := make(map[string]bool, len(b.Sprites))

		for _, s := range b.Sprites {
			if s.IsAtlasPreview() || s.VertexCount == 0 || seen[s.Name] {
				st.Skipped++
				continue
			}
			seen[s.Name] = true

			img, err := dice.FromBundle(b, s)
			if err != nil {
				ctx.Log.Logf("WARNING: %v", err)
				st.Skipped++
				continue
			}

			path := filepath.Join(dir, texture.SpriteFileName(s.Name, ext))
			if err := postprocess.Save(path, img, opts.Format); err != nil {
				return st, errors.Wrapf(err, "save %q", s.Name)
			}
			st.Saved++
		}

		ctx.Log.Logf("saved %d sprites, skipped %d", st.Saved, st.Skipped)
		return st, nil
	}
}
