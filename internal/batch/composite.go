package batch

import (
	"image"
	"path"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"diced-portraits/internal/bundle"
	"diced-portraits/internal/catalog"
	"diced-portraits/internal/hierarchy"
	"diced-portraits/internal/layers"
	"diced-portraits/internal/portrait"
	"diced-portraits/internal/postprocess"
	"diced-portraits/internal/variant"
)

// CompositeOptions configures the composite task.
type CompositeOptions struct {
	OutDir          string // portraits land in OutDir/<dir>/[variant/]
	Format          string
	Variants        variant.Options
	PlaceholderBody string
	Catalog         *catalog.Catalog // optional
}

// Composite builds every portrait of a bundle from its reconstructed
// sprites.
func Composite(opts CompositeOptions) Task {
	return func(ctx *BundleContext) (Stats, error) {
		var st Stats
		b := ctx.Bundle

		bodies, err := b.BodyParameters()
		if errors.Is(err, bundle.ErrNoBodyParameters) {
			return st, errors.Wrap(ErrSkipBundle, "no bodyParameters found")
		}
		if err != nil {
			return st, err
		}

		tree := hierarchy.New(b.Nodes)
		groups, err := layers.DeriveGroups(tree, layers.NewClassifier(bodies))
		if err != nil {
			return st, errors.Wrap(err, "derive groups")
		}
		acc, err := layers.DeriveAccessories(tree)
		if err != nil {
			return st, errors.Wrap(err, "derive accessories")
		}
		pos, err := layers.Positions(tree)
		if err != nil {
			return st, errors.Wrap(err, "resolve positions")
		}
		for _, name := range pos.Duplicates {
			ctx.Log.Logf("WARNING: duplicate node name %q, using the first", name)
		}

		planner := &portrait.Planner{
			Rects:           hierarchy.SpriteRects(b.Sprites, pos.World),
			Accessories:     acc,
			Options:         opts.Variants,
			PlaceholderBody: opts.PlaceholderBody,
		}

		outDir := filepath.Join(opts.OutDir, filepath.FromSlash(ctx.Dir))
		// Catalog paths are relative to the character directory.
		sub := strings.TrimPrefix(strings.TrimPrefix(ctx.Dir, ctx.Char), "/")
		ext := postprocess.Ext(opts.Format)
		missing := make(map[string]bool)

		for gi, g := range groups {
			plans, skipped := planner.PlanGroup(g)
			for _, body := range skipped {
				ctx.Log.Logf("WARNING: body %q skipped: no rect or empty canvas", body)
				st.Skipped++
			}

			for _, plan := range plans {
				for _, job := range plan.Jobs {
					var img image.Image = portrait.Composite(job.Layers, planner.Rects, plan.Canvas, ctx.Images)
					if job.Mirror {
						img = postprocess.Mirror(img)
					}
					for _, l := range job.Layers {
						if !missing[l] && ctx.Images.Missing(l) {
							missing[l] = true
							ctx.Log.Logf("WARNING: no image for layer %q", l)
						}
					}

					rel := path.Join(job.Dir, job.Name+ext)
					if err := postprocess.Save(filepath.Join(outDir, filepath.FromSlash(rel)), img, opts.Format); err != nil {
						return st, errors.Wrapf(err, "save %s", rel)
					}
					st.Saved++

					if opts.Catalog != nil {
						size := img.Bounds().Size()
						err := opts.Catalog.Put(catalog.Entry{
							Bundle:   b.Name,
							Char:     ctx.Char,
							Body:     job.Body,
							Core:     job.Core,
							Variant:  job.Variant,
							Mirrored: job.Mirror,
							Width:    size.X,
							Height:   size.Y,
							Path:     path.Join(sub, rel),
						})
						if err != nil {
							return st, err
						}
					}
				}
				ctx.Log.Logf("body %s: %d portrait(s)", plan.Body, len(plan.Jobs))
			}
			ctx.Log.Logf("group %d/%d (%s) done", gi+1, len(groups), strings.Join(g.Bodies, "+"))
		}
		glog.V(2).Infof("%s: %d sprite lookup(s), %d missing", b.Name, ctx.Images.Len(), len(missing))

		ctx.Log.Logf("total saved: %d portrait(s), %d body(ies) skipped", st.Saved, st.Skipped)
		return st, nil
	}
}
