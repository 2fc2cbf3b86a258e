package variant

import (
	"strings"

	"diced-portraits/internal/layers"
)

// Variant tags, in naming order.
const (
	TagRev   = "rev"
	TagExtra = "extra"
	TagBlush = "blush"
)

// Options enables the optional variant axes.
type Options struct {
	Rev   bool
	Extra bool
	Blush bool
}

// All enables every axis.
func All() Options { return Options{Rev: true, Extra: true, Blush: true} }

// Variant is one combination of accessory, extras and cheek choices.
type Variant struct {
	Layers []string // drawn after body and expressions, in order
	Tags   []string
	Mirror bool // flip the finished composite horizontally
}

// Suffix is appended to portrait file names, e.g. "_rev_blush".
func (v Variant) Suffix() string {
	if len(v.Tags) == 0 {
		return ""
	}
	return "_" + strings.Join(v.Tags, "_")
}

// Subdir is the output subdirectory of the variant; "" for the standard one.
func (v Variant) Subdir() string {
	return strings.Join(v.Tags, "_")
}

// Enumerate returns the cross-product of accessory choice × extras × cheek
// for one body. An axis contributes two choices only when it is enabled and
// has layers; the standard variant always comes first.
func Enumerate(parts layers.AddParts, cheek []string, opts Options) []Variant {
	type choice struct {
		layers []string
		tag    string
	}

	acc := []choice{{layers: parts.Standard}}
	if opts.Rev && len(parts.Mirrored) > 0 {
		acc = append(acc, choice{layers: parts.Mirrored, tag: TagRev})
	}
	extras := []choice{{}}
	if opts.Extra && len(parts.Extras) > 0 {
		extras = append(extras, choice{layers: parts.Extras, tag: TagExtra})
	}
	blush := []choice{{}}
	if opts.Blush && len(cheek) > 0 {
		blush = append(blush, choice{layers: cheek, tag: TagBlush})
	}

	out := make([]Variant, 0, len(acc)*len(extras)*len(blush))
	for _, a := range acc {
		for _, e := range extras {
			for _, b := range blush {
				var v Variant
				for _, c := range []choice{a, e, b} {
					v.Layers = append(v.Layers, c.layers...)
					if c.tag != "" {
						v.Tags = append(v.Tags, c.tag)
					}
				}
				v.Mirror = a.tag == TagRev
				out = append(out, v)
			}
		}
	}
	return out
}
