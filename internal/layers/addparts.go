package layers

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"diced-portraits/internal/hierarchy"
)

const mirroredSuffix = "_addrev"

var (
	extraRe      = regexp.MustCompile(`_add\d+$`)
	baseFamilyRe = regexp.MustCompile(`^(base|b[0-9x])$`)
)

// PartKind says which list an accessory sprite belongs to.
type PartKind int

const (
	Standard PartKind = iota // always drawn
	Mirrored                 // alternative to Standard, output is mirrored
	Extra                    // optional numbered overlay
)

// ClassifyPart assigns an accessory sprite name to exactly one list.
func ClassifyPart(name string) PartKind {
	switch {
	case strings.HasSuffix(name, mirroredSuffix):
		return Mirrored
	case extraRe.MatchString(name):
		return Extra
	default:
		return Standard
	}
}

// AddParts are the accessory sprites of one body.
type AddParts struct {
	Standard []string
	Mirrored []string
	Extras   []string
}

// All returns every accessory sprite name of the body.
func (a AddParts) All() []string {
	out := make([]string, 0, len(a.Standard)+len(a.Mirrored)+len(a.Extras))
	out = append(out, a.Standard...)
	out = append(out, a.Mirrored...)
	return append(out, a.Extras...)
}

// Accessories holds every accessory family of a bundle plus the shared
// cheek overlay.
type Accessories struct {
	Families map[string]AddParts
	Cheek    []string
}

// For returns the accessory lists of body. Unknown bodies get empty lists.
func (a Accessories) For(body string) AddParts {
	return a.Families[body]
}

// CheekFor returns the cheek overlay layers body may receive.
func (a Accessories) CheekFor(body string) []string {
	if !IsBaseFamily(body) {
		return nil
	}
	return a.Cheek
}

// IsBaseFamily reports whether body is front-facing enough for the cheek
// overlay: base, b0-b9 and bx.
func IsBaseFamily(body string) bool {
	return baseFamilyRe.MatchString(body)
}

// DeriveAccessories walks the accessory root: each child is a family named
// after a body, each grandchild an accessory sprite.
func DeriveAccessories(t *hierarchy.Tree) (Accessories, error) {
	acc := Accessories{Families: make(map[string]AddParts)}

	root, err := t.Lookup(AccessoryRoot)
	if errors.Is(err, hierarchy.ErrNotFound) {
		return acc, nil
	}
	if err != nil {
		return acc, err
	}

	for _, family := range t.Children(root) {
		if family.Name == CheekFamily {
			for _, s := range t.Children(family.ID) {
				if !contains(acc.Cheek, s.Name) {
					acc.Cheek = append(acc.Cheek, s.Name)
				}
			}
			continue
		}

		var parts AddParts
		for _, s := range t.Children(family.ID) {
			switch ClassifyPart(s.Name) {
			case Mirrored:
				parts.Mirrored = append(parts.Mirrored, s.Name)
			case Extra:
				parts.Extras = append(parts.Extras, s.Name)
			default:
				parts.Standard = append(parts.Standard, s.Name)
			}
		}
		acc.Families[family.Name] = parts
	}

	return acc, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
