package hierarchy

import (
	"github.com/pkg/errors"

	"diced-portraits/internal/bundle"
)

// Positions maps node names to world positions. Duplicates lists names that
// appeared more than once; the first node in traversal order was kept.
type Positions struct {
	World      map[string]Point
	Duplicates []string
}

// Collect adds the world positions of the descendants of root, walking depth
// levels of children in record order.
func (t *Tree) Collect(p *Positions, root int64, depth int) error {
	if p.World == nil {
		p.World = make(map[string]Point)
	}
	if depth <= 0 {
		return nil
	}

	for _, c := range t.Children(root) {
		if _, seen := p.World[c.Name]; seen {
			p.Duplicates = append(p.Duplicates, c.Name)
		} else {
			wp, err := t.WorldPosition(c.ID)
			if err != nil {
				return errors.Wrapf(err, "position of %q", c.Name)
			}
			p.World[c.Name] = wp
		}
		if err := t.Collect(p, c.ID, depth-1); err != nil {
			return err
		}
	}
	return nil
}

// SpriteRects combines each sprite's local rect with the world position of
// its node. Sprites with no positioned node sit at the origin. Atlas preview
// sprites and rects with negative dimensions are left out.
func SpriteRects(sprites []bundle.Sprite, world map[string]Point) map[string]bundle.Rect {
	rects := make(map[string]bundle.Rect, len(sprites))
	for _, s := range sprites {
		if s.IsAtlasPreview() || s.Rect.W < 0 || s.Rect.H < 0 {
			continue
		}
		wp := world[s.Name]
		rects[s.Name] = bundle.Rect{
			X: wp.X + s.Rect.X,
			Y: wp.Y + s.Rect.Y,
			W: s.Rect.W,
			H: s.Rect.H,
		}
	}
	return rects
}
