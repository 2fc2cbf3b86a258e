package layers

import (
	"github.com/pkg/errors"

	"diced-portraits/internal/hierarchy"
)

// ExprSet maps expression bases to their frame tags. Bases and frames keep
// the order in which they were first seen.
type ExprSet struct {
	bases  []string
	frames map[string][]string
}

// NewExprSet returns an empty set.
func NewExprSet() *ExprSet {
	return &ExprSet{frames: make(map[string][]string)}
}

// Add records frame for base.
func (s *ExprSet) Add(base, frame string) {
	if _, ok := s.frames[base]; !ok {
		s.bases = append(s.bases, base)
	}
	s.frames[base] = append(s.frames[base], frame)
}

// Bases returns the expression bases in first-seen order.
func (s *ExprSet) Bases() []string {
	if s == nil {
		return nil
	}
	return s.bases
}

// Frames returns the frame tags of base in source order.
func (s *ExprSet) Frames(base string) []string {
	if s == nil {
		return nil
	}
	return s.frames[base]
}

// Len returns the number of bases.
func (s *ExprSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bases)
}

// Group is a run of bodies sharing the expressions that follow them.
type Group struct {
	Bodies []string
	Eyes   *ExprSet
	Mouths *ExprSet
}

// DeriveGroups walks the children of the top node once, left to right. A
// body arriving after expressions closes the current group; groups without
// bodies are dropped. A bundle without a top node has no groups.
func DeriveGroups(t *hierarchy.Tree, c *Classifier) ([]Group, error) {
	top, err := t.Lookup(TopNode)
	if errors.Is(err, hierarchy.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var groups []Group
	cur := Group{Eyes: NewExprSet(), Mouths: NewExprSet()}
	flush := func() {
		if len(cur.Bodies) > 0 {
			groups = append(groups, cur)
		}
		cur = Group{Eyes: NewExprSet(), Mouths: NewExprSet()}
	}

	for _, child := range t.Children(top) {
		cl := c.Classify(child.Name)
		switch cl.Kind {
		case Body:
			if cur.Eyes.Len() > 0 || cur.Mouths.Len() > 0 {
				flush()
			}
			cur.Bodies = append(cur.Bodies, child.Name)
		case EyeExpr:
			cur.Eyes.Add(cl.Base, cl.Frame)
		case MouthExpr:
			cur.Mouths.Add(cl.Base, cl.Frame)
		}
	}
	flush()

	return groups, nil
}

// Positions collects world positions of everything a portrait may draw:
// the children of the top node and the accessory sprites. Accessory family
// nodes share their body's name and are not collected themselves.
func Positions(t *hierarchy.Tree) (hierarchy.Positions, error) {
	p := hierarchy.Positions{World: make(map[string]hierarchy.Point)}

	if top, err := t.Lookup(TopNode); err == nil {
		if err := t.Collect(&p, top, 1); err != nil {
			return p, err
		}
	} else if !errors.Is(err, hierarchy.ErrNotFound) {
		return p, err
	}

	root, err := t.Lookup(AccessoryRoot)
	if errors.Is(err, hierarchy.ErrNotFound) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	for _, family := range t.Children(root) {
		if err := t.Collect(&p, family.ID, 1); err != nil {
			return p, err
		}
	}
	return p, nil
}
