// Package hierarchy resolves flat transform records into a tree of named
// nodes with world-space positions.
//
// Nodes live in an arena indexed by position; record ids are mapped onto
// arena slots once at construction. World positions are resolved iteratively
// and memoized per node, so a malformed parent chain that loops is reported
// as ErrCycle instead of recursing forever.
//
// A Tree is not safe for concurrent use: memoization mutates it. Each bundle
// builds and owns its own Tree.
package hierarchy

import (
	"github.com/pkg/errors"

	"diced-portraits/internal/bundle"
)

var (
	ErrNotFound      = errors.New("hierarchy: node not found")
	ErrDuplicateName = errors.New("hierarchy: duplicate node name")
	ErrCycle         = errors.New("hierarchy: parent cycle")
)

// Point is a world-space position.
type Point struct {
	X, Y float64
}

// Child is one entry of a node's ordered child list.
type Child struct {
	ID   int64
	Name string
}

type node struct {
	rec    bundle.Node
	parent int // arena slot of the parent, -1 for roots and unresolved parents

	resolved bool
	world    Point
}

// Tree is the resolved node arena of one bundle.
type Tree struct {
	arena  []node
	index  map[int64]int
	byName map[string][]int
}

// New builds a tree from hierarchy records. Records keep their input order;
// a repeated id keeps its first record.
func New(records []bundle.Node) *Tree {
	t := &Tree{
		arena:  make([]node, 0, len(records)),
		index:  make(map[int64]int, len(records)),
		byName: make(map[string][]int),
	}

	for _, rec := range records {
		if _, dup := t.index[rec.ID]; dup {
			continue
		}
		t.index[rec.ID] = len(t.arena)
		t.arena = append(t.arena, node{rec: rec, parent: -1})
		t.byName[rec.Name] = append(t.byName[rec.Name], len(t.arena)-1)
	}

	for i := range t.arena {
		p := t.arena[i].rec.Parent
		if p == 0 {
			continue
		}
		if slot, ok := t.index[p]; ok {
			t.arena[i].parent = slot
		}
	}

	return t
}

// Lookup returns the id of the node called name. Names shared by several
// nodes are rejected with ErrDuplicateName, since picking one would make
// positions depend on record order.
func (t *Tree) Lookup(name string) (int64, error) {
	slots := t.byName[name]
	switch len(slots) {
	case 0:
		return 0, errors.Wrapf(ErrNotFound, "%q", name)
	case 1:
		return t.arena[slots[0]].rec.ID, nil
	default:
		return 0, errors.Wrapf(ErrDuplicateName, "%q used by %d nodes", name, len(slots))
	}
}

// Children returns the children of id in record order. Child ids missing
// from the tree are skipped.
func (t *Tree) Children(id int64) []Child {
	slot, ok := t.index[id]
	if !ok {
		return nil
	}

	ids := t.arena[slot].rec.Children
	out := make([]Child, 0, len(ids))
	for _, c := range ids {
		cs, ok := t.index[c]
		if !ok {
			continue
		}
		out = append(out, Child{ID: c, Name: t.arena[cs].rec.Name})
	}
	return out
}

// WorldPosition returns the sum of local offsets from id up to its root.
// Accumulation stops at a node whose parent is 0 or absent from the tree.
func (t *Tree) WorldPosition(id int64) (Point, error) {
	slot, ok := t.index[id]
	if !ok {
		return Point{}, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	if t.arena[slot].resolved {
		return t.arena[slot].world, nil
	}

	// Climb until a resolved node or a root, remembering the chain.
	var chain []int
	onChain := make(map[int]bool)
	cur := slot
	for cur >= 0 && !t.arena[cur].resolved {
		if onChain[cur] {
			return Point{}, errors.Wrapf(ErrCycle, "through node %d (%q)",
				t.arena[cur].rec.ID, t.arena[cur].rec.Name)
		}
		onChain[cur] = true
		chain = append(chain, cur)
		cur = t.arena[cur].parent
	}

	var base Point
	if cur >= 0 {
		base = t.arena[cur].world
	}

	// Unwind from the topmost unresolved ancestor down to id.
	for i := len(chain) - 1; i >= 0; i-- {
		n := &t.arena[chain[i]]
		base = Point{X: base.X + n.rec.X, Y: base.Y + n.rec.Y}
		n.world = base
		n.resolved = true
	}

	return t.arena[slot].world, nil
}
