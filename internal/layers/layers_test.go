package layers

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diced-portraits/internal/bundle"
	"diced-portraits/internal/hierarchy"
)

// build creates a tree with "top" holding names and "add_parts" holding
// the given families.
func build(names []string, families map[string][]string, familyOrder []string) *hierarchy.Tree {
	recs := []bundle.Node{{ID: 1, Name: "root", Children: []int64{2, 3}}}
	top := bundle.Node{ID: 2, Name: TopNode, Parent: 1}
	add := bundle.Node{ID: 3, Name: AccessoryRoot, Parent: 1}

	next := int64(100)
	var kids []bundle.Node
	for _, n := range names {
		top.Children = append(top.Children, next)
		kids = append(kids, bundle.Node{ID: next, Name: n, Parent: 2})
		next++
	}
	for _, fam := range familyOrder {
		famID := next
		next++
		add.Children = append(add.Children, famID)
		fn := bundle.Node{ID: famID, Name: fam, Parent: 3}
		for _, s := range families[fam] {
			fn.Children = append(fn.Children, next)
			kids = append(kids, bundle.Node{ID: next, Name: s, Parent: famID})
			next++
		}
		kids = append(kids, fn)
	}
	recs = append(recs, top, add)
	return hierarchy.New(append(recs, kids...))
}

func TestClassify(t *testing.T) {
	c := NewClassifier([]string{"b1", "base"})
	tests := []struct {
		name string
		want Class
	}{
		{"b1", Class{Kind: Body}},
		{"base", Class{Kind: Body}},
		{"add_parts", Class{Kind: AccessoryRootKind}},
		{"e_nom_n1", Class{Kind: EyeExpr, Base: "e_nom", Frame: "n1"}},
		{"e_nom_s_f0", Class{Kind: EyeExpr, Base: "e_nom_s", Frame: "f0"}},
		{"m_nom_1", Class{Kind: MouthExpr, Base: "m_nom", Frame: "1"}},
		{"m_nom_i_0", Class{Kind: MouthExpr, Base: "m_nom_i", Frame: "0"}},
		{"e_nom", Class{Kind: Ignored}},
		{"m_nom_x", Class{Kind: Ignored}},
		{"shadow", Class{Kind: Ignored}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.name))
		})
	}
}

func TestDeriveGroups(t *testing.T) {
	tree := build([]string{
		"b1", "b2", "e_nom_n1", "e_nom_f0", "m_nom_1", "add_parts",
		"b3", "m_sad_0", "shadow", "e_sad_n0",
	}, nil, nil)
	c := NewClassifier([]string{"b1", "b2", "b3"})

	groups, err := DeriveGroups(tree, c)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, []string{"b1", "b2"}, groups[0].Bodies)
	assert.Equal(t, []string{"e_nom"}, groups[0].Eyes.Bases())
	assert.Equal(t, []string{"n1", "f0"}, groups[0].Eyes.Frames("e_nom"))
	assert.Equal(t, []string{"1"}, groups[0].Mouths.Frames("m_nom"))

	assert.Equal(t, []string{"b3"}, groups[1].Bodies)
	assert.Equal(t, []string{"e_sad"}, groups[1].Eyes.Bases())
	assert.Equal(t, []string{"m_sad"}, groups[1].Mouths.Bases())
}

func TestDeriveGroupsDropsBodylessGroup(t *testing.T) {
	tree := build([]string{"e_nom_n1", "m_nom_1"}, nil, nil)
	groups, err := DeriveGroups(tree, NewClassifier([]string{"b1"}))
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDeriveGroupsWithoutTop(t *testing.T) {
	tree := hierarchy.New([]bundle.Node{{ID: 1, Name: "root"}})
	groups, err := DeriveGroups(tree, NewClassifier(nil))
	require.NoError(t, err)
	assert.Nil(t, groups)
}

func TestDeriveGroupsDuplicateTop(t *testing.T) {
	tree := hierarchy.New([]bundle.Node{{ID: 1, Name: TopNode}, {ID: 2, Name: TopNode}})
	_, err := DeriveGroups(tree, NewClassifier(nil))
	assert.True(t, errors.Is(err, hierarchy.ErrDuplicateName))
}

func TestDeriveAccessories(t *testing.T) {
	families := map[string][]string{
		"b1":      {"b1_add", "b1_addrev", "b1_add1", "b1_add02", "b1_hat"},
		"basecmn": {"cheek", "cheek"},
	}
	tree := build([]string{"b1"}, families, []string{"b1", "basecmn"})

	acc, err := DeriveAccessories(tree)
	require.NoError(t, err)

	parts := acc.For("b1")
	assert.Equal(t, []string{"b1_add", "b1_hat"}, parts.Standard)
	assert.Equal(t, []string{"b1_addrev"}, parts.Mirrored)
	assert.Equal(t, []string{"b1_add1", "b1_add02"}, parts.Extras)
	assert.Equal(t, []string{"cheek"}, acc.Cheek)
	assert.NotContains(t, acc.Families, "basecmn")

	assert.Equal(t, []string{"cheek"}, acc.CheekFor("b1"))
	assert.Nil(t, acc.CheekFor("side"))
	assert.Empty(t, acc.For("unknown").All())
}

func TestClassifyPartIsTotal(t *testing.T) {
	names := []string{"x_add", "x_addrev", "x_add3", "x_add12", "x_addrev2", "hair", "", "add", "_add"}
	for _, n := range names {
		k := ClassifyPart(n)
		assert.Contains(t, []PartKind{Standard, Mirrored, Extra}, k, n)
	}
	assert.Equal(t, Mirrored, ClassifyPart("x_addrev"))
	assert.Equal(t, Standard, ClassifyPart("x_addrev2"))
	assert.Equal(t, Standard, ClassifyPart("x_add"))
}

func TestIsBaseFamily(t *testing.T) {
	for _, b := range []string{"base", "b0", "b9", "bx"} {
		assert.True(t, IsBaseFamily(b), b)
	}
	for _, b := range []string{"b10", "basecmn", "side", "bxy", "dummy"} {
		assert.False(t, IsBaseFamily(b), b)
	}
}

func TestParseExpr(t *testing.T) {
	for _, base := range []string{"e_nom", "e_nom_s", "e_nom_j"} {
		assert.Equal(t, "nom", ParseExpr(base).Core, base)
	}
	assert.Equal(t, Expr{Base: "m_nom_i", Core: "nom", Unique: "i"}, ParseExpr("m_nom_i"))
	assert.Equal(t, Expr{Base: "e_nom", Core: "nom"}, ParseExpr("e_nom"))
	assert.Equal(t, "smile_big", ParseExpr("m_smile_big").Core)
	assert.Equal(t, "n_1", ParseExpr("e_n_1").Core)
}

func TestPairCores(t *testing.T) {
	eyes, mouths := NewExprSet(), NewExprSet()
	eyes.Add("e_nom", "n1")
	eyes.Add("e_sad", "n1")
	eyes.Add("e_nom_s", "n1")
	mouths.Add("m_nom_i", "0")
	mouths.Add("m_angry", "0")

	pairs := PairCores(eyes, mouths)
	require.Len(t, pairs, 1)
	assert.Equal(t, "nom", pairs[0].Core)
	assert.Equal(t, []Expr{
		{Base: "e_nom", Core: "nom"},
		{Base: "e_nom_s", Core: "nom", Unique: "s"},
	}, pairs[0].Eyes)
	assert.Equal(t, []Expr{{Base: "m_nom_i", Core: "nom", Unique: "i"}}, pairs[0].Mouths)
}

func TestPositions(t *testing.T) {
	tree := build([]string{"b1"}, map[string][]string{"b1": {"b1_add"}}, []string{"b1"})
	p, err := Positions(tree)
	require.NoError(t, err)
	assert.Contains(t, p.World, "b1")
	assert.Contains(t, p.World, "b1_add")
	assert.Empty(t, p.Duplicates)
}
