package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diced-portraits/internal/layers"
)

func TestPick(t *testing.T) {
	assert.Equal(t, "n1", BestEyeFrame([]string{"f0", "n1", "n0"}))
	assert.Equal(t, "f0", BestEyeFrame([]string{"f1", "f0"}))
	assert.Equal(t, "z9", BestEyeFrame([]string{"z9", "y3"}))
	assert.Equal(t, "1", BestMouthFrame([]string{"0", "1"}))
	assert.Equal(t, "7", BestMouthFrame([]string{"7", "5"}))
	assert.Equal(t, "", BestMouthFrame(nil))
}

func TestEnumerateAll(t *testing.T) {
	parts := layers.AddParts{
		Standard: []string{"b1_add"},
		Mirrored: []string{"b1_addrev"},
		Extras:   []string{"b1_add1"},
	}
	vs := Enumerate(parts, []string{"cheek"}, All())
	require.Len(t, vs, 8)

	assert.Empty(t, vs[0].Tags)
	assert.Equal(t, []string{"b1_add"}, vs[0].Layers)
	assert.Equal(t, "", vs[0].Suffix())
	assert.Equal(t, "", vs[0].Subdir())

	last := vs[7]
	assert.Equal(t, []string{"b1_addrev", "b1_add1", "cheek"}, last.Layers)
	assert.Equal(t, "_rev_extra_blush", last.Suffix())
	assert.Equal(t, "rev_extra_blush", last.Subdir())
	assert.True(t, last.Mirror)

	seen := make(map[string]bool)
	mirrored := 0
	for _, v := range vs {
		assert.False(t, seen[v.Suffix()], "duplicate suffix %q", v.Suffix())
		seen[v.Suffix()] = true
		if v.Mirror {
			mirrored++
		}
	}
	assert.Equal(t, 4, mirrored)
}

func TestEnumerateCounts(t *testing.T) {
	parts := layers.AddParts{
		Standard: []string{"add"},
		Mirrored: []string{"addrev"},
		Extras:   []string{"add1"},
	}
	tests := []struct {
		name  string
		parts layers.AddParts
		cheek []string
		opts  Options
		want  int
	}{
		{"nothing enabled", parts, []string{"c"}, Options{}, 1},
		{"rev only", parts, []string{"c"}, Options{Rev: true}, 2},
		{"extra and blush", parts, []string{"c"}, Options{Extra: true, Blush: true}, 4},
		{"blush without cheek", parts, nil, All(), 4},
		{"no optional layers", layers.AddParts{Standard: []string{"add"}}, nil, All(), 1},
		{"empty body", layers.AddParts{}, nil, All(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Enumerate(tt.parts, tt.cheek, tt.opts), tt.want)
		})
	}
}
