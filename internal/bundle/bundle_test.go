package bundle

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(1, 1, color.NRGBA{R: 9, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestJSONLoader(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "atlas.png"), 4, 2)
	writeJSON(t, filepath.Join(dir, "a007.json"), map[string]interface{}{
		"nodes": []Node{{ID: 1, Name: "top", Children: []int64{2}}, {ID: 2, Name: "b1", Parent: 1, X: 3}},
		"sprites": []Sprite{
			{Name: "dice_avi_0", PixelsToUnits: 100, Texture: 5},
			{Name: "b1", Rect: Rect{W: 2, H: 2}, Texture: 5, VertexCount: 4, VertexData: []byte{1, 2, 3}},
		},
		"textures": []Texture{{ID: 5, Name: "dice_avi", Width: 4, Height: 2, Image: "atlas.png"}},
		"metadata": []json.RawMessage{json.RawMessage(`{"m_bodyParameters":["b1"]}`)},
	})

	b, err := JSONLoader{}.Load(filepath.Join(dir, "a007.json"))
	require.NoError(t, err)
	assert.Equal(t, "a007", b.Name)
	assert.Len(t, b.Nodes, 2)
	assert.Equal(t, "avi", b.CharCode())

	s, ok := b.Sprite("b1")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, s.VertexData)
	assert.False(t, s.IsAtlasPreview())
	atlasSprite, _ := b.Sprite("dice_avi_0")
	assert.True(t, atlasSprite.IsAtlasPreview())

	img, err := b.DecodeTexture(5)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4, 2), img.Bounds().Size())
	again, err := b.DecodeTexture(5)
	require.NoError(t, err)
	assert.Same(t, img, again)

	_, err = b.DecodeTexture(6)
	assert.Error(t, err)
}

func TestDecodeTextureSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "atlas.png"), 4, 4)
	b := &Bundle{
		Name:     "x",
		Textures: []Texture{{ID: 1, Name: "t", Width: 8, Height: 8, Image: "atlas.png"}},
		dir:      dir,
	}
	_, err := b.DecodeTexture(1)
	assert.Error(t, err)
}

func TestCharCodeFallback(t *testing.T) {
	b := &Bundle{Name: "a012", Sprites: []Sprite{{Name: "b1"}}}
	assert.Equal(t, "a012", b.CharCode())

	b.Textures = []Texture{{Name: "dice_kor"}}
	assert.Equal(t, "kor", b.CharCode())
}

func TestBodyParameters(t *testing.T) {
	b := &Bundle{Metadata: []json.RawMessage{
		json.RawMessage(`{"m_Name":"other"}`),
		json.RawMessage(`not json`),
		json.RawMessage(`{"m_Script":{"x":1},"data":[{"m_bodyParameters":["b1","b2","",3,"base"]}]}`),
	}}
	bodies, err := b.BodyParameters()
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2", "base"}, bodies)

	_, err = (&Bundle{}).BodyParameters()
	assert.True(t, errors.Is(err, ErrNoBodyParameters))

	empty := &Bundle{Metadata: []json.RawMessage{json.RawMessage(`{"m_bodyParameters":[]}`)}}
	_, err = empty.BodyParameters()
	assert.True(t, errors.Is(err, ErrNoBodyParameters))
}

type fakeLoader map[string]string // path → char code

func (f fakeLoader) Load(path string) (*Bundle, error) {
	code, ok := f[path]
	if !ok {
		return nil, errors.New("no such bundle")
	}
	return &Bundle{Name: Name(path), Textures: []Texture{{Name: "dice_" + code}}}, nil
}

func TestListAndSelect(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a002.json", "a001.json", "notes.txt", "a010.JSON"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("{}"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	paths, err := List(dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, "a001", Name(paths[0]))

	l := fakeLoader{paths[0]: "avi", paths[1]: "kor", paths[2]: "avi"}
	assert.Equal(t, paths, Select(paths, "", l))
	assert.Equal(t, []string{paths[1]}, Select(paths, "2", l))
	assert.Equal(t, []string{paths[1]}, Select(paths, "a002", l))
	assert.Equal(t, []string{paths[2]}, Select(paths, "010", l))
	assert.Equal(t, []string{paths[0], paths[2]}, Select(paths, "AVI", l))
	assert.Empty(t, Select(paths, "zzz", l))

	_, err = List(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestTrim(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in", "x.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(in), 0755))
	require.NoError(t, os.WriteFile(in, []byte("junkjunkUnityFS body"), 0644))

	out := TrimTarget(in, filepath.Join(dir, "out"), "bundle")
	assert.Equal(t, filepath.Join(dir, "out", "x.bundle"), out)

	n, err := Trim(in, out, []byte(DefaultMarker))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "UnityFS body", string(data))

	_, err = Trim(out, out+".2", []byte(DefaultMarker))
	assert.True(t, errors.Is(err, ErrAlreadyTrimmed))

	_, err = Trim(in, out, []byte("HCA"))
	assert.True(t, errors.Is(err, ErrMarkerNotFound))

	assert.Equal(t, filepath.Join("o", "x.bin"), TrimTarget(in, "o", ""))
}
