package texture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.SetNRGBA(i%2, i/2, c)
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "a_b_c_d", SafeName(`a/b\c d`))
	assert.Equal(t, "e_nom_n1.png", SpriteFileName("e_nom_n1", ".png"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.png")
	savePNG(t, path, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, img.NRGBAAt(1, 1))

	_, err = Load(filepath.Join(dir, "x.xyz"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("nope"), 0644))
	_, err = Load(filepath.Join(dir, "bad.png"))
	assert.Error(t, err)
}

func TestToNRGBAOffsetOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 7))
	src.SetRGBA(5, 5, color.RGBA{R: 255, A: 255})
	out := ToNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(0, 0))
}

func TestIndex(t *testing.T) {
	dir := t.TempDir()
	savePNG(t, filepath.Join(dir, "b1.png"), color.NRGBA{A: 255})
	savePNG(t, filepath.Join(dir, "hair_front.png"), color.NRGBA{A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))

	idx := BuildIndex(dir, ".png")
	assert.Equal(t, 2, idx.Len())

	_, ok := idx.ResolvePath("hair front")
	assert.True(t, ok)

	_, err := idx.LoadSprite("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, 0, BuildIndex(filepath.Join(dir, "nope"), ".png").Len())
}

func TestCacheRemembersMisses(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(LoaderFunc(func(name string) (*image.NRGBA, error) {
		calls.Add(1)
		if name == "gone" {
			return nil, ErrNotFound
		}
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotNil(t, c.Resolve("b1"))
			assert.Nil(t, c.Resolve("gone"))
		}()
	}
	wg.Wait()

	first := c.Resolve("b1")
	assert.Same(t, first, c.Resolve("b1"))
	assert.True(t, c.Missing("gone"))
	assert.False(t, c.Missing("b1"))
	assert.False(t, c.Missing("never"))
	assert.Equal(t, 2, c.Len())
	assert.LessOrEqual(t, int(calls.Load()), 16)
}
