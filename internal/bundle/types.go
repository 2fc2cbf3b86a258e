package bundle

import (
	"encoding/json"
	"image"
	"strings"
	"sync"
)

// AtlasPixelsToUnits marks the dicing atlas preview sprite. It carries the
// packed atlas itself rather than a logical sprite.
const AtlasPixelsToUnits = 100.0

// AtlasPrefix is the name prefix of dicing atlas sprites and textures.
const AtlasPrefix = "dice_"

// Node is one hierarchy record: a positioned transform with a display name.
type Node struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Parent   int64   `json:"parent"`
	Children []int64 `json:"children"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Rect is an axis-aligned rectangle with (X, Y) at the bottom-left corner
// and Y increasing upward.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Sprite is one diced sprite: its local rect, the atlas it samples and the
// raw vertex/index streams of its quad mesh.
type Sprite struct {
	Name          string  `json:"name"`
	Rect          Rect    `json:"rect"`
	PixelsToUnits float64 `json:"pixels_to_units"`
	Texture       int64   `json:"texture"`
	VertexCount   int     `json:"vertex_count"`
	VertexData    []byte  `json:"vertex_data"`
	IndexData     []byte  `json:"index_data"`
}

// IsAtlasPreview reports whether the sprite is the dicing atlas preview.
func (s Sprite) IsAtlasPreview() bool {
	return s.PixelsToUnits == AtlasPixelsToUnits || strings.HasPrefix(s.Name, AtlasPrefix)
}

// Texture describes an atlas image referenced by sprites.
type Texture struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Image  string `json:"image"`
}

// Bundle holds every record of one loaded bundle.
type Bundle struct {
	Name     string
	Path     string
	Nodes    []Node
	Sprites  []Sprite
	Textures []Texture
	Metadata []json.RawMessage

	dir string

	mu      sync.Mutex
	atlases map[int64]*image.NRGBA
}

type file struct {
	Nodes    []Node            `json:"nodes"`
	Sprites  []Sprite          `json:"sprites"`
	Textures []Texture         `json:"textures"`
	Metadata []json.RawMessage `json:"metadata"`
}

// Texture returns the texture record with the given id.
func (b *Bundle) Texture(id int64) (Texture, bool) {
	for _, t := range b.Textures {
		if t.ID == id {
			return t, true
		}
	}
	return Texture{}, false
}

// Sprite returns the first sprite record with the given name.
func (b *Bundle) Sprite(name string) (Sprite, bool) {
	for _, s := range b.Sprites {
		if s.Name == name {
			return s, true
		}
	}
	return Sprite{}, false
}

// AttachTexture installs an already decoded atlas for texture id.
func (b *Bundle) AttachTexture(id int64, img *image.NRGBA) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.atlases == nil {
		b.atlases = make(map[int64]*image.NRGBA)
	}
	b.atlases[id] = img
}
