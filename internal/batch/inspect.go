package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"diced-portraits/internal/bundle"
	"diced-portraits/internal/dice"
)

// TextureSummary describes one texture record.
type TextureSummary struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// QuadSummary describes the first quad of a sprite.
type QuadSummary struct {
	Pos     string `json:"pos"`
	UV      string `json:"uv"`
	Tile    string `json:"tile_size_px"`
	TexTile string `json:"tex_tile_px"`
}

// SpriteSummary describes one sprite record.
type SpriteSummary struct {
	Name          string       `json:"name"`
	Rect          bundle.Rect  `json:"rect"`
	PixelsToUnits float64      `json:"pixels_per_unit"`
	Texture       string       `json:"texture"`
	TextureSize   string       `json:"tex_size"`
	VertexCount   int          `json:"vertex_count"`
	QuadCount     int          `json:"quad_count"`
	FirstQuad     *QuadSummary `json:"first_quad,omitempty"`
}

// BundleSummary is the inspection dump of one bundle.
type BundleSummary struct {
	Bundle     string            `json:"bundle"`
	Char       string            `json:"char"`
	TypeCounts map[string]int    `json:"asset_type_counts"`
	Textures   []TextureSummary  `json:"textures"`
	Sprites    []SpriteSummary   `json:"sprites"`
	Metadata   []json.RawMessage `json:"metadata"`
}

// Summarize builds the inspection dump of b.
func Summarize(b *bundle.Bundle) BundleSummary {
	sum := BundleSummary{
		Bundle: b.Name,
		Char:   b.CharCode(),
		TypeCounts: map[string]int{
			"node":     len(b.Nodes),
			"sprite":   len(b.Sprites),
			"texture":  len(b.Textures),
			"metadata": len(b.Metadata),
		},
		Textures: make([]TextureSummary, 0, len(b.Textures)),
		Sprites:  make([]SpriteSummary, 0, len(b.Sprites)),
		Metadata: b.Metadata,
	}

	for _, t := range b.Textures {
		sum.Textures = append(sum.Textures, TextureSummary{Name: t.Name, Width: t.Width, Height: t.Height})
	}

	for _, s := range b.Sprites {
		t, ok := b.Texture(s.Texture)
		if !ok {
			t.Name = "?"
		}
		ss := SpriteSummary{
			Name:          s.Name,
			Rect:          s.Rect,
			PixelsToUnits: s.PixelsToUnits,
			Texture:       t.Name,
			TextureSize:   fmt.Sprintf("%dx%d", t.Width, t.Height),
			VertexCount:   s.VertexCount,
			QuadCount:     len(s.IndexData) / 12,
		}
		ss.FirstQuad = firstQuad(s, t.Width, t.Height)
		sum.Sprites = append(sum.Sprites, ss)
	}
	return sum
}

func firstQuad(s bundle.Sprite, tw, th int) *QuadSummary {
	verts, err := dice.ParseVertices(s.VertexData, s.VertexCount)
	if err != nil {
		return nil
	}
	idx, err := dice.ParseIndices(s.IndexData)
	if err != nil || len(idx) == 0 {
		return nil
	}
	quads, err := dice.Quads(verts, idx[:1])
	if err != nil {
		return nil
	}
	minX, minY, maxX, maxY, minU, minV, maxU, maxV := quads[0].Bounds()
	q := &QuadSummary{
		Pos:     fmt.Sprintf("(%.0f,%.0f)-(%.0f,%.0f)", minX, minY, maxX, maxY),
		UV:      fmt.Sprintf("u[%.4f,%.4f] v[%.4f,%.4f]", minU, maxU, minV, maxV),
		Tile:    fmt.Sprintf("%.0fx%.0f", maxX-minX, maxY-minY),
		TexTile: "?",
	}
	if tw > 0 && th > 0 {
		q.TexTile = fmt.Sprintf("%.0fx%.0f", (maxU-minU)*float64(tw), (maxV-minV)*float64(th))
	}
	return q
}

// Inspect writes the inspection dump of each bundle to OutDir/<bundle>.json.
func Inspect(outDir string) Task {
	return func(ctx *BundleContext) (Stats, error) {
		sum := Summarize(ctx.Bundle)
		data, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			return Stats{}, errors.Wrap(err, "encode summary")
		}
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return Stats{}, err
		}
		out := filepath.Join(outDir, ctx.Bundle.Name+".json")
		if err := os.WriteFile(out, data, 0644); err != nil {
			return Stats{}, errors.Wrap(err, "write summary")
		}
		ctx.Log.Logf("%d sprites, %d texture(s) -> %s", len(sum.Sprites), len(sum.Textures), out)
		return Stats{Saved: 1}, nil
	}
}
