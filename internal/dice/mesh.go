package dice

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

const (
	positionStride = 12 // x, y, z float32
	uvStride       = 8  // u, v float32
	quadIndices    = 6  // a, b, c, c, d, a
)

var (
	ErrNoVertices   = errors.New("dice: sprite has no vertices")
	ErrShortBuffer  = errors.New("dice: vertex buffer too short")
	ErrIndexRange   = errors.New("dice: index out of range")
	ErrOddIndexData = errors.New("dice: index buffer has odd length")
)

// Vertex is one mesh vertex: position in sprite space and atlas UV.
type Vertex struct {
	X, Y float64
	U, V float64
}

// Quad is the four corners (a, b, c, d) of one diced tile.
type Quad [4]Vertex

// ParseVertices decodes count vertices. The buffer holds count position
// triples followed by count UV pairs, all little-endian float32; z is unused.
func ParseVertices(data []byte, count int) ([]Vertex, error) {
	if count <= 0 {
		return nil, ErrNoVertices
	}
	need := count * (positionStride + uvStride)
	if len(data) < need {
		return nil, errors.Wrapf(ErrShortBuffer, "have %d bytes, need %d for %d vertices", len(data), need, count)
	}

	uvBase := count * positionStride
	verts := make([]Vertex, count)
	for i := range verts {
		p := data[i*positionStride:]
		t := data[uvBase+i*uvStride:]
		verts[i] = Vertex{
			X: float64(f32(p[0:])),
			Y: float64(f32(p[4:])),
			U: float64(f32(t[0:])),
			V: float64(f32(t[4:])),
		}
	}
	return verts, nil
}

// ParseIndices decodes the uint16 index buffer into (a, b, c, d) quads.
// Every six indices encode the triangles (a, b, c) and (c, d, a); a trailing
// partial group is ignored.
func ParseIndices(data []byte) ([][4]uint16, error) {
	if len(data)%2 != 0 {
		return nil, ErrOddIndexData
	}
	n := len(data) / 2 / quadIndices

	quads := make([][4]uint16, n)
	for q := range quads {
		g := data[q*quadIndices*2:]
		quads[q] = [4]uint16{
			binary.LittleEndian.Uint16(g[0:]),
			binary.LittleEndian.Uint16(g[2:]),
			binary.LittleEndian.Uint16(g[4:]),
			binary.LittleEndian.Uint16(g[8:]),
		}
	}
	return quads, nil
}

// Quads resolves index quads against the vertex list.
func Quads(verts []Vertex, indices [][4]uint16) ([]Quad, error) {
	quads := make([]Quad, len(indices))
	for i, idx := range indices {
		for k, v := range idx {
			if int(v) >= len(verts) {
				return nil, errors.Wrapf(ErrIndexRange, "quad %d uses vertex %d of %d", i, v, len(verts))
			}
			quads[i][k] = verts[v]
		}
	}
	return quads, nil
}

// Bounds returns the axis-aligned bounds of the quad's positions and UVs.
func (q Quad) Bounds() (minX, minY, maxX, maxY, minU, minV, maxU, maxV float64) {
	minX, minY, minU, minV = math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1)
	maxX, maxY, maxU, maxV = math.Inf(-1), math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for _, v := range q {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
		minU, maxU = math.Min(minU, v.U), math.Max(maxU, v.U)
		minV, maxV = math.Min(minV, v.V), math.Max(maxV, v.V)
	}
	return
}

func f32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
