package material

import "github.com/rmellor/go-whitted-raytracer/pkg/core"

// DefaultCheckerScale is the UV multiplier controlling checker tile size
const DefaultCheckerScale = 100.0

// Checkerboard is not a shader itself: it selects one of two sub-materials
// by the parity of the scaled texture coordinates and delegates to it.
// Tile size follows each shape's own UV parametrization, so tiles are not
// physically uniform across shape types.
type Checkerboard struct {
	A     Material
	B     Material
	Scale float64
}

// NewCheckerboard creates a checkerboard over two sub-materials using the
// default tile scale
func NewCheckerboard(a, b Material) *Checkerboard {
	return NewCheckerboardWithScale(a, b, DefaultCheckerScale)
}

// NewCheckerboardWithScale creates a checkerboard with an explicit UV scale
func NewCheckerboardWithScale(a, b Material, scale float64) *Checkerboard {
	return &Checkerboard{A: a, B: b, Scale: scale}
}

// Select returns the sub-material that owns the given texture coordinate
func (c *Checkerboard) Select(uv core.Vec2) Material {
	u := int(uv.X * c.Scale)
	v := int(uv.Y * c.Scale)
	if u%2 == v%2 {
		return c.A
	}
	return c.B
}

// Shade delegates to the sub-material selected by the hit's texture coordinate
func (c *Checkerboard) Shade(w World, tracer Tracer, rayIn core.Ray, hit *HitRecord, depth int) core.Vec3 {
	return c.Select(hit.UV).Shade(w, tracer, rayIn, hit, depth)
}
