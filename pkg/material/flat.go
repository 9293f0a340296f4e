package material

import "github.com/rmellor/go-whitted-raytracer/pkg/core"

// Flat is a constant-color material with no lighting dependence
type Flat struct {
	Color core.Vec3
}

// NewFlat creates a flat material with the given color
func NewFlat(color core.Vec3) *Flat {
	return &Flat{Color: color}
}

// Shade returns the constant color regardless of lights or depth
func (f *Flat) Shade(w World, tracer Tracer, rayIn core.Ray, hit *HitRecord, depth int) core.Vec3 {
	return f.Color
}
