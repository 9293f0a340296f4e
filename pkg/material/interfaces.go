package material

import (
	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/lights"
)

// Tracer continues light transport for reflection and transmission rays.
// The renderer implements it; it is declared here so materials can recurse
// without importing the renderer.
type Tracer interface {
	Trace(ray core.Ray, depth int) core.Vec3
}

// World is the read-only scene view that materials shade against
type World interface {
	// Lights returns the scene's light sources in insertion order
	Lights() []*lights.PointLight
	// Occluded reports whether any shape blocks the ray from the given
	// origin along the unit direction before maxDistance
	Occluded(from core.Vec3, dir core.Vec3, maxDistance float64) bool
	// Background returns the color seen by rays that hit nothing
	Background() core.Vec3
	// Tolerance returns the numeric tolerances shared by the scene
	Tolerance() core.Tolerance
}

// Material computes the color seen at an intersection. Shading may call
// back into the tracer for secondary rays, passing depth+1 so the tracer
// can cut the recursion off at its configured maximum.
type Material interface {
	Shade(w World, tracer Tracer, rayIn core.Ray, hit *HitRecord, depth int) core.Vec3
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal at intersection
	UV        core.Vec2 // Texture coordinate at intersection
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}
