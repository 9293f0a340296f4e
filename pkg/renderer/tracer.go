package renderer

import (
	"math"
	"sync/atomic"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
	"github.com/rmellor/go-whitted-raytracer/pkg/scene"
)

// RayCounters aggregates the rays cast while rendering. Workers update
// the counters concurrently, so all access goes through atomics.
type RayCounters struct {
	primary   atomic.Int64
	secondary atomic.Int64
	shadow    atomic.Int64
}

// Primary returns the number of camera rays traced
func (rc *RayCounters) Primary() int64 { return rc.primary.Load() }

// Secondary returns the number of reflection and transmission rays traced
func (rc *RayCounters) Secondary() int64 { return rc.secondary.Load() }

// Shadow returns the number of occlusion queries cast toward lights
func (rc *RayCounters) Shadow() int64 { return rc.shadow.Load() }

// Total returns the number of rays of all kinds
func (rc *RayCounters) Total() int64 {
	return rc.Primary() + rc.Secondary() + rc.Shadow()
}

// countingWorld wraps the scene world so shadow rays cast by materials
// are counted without the materials knowing about statistics.
type countingWorld struct {
	*scene.World
	counters *RayCounters
}

func (cw countingWorld) Occluded(from, dir core.Vec3, maxDistance float64) bool {
	cw.counters.shadow.Add(1)
	return cw.World.Occluded(from, dir, maxDistance)
}

// Tracer resolves the color seen along rays cast into a world. It
// implements material.Tracer, so materials recurse through it for
// reflection and transmission.
type Tracer struct {
	world    *scene.World
	shaded   material.World
	width    int
	height   int
	maxDepth int
	counters *RayCounters
}

// NewTracer creates a tracer rendering the world at the given pixel
// dimensions. A maxDepth of zero falls back to the world's configured
// depth cap.
func NewTracer(world *scene.World, width, height, maxDepth int) *Tracer {
	if maxDepth <= 0 {
		maxDepth = world.RenderConfig.MaxDepth
	}
	counters := &RayCounters{}
	return &Tracer{
		world:    world,
		shaded:   countingWorld{World: world, counters: counters},
		width:    width,
		height:   height,
		maxDepth: maxDepth,
		counters: counters,
	}
}

// Counters returns the ray counters shared by every trace through this tracer
func (t *Tracer) Counters() *RayCounters {
	return t.counters
}

// MaxDepth returns the recursion cap applied by Trace
func (t *Tracer) MaxDepth() int {
	return t.maxDepth
}

// Trace returns the color seen along the ray. Depth counts the nesting
// level of reflection and transmission rays; a primary ray starts at
// depth 0, and once depth exceeds the cap the background color stands in.
func (t *Tracer) Trace(ray core.Ray, depth int) core.Vec3 {
	if depth > t.maxDepth {
		return t.world.Background()
	}

	if depth == 0 {
		t.counters.primary.Add(1)
	} else {
		t.counters.secondary.Add(1)
	}

	hit, found := t.world.FindNearestHit(ray, t.world.Tolerance().MinT, math.Inf(1))
	if !found {
		return t.world.Background()
	}

	return hit.Material.Shade(t.shaded, t, ray, hit, depth)
}

// CastRay traces the primary ray through the normalized screen point
// (s, v). Both coordinates run 0 to 1, with v from bottom to top.
func (t *Tracer) CastRay(s, v float64) core.Vec3 {
	return t.Trace(t.world.Camera.GetRay(s, v), 0)
}

// RenderPixel traces the primary ray through the center of image pixel
// (x, y). Row 0 is the top of the image.
func (t *Tracer) RenderPixel(x, y int) core.Vec3 {
	s, v := t.pixelToScreen(x, y)
	return t.CastRay(s, v)
}

// Probe returns the nearest surface met by the primary ray through pixel
// (x, y), without shading it. Used for scene inspection.
func (t *Tracer) Probe(x, y int) (*material.HitRecord, bool) {
	s, v := t.pixelToScreen(x, y)
	ray := t.world.Camera.GetRay(s, v)
	return t.world.FindNearestHit(ray, t.world.Tolerance().MinT, math.Inf(1))
}

// pixelToScreen maps the center of an image pixel to normalized screen
// coordinates, flipping the row axis to the camera's bottom-up convention
func (t *Tracer) pixelToScreen(x, y int) (float64, float64) {
	s := (float64(x) + 0.5) / float64(t.width)
	v := (float64(t.height-1-y) + 0.5) / float64(t.height)
	return s, v
}
