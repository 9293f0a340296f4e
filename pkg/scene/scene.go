package scene

import (
	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/lights"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// RenderConfig contains rendering configuration
type RenderConfig struct {
	MaxDepth    int // Maximum recursion depth for reflection and transmission
	Supersample int // Samples per pixel side for antialiasing (1 = off)
}

// DefaultRenderConfig returns the render settings scenes start from
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		MaxDepth:    10,
		Supersample: 1,
	}
}

// World contains all the elements needed for rendering: shapes, point
// lights, the camera and the background color returned by escaped rays.
type World struct {
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig
	RenderConfig RenderConfig

	shapes     []geometry.Shape
	lights     []*lights.PointLight
	background core.Vec3
	tolerance  core.Tolerance
}

// NewWorld creates an empty world with the default tolerances
func NewWorld(background core.Vec3, cameraConfig geometry.CameraConfig) *World {
	return NewWorldWithTolerance(background, cameraConfig, core.DefaultTolerance())
}

// NewWorldWithTolerance creates an empty world with explicit tolerances
func NewWorldWithTolerance(background core.Vec3, cameraConfig geometry.CameraConfig, tolerance core.Tolerance) *World {
	return &World{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		RenderConfig: DefaultRenderConfig(),
		shapes:       make([]geometry.Shape, 0),
		lights:       make([]*lights.PointLight, 0),
		background:   background,
		tolerance:    tolerance,
	}
}

// ApplyCameraOverrides merges the given overrides into the camera
// configuration and rebuilds the camera
func (w *World) ApplyCameraOverrides(overrides ...geometry.CameraConfig) {
	if len(overrides) == 0 {
		return
	}
	for _, override := range overrides {
		w.CameraConfig = geometry.MergeCameraConfig(w.CameraConfig, override)
	}
	w.Camera = geometry.NewCamera(w.CameraConfig)
}

// AddShape appends a shape to the world. Insertion order matters: when
// two shapes intersect a ray at exactly the same distance, the one added
// earlier wins.
func (w *World) AddShape(shape geometry.Shape) {
	w.shapes = append(w.shapes, shape)
}

// AddLight appends a point light to the world
func (w *World) AddLight(light *lights.PointLight) {
	w.lights = append(w.lights, light)
}

// AddPointLight creates a point light at the given position and adds it
func (w *World) AddPointLight(position, intensity core.Vec3) {
	w.AddLight(lights.NewPointLight(position, intensity))
}

// Shapes returns the shapes in insertion order
func (w *World) Shapes() []geometry.Shape {
	return w.shapes
}

// Lights returns the point lights in insertion order
func (w *World) Lights() []*lights.PointLight {
	return w.lights
}

// Background returns the color for rays that escape the scene
func (w *World) Background() core.Vec3 {
	return w.background
}

// Tolerance returns the numeric tolerances shared across the world
func (w *World) Tolerance() core.Tolerance {
	return w.tolerance
}

// Width returns the image width in pixels
func (w *World) Width() int {
	return w.CameraConfig.Width
}

// Height returns the image height in pixels
func (w *World) Height() int {
	return w.CameraConfig.ImageHeight()
}

// FindNearestHit scans every shape and keeps the closest intersection in
// (tMin, tMax). The scan shrinks its upper bound to each accepted hit,
// so shapes added earlier win exact ties.
func (w *World) FindNearestHit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestT := tMax

	for _, shape := range w.shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestT); isHit {
			closest = hit
			closestT = hit.T
		}
	}

	return closest, closest != nil
}

// Occluded reports whether any shape blocks the segment from the given
// point along dir, up to maxDistance. Callers lift the starting point
// off the surface; the shadow bias lower bound guards the remainder.
func (w *World) Occluded(from, dir core.Vec3, maxDistance float64) bool {
	ray := core.NewRay(from, dir)
	_, isHit := w.FindNearestHit(ray, w.tolerance.ShadowBias, maxDistance)
	return isHit
}

// GetPrimitiveCount returns the total number of primitive objects in the world
func (w *World) GetPrimitiveCount() int {
	count := 0
	for _, shape := range w.shapes {
		count += countPrimitivesInShape(shape)
	}
	return count
}

// countPrimitivesInShape counts primitives in a single shape, handling complex objects
func countPrimitivesInShape(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.TriangleMesh:
		// Triangle meshes contain multiple triangles
		return obj.GetTriangleCount()
	default:
		// Regular shapes count as 1 primitive each
		return 1
	}
}
