package geometry

import (
	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// Vertex carries the per-vertex attributes of a triangle. Normal and UV
// are optional; zero values mean the attribute was not supplied.
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	UV       core.Vec2
}

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 Vertex
	Material   material.Material

	normal     core.Vec3 // Cached face normal
	bbox       core.AABB // Cached bounding box
	hasNormals bool      // All three vertices carry shading normals
	hasUVs     bool      // At least one vertex carries texture coordinates
	tolerance  core.Tolerance
}

// NewTriangle creates a new triangle from three vertex positions
func NewTriangle(v0, v1, v2 core.Vec3, material material.Material) *Triangle {
	return NewTriangleFromVertices(Vertex{Position: v0}, Vertex{Position: v1}, Vertex{Position: v2}, material)
}

// NewTriangleWithNormal creates a new triangle from three vertex positions with a custom face normal
func NewTriangleWithNormal(v0, v1, v2 core.Vec3, normal core.Vec3, material material.Material) *Triangle {
	t := NewTriangleFromVertices(Vertex{Position: v0}, Vertex{Position: v1}, Vertex{Position: v2}, material)
	t.normal = normal.Normalize()
	return t
}

// NewTriangleFromVertices creates a new triangle from full vertex records
func NewTriangleFromVertices(v0, v1, v2 Vertex, material material.Material) *Triangle {
	return NewTriangleFromVerticesWithTolerance(v0, v1, v2, material, core.DefaultTolerance())
}

// NewTriangleFromVerticesWithTolerance creates a new triangle from full vertex records with explicit tolerances
func NewTriangleFromVerticesWithTolerance(v0, v1, v2 Vertex, material material.Material, tolerance core.Tolerance) *Triangle {
	t := &Triangle{
		V0:        v0,
		V1:        v1,
		V2:        v2,
		Material:  material,
		tolerance: tolerance,
	}

	t.hasNormals = v0.Normal.LengthSquared() > 0 &&
		v1.Normal.LengthSquared() > 0 &&
		v2.Normal.LengthSquared() > 0
	t.hasUVs = !isZeroUV(v0.UV) || !isZeroUV(v1.UV) || !isZeroUV(v2.UV)

	// Precompute normal and bounding box for efficiency
	t.computeNormal()
	t.computeBoundingBox()

	return t
}

// computeNormal calculates and caches the triangle's face normal
func (t *Triangle) computeNormal() {
	edge1 := t.V1.Position.Subtract(t.V0.Position)
	edge2 := t.V2.Position.Subtract(t.V0.Position)

	// Normal is the cross product of the two edges
	t.normal = edge1.Cross(edge2).Normalize()
}

// computeBoundingBox calculates and caches the triangle's bounding box
func (t *Triangle) computeBoundingBox() {
	t.bbox = core.NewAABBFromPoints(t.V0.Position, t.V1.Position, t.V2.Position)
}

// Hit tests if a ray intersects with the triangle using the Moller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	edge1 := t.V1.Position.Subtract(t.V0.Position)
	edge2 := t.V2.Position.Subtract(t.V0.Position)

	// Calculate determinant
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if a > -t.tolerance.Geometry && a < t.tolerance.Geometry {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0.Position)
	u := f * s.Dot(h)

	// Check if intersection is outside triangle
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)

	// Check if intersection is outside triangle
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	// Calculate t parameter
	t_param := f * edge2.Dot(q)

	// Check if intersection is within valid range
	if t_param <= tMin || t_param >= tMax {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        t_param,
		Point:    ray.At(t_param),
		Material: t.Material,
		UV:       t.uvAt(u, v),
	}
	hitRecord.SetFaceNormal(ray, t.shadingNormal(u, v))

	return hitRecord, true
}

// shadingNormal interpolates the per-vertex normals barycentrically when
// all three are present and falls back to the face normal otherwise.
func (t *Triangle) shadingNormal(u, v float64) core.Vec3 {
	if !t.hasNormals {
		return t.normal
	}
	w := 1.0 - u - v
	return t.V0.Normal.Multiply(w).
		Add(t.V1.Normal.Multiply(u)).
		Add(t.V2.Normal.Multiply(v)).
		Normalize()
}

// uvAt interpolates the per-vertex texture coordinates; without them the
// barycentric coordinates themselves stand in.
func (t *Triangle) uvAt(u, v float64) core.Vec2 {
	if !t.hasUVs {
		return core.NewVec2(u, v)
	}
	w := 1.0 - u - v
	return core.NewVec2(
		t.V0.UV.X*w+t.V1.UV.X*u+t.V2.UV.X*v,
		t.V0.UV.Y*w+t.V1.UV.Y*u+t.V2.UV.Y*v,
	)
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// GetNormal returns the triangle's face normal
func (t *Triangle) GetNormal() core.Vec3 {
	return t.normal
}

func isZeroUV(uv core.Vec2) bool {
	return uv.X == 0 && uv.Y == 0
}
