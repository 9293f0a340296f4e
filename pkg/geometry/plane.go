package geometry

import (
	"math"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// worldUp seeds the in-plane basis derivation; worldForward takes over
// when a plane's normal is parallel to worldUp.
var (
	worldUp      = core.NewVec3(0, 1, 0)
	worldForward = core.NewVec3(0, 0, 1)
)

// Plane represents a bounded rectangle defined by its center, surface
// normal and world-space width and height.
type Plane struct {
	Center   core.Vec3
	Normal   core.Vec3 // Normalized at construction
	Width    float64
	Height   float64
	Material material.Material

	horizontal core.Vec3 // In-plane basis: up x normal
	vertical   core.Vec3 // In-plane basis: normal x horizontal
	corners    [4]core.Vec3
	bounds     core.AABB // Epsilon-expanded box over the corners
	tolerance  core.Tolerance
}

// NewPlane creates a bounded rectangular plane with the default tolerances
func NewPlane(center, normal core.Vec3, width, height float64, material material.Material) *Plane {
	return NewPlaneWithTolerance(center, normal, width, height, material, core.DefaultTolerance())
}

// NewPlaneWithTolerance creates a bounded rectangular plane with explicit tolerances
func NewPlaneWithTolerance(center, normal core.Vec3, width, height float64, material material.Material, tolerance core.Tolerance) *Plane {
	p := &Plane{
		Center:    center,
		Normal:    normal.Normalize(),
		Width:     width,
		Height:    height,
		Material:  material,
		tolerance: tolerance,
	}

	up := worldUp
	if math.Abs(p.Normal.Dot(worldUp)) > 1-tolerance.Geometry {
		up = worldForward
	}
	p.horizontal = up.Cross(p.Normal).Normalize()
	p.vertical = p.Normal.Cross(p.horizontal).Normalize()

	halfH := p.horizontal.Multiply(width / 2)
	halfV := p.vertical.Multiply(height / 2)
	p.corners = [4]core.Vec3{
		center.Subtract(halfH).Subtract(halfV),
		center.Add(halfH).Subtract(halfV),
		center.Add(halfH).Add(halfV),
		center.Subtract(halfH).Add(halfV),
	}

	// Containment is tested against the axis-aligned box around the
	// corners, not by projecting into the horizontal/vertical basis.
	// For oblique rectangles the box accepts some points outside the
	// true rectangle; that approximation is part of the contract.
	p.bounds = core.NewAABBFromPoints(p.corners[:]...).Expand(tolerance.Containment)

	return p
}

// Hit tests if a ray intersects the bounded plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Near-parallel rays never intersect
	if math.Abs(denominator) < p.tolerance.Geometry {
		return nil, false
	}

	t := p.Center.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t <= tMin || t >= tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	if !p.bounds.Contains(hitPoint) {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        t,
		Point:    hitPoint,
		Material: p.Material,
		UV:       p.uvAt(hitPoint),
	}
	hitRecord.SetFaceNormal(ray, p.Normal)

	return hitRecord, true
}

// uvAt normalizes the hit point across the corner bounding box, mapping
// the two widest axes of the box to [0,1]. The thinnest axis is the one
// closest to the plane normal and carries no surface information.
func (p *Plane) uvAt(point core.Vec3) core.Vec2 {
	size := p.bounds.Size()
	rel := point.Subtract(p.bounds.Min)

	nx := normalizeExtent(rel.X, size.X)
	ny := normalizeExtent(rel.Y, size.Y)
	nz := normalizeExtent(rel.Z, size.Z)

	switch thinnestAxis(size) {
	case 0:
		return core.NewVec2(ny, nz)
	case 1:
		return core.NewVec2(nx, nz)
	default:
		return core.NewVec2(nx, ny)
	}
}

func normalizeExtent(rel, size float64) float64 {
	if size <= 0 {
		return 0.5
	}
	return rel / size
}

func thinnestAxis(size core.Vec3) int {
	if size.X <= size.Y && size.X <= size.Z {
		return 0
	}
	if size.Y <= size.Z {
		return 1
	}
	return 2
}
