package geometry

import (
	"math"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center    core.Vec3
	Radius    float64
	Material  material.Material
	tolerance core.Tolerance
}

// NewSphere creates a new sphere with the default tolerances
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return NewSphereWithTolerance(center, radius, material, core.DefaultTolerance())
}

// NewSphereWithTolerance creates a new sphere with explicit tolerances
func NewSphereWithTolerance(center core.Vec3, radius float64, material material.Material, tolerance core.Tolerance) *Sphere {
	return &Sphere{
		Center:    center,
		Radius:    radius,
		Material:  material,
		tolerance: tolerance,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	// Near-zero discriminants are grazing/degenerate contacts and count as misses
	discriminant := halfB*halfB - a*c
	if discriminant < s.tolerance.Geometry {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first, then the farther one
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return nil, false
		}
	}

	hitRecord := &material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	// Outward normal points from center to hit point
	outwardNormal := hitRecord.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)
	hitRecord.UV = sphereUV(outwardNormal)

	return hitRecord, true
}

// sphereUV maps a unit outward normal to spherical coordinates, with
// longitude and latitude each remapped to [0,1]
func sphereUV(n core.Vec3) core.Vec2 {
	u := (math.Atan2(n.Z, n.X) + math.Pi) / (2 * math.Pi)
	y := math.Max(-1, math.Min(1, n.Y))
	v := (math.Asin(y) + math.Pi/2) / math.Pi
	return core.NewVec2(u, v)
}
