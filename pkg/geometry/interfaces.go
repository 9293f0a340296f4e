package geometry

import (
	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// Shape is the contract every primitive answers: does the ray intersect,
// and if so where, with what outward unit normal and texture coordinate.
// Implementations accept a hit only when its ray parameter lies strictly
// inside (tMin, tMax). The open upper bound lets a shrinking nearest-hit
// scan resolve exact-distance ties to the earliest shape.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}
