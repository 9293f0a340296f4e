package lights

import "github.com/rmellor/go-whitted-raytracer/pkg/core"

// PointLight is a positional light source with an RGB intensity.
// Every light in a scene contributes additively to local illumination.
type PointLight struct {
	Position  core.Vec3
	Intensity core.Vec3
}

// NewPointLight creates a point light at the given position
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

// DirectionFrom returns the unit direction from the given point toward
// the light, along with the distance between them
func (l *PointLight) DirectionFrom(point core.Vec3) (core.Vec3, float64) {
	toLight := l.Position.Subtract(point)
	distance := toLight.Length()
	if distance == 0 {
		return core.NewVec3(0, 0, 0), 0
	}
	return toLight.Multiply(1.0 / distance), distance
}
