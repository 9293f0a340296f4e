package scene

import (
	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates the default scene: three shiny spheres over a
// checkered floor, lit by a key light and a dim fill light
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *World {
	// Default camera configuration
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.5, 4),  // Position camera above and behind
		LookAt:      core.NewVec3(0, 0.6, 0),  // Look at the center sphere
		Up:          core.NewVec3(0, 1, 0),    // Standard up direction
		Width:       800,
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	w := NewWorld(core.NewVec3(0.53, 0.81, 0.92), cameraConfig)

	// Create materials
	phongRed := material.NewPhong(core.NewVec3(0.9, 0.2, 0.2))
	phongGreen := material.NewPhong(core.NewVec3(0.2, 0.8, 0.3))
	phongBlue := material.NewPhong(core.NewVec3(0.2, 0.3, 0.9))
	checker := material.NewCheckerboardWithScale(
		material.NewPhong(core.NewVec3(0.9, 0.9, 0.9)),
		material.NewPhong(core.NewVec3(0.1, 0.1, 0.1)),
		8,
	)

	// Checkered floor
	w.AddShape(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 40, 40, checker))

	// Three spheres with different colors
	w.AddShape(geometry.NewSphere(core.NewVec3(0, 0.6, 0), 0.6, phongRed))
	w.AddShape(geometry.NewSphere(core.NewVec3(-1.4, 0.45, -0.6), 0.45, phongGreen))
	w.AddShape(geometry.NewSphere(core.NewVec3(1.4, 0.45, -0.6), 0.45, phongBlue))

	// Key light and a dim fill from the other side
	w.AddPointLight(core.NewVec3(-4, 6, 4), core.NewVec3(0.9, 0.9, 0.9))
	w.AddPointLight(core.NewVec3(5, 3, 2), core.NewVec3(0.35, 0.35, 0.4))

	return w
}
