package scene

import (
	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// NewMirrorsScene creates two mirrored spheres facing each other with
// small colored spheres between them. The repeated reflections exercise
// deep recursion, so the scene raises the depth cap.
func NewMirrorsScene(cameraOverrides ...geometry.CameraConfig) *World {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.4, 5.5),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       800,
		AspectRatio: 16.0 / 9.0,
		VFov:        45.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	w := NewWorld(core.NewVec3(0.1, 0.1, 0.14), cameraConfig)
	w.RenderConfig.MaxDepth = 16

	// Create materials
	mirror := material.NewMirror(0.9)
	phongOrange := material.NewPhong(core.NewVec3(0.95, 0.55, 0.15))
	phongTeal := material.NewPhong(core.NewVec3(0.15, 0.7, 0.65))
	checker := material.NewCheckerboardWithScale(
		material.NewPhong(core.NewVec3(0.8, 0.8, 0.85)),
		material.NewPhong(core.NewVec3(0.15, 0.15, 0.18)),
		10,
	)

	// Floor between the mirrors
	w.AddShape(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 30, 30, checker))

	// The two facing mirrors
	w.AddShape(geometry.NewSphere(core.NewVec3(-2.6, 1.2, 0), 1.2, mirror))
	w.AddShape(geometry.NewSphere(core.NewVec3(2.6, 1.2, 0), 1.2, mirror))

	// Colored spheres caught between them
	w.AddShape(geometry.NewSphere(core.NewVec3(-0.6, 0.4, 0.4), 0.4, phongOrange))
	w.AddShape(geometry.NewSphere(core.NewVec3(0.7, 0.35, -0.3), 0.35, phongTeal))

	// Overhead key light plus a low warm fill
	w.AddPointLight(core.NewVec3(0, 7, 3), core.NewVec3(0.9, 0.9, 0.9))
	w.AddPointLight(core.NewVec3(-3, 1.5, 4), core.NewVec3(0.3, 0.25, 0.2))

	return w
}
