package scene

import (
	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// NewGlassScene creates a glass sphere in front of colored spheres over
// a checkered floor, showing refraction with the Fresnel reflection that
// grows toward grazing angles
func NewGlassScene(cameraOverrides ...geometry.CameraConfig) *World {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.2, 3.5),
		LookAt:      core.NewVec3(0, 0.7, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       800,
		AspectRatio: 16.0 / 9.0,
		VFov:        42.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	w := NewWorld(core.NewVec3(0.53, 0.81, 0.92), cameraConfig)
	w.RenderConfig.MaxDepth = 12

	// Create materials
	glass := material.NewGlass(0.9, 1.5)
	phongRed := material.NewPhong(core.NewVec3(0.85, 0.2, 0.2))
	phongYellow := material.NewPhong(core.NewVec3(0.9, 0.8, 0.2))
	checker := material.NewCheckerboardWithScale(
		material.NewPhong(core.NewVec3(0.9, 0.9, 0.9)),
		material.NewPhong(core.NewVec3(0.12, 0.12, 0.12)),
		12,
	)

	// Checkered floor
	w.AddShape(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 30, 30, checker))

	// Glass sphere up front; the scene behind it appears inverted
	w.AddShape(geometry.NewSphere(core.NewVec3(0, 0.7, 0.8), 0.7, glass))

	// Colored spheres seen through the glass
	w.AddShape(geometry.NewSphere(core.NewVec3(-1.1, 0.5, -1.2), 0.5, phongRed))
	w.AddShape(geometry.NewSphere(core.NewVec3(1.1, 0.5, -1.2), 0.5, phongYellow))

	// Single strong key light
	w.AddPointLight(core.NewVec3(-3, 5, 4), core.NewVec3(1, 1, 1))

	return w
}
