package scene

import (
	"math"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// NewTriangleMeshScene creates a scene showcasing triangle mesh geometry
func NewTriangleMeshScene(cameraOverrides ...geometry.CameraConfig) *World {
	cameraConfig := setupTriangleMeshCamera(cameraOverrides...)

	w := NewWorld(core.NewVec3(0.5, 0.7, 1.0), cameraConfig)

	addTriangleMeshLighting(w)
	addTriangleMeshGround(w)
	addTriangleMeshGeometry(w)

	return w
}

// setupTriangleMeshCamera configures the camera for the triangle mesh scene
func setupTriangleMeshCamera(cameraOverrides ...geometry.CameraConfig) geometry.CameraConfig {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 2, 6), // Position camera to see the meshes
		LookAt:      core.NewVec3(0, 1, 0), // Look at the center of the scene
		Up:          core.NewVec3(0, 1, 0), // Standard up direction
		Width:       800,
		AspectRatio: 16.0 / 9.0,
		VFov:        45.0,
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	return cameraConfig
}

// addTriangleMeshLighting adds lighting to the scene
func addTriangleMeshLighting(w *World) {
	// Main overhead light
	w.AddPointLight(core.NewVec3(2, 6, 3), core.NewVec3(0.85, 0.8, 0.75))

	// Secondary fill light
	w.AddPointLight(core.NewVec3(-3, 4, 2), core.NewVec3(0.25, 0.3, 0.35))
}

// addTriangleMeshGround adds a ground plane to the scene
func addTriangleMeshGround(w *World) {
	groundMaterial := material.NewPhong(core.NewVec3(0.7, 0.7, 0.7))
	groundPlane := geometry.NewPlane(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		40, 40,
		groundMaterial,
	)
	w.AddShape(groundPlane)
}

// addTriangleMeshGeometry adds simple triangle mesh objects
func addTriangleMeshGeometry(w *World) {
	// Create materials
	phongRed := material.NewPhong(core.NewVec3(0.8, 0.2, 0.2))
	phongBlue := material.NewPhong(core.NewVec3(0.2, 0.3, 0.8))
	mirrorGold := material.NewMirror(0.7)

	// Simple triangle mesh box - rotated to show multiple faces
	boxMesh := createBoxMesh(
		core.NewVec3(-2, 0.5, 0),      // center (sitting on ground)
		core.NewVec3(1, 1, 1),         // size
		core.NewVec3(0, math.Pi/6, 0), // rotation (30 degrees around Y-axis)
		phongRed,
	)
	w.AddShape(boxMesh)

	// Triangle mesh pyramid - rotated around Y-axis to show it's actually a pyramid
	pyramidMesh := createPyramidMesh(
		core.NewVec3(0, 1, 0),         // center
		1.5,                           // base size
		2.0,                           // height
		core.NewVec3(0, math.Pi/4, 0), // rotation (45 degrees around Y-axis only)
		phongBlue,
	)
	w.AddShape(pyramidMesh)

	// Triangle mesh icosahedron - rotated to show its complex geometry
	icosahedronMesh := createIcosahedronMesh(
		core.NewVec3(2, 0.8, 0),       // center (sitting on ground)
		0.8,                           // radius
		core.NewVec3(0, math.Pi/3, 0), // rotation (60 degrees around Y-axis)
		mirrorGold,
	)
	w.AddShape(icosahedronMesh)
}

// createBoxMesh creates a triangle mesh representing a box
func createBoxMesh(center, size core.Vec3, rotation core.Vec3, material material.Material) *geometry.TriangleMesh {
	// Calculate the 8 corners of the box
	halfSize := size.Multiply(0.5)
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, -halfSize.Z)), // 0: left-bottom-back
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, -halfSize.Z)), // 1: right-bottom-back
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, -halfSize.Z)), // 2: right-top-back
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, -halfSize.Z)), // 3: left-top-back
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, +halfSize.Z)), // 4: left-bottom-front
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, +halfSize.Z)), // 5: right-bottom-front
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, +halfSize.Z)), // 6: right-top-front
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, +halfSize.Z)), // 7: left-top-front
	}

	// Define the 12 triangles (2 per face, 6 faces)
	faces := []int{
		// Back face (Z-)
		0, 1, 2, 0, 2, 3,
		// Front face (Z+)
		4, 6, 5, 4, 7, 6,
		// Left face (X-)
		0, 3, 7, 0, 7, 4,
		// Right face (X+)
		1, 5, 6, 1, 6, 2,
		// Bottom face (Y-)
		0, 4, 5, 0, 5, 1,
		// Top face (Y+)
		3, 2, 6, 3, 6, 7,
	}

	return geometry.NewTriangleMesh(vertices, faces, material, meshRotationOptions(center, rotation))
}

// createPyramidMesh creates a triangle mesh representing a pyramid
func createPyramidMesh(center core.Vec3, baseSize, height float64, rotation core.Vec3, material material.Material) *geometry.TriangleMesh {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		// Base vertices (Y = center.Y - halfHeight)
		center.Add(core.NewVec3(-halfBase, -halfHeight, -halfBase)), // 0: left-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, -halfBase)), // 1: right-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, +halfBase)), // 2: right-front
		center.Add(core.NewVec3(-halfBase, -halfHeight, +halfBase)), // 3: left-front
		// Apex (Y = center.Y + halfHeight)
		center.Add(core.NewVec3(0, +halfHeight, 0)), // 4: apex
	}

	faces := []int{
		// Base (2 triangles)
		0, 2, 1, 0, 3, 2,
		// Side faces
		0, 1, 4, // back face
		1, 2, 4, // right face
		2, 3, 4, // front face
		3, 0, 4, // left face
	}

	return geometry.NewTriangleMesh(vertices, faces, material, meshRotationOptions(center, rotation))
}

// createIcosahedronMesh creates a triangle mesh representing an icosahedron (20-sided polyhedron)
func createIcosahedronMesh(center core.Vec3, radius float64, rotation core.Vec3, material material.Material) *geometry.TriangleMesh {
	// Golden ratio
	phi := (1.0 + math.Sqrt(5)) / 2.0

	// Scale factor to achieve desired radius
	scale := radius / phi

	// 12 vertices of icosahedron
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-1, phi, 0).Multiply(scale)),  // 0
		center.Add(core.NewVec3(1, phi, 0).Multiply(scale)),   // 1
		center.Add(core.NewVec3(-1, -phi, 0).Multiply(scale)), // 2
		center.Add(core.NewVec3(1, -phi, 0).Multiply(scale)),  // 3
		center.Add(core.NewVec3(0, -1, phi).Multiply(scale)),  // 4
		center.Add(core.NewVec3(0, 1, phi).Multiply(scale)),   // 5
		center.Add(core.NewVec3(0, -1, -phi).Multiply(scale)), // 6
		center.Add(core.NewVec3(0, 1, -phi).Multiply(scale)),  // 7
		center.Add(core.NewVec3(phi, 0, -1).Multiply(scale)),  // 8
		center.Add(core.NewVec3(phi, 0, 1).Multiply(scale)),   // 9
		center.Add(core.NewVec3(-phi, 0, -1).Multiply(scale)), // 10
		center.Add(core.NewVec3(-phi, 0, 1).Multiply(scale)),  // 11
	}

	// 20 triangular faces
	faces := []int{
		// 5 faces around point 0
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		// 5 adjacent faces
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		// 5 faces around point 3
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		// 5 adjacent faces
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return geometry.NewTriangleMesh(vertices, faces, material, meshRotationOptions(center, rotation))
}

// meshRotationOptions builds mesh options rotating vertices around the
// mesh center, or nil when no rotation applies
func meshRotationOptions(center, rotation core.Vec3) *geometry.TriangleMeshOptions {
	if rotation.X == 0 && rotation.Y == 0 && rotation.Z == 0 {
		return nil
	}
	return &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	}
}
