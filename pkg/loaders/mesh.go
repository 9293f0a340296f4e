package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// MeshOptions controls how a mesh file is converted into scene geometry
type MeshOptions struct {
	Scale         float64           // Uniform scale factor, 0 means unscaled
	Normalize     bool              // Fit the mesh into a bi-unit cube centered at the origin
	Rotation      *core.Vec3        // Rotation about the origin in radians, applied per axis in X, Y, Z order
	SmoothNormals bool              // Replace loaded normals with averaged vertex normals
	Material      material.Material // Material applied to every triangle
}

// LoadMesh reads a triangle mesh from an STL or OBJ file and applies the
// requested transforms. Transforms run in normalize, rotate, scale order so
// that rotation and scaling act on the recentered mesh.
func LoadMesh(path string, options MeshOptions) (*geometry.TriangleMesh, error) {
	mesh, err := readMeshFile(path)
	if err != nil {
		return nil, err
	}
	if len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("mesh file %s contains no triangles", path)
	}

	if options.Normalize {
		mesh.BiUnitCube()
	}
	if options.Rotation != nil {
		r := *options.Rotation
		matrix := fauxgl.Rotate(fauxgl.V(1, 0, 0), r.X).
			Rotate(fauxgl.V(0, 1, 0), r.Y).
			Rotate(fauxgl.V(0, 0, 1), r.Z)
		mesh.Transform(matrix)
	}
	if options.Scale != 0 && options.Scale != 1 {
		s := options.Scale
		mesh.Transform(fauxgl.Scale(fauxgl.V(s, s, s)))
	}
	if options.SmoothNormals {
		mesh.SmoothNormals()
	}

	triangles := make([]*geometry.Triangle, 0, len(mesh.Triangles))
	for _, t := range mesh.Triangles {
		triangles = append(triangles, geometry.NewTriangleFromVertices(
			convertVertex(t.V1),
			convertVertex(t.V2),
			convertVertex(t.V3),
			options.Material,
		))
	}

	return geometry.NewTriangleMeshFromTriangles(triangles), nil
}

// readMeshFile dispatches on the file extension to the matching format reader
func readMeshFile(path string) (*fauxgl.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		mesh, err := fauxgl.LoadSTL(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load STL file %s: %w", path, err)
		}
		return mesh, nil
	case ".obj":
		mesh, err := fauxgl.LoadOBJ(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load OBJ file %s: %w", path, err)
		}
		return mesh, nil
	default:
		return nil, fmt.Errorf("unsupported mesh format %q, want .stl or .obj", ext)
	}
}

// convertVertex maps a loaded vertex into scene geometry. STL files carry face
// normals on every vertex, OBJ files carry whatever vn and vt entries declare.
func convertVertex(v fauxgl.Vertex) geometry.Vertex {
	return geometry.Vertex{
		Position: core.NewVec3(v.Position.X, v.Position.Y, v.Position.Z),
		Normal:   core.NewVec3(v.Normal.X, v.Normal.Y, v.Normal.Z),
		UV:       core.NewVec2(v.Texture.X, v.Texture.Y),
	}
}
