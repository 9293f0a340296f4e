package geometry

import (
	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// TriangleMesh represents a collection of triangles tested by a linear
// scan over every triangle. The scan shrinks its upper bound to the
// closest hit found so far, so earlier triangles win exact ties.
type TriangleMesh struct {
	triangles []*Triangle
	bbox      core.AABB // Overall bounding box
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	FaceNormals   []core.Vec3         // Optional custom face normals (one per triangle)
	VertexNormals []core.Vec3         // Optional shading normals (one per vertex)
	UVs           []core.Vec2         // Optional texture coordinates (one per vertex)
	Materials     []material.Material // Optional per-triangle materials
	Rotation      *core.Vec3          // Optional rotation to apply to vertices
	Center        *core.Vec3          // Optional center point for rotation
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices
// vertices: array of 3D points
// faces: array of triangle indices (each group of 3 indices forms a triangle)
// material: default material for all triangles
// options: optional parameters (can be nil for basic mesh)
func NewTriangleMesh(vertices []core.Vec3, faces []int, material material.Material, options *TriangleMeshOptions) *TriangleMesh {
	if len(faces)%3 != 0 {
		panic("Face indices must be a multiple of 3")
	}

	numTriangles := len(faces) / 3

	// Validate options if provided
	if options != nil {
		if options.FaceNormals != nil && len(options.FaceNormals) != numTriangles {
			panic("Number of face normals must match number of triangles")
		}
		if options.Materials != nil && len(options.Materials) != numTriangles {
			panic("Number of materials must match number of triangles")
		}
		if options.VertexNormals != nil && len(options.VertexNormals) != len(vertices) {
			panic("Number of vertex normals must match number of vertices")
		}
		if options.UVs != nil && len(options.UVs) != len(vertices) {
			panic("Number of texture coordinates must match number of vertices")
		}
	}

	// Apply rotation if specified
	workingVertices := vertices
	workingNormals := options.vertexNormals()
	if options != nil && options.Rotation != nil {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			// Translate to center, rotate, then translate back
			if options.Center != nil {
				vertex = vertex.Subtract(*options.Center)
			}
			vertex = vertex.Rotate(*options.Rotation)
			if options.Center != nil {
				vertex = vertex.Add(*options.Center)
			}
			workingVertices[i] = vertex
		}

		// Normals rotate without the translation
		if workingNormals != nil {
			rotated := make([]core.Vec3, len(workingNormals))
			for i, normal := range workingNormals {
				rotated[i] = normal.Rotate(*options.Rotation)
			}
			workingNormals = rotated
		}
	}

	triangles := make([]*Triangle, numTriangles)

	for i := 0; i < numTriangles; i++ {
		i0 := faces[i*3]
		i1 := faces[i*3+1]
		i2 := faces[i*3+2]

		// Bounds check
		if i0 >= len(workingVertices) || i1 >= len(workingVertices) || i2 >= len(workingVertices) ||
			i0 < 0 || i1 < 0 || i2 < 0 {
			panic("Face index out of bounds")
		}

		// Determine material for this triangle
		triangleMaterial := material
		if options != nil && options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}

		v0 := Vertex{Position: workingVertices[i0]}
		v1 := Vertex{Position: workingVertices[i1]}
		v2 := Vertex{Position: workingVertices[i2]}
		if workingNormals != nil {
			v0.Normal = workingNormals[i0]
			v1.Normal = workingNormals[i1]
			v2.Normal = workingNormals[i2]
		}
		if options != nil && options.UVs != nil {
			v0.UV = options.UVs[i0]
			v1.UV = options.UVs[i1]
			v2.UV = options.UVs[i2]
		}

		triangle := NewTriangleFromVertices(v0, v1, v2, triangleMaterial)
		if options != nil && options.FaceNormals != nil {
			triangle.normal = options.FaceNormals[i].Normalize()
		}
		triangles[i] = triangle
	}

	return NewTriangleMeshFromTriangles(triangles)
}

// NewTriangleMeshFromTriangles wraps already-built triangles in a mesh
func NewTriangleMeshFromTriangles(triangles []*Triangle) *TriangleMesh {
	var bbox core.AABB
	if len(triangles) > 0 {
		bbox = triangles[0].BoundingBox()
		for i := 1; i < len(triangles); i++ {
			bbox = bbox.Union(triangles[i].BoundingBox())
		}
	}

	return &TriangleMesh{
		triangles: triangles,
		bbox:      bbox,
	}
}

func (options *TriangleMeshOptions) vertexNormals() []core.Vec3 {
	if options == nil {
		return nil
	}
	return options.VertexNormals
}

// Hit tests every triangle in the mesh and returns the closest hit
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestT := tMax

	for _, triangle := range tm.triangles {
		if hit, isHit := triangle.Hit(ray, tMin, closestT); isHit {
			closest = hit
			closestT = hit.T
		}
	}

	return closest, closest != nil
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// GetTriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) GetTriangleCount() int {
	return len(tm.triangles)
}

// GetTriangles returns the individual triangles
func (tm *TriangleMesh) GetTriangles() []*Triangle {
	return tm.triangles
}
