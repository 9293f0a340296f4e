package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
	"github.com/rmellor/go-whitted-raytracer/pkg/renderer"
	"github.com/rmellor/go-whitted-raytracer/pkg/scene"
)

// ProbeResponse describes what the primary ray through one pixel hits
type ProbeResponse struct {
	Hit          bool                   `json:"hit"`
	Pixel        [2]int                 `json:"pixel"`
	Color        [3]float64             `json:"color"`    // Linear, before gamma
	ColorHex     string                 `json:"colorHex"` // Display color
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// handleProbe casts the primary ray through one pixel and reports the
// shaded color plus details of the nearest surface
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	x, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	y, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	world, err := s.buildWorld(req)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if x < 0 || x >= world.Width() || y < 0 || y >= world.Height() {
		s.writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	tracer := renderer.NewTracer(world, world.Width(), world.Height(), 0)
	pixelColor := tracer.RenderPixel(x, y)

	response := ProbeResponse{
		Pixel:    [2]int{x, y},
		Color:    vec3Array(pixelColor),
		ColorHex: colorHex(pixelColor),
	}

	if hit, shape, found := probePixel(world, x, y); found {
		materialType, materialProps := extractMaterialInfo(hit.Material, hit.UV)
		geometryType, geometryProps := extractGeometryInfo(shape)

		response.Hit = true
		response.MaterialType = materialType
		response.GeometryType = geometryType
		response.Point = vec3Array(hit.Point)
		response.Normal = vec3Array(hit.Normal)
		response.Distance = hit.T
		response.FrontFace = hit.FrontFace
		response.Properties = map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// probePixel finds the nearest surface along the primary ray through the
// pixel center, together with the shape that produced it. The nearest-hit
// scan does not report the owning shape, so each shape is re-tested at the
// winning distance; insertion order keeps the tie-break consistent.
func probePixel(world *scene.World, x, y int) (*material.HitRecord, geometry.Shape, bool) {
	width, height := world.Width(), world.Height()
	sx := (float64(x) + 0.5) / float64(width)
	sy := (float64(height-1-y) + 0.5) / float64(height)
	ray := world.Camera.GetRay(sx, sy)

	tol := world.Tolerance()
	hit, found := world.FindNearestHit(ray, tol.MinT, math.Inf(1))
	if !found {
		return nil, nil, false
	}

	for _, shape := range world.Shapes() {
		if shapeHit, ok := shape.Hit(ray, tol.MinT, hit.T+tol.Geometry); ok && shapeHit.T == hit.T {
			return hit, shape, true
		}
	}
	return hit, nil, true
}

// extractMaterialInfo reports the material type and its parameters. The
// hit's texture coordinate resolves which side of a checkerboard was hit.
func extractMaterialInfo(mat material.Material, uv core.Vec2) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Flat:
		properties["color"] = vec3Array(m.Color)
		properties["colorHex"] = colorHex(m.Color)
		return "flat", properties

	case *material.Phong:
		properties["diffuse"] = vec3Array(m.Diffuse)
		properties["colorHex"] = colorHex(m.Diffuse)
		properties["kDiffuse"] = m.KDiffuse
		properties["kSpecular"] = m.KSpecular
		properties["shininess"] = m.Shininess
		if m.Reflection > 0 {
			properties["reflection"] = m.Reflection
		}
		if m.Transmission > 0 {
			properties["transmission"] = m.Transmission
			properties["refractiveIndex"] = m.RefractiveIndex
		}
		switch {
		case m.Transmission > 0:
			return "glass", properties
		case m.Reflection > 0 && m.KDiffuse == 0:
			return "mirror", properties
		default:
			return "phong", properties
		}

	case *material.Checkerboard:
		aType, aProps := extractMaterialInfo(m.A, uv)
		bType, bProps := extractMaterialInfo(m.B, uv)
		selectedType, _ := extractMaterialInfo(m.Select(uv), uv)
		properties["scale"] = m.Scale
		properties["a"] = map[string]interface{}{"type": aType, "properties": aProps}
		properties["b"] = map[string]interface{}{"type": bType, "properties": bProps}
		properties["selected"] = selectedType
		return "checkerboard", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo reports the shape type and its parameters
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vec3Array(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["center"] = vec3Array(geom.Center)
		properties["normal"] = vec3Array(geom.Normal)
		properties["width"] = geom.Width
		properties["height"] = geom.Height
		return "plane", properties

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{
			vec3Array(geom.V0.Position),
			vec3Array(geom.V1.Position),
			vec3Array(geom.V2.Position),
		}
		return "triangle", properties

	case *geometry.TriangleMesh:
		properties["triangleCount"] = geom.GetTriangleCount()
		bbox := geom.BoundingBox()
		properties["boundingBox"] = map[string]interface{}{
			"min": vec3Array(bbox.Min),
			"max": vec3Array(bbox.Max),
		}
		return "triangle_mesh", properties

	default:
		return "unknown", properties
	}
}

// vec3Array converts a vector to its JSON array form
func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// colorHex formats a linear color as a display hex string, applying the
// same gamma and clamp as the image encoder
func colorHex(c core.Vec3) string {
	display := c.GammaCorrect(2.0).Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(255*display.X), int(255*display.Y), int(255*display.Z))
}
