package scene

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/loaders"
	"github.com/rmellor/go-whitted-raytracer/pkg/material"
)

// yamlScene mirrors the on-disk scene file layout
type yamlScene struct {
	Camera     yamlCamera              `yaml:"camera"`
	Render     yamlRender              `yaml:"render"`
	Background []float64               `yaml:"background"`
	Materials  map[string]yamlMaterial `yaml:"materials"`
	Shapes     []yamlShape             `yaml:"shapes"`
	Lights     []yamlLight             `yaml:"lights"`
}

type yamlCamera struct {
	Center      []float64 `yaml:"center"`
	LookAt      []float64 `yaml:"look_at"`
	Up          []float64 `yaml:"up"`
	Width       int       `yaml:"width"`
	AspectRatio float64   `yaml:"aspect_ratio"`
	VFov        float64   `yaml:"vfov"`
}

type yamlRender struct {
	MaxDepth    int `yaml:"max_depth"`
	Supersample int `yaml:"supersample"`
}

type yamlMaterial struct {
	Type         string    `yaml:"type"`
	Diffuse      []float64 `yaml:"diffuse"`
	Ambient      []float64 `yaml:"ambient"`
	Specular     []float64 `yaml:"specular"`
	KDiffuse     *float64  `yaml:"k_diffuse"`
	KSpecular    *float64  `yaml:"k_specular"`
	Shininess    *float64  `yaml:"shininess"`
	Reflection   *float64  `yaml:"reflection"`
	Transmission *float64  `yaml:"transmission"`
	IOR          *float64  `yaml:"ior"`
	Color        []float64 `yaml:"color"` // flat only
	A            string    `yaml:"a"`     // checkerboard material names
	B            string    `yaml:"b"`
	Scale        *float64  `yaml:"scale"`
}

type yamlShape struct {
	Type     string `yaml:"type"`
	Material string `yaml:"material"`

	// sphere and plane
	Center []float64 `yaml:"center"`
	Radius float64   `yaml:"radius"`
	Normal []float64 `yaml:"normal"`
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`

	// triangle
	V0 []float64 `yaml:"v0"`
	V1 []float64 `yaml:"v1"`
	V2 []float64 `yaml:"v2"`

	// mesh, either inline or loaded from an STL/OBJ file
	Vertices      [][]float64 `yaml:"vertices"`
	Faces         []int       `yaml:"faces"`
	File          string      `yaml:"file"`
	Scale         float64     `yaml:"scale"`
	Normalize     bool        `yaml:"normalize"`
	SmoothNormals bool        `yaml:"smooth_normals"`
	Rotation      []float64   `yaml:"rotation"` // degrees around x, y, z
}

type yamlLight struct {
	Position  []float64 `yaml:"position"`
	Intensity []float64 `yaml:"intensity"`
}

// LoadYAMLFile reads a scene description from a YAML file
func LoadYAMLFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	world, err := LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return world, nil
}

// LoadYAML builds a world from a YAML scene description. Shapes are
// added in file order, which decides exact intersection ties.
func LoadYAML(data []byte) (*World, error) {
	var doc yamlScene
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scene yaml: %w", err)
	}

	cameraConfig, err := doc.Camera.toConfig()
	if err != nil {
		return nil, err
	}

	background := core.NewVec3(0, 0, 0)
	if doc.Background != nil {
		if background, err = toVec3(doc.Background); err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
	}

	world := NewWorld(background, cameraConfig)
	if doc.Render.MaxDepth > 0 {
		world.RenderConfig.MaxDepth = doc.Render.MaxDepth
	}
	if doc.Render.Supersample > 0 {
		world.RenderConfig.Supersample = doc.Render.Supersample
	}

	resolve := newMaterialResolver(doc.Materials)

	for i, shapeDef := range doc.Shapes {
		shape, err := buildShape(shapeDef, resolve)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		world.AddShape(shape)
	}

	for i, lightDef := range doc.Lights {
		position, err := toVec3(lightDef.Position)
		if err != nil {
			return nil, fmt.Errorf("light %d position: %w", i, err)
		}
		intensity, err := toVec3(lightDef.Intensity)
		if err != nil {
			return nil, fmt.Errorf("light %d intensity: %w", i, err)
		}
		world.AddPointLight(position, intensity)
	}

	return world, nil
}

func (c yamlCamera) toConfig() (geometry.CameraConfig, error) {
	config := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1, 4),
		LookAt:      core.NewVec3(0, 0.5, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       800,
		AspectRatio: 16.0 / 9.0,
		VFov:        45.0,
	}

	var err error
	if c.Center != nil {
		if config.Center, err = toVec3(c.Center); err != nil {
			return config, fmt.Errorf("camera center: %w", err)
		}
	}
	if c.LookAt != nil {
		if config.LookAt, err = toVec3(c.LookAt); err != nil {
			return config, fmt.Errorf("camera look_at: %w", err)
		}
	}
	if c.Up != nil {
		if config.Up, err = toVec3(c.Up); err != nil {
			return config, fmt.Errorf("camera up: %w", err)
		}
	}
	if c.Width > 0 {
		config.Width = c.Width
	}
	if c.AspectRatio > 0 {
		config.AspectRatio = c.AspectRatio
	}
	if c.VFov > 0 {
		config.VFov = c.VFov
	}
	return config, nil
}

// newMaterialResolver returns a lookup that builds materials on demand,
// following checkerboard references and rejecting reference cycles
func newMaterialResolver(defs map[string]yamlMaterial) func(string) (material.Material, error) {
	built := make(map[string]material.Material)
	visiting := make(map[string]bool)

	var resolve func(name string) (material.Material, error)
	resolve = func(name string) (material.Material, error) {
		if name == "" {
			return nil, fmt.Errorf("missing material name")
		}
		if m, ok := built[name]; ok {
			return m, nil
		}
		def, ok := defs[name]
		if !ok {
			return nil, fmt.Errorf("unknown material %q", name)
		}
		if visiting[name] {
			return nil, fmt.Errorf("material %q is part of a reference cycle", name)
		}
		visiting[name] = true
		defer delete(visiting, name)

		m, err := buildMaterial(def, resolve)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		built[name] = m
		return m, nil
	}
	return resolve
}

func buildMaterial(def yamlMaterial, resolve func(string) (material.Material, error)) (material.Material, error) {
	switch def.Type {
	case "phong", "":
		diffuse := core.NewVec3(0.8, 0.8, 0.8)
		var err error
		if def.Diffuse != nil {
			if diffuse, err = toVec3(def.Diffuse); err != nil {
				return nil, fmt.Errorf("diffuse: %w", err)
			}
		}
		p := material.NewPhong(diffuse)
		if def.Ambient != nil {
			if p.Ambient, err = toVec3(def.Ambient); err != nil {
				return nil, fmt.Errorf("ambient: %w", err)
			}
		}
		if def.Specular != nil {
			if p.Specular, err = toVec3(def.Specular); err != nil {
				return nil, fmt.Errorf("specular: %w", err)
			}
		}
		if def.KDiffuse != nil {
			p.KDiffuse = *def.KDiffuse
		}
		if def.KSpecular != nil {
			p.KSpecular = *def.KSpecular
		}
		if def.Shininess != nil {
			p.Shininess = *def.Shininess
		}
		if def.Reflection != nil {
			p.Reflection = *def.Reflection
		}
		if def.Transmission != nil {
			p.Transmission = *def.Transmission
		}
		if def.IOR != nil {
			p.RefractiveIndex = *def.IOR
		}
		return p, nil

	case "mirror":
		reflection := 0.9
		if def.Reflection != nil {
			reflection = *def.Reflection
		}
		return material.NewMirror(reflection), nil

	case "glass":
		transmission := 0.9
		if def.Transmission != nil {
			transmission = *def.Transmission
		}
		ior := 1.5
		if def.IOR != nil {
			ior = *def.IOR
		}
		return material.NewGlass(transmission, ior), nil

	case "flat":
		color, err := toVec3(def.Color)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		return material.NewFlat(color), nil

	case "checkerboard":
		a, err := resolve(def.A)
		if err != nil {
			return nil, fmt.Errorf("first checker: %w", err)
		}
		b, err := resolve(def.B)
		if err != nil {
			return nil, fmt.Errorf("second checker: %w", err)
		}
		scale := material.DefaultCheckerScale
		if def.Scale != nil {
			scale = *def.Scale
		}
		return material.NewCheckerboardWithScale(a, b, scale), nil

	default:
		return nil, fmt.Errorf("unknown material type %q", def.Type)
	}
}

func buildShape(def yamlShape, resolve func(string) (material.Material, error)) (geometry.Shape, error) {
	mat, err := resolve(def.Material)
	if err != nil {
		return nil, err
	}

	switch def.Type {
	case "sphere":
		center, err := toVec3(def.Center)
		if err != nil {
			return nil, fmt.Errorf("center: %w", err)
		}
		if def.Radius <= 0 {
			return nil, fmt.Errorf("radius must be positive, got %v", def.Radius)
		}
		return geometry.NewSphere(center, def.Radius, mat), nil

	case "plane":
		center, err := toVec3(def.Center)
		if err != nil {
			return nil, fmt.Errorf("center: %w", err)
		}
		normal, err := toVec3(def.Normal)
		if err != nil {
			return nil, fmt.Errorf("normal: %w", err)
		}
		if def.Width <= 0 || def.Height <= 0 {
			return nil, fmt.Errorf("width and height must be positive, got %v x %v", def.Width, def.Height)
		}
		return geometry.NewPlane(center, normal, def.Width, def.Height, mat), nil

	case "triangle":
		v0, err := toVec3(def.V0)
		if err != nil {
			return nil, fmt.Errorf("v0: %w", err)
		}
		v1, err := toVec3(def.V1)
		if err != nil {
			return nil, fmt.Errorf("v1: %w", err)
		}
		v2, err := toVec3(def.V2)
		if err != nil {
			return nil, fmt.Errorf("v2: %w", err)
		}
		return geometry.NewTriangle(v0, v1, v2, mat), nil

	case "mesh":
		var rotation *core.Vec3
		if def.Rotation != nil {
			degrees, err := toVec3(def.Rotation)
			if err != nil {
				return nil, fmt.Errorf("rotation: %w", err)
			}
			radians := degrees.Multiply(math.Pi / 180)
			rotation = &radians
		}
		if def.File != "" {
			return loaders.LoadMesh(def.File, loaders.MeshOptions{
				Scale:         def.Scale,
				Normalize:     def.Normalize,
				Rotation:      rotation,
				SmoothNormals: def.SmoothNormals,
				Material:      mat,
			})
		}
		return buildInlineMesh(def, mat, rotation)

	default:
		return nil, fmt.Errorf("unknown shape type %q", def.Type)
	}
}

func buildInlineMesh(def yamlShape, mat material.Material, rotation *core.Vec3) (geometry.Shape, error) {
	if len(def.Vertices) == 0 {
		return nil, fmt.Errorf("mesh needs either a file or inline vertices")
	}
	if len(def.Faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(def.Faces))
	}

	vertices := make([]core.Vec3, len(def.Vertices))
	for i, v := range def.Vertices {
		vertex, err := toVec3(v)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		vertices[i] = vertex
	}

	for i, index := range def.Faces {
		if index < 0 || index >= len(vertices) {
			return nil, fmt.Errorf("face index %d out of range at position %d", index, i)
		}
	}

	var options *geometry.TriangleMeshOptions
	if rotation != nil {
		options = &geometry.TriangleMeshOptions{Rotation: rotation}
	}

	return geometry.NewTriangleMesh(vertices, def.Faces, mat, options), nil
}

func toVec3(values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}
