package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/renderer"
	"github.com/rmellor/go-whitted-raytracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneID     string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"mirrors scene", "mirrors", false},
		{"glass scene", "glass", false},
		{"triangle-mesh scene", "triangle-mesh", false},

		// YAML scenes
		{"yaml scene by name", "showcase", false},
		{"yaml scene by path", "scenes/showcase.yaml", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid yaml path", "scenes/nonexistent.yaml", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world, err := createScene(tt.sceneID, 0, 0)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene '%s', but got none", tt.sceneID)
				}
				if world != nil {
					t.Errorf("Expected nil world for invalid scene '%s', got %T", tt.sceneID, world)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene '%s': %v", tt.sceneID, err)
			}
			if world == nil {
				t.Fatalf("Expected world for valid scene '%s', got nil", tt.sceneID)
			}
			if world.Width() <= 0 {
				t.Errorf("Scene width should be positive, got %d", world.Width())
			}
			if world.Height() <= 0 {
				t.Errorf("Scene height should be positive, got %d", world.Height())
			}
			if world.GetPrimitiveCount() == 0 {
				t.Errorf("Scene '%s' should contain shapes", tt.sceneID)
			}
		})
	}
}

func TestCreateSceneSizeOverrides(t *testing.T) {
	world, err := createScene("default", 400, 200)
	if err != nil {
		t.Fatalf("createScene failed: %v", err)
	}
	if world.Width() != 400 {
		t.Errorf("Expected width 400, got %d", world.Width())
	}
	if world.Height() != 200 {
		t.Errorf("Expected height 200, got %d", world.Height())
	}

	// A height-only override keeps the scene's own width
	world, err = createScene("default", 0, 200)
	if err != nil {
		t.Fatalf("createScene failed: %v", err)
	}
	if world.Width() != 800 {
		t.Errorf("Expected width 800, got %d", world.Width())
	}
	if world.Height() != 200 {
		t.Errorf("Expected height 200, got %d", world.Height())
	}
}

// chdir switches to dir for the duration of the test and restores the
// previous working directory on cleanup. Stand-in for testing.T.Chdir,
// which needs Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("failed to restore working directory: %v", err)
		}
	})
}

func TestCreateOutputDir(t *testing.T) {
	chdir(t, t.TempDir())

	tests := []struct {
		name         string
		sceneID      string
		expectedBase string
	}{
		{"builtin scene", "default", "default"},
		{"yaml scene by name", "showcase", "showcase"},
		{"yaml scene by path", "scenes/showcase.yaml", "showcase"},
		{"nested yaml path", "scenes/subdir/my-scene.yaml", "my-scene"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := createOutputDir(tt.sceneID)
			if err != nil {
				t.Fatalf("createOutputDir failed: %v", err)
			}

			expected := filepath.Join("output", tt.expectedBase)
			if dir != expected {
				t.Errorf("Expected directory %q, got %q", expected, dir)
			}

			info, err := os.Stat(dir)
			if err != nil {
				t.Fatalf("Output directory was not created: %v", err)
			}
			if !info.IsDir() {
				t.Errorf("Expected %q to be a directory", dir)
			}
		})
	}
}

func TestOutputFile(t *testing.T) {
	chdir(t, t.TempDir())

	explicit := &renderJob{SceneID: "default", Output: "custom.png"}
	got, err := explicit.outputFile("png")
	if err != nil {
		t.Fatalf("outputFile failed: %v", err)
	}
	if got != "custom.png" {
		t.Errorf("Expected explicit output path, got %q", got)
	}

	job := &renderJob{SceneID: "default"}
	got, err = job.outputFile("png")
	if err != nil {
		t.Fatalf("outputFile failed: %v", err)
	}
	prefix := filepath.Join("output", "default", "render_")
	if !strings.HasPrefix(got, prefix) {
		t.Errorf("Expected prefix %q, got %q", prefix, got)
	}
	if !strings.HasSuffix(got, ".png") {
		t.Errorf("Expected .png suffix, got %q", got)
	}

	got, err = job.outputFile("gif")
	if err != nil {
		t.Fatalf("outputFile failed: %v", err)
	}
	prefix = filepath.Join("output", "default", "animate_")
	if !strings.HasPrefix(got, prefix) {
		t.Errorf("Expected prefix %q, got %q", prefix, got)
	}
	if !strings.HasSuffix(got, ".gif") {
		t.Errorf("Expected .gif suffix, got %q", got)
	}
}

func TestOrbitCamera(t *testing.T) {
	world := scene.NewWorld(core.NewVec3(0, 0, 0), geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 4),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       100,
		AspectRatio: 1,
		VFov:        45,
	})

	mutate := orbitCamera(90)
	mutate(1, world)

	center := world.CameraConfig.Center
	if math.Abs(center.X-4) > 1e-9 || math.Abs(center.Y) > 1e-9 || math.Abs(center.Z) > 1e-9 {
		t.Errorf("Expected camera near (4, 0, 0) after a quarter turn, got %v", center)
	}
	if math.Abs(center.Length()-4) > 1e-9 {
		t.Errorf("Orbit should preserve camera distance, got %v", center.Length())
	}

	// Three more quarter turns return to the start
	for frame := 2; frame <= 4; frame++ {
		mutate(frame, world)
	}
	center = world.CameraConfig.Center
	if math.Abs(center.X) > 1e-9 || math.Abs(center.Z-4) > 1e-9 {
		t.Errorf("Expected camera back at (0, 0, 4) after a full orbit, got %v", center)
	}
}

func TestSavePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	path := filepath.Join(t.TempDir(), "out.png")

	if err := savePNG(img, path); err != nil {
		t.Fatalf("savePNG failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open saved file: %v", err)
	}
	defer file.Close()

	decoded, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Saved file is not a valid PNG: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != 4 || bounds.Dy() != 4 {
		t.Errorf("Expected a 4x4 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestSavePNGCreateError(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	path := filepath.Join(t.TempDir(), "missing", "out.png")

	if err := savePNG(img, path); err == nil {
		t.Error("Expected an error when the parent directory does not exist")
	}
}

func TestEncodeGIF(t *testing.T) {
	frames := []*image.RGBA{
		image.NewRGBA(image.Rect(0, 0, 8, 8)),
		image.NewRGBA(image.Rect(0, 0, 8, 8)),
	}
	frames[0].Set(2, 2, color.RGBA{R: 255, A: 255})
	frames[1].Set(5, 5, color.RGBA{B: 255, A: 255})

	anim := encodeGIF(frames, 7)

	if len(anim.Image) != 2 {
		t.Fatalf("Expected 2 frames, got %d", len(anim.Image))
	}
	if len(anim.Delay) != 2 {
		t.Fatalf("Expected 2 delays, got %d", len(anim.Delay))
	}
	for i, delay := range anim.Delay {
		if delay != 7 {
			t.Errorf("Frame %d: expected delay 7, got %d", i, delay)
		}
	}
	for i, frame := range anim.Image {
		bounds := frame.Bounds()
		if bounds.Dx() != 8 || bounds.Dy() != 8 {
			t.Errorf("Frame %d: expected 8x8, got %dx%d", i, bounds.Dx(), bounds.Dy())
		}
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		t.Fatalf("EncodeAll failed: %v", err)
	}
	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}
	if len(decoded.Image) != 2 {
		t.Errorf("Expected 2 decoded frames, got %d", len(decoded.Image))
	}
}

func TestWatchSceneRejectsBuiltins(t *testing.T) {
	err := watchScene(context.Background(), &renderJob{SceneID: "default"}, renderer.NewDefaultLogger())
	if err == nil {
		t.Fatal("Expected an error for a built-in scene")
	}
	if !strings.Contains(err.Error(), "not a watchable file") {
		t.Errorf("Unexpected error: %v", err)
	}
}
