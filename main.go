package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/renderer"
	"github.com/rmellor/go-whitted-raytracer/pkg/scene"
)

// debounceDelay collapses editor save bursts into a single re-render
const debounceDelay = 250 * time.Millisecond

func main() {
	job := &renderJob{}
	flag.StringVar(&job.SceneID, "scene", "default", "Scene ID or path to a YAML scene file")
	flag.IntVar(&job.Width, "width", 0, "Override image width in pixels")
	flag.IntVar(&job.Height, "height", 0, "Override image height in pixels")
	flag.IntVar(&job.MaxDepth, "depth", 0, "Override maximum recursion depth")
	flag.IntVar(&job.Workers, "workers", 0, "Number of render workers (0 = all CPUs)")
	flag.IntVar(&job.Supersample, "supersample", 0, "Override supersampling factor (1 = off)")
	flag.StringVar(&job.Output, "out", "", "Output file (default: timestamped file under output/<scene>/)")
	flag.IntVar(&job.Frames, "frames", 1, "Number of animation frames (more than 1 produces a GIF)")
	flag.IntVar(&job.GIFDelay, "gif-delay", 5, "Delay between GIF frames in 1/100ths of a second")
	flag.Float64Var(&job.OrbitStep, "orbit", 0, "Camera orbit per animation frame in degrees")
	watch := flag.Bool("watch", false, "Re-render whenever the scene file changes")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}
	if *list {
		listScenes()
		return
	}

	// Ctrl+C cancels the context; in-flight columns finish and the run
	// returns a canceled error instead of a partial image.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := renderer.NewDefaultLogger()
	logger.Printf("Starting Whitted Raytracer...\n")

	var err error
	if *watch {
		err = watchScene(ctx, job, logger)
	} else {
		err = job.Run(ctx, logger)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Scenes are built-in IDs, names of YAML files under scenes/, or paths")
	fmt.Println("to YAML scene files. Use -list to see everything available.")
	fmt.Println()
	fmt.Println("Output is saved to output/<scene>/render_<timestamp>.png unless -out is given.")
}

func listScenes() {
	response, err := scene.ListAllScenes()
	if err != nil {
		fmt.Printf("Error listing scenes: %v\n", err)
		os.Exit(1)
	}
	for _, group := range response.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			if info.Description != "" {
				fmt.Printf("  %-16s %s\n", info.ID, info.Description)
			} else {
				fmt.Printf("  %s\n", info.ID)
			}
		}
		fmt.Println()
	}
}

// renderJob bundles the settings for one render run so watch mode can
// repeat the run on every scene file change.
type renderJob struct {
	SceneID     string
	Width       int
	Height      int
	MaxDepth    int
	Workers     int
	Supersample int
	Output      string
	Frames      int
	GIFDelay    int
	OrbitStep   float64
}

// Run renders the job's scene once: a single PNG, or a GIF when more
// than one frame was requested.
func (j *renderJob) Run(ctx context.Context, logger core.Logger) error {
	world, err := createScene(j.SceneID, j.Width, j.Height)
	if err != nil {
		return err
	}
	if j.MaxDepth > 0 {
		world.RenderConfig.MaxDepth = j.MaxDepth
	}
	if j.Supersample > 0 {
		world.RenderConfig.Supersample = j.Supersample
	}

	rend := renderer.NewRenderer(world, renderer.Config{Workers: j.Workers}, logger)

	if j.Frames > 1 {
		return j.renderAnimation(ctx, rend, logger)
	}
	return j.renderFrame(ctx, rend, logger)
}

func (j *renderJob) renderFrame(ctx context.Context, rend *renderer.Renderer, logger core.Logger) error {
	img, stats, err := rend.Render(ctx)
	if err != nil {
		return err
	}
	stats.LogSummary(logger)

	filename, err := j.outputFile("png")
	if err != nil {
		return err
	}
	if err := savePNG(img, filename); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)
	return nil
}

func (j *renderJob) renderAnimation(ctx context.Context, rend *renderer.Renderer, logger core.Logger) error {
	var mutate renderer.MutateFunc
	if j.OrbitStep != 0 {
		mutate = orbitCamera(j.OrbitStep)
	}

	animator := renderer.NewAnimator(rend, mutate)
	frames, err := animator.RenderFrames(ctx, j.Frames)
	if err != nil {
		return err
	}

	filename, err := j.outputFile("gif")
	if err != nil {
		return err
	}
	if err := saveGIF(frames, j.GIFDelay, filename); err != nil {
		return err
	}
	logger.Printf("Animation saved as %s\n", filename)
	return nil
}

// outputFile returns the explicit -out path when one was given, or a
// timestamped file in the scene's output directory.
func (j *renderJob) outputFile(ext string) (string, error) {
	if j.Output != "" {
		return j.Output, nil
	}

	dir, err := createOutputDir(j.SceneID)
	if err != nil {
		return "", err
	}
	prefix := "render"
	if ext == "gif" {
		prefix = "animate"
	}
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", prefix, timestamp, ext)), nil
}

// createScene builds the world for a scene ID and applies any size
// overrides from the command line.
func createScene(sceneID string, width, height int) (*scene.World, error) {
	world, err := scene.CreateScene(sceneID)
	if err != nil {
		return nil, err
	}

	override := geometry.CameraConfig{Width: width}
	if height > 0 {
		effectiveWidth := width
		if effectiveWidth == 0 {
			effectiveWidth = world.Width()
		}
		override.AspectRatio = float64(effectiveWidth) / float64(height)
	}
	world.ApplyCameraOverrides(override)

	return world, nil
}

// createOutputDir ensures the per-scene output directory exists and
// returns it. Scene file paths are reduced to their base name, so
// scenes/demo.yaml renders into output/demo.
func createOutputDir(sceneID string) (string, error) {
	base := filepath.Base(sceneID)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Join("output", base)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return dir, nil
}

// orbitCamera returns a mutation that swings the camera around the
// look-at point by the given number of degrees per frame, keeping its
// height and distance.
func orbitCamera(degreesPerFrame float64) renderer.MutateFunc {
	radians := degreesPerFrame * math.Pi / 180
	return func(frame int, world *scene.World) {
		offset := world.CameraConfig.Center.Subtract(world.CameraConfig.LookAt)
		rotated := offset.Rotate(core.NewVec3(0, radians, 0))
		world.CameraConfig.Center = world.CameraConfig.LookAt.Add(rotated)
		world.Camera = geometry.NewCamera(world.CameraConfig)
	}
}

func savePNG(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	return nil
}

func saveGIF(frames []*image.RGBA, delay int, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer file.Close()

	if err := gif.EncodeAll(file, encodeGIF(frames, delay)); err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	return nil
}

// encodeGIF quantizes each frame to the Plan 9 palette with
// Floyd-Steinberg dithering. The delay is in 1/100ths of a second.
func encodeGIF(frames []*image.RGBA, delay int) *gif.GIF {
	anim := &gif.GIF{}
	for _, frame := range frames {
		paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, frame.Bounds(), frame, image.Point{})
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delay)
	}
	return anim
}

// watchScene renders the scene, then re-renders it every time its YAML
// file changes on disk. Only file-backed scenes can be watched.
func watchScene(ctx context.Context, job *renderJob, logger core.Logger) error {
	path, ok := scene.ResolveScenePath(job.SceneID)
	if !ok {
		return fmt.Errorf("scene %q is not a watchable file", job.SceneID)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files on save, which drops a watch held on
	// the file itself. Watching the directory survives the replacement.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	renderOnce := func() {
		if err := job.Run(ctx, logger); err != nil {
			logger.Printf("Render failed: %v\n", err)
		}
	}

	logger.Printf("Watching %s for changes...\n", path)
	renderOnce()

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			debounce.Reset(debounceDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("Watch error: %v\n", err)
		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			logger.Printf("Scene file changed, re-rendering...\n")
			renderOnce()
		}
	}
}
