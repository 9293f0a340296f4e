package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"runtime"
	"sync"
	"time"

	"github.com/nfnt/resize"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
	"github.com/rmellor/go-whitted-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config controls how a frame is rendered. Zero values fall back to the
// world's render settings and the machine's CPU count.
type Config struct {
	Workers     int // Number of parallel column workers (0 = CPU count)
	MaxDepth    int // Recursion cap override (0 = the world's cap)
	Supersample int // Samples per pixel side (0 or 1 = off)
}

// Renderer drives parallel rendering of a world into an image. Columns
// are handed to a worker pool; each worker traces its column's pixels
// top to bottom and writes them into disjoint cells of the shared frame.
type Renderer struct {
	world  *scene.World
	config Config
	logger core.Logger
}

// FrameResult carries a finished frame and its statistics
type FrameResult struct {
	Image *image.RGBA
	Stats RenderStats
}

// ColumnProgress reports how many columns of a running render are done
type ColumnProgress struct {
	Done  int
	Total int
}

// NewRenderer creates a renderer for the given world. Zero config fields
// are resolved against the world's render settings.
func NewRenderer(world *scene.World, config Config, logger core.Logger) *Renderer {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = world.RenderConfig.MaxDepth
	}
	if config.Supersample <= 0 {
		config.Supersample = world.RenderConfig.Supersample
	}
	if config.Supersample < 1 {
		config.Supersample = 1
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Renderer{world: world, config: config, logger: logger}
}

// Render traces the full frame and returns the assembled image
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	return r.renderFrame(ctx, nil)
}

// RenderProgressive renders the frame in the background, reporting
// per-column progress. The frame channel delivers at most one result;
// all three channels are closed when the render finishes or fails.
func (r *Renderer) RenderProgressive(ctx context.Context) (<-chan FrameResult, <-chan ColumnProgress, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	progressChan := make(chan ColumnProgress, 64)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(progressChan)
		defer close(errChan)

		img, stats, err := r.renderFrame(ctx, func(done, total int) {
			select {
			case progressChan <- ColumnProgress{Done: done, Total: total}:
			case <-ctx.Done():
			default:
				// Consumer is lagging, drop the update
			}
		})
		if err != nil {
			errChan <- err
			return
		}

		select {
		case frameChan <- FrameResult{Image: img, Stats: stats}:
		case <-ctx.Done():
		}
	}()

	return frameChan, progressChan, errChan
}

// renderFrame runs the column worker pool over the (possibly
// supersampled) pixel grid. The progress callback, when given, is
// invoked from this goroutine only, once per completed column.
func (r *Renderer) renderFrame(ctx context.Context, progress func(done, total int)) (*image.RGBA, RenderStats, error) {
	start := time.Now()

	scale := r.config.Supersample
	width := r.world.Width() * scale
	height := r.world.Height() * scale
	tracer := NewTracer(r.world, width, height, r.config.MaxDepth)

	r.logger.Printf("Rendering %dx%d (depth %d, supersample %d) with %d workers...\n",
		r.world.Width(), r.world.Height(), tracer.MaxDepth(), scale, r.config.Workers)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	columnSeconds := make([]float64, width)

	columns := make(chan int)
	finished := make(chan int, r.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < r.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for x := range columns {
				columnStart := time.Now()
				r.renderColumn(tracer, img, x, height)
				columnSeconds[x] = time.Since(columnStart).Seconds()
				finished <- x
			}
		}()
	}

	// Feed columns until done or cancelled; workers drain what remains.
	go func() {
		defer close(columns)
		for x := 0; x < width; x++ {
			select {
			case columns <- x:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(finished)
	}()

	done := 0
	for range finished {
		done++
		if progress != nil {
			progress(done, width)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, err
	}

	if scale > 1 {
		img = downscale(img, r.world.Width(), r.world.Height())
	}

	stats := newRenderStats(img, columnSeconds, tracer.Counters(), r.config.Workers, time.Since(start))
	r.logger.Printf("Render completed in %v (%d rays)\n", stats.RenderTime, stats.TotalRays())

	return img, stats, nil
}

// renderColumn traces every pixel of one column into the shared frame.
// Columns are disjoint, so no locking is needed around the writes.
func (r *Renderer) renderColumn(tracer *Tracer, img *image.RGBA, x, height int) {
	for y := 0; y < height; y++ {
		img.SetRGBA(x, y, vec3ToColor(r.tracePixel(tracer, x, y)))
	}
}

// tracePixel resolves one pixel. A panic inside the trace degrades this
// pixel to the background color instead of killing the frame.
func (r *Renderer) tracePixel(tracer *Tracer, x, y int) (pixel core.Vec3) {
	defer func() {
		if recover() != nil {
			pixel = r.world.Background()
		}
	}()
	return tracer.RenderPixel(x, y)
}

// vec3ToColor converts a color vector to RGBA with gamma correction and clamping
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// downscale resamples the supersampled frame down to the target size
func downscale(img *image.RGBA, width, height int) *image.RGBA {
	resized := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), resized, image.Point{}, draw.Src)
	return out
}
