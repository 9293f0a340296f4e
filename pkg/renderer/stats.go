package renderer

import (
	"image"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/rmellor/go-whitted-raytracer/pkg/core"
)

// RenderStats summarizes the work done for one frame
type RenderStats struct {
	Width  int // Final image width in pixels
	Height int // Final image height in pixels

	Workers    int           // Parallel column workers used
	RenderTime time.Duration // Wall-clock time for the whole frame

	PrimaryRays   int64 // Camera rays traced
	SecondaryRays int64 // Reflection and transmission rays traced
	ShadowRays    int64 // Occlusion queries cast toward lights

	// Per-column wall-clock seconds, summarizing how evenly the
	// worker pool was loaded across the frame.
	MeanColumnTime   float64
	StdDevColumnTime float64

	// Luminance of the final image pixels, a cheap brightness check
	// for catching all-black or blown-out renders.
	MeanLuminance   float64
	StdDevLuminance float64
}

// TotalRays returns the number of rays of all kinds cast for the frame
func (s RenderStats) TotalRays() int64 {
	return s.PrimaryRays + s.SecondaryRays + s.ShadowRays
}

// LogSummary writes a human-readable statistics block to the logger
func (s RenderStats) LogSummary(logger core.Logger) {
	logger.Printf("Image:     %dx%d pixels\n", s.Width, s.Height)
	logger.Printf("Time:      %v (%d workers)\n", s.RenderTime, s.Workers)
	logger.Printf("Rays:      %d primary, %d secondary, %d shadow\n",
		s.PrimaryRays, s.SecondaryRays, s.ShadowRays)
	logger.Printf("Columns:   %.4fs mean, %.4fs stddev\n", s.MeanColumnTime, s.StdDevColumnTime)
	logger.Printf("Luminance: %.3f mean, %.3f stddev\n", s.MeanLuminance, s.StdDevLuminance)
}

// newRenderStats aggregates the finished frame, the per-column timings
// and the ray counters into a statistics summary
func newRenderStats(img *image.RGBA, columnSeconds []float64, counters *RayCounters, workers int, elapsed time.Duration) RenderStats {
	bounds := img.Bounds()
	stats := RenderStats{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Workers:       workers,
		RenderTime:    elapsed,
		PrimaryRays:   counters.Primary(),
		SecondaryRays: counters.Secondary(),
		ShadowRays:    counters.Shadow(),
	}

	stats.MeanColumnTime, stats.StdDevColumnTime = meanStdDev(columnSeconds)
	stats.MeanLuminance, stats.StdDevLuminance = meanStdDev(imageLuminance(img))

	return stats
}

// imageLuminance extracts the perceptual luminance of every pixel
func imageLuminance(img *image.RGBA) []float64 {
	bounds := img.Bounds()
	luminance := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			v := core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
			luminance = append(luminance, v.Luminance())
		}
	}
	return luminance
}

// meanStdDev summarizes a sample set, returning zero deviation for
// fewer than two samples
func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := stat.Mean(values, nil)
	if len(values) < 2 {
		return mean, 0
	}
	return mean, stat.StdDev(values, nil)
}
