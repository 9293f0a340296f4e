package renderer

import (
	"context"
	"fmt"
	"image"

	"github.com/rmellor/go-whitted-raytracer/pkg/scene"
)

// MutateFunc adjusts the world between animation frames. It runs after
// frame-1 frames have been rendered and before frame starts, so the
// scene is never touched while workers are tracing.
type MutateFunc func(frame int, world *scene.World)

// Animator renders a sequence of frames from one world, applying a
// mutation between frames. Frames are strictly sequential; parallelism
// stays inside each frame's column pool.
type Animator struct {
	renderer *Renderer
	mutate   MutateFunc
}

// NewAnimator creates an animator over the given renderer
func NewAnimator(renderer *Renderer, mutate MutateFunc) *Animator {
	return &Animator{renderer: renderer, mutate: mutate}
}

// RenderFrames renders count frames. Frame 0 is the world as given;
// before each later frame the mutation callback runs with the frame
// number about to be rendered.
func (a *Animator) RenderFrames(ctx context.Context, count int) ([]*image.RGBA, error) {
	if count <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", count)
	}

	frames := make([]*image.RGBA, 0, count)
	for frame := 0; frame < count; frame++ {
		if frame > 0 && a.mutate != nil {
			a.mutate(frame, a.renderer.world)
		}

		img, _, err := a.renderer.Render(ctx)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", frame, err)
		}
		frames = append(frames, img)
	}

	return frames, nil
}
