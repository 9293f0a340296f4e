package core

// Tolerance groups the numeric epsilons used by intersection and shading
// code. A scene carries a single instance shared by every primitive, so
// the thresholds stay consistent across shape types instead of living as
// per-file literals.
type Tolerance struct {
	Geometry    float64 // rejection threshold for near-parallel and degenerate configurations
	MinT        float64 // minimum accepted ray parameter
	ShadowBias  float64 // surface-normal offset applied to shadow and recursive ray origins
	Containment float64 // expansion applied to bounding-box containment tests
}

// DefaultTolerance returns the tolerance set used when none is supplied
func DefaultTolerance() Tolerance {
	return Tolerance{
		Geometry:    1e-8,
		MinT:        0.001,
		ShadowBias:  0.0001,
		Containment: 1e-9,
	}
}
