package motion

import (
	"math"
)

// Vec3 is a point or direction in scene space
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Slice returns the components in x, y, z order
func (v Vec3) Slice() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// Orbit moves the camera eye on a circle around the Z axis at a fixed height
type Orbit struct {
	Radius float64
	Height float64
}

// Eye returns the eye position for loop fraction t in [0, 1)
func (o Orbit) Eye(t float64) Vec3 {
	angle := t * 2 * math.Pi
	return Vec3{
		X: math.Cos(angle) * o.Radius,
		Y: math.Sin(angle) * o.Radius,
		Z: o.Height,
	}
}

// Spiral sweeps Count objects along Y from YFar to YNear.
// Objects share one repeating cycle, each shifted by 1/Count of it,
// so they pass through the frame one after another.
type Spiral struct {
	Count       int
	YFar        float64
	YNear       float64
	PhaseOffset float64
}

// Span is the length of one sweep
func (s Spiral) Span() float64 {
	return s.YFar - s.YNear
}

// Phase returns the cycle offset of the object with the given rank (1-based)
func (s Spiral) Phase(rank int) float64 {
	return s.PhaseOffset + float64(rank-1)/float64(s.Count)
}

// Progress returns the wrapped position in [0, 1) of a rank at loop fraction t
func (s Spiral) Progress(rank int, t float64) float64 {
	return wrap(t + s.Phase(rank))
}

// Y returns the coordinate along the motion axis.
// Values past the visible bounds are intended: the object is simply off-screen.
func (s Spiral) Y(rank int, t float64) float64 {
	return lerp(s.YFar, s.YNear, s.Progress(rank, t))
}

// Positions returns Y for ranks 1..Count, indexed by rank
func (s Spiral) Positions(t float64) map[int]float64 {
	out := make(map[int]float64, s.Count)
	for r := 1; r <= s.Count; r++ {
		out[r] = s.Y(r, t)
	}
	return out
}

// wrap maps x into [0, 1)
func wrap(x float64) float64 {
	u := math.Mod(x, 1.0)
	if u < 0 {
		u += 1.0
	}
	// a tiny negative remainder plus 1 rounds to exactly 1
	if u >= 1.0 {
		u = 0
	}
	return u
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Trajectory samples an eye path over n frames; used by previews and manifests.
func (o Orbit) Trajectory(n int) []Vec3 {
	out := make([]Vec3, n)
	for i := 0; i < n; i++ {
		out[i] = o.Eye(float64(i) / float64(n))
	}
	return out
}
