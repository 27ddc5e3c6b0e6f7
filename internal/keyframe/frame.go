package keyframe

import "fmt"

// Frame is one step of the animation loop
type Frame struct {
	Index int // 0-based
	Count int // total frames in the loop
}

// T returns the loop fraction in [0, 1)
func (f Frame) T() float64 {
	return float64(f.Index) / float64(f.Count)
}

// Name returns the output file name, 1-based
func (f Frame) Name(ext string) string {
	return fmt.Sprintf("%d.%s", f.Index+1, ext)
}

// Unscoped is the entity used by rules without marker gating
const Unscoped = 0

// Values holds the numeric slots computed for one frame, keyed by entity
type Values map[int][]float64

// ValueFunc computes a frame's values. It must be pure.
type ValueFunc func(f Frame) Values
