package manifest

import (
	"github.com/ivlev/sceneanim/internal/keyframe"
)

// Manifest records what every generated frame contains
type Manifest struct {
	Version  string  `yaml:"version"`
	Mode     string  `yaml:"mode"`
	Template string  `yaml:"template"`
	Frames   []Frame `yaml:"frames"`
}

// Frame describes one output file
type Frame struct {
	Index  int               `yaml:"index"` // 1-based, matches the file name
	File   string            `yaml:"file"`
	T      float64           `yaml:"t"`                // loop fraction in [0, 1)
	Values map[int][]float64 `yaml:"values,omitempty"` // entity -> rewritten slots
}

// Build evaluates values for every frame of the loop
func Build(mode, template, ext string, count int, values keyframe.ValueFunc) *Manifest {
	m := &Manifest{
		Version:  "1.0",
		Mode:     mode,
		Template: template,
		Frames:   make([]Frame, 0, count),
	}

	for i := 0; i < count; i++ {
		f := keyframe.Frame{Index: i, Count: count}
		m.Frames = append(m.Frames, Frame{
			Index:  i + 1,
			File:   f.Name(ext),
			T:      f.T(),
			Values: values(f),
		})
	}
	return m
}
