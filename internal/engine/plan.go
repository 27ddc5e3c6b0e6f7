package engine

import (
	"github.com/ivlev/sceneanim/internal/config"
	"github.com/ivlev/sceneanim/internal/keyframe"
	"github.com/ivlev/sceneanim/internal/motion"
)

// NewTemplater builds the rule, markers and value function for the configured mode
func NewTemplater(cfg *config.Config) *keyframe.Templater {
	switch cfg.Mode {
	case config.ModeSpiral:
		markers := keyframe.DefaultMarkers
		if len(cfg.Spiral.Markers) > 0 {
			markers = keyframe.Markers(cfg.Spiral.Markers)
		}
		return &keyframe.Templater{
			Rule:    keyframe.TranslateRule{},
			Markers: markers,
			Values:  SpiralValues(spiralOf(cfg)),
		}
	default:
		return &keyframe.Templater{
			Rule:   keyframe.LookAtRule{},
			Values: OrbitValues(orbitOf(cfg)),
		}
	}
}

// OrbitValues gives the unscoped entity the eye position of each frame
func OrbitValues(o motion.Orbit) keyframe.ValueFunc {
	return func(f keyframe.Frame) keyframe.Values {
		return keyframe.Values{keyframe.Unscoped: o.Eye(f.T()).Slice()}
	}
}

// SpiralValues gives every rank its Y position for each frame
func SpiralValues(s motion.Spiral) keyframe.ValueFunc {
	return func(f keyframe.Frame) keyframe.Values {
		v := make(keyframe.Values, s.Count)
		for rank, y := range s.Positions(f.T()) {
			v[rank] = []float64{y}
		}
		return v
	}
}

func orbitOf(cfg *config.Config) motion.Orbit {
	return motion.Orbit{Radius: cfg.Orbit.Radius, Height: cfg.Orbit.Height}
}

func spiralOf(cfg *config.Config) motion.Spiral {
	return motion.Spiral{
		Count:       cfg.Spiral.Teapots,
		YFar:        cfg.Spiral.YFar,
		YNear:       cfg.Spiral.YNear,
		PhaseOffset: cfg.Spiral.PhaseOffset,
	}
}
