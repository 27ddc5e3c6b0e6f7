package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ModeOrbit  = "orbit"
	ModeSpiral = "spiral"
)

type Config struct {
	Mode         string `yaml:"mode"`
	TemplatePath string `yaml:"template"`
	OutputDir    string `yaml:"output"`
	Ext          string `yaml:"ext"`
	Frames       int    `yaml:"frames"`

	Orbit  OrbitConfig  `yaml:"orbit"`
	Spiral SpiralConfig `yaml:"spiral"`

	Workers      int    `yaml:"workers"`
	ManifestPath string `yaml:"manifest"`
	PreviewPath  string `yaml:"preview"`
	DryRun       bool   `yaml:"dry_run"`
	ShowStats    bool   `yaml:"stats"`
	BuildVersion string `yaml:"-"`
}

type OrbitConfig struct {
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
}

type SpiralConfig struct {
	Teapots     int            `yaml:"teapots"`
	YFar        float64        `yaml:"y_far"`
	YNear       float64        `yaml:"y_near"`
	PhaseOffset float64        `yaml:"phase_offset"` // [0,1) shifts the whole loop
	Markers     map[string]int `yaml:"markers"`      // marker comment -> rank; empty means the built-in set
}

// Default returns the stock turntable or spiral settings
func Default(mode string) *Config {
	cfg := &Config{
		Mode:    mode,
		Workers: 1,
		Orbit: OrbitConfig{
			Radius: 100,
			Height: 20,
		},
		Spiral: SpiralConfig{
			Teapots: 8,
			YFar:    26.0,  // behind back wall
			YNear:   -36.0, // past camera
		},
	}
	switch mode {
	case ModeSpiral:
		cfg.Frames = 48
		cfg.OutputDir = "output/spiral"
	default:
		cfg.Mode = ModeOrbit
		cfg.Frames = 96
		cfg.OutputDir = "output/orbit"
	}
	return cfg
}

// Load reads a YAML preset on top of the defaults for its mode
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Mode string `yaml:"mode"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
	}

	cfg := Default(head.Mode)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings before any file is touched
func (c *Config) Validate() error {
	if c.Mode != ModeOrbit && c.Mode != ModeSpiral {
		return fmt.Errorf("неизвестный режим %q (orbit, spiral)", c.Mode)
	}
	if c.TemplatePath == "" {
		return fmt.Errorf("не задан путь к шаблону")
	}
	if c.OutputDir == "" && !c.DryRun {
		return fmt.Errorf("не задана папка для кадров")
	}
	if c.Frames <= 0 {
		return fmt.Errorf("число кадров должно быть больше 0, получено %d", c.Frames)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("число потоков должно быть больше 0, получено %d", c.Workers)
	}

	switch c.Mode {
	case ModeOrbit:
		if c.Orbit.Radius < 0 {
			return fmt.Errorf("радиус не может быть отрицательным: %f", c.Orbit.Radius)
		}
	case ModeSpiral:
		s := c.Spiral
		if s.Teapots <= 0 {
			return fmt.Errorf("число объектов должно быть больше 0, получено %d", s.Teapots)
		}
		if s.YFar <= s.YNear {
			return fmt.Errorf("y_far (%f) должен быть больше y_near (%f)", s.YFar, s.YNear)
		}
		if s.PhaseOffset < 0 || s.PhaseOffset >= 1 {
			return fmt.Errorf("phase_offset должен быть в [0,1), получено %f", s.PhaseOffset)
		}
		for label, rank := range s.Markers {
			if rank < 1 || rank > s.Teapots {
				return fmt.Errorf("маркер %q: ранг %d вне диапазона 1..%d", label, rank, s.Teapots)
			}
		}
	}
	return nil
}
