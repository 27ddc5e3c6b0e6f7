package engine

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ivlev/sceneanim/internal/config"
	"github.com/ivlev/sceneanim/internal/keyframe"
	"github.com/ivlev/sceneanim/internal/logs"
	"github.com/ivlev/sceneanim/internal/manifest"
	"github.com/ivlev/sceneanim/internal/source"
)

const envmapTemplate = `LookAt 0 -100 20  0 0 5  0 0 1
Camera "perspective" "float fov" [ 40 ]
WorldBegin
LightSource "infinite" "string filename" "sky.exr"
`

const cornellTemplate = `LookAt 0 -60 0  0 0 0  0 0 1
WorldBegin
# Bottom left
AttributeBegin
  Translate -10 0 -10
AttributeEnd
# Middle left
AttributeBegin
  Translate -10 0 0
AttributeEnd
# Top left
AttributeBegin
  Translate -10 0 10
AttributeEnd
# Top middle
AttributeBegin
  Translate 0 0 10
AttributeEnd
# Top right
AttributeBegin
  Translate 10 0 10
AttributeEnd
# Middle right
AttributeBegin
  Translate 10 0 0
AttributeEnd
# Bottom right
AttributeBegin
  Translate 10 0 -10
AttributeEnd
# Bottom middle
AttributeBegin
  Translate 0 0 -10
AttributeEnd
`

func writeTemplate(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newProject(cfg *config.Config) *AnimationProject {
	p := NewAnimationProject(cfg, logs.Discard())
	p.Quiet = true
	return p
}

func readFrames(t *testing.T, dir string, n int) []string {
	t.Helper()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		data, err := os.ReadFile(filepath.Join(dir, strconv.Itoa(i+1)+".pbrt"))
		if err != nil {
			t.Fatalf("frame %d missing: %v", i+1, err)
		}
		out[i] = string(data)
	}
	return out
}

func orbitConfig(t *testing.T, frames int) *config.Config {
	cfg := config.Default(config.ModeOrbit)
	cfg.TemplatePath = writeTemplate(t, "envmap.pbrt", envmapTemplate)
	cfg.OutputDir = filepath.Join(t.TempDir(), "gen", "envmap")
	cfg.Frames = frames
	cfg.Orbit.Radius = 10
	cfg.Orbit.Height = 5
	return cfg
}

func TestRunOrbit(t *testing.T) {
	cfg := orbitConfig(t, 4)

	res, err := newProject(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Frames != 4 || res.Ext != "pbrt" {
		t.Errorf("Unexpected result: %+v", res)
	}

	frames := readFrames(t, cfg.OutputDir, 4)
	tplLines := source.Parse("", envmapTemplate).LineCount()
	for i, text := range frames {
		if n := source.Parse("", text).LineCount(); n != tplLines {
			t.Errorf("frame %d: %d lines, want %d", i+1, n, tplLines)
		}
	}

	wantFirst := []string{
		"LookAt 10.000000 0.000000 5.000000  0 0 5  0 0 1\n",
		"LookAt 0.000000 10.000000 5.000000  0 0 5  0 0 1\n",
	}
	for i, want := range wantFirst {
		got := source.Parse("", frames[i]).Line(0)
		if got != want {
			t.Errorf("frame %d: got %q, want %q", i+1, got, want)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := orbitConfig(t, 8)

	if _, err := newProject(cfg).Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first := readFrames(t, cfg.OutputDir, 8)

	if _, err := newProject(cfg).Run(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	second := readFrames(t, cfg.OutputDir, 8)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("outputs differ between runs (-first +second):\n%s", diff)
	}
}

func TestRunSpiral(t *testing.T) {
	cfg := config.Default(config.ModeSpiral)
	cfg.TemplatePath = writeTemplate(t, "cornell.pbrt", cornellTemplate)
	cfg.OutputDir = t.TempDir()
	cfg.Frames = 16

	if _, err := newProject(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	frames := readFrames(t, cfg.OutputDir, cfg.Frames)

	// frame 1: rank r sits at 26 - ((r-1)/8)*62
	var ys []float64
	for _, line := range strings.Split(frames[0], "\n") {
		tokens := strings.Fields(line)
		if len(tokens) == 4 && tokens[0] == "Translate" {
			y, _ := strconv.ParseFloat(tokens[2], 64)
			ys = append(ys, y)
		}
	}
	if len(ys) != 8 {
		t.Fatalf("Expected 8 Translate lines, got %d", len(ys))
	}
	for r, y := range ys {
		want := 26 - float64(r)/8*62
		if math.Abs(y-want) > 1e-6 {
			t.Errorf("rank %d: y=%f, want %f", r+1, y, want)
		}
	}

	// LookAt is untouched in spiral mode.
	if !strings.HasPrefix(frames[3], "LookAt 0 -60 0  0 0 0  0 0 1\n") {
		t.Errorf("camera line changed: %q", strings.SplitN(frames[3], "\n", 2)[0])
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	seq := orbitConfig(t, 24)
	if _, err := newProject(seq).Run(context.Background()); err != nil {
		t.Fatalf("sequential run failed: %v", err)
	}

	par := *seq
	par.OutputDir = t.TempDir()
	par.Workers = 4
	res, err := newProject(&par).Run(context.Background())
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}
	if res.Frames != 24 {
		t.Errorf("Expected 24 frames, got %d", res.Frames)
	}

	if diff := cmp.Diff(readFrames(t, seq.OutputDir, 24), readFrames(t, par.OutputDir, 24)); diff != "" {
		t.Errorf("parallel output differs (-seq +par):\n%s", diff)
	}
}

func TestRunMalformedTemplate(t *testing.T) {
	for _, workers := range []int{1, 3} {
		cfg := orbitConfig(t, 4)
		cfg.TemplatePath = writeTemplate(t, "bad.pbrt", "WorldBegin\nLookAt 1 2\n")
		cfg.Workers = workers

		res, err := newProject(cfg).Run(context.Background())
		var pe *keyframe.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("workers=%d: expected ParseError, got %v", workers, err)
		}
		if res.Frames != 0 {
			t.Errorf("workers=%d: expected 0 frames written, got %d", workers, res.Frames)
		}
		entries, _ := os.ReadDir(cfg.OutputDir)
		if len(entries) != 0 {
			t.Errorf("workers=%d: expected no frame files, found %d", workers, len(entries))
		}
	}
}

func TestRunMissingTemplate(t *testing.T) {
	cfg := orbitConfig(t, 4)
	cfg.TemplatePath = filepath.Join(t.TempDir(), "nope.pbrt")

	_, err := newProject(cfg).Run(context.Background())
	var nf *source.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
	if _, statErr := os.Stat(cfg.OutputDir); !os.IsNotExist(statErr) {
		t.Errorf("output dir should not be created when the template is missing")
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := orbitConfig(t, 0)
	if _, err := newProject(cfg).Run(context.Background()); err == nil {
		t.Error("Expected validation error for zero frames")
	}
}

func TestRunDryRun(t *testing.T) {
	cfg := orbitConfig(t, 6)
	cfg.DryRun = true

	res, err := newProject(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Frames != 6 {
		t.Errorf("Expected 6 frames rendered, got %d", res.Frames)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Errorf("dry run must not create the output directory")
	}
}

func TestRunManifestAndPreview(t *testing.T) {
	cfg := orbitConfig(t, 4)
	out := t.TempDir()
	cfg.ManifestPath = filepath.Join(out, "meta", "frames.yaml")
	cfg.PreviewPath = filepath.Join(out, "meta", "orbit.png")

	if _, err := newProject(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	m, err := manifest.Read(cfg.ManifestPath)
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	if len(m.Frames) != 4 || m.Frames[3].File != "4.pbrt" || m.Mode != config.ModeOrbit {
		t.Errorf("Unexpected manifest: %+v", m)
	}
	eye := m.Frames[0].Values[keyframe.Unscoped]
	if diff := cmp.Diff([]float64{10, 0, 5}, eye); diff != "" {
		t.Errorf("frame 1 eye mismatch (-want +got):\n%s", diff)
	}

	if info, err := os.Stat(cfg.PreviewPath); err != nil || info.Size() == 0 {
		t.Errorf("preview missing: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := orbitConfig(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newProject(cfg).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCustomMarkers(t *testing.T) {
	cfg := config.Default(config.ModeSpiral)
	cfg.Spiral.Teapots = 2
	cfg.Spiral.Markers = map[string]int{"# A": 1, "# B": 2}

	tpl := NewTemplater(cfg)
	doc := source.Parse("x.pbrt", "# B\nTranslate 1 0 2\n# A\nTranslate 3 0 4\n")
	lines, err := tpl.Render(doc, keyframe.Frame{Index: 0, Count: 4})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := []string{
		"# B\n",
		"Translate 1.000000 -5.000000 2.000000\n",
		"# A\n",
		"Translate 3.000000 26.000000 4.000000\n",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRunSpiralFewerTeapots(t *testing.T) {
	tpl := `WorldBegin
# Bottom left
  Translate -10 0 -10
# Middle left
  Translate -10 0 0
# Top left
  Translate -10 0 10
# Top middle
  Translate 0 0 10
`
	cfg := config.Default(config.ModeSpiral)
	cfg.TemplatePath = writeTemplate(t, "four.pbrt", tpl)
	cfg.OutputDir = t.TempDir()
	cfg.Frames = 8
	cfg.Spiral.Teapots = 4

	res, err := newProject(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Frames != 8 {
		t.Errorf("Expected 8 frames, got %d", res.Frames)
	}

	lines := strings.Split(readFrames(t, cfg.OutputDir, 8)[0], "\n")
	want := []string{
		"  Translate -10.000000 26.000000 -10.000000",
		"  Translate -10.000000 10.500000 0.000000",
		"  Translate -10.000000 -5.000000 10.000000",
		"  Translate 0.000000 -20.500000 10.000000",
	}
	got := []string{lines[2], lines[4], lines[6], lines[8]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("frame 1 mismatch (-want +got):\n%s", diff)
	}
}

func TestRunSpiralMarkerBeyondTeapots(t *testing.T) {
	cfg := config.Default(config.ModeSpiral)
	cfg.TemplatePath = writeTemplate(t, "five.pbrt", "# Top right\nTranslate 10 0 10\n")
	cfg.OutputDir = t.TempDir()
	cfg.Frames = 4
	cfg.Spiral.Teapots = 4

	res, err := newProject(cfg).Run(context.Background())
	if err == nil {
		t.Fatal("Expected error for a marker rank without values")
	}
	if res.Frames != 0 {
		t.Errorf("Expected no frames written, got %d", res.Frames)
	}
}
