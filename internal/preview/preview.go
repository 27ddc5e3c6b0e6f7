package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/sceneanim/internal/motion"
)

const (
	Width  = 640
	Height = 480
	margin = 40
)

var (
	background = color.RGBA{24, 24, 28, 255}
	axisColor  = color.RGBA{90, 90, 100, 255}
	textColor  = color.RGBA{230, 230, 230, 255}
)

// palette colours the spiral ranks; it wraps for more than eight objects
var palette = []color.RGBA{
	{230, 80, 80, 255},
	{240, 160, 60, 255},
	{230, 220, 80, 255},
	{110, 200, 90, 255},
	{70, 190, 200, 255},
	{80, 120, 230, 255},
	{160, 90, 220, 255},
	{220, 100, 180, 255},
}

// Canvas is a plot area with a data-to-pixel mapping
type Canvas struct {
	Img                    *image.RGBA
	minX, maxX, minY, maxY float64
}

func newCanvas(minX, maxX, minY, maxY float64) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}
	return &Canvas{Img: img, minX: minX, maxX: maxX, minY: minY, maxY: maxY}
}

// project maps data coordinates to pixels; y grows upwards
func (c *Canvas) project(x, y float64) image.Point {
	px := margin + (x-c.minX)/(c.maxX-c.minX)*float64(Width-2*margin)
	py := Height - margin - (y-c.minY)/(c.maxY-c.minY)*float64(Height-2*margin)
	return image.Pt(int(math.Round(px)), int(math.Round(py)))
}

func (c *Canvas) dot(p image.Point, col color.Color) {
	r := image.Rect(p.X-2, p.Y-2, p.X+3, p.Y+3).Intersect(c.Img.Bounds())
	draw.Draw(c.Img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) hline(y int, col color.Color) {
	draw.Draw(c.Img, image.Rect(margin, y, Width-margin, y+1), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) vline(x int, col color.Color) {
	draw.Draw(c.Img, image.Rect(x, margin, x+1, Height-margin), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) label(x, y int, col color.Color, text string) {
	d := &font.Drawer{
		Dst:  c.Img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Orbit plots eye positions seen from above (XY plane)
func Orbit(eyes []motion.Vec3) *image.RGBA {
	radius := 0.0
	for _, e := range eyes {
		radius = math.Max(radius, math.Hypot(e.X, e.Y))
	}
	r := math.Max(radius, 1) * 1.1

	// keep the circle round on a non-square canvas
	aspect := float64(Width-2*margin) / float64(Height-2*margin)
	c := newCanvas(-r*aspect, r*aspect, -r, r)

	origin := c.project(0, 0)
	c.hline(origin.Y, axisColor)
	c.vline(origin.X, axisColor)

	step := labelStep(len(eyes))
	for i, e := range eyes {
		p := c.project(e.X, e.Y)
		c.dot(p, palette[0])
		if i%step == 0 {
			c.label(p.X+4, p.Y-4, textColor, fmt.Sprintf("%d", i+1))
		}
	}

	height := 0.0
	if len(eyes) > 0 {
		height = eyes[0].Z
	}
	c.label(margin, margin-14, textColor, fmt.Sprintf("orbit: %d frames, r=%.1f, z=%.1f", len(eyes), radius, height))
	return c.Img
}

// Spiral plots Y against frame for every rank
func Spiral(s motion.Spiral, frames int) *image.RGBA {
	c := newCanvas(0, float64(frames), s.YNear, s.YFar)

	c.hline(c.project(0, s.YFar).Y, axisColor)
	c.hline(c.project(0, s.YNear).Y, axisColor)
	c.label(2, c.project(0, s.YFar).Y+4, textColor, fmt.Sprintf("%.0f", s.YFar))
	c.label(2, c.project(0, s.YNear).Y+4, textColor, fmt.Sprintf("%.0f", s.YNear))

	for f := 0; f < frames; f++ {
		t := float64(f) / float64(frames)
		for r := 1; r <= s.Count; r++ {
			c.dot(c.project(float64(f), s.Y(r, t)), palette[(r-1)%len(palette)])
		}
	}

	for r := 1; r <= s.Count && r <= 16; r++ {
		c.label(Width-margin+4, margin+r*14, palette[(r-1)%len(palette)], fmt.Sprintf("%d", r))
	}
	c.label(margin, margin-14, textColor, fmt.Sprintf("spiral: %d objects, %d frames, phase %.2f", s.Count, frames, s.PhaseOffset))
	return c.Img
}

// labelStep keeps roughly a dozen frame labels on the plot
func labelStep(n int) int {
	step := n / 12
	if step < 1 {
		step = 1
	}
	return step
}

// Save encodes img as PNG at path
func Save(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
