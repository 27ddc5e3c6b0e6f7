package keyframe

import (
	"context"
	"fmt"
	"strings"

	"github.com/ivlev/sceneanim/internal/source"
)

// Markers maps a marker comment (trimmed text) to the entity it introduces
type Markers map[string]int

// DefaultMarkers is the spiral order seen from the front:
//
//	3 4 5
//	2   6
//	1 8 7
var DefaultMarkers = Markers{
	"# Bottom left":   1,
	"# Middle left":   2,
	"# Top left":      3,
	"# Top middle":    4,
	"# Top right":     5,
	"# Middle right":  6,
	"# Bottom right":  7,
	"# Bottom middle": 8,
}

// FrameSink receives each rendered frame
type FrameSink interface {
	WriteFrame(ctx context.Context, f Frame, lines []string) error
}

// Templater rewrites a template once per frame.
// With Markers set, a directive is rewritten only right after a marker comment.
type Templater struct {
	Rule    Rule
	Markers Markers
	Values  ValueFunc
}

// scanState is either idle (active == false) or holding the entity of the last marker seen
type scanState struct {
	active bool
	entity int
}

func (s *scanState) mark(entity int) {
	s.active = true
	s.entity = entity
}

// consume returns the active entity and goes back to idle
func (s *scanState) consume() int {
	e := s.entity
	s.active = false
	s.entity = 0
	return e
}

func (t *Templater) gated() bool {
	return len(t.Markers) > 0
}

// Render returns the template lines for frame f with directives rewritten
func (t *Templater) Render(doc *source.Document, f Frame) ([]string, error) {
	values := t.Values(f)
	keyword := t.Rule.Keyword()

	out := make([]string, 0, doc.LineCount())
	var state scanState

	for i := 0; i < doc.LineCount(); i++ {
		line := doc.Line(i)
		trimmed := strings.TrimSpace(line)

		if entity, ok := t.Markers[trimmed]; ok {
			state.mark(entity)
			out = append(out, line)
			continue
		}

		if !isDirective(trimmed, keyword) || (t.gated() && !state.active) {
			out = append(out, line)
			continue
		}

		entity := Unscoped
		if t.gated() {
			entity = state.consume()
		}

		v, ok := values[entity]
		if !ok {
			return nil, fmt.Errorf("строка %d: нет значений для сущности %d", i+1, entity)
		}

		rewritten, err := t.Rule.Rewrite(parseDirective(i+1, line), v)
		if err != nil {
			return nil, err
		}
		out = append(out, rewritten)
	}

	return out, nil
}

// Generate renders frames 0..count-1 in order and stops at the first error.
// Frames already handed to the sink are left as they are.
func (t *Templater) Generate(ctx context.Context, doc *source.Document, count int, sink FrameSink) (int, error) {
	written := 0
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		f := Frame{Index: i, Count: count}
		lines, err := t.Render(doc, f)
		if err != nil {
			return written, fmt.Errorf("кадр %d: %w", i+1, err)
		}
		if err := sink.WriteFrame(ctx, f, lines); err != nil {
			return written, fmt.Errorf("кадр %d: %w", i+1, err)
		}
		written++
	}
	return written, nil
}
