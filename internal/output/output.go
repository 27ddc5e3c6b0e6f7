package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/ivlev/sceneanim/internal/keyframe"
	"github.com/ivlev/sceneanim/internal/system"
)

// DirSink writes each frame to Dir/{index+1}.{Ext}
type DirSink struct {
	Dir string
	Ext string
}

// NewDirSink creates dir if it does not exist
func NewDirSink(dir, ext string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать папку %s: %w", dir, err)
	}
	return &DirSink{Dir: dir, Ext: ext}, nil
}

// Path returns the file a frame is written to
func (s *DirSink) Path(f keyframe.Frame) string {
	return filepath.Join(s.Dir, f.Name(s.Ext))
}

// WriteFrame overwrites any earlier output of the same frame
func (s *DirSink) WriteFrame(ctx context.Context, f keyframe.Frame, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf := system.GetBuffer()
	defer system.PutBuffer(buf)
	for _, line := range lines {
		buf.WriteString(line)
	}

	path := s.Path(f)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", path, err)
	}
	return nil
}

// DiscardSink counts frames without writing them
type DiscardSink struct {
	frames atomic.Int64
	lines  atomic.Int64
}

func (s *DiscardSink) WriteFrame(_ context.Context, _ keyframe.Frame, lines []string) error {
	s.frames.Add(1)
	s.lines.Add(int64(len(lines)))
	return nil
}

// Frames returns how many frames were received
func (s *DiscardSink) Frames() int {
	return int(s.frames.Load())
}

// Lines returns the total number of lines received
func (s *DiscardSink) Lines() int {
	return int(s.lines.Load())
}
