package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/sceneanim/internal/config"
	"github.com/ivlev/sceneanim/internal/keyframe"
	"github.com/ivlev/sceneanim/internal/manifest"
	"github.com/ivlev/sceneanim/internal/output"
	"github.com/ivlev/sceneanim/internal/preview"
	"github.com/ivlev/sceneanim/internal/source"
	"github.com/ivlev/sceneanim/internal/system"
)

type AnimationProject struct {
	Config    *config.Config
	Templater *keyframe.Templater
	Logger    *slog.Logger

	// Quiet suppresses per-frame progress lines
	Quiet bool
}

func NewAnimationProject(cfg *config.Config, logger *slog.Logger) *AnimationProject {
	return &AnimationProject{
		Config:    cfg,
		Templater: NewTemplater(cfg),
		Logger:    logger,
	}
}

// Result summarises a finished run
type Result struct {
	Frames   int
	Ext      string
	Duration time.Duration
}

// Run loads the template and writes one scene file per frame.
// On error the frames already written stay on disk.
func (p *AnimationProject) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	cfg := p.Config

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	doc, err := source.Load(cfg.TemplatePath)
	if err != nil {
		return nil, err
	}

	ext := cfg.Ext
	if ext == "" {
		ext = doc.Ext()
	}

	fmt.Println("--- [PROJECT: KEYFRAME TEMPLATER] ---")
	fmt.Printf("[*] Шаблон: %s | Строк: %d\n", cfg.TemplatePath, doc.LineCount())
	fmt.Printf("[*] Режим: %s | Кадров: %d | Потоков: %d\n", cfg.Mode, cfg.Frames, cfg.Workers)
	fmt.Println("-----------------------------")

	p.Logger.Debug("template loaded", "path", cfg.TemplatePath, "lines", doc.LineCount(), "ext", ext)

	var sink keyframe.FrameSink
	if cfg.DryRun {
		sink = &output.DiscardSink{}
	} else {
		dirSink, err := output.NewDirSink(cfg.OutputDir, ext)
		if err != nil {
			return nil, err
		}
		sink = dirSink
	}
	sink = &progressSink{next: sink, total: cfg.Frames, quiet: p.Quiet, logger: p.Logger}

	var written int
	if cfg.Workers > 1 {
		written, err = p.generateParallel(ctx, doc, sink)
	} else {
		written, err = p.Templater.Generate(ctx, doc, cfg.Frames, sink)
	}
	if err != nil {
		p.Logger.Error("generation aborted", "written", written, "error", err)
		return &Result{Frames: written, Ext: ext, Duration: time.Since(startTime)}, err
	}

	if cfg.ManifestPath != "" {
		m := manifest.Build(cfg.Mode, cfg.TemplatePath, ext, cfg.Frames, p.Templater.Values)
		if err := ensureParent(cfg.ManifestPath); err != nil {
			return nil, err
		}
		if err := manifest.Write(m, cfg.ManifestPath); err != nil {
			return nil, fmt.Errorf("ошибка записи манифеста: %w", err)
		}
		fmt.Printf("[*] Манифест сохранен: %s\n", cfg.ManifestPath)
	}

	if cfg.PreviewPath != "" {
		if err := p.writePreview(); err != nil {
			return nil, fmt.Errorf("ошибка записи превью: %w", err)
		}
		fmt.Printf("[*] Превью сохранено: %s\n", cfg.PreviewPath)
	}

	result := &Result{Frames: written, Ext: ext, Duration: time.Since(startTime)}
	if cfg.ShowStats {
		p.report(result)
	}
	return result, nil
}

// generateParallel renders frames on a bounded errgroup.
// The first error cancels the group; frames not yet started are skipped.
func (p *AnimationProject) generateParallel(ctx context.Context, doc *source.Document, sink keyframe.FrameSink) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.Workers)

	var written atomic.Int64
	count := p.Config.Frames

	for i := 0; i < count; i++ {
		if gctx.Err() != nil {
			break
		}
		f := keyframe.Frame{Index: i, Count: count}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines, err := p.Templater.Render(doc, f)
			if err != nil {
				return fmt.Errorf("кадр %d: %w", f.Index+1, err)
			}
			if err := sink.WriteFrame(gctx, f, lines); err != nil {
				return fmt.Errorf("кадр %d: %w", f.Index+1, err)
			}
			written.Add(1)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return int(written.Load()), err
}

func (p *AnimationProject) writePreview() error {
	if err := ensureParent(p.Config.PreviewPath); err != nil {
		return err
	}
	switch p.Config.Mode {
	case config.ModeSpiral:
		return preview.Save(preview.Spiral(spiralOf(p.Config), p.Config.Frames), p.Config.PreviewPath)
	default:
		return preview.Save(preview.Orbit(orbitOf(p.Config).Trajectory(p.Config.Frames)), p.Config.PreviewPath)
	}
}

func (p *AnimationProject) report(r *Result) {
	fps := float64(r.Frames) / r.Duration.Seconds()
	memory := system.MemoryReport()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.3fs\n"+
			"Frames: %d\n"+
			"Effective FPS: %.2f\n"+
			"Memory: %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, r.Duration.Seconds(), r.Frames, fps, memory,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Template: %s | Mode: %s | Frames: %d | Workers: %d | Total: %.3fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.TemplatePath),
		p.Config.Mode,
		r.Frames,
		p.Config.Workers,
		r.Duration.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}

func ensureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

// progressSink prints a line per finished frame
type progressSink struct {
	next   keyframe.FrameSink
	total  int
	done   atomic.Int64
	quiet  bool
	logger *slog.Logger
}

func (s *progressSink) WriteFrame(ctx context.Context, f keyframe.Frame, lines []string) error {
	if err := s.next.WriteFrame(ctx, f, lines); err != nil {
		return err
	}
	n := s.done.Add(1)
	if !s.quiet {
		fmt.Printf("[>] Ready: %d/%d\n", n, s.total)
	}
	s.logger.Debug("frame written", "frame", f.Index+1, "lines", len(lines))
	return nil
}
