package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivlev/sceneanim/internal/config"
	"github.com/ivlev/sceneanim/internal/engine"
	"github.com/ivlev/sceneanim/internal/keyframe"
	"github.com/ivlev/sceneanim/internal/logs"
	"github.com/ivlev/sceneanim/internal/manifest"
	"github.com/ivlev/sceneanim/internal/source"
	"github.com/ivlev/sceneanim/internal/system"
)

// buildVersion is set with -ldflags "-X main.buildVersion=..."
var buildVersion = "dev"

// options holds the raw command line values
type options struct {
	configPath   string
	mode         string
	template     string
	output       string
	ext          string
	frames       int
	radius       float64
	height       float64
	teapots      int
	yFar         float64
	yNear        float64
	phase        float64
	workers      int
	manifest     string
	preview      string
	dryRun       bool
	stats        bool
	logLevel     string
	logFile      string
	showManifest string
}

func main() {
	// Создаем нужные директории, если их нет
	dirs := []string{"input", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	var o options
	flag.StringVar(&o.configPath, "config", "", "YAML-пресет (см. configs/). Флаги командной строки имеют приоритет")
	flag.StringVar(&o.mode, "mode", config.ModeOrbit, "Режим: orbit (облет камеры), spiral (спираль объектов)")
	flag.StringVar(&o.template, "template", "", "Путь к шаблону сцены (по умолчанию: самый свежий .pbrt в input/)")
	flag.StringVar(&o.output, "output", "", "Папка для кадров (по умолчанию: output/<режим>)")
	flag.StringVar(&o.ext, "ext", "", "Расширение кадров (по умолчанию: как у шаблона)")
	flag.IntVar(&o.frames, "frames", 0, "Количество кадров (по умолчанию для режима: orbit 96, spiral 48)")
	flag.Float64Var(&o.radius, "radius", 100, "orbit: радиус облета")
	flag.Float64Var(&o.height, "height", 20, "orbit: высота камеры")
	flag.IntVar(&o.teapots, "teapots", 8, "spiral: количество объектов")
	flag.Float64Var(&o.yFar, "y-far", 26, "spiral: дальняя граница по Y (за задней стеной)")
	flag.Float64Var(&o.yNear, "y-near", -36, "spiral: ближняя граница по Y (за камерой)")
	flag.Float64Var(&o.phase, "phase", 0, "spiral: сдвиг цикла в [0,1)")
	flag.IntVar(&o.workers, "workers", 1, "Потоки (1 - строго последовательно, 0 - по числу ядер)")
	flag.StringVar(&o.manifest, "manifest", "", "Сохранить YAML-манифест кадров по этому пути")
	flag.StringVar(&o.preview, "preview", "", "Сохранить PNG-превью траектории по этому пути")
	flag.BoolVar(&o.dryRun, "dry-run", false, "Только проверить шаблон, ничего не записывать")
	flag.BoolVar(&o.stats, "stats", false, "Показать отчет о производительности и дописать benchmark.log")
	flag.StringVar(&o.logLevel, "log-level", "info", "Уровень логирования: debug, info, warn, error")
	flag.StringVar(&o.logFile, "log-file", "", "Дублировать лог в файл (JSON)")
	flag.StringVar(&o.showManifest, "show-manifest", "", "Показать манифест (файл или папка: берется самый свежий) и выйти")

	flag.Parse()

	if o.showManifest != "" {
		m, path, err := manifest.Open(o.showManifest)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения манифеста: %v", err)
		}
		fmt.Printf("[*] Манифест: %s\n", path)
		if err := manifest.Describe(os.Stdout, m); err != nil {
			log.Fatalf("[-] Ошибка вывода манифеста: %v", err)
		}
		return
	}

	level, err := logs.ParseLevel(o.logLevel)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	logs.Level.Set(level)

	logger, closer, err := logs.New(os.Stderr, o.logFile)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	defer closer.Close()

	var cfg *config.Config
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения пресета: %v", err)
		}
		fmt.Printf("[*] Пресет: %s\n", o.configPath)
	} else {
		cfg = config.Default(o.mode)
	}

	// Явно заданные флаги перекрывают пресет
	flag.Visit(func(f *flag.Flag) {
		applyFlag(cfg, f.Name, &o)
	})
	cfg.BuildVersion = buildVersion
	cfg.Workers = system.ResolveWorkers(cfg.Workers)

	if cfg.TemplatePath == "" {
		latest, err := system.FindLatestTemplate("input")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите шаблон сцены в input/", err)
		}
		cfg.TemplatePath = latest
		fmt.Printf("[*] Выбран шаблон: %s\n", cfg.TemplatePath)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	if cfg.Workers > 1 {
		limit, err := system.RaiseOpenFileLimit(system.FileLimitFor(cfg.Workers))
		if err != nil {
			log.Printf("[!] %v", err)
		} else {
			logger.Debug("open file limit", "limit", limit, "workers", cfg.Workers)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewAnimationProject(cfg, logger)
	result, err := project.Run(ctx)
	if err != nil {
		var nf *source.NotFoundError
		var pe *keyframe.ParseError
		switch {
		case errors.As(err, &nf):
			log.Fatalf("[-] Ошибка: %v", nf)
		case errors.As(err, &pe):
			log.Fatalf("[-] Ошибка разбора шаблона: %v", err)
		default:
			log.Fatalf("[-] Ошибка проекта: %v", err)
		}
	}

	if cfg.DryRun {
		fmt.Printf("[+++] Шаблон в порядке: %d кадров проверено, файлы не записаны\n", result.Frames)
		return
	}
	fmt.Printf("[+++] Успех! Сгенерировано %d кадров в %s\n", result.Frames, cfg.OutputDir)
}

// applyFlag copies one explicitly set flag into cfg; Validate rejects bad values later
func applyFlag(cfg *config.Config, name string, o *options) {
	switch name {
	case "mode":
		cfg.Mode = o.mode
	case "template":
		cfg.TemplatePath = o.template
	case "output":
		cfg.OutputDir = o.output
	case "ext":
		cfg.Ext = o.ext
	case "frames":
		cfg.Frames = o.frames
	case "radius":
		cfg.Orbit.Radius = o.radius
	case "height":
		cfg.Orbit.Height = o.height
	case "teapots":
		cfg.Spiral.Teapots = o.teapots
	case "y-far":
		cfg.Spiral.YFar = o.yFar
	case "y-near":
		cfg.Spiral.YNear = o.yNear
	case "phase":
		cfg.Spiral.PhaseOffset = o.phase
	case "workers":
		cfg.Workers = o.workers
	case "manifest":
		cfg.ManifestPath = o.manifest
	case "preview":
		cfg.PreviewPath = o.preview
	case "dry-run":
		cfg.DryRun = o.dryRun
	case "stats":
		cfg.ShowStats = o.stats
	}
}
