package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// RaiseOpenFileLimit lifts the soft RLIMIT_NOFILE to at least want (capped by the hard limit)
// and returns the resulting soft limit. Each parallel worker holds one frame file open.
func RaiseOpenFileLimit(want uint64) (uint64, error) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, fmt.Errorf("не удалось получить лимит файлов: %w", err)
	}
	if rLimit.Cur >= want {
		return rLimit.Cur, nil
	}

	rLimit.Cur = want
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, fmt.Errorf("не удалось установить лимит файлов: %w", err)
	}
	return rLimit.Cur, nil
}

// FileLimitFor is the open-file budget for n parallel workers plus stdio, logs and slack
func FileLimitFor(workers int) uint64 {
	return uint64(workers)*2 + 64
}

// TemplateExtensions are the scene formats picked up by FindLatestTemplate
var TemplateExtensions = []string{".pbrt"}

// FindLatestTemplate returns the most recently modified scene template in dir
func FindLatestTemplate(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), TemplateExtensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено шаблонов сцены (%s)", dir, strings.Join(TemplateExtensions, ", "))
	}

	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ResolveWorkers turns 0 into DefaultWorkers; other values pass through for validation
func ResolveWorkers(n int) int {
	if n == 0 {
		return DefaultWorkers()
	}
	return n
}

// DefaultWorkers returns the number of physical cores, falling back to runtime.NumCPU
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// MemoryReport describes system memory usage for the performance report
func MemoryReport() string {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Sprintf("n/a (%v)", err)
	}
	return fmt.Sprintf("%.1f%% of %d MiB", vm.UsedPercent, vm.Total/(1024*1024))
}
