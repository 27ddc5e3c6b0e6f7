package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// NotFoundError is returned when the template path is missing, a directory or not readable.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("шаблон не найден или недоступен: %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Document is a scene template: an ordered, read-only list of lines.
// Each line keeps its own terminator so untouched lines round-trip byte for byte.
type Document struct {
	Path  string
	lines []string
}

// Load reads the template at path once.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, unreadable(path, err)
	}
	if info.IsDir() {
		return nil, &NotFoundError{Path: path, Err: errIsDir}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, unreadable(path, err)
	}
	return Parse(path, string(data)), nil
}

var errIsDir = errors.New("is a directory")

// unreadable maps a missing or inaccessible template to NotFoundError
func unreadable(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return &NotFoundError{Path: path, Err: err}
	}
	return fmt.Errorf("ошибка чтения шаблона %s: %w", path, err)
}

// Parse splits text into lines without dropping "\n" or "\r\n" endings.
func Parse(path, text string) *Document {
	return &Document{Path: path, lines: splitLines(text)}
}

func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}

// LineCount returns the number of lines in the template.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the i-th line (0-based), terminator included.
func (d *Document) Line(i int) string {
	return d.lines[i]
}

// Lines returns a copy of all lines.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Ext returns the template's extension without the dot, "pbrt" if it has none.
func (d *Document) Ext() string {
	ext := strings.TrimPrefix(filepath.Ext(d.Path), ".")
	if ext == "" {
		return "pbrt"
	}
	return ext
}
