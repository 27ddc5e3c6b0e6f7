package manifest

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ivlev/sceneanim/internal/keyframe"
)

// Describe prints a manifest as one line per frame
func Describe(w io.Writer, m *Manifest) error {
	if _, err := fmt.Fprintf(w, "[*] Режим: %s | Шаблон: %s | Кадров: %d\n", m.Mode, m.Template, len(m.Frames)); err != nil {
		return err
	}

	for _, f := range m.Frames {
		entities := make([]int, 0, len(f.Values))
		for e := range f.Values {
			entities = append(entities, e)
		}
		sort.Ints(entities)

		parts := make([]string, 0, len(entities))
		for _, e := range entities {
			slots := make([]string, len(f.Values[e]))
			for i, v := range f.Values[e] {
				slots[i] = keyframe.FormatFloat(v)
			}
			parts = append(parts, fmt.Sprintf("%d=(%s)", e, strings.Join(slots, " ")))
		}

		if _, err := fmt.Fprintf(w, "%s t=%.4f %s\n", f.File, f.T, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}
