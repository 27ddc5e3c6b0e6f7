package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindLatest finds the most recent manifest file in dir
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read manifest directory: %w", err)
	}

	var manifests []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && (strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			manifests = append(manifests, filepath.Join(dir, name))
		}
	}

	if len(manifests) == 0 {
		return "", fmt.Errorf("no manifest files found in %s", dir)
	}

	// Newest first
	sort.Slice(manifests, func(i, j int) bool {
		infoI, _ := os.Stat(manifests[i])
		infoJ, _ := os.Stat(manifests[j])
		return infoI.ModTime().After(infoJ.ModTime())
	})

	return manifests[0], nil
}
