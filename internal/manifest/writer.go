package manifest

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Write writes a manifest to a YAML file
func Write(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads a manifest from a YAML file
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return &m, nil
}

// Open reads the manifest at path; a directory resolves to its newest manifest
func Open(path string) (*Manifest, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		path, err = FindLatest(path)
		if err != nil {
			return nil, "", err
		}
	}

	m, err := Read(path)
	if err != nil {
		return nil, "", err
	}
	return m, path, nil
}
