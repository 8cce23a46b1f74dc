package config

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed presets/*.toml
var presetFS embed.FS

// PresetName returns the embedded preset file name for a dataset.
func PresetName(kind string, vintage int) string {
	return fmt.Sprintf("%s-%d.toml", strings.ToLower(kind), vintage)
}

// Presets lists the embedded (kind, vintage) presets, sorted by name.
func Presets() ([]string, error) {
	entries, err := fs.ReadDir(presetFS, "presets")
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".toml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names, nil
}

// LoadPreset returns the embedded configuration for a dataset kind and vintage.
func LoadPreset(kind string, vintage int, overrides ...Override) (*Config, error) {
	data, err := presetFS.ReadFile(path.Join("presets", PresetName(kind, vintage)))
	if err != nil {
		return nil, fmt.Errorf("no preset for %s %d", kind, vintage)
	}
	cfg := Default()
	if err := decode(bytes.NewReader(data), &cfg); err != nil {
		return nil, fmt.Errorf("preset %s %d: %w", kind, vintage, err)
	}
	return finish(&cfg, overrides)
}
