// Package sounds finds clip files in directories and decodes them for the
// audio engine.
package sounds

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// ManifestName is the optional per-directory settings file.
const ManifestName = "soundpad.yaml"

// ErrUnsupported is returned when a file's extension has no decoder.
var ErrUnsupported = errors.New("unsupported sound format")

// Entry is one clip file found in a directory, not yet decoded.
type Entry struct {
	Path    string
	Name    string
	FadeOut time.Duration // zero means the board default
}

// Manifest is the soundpad.yaml schema.
type Manifest struct {
	FadeOutMs int                     `yaml:"fadeout_ms"`
	Clips     map[string]ClipSettings `yaml:"clips"`
}

// ClipSettings overrides the directory defaults for one file.
type ClipSettings struct {
	FadeOutMs int    `yaml:"fadeout_ms"`
	Name      string `yaml:"name"`
}

// Supported reports whether a file name has a decodable extension.
func Supported(name string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(name))]
	return ok
}

// List returns the supported clip files in dir sorted by path. A leading
// ~ is expanded to the home directory.
func List(dir string) ([]Entry, error) {
	dir, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", dir, err)
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read clip directory: %w", err)
	}
	m, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !Supported(f.Name()) {
			continue
		}
		e := Entry{
			Path:    filepath.Join(dir, f.Name()),
			Name:    f.Name(),
			FadeOut: msDuration(m.FadeOutMs),
		}
		if cs, ok := m.Clips[f.Name()]; ok {
			if cs.Name != "" {
				e.Name = cs.Name
			}
			if cs.FadeOutMs > 0 {
				e.FadeOut = msDuration(cs.FadeOutMs)
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// LoadManifest reads dir's soundpad.yaml. A missing file yields an empty
// manifest.
func LoadManifest(dir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse %s: %w", filepath.Join(dir, ManifestName), err)
	}
	return m, nil
}

func msDuration(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
