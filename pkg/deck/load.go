package deck

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML shape of a deck.
type File struct {
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle,omitempty"`
	Footer   string  `yaml:"footer,omitempty"`
	Slides   []Slide `yaml:"slides"`
}

// Load reads a deck file, choosing the parser by extension.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}

	var d *Deck
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		d, err = ParseYAML(data)
	case ".md", ".markdown":
		d, err = ParseMarkdown(data)
	default:
		return nil, fmt.Errorf("%s: %w (%q)", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// IsDeckFile reports whether path has an extension Load understands.
func IsDeckFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".md", ".markdown":
		return true
	}
	return false
}

// ParseYAML decodes a YAML deck. Unknown fields are rejected so typos in
// slide definitions surface instead of silently dropping content.
func ParseYAML(data []byte) (*Deck, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing deck yaml: %w", err)
	}
	return New(Meta{Title: f.Title, Subtitle: f.Subtitle, Footer: f.Footer}, f.Slides)
}
