// Package deck defines the slide deck: an immutable, ordered sequence of slides
// fixed when the deck is built, plus loaders for the bundled deck and deck files.
package deck

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyDeck is returned when a deck would contain no slides.
	ErrEmptyDeck = errors.New("deck has no slides")
	// ErrMissingKey is returned when a slide has an empty key.
	ErrMissingKey = errors.New("slide key is empty")
	// ErrDuplicateKey is returned when two slides share a key.
	ErrDuplicateKey = errors.New("duplicate slide key")
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported deck format")
)

// Slide is one static content unit of a deck.
type Slide struct {
	Key     string   `yaml:"key"`               // Stable identifier (e.g., "title", "dash1")
	Title   string   `yaml:"title"`             // Title shown in the index sidebar
	Section string   `yaml:"section,omitempty"` // Sidebar grouping
	Accent  string   `yaml:"accent,omitempty"`  // Card accent colour name
	Tags    []string `yaml:"tags,omitempty"`    // Chips rendered above the body
	Body    string   `yaml:"body"`              // Markdown
	Notes   string   `yaml:"notes,omitempty"`   // Speaker notes (Markdown)
}

// Deck is the ordered slide sequence. It is never mutated after New returns.
type Deck struct {
	title    string
	subtitle string
	footer   string
	slides   []Slide
	byKey    map[string]int
}

// Meta carries the deck-level copy shown around the slides.
type Meta struct {
	Title    string
	Subtitle string
	Footer   string
}

// New validates slides and builds a deck. The slice is copied.
func New(meta Meta, slides []Slide) (*Deck, error) {
	if len(slides) == 0 {
		return nil, ErrEmptyDeck
	}

	d := &Deck{
		title:    meta.Title,
		subtitle: meta.Subtitle,
		footer:   meta.Footer,
		slides:   make([]Slide, len(slides)),
		byKey:    make(map[string]int, len(slides)),
	}
	for i, s := range slides {
		s.Key = strings.TrimSpace(s.Key)
		if s.Key == "" {
			return nil, fmt.Errorf("slide %d: %w", i+1, ErrMissingKey)
		}
		if prev, ok := d.byKey[s.Key]; ok {
			return nil, fmt.Errorf("slide %d %q (first used by slide %d): %w", i+1, s.Key, prev+1, ErrDuplicateKey)
		}
		if s.Title == "" {
			s.Title = s.Key
		}
		s.Tags = append([]string(nil), s.Tags...)
		d.byKey[s.Key] = i
		d.slides[i] = s
	}
	return d, nil
}

// Len returns the number of slides. It is always at least 1.
func (d *Deck) Len() int { return len(d.slides) }

// Title returns the deck title.
func (d *Deck) Title() string { return d.title }

// Subtitle returns the deck subtitle.
func (d *Deck) Subtitle() string { return d.subtitle }

// Footer returns the deck footer line.
func (d *Deck) Footer() string { return d.footer }

// Slide returns the slide at position i. It panics if i is out of range,
// like a slice index would.
func (d *Deck) Slide(i int) Slide {
	s := d.slides[i]
	s.Tags = append([]string(nil), s.Tags...)
	return s
}

// Slides returns a copy of all slides in order.
func (d *Deck) Slides() []Slide {
	out := make([]Slide, len(d.slides))
	for i := range d.slides {
		out[i] = d.Slide(i)
	}
	return out
}

// Keys returns slide keys in order.
func (d *Deck) Keys() []string {
	keys := make([]string, len(d.slides))
	for i, s := range d.slides {
		keys[i] = s.Key
	}
	return keys
}

// IndexOf returns the position of the slide with the given key.
func (d *Deck) IndexOf(key string) (int, bool) {
	i, ok := d.byKey[key]
	return i, ok
}

// Sections returns section names in first-appearance order.
func (d *Deck) Sections() []string {
	var sections []string
	seen := make(map[string]bool)
	for _, s := range d.slides {
		if s.Section == "" || seen[s.Section] {
			continue
		}
		seen[s.Section] = true
		sections = append(sections, s.Section)
	}
	return sections
}
