package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// MarkdownRenderer renders slide bodies with Glamour. Output is cached per
// source string until the width or style changes.
type MarkdownRenderer struct {
	width int
	style string
	tr    *glamour.TermRenderer
	err   error // why tr could not be built
	cache map[string]string
}

// NewMarkdownRenderer creates a renderer that wraps at width. style is a
// Glamour standard style name ("dark", "light", "notty", "ascii") or "auto".
func NewMarkdownRenderer(width int, style string) *MarkdownRenderer {
	m := &MarkdownRenderer{style: style}
	m.SetWidth(width)
	return m
}

// SetWidth rebuilds the renderer when the wrap width changes.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if m.tr != nil && width == m.width {
		return
	}
	m.width = width
	m.cache = make(map[string]string)

	styleOpt := glamour.WithStandardStyle(m.style)
	if m.style == "" || m.style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	tr, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		m.tr, m.err = nil, fmt.Errorf("glamour style %q: %w", m.style, err)
		return
	}
	m.tr, m.err = tr, nil
}

// Render returns src rendered for the terminal. When Glamour is unavailable
// or fails, the raw Markdown is returned along with the error.
func (m *MarkdownRenderer) Render(src string) (string, error) {
	if out, ok := m.cache[src]; ok {
		return out, nil
	}
	if m.tr == nil {
		return src, m.err
	}
	out, err := m.tr.Render(src)
	if err != nil {
		return src, err
	}
	out = strings.Trim(out, "\n")
	m.cache[src] = out
	return out, nil
}

// renderOrRaw renders src for slide key, falling back to the raw Markdown
// and logging the failure.
func renderOrRaw(md *MarkdownRenderer, logger *zap.Logger, key, src string) string {
	out, err := md.Render(src)
	if err != nil {
		logger.Warn("markdown render failed", zap.String("slide", key), zap.Error(err))
	}
	return out
}
