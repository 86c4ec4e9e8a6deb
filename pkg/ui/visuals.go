package ui

import (
	"fmt"
	"math"
	"strings"
)

// dotCell is the column width of one navigation dot including its gap.
const dotCell = 2

// RenderProgressBar creates a textual bar of value (0.0 - 1.0) for plain
// terminals. Partial cells use eighth blocks.
func RenderProgressBar(val float64, width int) string {
	if width <= 0 {
		return ""
	}

	chars := []string{" ", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

	if math.IsNaN(val) {
		val = 0
	}
	if val < 0 {
		val = 0
	}
	if val > 1 {
		val = 1
	}

	fullChars := int(val * float64(width))
	remainder := (val * float64(width)) - float64(fullChars)

	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", fullChars))

	if fullChars < width {
		idx := int(remainder * float64(len(chars)))
		if idx == 0 && remainder > 0 {
			idx = 1
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx > 0 {
			sb.WriteString(chars[idx])
		} else {
			sb.WriteString("░")
		}
	}

	if padding := width - fullChars - 1; padding > 0 {
		sb.WriteString(strings.Repeat("░", padding))
	}

	return sb.String()
}

// PlainDots renders one dot per slide with the current one filled.
func PlainDots(count, index int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		if i == index {
			sb.WriteString("●")
		} else {
			sb.WriteString("○")
		}
		if i < count-1 {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

// RenderDots renders the navigation dots: the current slide uses the slide
// accent colour, the rest are muted.
func RenderDots(count, index int, accent string, t Theme) string {
	r := t.Renderer
	on := r.NewStyle().Foreground(t.AccentColor(accent)).Bold(true)
	off := r.NewStyle().Foreground(t.Secondary)

	var sb strings.Builder
	for i := 0; i < count; i++ {
		if i == index {
			sb.WriteString(on.Render("●"))
		} else {
			sb.WriteString(off.Render("○"))
		}
		if i < count-1 {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

// DotAt maps a column inside the dots row to a slide index.
func DotAt(x, count int) (int, bool) {
	if x < 0 {
		return 0, false
	}
	i := x / dotCell
	if i >= count {
		return 0, false
	}
	return i, true
}

// SlideCounter is the "Slide i / n — Use ← → keys" status line.
func SlideCounter(index, count int) string {
	return fmt.Sprintf("Slide %d / %d — Use ← → keys", index+1, count)
}
