package deck

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ParseMarkdown builds a deck from a Markdown document.
//
// Slides are separated by a thematic break (---, *** or ___) on a line of its
// own that follows a blank line or the start of the file; breaks inside fenced
// code are ignored, and a "---" directly under a text line stays a setext
// underline. The first heading of a slide is its title and, slugified, its key.
// Everything after a "Notes:" or "<!-- notes -->" line is speaker notes.
func ParseMarkdown(data []byte) (*Deck, error) {
	p := goldmark.New().Parser()

	var slides []Slide
	used := make(map[string]int)
	for _, chunk := range splitSlides(string(data)) {
		body, notes := splitNotes(chunk)
		if body == "" && notes == "" {
			continue
		}

		title := firstHeading(p, []byte(body))
		key := slugify(title)
		if key == "" {
			key = fmt.Sprintf("slide-%d", len(slides)+1)
		}
		key = uniqueKey(key, used)
		if title == "" {
			title = fmt.Sprintf("Slide %d", len(slides)+1)
		}

		slides = append(slides, Slide{
			Key:   key,
			Title: title,
			Body:  body,
			Notes: notes,
		})
	}

	var meta Meta
	if len(slides) > 0 {
		meta.Title = slides[0].Title
	}
	return New(meta, slides)
}

func splitSlides(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")

	var (
		chunks    []string
		cur       []string
		fence     string
		prevBlank = true
	)
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]) == "" {
				fence = ""
			}
			cur = append(cur, line)
			prevBlank = false
			continue
		}
		if f := fenceMarker(trimmed); f != "" {
			fence = f
			cur = append(cur, line)
			prevBlank = false
			continue
		}
		if prevBlank && isThematicBreak(line) {
			chunks = append(chunks, strings.Join(cur, "\n"))
			cur = nil
			prevBlank = true
			continue
		}

		cur = append(cur, line)
		prevBlank = trimmed == ""
	}
	return append(chunks, strings.Join(cur, "\n"))
}

func fenceMarker(trimmed string) string {
	for _, c := range []string{"`", "~"} {
		if !strings.HasPrefix(trimmed, c+c+c) {
			continue
		}
		n := len(trimmed) - len(strings.TrimLeft(trimmed, c))
		return strings.Repeat(c, n)
	}
	return ""
}

func isThematicBreak(line string) bool {
	indent := len(line) - len(strings.TrimLeft(line, " "))
	if indent > 3 {
		return false
	}
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, line)
	if len(compact) < 3 {
		return false
	}
	switch compact[0] {
	case '-', '*', '_':
	default:
		return false
	}
	return strings.Trim(compact, compact[:1]) == ""
}

func splitNotes(chunk string) (body, notes string) {
	lines := strings.Split(chunk, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		switch {
		case lower == "<!-- notes -->":
			return trimBlankLines(strings.Join(lines[:i], "\n")), trimBlankLines(strings.Join(lines[i+1:], "\n"))
		case strings.HasPrefix(lower, "notes:"):
			rest := append([]string{strings.TrimSpace(trimmed[len("notes:"):])}, lines[i+1:]...)
			return trimBlankLines(strings.Join(lines[:i], "\n")), trimBlankLines(strings.Join(rest, "\n"))
		}
	}
	return trimBlankLines(chunk), ""
}

func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func firstHeading(p parser.Parser, src []byte) string {
	doc := p.Parse(text.NewReader(src))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var sb strings.Builder
		lines := h.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(src))
		}
		title = stripInlineMarks(sb.String())
		return ast.WalkStop, nil
	})
	return title
}

var inlineMarks = strings.NewReplacer("**", "", "__", "", "`", "", "*", "")

func stripInlineMarks(s string) string {
	return strings.TrimSpace(inlineMarks.Replace(s))
}

func slugify(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

func uniqueKey(key string, used map[string]int) string {
	used[key]++
	if used[key] == 1 {
		return key
	}
	for {
		candidate := fmt.Sprintf("%s-%d", key, used[key])
		if used[candidate] == 0 {
			used[candidate] = 1
			return candidate
		}
		used[key]++
	}
}
