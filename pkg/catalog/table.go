package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const maxTitleWidth = 48

// WriteTable prints one row per result: slides, title, path. Failed loads
// show the error in place of the title.
func WriteTable(w io.Writer, results []LoadResult) error {
	titles := make([]string, len(results))
	width := runewidth.StringWidth("TITLE")
	for i, r := range results {
		t := "error: " + errString(r.Error)
		if r.Error == nil {
			t = r.Deck.Title()
			if t == "" {
				t = "(untitled)"
			}
		}
		t = runewidth.Truncate(t, maxTitleWidth, "…")
		titles[i] = t
		if tw := runewidth.StringWidth(t); tw > width {
			width = tw
		}
	}

	pad := func(s string) string {
		return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
	}

	if _, err := fmt.Fprintf(w, "%6s  %s  %s\n", "SLIDES", pad("TITLE"), "PATH"); err != nil {
		return err
	}
	for i, r := range results {
		slides := "-"
		if r.Error == nil {
			slides = fmt.Sprint(r.Deck.Len())
		}
		if _, err := fmt.Fprintf(w, "%6s  %s  %s\n", slides, pad(titles[i]), r.Path); err != nil {
			return err
		}
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
