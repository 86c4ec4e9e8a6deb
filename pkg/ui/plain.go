package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/deck_viewer/pkg/deck"
	"github.com/Dicklesworthstone/deck_viewer/pkg/nav"
)

// PlainOptions configures RunPlain.
type PlainOptions struct {
	In       io.Reader
	Out      io.Writer
	Interval time.Duration
	Autoplay bool
	Start    int
	Width    int
	// CRLF terminates lines with \r\n, needed once the terminal is raw.
	CRLF bool
	// Style is the Glamour style for slide bodies. Defaults to "notty".
	Style  string
	Clock  nav.Clock
	Logger *zap.Logger
}

// RunPlain presents d as a stream of text frames, reading keys from In.
// Every key and autoplay tick runs on a nav.Loop so no two transitions
// interleave. It returns when a quit key is read, when In is exhausted with
// autoplay off, or when ctx is done.
func RunPlain(ctx context.Context, d *deck.Deck, opts PlainOptions) error {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Style == "" {
		opts.Style = "notty"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	painter := &plainPainter{
		deck:   d,
		out:    opts.Out,
		width:  opts.Width,
		crlf:   opts.CRLF,
		md:     NewMarkdownRenderer(opts.Width, opts.Style),
		logger: opts.Logger,
	}
	ctrl, err := nav.NewController(d.Len(),
		nav.WithStart(opts.Start),
		nav.WithRenderer(painter),
		nav.WithLogger(opts.Logger),
	)
	if err != nil {
		return fmt.Errorf("mount deck: %w", err)
	}
	loop := nav.NewLoop(ctrl,
		nav.WithClock(opts.Clock),
		nav.WithInterval(opts.Interval),
		nav.WithLoopLogger(opts.Logger),
	)

	runErr := make(chan error, 1)
	go func() { runErr <- loop.Run(ctx) }()

	err = loop.Dispatch(ctx, func(c *nav.Controller) {
		painter.Render(c.State())
		if opts.Autoplay {
			c.SetAutoplay(true)
		}
	})
	if err != nil {
		return plainResult(<-runErr)
	}

	keys := make(chan string)
	readErr := make(chan error, 1)
	go func() { readErr <- readKeys(opts.In, keys, loop.Done()) }()

	km := nav.DefaultKeyMap()
	for {
		select {
		case k := <-keys:
			action, target := km.Action(nav.Key(k))
			switch action {
			case nav.ActionQuit:
				_ = loop.Quit(ctx)
			case nav.ActionToggleNotes:
				_ = loop.Dispatch(ctx, func(c *nav.Controller) {
					painter.showNotes = !painter.showNotes
					painter.Render(c.State())
				})
			case nav.ActionNone, nav.ActionToggleIndex, nav.ActionCopy, nav.ActionHelp:
			default:
				_ = loop.Dispatch(ctx, func(c *nav.Controller) { nav.Apply(c, action, target) })
			}

		case err := <-readErr:
			readErr = nil
			if err != nil && !errors.Is(err, io.EOF) {
				opts.Logger.Warn("key input failed", zap.Error(err))
			}
			s, serr := loop.State(ctx)
			if serr == nil && !s.Autoplay {
				_ = loop.Quit(ctx)
			}

		case err := <-runErr:
			return plainResult(err)
		}
	}
}

func plainResult(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// readKeys decodes keys from r until EOF or until done is closed.
func readKeys(r io.Reader, out chan<- string, done <-chan struct{}) error {
	kr := NewKeyReader(r)
	for {
		k, err := kr.ReadKey()
		if err != nil {
			return err
		}
		if k == "" {
			continue
		}
		select {
		case out <- k:
		case <-done:
			return nil
		}
	}
}

// KeyReader decodes raw terminal input into key names in Bubble Tea's
// notation.
type KeyReader struct {
	r *bufio.Reader
}

// NewKeyReader wraps r.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey returns the next key. Unknown escape sequences yield "".
func (k *KeyReader) ReadKey() (string, error) {
	ru, _, err := k.r.ReadRune()
	if err != nil {
		return "", err
	}
	switch ru {
	case 0x1b:
		return k.readEscape(), nil
	case 0x03:
		return "ctrl+c", nil
	case '\r', '\n':
		return "enter", nil
	case ' ':
		return " ", nil
	case 0x7f:
		return "backspace", nil
	}
	return string(ru), nil
}

func (k *KeyReader) readEscape() string {
	if k.r.Buffered() == 0 {
		return "esc"
	}
	next, _, err := k.r.ReadRune()
	if err != nil {
		return "esc"
	}
	if next != '[' && next != 'O' {
		_ = k.r.UnreadRune()
		return "esc"
	}
	code, _, err := k.r.ReadRune()
	if err != nil {
		return ""
	}
	switch code {
	case 'A':
		return "up"
	case 'B':
		return "down"
	case 'C':
		return "right"
	case 'D':
		return "left"
	case 'H':
		return "home"
	case 'F':
		return "end"
	case '1', '4', '5', '6':
		tail, _, err := k.r.ReadRune()
		if err != nil || tail != '~' {
			return ""
		}
		switch code {
		case '1':
			return "home"
		case '4':
			return "end"
		case '5':
			return "pgup"
		default:
			return "pgdown"
		}
	}
	return ""
}

// plainPainter writes one text frame per state change.
type plainPainter struct {
	deck      *deck.Deck
	out       io.Writer
	width     int
	crlf      bool
	md        *MarkdownRenderer
	logger    *zap.Logger
	showNotes bool
}

// Render implements nav.Renderer.
func (p *plainPainter) Render(s nav.State) {
	slide := p.deck.Slide(s.Index)

	var b strings.Builder
	rule := fmt.Sprintf("── [%d/%d] %s ", s.Index+1, s.SlideCount, slide.Title)
	if pad := p.width - len([]rune(rule)); pad > 0 {
		rule += strings.Repeat("─", pad)
	}
	b.WriteString("\n" + rule + "\n")
	if len(slide.Tags) > 0 {
		b.WriteString("[" + strings.Join(slide.Tags, "] [") + "]\n")
	}
	b.WriteString(renderOrRaw(p.md, p.logger, slide.Key, slide.Body) + "\n")
	if p.showNotes && slide.Notes != "" {
		notes := renderOrRaw(p.md, p.logger, slide.Key, slide.Notes)
		b.WriteString("\nSpeaker notes:\n" + notes + "\n")
	}
	b.WriteString("\n")

	bar := RenderProgressBar(s.Progress(), 30)
	b.WriteString(fmt.Sprintf("%s %3.0f%%", bar, s.Progress()*100))
	if s.Autoplay {
		b.WriteString("  ▶ autoplay")
	}
	b.WriteString("\n")
	b.WriteString(SlideCounter(s.Index, s.SlideCount) + "\n")
	b.WriteString(PlainDots(s.SlideCount, s.Index) + "\n")

	frame := b.String()
	if p.crlf {
		frame = strings.ReplaceAll(frame, "\n", "\r\n")
	}
	_, _ = io.WriteString(p.out, frame)
}
