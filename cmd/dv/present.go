package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/deck_viewer/pkg/deck"
	"github.com/Dicklesworthstone/deck_viewer/pkg/ui"
	"github.com/Dicklesworthstone/deck_viewer/pkg/watch"
)

// runPresent mounts the deck and runs a presenter until the user quits.
func runPresent(cmd *cobra.Command, args []string) error {
	d, path, err := openDeck(args)
	if err != nil {
		return err
	}
	if watchDeck && path == "" {
		return errors.New("--watch needs a deck file")
	}

	first, err := cfg.StartIndex(d)
	if err != nil {
		return err
	}
	if pick {
		first, err = ui.PickSlide(d, first)
		if errors.Is(err, ui.ErrPickAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("presenting deck",
		zap.String("path", path),
		zap.String("title", d.Title()),
		zap.Int("slides", d.Len()),
		zap.Bool("plain", plainMode()),
	)
	if plainMode() {
		if watchDeck {
			return errors.New("--watch is not supported with --plain")
		}
		return presentPlain(ctx, d, first)
	}
	return presentTUI(ctx, d, path, first)
}

// openDeck loads the deck named by the argument or the config, falling back
// to the bundled deck. path is empty for the bundled deck.
func openDeck(args []string) (*deck.Deck, string, error) {
	path := cfg.Deck
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return deck.Builtin(), "", nil
	}
	d, err := deck.Load(path)
	if err != nil {
		return nil, "", err
	}
	return d, path, nil
}

// presentTUI runs the Bubble Tea program and, with --watch, the file
// watcher. Either failing stops the other.
func presentTUI(ctx context.Context, d *deck.Deck, path string, first int) error {
	m, err := ui.NewModel(d, ui.Options{
		Interval: cfg.Interval,
		Autoplay: cfg.Autoplay,
		Start:    first,
		Theme:    cfg.Theme,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	opts := []tea.ProgramOption{tea.WithContext(gctx)}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	watchCtx, stopWatch := context.WithCancel(gctx)
	defer stopWatch()

	if watchDeck {
		w, err := watch.New(path, watch.WithLogger(logger))
		if err != nil {
			return err
		}
		logger.Info("watching deck", zap.String("path", w.Path()))
		g.Go(func() error {
			return w.Run(watchCtx, func(d *deck.Deck) {
				p.Send(ui.ReloadMsg{Deck: d})
			})
		})
	}

	g.Go(func() error {
		defer stopWatch()
		_, err := p.Run()
		if err != nil && ctx.Err() != nil {
			// Interrupted: the program was killed through its context.
			return nil
		}
		if err != nil {
			return fmt.Errorf("presenter: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// presentPlain runs the line presenter, with the terminal in raw mode when
// stdin is one.
func presentPlain(ctx context.Context, d *deck.Deck, first int) error {
	crlf := false
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw mode: %w", err)
		}
		defer term.Restore(fd, state)
		crlf = true
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	return ui.RunPlain(ctx, d, ui.PlainOptions{
		In:       os.Stdin,
		Out:      os.Stdout,
		Interval: cfg.Interval,
		Autoplay: cfg.Autoplay,
		Start:    first,
		Width:    width,
		CRLF:     crlf,
		Logger:   logger,
	})
}
