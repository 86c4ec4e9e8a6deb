package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/Dicklesworthstone/deck_viewer/pkg/deck"
	"github.com/Dicklesworthstone/deck_viewer/pkg/nav"
)

// ErrPickAborted is returned when the picker is dismissed without a choice.
var ErrPickAborted = errors.New("slide selection aborted")

// PickSlide asks which slide to start on and returns its index. start is
// the preselected slide.
func PickSlide(d *deck.Deck, start int) (int, error) {
	choice := nav.Clamp(start, d.Len())
	err := huh.NewSelect[int]().
		Title(d.Title()).
		Description("Start at slide").
		Options(slideOptions(d)...).
		Value(&choice).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return start, ErrPickAborted
	}
	if err != nil {
		return start, fmt.Errorf("pick slide: %w", err)
	}
	return choice, nil
}

func slideOptions(d *deck.Deck) []huh.Option[int] {
	slides := d.Slides()
	opts := make([]huh.Option[int], len(slides))
	for i, s := range slides {
		label := fmt.Sprintf("%2d. %s", i+1, s.Title)
		if s.Section != "" {
			label += "  (" + s.Section + ")"
		}
		opts[i] = huh.NewOption(label, i)
	}
	return opts
}
