package ui

import (
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Dicklesworthstone/deck_viewer/pkg/deck"
)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.NewRenderer(io.Discard)
	}
	if opts.Theme == "" {
		opts.Theme = "dark"
	}
	m, err := NewModel(deck.Builtin(), opts)
	require.NoError(t, err)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	rightKey = tea.KeyMsg{Type: tea.KeyRight}
	leftKey  = tea.KeyMsg{Type: tea.KeyLeft}
)

func TestModelMount(t *testing.T) {
	m := newTestModel(t, Options{})

	s := m.State()
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, 12, s.SlideCount)
	assert.False(t, s.Autoplay)
	assert.Equal(t, 0, m.ActiveTimers())
	assert.Nil(t, m.Init(), "no tick chain without autoplay")

	view := m.View()
	assert.Contains(t, view, "Slide 1 / 12 — Use ← → keys")
	assert.Contains(t, view, m.Deck().Title())
}

func TestModelScenarioClampThenWrap(t *testing.T) {
	m := newTestModel(t, Options{})

	for i := 0; i < 11; i++ {
		m = update(t, m, rightKey)
	}
	require.Equal(t, 11, m.State().Index)

	m = update(t, m, rightKey)
	require.Equal(t, 11, m.State().Index, "next at the last slide clamps")

	m, cmd := updateCmd(t, m, runeKey("p"))
	require.NotNil(t, cmd, "toggling autoplay on schedules a tick")
	require.Equal(t, 1, m.ActiveTimers())

	m = update(t, m, autoplayTickMsg{gen: m.tickGen})
	assert.Equal(t, 0, m.State().Index, "autoplay wraps to the first slide")
	assert.Contains(t, m.View(), "Slide 1 / 12")
}

func TestModelNavigationKeys(t *testing.T) {
	m := newTestModel(t, Options{})

	m = update(t, m, leftKey)
	assert.Equal(t, 0, m.State().Index)

	m = update(t, m, runeKey("d"))
	m = update(t, m, runeKey("D"))
	assert.Equal(t, 2, m.State().Index)

	m = update(t, m, runeKey("a"))
	assert.Equal(t, 1, m.State().Index)

	m = update(t, m, runeKey("9"))
	assert.Equal(t, 8, m.State().Index)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 11, m.State().Index)

	m = update(t, m, runeKey("g"))
	assert.Equal(t, 0, m.State().Index)
}

func TestModelToggleTwiceStopsTicks(t *testing.T) {
	m := newTestModel(t, Options{})

	m = update(t, m, runeKey("p"))
	staleGen := m.tickGen
	m = update(t, m, runeKey("p"))

	assert.False(t, m.State().Autoplay)
	assert.Equal(t, 0, m.ActiveTimers())

	m = update(t, m, autoplayTickMsg{gen: staleGen})
	assert.Equal(t, 0, m.State().Index, "tick from a stopped chain must not advance")
}

func TestModelStaleTickAfterRestart(t *testing.T) {
	m := newTestModel(t, Options{})

	m = update(t, m, runeKey("p"))
	first := m.tickGen
	m = update(t, m, runeKey("p"))
	m = update(t, m, runeKey("p"))
	require.Equal(t, 1, m.ActiveTimers())

	m = update(t, m, autoplayTickMsg{gen: first})
	assert.Equal(t, 0, m.State().Index, "only the newest chain advances")

	m = update(t, m, autoplayTickMsg{gen: m.tickGen})
	assert.Equal(t, 1, m.State().Index)
}

func TestModelAutoplayAtMount(t *testing.T) {
	m := newTestModel(t, Options{Autoplay: true})

	assert.True(t, m.State().Autoplay)
	assert.Equal(t, 1, m.ActiveTimers())
	assert.NotNil(t, m.Init())
}

func TestModelQuitTearsDown(t *testing.T) {
	m := newTestModel(t, Options{Autoplay: true})
	gen := m.tickGen

	m, cmd := updateCmd(t, m, runeKey("q"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)

	assert.True(t, m.Quitting())
	assert.Equal(t, 0, m.ActiveTimers())
	assert.True(t, m.ctrl.Closed())

	m = update(t, m, autoplayTickMsg{gen: gen})
	m = update(t, m, rightKey)
	assert.Equal(t, 0, m.State().Index, "no mutation after teardown")
	assert.Empty(t, m.View())
}

func TestModelDotClick(t *testing.T) {
	m := newTestModel(t, Options{})
	l := m.layout()

	lines := strings.Split(m.View(), "\n")
	require.Greater(t, len(lines), l.dotsRow)
	assert.Contains(t, lines[l.dotsRow], "●", "dots row matches the layout")

	m = update(t, m, tea.MouseMsg{X: 5 * dotCell, Y: l.dotsRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 5, m.State().Index)

	// Past the last dot.
	m = update(t, m, tea.MouseMsg{X: 40 * dotCell, Y: l.dotsRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 5, m.State().Index)

	// Releases are not clicks.
	m = update(t, m, tea.MouseMsg{X: 0, Y: l.dotsRow, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, 5, m.State().Index)
}

func TestModelSidebar(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.NotContains(t, m.View(), "▸ Dashboards")

	m = update(t, m, runeKey("t"))
	view := m.View()
	assert.Contains(t, view, "▸ Dashboards")
	assert.Contains(t, view, "✓", "current slide is marked viewed")

	target, _ := m.Deck().IndexOf("insights")
	row := -1
	for n, line := range m.sidebarLines() {
		if line.index == target {
			row = n
		}
	}
	require.GreaterOrEqual(t, row, 0)

	l := m.layout()
	m = update(t, m, tea.MouseMsg{X: 3, Y: l.sidebarTop + row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, target, m.State().Index)

	// Section headers are not targets.
	m = update(t, m, tea.MouseMsg{X: 3, Y: l.sidebarTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, target, m.State().Index)
}

func TestModelSidebarGroupsSections(t *testing.T) {
	d, err := deck.New(deck.Meta{Title: "Mixed"}, []deck.Slide{
		{Key: "intro", Title: "Intro"},
		{Key: "a1", Title: "A one", Section: "Alpha"},
		{Key: "b1", Title: "B one", Section: "Beta"},
		{Key: "a2", Title: "A two", Section: "Alpha"},
	})
	require.NoError(t, err)
	m, err := NewModel(d, Options{Renderer: lipgloss.NewRenderer(io.Discard), Theme: "dark"})
	require.NoError(t, err)

	var got []string
	for _, line := range m.sidebarLines() {
		got = append(got, line.text)
	}
	assert.Equal(t, []string{"Slides", "Intro", "", "▸ Alpha", "A one", "A two", "", "▸ Beta", "B one"}, got)

	idx, ok := m.sidebarHit(5)
	require.True(t, ok)
	assert.Equal(t, 3, idx, "rows map back to deck positions")
}

func TestModelLogsRenderFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := newTestModel(t, Options{Logger: zap.New(core)})

	m.pane.md = NewMarkdownRenderer(76, "no-such-style")
	m.pane.refresh()

	body := m.Deck().Slide(0).Body
	firstLine := strings.TrimSpace(strings.SplitN(strings.TrimSpace(body), "\n", 2)[0])
	assert.Contains(t, m.pane.viewport.View(), firstLine)
	require.Equal(t, 1, logs.FilterMessage("markdown render failed").Len())
}

func TestModelNotesToggle(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.NotContains(t, m.pane.content(), "Speaker notes")

	m = update(t, m, runeKey("n"))
	if m.Deck().Slide(0).Notes != "" {
		assert.Contains(t, m.pane.content(), "Speaker notes")
	}
	m = update(t, m, runeKey("n"))
	assert.NotContains(t, m.pane.content(), "Speaker notes")
}

func TestModelCopy(t *testing.T) {
	var copied string
	m := newTestModel(t, Options{Clipboard: func(s string) error {
		copied = s
		return nil
	}})
	m = update(t, m, rightKey)

	m, cmd := updateCmd(t, m, runeKey("y"))
	require.NotNil(t, cmd)
	m, clear := updateCmd(t, m, cmd())

	assert.Equal(t, m.Deck().Slide(1).Body, copied)
	assert.Equal(t, "copied objectives", m.Status())
	require.NotNil(t, clear)

	m = update(t, m, statusClearMsg{seq: m.statusSeq})
	assert.Empty(t, m.Status())
}

func TestModelCopyFailure(t *testing.T) {
	m := newTestModel(t, Options{Clipboard: func(string) error {
		return errors.New("no clipboard")
	}})

	_, cmd := updateCmd(t, m, runeKey("y"))
	m = update(t, m, cmd())
	assert.Equal(t, "copy failed: no clipboard", m.Status())
}

func TestModelReloadKeepsSlideByKey(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, runeKey("7")) // dash2
	m = update(t, m, runeKey("p"))
	require.Equal(t, "dash2", m.Deck().Slide(m.State().Index).Key)
	old := m.ctrl

	trimmed, err := deck.New(deck.Meta{Title: "Trimmed"}, deck.Builtin().Slides()[2:])
	require.NoError(t, err)

	m = update(t, m, ReloadMsg{Deck: trimmed})
	assert.True(t, old.Closed(), "previous controller is torn down")
	assert.Equal(t, "dash2", m.Deck().Slide(m.State().Index).Key)
	assert.Equal(t, 10, m.State().SlideCount)
	assert.True(t, m.State().Autoplay, "autoplay survives reload")
	assert.Equal(t, 1, m.ActiveTimers())

	m = update(t, m, autoplayTickMsg{gen: m.tickGen})
	assert.Equal(t, "dash3", m.Deck().Slide(m.State().Index).Key)
}

func TestModelReloadClampsMissingKey(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})

	short, err := deck.New(deck.Meta{Title: "Short"}, deck.Builtin().Slides()[:3])
	require.NoError(t, err)

	m = update(t, m, ReloadMsg{Deck: short})
	assert.Equal(t, 2, m.State().Index)
	assert.Equal(t, 0, m.ActiveTimers())
	assert.Contains(t, m.View(), "Slide 3 / 3")
}

func TestModelHelpToggle(t *testing.T) {
	m := newTestModel(t, Options{})
	before := m.layout().cardHeight

	m = update(t, m, runeKey("?"))
	assert.True(t, m.help.ShowAll)
	assert.Less(t, m.layout().cardHeight, before, "full help takes rows from the card")
}
