// Package ui renders a deck in the terminal: a Bubble Tea presenter, a plain
// line-oriented presenter for dumb terminals and a deck picker.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/deck_viewer/pkg/deck"
	"github.com/Dicklesworthstone/deck_viewer/pkg/nav"
)

const (
	sidebarWidth  = 26
	headerHeight  = 3 // title, progress bar, blank
	minCardHeight = 5
	statusTimeout = 2 * time.Second
)

// Options configures a Model.
type Options struct {
	Interval time.Duration
	Autoplay bool
	Start    int
	// Theme is "auto", "dark" or "light".
	Theme     string
	Renderer  *lipgloss.Renderer
	Logger    *zap.Logger
	Clipboard func(string) error
	Now       func() time.Time
}

// ReloadMsg remounts the presenter on a new deck. The current slide is kept
// by key when it still exists, otherwise by clamped index.
type ReloadMsg struct {
	Deck *deck.Deck
}

type autoplayTickMsg struct{ gen int }

type statusMsg struct{ text string }

type statusClearMsg struct{ seq int }

// Model is the Bubble Tea presenter.
type Model struct {
	deck   *deck.Deck
	ctrl   *nav.Controller
	pane   *slidePane
	keys   nav.KeyMap
	help   help.Model
	bar    progress.Model
	theme  Theme
	opts   Options
	logger *zap.Logger

	width, height int

	// Autoplay timer. tickGen invalidates ticks scheduled before the last
	// start or stop so at most one tick chain is ever live.
	tickGen     int
	timerActive bool

	showIndex bool
	viewed    map[string]bool

	status    string
	statusSeq int
	quitting  bool
}

// NewModel mounts d. The model owns its controller until quit.
func NewModel(d *deck.Deck, opts Options) (Model, error) {
	if opts.Interval <= 0 {
		opts.Interval = nav.DefaultInterval
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	switch opts.Theme {
	case "dark":
		opts.Renderer.SetHasDarkBackground(true)
	case "light":
		opts.Renderer.SetHasDarkBackground(false)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	theme := DefaultTheme(opts.Renderer)
	m := Model{
		deck:   d,
		keys:   nav.DefaultKeyMap(),
		help:   help.New(),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		theme:  theme,
		opts:   opts,
		logger: opts.Logger,
		width:  80,
		height: 24,
		viewed: make(map[string]bool),
	}
	m.pane = newSlidePane(d, theme, glamourStyle(opts.Theme), m.logger)

	ctrl, err := m.mount(opts.Start)
	if err != nil {
		return Model{}, err
	}
	m.ctrl = ctrl
	if opts.Autoplay {
		ctrl.SetAutoplay(true)
	}
	m.syncTimer()
	m.resize()
	m.markViewed()
	return m, nil
}

func glamourStyle(theme string) string {
	switch theme {
	case "dark", "light":
		return theme
	default:
		return "auto"
	}
}

// mount builds a controller for the current deck. Every mount gets its own
// id so log lines from a reload can be told apart.
func (m *Model) mount(start int) (*nav.Controller, error) {
	id := uuid.NewString()
	ctrl, err := nav.NewController(m.deck.Len(),
		nav.WithStart(start),
		nav.WithRenderer(m.pane),
		nav.WithLogger(m.logger.With(zap.String("mount_id", id))),
	)
	if err != nil {
		return nil, fmt.Errorf("mount deck: %w", err)
	}
	m.pane.mount(ctrl.State())
	m.logger.Info("deck mounted",
		zap.String("mount_id", id),
		zap.String("title", m.deck.Title()),
		zap.Int("slides", m.deck.Len()),
		zap.Int("start", ctrl.Index()),
	)
	return ctrl, nil
}

// Init starts the autoplay tick chain when mounted with autoplay on.
func (m Model) Init() tea.Cmd {
	if m.timerActive {
		return m.scheduleTick()
	}
	return nil
}

// Update handles keys, mouse, resizes, autoplay ticks and reloads.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.quitting {
			return m, nil
		}
		return m.handleMouse(msg)

	case autoplayTickMsg:
		// Ticks from a stopped chain, or after teardown, are dropped.
		if msg.gen != m.tickGen || !m.timerActive || m.ctrl.Closed() {
			return m, nil
		}
		m.ctrl.Advance()
		m.markViewed()
		return m, m.scheduleTick()

	case ReloadMsg:
		if m.quitting || msg.Deck == nil {
			return m, nil
		}
		return m.remount(msg.Deck)

	case statusMsg:
		m.statusSeq++
		m.status = msg.text
		seq := m.statusSeq
		return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, target := m.keys.Action(msg)
	switch action {
	case nav.ActionQuit:
		m = m.teardown()
		return m, tea.Quit
	case nav.ActionToggleIndex:
		m.showIndex = !m.showIndex
		m.resize()
	case nav.ActionToggleNotes:
		m.pane.showNotes = !m.pane.showNotes
		m.pane.refresh()
	case nav.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case nav.ActionCopy:
		return m, m.copySlide()
	case nav.ActionNone:
		var cmd tea.Cmd
		m.pane.viewport, cmd = m.pane.viewport.Update(msg)
		return m, cmd
	default:
		nav.Apply(m.ctrl, action, target)
		m.markViewed()
	}
	return m, m.syncTimer()
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		var cmd tea.Cmd
		m.pane.viewport, cmd = m.pane.viewport.Update(msg)
		return m, cmd
	}

	l := m.layout()
	switch {
	case msg.Y == l.dotsRow:
		if i, ok := DotAt(msg.X, m.deck.Len()); ok {
			m.ctrl.GotoSlide(i)
			m.markViewed()
		}
	case m.showIndex && msg.X < sidebarWidth:
		if i, ok := m.sidebarHit(msg.Y - l.sidebarTop); ok {
			m.ctrl.GotoSlide(i)
			m.markViewed()
		}
	}
	return m, nil
}

// remount swaps in a new deck, closing the old controller first.
func (m Model) remount(d *deck.Deck) (tea.Model, tea.Cmd) {
	cur := m.deck.Slide(m.ctrl.Index())
	start := m.ctrl.Index()
	if i, ok := d.IndexOf(cur.Key); ok {
		start = i
	}
	autoplay := m.ctrl.Autoplay()
	m.ctrl.Close()

	m.deck = d
	m.pane.deck = d
	ctrl, err := m.mount(start)
	if err != nil {
		m.logger.Error("reload failed", zap.Error(err))
		return m, nil
	}
	m.ctrl = ctrl
	if autoplay {
		ctrl.SetAutoplay(true)
	}
	m.logger.Info("deck reloaded", zap.String("slide", d.Slide(ctrl.Index()).Key))
	m.markViewed()
	m.resize()
	return m, m.syncTimer()
}

// teardown stops the tick chain and closes the controller. Later events
// are ignored.
func (m Model) teardown() Model {
	m.quitting = true
	m.tickGen++
	m.timerActive = false
	m.ctrl.Close()
	m.logger.Info("presenter closed", zap.Int("slide", m.ctrl.Index()))
	return m
}

// syncTimer starts or stops the tick chain to match the autoplay flag.
func (m *Model) syncTimer() tea.Cmd {
	want := m.ctrl.Autoplay() && !m.ctrl.Closed()
	switch {
	case want && !m.timerActive:
		m.tickGen++
		m.timerActive = true
		return m.scheduleTick()
	case !want && m.timerActive:
		m.tickGen++
		m.timerActive = false
	}
	return nil
}

func (m Model) scheduleTick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(m.opts.Interval, func(time.Time) tea.Msg {
		return autoplayTickMsg{gen: gen}
	})
}

func (m Model) copySlide() tea.Cmd {
	s := m.deck.Slide(m.ctrl.Index())
	write := m.opts.Clipboard
	logger := m.logger
	return func() tea.Msg {
		if err := write(s.Body); err != nil {
			logger.Warn("clipboard write failed", zap.Error(err))
			return statusMsg{text: "copy failed: " + err.Error()}
		}
		return statusMsg{text: "copied " + s.Key}
	}
}

func (m Model) markViewed() {
	m.viewed[m.deck.Slide(m.ctrl.Index()).Key] = true
}

// ActiveTimers reports how many autoplay tick chains are live: 0 or 1.
func (m Model) ActiveTimers() int {
	if m.timerActive {
		return 1
	}
	return 0
}

// State returns the navigation state.
func (m Model) State() nav.State { return m.ctrl.State() }

// Deck returns the mounted deck.
func (m Model) Deck() *deck.Deck { return m.deck }

// Quitting reports whether the presenter has been torn down.
func (m Model) Quitting() bool { return m.quitting }

// Status returns the transient status message, if any.
func (m Model) Status() string { return m.status }

// layout is the row geometry shared by View and the mouse hit-tests.
type layout struct {
	cardWidth  int
	cardHeight int
	sidebarTop int
	dotsRow    int
}

func (m Model) layout() layout {
	helpHeight := lipgloss.Height(m.help.View(m.keys))
	// blank, status, dots, help, footer
	footerHeight := 3 + helpHeight + 1

	l := layout{
		cardWidth:  m.width,
		cardHeight: m.height - headerHeight - footerHeight,
		sidebarTop: headerHeight + 1, // below the sidebar's top border
	}
	if m.showIndex {
		l.cardWidth -= sidebarWidth + 1
	}
	if l.cardHeight < minCardHeight {
		l.cardHeight = minCardHeight
	}
	if l.cardWidth < 24 {
		l.cardWidth = 24
	}
	l.dotsRow = headerHeight + l.cardHeight + 2
	return l
}

func (m *Model) resize() {
	l := m.layout()
	m.bar.Width = m.width
	m.help.Width = m.width
	// border 2 + padding 2
	m.pane.setSize(l.cardWidth-4, l.cardHeight-2)
}

// View renders the presenter.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	l := m.layout()
	state := m.ctrl.State()
	slide := m.deck.Slide(state.Index)
	r := m.theme.Renderer

	var b strings.Builder
	b.WriteString(m.renderHeader(state))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(state.Progress()))
	b.WriteString("\n\n")

	card := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.AccentColor(slide.Accent)).
		Padding(0, 1).
		Width(l.cardWidth - 2).
		Height(l.cardHeight - 2).
		Render(m.pane.viewport.View())
	if m.showIndex {
		card = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(l, state.Index), " ", card)
	}
	b.WriteString(card)
	b.WriteString("\n\n")

	status := m.theme.Desc.Render(SlideCounter(state.Index, state.SlideCount))
	if m.status != "" {
		status += "  " + r.NewStyle().Foreground(m.theme.Playing).Render(m.status)
	}
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(RenderDots(state.SlideCount, state.Index, slide.Accent, m.theme))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader(s nav.State) string {
	r := m.theme.Renderer
	title := m.theme.Header.Render(m.deck.Title())
	counter := r.NewStyle().Foreground(m.theme.Subtext).Render(fmt.Sprintf("[%d/%d]", s.Index+1, s.SlideCount))

	hints := []string{
		m.hint(m.keys.Prev, s.AtFirst()),
		m.theme.AutoplayBadge(s.Autoplay),
		m.hint(m.keys.Next, s.AtLast()),
	}
	sep := r.NewStyle().Foreground(m.theme.Muted).Render(" │ ")
	return title + "  " + counter + "  " + strings.Join(hints, sep)
}

// hint renders a binding as a header control, dimmed when it would be a
// no-op at the current position.
func (m Model) hint(b key.Binding, disabled bool) string {
	h := b.Help()
	if disabled {
		return m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).Render(h.Key + " " + h.Desc)
	}
	return m.theme.Key.Render(h.Key) + m.theme.Desc.Render(" "+h.Desc)
}

func (m Model) renderFooter() string {
	text := m.deck.Footer()
	if text == "" {
		text = m.deck.Subtitle()
	}
	return m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).
		Render(fmt.Sprintf("%s © %d", text, m.opts.Now().Year()))
}

// sidebarLine is one row of the slide index: a section header or a slide.
type sidebarLine struct {
	text  string
	index int // -1 for headers and spacing
}

// sidebarLines lists unsectioned slides first, then each section's slides
// under its header in deck order.
func (m Model) sidebarLines() []sidebarLine {
	lines := []sidebarLine{{text: "Slides", index: -1}}
	slides := m.deck.Slides()
	for i, s := range slides {
		if s.Section == "" {
			lines = append(lines, sidebarLine{text: s.Title, index: i})
		}
	}
	for _, section := range m.deck.Sections() {
		lines = append(lines, sidebarLine{index: -1}, sidebarLine{text: "▸ " + section, index: -1})
		for i, s := range slides {
			if s.Section == section {
				lines = append(lines, sidebarLine{text: s.Title, index: i})
			}
		}
	}
	return lines
}

func (m Model) sidebarHit(row int) (int, bool) {
	lines := m.sidebarLines()
	if row < 0 || row >= len(lines) || lines[row].index < 0 {
		return 0, false
	}
	return lines[row].index, true
}

func (m Model) renderSidebar(l layout, current int) string {
	r := m.theme.Renderer
	headerStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	sectionStyle := r.NewStyle().Foreground(m.theme.Secondary).Bold(true)
	itemStyle := r.NewStyle().Foreground(m.theme.Subtext)
	selectedStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	viewedStyle := r.NewStyle().Foreground(m.theme.Playing)

	// border 2 + padding 2, then prefix 3 and the viewed mark 2
	titleWidth := sidebarWidth - 4 - 3 - 2

	slides := m.deck.Slides()
	var b strings.Builder
	for n, line := range m.sidebarLines() {
		if n > 0 {
			b.WriteString("\n")
		}
		switch {
		case n == 0:
			b.WriteString(headerStyle.Render(line.text))
		case line.index < 0:
			b.WriteString(sectionStyle.Render(line.text))
		default:
			prefix, style := "   ", itemStyle
			if line.index == current {
				prefix, style = " ▶ ", selectedStyle
			}
			title := runewidth.Truncate(line.text, titleWidth, "…")
			b.WriteString(style.Render(prefix + title))
			if m.viewed[slides[line.index].Key] {
				b.WriteString(viewedStyle.Render(" ✓"))
			}
		}
	}

	return r.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 1).
		Width(sidebarWidth - 2).
		Height(l.cardHeight - 2).
		MaxHeight(l.cardHeight).
		Render(b.String())
}

// slidePane is the controller's renderer: it keeps the viewport content in
// step with the current slide.
type slidePane struct {
	deck      *deck.Deck
	theme     Theme
	md        *MarkdownRenderer
	viewport  viewport.Model
	logger    *zap.Logger
	index     int
	showNotes bool
}

func newSlidePane(d *deck.Deck, theme Theme, style string, logger *zap.Logger) *slidePane {
	vp := viewport.New(76, 10)
	vp.KeyMap = viewport.KeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
	}
	return &slidePane{
		deck:     d,
		theme:    theme,
		md:       NewMarkdownRenderer(76, style),
		logger:   logger,
		viewport: vp,
	}
}

// Render implements nav.Renderer.
func (p *slidePane) Render(s nav.State) {
	if s.Index != p.index {
		p.index = s.Index
		p.refresh()
		p.viewport.GotoTop()
	}
}

func (p *slidePane) mount(s nav.State) {
	p.index = s.Index
	p.refresh()
	p.viewport.GotoTop()
}

func (p *slidePane) setSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	p.viewport.Width = width
	p.viewport.Height = height
	p.md.SetWidth(width)
	p.refresh()
}

func (p *slidePane) refresh() {
	p.viewport.SetContent(p.content())
}

func (p *slidePane) content() string {
	s := p.deck.Slide(p.index)
	r := p.theme.Renderer

	var b strings.Builder
	if s.Section != "" {
		b.WriteString(r.NewStyle().Foreground(p.theme.AccentColor(s.Accent)).Italic(true).Render(s.Section))
		b.WriteString("\n")
	}
	if len(s.Tags) > 0 {
		chips := make([]string, len(s.Tags))
		for i, tag := range s.Tags {
			chips[i] = p.theme.Chip.Render(tag)
		}
		b.WriteString(strings.Join(chips, " "))
		b.WriteString("\n")
	}

	b.WriteString(renderOrRaw(p.md, p.logger, s.Key, s.Body))

	if p.showNotes && s.Notes != "" {
		notes := renderOrRaw(p.md, p.logger, s.Key, s.Notes)
		b.WriteString("\n\n")
		b.WriteString(r.NewStyle().Bold(true).Foreground(p.theme.Amber).Render("Speaker notes"))
		b.WriteString("\n")
		b.WriteString(notes)
	}
	return b.String()
}
