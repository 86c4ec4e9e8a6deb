package nav

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// Action is a navigation command produced by an input adapter.
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrev
	ActionFirst
	ActionLast
	ActionToggleAutoplay
	ActionGoto // target carried separately (digit keys, dots)
	ActionToggleIndex
	ActionToggleNotes
	ActionCopy
	ActionHelp
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionFirst:
		return "first"
	case ActionLast:
		return "last"
	case ActionToggleAutoplay:
		return "autoplay"
	case ActionGoto:
		return "goto"
	case ActionToggleIndex:
		return "index"
	case ActionToggleNotes:
		return "notes"
	case ActionCopy:
		return "copy"
	case ActionHelp:
		return "help"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// KeyMap is the keyboard adapter's binding table.
type KeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	First    key.Binding
	Last     key.Binding
	Autoplay key.Binding
	Jump     key.Binding
	Index    key.Binding
	Notes    key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings: → / d / D advance and
// ← / a / A go back.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "d", "D", "l", " ", "pgdown"),
			key.WithHelp("→/d", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "a", "A", "h", "pgup"),
			key.WithHelp("←/a", "prev"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last"),
		),
		Autoplay: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "auto/pause"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump"),
		),
		Index: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "slides"),
		),
		Notes: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notes"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Autoplay, k.Index, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.First, k.Last, k.Jump},
		{k.Autoplay, k.Index, k.Notes, k.Copy},
		{k.Help, k.Quit},
	}
}

// Key is a key name in Bubble Tea's notation ("right", "d", "ctrl+c").
type Key string

// String implements fmt.Stringer so a Key can be matched against bindings.
func (k Key) String() string { return string(k) }

// Action resolves a key press. For ActionGoto the returned target is the
// 0-based slide index the digit selects.
func (k KeyMap) Action(msg fmt.Stringer) (Action, int) {
	switch {
	case key.Matches(msg, k.Quit):
		return ActionQuit, 0
	case key.Matches(msg, k.Next):
		return ActionNext, 0
	case key.Matches(msg, k.Prev):
		return ActionPrev, 0
	case key.Matches(msg, k.First):
		return ActionFirst, 0
	case key.Matches(msg, k.Last):
		return ActionLast, 0
	case key.Matches(msg, k.Autoplay):
		return ActionToggleAutoplay, 0
	case key.Matches(msg, k.Jump):
		return ActionGoto, int(msg.String()[0] - '1')
	case key.Matches(msg, k.Index):
		return ActionToggleIndex, 0
	case key.Matches(msg, k.Notes):
		return ActionToggleNotes, 0
	case key.Matches(msg, k.Copy):
		return ActionCopy, 0
	case key.Matches(msg, k.Help):
		return ActionHelp, 0
	}
	return ActionNone, 0
}

// Apply performs the navigation part of an action on c and reports whether
// the action was a navigation action. View-only actions (index, notes, copy,
// help, quit) are left to the caller.
func Apply(c *Controller, a Action, target int) bool {
	switch a {
	case ActionNext:
		c.Next()
	case ActionPrev:
		c.Prev()
	case ActionFirst:
		c.First()
	case ActionLast:
		c.Last()
	case ActionToggleAutoplay:
		c.ToggleAutoplay()
	case ActionGoto:
		c.GotoSlide(target)
	default:
		return false
	}
	return true
}
