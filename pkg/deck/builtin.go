package deck

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed sales.yaml
var salesDeckYAML []byte

var (
	builtinOnce sync.Once
	builtinDeck *Deck
	builtinErr  error
)

// Builtin returns the bundled sales analysis deck. The deck is parsed once;
// because decks are immutable every caller can share it.
func Builtin() *Deck {
	builtinOnce.Do(func() {
		builtinDeck, builtinErr = ParseYAML(salesDeckYAML)
	})
	if builtinErr != nil {
		panic(fmt.Sprintf("bundled deck is invalid: %v", builtinErr))
	}
	return builtinDeck
}
