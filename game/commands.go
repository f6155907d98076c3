package game

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/quality"
)

// CommandKind identifies a user command.
type CommandKind uint8

const (
	CmdSection    CommandKind = iota // Scroll to Command.Section
	CmdScroll                        // Scroll by Command.Scroll
	CmdForceTier                     // Switch to Command.Tier and disable auto quality
	CmdToggleAuto                    // Toggle automatic quality
	CmdToggleHUD
	CmdSnapshot // Save a field snapshot
	CmdQuit
)

// Command is a user request queued by a host and applied between frames.
type Command struct {
	Kind    CommandKind
	Section int
	Scroll  float64
	Tier    quality.Tier
}

// scrollStep is the scroll progress moved by one wheel notch or arrow key.
const scrollStep = 0.05

// binding is one entry of a Keymap.
type binding struct {
	key   rune
	label string
	cmd   Command
}

// Keymap maps printable keys to commands. Lookups are case-insensitive.
type Keymap struct {
	bindings []binding
}

// NewKeymap binds each section's key followed by the fixed bindings.
// Sections without a key, or whose key collides with an earlier binding,
// are reachable only by scrolling.
func NewKeymap(sections []config.SectionConfig) Keymap {
	var k Keymap
	for i, s := range sections {
		r, _ := utf8.DecodeRuneInString(s.Key)
		if r == utf8.RuneError {
			continue
		}
		k.bind(r, s.Title, Command{Kind: CmdSection, Section: i})
	}
	k.bind('q', "low", Command{Kind: CmdForceTier, Tier: quality.Low})
	k.bind('w', "medium", Command{Kind: CmdForceTier, Tier: quality.Medium})
	k.bind('e', "high", Command{Kind: CmdForceTier, Tier: quality.High})
	k.bind('a', "auto", Command{Kind: CmdToggleAuto})
	k.bind('h', "hud", Command{Kind: CmdToggleHUD})
	k.bind('p', "snapshot", Command{Kind: CmdSnapshot})
	return k
}

func (k *Keymap) bind(r rune, label string, cmd Command) {
	r = unicode.ToLower(r)
	if _, ok := k.Lookup(r); ok {
		return
	}
	k.bindings = append(k.bindings, binding{key: r, label: label, cmd: cmd})
}

// Lookup returns the command bound to r.
func (k Keymap) Lookup(r rune) (Command, bool) {
	r = unicode.ToLower(r)
	for _, b := range k.bindings {
		if b.key == r {
			return b.cmd, true
		}
	}
	return Command{}, false
}

// Keys returns the bound keys in binding order.
func (k Keymap) Keys() []rune {
	keys := make([]rune, len(k.bindings))
	for i, b := range k.bindings {
		keys[i] = b.key
	}
	return keys
}

// Legend returns a one-line description of the bindings.
func (k Keymap) Legend() string {
	parts := make([]string, 0, len(k.bindings)+1)
	for _, b := range k.bindings {
		parts = append(parts, fmt.Sprintf("[%c] %s", unicode.ToUpper(b.key), b.label))
	}
	parts = append(parts, "[Esc] quit")
	return strings.Join(parts, "  ")
}
