// Package chord tracks the chord a user is building in a capture field.
//
// Modifiers toggle on every key-down report that lists them instead of
// being tracked as press/release pairs, because the key events available
// do not say when a modifier is released. Pressing a modifier a second
// time removes it.
package chord

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/hotkeyhub/internal/keys"
)

// ModifierState lists the modifiers a key event reports as held
type ModifierState struct {
	Shift bool
	Alt   bool
	Ctrl  bool
	Meta  bool
}

// Tracker holds one chord under construction. It is not safe for
// concurrent use; each view owns its own.
type Tracker struct {
	activeKey       string
	activeModifiers []string
}

// ActiveKey returns the normalized key, empty when none is set
func (t *Tracker) ActiveKey() string {
	return t.activeKey
}

// ActiveModifiers returns the held modifiers in the order they were set
func (t *Tracker) ActiveModifiers() []string {
	return append([]string(nil), t.activeModifiers...)
}

// Empty reports whether nothing has been captured
func (t *Tracker) Empty() bool {
	return t.activeKey == "" && len(t.activeModifiers) == 0
}

// HandleModifierKeyDown toggles every modifier the event reports as held
func (t *Tracker) HandleModifierKeyDown(s ModifierState) {
	for _, m := range []struct {
		held bool
		name string
	}{
		{s.Shift, keys.ModifierShift},
		{s.Alt, keys.ModifierAlt},
		{s.Ctrl, keys.ModifierCtrl},
		{s.Meta, keys.ModifierMeta},
	} {
		if m.held {
			t.toggle(m.name)
		}
	}
}

func (t *Tracker) toggle(mod string) {
	for i, m := range t.activeModifiers {
		if m == mod {
			t.activeModifiers = append(t.activeModifiers[:i], t.activeModifiers[i+1:]...)
			return
		}
	}
	t.activeModifiers = append(t.activeModifiers, mod)
}

// HandleKeyDown sets the active key. Backspace steps back instead: it
// clears the key if one is set, otherwise drops the last modifier.
func (t *Tracker) HandleKeyDown(key string) {
	k := keys.NormalizeKey(key)
	switch {
	case k == "" || keys.IsModifier(k):
		return
	case k == "Backspace":
		if t.activeKey != "" {
			t.activeKey = ""
			return
		}
		if n := len(t.activeModifiers); n > 0 {
			t.activeModifiers = t.activeModifiers[:n-1]
		}
	default:
		t.activeKey = k
	}
}

// Reset clears the chord
func (t *Tracker) Reset() {
	t.activeKey = ""
	t.activeModifiers = nil
}

// HandleKeyMsg feeds a terminal key event into the tracker. Modifier
// prefixes such as "ctrl+" toggle, an upper-case letter counts as Shift,
// and the remaining key goes through HandleKeyDown.
func (t *Tracker) HandleKeyMsg(msg tea.KeyMsg) {
	s := msg.String()
	var mods []string
	var key string
	switch {
	case s == " ":
		key = " "
	case msg.Type == tea.KeyRunes && !msg.Alt:
		key = string(msg.Runes)
	default:
		mods, key = keys.ParseChord(s)
	}

	state := ModifierState{}
	for _, m := range mods {
		switch m {
		case keys.ModifierShift:
			state.Shift = true
		case keys.ModifierAlt:
			state.Alt = true
		case keys.ModifierCtrl:
			state.Ctrl = true
		case keys.ModifierMeta:
			state.Meta = true
		}
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && unicode.IsUpper(msg.Runes[0]) {
		state.Shift = true
	}

	t.HandleModifierKeyDown(state)
	t.HandleKeyDown(key)
}
