package keys

import (
	"strings"
)

// MatchOptions controls how an active chord is compared to a binding
type MatchOptions struct {
	// Strict requires the platformized modifier sets to be equal.
	// Otherwise the binding's modifiers only need to be held.
	Strict bool

	// AllowKeyOnly compares keys alone when no modifier is held
	AllowKeyOnly bool

	Platform Platform
}

// MatchHotkey reports whether a binding matches the held modifiers and key.
// An empty activeKey matches any key.
func MatchHotkey(bindingMods []string, bindingKey string, activeMods []string, activeKey string, opts MatchOptions) bool {
	key := NormalizeKey(activeKey)
	if key != "" && NormalizeKey(bindingKey) != key {
		return false
	}

	if opts.AllowKeyOnly && len(activeMods) == 0 && key != "" {
		return true
	}

	want := concreteSet(bindingMods, opts.Platform)
	have := concreteSet(activeMods, opts.Platform)

	if opts.Strict && len(want) != len(have) {
		return false
	}
	for m := range want {
		if _, ok := have[m]; !ok {
			return false
		}
	}
	return true
}

// Signature builds the canonical chord signature, e.g. "Mod,Shift|B"
func Signature(mods []string, key string, p Platform) string {
	return strings.Join(CanonicalizeModifiersForPersist(mods, p), ",") + "|" + NormalizeKey(key)
}

// ParseSignature splits a signature back into its modifiers and key
func ParseSignature(sig string) ([]string, string) {
	i := strings.LastIndex(sig, "|")
	if i < 0 {
		return nil, NormalizeKey(sig)
	}
	var mods []string
	if i > 0 {
		mods = strings.Split(sig[:i], ",")
	}
	return mods, sig[i+1:]
}

// ParseChord reads a user typed chord such as "Mod+Shift+B" or "ctrl+alt+left".
// The last non-modifier token is the key. A trailing "+" names the plus key.
func ParseChord(text string) ([]string, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ""
	}
	if text == "+" {
		return nil, "+"
	}

	var mods []string
	key := ""
	if strings.HasSuffix(text, "++") {
		key = "+"
		text = strings.TrimSuffix(text, "++")
	}
	for _, part := range strings.Split(text, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if IsModifier(part) {
			mods = append(mods, NormalizeModifier(part))
			continue
		}
		key = NormalizeKey(part)
	}
	return SortModifiers(mods), key
}

// FormatChord renders a chord for display using the platform's names
func FormatChord(mods []string, key string, p Platform) string {
	concrete := SortModifiers(PlatformizeModifiers(mods, p))
	parts := make([]string, 0, len(concrete)+1)
	for _, m := range concrete {
		parts = append(parts, displayName(NormalizeModifier(m), p))
	}
	if k := NormalizeKey(key); k != "" {
		parts = append(parts, k)
	}
	return strings.Join(parts, "+")
}

func displayName(mod string, p Platform) string {
	if !p.IsMac() {
		if mod == ModifierMeta {
			return "Win"
		}
		return mod
	}
	switch mod {
	case ModifierMeta:
		return "Cmd"
	case ModifierAlt:
		return "Option"
	}
	return mod
}
