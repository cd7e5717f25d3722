package keys

import (
	"sort"
	"strings"
)

var modifierAliases = map[string]string{
	"mod":       ModifierMod,
	"cmdorctrl": ModifierMod,
	"meta":      ModifierMeta,
	"cmd":       ModifierMeta,
	"command":   ModifierMeta,
	"⌘":         ModifierMeta,
	"super":     ModifierMeta,
	"win":       ModifierMeta,
	"windows":   ModifierMeta,
	"ctrl":      ModifierCtrl,
	"control":   ModifierCtrl,
	"ctl":       ModifierCtrl,
	"^":         ModifierCtrl,
	"alt":       ModifierAlt,
	"option":    ModifierAlt,
	"opt":       ModifierAlt,
	"⌥":         ModifierAlt,
	"shift":     ModifierShift,
	"⇧":         ModifierShift,
}

var modifierOrder = map[string]int{
	ModifierMod:   0,
	ModifierMeta:  1,
	ModifierCtrl:  2,
	ModifierAlt:   3,
	ModifierShift: 4,
}

// NormalizeModifier returns the abstract token for a modifier alias.
// Unrecognized tokens are returned trimmed but otherwise unchanged.
func NormalizeModifier(mod string) string {
	trimmed := strings.TrimSpace(mod)
	if canonical, ok := modifierAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// IsModifier reports whether token names a known modifier
func IsModifier(token string) bool {
	_, ok := modifierAliases[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// SortModifiers returns a sorted copy: Mod, Meta, Ctrl, Alt, Shift, then
// anything unknown. Ties are broken lexicographically.
func SortModifiers(mods []string) []string {
	out := make([]string, len(mods))
	copy(out, mods)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := orderOf(out[i]), orderOf(out[j])
		if oi == oj {
			return out[i] < out[j]
		}
		return oi < oj
	})
	return out
}

func orderOf(mod string) int {
	if v, ok := modifierOrder[mod]; ok {
		return v
	}
	return 10
}

// PlatformizeModifiers replaces Mod with the platform's primary modifier.
// Every other token passes through unchanged.
func PlatformizeModifiers(mods []string, p Platform) []string {
	primary := p.Primary()
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		if NormalizeModifier(m) == ModifierMod {
			out = append(out, primary)
			continue
		}
		out = append(out, m)
	}
	return out
}

// CanonicalizeModifiersForPersist normalizes aliases, folds the platform's
// primary modifier into Mod, removes duplicates and sorts.
func CanonicalizeModifiersForPersist(mods []string, p Platform) []string {
	primary := p.Primary()
	seen := make(map[string]struct{}, len(mods))
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		n := NormalizeModifier(m)
		if n == "" {
			continue
		}
		if n == primary {
			n = ModifierMod
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return SortModifiers(out)
}

// concreteSet platformizes and normalizes mods into a set for comparison
func concreteSet(mods []string, p Platform) map[string]struct{} {
	set := make(map[string]struct{}, len(mods))
	for _, m := range PlatformizeModifiers(mods, p) {
		n := NormalizeModifier(m)
		if n == ModifierMod {
			n = p.Primary()
		}
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}

// SplitModifiers accepts the host's two encodings of a modifier list: a
// comma or plus separated string, or a slice.
func SplitModifiers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '+'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
