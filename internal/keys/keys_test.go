package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, PlatformMacOS, Resolve(PlatformMacOS))
	assert.Equal(t, PlatformWindows, Resolve(PlatformWindows))
	assert.Equal(t, PlatformLinux, Resolve(PlatformLinux))
	assert.NotEqual(t, PlatformNone, Resolve(PlatformNone))
	assert.Equal(t, PlatformMacOS, detect("darwin"))
	assert.Equal(t, PlatformLinux, detect("freebsd"))
}

func TestPrimary(t *testing.T) {
	assert.Equal(t, ModifierMeta, PlatformMacOS.Primary())
	assert.Equal(t, ModifierCtrl, PlatformWindows.Primary())
	assert.Equal(t, ModifierCtrl, PlatformLinux.Primary())
}

func TestPlatformizeModifiers(t *testing.T) {
	assert.Equal(t, []string{"Meta", "Shift"}, PlatformizeModifiers([]string{"Mod", "Shift"}, PlatformMacOS))
	assert.Equal(t, []string{"Ctrl", "Shift"}, PlatformizeModifiers([]string{"Mod", "Shift"}, PlatformLinux))
	assert.Equal(t, []string{"Hyper"}, PlatformizeModifiers([]string{"Hyper"}, PlatformLinux))
}

func TestSortModifiers(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"full order", []string{"Shift", "Alt", "Ctrl", "Meta", "Mod"}, []string{"Mod", "Meta", "Ctrl", "Alt", "Shift"}},
		{"unknown last, lexicographic", []string{"Zed", "Shift", "Hyper"}, []string{"Shift", "Hyper", "Zed"}},
		{"empty", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SortModifiers(tt.in))
		})
	}
}

func TestCanonicalizeModifiersForPersist(t *testing.T) {
	assert.Equal(t, []string{"Mod", "Shift"}, CanonicalizeModifiersForPersist([]string{"shift", "control"}, PlatformLinux))
	assert.Equal(t, []string{"Mod", "Ctrl"}, CanonicalizeModifiersForPersist([]string{"Ctrl", "Cmd"}, PlatformMacOS))
	assert.Equal(t, []string{"Mod"}, CanonicalizeModifiersForPersist([]string{"Mod", "Ctrl"}, PlatformWindows))
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"b":        "B",
		"B":        "B",
		" ":        "Space",
		"space":    "Space",
		"up":       "ArrowUp",
		"ArrowUp":  "ArrowUp",
		"esc":      "Escape",
		"f5":       "F5",
		"F12":      "F12",
		"f30":      "f30",
		"comma":    ",",
		"[":        "[",
		"":         "",
		"MediaKey": "MediaKey",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeKey(in), "NormalizeKey(%q)", in)
	}
}

func TestSignatureIdempotent(t *testing.T) {
	chords := []struct {
		mods []string
		key  string
	}{
		{[]string{"Mod", "Shift"}, "b"},
		{[]string{"ctrl", "alt"}, "left"},
		{[]string{"Cmd", "Option"}, "F3"},
		{[]string{"Hyper"}, "MediaPlay"},
		{nil, " "},
	}
	for _, p := range []Platform{PlatformMacOS, PlatformWindows, PlatformLinux} {
		for _, c := range chords {
			once := CanonicalizeModifiersForPersist(c.mods, p)
			twice := CanonicalizeModifiersForPersist(once, p)
			assert.Equal(t, Signature(once, c.key, p), Signature(twice, NormalizeKey(c.key), p))
		}
	}
	assert.Equal(t, "Mod,Shift|B", Signature([]string{"Shift", "Mod"}, "b", PlatformLinux))
	assert.Equal(t, "|Escape", Signature(nil, "esc", PlatformLinux))
}

func TestMatchHotkey(t *testing.T) {
	linux := MatchOptions{Strict: true, Platform: PlatformLinux}
	loose := MatchOptions{Strict: false, Platform: PlatformLinux}
	keyOnly := MatchOptions{Strict: false, AllowKeyOnly: true, Platform: PlatformLinux}

	tests := []struct {
		name       string
		mods       []string
		key        string
		activeMods []string
		activeKey  string
		opts       MatchOptions
		want       bool
	}{
		{"strict exact", []string{"Mod"}, "B", []string{"Ctrl"}, "b", linux, true},
		{"strict extra modifier", []string{"Mod"}, "B", []string{"Ctrl", "Shift"}, "B", linux, false},
		{"strict wrong key", []string{"Mod"}, "B", []string{"Ctrl"}, "C", linux, false},
		{"loose superset", []string{"Mod"}, "B", []string{"Ctrl", "Shift"}, "B", loose, true},
		{"loose missing modifier", []string{"Mod", "Alt"}, "B", []string{"Ctrl"}, "B", loose, false},
		{"key only without modifiers", []string{"Mod", "Shift"}, "B", nil, "B", keyOnly, true},
		{"key only ignored with modifiers", []string{"Mod", "Shift"}, "B", []string{"Alt"}, "B", keyOnly, false},
		{"no key matches modifiers", []string{"Mod"}, "X", []string{"Ctrl"}, "", linux, true},
		{"mac primary", []string{"Mod"}, "B", []string{"Meta"}, "B", MatchOptions{Strict: true, Platform: PlatformMacOS}, true},
		{"mac ctrl is not primary", []string{"Mod"}, "B", []string{"Ctrl"}, "B", MatchOptions{Strict: true, Platform: PlatformMacOS}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchHotkey(tt.mods, tt.key, tt.activeMods, tt.activeKey, tt.opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChord(t *testing.T) {
	mods, key := ParseChord("shift+Mod+b")
	assert.Equal(t, []string{"Mod", "Shift"}, mods)
	assert.Equal(t, "B", key)

	mods, key = ParseChord("Mod++")
	assert.Equal(t, []string{"Mod"}, mods)
	assert.Equal(t, "+", key)

	mods, key = ParseChord("")
	assert.Nil(t, mods)
	assert.Equal(t, "", key)
}

func TestParseSignature(t *testing.T) {
	mods, key := ParseSignature("Mod,Shift|B")
	assert.Equal(t, []string{"Mod", "Shift"}, mods)
	assert.Equal(t, "B", key)

	mods, key = ParseSignature("|Escape")
	assert.Nil(t, mods)
	assert.Equal(t, "Escape", key)
}

func TestFormatChord(t *testing.T) {
	assert.Equal(t, "Cmd+Shift+B", FormatChord([]string{"Shift", "Mod"}, "b", PlatformMacOS))
	assert.Equal(t, "Ctrl+Shift+B", FormatChord([]string{"Shift", "Mod"}, "b", PlatformLinux))
	assert.Equal(t, "Ctrl+Option+X", FormatChord([]string{"Alt", "Ctrl"}, "x", PlatformMacOS))
}

func TestSplitModifiers(t *testing.T) {
	assert.Equal(t, []string{"Mod", "Shift"}, SplitModifiers("Mod, Shift"))
	assert.Equal(t, []string{"Mod", "Alt"}, SplitModifiers("Mod+Alt"))
	assert.Nil(t, SplitModifiers(""))
}
