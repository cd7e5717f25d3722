package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/studiowebux/hotkeyhub/internal/keys"
)

// HotkeyBinding is one chord bound to a command
type HotkeyBinding struct {
	Modifiers []string `json:"modifiers" yaml:"modifiers"`
	Key       string   `json:"key" yaml:"key"`
	IsCustom  bool     `json:"isCustom,omitempty" yaml:"isCustom,omitempty"`
}

// UnmarshalJSON accepts modifiers either as an array or as a single
// comma separated string, the two encodings hosts have used
func (b *HotkeyBinding) UnmarshalJSON(data []byte) error {
	var raw struct {
		Modifiers json.RawMessage `json:"modifiers"`
		Key       string          `json:"key"`
		IsCustom  bool            `json:"isCustom"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	b.Key = raw.Key
	b.IsCustom = raw.IsCustom
	b.Modifiers = nil

	trimmed := strings.TrimSpace(string(raw.Modifiers))
	switch {
	case trimmed == "" || trimmed == "null":
	case strings.HasPrefix(trimmed, "["):
		if err := json.Unmarshal(raw.Modifiers, &b.Modifiers); err != nil {
			return fmt.Errorf("invalid modifiers: %w", err)
		}
	default:
		var s string
		if err := json.Unmarshal(raw.Modifiers, &s); err != nil {
			return fmt.Errorf("invalid modifiers: %w", err)
		}
		b.Modifiers = keys.SplitModifiers(s)
	}
	return nil
}

// Signature returns the canonical chord signature for the given platform
func (b HotkeyBinding) Signature(p keys.Platform) string {
	return keys.Signature(b.Modifiers, b.Key, p)
}

// Canonical returns a copy with persisted-form modifiers and a normalized key
func (b HotkeyBinding) Canonical(p keys.Platform) HotkeyBinding {
	return HotkeyBinding{
		Modifiers: keys.CanonicalizeModifiersForPersist(b.Modifiers, p),
		Key:       keys.NormalizeKey(b.Key),
		IsCustom:  b.IsCustom,
	}
}

// Display renders the binding with platform modifier names
func (b HotkeyBinding) Display(p keys.Platform) string {
	return keys.FormatChord(b.Modifiers, b.Key, p)
}

// Clone returns a deep copy
func (b HotkeyBinding) Clone() HotkeyBinding {
	out := b
	if b.Modifiers != nil {
		out.Modifiers = append([]string(nil), b.Modifiers...)
	}
	return out
}

// ParseBinding reads a chord typed as "Mod+Shift+B"
func ParseBinding(text string) (HotkeyBinding, error) {
	mods, key := keys.ParseChord(text)
	if key == "" {
		return HotkeyBinding{}, fmt.Errorf("chord %q has no key", text)
	}
	return HotkeyBinding{Modifiers: mods, Key: key}, nil
}

// CloneBindings deep copies a binding list, keeping nil as nil
func CloneBindings(in []HotkeyBinding) []HotkeyBinding {
	if in == nil {
		return nil
	}
	out := make([]HotkeyBinding, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

// DedupeBindings keeps the last binding for each signature in first-seen
// position, so later entries win ties without reordering the list
func DedupeBindings(in []HotkeyBinding, p keys.Platform) []HotkeyBinding {
	index := make(map[string]int, len(in))
	out := make([]HotkeyBinding, 0, len(in))
	for _, b := range in {
		sig := b.Signature(p)
		if i, ok := index[sig]; ok {
			out[i] = b.Clone()
			continue
		}
		index[sig] = len(out)
		out = append(out, b.Clone())
	}
	return out
}

// SignatureSet returns the set of signatures in a binding list
func SignatureSet(in []HotkeyBinding, p keys.Platform) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, b := range in {
		set[b.Signature(p)] = struct{}{}
	}
	return set
}

// SameSignatures compares two binding lists as unordered signature sets
func SameSignatures(a, b []HotkeyBinding, p keys.Platform) bool {
	sa, sb := SignatureSet(a, p), SignatureSet(b, p)
	if len(sa) != len(sb) {
		return false
	}
	for sig := range sa {
		if _, ok := sb[sig]; !ok {
			return false
		}
	}
	return true
}
