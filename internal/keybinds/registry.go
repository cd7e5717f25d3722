package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// Binding represents a keybinding mapping
type Binding struct {
	Key     string  `json:"key" yaml:"key"`
	Action  Action  `json:"action" yaml:"action"`
	Context Context `json:"context" yaml:"context"`
}

// Registry manages keybinding mappings and matching
type Registry struct {
	// bindings maps context -> key -> action
	bindings map[Context]map[string]Action

	// multiKeyState tracks multi-key sequences (like 'gg' in vim)
	multiKeyState map[Context]string
}

// NewRegistry creates a new keybinding registry
func NewRegistry() *Registry {
	return &Registry{
		bindings:      make(map[Context]map[string]Action),
		multiKeyState: make(map[Context]string),
	}
}

// Register adds a keybinding to the registry
func (r *Registry) Register(context Context, key string, action Action) {
	if r.bindings[context] == nil {
		r.bindings[context] = make(map[string]Action)
	}
	r.bindings[context][key] = action
}

// RegisterMultiple registers multiple keybindings for the same action
func (r *Registry) RegisterMultiple(context Context, keys []string, action Action) {
	for _, key := range keys {
		r.Register(context, key, action)
	}
}

// Unregister removes a key from a context
func (r *Registry) Unregister(context Context, key string) {
	delete(r.bindings[context], key)
}

// Match attempts to match a key to an action in the given context
// Returns the action and whether a match was found
// Contexts are checked in priority order: specific context -> global
func (r *Registry) Match(context Context, key string) (Action, bool) {
	if action, ok := r.MatchLocal(context, key); ok {
		return action, true
	}

	if globalBindings, ok := r.bindings[ContextGlobal]; ok {
		if action, ok := globalBindings[key]; ok {
			return action, true
		}
	}

	return "", false
}

// MatchLocal matches only the given context, without the global fallback.
// Capture mode uses it so ordinary chords are never taken as commands.
func (r *Registry) MatchLocal(context Context, key string) (Action, bool) {
	if contextBindings, ok := r.bindings[context]; ok {
		if action, ok := contextBindings[key]; ok {
			return action, true
		}
	}
	return "", false
}

// MatchMultiKey handles multi-key sequences like 'gg' for go-to-top
// Returns the action, whether it's a complete match, and whether it's a partial match
func (r *Registry) MatchMultiKey(context Context, key string) (Action, bool, bool) {
	if prevKey, hasPending := r.multiKeyState[context]; hasPending {
		sequence := prevKey + key
		delete(r.multiKeyState, context)

		if action, ok := r.Match(context, sequence); ok {
			return action, true, false
		}
		return "", false, false
	}

	if r.startsSequence(context, key) {
		r.multiKeyState[context] = key
		return "", false, true
	}

	action, ok := r.Match(context, key)
	return action, ok, false
}

// startsSequence reports whether key is the first stroke of a bound
// sequence such as "gg". Modifier combos are never sequences.
func (r *Registry) startsSequence(context Context, key string) bool {
	if key == "" || strings.Contains(key, "+") {
		return false
	}
	for _, ctx := range []Context{context, ContextGlobal} {
		for bound := range r.bindings[ctx] {
			if isSequence(bound) && strings.HasPrefix(bound, key) && bound != key {
				return true
			}
		}
	}
	return false
}

// isSequence reports whether a key is a multi-key sequence rather than a
// named key like "enter" or "pgdown"
func isSequence(key string) bool {
	if len(key) < 2 || strings.Contains(key, "+") {
		return false
	}
	first := key[0]
	for i := 1; i < len(key); i++ {
		if key[i] != first {
			return false
		}
	}
	return true
}

// ClearMultiKeyState clears any pending multi-key state for a context
func (r *Registry) ClearMultiKeyState(context Context) {
	delete(r.multiKeyState, context)
}

// GetBinding returns the key(s) bound to an action in a context, sorted
func (r *Registry) GetBinding(context Context, action Action) []string {
	var keys []string

	if contextBindings, ok := r.bindings[context]; ok {
		for key, act := range contextBindings {
			if act == action {
				keys = append(keys, key)
			}
		}
	}

	// If not found, check global
	if len(keys) == 0 {
		if globalBindings, ok := r.bindings[ContextGlobal]; ok {
			for key, act := range globalBindings {
				if act == action {
					keys = append(keys, key)
				}
			}
		}
	}

	sort.Strings(keys)
	return keys
}

// GetBindingString returns a human-readable string of keys bound to an action
func (r *Registry) GetBindingString(context Context, action Action) string {
	keys := r.GetBinding(context, action)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, ", ")
}

// ListBindings returns all bindings for a context followed by the global
// ones, each sorted by key
func (r *Registry) ListBindings(context Context) []Binding {
	bindings := r.contextBindings(context)
	if context != ContextGlobal {
		bindings = append(bindings, r.contextBindings(ContextGlobal)...)
	}
	return bindings
}

func (r *Registry) contextBindings(context Context) []Binding {
	var out []Binding
	for key, action := range r.bindings[context] {
		out = append(out, Binding{Key: key, Action: action, Context: context})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Contexts returns every context with at least one binding, sorted
func (r *Registry) Contexts() []Context {
	out := make([]Context, 0, len(r.bindings))
	for c, b := range r.bindings {
		if len(b) > 0 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks that every bound action is known
func (r *Registry) Validate() error {
	for context, contextBindings := range r.bindings {
		for key, action := range contextBindings {
			if !IsKnownAction(action) {
				return fmt.Errorf("unknown action '%s' for key '%s' in context '%s'", action, key, context)
			}
		}
	}
	return nil
}

// HasBinding checks if a key is bound in a context
func (r *Registry) HasBinding(context Context, key string) bool {
	_, ok := r.Match(context, key)
	return ok
}

// Clone creates a deep copy of the registry
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()

	for context, contextBindings := range r.bindings {
		for key, action := range contextBindings {
			clone.Register(context, key, action)
		}
	}

	return clone
}

// Merge combines bindings from another registry, with other taking precedence
func (r *Registry) Merge(other *Registry) {
	for context, contextBindings := range other.bindings {
		for key, action := range contextBindings {
			r.Register(context, key, action)
		}
	}
}
