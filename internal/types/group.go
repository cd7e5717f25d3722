package types

// Group open behaviors
const (
	OnOpenDefault = "default"
	OnOpenDynamic = "dynamic"
)

// AllGroupID names the pseudo-group containing every command
const AllGroupID = "all"

// GroupBehavior controls which filters a group restores when opened
type GroupBehavior struct {
	OnOpen string `json:"onOpen,omitempty" yaml:"onOpen,omitempty"`
}

// FilterSnapshot wraps a saved set of filters
type FilterSnapshot struct {
	Filters FilterSettings `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// CommandGroup is a named, ordered list of commands with its own settings
type CommandGroup struct {
	ID                string          `json:"id" yaml:"id"`
	Name              string          `json:"name" yaml:"name"`
	CommandIDs        []string        `json:"commandIds" yaml:"commandIds"`
	ExcludedPluginIDs []string        `json:"excludedPluginIds,omitempty" yaml:"excludedPluginIds,omitempty"`
	FilterSettings    FilterSettings  `json:"filterSettings,omitempty" yaml:"filterSettings,omitempty"`
	Pinned            bool            `json:"pinned,omitempty" yaml:"pinned,omitempty"`
	Icon              string          `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color             string          `json:"color,omitempty" yaml:"color,omitempty"`
	Behavior          *GroupBehavior  `json:"behavior,omitempty" yaml:"behavior,omitempty"`
	Defaults          *FilterSnapshot `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	LastUsedState     *FilterSnapshot `json:"lastUsedState,omitempty" yaml:"lastUsedState,omitempty"`
	RegisterCommand   bool            `json:"registerCommand,omitempty" yaml:"registerCommand,omitempty"`
}

// IsDynamic reports whether the group restores its last used filters on open
func (g CommandGroup) IsDynamic() bool {
	return g.Behavior != nil && g.Behavior.OnOpen == OnOpenDynamic
}

// HasCommand reports membership
func (g CommandGroup) HasCommand(id string) bool {
	for _, c := range g.CommandIDs {
		if c == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy
func (g CommandGroup) Clone() CommandGroup {
	out := g
	out.CommandIDs = cloneStrings(g.CommandIDs)
	out.ExcludedPluginIDs = cloneStrings(g.ExcludedPluginIDs)
	out.FilterSettings = g.FilterSettings.Clone()
	if g.Behavior != nil {
		b := *g.Behavior
		out.Behavior = &b
	}
	if g.Defaults != nil {
		out.Defaults = &FilterSnapshot{Filters: g.Defaults.Filters.Clone()}
	}
	if g.LastUsedState != nil {
		out.LastUsedState = &FilterSnapshot{Filters: g.LastUsedState.Filters.Clone()}
	}
	return out
}

// CloneGroups deep copies a group list
func CloneGroups(in []CommandGroup) []CommandGroup {
	if in == nil {
		return nil
	}
	out := make([]CommandGroup, len(in))
	for i, g := range in {
		out[i] = g.Clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
