package types

// Filter setting keys
const (
	StrictModifierMatch        = "strictModifierMatch"
	ShowCommandsWithoutHotkeys = "showCommandsWithoutHotkeys"
	OnlyCustom                 = "onlyCustom"
	OnlyDuplicates             = "onlyDuplicates"
	FeaturedFirst              = "featuredFirst"
	HighlightCustom            = "highlightCustom"
	HighlightDuplicates        = "highlightDuplicates"
	DisplayIDs                 = "displayIds"
	GroupByPlugin              = "groupByPlugin"
	DisplayInternalModules     = "displayInternalModules"
	DisplaySystemShortcuts     = "displaySystemShortcuts"
)

// FilterKeys lists every recognized setting key in display order
var FilterKeys = []string{
	StrictModifierMatch,
	ShowCommandsWithoutHotkeys,
	OnlyCustom,
	OnlyDuplicates,
	FeaturedFirst,
	HighlightCustom,
	HighlightDuplicates,
	DisplayIDs,
	GroupByPlugin,
	DisplayInternalModules,
	DisplaySystemShortcuts,
}

// FilterSettings holds named boolean toggles. A stored override may be
// partial; see ResolveFilterSettings.
type FilterSettings map[string]bool

// DefaultFilterSettings returns the built-in global defaults
func DefaultFilterSettings() FilterSettings {
	return FilterSettings{
		StrictModifierMatch:        true,
		ShowCommandsWithoutHotkeys: true,
		OnlyCustom:                 false,
		OnlyDuplicates:             false,
		FeaturedFirst:              false,
		HighlightCustom:            true,
		HighlightDuplicates:        true,
		DisplayIDs:                 false,
		GroupByPlugin:              false,
		DisplayInternalModules:     true,
		DisplaySystemShortcuts:     false,
	}
}

// IsFilterKey reports whether key is a recognized setting
func IsFilterKey(key string) bool {
	for _, k := range FilterKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Clone returns a copy, nil stays nil
func (s FilterSettings) Clone() FilterSettings {
	if s == nil {
		return nil
	}
	out := make(FilterSettings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Enabled returns the value for key, false when absent
func (s FilterSettings) Enabled(key string) bool {
	return s[key]
}

// Equal compares two settings maps key by key
func (s FilterSettings) Equal(other FilterSettings) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// ResolveFilterSettings layers override onto defaults. Every recognized key
// is present in the result; built-in defaults fill keys missing from both.
func ResolveFilterSettings(defaults, override FilterSettings) FilterSettings {
	out := DefaultFilterSettings()
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
