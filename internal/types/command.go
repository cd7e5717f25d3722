package types

import "strings"

// SystemPluginName tags the synthetic records standing for OS-level shortcuts
const SystemPluginName = "System"

// SystemPluginID is the id prefix of synthetic system shortcut records
const SystemPluginID = "system"

// CommandRecord is the denormalized view of one host command
type CommandRecord struct {
	ID               string          `json:"id" yaml:"id"`
	DisplayName      string          `json:"displayName" yaml:"displayName"`
	PluginID         string          `json:"pluginId" yaml:"pluginId"`
	PluginName       string          `json:"pluginName" yaml:"pluginName"`
	LocalCommandName string          `json:"localCommandName" yaml:"localCommandName"`
	HotkeysAll       []HotkeyBinding `json:"hotkeysAll" yaml:"hotkeysAll"`
	HotkeysDefault   []HotkeyBinding `json:"hotkeysDefault" yaml:"hotkeysDefault"`
	HotkeysCustom    []HotkeyBinding `json:"hotkeysCustom" yaml:"hotkeysCustom"`
	IsInternalModule bool            `json:"isInternalModule" yaml:"isInternalModule"`
	IsSystem         bool            `json:"isSystem,omitempty" yaml:"isSystem,omitempty"`
}

// HasCustom reports whether any effective binding is user supplied
func (c CommandRecord) HasCustom() bool {
	for _, b := range c.HotkeysAll {
		if b.IsCustom {
			return true
		}
	}
	return false
}

// Clone returns a deep copy
func (c CommandRecord) Clone() CommandRecord {
	out := c
	out.HotkeysAll = CloneBindings(c.HotkeysAll)
	out.HotkeysDefault = CloneBindings(c.HotkeysDefault)
	out.HotkeysCustom = CloneBindings(c.HotkeysCustom)
	return out
}

// SplitCommandID splits "<pluginId>:<localName>". Ids without a colon
// belong to the plugin named by the whole id.
func SplitCommandID(id string) (pluginID, local string) {
	if i := strings.Index(id, ":"); i >= 0 {
		return id[:i], id[i+1:]
	}
	return id, id
}
