package session

import (
	"context"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/hotkeyhub/internal/log"
	"github.com/studiowebux/hotkeyhub/internal/settings"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// ExportVersion is written into every export
const ExportVersion = 1

// Export is the portable part of a vault: groups, featured ids, global
// filter defaults and custom bindings
type Export struct {
	Version        int                              `yaml:"version"`
	FilterSettings types.FilterSettings             `yaml:"filterSettings,omitempty"`
	Groups         []types.CommandGroup             `yaml:"groups"`
	Featured       []string                         `yaml:"featured"`
	Hotkeys        map[string][]types.HotkeyBinding `yaml:"hotkeys"`
}

// ImportResult counts what Import applied
type ImportResult struct {
	Groups   int      `json:"groups" yaml:"groups"`
	Featured int      `json:"featured" yaml:"featured"`
	Hotkeys  int      `json:"hotkeys" yaml:"hotkeys"`
	Skipped  []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Export collects the exportable state
func (s *Session) Export() Export {
	d := s.Settings.Get()
	out := Export{
		Version:        ExportVersion,
		FilterSettings: d.FilterSettings,
		Groups:         d.CommandGroups,
		Featured:       d.FeaturedCommandIDs,
		Hotkeys:        make(map[string][]types.HotkeyBinding),
	}

	for _, rec := range s.Commands.CommandsList() {
		if rec.IsSystem {
			continue
		}
		if custom, ok := s.Vault.CustomHotkeys(rec.ID); ok {
			if custom == nil {
				custom = []types.HotkeyBinding{}
			}
			out.Hotkeys[rec.ID] = custom
		}
	}
	return out
}

// WriteExport encodes the export as YAML
func (s *Session) WriteExport(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.Export()); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return enc.Close()
}

// ReadExport decodes a YAML export
func ReadExport(r io.Reader) (Export, error) {
	var e Export
	if err := yaml.NewDecoder(r).Decode(&e); err != nil {
		return Export{}, fmt.Errorf("failed to parse export: %w", err)
	}
	if e.Version > ExportVersion {
		return Export{}, fmt.Errorf("unsupported export version %d", e.Version)
	}
	return e, nil
}

// Import applies an export. Groups and featured ids replace the current
// ones when present; custom bindings are set for every listed command the
// vault knows, other commands keep theirs.
func (s *Session) Import(ctx context.Context, e Export) (ImportResult, error) {
	var result ImportResult

	ids := make([]string, 0, len(e.Hotkeys))
	for id := range e.Hotkeys {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) > 0 {
		w, err := s.Writer()
		if err != nil {
			return result, err
		}
		p := s.Platform()
		for _, id := range ids {
			if _, ok := s.Commands.Command(id); !ok {
				log.WarningLog.Printf("import: skipping unknown command %s", id)
				result.Skipped = append(result.Skipped, id)
				continue
			}
			bindings := make([]types.HotkeyBinding, 0, len(e.Hotkeys[id]))
			for _, b := range e.Hotkeys[id] {
				bindings = append(bindings, b.Canonical(p))
			}
			if err := w.Setter.SetHotkeys(id, types.DedupeBindings(bindings, p)); err != nil {
				return result, fmt.Errorf("failed to set hotkeys for %s: %w", id, err)
			}
			result.Hotkeys++
		}
		if err := w.Commit(ctx); err != nil {
			return result, err
		}
	}

	s.Settings.Update(func(d *settings.Data) {
		if e.FilterSettings != nil {
			d.FilterSettings = types.ResolveFilterSettings(nil, e.FilterSettings)
		}
		if e.Featured != nil {
			d.FeaturedCommandIDs = append([]string{}, e.Featured...)
			result.Featured = len(e.Featured)
		}
	})
	if err := s.Settings.Save(ctx); err != nil {
		return result, err
	}

	if e.Groups != nil {
		stored, err := s.Groups.ReplaceGroups(ctx, e.Groups)
		if err != nil {
			return result, err
		}
		result.Groups = len(stored)
	}
	if _, err := s.Groups.NormalizeAllGroups(ctx); err != nil {
		return result, err
	}
	if err := s.Commands.RebuildIndex(ctx); err != nil {
		return result, err
	}
	return result, nil
}
