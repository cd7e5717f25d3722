package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/hotkeyhub/internal/commands"
	"github.com/studiowebux/hotkeyhub/internal/filter"
	"github.com/studiowebux/hotkeyhub/internal/history"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	pluginStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	idStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	customStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	duplicateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Printer writes values in the selected output format
type Printer struct {
	Out    io.Writer
	Format string
	// Query is a JMESPath expression applied before printing. Query results
	// are printed as JSON when the format is text.
	Query string
	Color bool
}

// NewPrinter creates a printer for w. Colour is enabled when w is a terminal.
func NewPrinter(w io.Writer, format, query string) (*Printer, error) {
	switch format {
	case "", FormatText:
		format = FormatText
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q: use text, json or yaml", format)
	}
	if query != "" && !filter.IsValidJMESPath(query) {
		return nil, fmt.Errorf("invalid JMESPath expression '%s'", query)
	}
	return &Printer{Out: w, Format: format, Query: query, Color: isTerminal(w)}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsInteractive checks if stdin is a terminal (not piped)
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// Print writes v. text renders the text format; it is skipped when a query is set.
func (p *Printer) Print(v any, text func(io.Writer) error) error {
	if p.Query != "" {
		result, err := filter.Apply(v, p.Query)
		if err != nil {
			return err
		}
		v = result
		if p.Format == FormatText {
			return p.write(v, FormatJSON)
		}
	}

	if p.Format == FormatText && text != nil {
		return text(p.Out)
	}
	format := p.Format
	if format == FormatText {
		format = FormatJSON
	}
	return p.write(v, format)
}

func (p *Printer) write(v any, format string) error {
	output, err := formatOutput(v, format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if p.Color {
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, output, format, "terminal256", "monokai"); err == nil {
			output = buf.String()
		}
	}
	_, err = io.WriteString(p.Out, output)
	return err
}

// formatOutput formats v based on the output format
func formatOutput(v any, format string) (string, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil

	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	}
}

// ListOptions controls the text rendering of command lists
type ListOptions struct {
	Platform            keys.Platform
	DisplayIDs          bool
	HighlightCustom     bool
	HighlightDuplicates bool
	GroupByPlugin       bool
	// IsDuplicate reports whether a binding is shared with another command
	IsDuplicate func(commandID string, b types.HotkeyBinding) bool
	Featured    func(commandID string) bool
}

// ListOptionsFromSettings maps group filter settings onto ListOptions
func ListOptionsFromSettings(s types.FilterSettings, p keys.Platform) ListOptions {
	return ListOptions{
		Platform:            p,
		DisplayIDs:          s.Enabled(types.DisplayIDs),
		HighlightCustom:     s.Enabled(types.HighlightCustom),
		HighlightDuplicates: s.Enabled(types.HighlightDuplicates),
		GroupByPlugin:       s.Enabled(types.GroupByPlugin),
	}
}

// FormatBindings renders a binding list for display
func FormatBindings(bindings []types.HotkeyBinding, opts ListOptions, commandID string) string {
	if len(bindings) == 0 {
		return mutedStyle.Render("(none)")
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		text := b.Display(opts.Platform)
		switch {
		case opts.HighlightDuplicates && opts.IsDuplicate != nil && opts.IsDuplicate(commandID, b):
			text = duplicateStyle.Render(text)
		case opts.HighlightCustom && b.IsCustom:
			text = customStyle.Render(text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ", ")
}

// RenderCommands writes one line per command
func RenderCommands(w io.Writer, records []types.CommandRecord, opts ListOptions) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No commands match."))
		return err
	}

	lastPlugin := ""
	for _, r := range records {
		if opts.GroupByPlugin && r.PluginName != lastPlugin {
			fmt.Fprintln(w, headerStyle.Render(r.PluginName))
			lastPlugin = r.PluginName
		}

		var line strings.Builder
		if opts.Featured != nil && opts.Featured(r.ID) {
			line.WriteString("* ")
		}
		if !opts.GroupByPlugin {
			line.WriteString(pluginStyle.Render(r.PluginName+":") + " ")
		} else {
			line.WriteString("  ")
		}
		line.WriteString(r.LocalCommandName)
		line.WriteString("  ")
		line.WriteString(FormatBindings(r.HotkeysAll, opts, r.ID))
		if opts.DisplayIDs {
			line.WriteString("  ")
			line.WriteString(idStyle.Render(r.ID))
		}
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}

// RenderCommand writes the detail view of one command
func RenderCommand(w io.Writer, r types.CommandRecord, opts ListOptions) error {
	fmt.Fprintln(w, headerStyle.Render(r.DisplayName))
	fmt.Fprintf(w, "  id:       %s\n", r.ID)
	fmt.Fprintf(w, "  plugin:   %s (%s)\n", r.PluginName, r.PluginID)
	fmt.Fprintf(w, "  hotkeys:  %s\n", FormatBindings(r.HotkeysAll, opts, r.ID))
	fmt.Fprintf(w, "  defaults: %s\n", FormatBindings(r.HotkeysDefault, ListOptions{Platform: opts.Platform}, r.ID))
	if r.HasCustom() {
		fmt.Fprintf(w, "  custom:   %s\n", FormatBindings(r.HotkeysCustom, ListOptions{Platform: opts.Platform}, r.ID))
	}
	kind := "community"
	switch {
	case r.IsSystem:
		kind = "system"
	case r.IsInternalModule:
		kind = "internal"
	}
	_, err := fmt.Fprintf(w, "  module:   %s\n", kind)
	return err
}

// RenderConflicts writes each shared chord with the commands bound to it
func RenderConflicts(w io.Writer, conflicts []commands.Conflict, p keys.Platform) error {
	if len(conflicts) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No conflicting hotkeys."))
		return err
	}
	for _, c := range conflicts {
		mods, key := keys.ParseSignature(c.Signature)
		fmt.Fprintln(w, duplicateStyle.Render(keys.FormatChord(mods, key, p)))
		for _, id := range c.CommandIDs {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
	return nil
}

// RenderGroups writes one line per group
func RenderGroups(w io.Writer, groups []types.CommandGroup, current string) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No groups."))
		return err
	}
	for _, g := range groups {
		marker := "  "
		if g.ID == current {
			marker = "> "
		}
		flags := []string{}
		if g.Pinned {
			flags = append(flags, "pinned")
		}
		if g.IsDynamic() {
			flags = append(flags, "dynamic")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " " + mutedStyle.Render("["+strings.Join(flags, ", ")+"]")
		}
		name := g.Name
		if g.Icon != "" {
			name = g.Icon + " " + name
		}
		if g.Color != "" {
			name = lipgloss.NewStyle().Foreground(lipgloss.Color(g.Color)).Render(name)
		}
		_, err := fmt.Fprintf(w, "%s%s  %s  %d commands%s\n", marker, name, idStyle.Render(g.ID), len(g.CommandIDs), suffix)
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderSettings writes filter settings in key order
func RenderSettings(w io.Writer, s types.FilterSettings) error {
	for _, k := range types.FilterKeys {
		if _, err := fmt.Fprintf(w, "  %-28s %t\n", k, s.Enabled(k)); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory writes stored changes, newest first
func RenderHistory(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No history."))
		return err
	}
	for _, e := range entries {
		_, err := fmt.Fprintf(w, "%s  %-8s %s\n",
			mutedStyle.Render(e.Timestamp.Format("2006-01-02 15:04:05")),
			string(e.Action),
			e.Summary)
		if err != nil {
			return err
		}
	}
	return nil
}

// CopyToClipboard places text on the system clipboard
func CopyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
