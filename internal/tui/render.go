package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/hotkeyhub/internal/keybinds"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// settingBadges lists the toggles shown in the filter line
var settingBadges = []struct {
	key   string
	label string
}{
	{types.StrictModifierMatch, "strict"},
	{types.OnlyCustom, "custom"},
	{types.OnlyDuplicates, "duplicates"},
	{types.FeaturedFirst, "featured"},
	{types.DisplaySystemShortcuts, "system"},
}

// listHeight calculates the number of command rows that fit
func (m *Model) listHeight() int {
	h := m.height - HeaderLines - DetailLines - StatusBarLines - BorderLines
	if h < 1 {
		return 1
	}
	return h
}

// renderMain renders the header, the command list, the detail panel and the status bar
func (m *Model) renderMain() string {
	list := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.listBorderColor()).
		Width(m.width - MinimalBorderMargin).
		Render(m.renderList(m.width - MinimalBorderMargin - 2))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderFilterLine(),
		list,
		m.renderDetail(),
		m.renderStatusBar(),
	)
}

func (m *Model) listBorderColor() lipgloss.AdaptiveColor {
	if m.mode == ModeCapture {
		return colorYellow
	}
	return colorGray
}

// renderHeader shows the title and the group tabs
func (m *Model) renderHeader() string {
	parts := []string{styleTitle.Render("hotkeyhub")}
	for _, id := range m.groupIDs() {
		name := m.nameOf(id)
		if id == m.groupID {
			parts = append(parts, styleSelected.Render(" "+name+" "))
		} else {
			parts = append(parts, styleSubtle.Render(" "+name+" "))
		}
	}
	return strings.Join(parts, " ")
}

// renderFilterLine shows the search text, the chord and the active toggles
func (m *Model) renderFilterLine() string {
	search := m.search
	if m.mode == ModeSearch {
		search = addCursor(search)
	}
	line := fmt.Sprintf("Search: %s", search)

	chordText := m.chordLabel(m.filterChord.ActiveModifiers(), m.filterChord.ActiveKey())
	if m.mode == ModeCapture && m.capture == captureFilter {
		chordText = addCursor(chordText)
	}
	if chordText != "" {
		line += "  Chord: " + styleWarning.Render(chordText)
	}

	var badges []string
	for _, b := range settingBadges {
		if m.settings.Enabled(b.key) {
			badges = append(badges, "["+b.label+"]")
		}
	}
	if len(badges) > 0 {
		line += "  " + styleSubtle.Render(strings.Join(badges, " "))
	}
	return line + styleSubtle.Render(fmt.Sprintf("  %d commands", len(m.records)))
}

func addCursor(text string) string {
	return text + "█"
}

// renderList renders the visible slice of the command list
func (m *Model) renderList(width int) string {
	if len(m.records) == 0 {
		return styleSubtle.Render("No commands match.")
	}

	end := m.offset + m.listHeight()
	if end > len(m.records) {
		end = len(m.records)
	}

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		line := m.renderRow(m.records[i], width)
		if i == m.cursor {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one command: name on the left, bindings on the right
func (m *Model) renderRow(rec types.CommandRecord, width int) string {
	marker := "  "
	if m.sess.Commands.IsFeatured(rec.ID) {
		marker = "* "
	}
	name := rec.DisplayName
	if m.settings.Enabled(types.DisplayIDs) {
		name += " " + styleSubtle.Render("("+rec.ID+")")
	}
	left := marker + styleSubtle.Render(rec.PluginName+":") + " " + name
	right := m.renderBindings(rec)

	spacing := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}
	return left + strings.Repeat(" ", spacing) + right
}

// renderBindings renders a command's bindings with custom and duplicate highlighting
func (m *Model) renderBindings(rec types.CommandRecord) string {
	if len(rec.HotkeysAll) == 0 {
		return styleSubtle.Render("-")
	}
	p := m.sess.Platform()
	parts := make([]string, 0, len(rec.HotkeysAll))
	for _, b := range rec.HotkeysAll {
		text := b.Display(p)
		switch {
		case m.settings.Enabled(types.HighlightDuplicates) && m.sess.Commands.IsHotkeyDuplicate(rec.ID, b):
			text = styleError.Render(text)
		case m.settings.Enabled(types.HighlightCustom) && b.IsCustom:
			text = styleSuccess.Render(text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ", ")
}

// renderDetail shows the selected command's id, plugin and defaults
func (m *Model) renderDetail() string {
	rec, ok := m.selected()
	if !ok {
		return strings.Repeat("\n", DetailLines-1)
	}
	p := m.sess.Platform()

	defaults := "-"
	if len(rec.HotkeysDefault) > 0 {
		var parts []string
		for _, b := range rec.HotkeysDefault {
			parts = append(parts, b.Display(p))
		}
		defaults = strings.Join(parts, ", ")
	}

	kind := "community"
	switch {
	case rec.IsSystem:
		kind = "system"
	case rec.IsInternalModule:
		kind = "core"
	}

	capture := ""
	if m.mode == ModeCapture && m.capture == captureAssign {
		capture = "Assign: " + styleWarning.Render(addCursor(m.chordLabel(m.assignChord.ActiveModifiers(), m.assignChord.ActiveKey())))
	}

	return strings.Join([]string{
		styleTitle.Render(rec.DisplayName) + "  " + styleSubtle.Render(rec.ID),
		fmt.Sprintf("Plugin: %s (%s)  Defaults: %s", rec.PluginName, kind, defaults),
		capture,
	}, "\n")
}

// renderStatusBar renders the mode on the left and messages on the right
func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf("Group: %s", m.groupName())
	switch m.mode {
	case ModeSearch:
		left += " | SEARCH"
	case ModeCapture:
		left += " | CAPTURE"
	}

	right := ""
	switch {
	case m.errorMsg != "":
		right = styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		right = styleSuccess.Render(m.statusMsg)
	default:
		right = styleSubtle.Render(fmt.Sprintf("Press %s to search | %s for help | %s to quit",
			m.keybinds.GetBindingString(keybinds.ContextBrowse, keybinds.ActionOpenSearch),
			m.keybinds.GetBindingString(keybinds.ContextBrowse, keybinds.ActionOpenHelp),
			m.keybinds.GetBindingString(keybinds.ContextBrowse, keybinds.ActionQuit)))
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}
	return left + strings.Repeat(" ", spacing) + right
}

// renderHelp renders the help viewport in a bordered box
func (m *Model) renderHelp() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Width(m.width - MinimalBorderMargin).
		Render(m.helpView.View())
}

// helpCategories orders the help sections
var helpCategories = []string{"Global", "Navigation", "Filter", "Groups", "Settings", "Commands", "Text Input", "Capture"}

// updateHelpView rebuilds the help text from the active keybindings
func (m *Model) updateHelpView() {
	width := m.width - MinimalBorderMargin - 2
	height := m.height - ContentOffsetHelp
	if width < 20 {
		width = 78
	}
	if height < 5 {
		height = 20
	}
	m.helpView.Width = width
	m.helpView.Height = height
	m.helpView.SetContent(m.helpText())
}

// helpText lists every bound action, grouped by category. Keys bound to
// the same action are joined.
func (m *Model) helpText() string {
	type entry struct {
		keys        []string
		description string
	}
	sections := make(map[string]map[keybinds.Action]*entry)

	for _, context := range []keybinds.Context{keybinds.ContextGlobal, keybinds.ContextBrowse, keybinds.ContextSearch, keybinds.ContextCapture} {
		for _, b := range m.keybinds.ListBindings(context) {
			if b.Context != context || b.Action == keybinds.ActionNoOp || b.Action == keybinds.ActionGoToTopPrepare {
				continue
			}
			info := keybinds.GetActionInfo(b.Action)
			category := info.Category
			if context == keybinds.ContextSearch && category != "Text Input" {
				category = "Text Input"
			}
			if sections[category] == nil {
				sections[category] = make(map[keybinds.Action]*entry)
			}
			e, ok := sections[category][b.Action]
			if !ok {
				e = &entry{description: info.Description}
				sections[category][b.Action] = e
			}
			e.keys = append(e.keys, b.Key)
		}
	}

	var sb strings.Builder
	sb.WriteString(styleTitle.Render("hotkeyhub - Keyboard Shortcuts"))
	sb.WriteString("\n")
	for _, category := range helpCategories {
		entries := sections[category]
		if len(entries) == 0 {
			continue
		}
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("  %-18s %s", strings.Join(e.keys, ", "), e.description))
		}
		sort.Strings(lines)
		sb.WriteString("\n" + strings.ToUpper(category) + "\n")
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n")
	}
	sb.WriteString("\nIn capture mode every other key, modifiers included, is part of the chord.\n")
	sb.WriteString("Backspace steps back one piece of the chord.\n")
	return sb.String()
}
