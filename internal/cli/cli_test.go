package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/hotkeyhub/internal/commands"
	"github.com/studiowebux/hotkeyhub/internal/history"
	"github.com/studiowebux/hotkeyhub/internal/hotkeys"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

func sampleRecords() []types.CommandRecord {
	return []types.CommandRecord{
		{
			ID:               "editor:toggle-bold",
			DisplayName:      "Editor: Toggle bold",
			PluginID:         "editor",
			PluginName:       "Editor",
			LocalCommandName: "Toggle bold",
			HotkeysAll: []types.HotkeyBinding{
				{Modifiers: []string{"Mod"}, Key: "B"},
				{Modifiers: []string{"Mod", "Shift"}, Key: "B", IsCustom: true},
			},
			HotkeysDefault:   []types.HotkeyBinding{{Modifiers: []string{"Mod"}, Key: "B"}},
			HotkeysCustom:    []types.HotkeyBinding{{Modifiers: []string{"Mod", "Shift"}, Key: "B", IsCustom: true}},
			IsInternalModule: true,
		},
		{
			ID:               "app:reload",
			DisplayName:      "App: Reload",
			PluginID:         "app",
			PluginName:       "App",
			LocalCommandName: "Reload",
		},
	}
}

func TestNewPrinterValidates(t *testing.T) {
	_, err := NewPrinter(io.Discard, "xml", "")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = NewPrinter(io.Discard, "json", "[?")
	assert.ErrorContains(t, err, "invalid JMESPath")

	p, err := NewPrinter(&bytes.Buffer{}, "", "")
	require.NoError(t, err)
	assert.Equal(t, FormatText, p.Format)
	assert.False(t, p.Color, "buffers are never terminals")
}

func TestPrintFormats(t *testing.T) {
	recs := sampleRecords()
	text := func(w io.Writer) error {
		return RenderCommands(w, recs, ListOptions{Platform: keys.PlatformLinux})
	}

	var buf bytes.Buffer
	p, err := NewPrinter(&buf, FormatJSON, "")
	require.NoError(t, err)
	require.NoError(t, p.Print(recs, text))
	assert.Contains(t, buf.String(), `"id": "editor:toggle-bold"`)

	buf.Reset()
	p, err = NewPrinter(&buf, FormatYAML, "")
	require.NoError(t, err)
	require.NoError(t, p.Print(recs, text))
	assert.Contains(t, buf.String(), "- id: editor:toggle-bold")

	buf.Reset()
	p, err = NewPrinter(&buf, FormatText, "")
	require.NoError(t, err)
	require.NoError(t, p.Print(recs, text))
	assert.Contains(t, buf.String(), "Editor: Toggle bold  Ctrl+B, Ctrl+Shift+B")
	assert.Contains(t, buf.String(), "App: Reload  (none)")
}

func TestPrintQuery(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, FormatText, "[?isInternalModule].id")
	require.NoError(t, err)

	called := false
	require.NoError(t, p.Print(sampleRecords(), func(io.Writer) error {
		called = true
		return nil
	}))
	assert.False(t, called, "a query replaces the text renderer")
	assert.JSONEq(t, `["editor:toggle-bold"]`, buf.String())
}

func TestRenderCommandsOptions(t *testing.T) {
	var buf bytes.Buffer
	opts := ListOptions{
		Platform:      keys.PlatformMacOS,
		DisplayIDs:    true,
		GroupByPlugin: true,
		Featured:      func(id string) bool { return id == "app:reload" },
	}
	require.NoError(t, RenderCommands(&buf, sampleRecords(), opts))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Editor", lines[0])
	assert.Equal(t, "  Toggle bold  Cmd+B, Cmd+Shift+B  editor:toggle-bold", lines[1])
	assert.Equal(t, "App", lines[2])
	assert.Equal(t, "*   Reload  (none)  app:reload", lines[3])
}

func TestRenderCommandsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCommands(&buf, nil, ListOptions{}))
	assert.Equal(t, "No commands match.\n", buf.String())
}

func TestRenderCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCommand(&buf, sampleRecords()[0], ListOptions{Platform: keys.PlatformLinux}))
	out := buf.String()
	assert.Contains(t, out, "id:       editor:toggle-bold")
	assert.Contains(t, out, "custom:   Ctrl+Shift+B")
	assert.Contains(t, out, "module:   internal")
}

func TestRenderConflicts(t *testing.T) {
	var buf bytes.Buffer
	conflicts := []commands.Conflict{{Signature: "Mod,Shift|F", CommandIDs: []string{"a:one", "b:two"}}}
	require.NoError(t, RenderConflicts(&buf, conflicts, keys.PlatformLinux))
	assert.Equal(t, "Ctrl+Shift+F\n  a:one\n  b:two\n", buf.String())
}

func TestRenderGroups(t *testing.T) {
	var buf bytes.Buffer
	groups := []types.CommandGroup{
		{ID: "writing", Name: "Writing", CommandIDs: []string{"a", "b"}, Pinned: true},
		{ID: "review", Name: "Review", Behavior: &types.GroupBehavior{OnOpen: types.OnOpenDynamic}},
	}
	require.NoError(t, RenderGroups(&buf, groups, "review"))
	assert.Equal(t, "  Writing  writing  2 commands [pinned]\n> Review  review  0 commands [dynamic]\n", buf.String())
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	entries := []history.Entry{{Timestamp: at, Action: hotkeys.ActionAssign, Summary: "Assigned Ctrl+B to x"}}
	require.NoError(t, RenderHistory(&buf, entries))
	assert.Equal(t, "2024-05-02 08:00:00  assign   Assigned Ctrl+B to x\n", buf.String())
}

func TestSelectorModel(t *testing.T) {
	m := newSelector("Pick a group", []Choice{
		{Value: "writing", Label: "Writing"},
		{Value: "review", Label: "Review", Active: true},
	})
	assert.Equal(t, 1, m.list.Index(), "the active choice starts selected")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "review", next.(selectorModel).choice)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, next.(selectorModel).choice)
}
