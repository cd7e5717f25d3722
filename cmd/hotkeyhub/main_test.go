package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/hotkeyhub/internal/types"
)

// run executes the root command with a fresh home directory per test
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	flagVault, flagConfig, flagOS, flagOutput, flagQuery, flagVerbose = "", "", "linux", "text", "", false
	listGroup, listSearch, listChord = types.AllGroupID, "", ""
	historyCommand, historyLimit = "", 20
	exportFile = ""
	groupsAddAt = -1
	keybindsForce = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestListSearchJSON(t *testing.T) {
	setHome(t)

	out, err := run(t, "list", "--search", "bold", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "editor:toggle-bold"`)
	assert.NotContains(t, out, "editor:toggle-italics")
}

func TestListQuery(t *testing.T) {
	setHome(t)

	out, err := run(t, "list", "--chord", "Mod+Shift+F", "-o", "json", "--query", "[].id")
	require.NoError(t, err)
	assert.Contains(t, out, "global-search:open")
	assert.Contains(t, out, "dataview:dataview-force-refresh-views")
}

func TestShowSuggestsCommand(t *testing.T) {
	setHome(t)

	_, err := run(t, "show", "editor:toggle-bol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestAssignThenUndoAcrossRuns(t *testing.T) {
	setHome(t)

	out, err := run(t, "assign", "editor:toggle-code", "Mod+E")
	require.NoError(t, err)
	assert.Contains(t, out, "Assigned editor:toggle-code")

	out, err = run(t, "show", "editor:toggle-code", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"key": "E"`)

	out, err = run(t, "undo")
	require.NoError(t, err)
	assert.Contains(t, out, "Undone editor:toggle-code")

	out, err = run(t, "undo")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to undo")

	out, err = run(t, "history", "--command", "editor:toggle-code", "-o", "json", "--query", "[].action")
	require.NoError(t, err)
	assert.Contains(t, out, "assign")
	assert.Contains(t, out, "undo")
}

func TestConflicts(t *testing.T) {
	setHome(t)

	out, err := run(t, "conflicts", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Mod,Shift|F")
}

func TestGroupsFlow(t *testing.T) {
	setHome(t)

	out, err := run(t, "groups", "create", "Writing")
	require.NoError(t, err)
	assert.Contains(t, out, "Created group writing")

	_, err = run(t, "groups", "add", "writing", "editor:toggle-bold")
	require.NoError(t, err)

	out, err = run(t, "list", "--group", "writing", "-o", "json", "--query", "[].id")
	require.NoError(t, err)
	assert.Contains(t, out, "editor:toggle-bold")
	assert.NotContains(t, out, "editor:toggle-italics")

	_, err = run(t, "groups", "set", "writing", "displayIds", "true")
	require.NoError(t, err)

	out, err = run(t, "groups", "settings", "writing", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"displayIds": true`)

	_, err = run(t, "list", "--group", "writng")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "writing"`)

	_, err = run(t, "groups", "set", "writing", "nope", "true")
	assert.Error(t, err)
}

func TestGroupsOrderingAndOpenBehavior(t *testing.T) {
	setHome(t)

	_, err := run(t, "groups", "create", "Writing")
	require.NoError(t, err)
	_, err = run(t, "groups", "add", "writing", "editor:toggle-bold")
	require.NoError(t, err)
	_, err = run(t, "groups", "add", "writing", "editor:toggle-italics", "--at", "0")
	require.NoError(t, err)

	out, err := run(t, "groups", "list", "-o", "json", "--query", "[0].commandIds")
	require.NoError(t, err)
	assert.Regexp(t, `(?s)toggle-italics.*toggle-bold`, out)

	_, err = run(t, "groups", "move-command", "writing", "editor:toggle-italics", "5")
	require.NoError(t, err)
	out, err = run(t, "groups", "order", "writing", "editor:toggle-code", "editor:toggle-bold")
	require.NoError(t, err)
	assert.Contains(t, out, "writing: editor:toggle-code, editor:toggle-bold")

	// Static: opening restores the saved defaults
	_, err = run(t, "groups", "set", "writing", "displayIds", "true")
	require.NoError(t, err)
	_, err = run(t, "groups", "save-defaults", "writing")
	require.NoError(t, err)
	_, err = run(t, "groups", "set", "writing", "displayIds", "false")
	require.NoError(t, err)
	out, err = run(t, "groups", "open", "writing", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"displayIds": true`)

	// Dynamic: opening keeps the last used filters
	_, err = run(t, "groups", "behavior", "writing", "dynamic")
	require.NoError(t, err)
	_, err = run(t, "groups", "set", "writing", "displayIds", "false")
	require.NoError(t, err)
	out, err = run(t, "groups", "open", "writing", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"displayIds": false`)

	_, err = run(t, "groups", "behavior", "writing", "sometimes")
	assert.Error(t, err)
}

func TestGroupsMetadata(t *testing.T) {
	setHome(t)

	_, err := run(t, "groups", "create", "Writing")
	require.NoError(t, err)
	_, err = run(t, "groups", "add", "writing", "editor:toggle-bold")
	require.NoError(t, err)

	out, err := run(t, "groups", "duplicate", "writing")
	require.NoError(t, err)
	assert.Contains(t, out, "Created group writing-copy")

	_, err = run(t, "groups", "pin", "writing-copy")
	require.NoError(t, err)
	_, err = run(t, "groups", "appearance", "writing-copy", "pencil", "blue")
	require.NoError(t, err)
	_, err = run(t, "groups", "register", "writing-copy", "true")
	require.NoError(t, err)
	_, err = run(t, "groups", "exclude", "writing-copy", "editor", "editor")
	require.NoError(t, err)

	out, err = run(t, "groups", "list", "-o", "json", "--query", "[?id=='writing-copy'] | [0]")
	require.NoError(t, err)
	assert.Contains(t, out, `"pinned": true`)
	assert.Contains(t, out, `"icon": "pencil"`)
	assert.Contains(t, out, `"color": "blue"`)
	assert.Contains(t, out, `"registerCommand": true`)
	assert.Contains(t, out, "editor:toggle-bold")

	out, err = run(t, "list", "--group", "writing-copy", "-o", "json", "--query", "[].id")
	require.NoError(t, err)
	assert.NotContains(t, out, "editor:toggle-bold")

	_, err = run(t, "groups", "pin", "nope")
	assert.Error(t, err)
}

func TestExportImport(t *testing.T) {
	home := setHome(t)
	file := filepath.Join(home, "export.yaml")

	_, err := run(t, "assign", "app:reload", "Mod+Shift+R")
	require.NoError(t, err)
	_, err = run(t, "featured", "graph:open")
	require.NoError(t, err)

	out, err := run(t, "export", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	_, err = run(t, "restore", "app:reload")
	require.NoError(t, err)

	out, err = run(t, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported")

	out, err = run(t, "show", "app:reload", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"key": "R"`)

	out, err = run(t, "featured", "-o", "json", "--query", "[].id")
	require.NoError(t, err)
	assert.Contains(t, out, "graph:open")
}

func TestKeybindsInitAndValidate(t *testing.T) {
	setHome(t)

	out, err := run(t, "keybinds", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "using the defaults")

	_, err = run(t, "keybinds", "init")
	require.NoError(t, err)

	_, err = run(t, "keybinds", "init")
	assert.Error(t, err)

	out, err = run(t, "keybinds", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found")
}

func TestInvalidOS(t *testing.T) {
	setHome(t)

	_, err := run(t, "--os", "beos", "list")
	assert.Error(t, err)
}

func TestSavedQuery(t *testing.T) {
	setHome(t)

	out, err := run(t, "queries", "save", "ids", "[].id")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved query @ids")

	out, err = run(t, "list", "--search", "graph", "-o", "json", "--query", "@ids")
	require.NoError(t, err)
	assert.Contains(t, out, "graph:open")
	assert.NotContains(t, out, "displayName")

	_, err = run(t, "list", "--query", "@missing")
	assert.Error(t, err)

	out, err = run(t, "queries", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "@ids")
}
