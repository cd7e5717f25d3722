package session

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/hotkeyhub/internal/history"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

func openExample(t *testing.T, dir string, p keys.Platform) *Session {
	t.Helper()
	s, err := Open(context.Background(), Options{
		VaultDir:      dir,
		EmulatedOS:    p,
		HistoryPath:   filepath.Join(t.TempDir(), "history.db"),
		CreateExample: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenBuildsIndex(t *testing.T) {
	s := openExample(t, filepath.Join(t.TempDir(), "vault"), keys.PlatformLinux)

	rec, err := s.ResolveCommand("editor:toggle-bold")
	require.NoError(t, err)
	assert.Equal(t, "Mod|B", rec.HotkeysAll[0].Signature(s.Platform()))
	assert.Equal(t, keys.PlatformLinux, s.Platform())
	assert.Equal(t, types.AllGroupID, s.LastGroupID())
	assert.NotNil(t, s.History)
}

func TestOpenRequiresVault(t *testing.T) {
	_, err := Open(context.Background(), Options{VaultDir: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	_, err = Open(context.Background(), Options{})
	assert.Error(t, err)
}

func TestOpenWithoutHistory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vault")
	s, err := Open(context.Background(), Options{VaultDir: dir, CreateExample: true})
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.History)
	ok, err := s.Editor.AssignAdditive(context.Background(), "editor:toggle-code", types.HotkeyBinding{Modifiers: []string{"Mod"}, Key: "E"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResolveCommandSuggests(t *testing.T) {
	s := openExample(t, filepath.Join(t.TempDir(), "vault"), keys.PlatformLinux)

	_, err := s.ResolveCommand("editor:toggle-bld")
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestEditsAreRecordedAndPersisted(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "vault")
	s := openExample(t, dir, keys.PlatformLinux)

	_, err := s.Editor.AssignAdditive(ctx, "editor:toggle-bold", types.HotkeyBinding{Modifiers: []string{"Mod", "Shift"}, Key: "B"})
	require.NoError(t, err)

	entries, err := s.History.Load(ctx, history.Query{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "editor:toggle-bold", entries[0].CommandID)

	reopened := openExample(t, dir, keys.PlatformLinux)
	rec, err := reopened.ResolveCommand("editor:toggle-bold")
	require.NoError(t, err)
	assert.Len(t, rec.HotkeysCustom, 2)
	assert.True(t, rec.HasCustom())
}

func TestSetEmulatedOS(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "vault")
	s := openExample(t, dir, keys.PlatformNone)

	require.NoError(t, s.SetEmulatedOS(ctx, keys.PlatformMacOS))
	assert.Equal(t, keys.PlatformMacOS, s.Platform())
	assert.Equal(t, keys.PlatformMacOS, s.Vault.Platform())

	reopened := openExample(t, dir, keys.PlatformNone)
	assert.Equal(t, keys.PlatformMacOS, reopened.Platform())
	assert.Equal(t, keys.PlatformMacOS, reopened.Vault.Platform())

	overridden := openExample(t, dir, keys.PlatformWindows)
	assert.Equal(t, keys.PlatformWindows, overridden.Platform())
	assert.Equal(t, keys.PlatformWindows, overridden.Vault.Platform())
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := openExample(t, filepath.Join(t.TempDir(), "vault"), keys.PlatformLinux)

	id, err := src.Groups.CreateGroup(ctx, "Writing")
	require.NoError(t, err)
	_, err = src.Groups.AddCommandToGroup(ctx, id, "editor:toggle-bold")
	require.NoError(t, err)
	_, err = src.Commands.ToggleFeaturedCommand(ctx, "editor:save-file")
	require.NoError(t, err)
	_, err = src.Editor.AssignAdditive(ctx, "editor:toggle-code", types.HotkeyBinding{Modifiers: []string{"Mod"}, Key: "E"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.WriteExport(&buf))
	assert.Contains(t, buf.String(), "editor:toggle-code")

	e, err := ReadExport(&buf)
	require.NoError(t, err)
	e.Hotkeys["nope:missing"] = []types.HotkeyBinding{{Key: "Q"}}

	dst := openExample(t, filepath.Join(t.TempDir(), "vault"), keys.PlatformLinux)
	result, err := dst.Import(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Groups)
	assert.Equal(t, 1, result.Featured)
	assert.Equal(t, 1, result.Hotkeys)
	assert.Equal(t, []string{"nope:missing"}, result.Skipped)

	g, ok := dst.Groups.Group(id)
	require.True(t, ok)
	assert.Equal(t, []string{"editor:toggle-bold"}, g.CommandIDs)
	assert.True(t, dst.Commands.IsFeatured("editor:save-file"))

	rec, err := dst.ResolveCommand("editor:toggle-code")
	require.NoError(t, err)
	require.Len(t, rec.HotkeysAll, 1)
	assert.Equal(t, "Mod|E", rec.HotkeysAll[0].Signature(keys.PlatformLinux))
}

func TestImportKeepsGroupIDsUnique(t *testing.T) {
	ctx := context.Background()
	s := openExample(t, filepath.Join(t.TempDir(), "vault"), keys.PlatformLinux)

	result, err := s.Import(ctx, Export{
		Version: ExportVersion,
		Groups: []types.CommandGroup{
			{ID: "w", Name: "Writing", CommandIDs: []string{"editor:toggle-bold", "editor:toggle-bold"}},
			{ID: "w", Name: "Writing again", CommandIDs: []string{"editor:toggle-code"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Groups)

	groups := s.Groups.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "w", groups[0].ID)
	assert.Equal(t, "w-2", groups[1].ID)

	recs := s.Commands.FilterCommands("", nil, "", "w")
	require.Len(t, recs, 1)
	assert.Equal(t, "editor:toggle-bold", recs[0].ID)
}

func TestReadExportRejectsNewerVersion(t *testing.T) {
	_, err := ReadExport(bytes.NewBufferString("version: 99\n"))
	assert.Error(t, err)
}
