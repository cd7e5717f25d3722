package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/hotkeyhub/internal/host"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

func TestOpenExampleVault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CreateExample(dir))

	v, err := Open(dir, keys.PlatformLinux)
	require.NoError(t, err)

	cmds, err := v.Commands()
	require.NoError(t, err)
	assert.Len(t, cmds, len(exampleCommands))

	defaults, ok := v.DefaultHotkeys("editor:toggle-bold")
	require.True(t, ok)
	assert.Equal(t, "Mod|B", defaults[0].Signature(keys.PlatformLinux))

	assert.ElementsMatch(t,
		[]string{"global-search:open", "dataview:dataview-force-refresh-views"},
		v.Dispatch("Mod,Shift|F"))
	assert.Len(t, v.CommunityPlugins(), 3)
}

func TestVaultReadsCommentsAndStringModifiers(t *testing.T) {
	dir := t.TempDir()
	commands := `[
		// built-in
		{"id": "editor:toggle-bold", "name": "Toggle bold", "hotkeys": [{"modifiers": "Mod", "key": "B"}]},
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CommandsFile), []byte(commands), 0644))

	v, err := Open(dir, keys.PlatformLinux)
	require.NoError(t, err)

	defaults, ok := v.DefaultHotkeys("editor:toggle-bold")
	require.True(t, ok)
	assert.Equal(t, []string{"Mod"}, defaults[0].Modifiers)
	assert.Empty(t, v.InternalPlugins())
}

func TestVaultSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CreateExample(dir))

	v, err := Open(dir, keys.PlatformLinux)
	require.NoError(t, err)

	w, err := host.ProbeWriter(v)
	require.NoError(t, err)
	require.NoError(t, v.SetHotkeys("editor:toggle-code", []types.HotkeyBinding{{Modifiers: []string{"Mod"}, Key: "`"}}))
	require.NoError(t, w.Commit(context.Background()))

	reopened, err := Open(dir, keys.PlatformLinux)
	require.NoError(t, err)
	custom, ok := reopened.CustomHotkeys("editor:toggle-code")
	require.True(t, ok)
	assert.Equal(t, "`", custom[0].Key)
	assert.Equal(t, []string{"editor:toggle-code"}, reopened.Dispatch("Mod|`"))

	_, err = os.Stat(filepath.Join(dir, HotkeysFile+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestSetPlatformRebakes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CreateExample(dir))

	v, err := Open(dir, keys.PlatformLinux)
	require.NoError(t, err)
	require.NoError(t, v.SetHotkeys("editor:toggle-code", []types.HotkeyBinding{{Modifiers: []string{"Ctrl"}, Key: "K"}}))
	require.NoError(t, v.Bake())
	assert.Equal(t, []string{"editor:toggle-code"}, v.Dispatch("Mod|K"))

	require.NoError(t, v.SetPlatform(keys.PlatformMacOS))
	assert.Equal(t, keys.PlatformMacOS, v.Platform())
	assert.Empty(t, v.Dispatch("Mod|K"))
	assert.Equal(t, []string{"editor:toggle-code"}, v.Dispatch("Ctrl|K"))
}

func TestSaveHonoursContext(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CreateExample(dir))

	v, err := Open(dir, keys.PlatformLinux)
	require.NoError(t, err)

	other := flock.New(filepath.Join(dir, LockFile))
	require.NoError(t, other.Lock())
	defer other.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, v.Save(ctx))
}

func TestVaultData(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CreateExample(dir))
	v, err := Open(dir, keys.PlatformLinux)
	require.NoError(t, err)
	ctx := context.Background()

	data, err := v.LoadData(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, v.SaveData(ctx, []byte(`{"featuredCommandIds":["app:reload"]}`)))
	data, err = v.LoadData(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"featuredCommandIds":["app:reload"]}`, string(data))
}

func TestOpenMissingCommands(t *testing.T) {
	_, err := Open(t.TempDir(), keys.PlatformLinux)
	require.Error(t, err)
	assert.Contains(t, err.Error(), CommandsFile)
}
