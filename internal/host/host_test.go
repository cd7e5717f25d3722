package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

func TestProbeWriter(t *testing.T) {
	m := NewMemory(keys.PlatformLinux)

	w, err := ProbeWriter(m)
	require.NoError(t, err)
	assert.NotNil(t, w.Loader)

	_, err = ProbeWriter(ReadOnly(m))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnavailableCapability))
	assert.Contains(t, err.Error(), "setHotkeys")
}

func TestMemorySaveLoadBake(t *testing.T) {
	m := NewMemory(keys.PlatformLinux)
	m.AddCommand("editor:toggle-bold", "Toggle bold", types.HotkeyBinding{Modifiers: []string{"Mod"}, Key: "B"})

	w, err := ProbeWriter(m)
	require.NoError(t, err)

	require.NoError(t, m.SetHotkeys("editor:toggle-bold", []types.HotkeyBinding{{Modifiers: []string{"Mod", "Shift"}, Key: "B", IsCustom: true}}))
	require.NoError(t, w.Commit(context.Background()))

	custom, ok := m.CustomHotkeys("editor:toggle-bold")
	require.True(t, ok)
	require.Len(t, custom, 1)
	assert.False(t, custom[0].IsCustom, "host stores raw bindings")

	assert.Equal(t, []string{"editor:toggle-bold"}, m.Dispatch("Mod,Shift|B"))
	assert.Empty(t, m.Dispatch("Mod|B"))
	assert.Equal(t, 1, m.Bakes)
}

func TestMemoryLoadDropsUnsavedEdits(t *testing.T) {
	m := NewMemory(keys.PlatformLinux)
	m.AddCommand("app:quit", "Quit")

	require.NoError(t, m.SetHotkeys("app:quit", []types.HotkeyBinding{{Modifiers: []string{"Mod"}, Key: "Q"}}))
	require.NoError(t, m.Load())

	_, ok := m.CustomHotkeys("app:quit")
	assert.False(t, ok)
}

func TestMemoryCommitSaveError(t *testing.T) {
	m := NewMemory(keys.PlatformLinux)
	m.SaveErr = errors.New("disk full")
	w, err := ProbeWriter(m)
	require.NoError(t, err)

	err = w.Commit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save hotkeys")
}

func TestMemoryPersistence(t *testing.T) {
	m := NewMemory(keys.PlatformLinux)
	ctx := context.Background()

	data, err := m.LoadData(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, m.SaveData(ctx, []byte(`{"a":1}`)))
	data, err = m.LoadData(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))
}
