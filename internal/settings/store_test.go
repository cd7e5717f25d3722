package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

type fakePersistence struct {
	data    []byte
	loadErr error
	saves   int
}

func (f *fakePersistence) LoadData(ctx context.Context) ([]byte, error) {
	return f.data, f.loadErr
}

func (f *fakePersistence) SaveData(ctx context.Context, data []byte) error {
	f.data = data
	f.saves++
	return nil
}

func TestStoreServesDefaultsBeforeLoad(t *testing.T) {
	s := NewStore(&fakePersistence{})
	assert.False(t, s.Loaded())
	assert.Equal(t, types.DefaultFilterSettings(), s.GlobalDefaults())
	assert.Empty(t, s.Get().CommandGroups)
}

func TestStoreLoadFallsBackOnError(t *testing.T) {
	ctx := context.Background()
	for name, p := range map[string]*fakePersistence{
		"load error": {loadErr: errors.New("locked")},
		"bad json":   {data: []byte(`{"filterSettings":`)},
	} {
		t.Run(name, func(t *testing.T) {
			s := NewStore(p)
			require.NoError(t, s.Load(ctx))
			assert.True(t, s.Loaded())
			assert.Equal(t, DefaultData(), s.Get())
		})
	}
}

func TestStoreLoadFillsMissingKeys(t *testing.T) {
	p := &fakePersistence{data: []byte(`{"filterSettings":{"onlyCustom":true},"emulatedOS":"macos"}`)}
	s := NewStore(p)
	require.NoError(t, s.Load(context.Background()))

	d := s.Get()
	assert.True(t, d.FilterSettings[types.OnlyCustom])
	assert.True(t, d.FilterSettings[types.StrictModifierMatch])
	assert.NotNil(t, d.CommandGroups)
	assert.Equal(t, keys.PlatformMacOS, s.Platform())
}

func TestStoreUpdateAndSave(t *testing.T) {
	p := &fakePersistence{}
	s := NewStore(p)
	ctx := context.Background()

	s.Update(func(d *Data) {
		d.FeaturedCommandIDs = append(d.FeaturedCommandIDs, "app:reload")
	})
	require.NoError(t, s.Save(ctx))
	assert.Equal(t, 1, p.saves)

	reloaded := NewStore(p)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, []string{"app:reload"}, reloaded.Get().FeaturedCommandIDs)
}

func TestStoreGetIsACopy(t *testing.T) {
	s := NewStore(&fakePersistence{})
	s.Update(func(d *Data) {
		d.CommandGroups = append(d.CommandGroups, types.CommandGroup{ID: "writing", CommandIDs: []string{"a"}})
	})

	snap := s.Get()
	snap.CommandGroups[0].CommandIDs[0] = "mutated"
	snap.FilterSettings[types.OnlyCustom] = true

	assert.Equal(t, "a", s.Get().CommandGroups[0].CommandIDs[0])
	assert.False(t, s.GlobalDefaults()[types.OnlyCustom])
}
