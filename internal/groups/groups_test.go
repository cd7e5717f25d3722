package groups

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/hotkeyhub/internal/settings"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

type countingPersistence struct {
	data  []byte
	saves int
	err   error
}

func (c *countingPersistence) LoadData(ctx context.Context) ([]byte, error) {
	return c.data, nil
}

func (c *countingPersistence) SaveData(ctx context.Context, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.data = data
	c.saves++
	return nil
}

func immediate(fn func()) { fn() }

func newTestManager(t *testing.T, opts ...Option) (*Manager, *settings.Store, *countingPersistence) {
	t.Helper()
	p := &countingPersistence{}
	store := settings.NewStore(p)
	require.NoError(t, store.Load(context.Background()))
	opts = append([]Option{WithScheduler(immediate)}, opts...)
	return NewManager(store, opts...), store, p
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Writing", "writing"},
		{"  Daily  Notes ", "daily-notes"},
		{"Café & Crème", "cafe-creme"},
		{"snake_case-name", "snake-case-name"},
		{"!!!", "group"},
		{"a very long group name that keeps going on", "a-very-long-group-name-that-keep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.name))
		})
	}
}

func TestCreateGroup(t *testing.T) {
	m, store, p := newTestManager(t)
	ctx := context.Background()

	id, err := m.CreateGroup(ctx, "Writing")
	require.NoError(t, err)
	assert.Equal(t, "writing", id)

	second, err := m.CreateGroup(ctx, "writing")
	require.NoError(t, err)
	assert.Equal(t, "writing-2", second)

	reserved, err := m.CreateGroup(ctx, "All")
	require.NoError(t, err)
	assert.Equal(t, "all-2", reserved)

	g, ok := m.Group("writing")
	require.True(t, ok)
	assert.Equal(t, "Writing", g.Name)
	assert.Empty(t, g.CommandIDs)
	assert.Equal(t, store.GlobalDefaults(), g.FilterSettings)
	assert.Equal(t, 3, p.saves)

	_, err = m.CreateGroup(ctx, "   ")
	assert.Error(t, err)
}

func TestGetGroupSettingsLayering(t *testing.T) {
	m, store, _ := newTestManager(t)
	store.Update(func(d *settings.Data) {
		d.FilterSettings[types.DisplayIDs] = true
		d.CommandGroups = append(d.CommandGroups, types.CommandGroup{
			ID:             "writing",
			Name:           "Writing",
			FilterSettings: types.FilterSettings{types.OnlyCustom: true},
		}, types.CommandGroup{ID: "bare", Name: "Bare"})
	})
	global := store.GlobalDefaults()

	got := m.GetGroupSettings("writing")
	assert.True(t, got[types.OnlyCustom])
	assert.True(t, got[types.StrictModifierMatch])
	for _, key := range types.FilterKeys {
		if key == types.OnlyCustom {
			continue
		}
		assert.Equal(t, global[key], got[key], key)
	}

	assert.Equal(t, global, m.GetGroupSettings("bare"))
	assert.Equal(t, global, m.GetGroupSettings("missing"))
	assert.Equal(t, global, m.GetGroupSettings(types.AllGroupID))
	assert.Equal(t, global, m.GetGroupSettings(""))
}

func TestUpdateGroupFilterSettings(t *testing.T) {
	m, _, p := newTestManager(t)
	ctx := context.Background()
	id, err := m.CreateGroup(ctx, "Writing")
	require.NoError(t, err)
	saves := p.saves

	changed, err := m.UpdateGroupFilterSettings(ctx, id, types.FilterSettings{types.StrictModifierMatch: true})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, saves, p.saves)

	changed, err = m.UpdateGroupFilterSettings(ctx, id, types.FilterSettings{types.OnlyCustom: true})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, saves+1, p.saves)
	assert.True(t, m.GetGroupSettings(id)[types.OnlyCustom])

	changed, err = m.UpdateGroupFilterSettings(ctx, "missing", types.FilterSettings{types.OnlyCustom: true})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdateAllGroupWritesGlobalDefaults(t *testing.T) {
	m, store, _ := newTestManager(t)
	changed, err := m.UpdateGroupFilterSettings(context.Background(), types.AllGroupID, types.FilterSettings{types.FeaturedFirst: true})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, store.GlobalDefaults()[types.FeaturedFirst])
}

func TestReplaceGroupFilters(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	id, err := m.CreateGroup(ctx, "Writing")
	require.NoError(t, err)

	_, err = m.UpdateGroupFilterSettings(ctx, id, types.FilterSettings{types.OnlyCustom: true, types.DisplayIDs: true})
	require.NoError(t, err)

	changed, err := m.ReplaceGroupFilters(ctx, id, types.FilterSettings{types.OnlyDuplicates: true})
	require.NoError(t, err)
	assert.True(t, changed)

	got := m.GetGroupSettings(id)
	assert.True(t, got[types.OnlyDuplicates])
	assert.False(t, got[types.OnlyCustom])
	assert.False(t, got[types.DisplayIDs])

	changed, err = m.ReplaceGroupFilters(ctx, id, got)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestWriteLockSuppressesEchoUntilNextTick(t *testing.T) {
	var pending []func()
	m, _, p := newTestManager(t, WithScheduler(func(fn func()) {
		pending = append(pending, fn)
	}))
	ctx := context.Background()
	id, err := m.CreateGroup(ctx, "Writing")
	require.NoError(t, err)
	saves := p.saves

	changed, err := m.UpdateGroupFilterSettings(ctx, id, types.FilterSettings{types.OnlyCustom: true})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = m.UpdateGroupFilterSettings(ctx, id, types.FilterSettings{types.DisplayIDs: true})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, m.GetGroupSettings(id)[types.DisplayIDs])

	// other groups are not locked
	changed, err = m.UpdateGroupFilterSettings(ctx, types.AllGroupID, types.FilterSettings{types.DisplayIDs: true})
	require.NoError(t, err)
	assert.True(t, changed)

	require.Len(t, pending, 2)
	for _, fn := range pending {
		fn()
	}

	changed, err = m.UpdateGroupFilterSettings(ctx, id, types.FilterSettings{types.GroupByPlugin: true})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, saves+3, p.saves)
}

func TestDynamicGroupSnapshotsLastUsedState(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	id, err := m.CreateGroup(ctx, "Review")
	require.NoError(t, err)
	require.NoError(t, m.SetGroupBehavior(ctx, id, types.OnOpenDynamic))

	_, err = m.UpdateGroupFilterSettings(ctx, id, types.FilterSettings{types.OnlyDuplicates: true})
	require.NoError(t, err)

	g, ok := m.Group(id)
	require.True(t, ok)
	require.NotNil(t, g.LastUsedState)
	assert.True(t, g.LastUsedState.Filters[types.OnlyDuplicates])
	assert.Equal(t, g.FilterSettings, g.LastUsedState.Filters)

	assert.Error(t, m.SetGroupBehavior(ctx, id, "sometimes"))
}

func TestOpenGroupRestoresState(t *testing.T) {
	m, store, _ := newTestManager(t)
	ctx := context.Background()

	static, err := m.CreateGroup(ctx, "Static")
	require.NoError(t, err)
	_, err = m.UpdateGroupFilterSettings(ctx, static, types.FilterSettings{types.OnlyCustom: true})
	require.NoError(t, err)
	require.NoError(t, m.SaveGroupDefaults(ctx, static))
	_, err = m.UpdateGroupFilterSettings(ctx, static, types.FilterSettings{types.OnlyCustom: false, types.DisplayIDs: true})
	require.NoError(t, err)

	got, err := m.OpenGroup(ctx, static)
	require.NoError(t, err)
	assert.True(t, got[types.OnlyCustom])
	assert.False(t, got[types.DisplayIDs])
	assert.Equal(t, static, store.Get().LastGroupID)

	dynamic, err := m.CreateGroup(ctx, "Dynamic")
	require.NoError(t, err)
	require.NoError(t, m.SetGroupBehavior(ctx, dynamic, types.OnOpenDynamic))
	require.NoError(t, m.SaveGroupDefaults(ctx, dynamic))
	_, err = m.UpdateGroupFilterSettings(ctx, dynamic, types.FilterSettings{types.FeaturedFirst: true})
	require.NoError(t, err)

	got, err = m.OpenGroup(ctx, dynamic)
	require.NoError(t, err)
	assert.True(t, got[types.FeaturedFirst])

	_, err = m.OpenGroup(ctx, types.AllGroupID)
	require.NoError(t, err)
	assert.Empty(t, store.Get().LastGroupID)

	_, err = m.OpenGroup(ctx, "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestApplyWithoutSnapshotsIsNoop(t *testing.T) {
	m, _, p := newTestManager(t)
	ctx := context.Background()
	id, err := m.CreateGroup(ctx, "Plain")
	require.NoError(t, err)
	saves := p.saves

	changed, err := m.ApplyDefaultsToGroupFilters(ctx, id)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = m.ApplyDynamicLastUsedToGroupFilters(ctx, id)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, saves, p.saves)
}

func TestNormalizeAllGroupsIsIdempotent(t *testing.T) {
	m, store, p := newTestManager(t)
	store.Update(func(d *settings.Data) {
		d.CommandGroups = []types.CommandGroup{
			{ID: "writing", Name: "Writing", FilterSettings: types.FilterSettings{types.OnlyCustom: true}},
			{
				ID:            "review",
				Name:          "Review",
				CommandIDs:    []string{"app:reload"},
				Behavior:      &types.GroupBehavior{OnOpen: types.OnOpenDynamic},
				LastUsedState: &types.FilterSnapshot{Filters: types.FilterSettings{types.FeaturedFirst: true}},
			},
		}
	})
	ctx := context.Background()

	changed, err := m.NormalizeAllGroups(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, p.saves)

	for _, g := range m.Groups() {
		assert.Len(t, g.FilterSettings, len(types.FilterKeys), g.ID)
		assert.NotNil(t, g.CommandIDs)
	}
	review, _ := m.Group("review")
	assert.Len(t, review.LastUsedState.Filters, len(types.FilterKeys))
	assert.True(t, review.LastUsedState.Filters[types.FeaturedFirst])
	writing, _ := m.Group("writing")
	assert.True(t, writing.FilterSettings[types.OnlyCustom])

	changed, err = m.NormalizeAllGroups(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, p.saves)
}

func TestNormalizeAllGroupsDedupesMembers(t *testing.T) {
	m, store, _ := newTestManager(t)
	store.Update(func(d *settings.Data) {
		d.CommandGroups = []types.CommandGroup{
			{ID: "writing", Name: "Writing", CommandIDs: []string{"a", "b", "a", ""}},
			{ID: "writing", Name: "Writing", ExcludedPluginIDs: []string{"p", "p"}},
		}
	})

	changed, err := m.NormalizeAllGroups(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	groups := m.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a", "b"}, groups[0].CommandIDs)
	assert.Equal(t, "writing-2", groups[1].ID)
	assert.Equal(t, []string{"p"}, groups[1].ExcludedPluginIDs)
}

func TestReplaceGroups(t *testing.T) {
	m, store, p := newTestManager(t)
	ctx := context.Background()
	id, err := m.CreateGroup(ctx, "Old")
	require.NoError(t, err)
	_, err = m.OpenGroup(ctx, id)
	require.NoError(t, err)

	stored, err := m.ReplaceGroups(ctx, []types.CommandGroup{
		{Name: "Daily Notes", CommandIDs: []string{"x", "x"}},
		{ID: "all", Name: "Everything"},
		{ID: "daily-notes", Name: "Clash"},
	})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "daily-notes", stored[0].ID)
	assert.Equal(t, []string{"x"}, stored[0].CommandIDs)
	assert.Equal(t, "all-2", stored[1].ID)
	assert.Equal(t, "daily-notes-2", stored[2].ID)
	for _, g := range stored {
		assert.Len(t, g.FilterSettings, len(types.FilterKeys), g.ID)
	}

	_, ok := m.Group(id)
	assert.False(t, ok)
	assert.Empty(t, store.Get().LastGroupID)
	assert.Greater(t, p.saves, 0)
}

func TestMembership(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	id, err := m.CreateGroup(ctx, "Writing")
	require.NoError(t, err)

	for _, cmd := range []string{"a:1", "a:2", "a:3"} {
		changed, err := m.AddCommandToGroup(ctx, id, cmd)
		require.NoError(t, err)
		assert.True(t, changed)
	}

	changed, err := m.AddCommandToGroup(ctx, id, "a:2")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = m.InsertCommandInGroup(ctx, id, "a:0", -5)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = m.InsertCommandInGroup(ctx, id, "a:9", 99)
	require.NoError(t, err)
	assert.True(t, changed)

	g, _ := m.Group(id)
	assert.Equal(t, []string{"a:0", "a:1", "a:2", "a:3", "a:9"}, g.CommandIDs)

	changed, err = m.MoveCommandInGroup(ctx, id, "a:0", 100)
	require.NoError(t, err)
	assert.True(t, changed)
	g, _ = m.Group(id)
	assert.Equal(t, []string{"a:1", "a:2", "a:3", "a:9", "a:0"}, g.CommandIDs)

	changed, err = m.RemoveCommandFromGroup(ctx, id, "a:9")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = m.SetGroupCommandOrder(ctx, id, []string{"a:3", "a:3", "a:1"})
	require.NoError(t, err)
	assert.True(t, changed)
	g, _ = m.Group(id)
	assert.Equal(t, []string{"a:3", "a:1"}, g.CommandIDs)
}

func TestMembershipOnMissingGroupIsNoop(t *testing.T) {
	m, _, p := newTestManager(t)
	ctx := context.Background()

	changed, err := m.AddCommandToGroup(ctx, "missing", "a:1")
	require.NoError(t, err)
	assert.False(t, changed)
	changed, err = m.MoveCommandInGroup(ctx, "missing", "a:1", 0)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, p.saves)
}

func TestGroupCRUD(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	a, err := m.CreateGroup(ctx, "Alpha")
	require.NoError(t, err)
	b, err := m.CreateGroup(ctx, "Beta")
	require.NoError(t, err)
	_, err = m.AddCommandToGroup(ctx, a, "app:reload")
	require.NoError(t, err)

	dup, err := m.DuplicateGroup(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "alpha-copy", dup)

	ids := func() []string {
		var out []string
		for _, g := range m.Groups() {
			out = append(out, g.ID)
		}
		return out
	}
	assert.Equal(t, []string{a, dup, b}, ids())

	require.NoError(t, m.MoveGroup(ctx, b, 0))
	assert.Equal(t, []string{b, a, dup}, ids())

	require.NoError(t, m.RenameGroup(ctx, a, "Alpha Prime"))
	g, _ := m.Group(a)
	assert.Equal(t, "Alpha Prime", g.Name)

	require.NoError(t, m.SetGroupPinned(ctx, a, true))
	require.NoError(t, m.SetGroupAppearance(ctx, a, "star", "#ff8800"))
	require.NoError(t, m.SetRegisterCommand(ctx, a, true))
	require.NoError(t, m.SetExcludedPlugins(ctx, a, []string{"dataview", "dataview"}))
	g, _ = m.Group(a)
	assert.True(t, g.Pinned)
	assert.Equal(t, "star", g.Icon)
	assert.True(t, g.RegisterCommand)
	assert.Equal(t, []string{"dataview"}, g.ExcludedPluginIDs)

	require.NoError(t, m.DeleteGroup(ctx, dup))
	assert.Equal(t, []string{b, a}, ids())

	err = m.DeleteGroup(ctx, "alpah")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))
	assert.Contains(t, err.Error(), `did you mean "alpha"`)
}

func TestSaveFailureIsReturned(t *testing.T) {
	m, _, p := newTestManager(t)
	p.err = errors.New("disk full")
	_, err := m.CreateGroup(context.Background(), "Writing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
