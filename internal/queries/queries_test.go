package queries

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/hotkeyhub/internal/types"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestSaveAndGet(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	replaced, err := m.Save(ctx, "ids", "[].id")
	require.NoError(t, err)
	assert.False(t, replaced)

	q, err := m.Get(ctx, "@ids")
	require.NoError(t, err)
	assert.Equal(t, "ids", q.Name)
	assert.Equal(t, "[].id", q.Expression)

	replaced, err = m.Save(ctx, "@ids", "[].displayName")
	require.NoError(t, err)
	assert.True(t, replaced)

	q, err = m.Get(ctx, "ids")
	require.NoError(t, err)
	assert.Equal(t, "[].displayName", q.Expression)
}

func TestSaveRejectsInvalid(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	_, err := m.Save(ctx, "", "[].id")
	assert.Error(t, err)
	_, err = m.Save(ctx, "empty", "  ")
	assert.Error(t, err)
	_, err = m.Save(ctx, "broken", "[?id==")
	assert.Error(t, err)
}

func TestListAndDelete(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	list, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = m.Save(ctx, "zeta", "[].id")
	require.NoError(t, err)
	_, err = m.Save(ctx, "alpha", "length(@)")
	require.NoError(t, err)

	list, err = m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "zeta", list[1].Name)

	require.NoError(t, m.Delete(ctx, "alpha"))
	err = m.Delete(ctx, "alpha")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestResolve(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	_, err := m.Save(ctx, "custom", "[?hotkeysCustom].id")
	require.NoError(t, err)

	expr, err := m.Resolve(ctx, "@custom")
	require.NoError(t, err)
	assert.Equal(t, "[?hotkeysCustom].id", expr)

	expr, err = m.Resolve(ctx, "[].id")
	require.NoError(t, err)
	assert.Equal(t, "[].id", expr)

	_, err = m.Resolve(ctx, "@missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
