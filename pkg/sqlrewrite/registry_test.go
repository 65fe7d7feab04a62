package sqlrewrite_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapillar/tenantsql/pkg/sqlrewrite"
)

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("registers and looks up a patch", func(t *testing.T) {
		t.Parallel()

		reg := sqlrewrite.NewRegistry()
		require.NoError(t, reg.Register("listTables", sqlrewrite.Patch{Qualifiers: []string{"t"}}))

		patch, ok := reg.Lookup("listTables")
		require.True(t, ok)
		assert.Equal(t, []string{"t"}, patch.Qualifiers)
		assert.True(t, reg.Registered("listTables"))
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("unknown statement is not registered", func(t *testing.T) {
		t.Parallel()

		reg := sqlrewrite.NewRegistry()
		_, ok := reg.Lookup("unknown")
		assert.False(t, ok)
		assert.False(t, reg.Registered("unknown"))
	})

	t.Run("rejects empty statement id", func(t *testing.T) {
		t.Parallel()

		reg := sqlrewrite.NewRegistry()
		err := reg.Register("", sqlrewrite.Patch{})
		require.ErrorIs(t, err, sqlrewrite.ErrEmptyStatementID)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		t.Parallel()

		reg := sqlrewrite.NewRegistry()
		require.NoError(t, reg.Register("listTables", sqlrewrite.Patch{}))
		err := reg.Register("listTables", sqlrewrite.Patch{})
		require.ErrorIs(t, err, sqlrewrite.ErrDuplicatePatch)
	})

	t.Run("rejects empty qualifier", func(t *testing.T) {
		t.Parallel()

		reg := sqlrewrite.NewRegistry()
		err := reg.Register("listTables", sqlrewrite.Patch{Qualifiers: []string{"t", ""}})
		require.ErrorIs(t, err, sqlrewrite.ErrMalformedPatch)
	})

	t.Run("rejects invalid anchor keyword", func(t *testing.T) {
		t.Parallel()

		reg := sqlrewrite.NewRegistry()
		err := reg.Register("listTables", sqlrewrite.Patch{InsertBefore: "ORDER BY;"})
		require.ErrorIs(t, err, sqlrewrite.ErrMalformedPatch)
	})
}

func TestRegistry_Freeze(t *testing.T) {
	t.Parallel()

	reg := sqlrewrite.NewRegistry()
	require.NoError(t, reg.Register("before", sqlrewrite.Patch{}))
	reg.Freeze()

	err := reg.Register("after", sqlrewrite.Patch{})
	require.ErrorIs(t, err, sqlrewrite.ErrRegistryFrozen)
	assert.True(t, reg.Registered("before"))
	assert.False(t, reg.Registered("after"))
}

func TestRegistry_MustRegister(t *testing.T) {
	t.Parallel()

	reg := sqlrewrite.NewRegistry()
	assert.NotPanics(t, func() {
		reg.MustRegister("ok", sqlrewrite.Patch{})
	})
	assert.Panics(t, func() {
		reg.MustRegister("ok", sqlrewrite.Patch{})
	})
}

func TestRegistry_NilSafe(t *testing.T) {
	t.Parallel()

	var reg *sqlrewrite.Registry
	_, ok := reg.Lookup("anything")
	assert.False(t, ok)
	assert.False(t, reg.Registered("anything"))
	assert.Equal(t, 0, reg.Len())
}

// A frozen registry is read concurrently by every statement preparation.
func TestRegistry_ConcurrentLookup(t *testing.T) {
	t.Parallel()

	reg := sqlrewrite.NewRegistry()
	reg.MustRegister("listTables", sqlrewrite.Patch{Qualifiers: []string{"t"}})
	reg.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := reg.Lookup("listTables")
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}
