package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
)

// RunDiagramCacheContract runs a suite of tests to verify that a DiagramCache
// implementation adheres to the interface contract.
func RunDiagramCacheContract(t *testing.T, cache DiagramCache) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		markup := []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
		require.NoError(t, cache.Put(ctx, key, markup))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, markup, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, []byte("v1")))
		require.NoError(t, cache.Put(ctx, key, []byte("v2")))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "v2", string(got))
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, []byte("x")))
		require.NoError(t, cache.Delete(ctx, key))

		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})
}
