package persist

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kvFactory builds a fresh backend whose expiry follows clock.
type kvFactory func(t *testing.T, clock *fakeClock) KV

func backends() map[string]kvFactory {
	return map[string]kvFactory{
		"memory": func(t *testing.T, clock *fakeClock) KV {
			return NewMemoryKV().WithClock(clock.Now)
		},
		"sqlite": func(t *testing.T, clock *fakeClock) KV {
			kv, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = kv.Close() })
			return kv.WithClock(clock.Now)
		},
	}
}

func TestKV_Backends(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Run("get missing", func(t *testing.T) {
				kv := factory(t, newClock())
				_, ok, err := kv.Get("nope")
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("set get overwrite delete", func(t *testing.T) {
				kv := factory(t, newClock())
				require.NoError(t, kv.Set("k", "v1", 0))
				require.NoError(t, kv.Set("k", "v2", time.Hour))

				got, ok, err := kv.Get("k")
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, "v2", got)

				require.NoError(t, kv.Delete("k"))
				_, ok, err = kv.Get("k")
				require.NoError(t, err)
				assert.False(t, ok)

				require.NoError(t, kv.Delete("k"), "deleting a missing key is fine")
			})

			t.Run("expiry", func(t *testing.T) {
				clock := newClock()
				kv := factory(t, clock)
				require.NoError(t, kv.Set("short", "x", time.Minute))
				require.NoError(t, kv.Set("forever", "y", 0))

				clock.Advance(59 * time.Second)
				_, ok, err := kv.Get("short")
				require.NoError(t, err)
				assert.True(t, ok)

				clock.Advance(time.Second)
				_, ok, err = kv.Get("short")
				require.NoError(t, err)
				assert.False(t, ok)

				clock.Advance(365 * 24 * time.Hour)
				got, ok, err := kv.Get("forever")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, "y", got)
			})
		})
	}
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(DefaultKey, `{"cards":[]}`, DefaultTTL))
	require.NoError(t, kv.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get(DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"cards":[]}`, got)
}

func TestSQLiteKV_InMemory(t *testing.T) {
	kv, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set("a", "b", 0))
	got, ok, err := kv.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", got)
}
