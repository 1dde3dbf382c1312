package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyDataDir, "/tmp/index"))

	val, ok := store.Get(KeyDataDir)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/index", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyChunkSize, 1500))
	require.NoError(t, store.Set(KeySimilarityThreshold, 0.3))
	require.NoError(t, store.Set(KeyLLMProvider, "anthropic"))

	assert.Equal(t, 1500, store.GetInt(KeyChunkSize))
	assert.Equal(t, 0.3, store.GetFloat(KeySimilarityThreshold))
	assert.Equal(t, "anthropic", store.GetString(KeyLLMProvider))

	// Absent keys return zero values so callers can apply defaults.
	assert.Zero(t, store.GetInt("nonexistent"))
	assert.Zero(t, store.GetFloat("nonexistent"))
	assert.Empty(t, store.GetString("nonexistent"))

	// Wrong types also return zero values.
	assert.Zero(t, store.GetInt(KeyLLMProvider))
	assert.Empty(t, store.GetString(KeyChunkSize))
}

func TestConfigStore_GetFloat_AcceptsIntegers(t *testing.T) {
	store := newTestStore(t)

	store.mu.Lock()
	store.data["threshold"] = int64(1)
	store.mu.Unlock()

	assert.Equal(t, 1.0, store.GetFloat("threshold"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set(KeyTopK, 8))
	require.NoError(t, store1.Set(KeyEmbeddingModel, "text-embedding-3-small"))
	require.NoError(t, store1.Set(KeyContextBudget, 6000))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 8, store2.GetInt(KeyTopK))
	assert.Equal(t, "text-embedding-3-small", store2.GetString(KeyEmbeddingModel))
	assert.Equal(t, 6000, store2.GetInt(KeyContextBudget))
}

func TestConfigStore_NestedKeysFlattened(t *testing.T) {
	tmpDir := t.TempDir()

	content := []byte("[retrieval]\ntop_k = 7\nsimilarity_threshold = 0.4\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 7, store.GetInt(KeyTopK))
	assert.Equal(t, 0.4, store.GetFloat(KeySimilarityThreshold))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store := newTestStore(t)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()

	corrupted := []byte("this is not valid TOML {{{[[")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), corrupted, 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_OverwriteValue(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyLLMModel, "gpt-4o-mini"))
	require.NoError(t, store.Set(KeyLLMModel, "gpt-4o"))

	assert.Equal(t, "gpt-4o", store.GetString(KeyLLMModel))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
