package localstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/aion/internal/localstore"
)

func TestFileKV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	kv, err := localstore.NewFileKV(dir)
	require.NoError(t, err)

	got, err := kv.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, kv.Put("k", []byte("one")))
	require.NoError(t, kv.Put("k", []byte("two")))

	got, err = kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")

	require.NoError(t, kv.Delete("k"))
	require.NoError(t, kv.Delete("k"))

	got, err = kv.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
