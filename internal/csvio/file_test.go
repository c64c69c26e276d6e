package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exports", "requirements_2026-08-29.csv")

	require.NoError(t, WriteFileAtomic(path, []byte("reqId\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "reqId\n", string(data))

	// Overwrite goes through the same rename path.
	require.NoError(t, WriteFileAtomic(path, []byte("updated\n")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated\n", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
