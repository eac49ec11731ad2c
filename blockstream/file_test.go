package blockstream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FileStream_CommitCycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.dat")
	s, err := NewFileStream(path)
	require.NoError(t, err)

	for _, payload := range []string{"first\r\n", "second\r\n"} {
		b, err := s.Allocate(512)
		require.NoError(t, err)
		copy(b.Data, payload)
		require.NoError(t, s.Write(b, len(payload)))
		require.NoError(t, s.Release(b))
	}

	require.NoError(t, s.Flush())
	assert.Equal(t, int64(15), s.TotalLength())
	assert.Equal(t, "file://"+path, s.URI())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close()) // idempotent

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("first\r\nsecond\r\n"), raw)
}

func Test_FileStream_Sync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.sync")
	s, err := NewFileStream(path, WithFileSync())
	require.NoError(t, err)

	b, err := s.Allocate(256)
	require.NoError(t, err)
	copy(b.Data, "durable")
	require.NoError(t, s.Write(b, 7))
	require.NoError(t, s.Release(b))
	require.NoError(t, s.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("durable"), raw)
}

func Test_FileStream_OpenFailure(t *testing.T) {
	_, err := NewFileStream(filepath.Join(t.TempDir(), "missing", "blocks.dat"))
	assert.Error(t, err)
}
