package fileutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "clip_davinci.srt")

	require.NoError(t, WriteFileAtomic(path, []byte("1\n"), 0o644))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(data))

	require.NoError(t, WriteFileAtomic(path, []byte("2\n"), 0o644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2\n", string(data))

	tmps, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, tmps, "temp files should be cleaned up")
}

func TestWriteFileAtomic_ConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	payloads := []string{"aaaa", "bbbb", "cccc", "dddd"}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, WriteFileAtomic(path, []byte(p), 0o644))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, payloads, string(data))
}
