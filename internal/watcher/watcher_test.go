package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderWatcher_DebouncesAndFilters(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan string, 8)
	w := New(dir, 50*time.Millisecond,
		func(path string) bool { return strings.HasSuffix(path, ".mp4") },
		func(_ context.Context, path string) { seen <- path })

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	video := filepath.Join(dir, "clip.mp4")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(video, []byte(strings.Repeat("x", i+1)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	select {
	case path := <-seen:
		assert.Equal(t, video, path)
	case <-time.After(3 * time.Second):
		t.Fatal("handler was not called")
	}

	select {
	case path := <-seen:
		t.Fatalf("unexpected second call for %s", path)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestFolderWatcher_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "incoming")
	ctx, cancel := context.WithCancel(context.Background())

	w := New(dir, time.Millisecond, nil, func(context.Context, string) {})
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		info, err := os.Stat(dir)
		return err == nil && info.IsDir()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-errCh)
}
