package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCmd_IngestsDroppedFiles(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.document.notify = make(chan string, 4)
	inboxFilter = func(path string) bool { return strings.HasSuffix(path, ".txt") }

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch", "--debounce", "40ms", dir})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetContext(context.Background())
		resetFlags(rootCmd)
	})

	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.bin"), []byte{1}, 0o644))
	want := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(want, []byte("The cat sat."), 0o644))

	select {
	case got := <-ts.document.notify:
		assert.Equal(t, want, got)
	case <-time.After(3 * time.Second):
		t.Fatal("file was not ingested")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}

	assert.Equal(t, []string{want}, ts.document.ingested)
	assert.Contains(t, buf.String(), "Watching "+dir)
	assert.Contains(t, buf.String(), "Cleaned report")
}

func TestWatchCmd_MissingDir(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "watch", "/non/existent/inbox")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "inbox path error")
}

func TestWatchCmd_ErrorWithoutServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	cleaningService = nil

	_, err := execute(t, "watch", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cleaning service not configured")

	documentService = nil
	_, err = execute(t, "watch", "--no-clean", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document service not configured")
}
