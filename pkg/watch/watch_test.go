package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant("/usr/share/applications/code.desktop"))
	assert.True(t, relevant("/etc/xdg/menus/applications.menu"))
	assert.True(t, relevant("/usr/share/desktop-directories/dev.directory"))
	assert.True(t, relevant("/usr/share/icons/hicolor/index.theme"))
	assert.False(t, relevant("/usr/share/applications/mimeinfo.cache"))
}

func TestDirsDeduplicates(t *testing.T) {
	got := Dirs("/etc/xdg/menus/applications.menu",
		[]string{"/usr/share/applications", "/usr/share/applications/"},
		[]string{"/etc/xdg/menus", ""})
	assert.Equal(t, []string{"/etc/xdg/menus", "/usr/share/applications"}, got)
}

func TestRunDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := &Watcher{
		Dirs:     []string{dir, filepath.Join(dir, "missing")},
		Debounce: 100 * time.Millisecond,
		OnChange: func(context.Context) error {
			calls.Add(1)
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// let the watch register before writing
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.desktop"), []byte("[Desktop Entry]\n"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestRunNeedsAWatchableDir(t *testing.T) {
	w := &Watcher{Dirs: []string{filepath.Join(t.TempDir(), "nope")}, OnChange: func(context.Context) error { return nil }}
	err := w.Run(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}
