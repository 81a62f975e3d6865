package filesystem_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	fsys := filesystem.NewOS()
	target := filepath.Join(t.TempDir(), "menus", "Dev", "Editor.lnk")

	require.NoError(t, filesystem.WriteFileAtomic(fsys, target, []byte("first"), 0644))
	require.NoError(t, filesystem.WriteFileAtomic(fsys, target, []byte("second"), 0644))

	data, err := fsys.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := fsys.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteFileAtomicMemory(t *testing.T) {
	fsys := filesystem.NewMemory()

	require.NoError(t, filesystem.WriteFileAtomic(fsys, "/meta/a.sh", []byte("#!/bin/sh"), 0775))

	info, err := fsys.Stat("/meta/a.sh")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0775), info.Mode().Perm())
}

func TestEnsureFile(t *testing.T) {
	fsys := filesystem.NewMemory()

	created, err := filesystem.EnsureFile(fsys, "/meta/silent-launcher.vbs", []byte("one"), 0644)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = filesystem.EnsureFile(fsys, "/meta/silent-launcher.vbs", []byte("two"), 0644)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := fsys.ReadFile("/meta/silent-launcher.vbs")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestEnsureFileConcurrentWriters(t *testing.T) {
	fsys := filesystem.NewOS()
	target := filepath.Join(t.TempDir(), "stub.vbs")

	var created int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := filesystem.EnsureFile(fsys, target, []byte("stub"), 0644)
			assert.NoError(t, err)
			if ok {
				atomic.AddInt32(&created, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created)
}

// shortWriteFs stores at most limit bytes per file and then reports a full disk
type shortWriteFs struct {
	afero.Fs
	limit int
}

func (s shortWriteFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := s.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &shortWriteFile{File: f, limit: s.limit}, nil
}

type shortWriteFile struct {
	afero.File
	limit int
}

var errDiskFull = errors.New("no space left on device")

func (f *shortWriteFile) Write(p []byte) (int, error) {
	if len(p) <= f.limit {
		return f.File.Write(p)
	}
	n, _ := f.File.Write(p[:f.limit])
	return n, errDiskFull
}

func TestEnsureFileFailedWriteLeavesNothing(t *testing.T) {
	mem := afero.NewMemMapFs()
	full := filesystem.NewAferoFS(shortWriteFs{Fs: mem, limit: 5})
	target := "/meta/silent-launcher.vbs"

	created, err := filesystem.EnsureFile(full, target, []byte("CreateObject"), 0644)
	require.ErrorIs(t, err, errDiskFull)
	assert.False(t, created)

	healthy := filesystem.NewAferoFS(mem)
	assert.False(t, filesystem.Exists(healthy, target), "a truncated file must not survive")

	created, err = filesystem.EnsureFile(healthy, target, []byte("CreateObject"), 0644)
	require.NoError(t, err)
	assert.True(t, created)
	data, err := healthy.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "CreateObject", string(data))
}

func TestNoopHider(t *testing.T) {
	assert.NoError(t, filesystem.NoopHider{}.Hide(context.Background(), "/x"))
}

func TestAttribHiderTranslationError(t *testing.T) {
	h := filesystem.AttribHider{
		Executable: "attrib.exe",
		ToWindows: func(string) (string, error) {
			return "", fs.ErrNotExist
		},
	}
	assert.ErrorIs(t, h.Hide(context.Background(), "/x"), fs.ErrNotExist)
}
