package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_CollapsesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.hcl")
	other := filepath.Join(dir, "other.hcl")

	require.NoError(t, os.WriteFile(path, []byte("a"), filePerm))

	w, err := NewWatcher(path, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32

	done := make(chan error, 1)

	go func() { done <- w.Run(ctx, func() { calls.Add(1) }) }()

	require.NoError(t, os.WriteFile(other, []byte("x"), filePerm))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('b' + i)}, filePerm))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "shop.hcl"), DefaultDebounce)
	require.Error(t, err)
}
