package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestDirFetch_Plain(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p1", "Quicksand Live.txt"), []byte("2024-01-01|A|B|gs|sb\n"))

	data, err := NewDir(root).Fetch(context.Background(), "p1", "Quicksand Live")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01|A|B|gs|sb\n", string(data))
}

func TestDirFetch_Zstd(t *testing.T) {
	root := t.TempDir()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte("2024-01-01|A|B|gs|sb\n"), nil)
	require.NoError(t, enc.Close())
	writeFile(t, filepath.Join(root, "p2", "Ranked.txt.zst"), compressed)

	data, err := NewDir(root).Fetch(context.Background(), "p2", "Ranked")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01|A|B|gs|sb\n", string(data))
}

func TestDirFetch_Unavailable(t *testing.T) {
	d := NewDir(t.TempDir())
	for _, pair := range [][2]string{{"p1", "Missing"}, {"..", "x"}, {"p1", "../escape"}} {
		_, err := d.Fetch(context.Background(), pair[0], pair[1])
		assert.True(t, errors.Is(err, ErrUnavailable), "%v: %v", pair, err)
	}
}

func TestDirFetch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDir(t.TempDir()).Fetch(ctx, "p1", "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalogs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, PatchesFile), []byte(`["p2","p1","p2"]`))
	writeFile(t, filepath.Join(root, TournamentsFile), []byte(`["Ranked","Live"]`))
	writeFile(t, filepath.Join(root, PlayerNamesFile), []byte("Alice\n\n  Bob  \n"))

	d := NewDir(root)
	assert.Equal(t, []string{"p1", "p2"}, d.Patches())
	assert.Equal(t, []string{"Live", "Ranked"}, d.Tournaments())
	assert.Equal(t, []string{"Alice", "Bob"}, d.PlayerNames())
}

func TestCatalogs_Fallbacks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, TournamentsFile), []byte(`not json`))

	d := NewDir(root)
	d.FallbackPatches = []string{"p1", "p2"}
	d.FallbackTournaments = []string{"Quicksand Ranked", "Quicksand Live"}

	assert.Equal(t, []string{"p1", "p2"}, d.Patches())
	assert.Equal(t, []string{"Quicksand Live", "Quicksand Ranked"}, d.Tournaments())
	assert.Nil(t, d.PlayerNames())
}

func TestWatch_CoalescesEvents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "p1"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- NewDir(root).Watch(ctx, 50*time.Millisecond, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		writeFile(t, filepath.Join(root, "p1", "Live.txt"), []byte("x\n"))
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	require.NoError(t, <-done)
}
