package projects

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/good-yellow-bee/modites/internal/storage"
)

const seedYAML = `
projects:
  - name: atlas
    description: Mapping service
    members: [U1, U2]
  - name: borealis
    members:
      - U2
`

func openStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "projects.db"))
	require.NoError(t, store.Open())
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate())
	return store
}

func TestLoadSeeds(t *testing.T) {
	seeds, err := LoadSeeds(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "atlas", seeds[0].Name)
	assert.Equal(t, []string{"U1", "U2"}, seeds[0].Members)
	assert.Empty(t, seeds[1].Description)
}

func TestLoadSeeds_Empty(t *testing.T) {
	seeds, err := LoadSeeds(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, seeds)
}

func TestLoadSeeds_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing name", yaml: "projects:\n  - description: x\n"},
		{name: "duplicate", yaml: "projects:\n  - name: a\n  - name: a\n"},
		{name: "blank member", yaml: "projects:\n  - name: a\n    members: ['']\n"},
		{name: "malformed", yaml: "projects: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeeds(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestImporter_CreatesThenUpdates(t *testing.T) {
	store := openStore(t)
	imp := NewImporter(store.Projects(), nil)
	ctx := context.Background()

	seeds, err := LoadSeeds(strings.NewReader(seedYAML))
	require.NoError(t, err)

	res, err := imp.Import(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 2}, res)

	seeds[0].Members = []string{"U3"}
	seeds[0].Description = "Renamed"
	res, err = imp.Import(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Updated: 2}, res)

	atlas, err := store.Projects().GetByName(ctx, "atlas")
	require.NoError(t, err)
	require.NotNil(t, atlas)
	assert.Equal(t, "Renamed", atlas.Description)
	assert.Equal(t, []string{"U3"}, atlas.MemberIDs())
}

func TestImporter_ImportFile(t *testing.T) {
	store := openStore(t)
	imp := NewImporter(store.Projects(), nil)
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	res, err := imp.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)

	_, err = imp.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	changed := make(chan struct{}, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, func(context.Context) {
		changed <- struct{}{}
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte(seedYAML+"\n"), 0o600))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
