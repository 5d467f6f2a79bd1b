package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/nodegraph/pkg/persistence"
	"github.com/dukex/nodegraph/pkg/persistence/persistencetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersistence(t *testing.T) (*Persistence, string) {
	t.Helper()

	root := t.TempDir()

	p, err := NewPersistence(t.Context(), persistencetest.Logger(), "file://"+root)
	require.NoError(t, err)

	return p, root
}

func TestFilePersistence_Repository(t *testing.T) {
	p, _ := newTestPersistence(t)

	persistencetest.RunGraphRepositorySuite(t.Context(), t, p)
}

func TestFilePersistence_Layout(t *testing.T) {
	p, root := newTestPersistence(t)

	require.NoError(t, p.Save(t.Context(), persistencetest.SampleRecord("level-1")))

	assert.FileExists(t, filepath.Join(root, "graphs", "level-1.json"))

	matches, err := filepath.Glob(filepath.Join(root, "graphs", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFilePersistence_ListSkipsCorruptFiles(t *testing.T) {
	p, root := newTestPersistence(t)

	require.NoError(t, p.Save(t.Context(), persistencetest.SampleRecord("level-1")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "graphs", "broken.json"), []byte("{"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "graphs", "notes.txt"), []byte("hi"), 0o600))

	records, err := p.List(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "level-1", records[0].ID)
}

func TestFilePersistence_RejectsPathIDs(t *testing.T) {
	p, _ := newTestPersistence(t)

	_, err := p.GetByID(t.Context(), "../secret")
	require.ErrorIs(t, err, persistence.ErrInvalidGraphID)

	require.ErrorIs(t, p.Save(t.Context(), persistencetest.SampleRecord("a/b")), persistence.ErrInvalidGraphID)
	require.ErrorIs(t, p.Delete(t.Context(), ".."), persistence.ErrInvalidGraphID)
}

func TestNewPersistence_RequiresRoot(t *testing.T) {
	_, err := NewPersistence(t.Context(), persistencetest.Logger(), "file://")
	require.Error(t, err)
}
