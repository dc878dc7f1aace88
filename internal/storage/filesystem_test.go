package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelStorage(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLabelStorage(base)
	require.NoError(t, err)

	p, err := ls.SaveLabel("Texas", 42, 3, []byte("JANE DOE"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Texas", "42", "3.txt"), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "JANE DOE", string(data))

	require.NoError(t, ls.DeleteLabel("Texas", 42, 3))
	require.NoError(t, ls.DeleteLabel("Texas", 42, 3))
	assert.NoFileExists(t, p)
}

func TestLabelStorage_JurisdictionCannotEscape(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLabelStorage(base)
	require.NoError(t, err)

	for _, j := range []string{"..", ".", "", "../../etc", "Texas/../..", "/etc"} {
		_, err := ls.SaveLabel(j, 1, 0, []byte("x"))
		assert.ErrorIs(t, err, ErrBadJurisdiction, j)
		assert.ErrorIs(t, ls.DeleteLabel(j, 1, 0), ErrBadJurisdiction, j)
	}

	entries, err := os.ReadDir(filepath.Dir(base))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "1", e.Name(), "nothing written above the base path")
	}
}
