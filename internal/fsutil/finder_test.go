package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	write("b.hcl")
	write("a.hcl")
	write("nested/c.hcl")
	write("notes.txt")
	write(".hidden/skip.hcl")

	got, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "c.hcl"),
	}, got)

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".hcl")
	assert.Error(t, err)
	assert.Panics(t, func() { _, _ = FindFilesByExtension(root, "") })
}
