package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesParentsAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "a", "b", "index.html")

	require.NoError(t, WriteFile(dst, []byte("first")))
	require.NoError(t, WriteFile(dst, []byte("second")))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))
}

func TestWriteFile_ExistingDirectoryIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blog"), 0o755))

	require.NoError(t, WriteFile(filepath.Join(dir, "blog", "index.html"), []byte("x")))
}

func TestCopyTree_SkipsFilteredEntries(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteFile(filepath.Join(src, "css", "site.css"), []byte("body{}")))
	require.NoError(t, WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref")))
	require.NoError(t, WriteFile(filepath.Join(src, ".DS_Store"), []byte{0}))

	hidden := func(name string) bool { return strings.HasPrefix(name, ".") }
	require.NoError(t, CopyTree(src, dst, hidden))

	got, err := os.ReadFile(filepath.Join(dst, "css", "site.css"))
	require.NoError(t, err)
	require.Equal(t, "body{}", string(got))
	require.NoFileExists(t, filepath.Join(dst, ".DS_Store"))
	require.NoDirExists(t, filepath.Join(dst, ".git"))
}

func TestCopyTree_MissingSourceIsNoop(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, CopyTree(filepath.Join(t.TempDir(), "missing"), dst, nil))
	require.NoDirExists(t, dst)
}
