package cleanup

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{
		"app.ilk",
		"app.pdb",
		"app.exe",
		"notes.pdb.txt",
		"CMakeLists.txt",
		"upper.PDB",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "symbols.pdb"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "symbols.pdb", "inner.pdb"), nil, 0644))
	return dir
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestArtifacts_Run(t *testing.T) {
	dir := setupDir(t)
	a := Artifacts{GOOS: runtime.GOOS, Dir: dir, Patterns: MSVCPatterns}
	require.NoError(t, a.Run())

	assert.Equal(t, []string{
		"CMakeLists.txt",
		"app.exe",
		"notes.pdb.txt",
		"symbols.pdb",
		"upper.PDB",
	}, listDir(t, dir))
	assert.Equal(t, []string{"inner.pdb"}, listDir(t, filepath.Join(dir, "symbols.pdb")))
}

func TestArtifacts_RunOtherOS(t *testing.T) {
	dir := setupDir(t)
	before := listDir(t, dir)

	goos := "windows"
	if runtime.GOOS == "windows" {
		goos = "linux"
	}
	a := Artifacts{GOOS: goos, Dir: dir, Patterns: MSVCPatterns}
	require.NoError(t, a.Run())
	assert.Equal(t, before, listDir(t, dir))
}

func TestArtifacts_Matches(t *testing.T) {
	dir := setupDir(t)
	files, err := Artifacts{Dir: dir, Patterns: MSVCPatterns}.Matches()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "app.ilk"),
		filepath.Join(dir, "app.pdb"),
	}, files)

	_, err = Artifacts{Dir: filepath.Join(dir, "missing"), Patterns: MSVCPatterns}.Matches()
	assert.Error(t, err)
}

func TestMSVC(t *testing.T) {
	a := MSVC()
	assert.Equal(t, "windows", a.GOOS)
	assert.Equal(t, ".", a.Dir)
	assert.Equal(t, MSVCPatterns, a.Patterns)
}
