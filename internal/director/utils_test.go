package director

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateScriptPath(t *testing.T) {
	path := GenerateScriptPath("scripts")

	assert.True(t, strings.HasPrefix(path, filepath.Join("scripts", "script_")), path)
	assert.True(t, strings.HasSuffix(path, ".yaml"), path)
}

func TestFindLatestScript(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "script_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "script_2026-02-13_01-00-00.yaml"),
		filepath.Join(dir, "script_2026-02-11_15-30-00.yaml"),
	}

	for i, f := range files {
		require.NoError(t, os.WriteFile(f, []byte("version: \"1.0\""), 0644))
		// Set different modification times
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(f, modTime, modTime))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	latest, err := FindLatestScript(dir)
	require.NoError(t, err)

	// Should be the last file (most recent mod time)
	assert.Equal(t, files[len(files)-1], latest)
}

func TestFindLatestScriptSkipsVanishedFiles(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script_a.yaml")
	require.NoError(t, os.WriteFile(script, []byte("version: \"1.0\""), 0644))
	// a link whose target is gone stats like a file removed after listing
	require.NoError(t, os.Symlink(filepath.Join(dir, "removed.yaml"), filepath.Join(dir, "script_b.yaml")))

	latest, err := FindLatestScript(dir)
	require.NoError(t, err)
	assert.Equal(t, script, latest)

	require.NoError(t, os.Remove(script))
	_, err = FindLatestScript(dir)
	assert.Error(t, err)
}

func TestFindLatestScriptEmpty(t *testing.T) {
	_, err := FindLatestScript(t.TempDir())
	assert.Error(t, err)

	_, err = FindLatestScript(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
