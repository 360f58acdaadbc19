package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.gymclient/session.db")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".gymclient", "session.db"), got)

	got, err = ExpandHome("/var/lib/gym.db")
	require.NoError(t, err)
	require.Equal(t, "/var/lib/gym.db", got)

	got, err = ExpandHome("~other/file")
	require.NoError(t, err)
	require.Equal(t, "~other/file", got)
}

func TestEnsureParentDir_CreatesNestedDirs(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "a", "b", "session.db")

	got, err := EnsureParentDir(target)
	require.NoError(t, err)
	require.Equal(t, target, got)

	fi, err := os.Stat(filepath.Join(tmp, "a", "b"))
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm())
	}

	_, err = os.Stat(target)
	require.True(t, os.IsNotExist(err), "the file itself must not be created")
}

func TestEnsureParentDir_IdempotentWhenExists(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "x.db")

	_, err := EnsureParentDir(target)
	require.NoError(t, err)
	_, err = EnsureParentDir(target)
	require.NoError(t, err)
}
