package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestsEnvironment(t *testing.T) {
	assert.Equal(t, map[string]string{"ERRNO_MODE_UNIX": "1"}, testsEnvironment("linux"))
	assert.Equal(t, map[string]string{"ERRNO_MODE_MACOS": "1"}, testsEnvironment("darwin"))

	windows := testsEnvironment("windows")
	assert.Equal(t, "1", windows["ERRNO_MODE_WINDOWS"])
	assert.Equal(t, "1", windows["NO_DANGLING_FILESYSTEM"])
	assert.Equal(t, "1", windows["NO_FD_ALLOCATE"])
	assert.Equal(t, "1", windows["NO_RENAME_DIR_TO_EMPTY_DIR"])
}

func TestEnviron(t *testing.T) {
	assert.Equal(t, []string{"A=1", "B=", "C=x=y"}, Environ(map[string]string{"C": "x=y", "A": "1", "B": ""}))
	assert.Empty(t, Environ(nil))
}

func TestRegularFileIsNotTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "not-a-tty"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, isTerminal(f.Fd()))
}
