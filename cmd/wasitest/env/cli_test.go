package env

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/wasitest/artifacts"
)

func TestEnv(t *testing.T) {
	cmd := Command()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.NotEmpty(t, lines)

	expected := artifacts.Environ(artifacts.TestsEnvironment())
	assert.Equal(t, expected, lines[:len(lines)-1])
	assert.Equal(t, fmt.Sprintf("# stdio is a terminal: %v", artifacts.StdioIsTerminal()), lines[len(lines)-1])

	if runtime.GOOS == "linux" {
		assert.Contains(t, lines, "ERRNO_MODE_UNIX=1")
	}
}

func TestEnvRejectsArguments(t *testing.T) {
	cmd := Command()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})
	cmd.SilenceUsage, cmd.SilenceErrors = true, true
	assert.EqualError(t, cmd.Execute(), "expected no arguments")
}
