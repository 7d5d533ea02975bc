package run

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pgavlin/wasitest/harness"
)

// emptyCommand is a core module whose _start returns immediately.
var emptyCommand = []byte{
	0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type section: () -> ()
	0x03, 0x02, 0x01, 0x00, // function section
	0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00, // export section
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b, // code section
}

func artifactsDir(t *testing.T, names ...string) string {
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".wasm"), emptyCommand, 0644))
	}
	return dir
}

func testOptions(dir string) Options {
	return Options{
		Config:    filepath.Join(dir, "wasitest.yaml"),
		Artifacts: dir,
		Engine:    "wazero",
		Kind:      "module",
	}
}

func TestSuitePasses(t *testing.T) {
	dir := artifactsDir(t, "cli_exit_success")

	options := testOptions(dir)
	options.All = true
	options.CSV = filepath.Join(t.TempDir(), "report.csv")

	var stdout bytes.Buffer
	err := Suite(context.Background(), &stdout, []string{"cli_exit_success"}, options, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "pass  CLI_EXIT_SUCCESS\npass 1, fail 0, skip 0, error 0\n", stdout.String())

	csv, err := os.ReadFile(options.CSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], ",wazero,CLI_EXIT_SUCCESS,cli_exit_success,cli,module,pass,0,")
}

func TestSuiteFailureExits(t *testing.T) {
	dir := artifactsDir(t, "cli_exit_failure", "cli_exit_success")

	var stdout bytes.Buffer
	err := Suite(context.Background(), &stdout, nil, func() Options {
		o := testOptions(dir)
		o.Suites = []string{"cli"}
		return o
	}(), zap.NewNop())

	exit, ok := err.(*harness.ExitError)
	require.True(t, ok, "%v", err)
	assert.Equal(t, 1, exit.Code())
	assert.True(t, strings.HasPrefix(stdout.String(), "fail  CLI_EXIT_FAILURE: expected exit status 1, got 0\n"), stdout.String())
	assert.True(t, strings.HasSuffix(stdout.String(), "pass 1, fail 1, skip 17, error 0\n"), stdout.String())
}

func TestSuiteErrors(t *testing.T) {
	dir := artifactsDir(t)

	err := Suite(context.Background(), &bytes.Buffer{}, nil, Options{Suites: []string{"preview3"}}, zap.NewNop())
	assert.Error(t, err)

	options := testOptions(dir)
	options.Engine = "jit"
	err = Suite(context.Background(), &bytes.Buffer{}, []string{"cli_args"}, options, zap.NewNop())
	assert.EqualError(t, err, `engine: unknown kind "jit"`)

	options = testOptions(dir)
	options.Kind = "archive"
	err = Suite(context.Background(), &bytes.Buffer{}, []string{"cli_args"}, options, zap.NewNop())
	assert.Error(t, err)
}

func TestOptionsAreValidatedAfterOverrides(t *testing.T) {
	dir := artifactsDir(t)

	options := testOptions(dir)
	options.Engine = "command"
	_, err := options.config()
	assert.EqualError(t, err, "engine: command engines require a command")

	options.Runtime = "/opt/runtime"
	config, err := options.config()
	require.NoError(t, err)
	engine, err := config.NewEngine()
	require.NoError(t, err)
	command, ok := engine.(*harness.CommandEngine)
	require.True(t, ok)
	assert.Equal(t, "--env", command.EnvFlag)
	assert.Equal(t, "--dir", command.DirFlag)
}

func TestInherit(t *testing.T) {
	dir := artifactsDir(t, "cli_exit_success")

	var stdout, stderr bytes.Buffer
	err := Inherit(context.Background(), strings.NewReader(""), &stdout, &stderr, "CLI_EXIT_SUCCESS", []string{"a"}, testOptions(dir), zap.NewNop())
	assert.NoError(t, err)

	err = Inherit(context.Background(), nil, &stdout, &stderr, "cli_args", nil, testOptions(dir), zap.NewNop())
	assert.Error(t, err)

	err = Inherit(context.Background(), nil, &stdout, &stderr, "cli_bogus", nil, testOptions(dir), zap.NewNop())
	assert.Error(t, err)
}

func TestPreopensFlag(t *testing.T) {
	var p preopens
	require.NoError(t, p.Set("/guest=/host,ro"))
	require.NoError(t, p.Set("/tmp"))
	assert.Equal(t, []harness.Preopen{
		{Host: "/host", Guest: "/guest", ReadOnly: true},
		{Host: "/tmp", Guest: "/tmp"},
	}, p.values)
	assert.Equal(t, "/guest=/host,ro;/tmp", p.String())
	assert.Equal(t, "mount", p.Type())

	assert.EqualError(t, p.Set("/tmp,exec"), "unknown preopen flag 'exec'")
}

func TestCommandFlags(t *testing.T) {
	dir := artifactsDir(t, "cli_exit_success")

	cmd := Command(zap.NewNop)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "none.yaml"), "--artifacts", dir, "--kind", "module", "cli_exit_success"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "pass 1, fail 0, skip 0, error 0\n", stdout.String())

	cmd = Command(zap.NewNop)
	cmd.SetArgs([]string{"--mount", "/tmp", "cli_exit_success"})
	cmd.SilenceUsage, cmd.SilenceErrors = true, true
	assert.EqualError(t, cmd.Execute(), "--mount requires --inherit")

	cmd = Command(zap.NewNop)
	cmd.SetArgs([]string{"--inherit", "cli_exit_success", "cli_args"})
	cmd.SilenceUsage, cmd.SilenceErrors = true, true
	assert.EqualError(t, cmd.Execute(), "--inherit expects exactly one program, got 2")
}
