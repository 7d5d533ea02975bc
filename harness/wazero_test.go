package harness

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/wasitest/artifacts"
	"github.com/pgavlin/wasitest/load"
)

func newWazeroEngine(t *testing.T) *WazeroEngine {
	e := NewWazeroEngine()
	t.Cleanup(func() { e.Close(context.Background()) })
	return e
}

func TestWazeroHelloWorld(t *testing.T) {
	e := newWazeroEngine(t)

	var stdout bytes.Buffer
	res, err := e.Run(context.Background(), &Invocation{
		Program: getProgram(t, artifacts.CLIHelloStdout),
		Kind:    artifacts.Module,
		Binary:  moduleBinary(wasiCommand("hello, world\n", 0, false)),
		Stdout:  &stdout,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.Trapped)
	assert.Equal(t, "hello, world\n", stdout.String())
}

func TestWazeroExitStatus(t *testing.T) {
	e := newWazeroEngine(t)

	res, err := e.Run(context.Background(), &Invocation{
		Program: getProgram(t, artifacts.CLIExitFailure),
		Kind:    artifacts.Module,
		Binary:  moduleBinary(wasiCommand("", 1, false)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.False(t, res.Trapped)

	var exitErr *ExitError
	require.True(t, errors.As(res.Err(), &exitErr))
	assert.Equal(t, 1, exitErr.Code())
}

func TestWazeroTrap(t *testing.T) {
	e := newWazeroEngine(t)

	var stdout bytes.Buffer
	res, err := e.Run(context.Background(), &Invocation{
		Program: getProgram(t, artifacts.CLIExitPanic),
		Kind:    artifacts.Module,
		Binary:  moduleBinary(wasiCommand("panicking\n", 0, true)),
		Stdout:  &stdout,
	})
	require.NoError(t, err)
	assert.True(t, res.Trapped)
	assert.Contains(t, res.Trap, "unreachable")
	assert.Equal(t, "panicking\n", stdout.String())
}

func TestWazeroLoadsFromPath(t *testing.T) {
	e := newWazeroEngine(t)

	path := filepath.Join(t.TempDir(), "cli_hello_stdout.wasm")
	require.NoError(t, os.WriteFile(path, wasiCommand("from disk\n", 0, false), 0600))

	var stdout bytes.Buffer
	res, err := e.Run(context.Background(), &Invocation{
		Program: getProgram(t, artifacts.CLIHelloStdout),
		Kind:    artifacts.Module,
		Path:    path,
		Stdout:  &stdout,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "from disk\n", stdout.String())
}

func TestWazeroUnsupported(t *testing.T) {
	e := newWazeroEngine(t)
	p := getProgram(t, artifacts.Preview2Random)

	_, err := e.Run(context.Background(), &Invocation{
		Program: p,
		Kind:    artifacts.Component,
		Binary:  &load.Binary{Kind: artifacts.Component, Bytes: emptyComponent},
	})
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = e.Run(context.Background(), &Invocation{
		Program: p,
		Kind:    artifacts.Module,
		Binary:  moduleBinary(foreignImport()),
	})
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.Contains(t, err.Error(), "wasi:cli/environment@0.2.0.get-arguments")
}

func TestWazeroLinkErrorIsNotATrap(t *testing.T) {
	e := newWazeroEngine(t)

	result, err := e.Run(context.Background(), &Invocation{
		Program: getProgram(t, artifacts.CLIExitSuccess),
		Kind:    artifacts.Module,
		Binary:  moduleBinary(mistypedImport()),
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.False(t, errors.Is(err, ErrUnsupported))
	assert.Contains(t, err.Error(), "instantiating cli_exit_success")
}

func TestWazeroCompileError(t *testing.T) {
	e := newWazeroEngine(t)

	_, err := e.Run(context.Background(), &Invocation{
		Program: getProgram(t, artifacts.CLIHelloStdout),
		Kind:    artifacts.Module,
		Binary:  moduleBinary([]byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00, 0x01, 0x05}),
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupported))
}
