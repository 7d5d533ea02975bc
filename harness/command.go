package harness

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"time"
)

// CommandEngine runs programs with an external runtime, e.g. `wasmtime run`. The command line is built as
//
//	Command[0] Command[1:]... Args... [EnvFlag k=v]... [DirFlag host<DirSeparator>guest]... path args...
type CommandEngine struct {
	// Command is the runtime's command line, e.g. ["wasmtime", "run"].
	Command []string
	// Args are passed to the runtime before the program path, e.g. ["-Shttp"].
	Args []string

	EnvFlag      string
	DirFlag      string
	DirSeparator string

	// TrapExitCode is the status the runtime exits with when the guest traps. Zero means traps cannot be told
	// apart from ordinary exits.
	TrapExitCode int
}

// NewWasmtimeEngine returns a command engine for the wasmtime CLI.
func NewWasmtimeEngine(path string) *CommandEngine {
	if path == "" {
		path = "wasmtime"
	}
	return &CommandEngine{
		Command:      []string{path, "run"},
		Args:         []string{"-Shttp", "-Sinherit-network", "-Sallow-ip-name-lookup"},
		EnvFlag:      "--env",
		DirFlag:      "--dir",
		DirSeparator: "::",
		TrapExitCode: 134,
	}
}

func (e *CommandEngine) Name() string {
	if len(e.Command) == 0 {
		return "command"
	}
	return e.Command[0]
}

// CommandLine returns the argument vector used to run an invocation.
func (e *CommandEngine) CommandLine(inv *Invocation) ([]string, error) {
	if len(e.Command) == 0 {
		return nil, errors.New("command engine: no command configured")
	}
	if inv.Path == "" {
		return nil, fmt.Errorf("command engine: %v has no artifact path", inv.Program)
	}

	argv := append([]string(nil), e.Command...)
	argv = append(argv, e.Args...)

	if len(inv.Env) != 0 {
		if e.EnvFlag == "" {
			return nil, fmt.Errorf("%w: command engine has no environment flag", ErrUnsupported)
		}
		keys := make([]string, 0, len(inv.Env))
		for k := range inv.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			argv = append(argv, e.EnvFlag, k+"="+inv.Env[k])
		}
	}

	for _, p := range inv.Preopens {
		if e.DirFlag == "" {
			return nil, fmt.Errorf("%w: command engine has no directory flag", ErrUnsupported)
		}
		if p.ReadOnly {
			return nil, fmt.Errorf("%w: command engine cannot mount read-only directories", ErrUnsupported)
		}
		argv = append(argv, e.DirFlag, p.Host+e.DirSeparator+p.Guest)
	}

	argv = append(argv, inv.Path)
	return append(argv, inv.Args...), nil
}

func (e *CommandEngine) Run(ctx context.Context, inv *Invocation) (*Result, error) {
	argv, err := e.CommandLine(inv)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = inv.Stdin, inv.Stdout, inv.Stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	err = cmd.Run()
	result := &Result{Duration: time.Since(start)}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("running %v: %w", inv.Program, ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		if e.TrapExitCode != 0 && result.ExitCode == e.TrapExitCode {
			result.Trapped, result.Trap = true, exitErr.String()
		}
	default:
		return nil, fmt.Errorf("running %v: %w", e.Name(), err)
	}
	return result, nil
}
