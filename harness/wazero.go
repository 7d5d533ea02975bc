package harness

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/pgavlin/wasitest/artifacts"
	"github.com/pgavlin/wasitest/load"
)

// WazeroEngine runs core modules that import only wasi_snapshot_preview1 using an embedded wazero runtime. Each
// invocation gets a fresh runtime; compiled code is shared through a compilation cache.
type WazeroEngine struct {
	cache wazero.CompilationCache
}

func NewWazeroEngine() *WazeroEngine {
	return &WazeroEngine{cache: wazero.NewCompilationCache()}
}

func (e *WazeroEngine) Name() string {
	return "wazero"
}

// Close releases the engine's compilation cache.
func (e *WazeroEngine) Close(ctx context.Context) error {
	return e.cache.Close(ctx)
}

func (e *WazeroEngine) Run(ctx context.Context, inv *Invocation) (*Result, error) {
	if inv.Kind != artifacts.Module {
		return nil, fmt.Errorf("%w: wazero runs core modules only", ErrUnsupported)
	}

	bin := inv.Binary
	if bin == nil {
		b, err := load.LoadFile(inv.Path)
		if err != nil {
			return nil, err
		}
		bin = b
	}
	if bin.Kind != artifacts.Module {
		return nil, fmt.Errorf("%w: %v is a %v", ErrUnsupported, inv.Program, bin.Kind)
	}

	config := wazero.NewRuntimeConfig().WithCompilationCache(e.cache).WithCloseOnContextDone(true)
	r := wazero.NewRuntimeWithConfig(ctx, config)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, bin.Bytes)
	if err != nil {
		return nil, fmt.Errorf("compiling %v: %w", inv.Program, err)
	}
	defer compiled.Close(ctx)

	for _, def := range compiled.ImportedFunctions() {
		if module, name, _ := def.Import(); module != wasi_snapshot_preview1.ModuleName {
			return nil, fmt.Errorf("%w: import %v.%v", ErrUnsupported, module, name)
		}
	}
	if memories := compiled.ImportedMemories(); len(memories) != 0 {
		module, name, _ := memories[0].Import()
		return nil, fmt.Errorf("%w: memory import %v.%v", ErrUnsupported, module, name)
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return nil, fmt.Errorf("instantiating %v: %w", wasi_snapshot_preview1.ModuleName, err)
	}

	// _start runs separately; failures before it are harness errors, not traps.
	mod, err := r.InstantiateModule(ctx, compiled, e.moduleConfig(inv).WithStartFunctions())
	if err != nil {
		return nil, fmt.Errorf("instantiating %v: %w", inv.Program, err)
	}
	defer mod.Close(ctx)

	start := time.Now()
	if fn := mod.ExportedFunction("_start"); fn != nil {
		_, err = fn.Call(ctx)
	}
	result := &Result{Duration: time.Since(start)}

	var exitErr *sys.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		switch exitErr.ExitCode() {
		case sys.ExitCodeDeadlineExceeded, sys.ExitCodeContextCanceled:
			return nil, fmt.Errorf("running %v: %w", inv.Program, ctx.Err())
		}
		result.ExitCode = int(exitErr.ExitCode())
	default:
		result.Trapped, result.Trap = true, err.Error()
	}
	return result, nil
}

func (e *WazeroEngine) moduleConfig(inv *Invocation) wazero.ModuleConfig {
	config := wazero.NewModuleConfig().
		WithName(string(inv.Program.Name)).
		WithArgs(inv.Argv()...).
		WithSysWalltime().
		WithSysNanotime().
		WithSysNanosleep().
		WithRandSource(rand.Reader)

	if inv.Stdin != nil {
		config = config.WithStdin(inv.Stdin)
	}
	if inv.Stdout != nil {
		config = config.WithStdout(inv.Stdout)
	}
	if inv.Stderr != nil {
		config = config.WithStderr(inv.Stderr)
	}

	keys := make([]string, 0, len(inv.Env))
	for k := range inv.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		config = config.WithEnv(k, inv.Env[k])
	}

	fsConfig := wazero.NewFSConfig()
	for _, p := range inv.Preopens {
		if p.ReadOnly {
			fsConfig = fsConfig.WithReadOnlyDirMount(p.Host, p.Guest)
		} else {
			fsConfig = fsConfig.WithDirMount(p.Host, p.Guest)
		}
	}
	return config.WithFSConfig(fsConfig)
}
