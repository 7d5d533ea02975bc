package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pgavlin/wasitest/artifacts"
	"github.com/pgavlin/wasitest/harness"
)

// [guest=]host(,ro|,rw)
type preopens struct {
	values  []harness.Preopen
	strings []string
}

func (p *preopens) String() string {
	return strings.Join(p.strings, ";")
}

func (p *preopens) Set(s string) error {
	preopen, err := harness.ParsePreopen(s)
	if err != nil {
		return err
	}
	p.values, p.strings = append(p.values, preopen), append(p.strings, s)
	return nil
}

func (p *preopens) Type() string {
	return "mount"
}

// Options are the run command's flags. Zero values leave the configuration file's settings alone.
type Options struct {
	Config    string
	Artifacts string
	Engine    string
	Runtime   string
	Suites    []string
	Kind      string
	Parallel  int
	Timeout   time.Duration
	Network   bool
	CSV       string
	All       bool

	Inherit bool
	Mounts  []harness.Preopen
}

func (o *Options) config() (*harness.Config, error) {
	config, err := harness.LoadConfig(o.Config)
	if err != nil {
		return nil, err
	}
	if o.Artifacts != "" {
		config.Artifacts = o.Artifacts
	}
	if o.Engine != "" {
		config.Engine.Kind = o.Engine
	}
	if o.Runtime != "" {
		config.Engine.Command = []string{o.Runtime}
	}
	if o.Kind != "" {
		if _, err := artifacts.ParseKind(o.Kind); err != nil {
			return nil, err
		}
		config.Kinds = []string{o.Kind}
	}
	if o.Parallel > 0 {
		config.Parallelism = o.Parallel
	}
	if o.Timeout > 0 {
		config.Timeout = o.Timeout
	}
	config.Network = config.Network || o.Network
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func newEngine(config *harness.Config) (harness.Engine, func(), error) {
	engine, err := config.NewEngine()
	if err != nil {
		return nil, nil, err
	}
	closer, ok := engine.(interface{ Close(ctx context.Context) error })
	if !ok {
		return engine, func() {}, nil
	}
	return engine, func() { closer.Close(context.Background()) }, nil
}

// Suite runs the selected programs and writes a report to stdout. A run with failures returns an
// *harness.ExitError.
func Suite(ctx context.Context, stdout io.Writer, names []string, options Options, logger *zap.Logger) error {
	var suites []artifacts.Suite
	for _, s := range options.Suites {
		suite, err := artifacts.ParseSuite(s)
		if err != nil {
			return err
		}
		suites = append(suites, suite)
	}
	selection, err := artifacts.Select(suites, names)
	if err != nil {
		return err
	}

	config, err := options.config()
	if err != nil {
		return err
	}
	engine, closeEngine, err := newEngine(config)
	if err != nil {
		return err
	}
	defer closeEngine()

	suiteOptions, err := config.Options(engine, logger)
	if err != nil {
		return err
	}

	report, err := harness.NewSuite(suiteOptions).Run(ctx, selection)
	if err != nil {
		return err
	}
	if err := report.WriteText(stdout, options.All); err != nil {
		return err
	}

	if options.CSV != "" {
		f, err := os.Create(options.CSV)
		if err != nil {
			return err
		}
		if err := report.WriteCSV(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Debug("wrote CSV report", zap.String("path", options.CSV))
	}

	if report.Failed() {
		return harness.NewExitError(1)
	}
	return nil
}

// Inherit runs a single program with the given stdio and returns its exit status as an *harness.ExitError. If
// args is empty the program's expected arguments are used.
func Inherit(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, name string, args []string, options Options, logger *zap.Logger) error {
	p, kind, err := artifacts.Lookup(name)
	if err != nil {
		return err
	}
	if options.Kind != "" {
		if kind, err = artifacts.ParseKind(options.Kind); err != nil {
			return err
		}
	}

	config, err := options.config()
	if err != nil {
		return err
	}
	engine, closeEngine, err := newEngine(config)
	if err != nil {
		return err
	}
	defer closeEngine()

	suiteOptions, err := config.Options(engine, logger)
	if err != nil {
		return err
	}
	e := harness.NewSuite(suiteOptions).Expectation(p)
	if len(args) != 0 {
		e.Args = args
	}

	caps := harness.Capabilities{Terminal: artifacts.StdioIsTerminal(), Network: config.Network}
	httpAddr := ""
	if e.Needs(harness.RequireHTTP) {
		server, err := harness.StartHTTPServer(logger.Named("http"))
		if err != nil {
			return err
		}
		defer server.Close(context.Background())
		caps.HTTP, httpAddr = true, server.Addr()
	}
	if r, unmet := e.Unmet(caps); unmet {
		logger.Warn("running program without a requirement", zap.String("program", string(p.Name)), zap.String("requirement", string(r)))
	}

	bin, err := suiteOptions.Artifacts.Resolve(p, kind)
	if err != nil {
		return err
	}
	setup, err := harness.Prepare(p, kind, suiteOptions.Artifacts.Path(p, kind), bin, &e, httpAddr)
	if err != nil {
		return err
	}
	defer setup.Close()

	inv := setup.Invocation
	inv.Stdin, inv.Stdout, inv.Stderr = stdin, stdout, stderr
	inv.Preopens = append(inv.Preopens, options.Mounts...)

	logger.Debug("running program",
		zap.String("program", p.Identifier(kind)),
		zap.String("engine", engine.Name()),
		zap.Strings("args", inv.Args))

	result, err := engine.Run(ctx, inv)
	if err != nil {
		return err
	}
	return result.Err()
}

func Command(logger func() *zap.Logger) *cobra.Command {
	var options Options
	var mounts preopens

	command := &cobra.Command{
		Use:   "run [program...] [-- args...]",
		Short: "Run test programs",
		Long: "Run test programs against an engine and report which pass. With --inherit, run a single program " +
			"with the terminal's stdio and exit with its status.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			options.Mounts = mounts.values

			if !options.Inherit {
				if len(mounts.values) != 0 {
					return errors.New("--mount requires --inherit")
				}
				if cmd.ArgsLenAtDash() != -1 {
					return errors.New("program arguments require --inherit")
				}
				return Suite(ctx, cmd.OutOrStdout(), args, options, logger())
			}

			programs, programArgs := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash != -1 {
				programs, programArgs = args[:dash], args[dash:]
			}
			if len(programs) != 1 {
				return fmt.Errorf("--inherit expects exactly one program, got %d", len(programs))
			}
			return Inherit(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), programs[0], programArgs, options, logger())
		},
	}

	flags := command.Flags()
	flags.StringVarP(&options.Config, "config", "c", "wasitest.yaml", "the harness configuration file")
	flags.StringVarP(&options.Artifacts, "artifacts", "a", "", "the directory holding the test program binaries")
	flags.StringVarP(&options.Engine, "engine", "e", "", "the engine to run programs with: wazero, wasmtime, or command")
	flags.StringVar(&options.Runtime, "runtime", "", "the path to the wasmtime executable")
	flags.StringSliceVarP(&options.Suites, "suite", "s", nil, "run every program from these suites")
	flags.StringVarP(&options.Kind, "kind", "k", "", "only run binaries of this kind (module or component)")
	flags.IntVarP(&options.Parallel, "parallel", "p", 0, "the number of programs to run at once")
	flags.DurationVar(&options.Timeout, "timeout", 0, "the time limit for each program")
	flags.BoolVar(&options.Network, "network", false, "allow programs that need network access")
	flags.StringVar(&options.CSV, "csv", "", "write a CSV report to this file")
	flags.BoolVar(&options.All, "all", false, "report every program rather than only failures")
	flags.BoolVarP(&options.Inherit, "inherit", "i", false, "run a single program with the terminal's stdio")
	flags.VarP(&mounts, "mount", "m", "with --inherit, directories to mount in the form (guest=)host(,ro)")

	return command
}
