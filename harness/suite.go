package harness

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pgavlin/wasitest/artifacts"
	"github.com/pgavlin/wasitest/load"
)

// Artifacts locates program binaries on the host.
type Artifacts interface {
	load.Resolver
	Path(p artifacts.Program, kind artifacts.Kind) string
}

// Options configure a Suite.
type Options struct {
	Engine    Engine
	Artifacts Artifacts

	// Kinds restricts which binaries of each program are run. Empty means both.
	Kinds []artifacts.Kind

	// Parallelism bounds the number of programs run at once. Zero means GOMAXPROCS.
	Parallelism int
	// Timeout bounds each program run. Zero means no limit.
	Timeout time.Duration

	// Expectations replace the built-in expectations of the named programs.
	Expectations map[artifacts.Name]Expectation
	// Skip maps programs that are never run to the reason why.
	Skip map[artifacts.Name]string

	Capabilities Capabilities
	// NoHTTPServer disables the fixture server; http programs are then skipped unless Capabilities.HTTP is set
	// and HTTPAddr names another server.
	NoHTTPServer bool
	HTTPAddr     string

	Logger *zap.Logger
}

// A Suite runs selections of programs and judges them against their expectations.
type Suite struct {
	options Options
	logger  *zap.Logger
}

func NewSuite(options Options) *Suite {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(options.Kinds) == 0 {
		options.Kinds = artifacts.Kinds()
	}
	if options.Parallelism <= 0 {
		options.Parallelism = runtime.GOMAXPROCS(0)
	}
	return &Suite{options: options, logger: logger}
}

// Expectation returns the expectation used for a program.
func (s *Suite) Expectation(p artifacts.Program) Expectation {
	if e, ok := s.options.Expectations[p.Name]; ok {
		return e
	}
	return DefaultExpectation(p)
}

// Run runs every selected program once per configured kind. The returned report lists entries in program order,
// modules before components.
func (s *Suite) Run(ctx context.Context, selection *artifacts.Selection) (*Report, error) {
	type job struct {
		program artifacts.Program
		kind    artifacts.Kind
	}

	var jobs []job
	needHTTP := false
	for _, p := range selection.Programs() {
		e := s.Expectation(p)
		needHTTP = needHTTP || e.Needs(RequireHTTP)
		for _, kind := range s.options.Kinds {
			if kind == artifacts.Component && !p.HasComponent() {
				continue
			}
			jobs = append(jobs, job{program: p, kind: kind})
		}
	}

	caps, httpAddr := s.options.Capabilities, s.options.HTTPAddr
	if needHTTP && !s.options.NoHTTPServer {
		server, err := StartHTTPServer(s.logger.Named("http"))
		if err != nil {
			return nil, fmt.Errorf("starting HTTP fixture server: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Close(closeCtx); err != nil {
				s.logger.Warn("closing HTTP fixture server", zap.Error(err))
			}
		}()
		caps.HTTP, httpAddr = true, server.Addr()
	}

	report := NewReport(s.options.Engine.Name())
	report.Entries = make([]Entry, len(jobs))

	s.logger.Info("running suite",
		zap.String("run", report.RunID),
		zap.String("engine", s.options.Engine.Name()),
		zap.Int("programs", selection.Len()),
		zap.Int("runs", len(jobs)),
		zap.Int("parallelism", s.options.Parallelism))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options.Parallelism)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			report.Entries[i] = s.run(gctx, j.program, j.kind, caps, httpAddr)
			return gctx.Err()
		})
	}
	err := g.Wait()
	report.Finished = time.Now()
	if err != nil {
		return report, err
	}

	s.logger.Info("suite finished", zap.String("run", report.RunID), zap.String("summary", report.Summary()))
	return report, nil
}

// RunProgram runs a single program binary.
func (s *Suite) RunProgram(ctx context.Context, p artifacts.Program, kind artifacts.Kind) Entry {
	return s.run(ctx, p, kind, s.options.Capabilities, s.options.HTTPAddr)
}

func (s *Suite) run(ctx context.Context, p artifacts.Program, kind artifacts.Kind, caps Capabilities, httpAddr string) Entry {
	entry := s.judge(ctx, p, kind, caps, httpAddr)

	fields := []zap.Field{
		zap.String("program", string(p.Name)),
		zap.Stringer("kind", kind),
		zap.Stringer("outcome", entry.Outcome),
		zap.Duration("duration", entry.Duration),
	}
	if entry.Reason != "" {
		fields = append(fields, zap.String("reason", entry.Reason))
	}
	switch entry.Outcome {
	case Fail, Error:
		s.logger.Warn("program finished", fields...)
	default:
		s.logger.Debug("program finished", fields...)
	}
	return entry
}

func (s *Suite) judge(ctx context.Context, p artifacts.Program, kind artifacts.Kind, caps Capabilities, httpAddr string) Entry {
	entry := Entry{Program: p, Kind: kind}
	skip := func(reason string) Entry {
		entry.Outcome, entry.Reason = Skip, reason
		return entry
	}
	fail := func(outcome Outcome, err error) Entry {
		entry.Outcome, entry.Reason = outcome, err.Error()
		return entry
	}

	if reason, ok := s.options.Skip[p.Name]; ok {
		return skip(reason)
	}
	e := s.Expectation(p)
	if e.Skip != "" {
		return skip(e.Skip)
	}
	if r, unmet := e.Unmet(caps); unmet {
		return skip(fmt.Sprintf("requires %v", r))
	}

	bin, err := s.options.Artifacts.Resolve(p, kind)
	switch {
	case errors.Is(err, load.ErrNotFound):
		return skip("missing artifact")
	case err != nil:
		return fail(Error, err)
	}

	setup, err := Prepare(p, kind, s.options.Artifacts.Path(p, kind), bin, &e, httpAddr)
	if err != nil {
		return fail(Error, err)
	}
	defer setup.Close()

	if s.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.Timeout)
		defer cancel()
	}

	result, err := s.options.Engine.Run(ctx, setup.Invocation)
	switch {
	case errors.Is(err, ErrUnsupported):
		return skip(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fail(Fail, fmt.Errorf("timed out after %v", s.options.Timeout))
	case err != nil:
		return fail(Error, err)
	}

	entry.ExitCode, entry.Duration = result.ExitCode, result.Duration
	entry.Outcome, entry.Reason = Check(&e, result, setup.Stdout.String())
	if entry.Outcome == Fail && setup.Stderr.Len() != 0 {
		entry.Stderr = setup.Stderr.String()
	}
	return entry
}
