// Package harness runs cataloged WASI test programs against a runtime and checks their behavior.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/pgavlin/wasitest/artifacts"
	"github.com/pgavlin/wasitest/load"
)

// ErrUnsupported is returned by an engine that cannot run an invocation, e.g. a component on an engine that only
// runs core modules.
var ErrUnsupported = errors.New("unsupported by engine")

// An Engine runs a single program invocation.
type Engine interface {
	Name() string
	Run(ctx context.Context, inv *Invocation) (*Result, error)
}

// A Preopen maps a host directory into the guest's filesystem.
type Preopen struct {
	Host     string
	Guest    string
	ReadOnly bool
}

func (p Preopen) String() string {
	s := p.Guest + "=" + p.Host
	if p.ReadOnly {
		s += ",ro"
	}
	return s
}

// [guest=]host(,flags)
var preopenRE = regexp.MustCompile(`^(?:([^=]+)=)?([^,]+)((?:,[^,]+)*)$`)

// ParsePreopen parses a preopen of the form [guest=]host(,ro|,rw). If guest is omitted, the host path is used.
func ParsePreopen(s string) (Preopen, error) {
	match := preopenRE.FindStringSubmatch(s)
	if len(match) == 0 {
		return Preopen{}, fmt.Errorf("malformed preopen '%v': preopens must be of the form (guest=)host(,flags)", s)
	}

	guest, host, flags := match[1], match[2], match[3]
	if guest == "" {
		guest = host
	}
	p := Preopen{Host: host, Guest: guest}

	if flags != "" {
		for _, f := range strings.Split(flags[1:], ",") {
			switch f {
			case "ro":
				p.ReadOnly = true
			case "rw":
				p.ReadOnly = false
			default:
				return Preopen{}, fmt.Errorf("unknown preopen flag '%v'", f)
			}
		}
	}
	return p, nil
}

// An Invocation describes one run of a program binary.
type Invocation struct {
	Program artifacts.Program
	Kind    artifacts.Kind

	// Path is the host path of the binary. Binary, if set, holds its contents.
	Path   string
	Binary *load.Binary

	// Args are the program's arguments, not including the program name.
	Args []string
	Env  map[string]string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Preopens []Preopen
}

// Argv returns the program's full argument vector.
func (inv *Invocation) Argv() []string {
	return append([]string{string(inv.Program.Name)}, inv.Args...)
}

// A Result describes how a program terminated.
type Result struct {
	ExitCode int
	Trapped  bool
	Trap     string
	Duration time.Duration
}

// ExitError reports a non-zero guest exit status.
type ExitError struct {
	code int
}

func NewExitError(code int) *ExitError {
	return &ExitError{code: code}
}

func (e *ExitError) Code() int {
	return e.code
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Err converts a result into an error: nil for a zero exit status, an *ExitError for a non-zero status, or a
// trap error.
func (r *Result) Err() error {
	switch {
	case r.Trapped:
		return fmt.Errorf("trap: %v", r.Trap)
	case r.ExitCode != 0:
		return &ExitError{code: r.ExitCode}
	default:
		return nil
	}
}
