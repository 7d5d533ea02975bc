package harness

import (
	"fmt"
	"strings"

	"github.com/pgavlin/wasitest/artifacts"
)

// A Requirement names a capability a program needs from the host beyond what an engine provides by itself.
type Requirement string

const (
	// RequireTerminal programs must run with stdio attached to a terminal.
	RequireTerminal Requirement = "terminal"
	// RequireNoTerminal programs must run with stdio not attached to a terminal.
	RequireNoTerminal Requirement = "no-terminal"
	// RequireHTTP programs make outbound requests to the fixture HTTP server.
	RequireHTTP Requirement = "http"
	// RequireNetwork programs open sockets.
	RequireNetwork Requirement = "network"
	// RequireEmbedder programs must be driven by a custom host rather than run as commands.
	RequireEmbedder Requirement = "embedder"
	// RequireNN programs need a wasi-nn backend and model fixtures.
	RequireNN Requirement = "nn"
)

// Capabilities describes the requirements a run can satisfy.
type Capabilities struct {
	// Terminal is set when the program's stdio is a terminal, which is only possible when it is inherited from
	// the harness rather than captured.
	Terminal bool
	HTTP     bool
	Network  bool
	Embedder bool
	NN       bool
}

// Satisfies reports whether the capabilities meet a requirement.
func (c Capabilities) Satisfies(r Requirement) bool {
	switch r {
	case RequireTerminal:
		return c.Terminal
	case RequireNoTerminal:
		return !c.Terminal
	case RequireHTTP:
		return c.HTTP
	case RequireNetwork:
		return c.Network
	case RequireEmbedder:
		return c.Embedder
	case RequireNN:
		return c.NN
	default:
		return false
	}
}

// An Expectation describes how to set up a program and what it must do to pass.
type Expectation struct {
	Args  []string          `yaml:"args,omitempty"`
	Env   map[string]string `yaml:"env,omitempty"`
	Stdin string            `yaml:"stdin,omitempty"`

	// Files and Dirs are created in the program's scratch directory before it runs. Mount is the guest path the
	// scratch directory is preopened at; if empty, nothing is preopened.
	Files map[string]string `yaml:"files,omitempty"`
	Dirs  []string          `yaml:"dirs,omitempty"`
	Mount string            `yaml:"mount,omitempty"`

	ExitCode       int     `yaml:"exit_code,omitempty"`
	Stdout         *string `yaml:"stdout,omitempty"`
	StdoutContains string  `yaml:"stdout_contains,omitempty"`
	Trap           bool    `yaml:"trap,omitempty"`

	Requires []Requirement `yaml:"requires,omitempty"`

	// Skip, if set, is the reason the program is never run.
	Skip string `yaml:"skip,omitempty"`
}

// Unmet returns the first requirement the capabilities do not satisfy.
func (e *Expectation) Unmet(c Capabilities) (Requirement, bool) {
	for _, r := range e.Requires {
		if !c.Satisfies(r) {
			return r, true
		}
	}
	return "", false
}

// Needs reports whether the expectation lists a requirement.
func (e *Expectation) Needs(r Requirement) bool {
	for _, x := range e.Requires {
		if x == r {
			return true
		}
	}
	return false
}

func str(s string) *string {
	return &s
}

// cliExpectations are the setups of the cli suite's programs.
var cliExpectations = map[artifacts.Name]Expectation{
	artifacts.CLIArgs: {
		Args: []string{"hello", "this", "", "is an argument", "with 🚩 emoji"},
	},
	artifacts.CLIEnv: {
		Env: map[string]string{"frabjous": "day", "callooh": "callay"},
	},
	artifacts.CLIHelloStdout: {
		Stdout: str("hello, world\n"),
	},
	artifacts.CLIExitFailure: {
		ExitCode: 1,
	},
	artifacts.CLIExitPanic: {
		Trap: true,
	},
	artifacts.CLIStdin: {
		Stdin: "So rested he by the Tumtum tree",
	},
	artifacts.CLISpliceStdin: {
		Stdin:          "\"Oh, I wish I'd stayed home.\"",
		StdoutContains: "Oh, I wish I'd stayed home.",
	},
	artifacts.CLIFileRead: {
		Files: map[string]string{"bar.txt": "And stood awhile in thought"},
		Mount: "/",
	},
	artifacts.CLIFileAppend: {
		Files: map[string]string{"bar.txt": "'Twas brillig, and the slithy toves.\n"},
		Mount: "/",
	},
	artifacts.CLIFileDirSync: {
		Files: map[string]string{"bar.txt": "'Twas brillig, and the slithy toves.\n"},
		Mount: "/",
	},
	artifacts.CLIDirectoryList: {
		Files: map[string]string{
			"foo.txt":     "",
			"bar.txt":     "",
			"baz.txt":     "",
			"sub/wow.txt": "",
			"sub/yay.txt": "",
		},
		Dirs:  []string{"sub"},
		Mount: "/",
	},
}

// DefaultExpectation returns the built-in expectation for a program.
func DefaultExpectation(p artifacts.Program) Expectation {
	switch p.Suite {
	case artifacts.SuiteAPI:
		return Expectation{Requires: []Requirement{RequireEmbedder}}
	case artifacts.SuiteNN:
		return Expectation{Requires: []Requirement{RequireNN}}
	case artifacts.SuiteHTTP:
		return Expectation{Requires: []Requirement{RequireHTTP}}
	case artifacts.SuiteCLI:
		e := cliExpectations[p.Name]
		switch p.Name {
		case artifacts.CLINoIPNameLookup, artifacts.CLINoTCP, artifacts.CLINoUDP:
			// These programs check that networking is denied, which only a host with networking can do.
			e.Requires = append(e.Requires, RequireNetwork)
		}
		return e
	}

	// preview1 and preview2 programs take a scratch directory as their only argument.
	e := Expectation{
		Args:  []string{"."},
		Env:   artifacts.TestsEnvironment(),
		Mount: ".",
	}
	switch p.Name {
	case artifacts.Preview1StdioIsatty:
		e.Requires = []Requirement{RequireTerminal}
	case artifacts.Preview1StdioNotIsatty:
		e.Requires = []Requirement{RequireNoTerminal}
	case artifacts.Preview2StreamPollableTraps:
		e.Trap = true
	}
	if p.Suite == artifacts.SuitePreview2 && isNetworkTest(p.Test) {
		e.Requires = append(e.Requires, RequireNetwork)
	}
	return e
}

func isNetworkTest(test string) bool {
	return strings.HasPrefix(test, "tcp_") || strings.HasPrefix(test, "udp_") || test == "ip_name_lookup"
}

// An Outcome is the result of checking a program run against its expectation.
type Outcome int

const (
	Pass Outcome = iota
	Fail
	Skip
	// Error means the harness or engine failed before the program could be judged.
	Error
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Skip:
		return "skip"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Check compares a result and the program's captured stdout against an expectation.
func Check(e *Expectation, r *Result, stdout string) (Outcome, string) {
	switch {
	case e.Trap && !r.Trapped:
		return Fail, fmt.Sprintf("expected a trap, exited with status %d", r.ExitCode)
	case e.Trap:
		return Pass, ""
	case r.Trapped:
		return Fail, "trap: " + firstLine(r.Trap)
	case r.ExitCode != e.ExitCode:
		return Fail, fmt.Sprintf("expected exit status %d, got %d", e.ExitCode, r.ExitCode)
	case e.Stdout != nil && stdout != *e.Stdout:
		return Fail, fmt.Sprintf("expected stdout %q, got %q", *e.Stdout, stdout)
	case e.StdoutContains != "" && !strings.Contains(stdout, e.StdoutContains):
		return Fail, fmt.Sprintf("expected stdout to contain %q, got %q", e.StdoutContains, stdout)
	default:
		return Pass, ""
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
