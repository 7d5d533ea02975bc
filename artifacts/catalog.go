// Package artifacts describes the catalog of WASI test programs: their names, the suite each belongs to,
// and the kinds of binary (core module or component) each is built as.
package artifacts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownProgram is returned when a name does not refer to a cataloged program.
	ErrUnknownProgram = errors.New("unknown test program")

	// ErrNoComponent is returned when a component is requested for a program that is only built as a module.
	ErrNoComponent = errors.New("program has no component build")
)

// A Name is the file stem of a test program, e.g. "preview1_fd_readdir".
type Name string

// A Suite groups related test programs. The suite of a program is the prefix of its name.
type Suite int

const (
	SuiteAPI Suite = iota
	SuiteCLI
	SuiteHTTP
	SuiteNN
	SuitePreview1
	SuitePreview2
)

var suiteNames = [...]string{
	SuiteAPI:      "api",
	SuiteCLI:      "cli",
	SuiteHTTP:     "http",
	SuiteNN:       "nn",
	SuitePreview1: "preview1",
	SuitePreview2: "preview2",
}

func (s Suite) String() string {
	if s < 0 || int(s) >= len(suiteNames) {
		return fmt.Sprintf("Suite(%d)", int(s))
	}
	return suiteNames[s]
}

// Suites returns every suite in canonical order.
func Suites() []Suite {
	suites := make([]Suite, len(suiteNames))
	for i := range suiteNames {
		suites[i] = Suite(i)
	}
	return suites
}

func ParseSuite(s string) (Suite, error) {
	for i, name := range suiteNames {
		if strings.EqualFold(s, name) {
			return Suite(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suite '%v'", s)
}

// A Kind identifies the binary format a program is built as.
type Kind int

const (
	// Module is a core WebAssembly module.
	Module Kind = iota
	// Component is a WebAssembly component, produced by adapting the core module.
	Component
)

func (k Kind) String() string {
	switch k {
	case Module:
		return "module"
	case Component:
		return "component"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Ext returns the file extension used for binaries of this kind.
func (k Kind) Ext() string {
	if k == Component {
		return ".component.wasm"
	}
	return ".wasm"
}

// Kinds returns both kinds, modules first.
func Kinds() []Kind {
	return []Kind{Module, Component}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "module", "core":
		return Module, nil
	case "component":
		return Component, nil
	default:
		return 0, fmt.Errorf("unknown kind '%v'", s)
	}
}

const componentSuffix = "_COMPONENT"

// A Program is a single cataloged test program.
type Program struct {
	Name  Name
	Suite Suite
	// Test is the program's name without its suite prefix.
	Test string

	index int
}

// Index returns the program's position in Programs().
func (p Program) Index() int {
	return p.index
}

// HasComponent reports whether the program is also built as a component.
func (p Program) HasComponent() bool {
	return p.Suite != SuiteNN
}

// Identifier returns the upper-case constant name of the program's binary of the given kind, e.g.
// PREVIEW1_FD_READDIR or PREVIEW1_FD_READDIR_COMPONENT.
func (p Program) Identifier(kind Kind) string {
	id := strings.ToUpper(string(p.Name))
	if kind == Component {
		id += componentSuffix
	}
	return id
}

// FileName returns the file name of the program's binary of the given kind.
func (p Program) FileName(kind Kind) string {
	return string(p.Name) + kind.Ext()
}

// Kinds returns the kinds the program is built as.
func (p Program) Kinds() []Kind {
	if p.HasComponent() {
		return Kinds()
	}
	return []Kind{Module}
}

func (p Program) String() string {
	return string(p.Name)
}

var (
	catalog []Program
	byName  map[Name]int
)

func init() {
	sorted := make([]Name, len(names))
	copy(sorted, names)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	catalog, byName = make([]Program, len(sorted)), make(map[Name]int, len(sorted))
	for i, name := range sorted {
		prefix, test, ok := strings.Cut(string(name), "_")
		if !ok {
			panic(fmt.Sprintf("malformed program name %q", name))
		}
		suite, err := ParseSuite(prefix)
		if err != nil {
			panic(fmt.Sprintf("program %q: %v", name, err))
		}
		if _, dup := byName[name]; dup {
			panic(fmt.Sprintf("duplicate program name %q", name))
		}
		catalog[i], byName[name] = Program{Name: name, Suite: suite, Test: test, index: i}, i
	}
}

// Programs returns every cataloged program, sorted by name.
func Programs() []Program {
	programs := make([]Program, len(catalog))
	copy(programs, catalog)
	return programs
}

// Get returns the program with the given name.
func Get(name Name) (Program, bool) {
	i, ok := byName[name]
	if !ok {
		return Program{}, false
	}
	return catalog[i], true
}

// Lookup resolves a program from its snake-case name or from one of its identifiers. An identifier with the
// _COMPONENT suffix, in either case, selects the component kind; anything else selects the module kind.
func Lookup(s string) (Program, Kind, error) {
	kind := Module
	if strings.HasSuffix(strings.ToUpper(s), componentSuffix) {
		kind, s = Component, s[:len(s)-len(componentSuffix)]
	}

	p, ok := Get(Name(strings.ToLower(s)))
	if !ok {
		return Program{}, 0, fmt.Errorf("%w: %v", ErrUnknownProgram, s)
	}
	if kind == Component && !p.HasComponent() {
		return Program{}, 0, fmt.Errorf("%w: %v", ErrNoComponent, p.Name)
	}
	return p, kind, nil
}

// ForEach calls fn for each program in the given suite in name order. Iteration stops at the first error,
// which is returned.
func ForEach(suite Suite, fn func(p Program) error) error {
	for _, p := range catalog {
		if p.Suite != suite {
			continue
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func ForEachAPI(fn func(p Program) error) error {
	return ForEach(SuiteAPI, fn)
}

func ForEachCLI(fn func(p Program) error) error {
	return ForEach(SuiteCLI, fn)
}

func ForEachHTTP(fn func(p Program) error) error {
	return ForEach(SuiteHTTP, fn)
}

func ForEachNN(fn func(p Program) error) error {
	return ForEach(SuiteNN, fn)
}

func ForEachPreview1(fn func(p Program) error) error {
	return ForEach(SuitePreview1, fn)
}

func ForEachPreview2(fn func(p Program) error) error {
	return ForEach(SuitePreview2, fn)
}
