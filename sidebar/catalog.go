package sidebar

import (
	"sort"

	"github.com/pgavlin/wasitest/artifacts"
)

// Names of the catalog's helper functions as they appear in the index.
const (
	StdioIsTerminalFn  = "stdio_is_terminal"
	TestsEnvironmentFn = "wasi_tests_environment"
)

// ForEachMacro returns the index name of the iteration helper for a suite.
func ForEachMacro(s artifacts.Suite) string {
	return "foreach_" + s.String()
}

// FromCatalog builds the index of the test-program catalog: one constant per program binary, the helper
// functions, and one iteration helper per suite.
func FromCatalog() *Index {
	var constants []string
	for _, p := range artifacts.Programs() {
		for _, kind := range p.Kinds() {
			constants = append(constants, p.Identifier(kind))
		}
	}
	sort.Strings(constants)

	var macros []string
	for _, s := range artifacts.Suites() {
		macros = append(macros, ForEachMacro(s))
	}
	sort.Strings(macros)

	return &Index{items: map[Category][]string{
		Constant: constants,
		Fn:       {StdioIsTerminalFn, TestsEnvironmentFn},
		Macro:    macros,
	}}
}
