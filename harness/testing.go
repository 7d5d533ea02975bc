package harness

import (
	"context"
	"testing"

	"github.com/pgavlin/wasitest/artifacts"
)

// RunTest runs one program binary as part of a Go test. Skipped programs skip the test; failures and harness
// errors fail it.
func RunTest(t *testing.T, engine Engine, resolver Artifacts, name artifacts.Name, kind artifacts.Kind) {
	t.Helper()

	p, ok := artifacts.Get(name)
	if !ok {
		t.Fatalf("%v: %v", artifacts.ErrUnknownProgram, name)
	}

	suite := NewSuite(Options{Engine: engine, Artifacts: resolver})

	entry := suite.RunProgram(context.Background(), p, kind)
	switch entry.Outcome {
	case Skip:
		t.Skipf("%v: %v", p.Identifier(kind), entry.Reason)
	case Fail, Error:
		if entry.Stderr != "" {
			t.Logf("stderr:\n%s", entry.Stderr)
		}
		t.Errorf("%v: %v: %v", p.Identifier(kind), entry.Outcome, entry.Reason)
	}
}
