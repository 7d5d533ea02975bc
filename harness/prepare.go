package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pgavlin/wasitest/artifacts"
	"github.com/pgavlin/wasitest/load"
)

// HTTPServerEnv is the environment variable that tells http programs the address of the fixture server.
const HTTPServerEnv = "HTTP_SERVER"

// A Setup is a prepared invocation along with the buffers that capture its output. Close removes the
// invocation's scratch directory.
type Setup struct {
	Invocation *Invocation
	Stdout     bytes.Buffer
	Stderr     bytes.Buffer

	scratch string
}

func (s *Setup) Close() error {
	if s.scratch == "" {
		return nil
	}
	return os.RemoveAll(s.scratch)
}

// Prepare builds the invocation of a program binary from its expectation: it creates the scratch directory and
// its fixtures, captures stdio, and fills in arguments and environment. httpAddr is the fixture server's address,
// or empty if there is none.
func Prepare(p artifacts.Program, kind artifacts.Kind, path string, bin *load.Binary, e *Expectation, httpAddr string) (*Setup, error) {
	env := make(map[string]string, len(e.Env)+1)
	for k, v := range e.Env {
		env[k] = v
	}
	if httpAddr != "" && e.Needs(RequireHTTP) {
		env[HTTPServerEnv] = httpAddr
	}

	s := &Setup{}
	s.Invocation = &Invocation{
		Program: p,
		Kind:    kind,
		Path:    path,
		Binary:  bin,
		Args:    append([]string(nil), e.Args...),
		Env:     env,
		Stdin:   strings.NewReader(e.Stdin),
		Stdout:  &s.Stdout,
		Stderr:  &s.Stderr,
	}

	if e.Mount == "" {
		return s, nil
	}

	scratch, err := os.MkdirTemp("", "wasitest-"+string(p.Name)+"-")
	if err != nil {
		return nil, err
	}
	s.scratch = scratch

	if err := populate(scratch, e); err != nil {
		s.Close()
		return nil, fmt.Errorf("preparing %v: %w", p.Name, err)
	}

	s.Invocation.Preopens = []Preopen{{Host: scratch, Guest: e.Mount}}
	return s, nil
}

func populate(dir string, e *Expectation) error {
	for _, d := range e.Dirs {
		if err := os.MkdirAll(filepath.Join(dir, filepath.FromSlash(d)), 0755); err != nil {
			return err
		}
	}
	for name, contents := range e.Files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			return err
		}
	}
	return nil
}
