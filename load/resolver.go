package load

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pgavlin/wasitest/artifacts"
)

var ErrNotFound = errors.New("artifact not found")

// A Resolver locates the binary of a program.
type Resolver interface {
	Resolve(p artifacts.Program, kind artifacts.Kind) (*Binary, error)
}

// FSResolver resolves programs from a directory of artifacts named <program>.wasm and <program>.component.wasm.
type FSResolver struct {
	fs  fs.FS
	dir string
}

// NewFSResolver creates a resolver over fsys. If dir is the host path of fsys, it is used to report host paths
// for resolved artifacts.
func NewFSResolver(fsys fs.FS, dir string) *FSResolver {
	return &FSResolver{fs: fsys, dir: dir}
}

// Path returns the host path of the program's artifact, or the path within the resolver's filesystem if the
// resolver has no host directory.
func (r *FSResolver) Path(p artifacts.Program, kind artifacts.Kind) string {
	if r.dir == "" {
		return p.FileName(kind)
	}
	return filepath.Join(r.dir, p.FileName(kind))
}

func (r *FSResolver) Exists(p artifacts.Program, kind artifacts.Kind) bool {
	_, err := fs.Stat(r.fs, p.FileName(kind))
	return err == nil
}

func (r *FSResolver) Resolve(p artifacts.Program, kind artifacts.Kind) (*Binary, error) {
	if kind == artifacts.Component && !p.HasComponent() {
		return nil, fmt.Errorf("%v: %w", p.Name, artifacts.ErrNoComponent)
	}

	name := p.FileName(kind)
	f, err := r.fs.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%v: %w", name, ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()

	b, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	if b.Kind != kind {
		return nil, fmt.Errorf("%v: expected a %v, found a %v", name, kind, b.Kind)
	}
	return b, nil
}

// A Manifest records which artifacts are present in a directory.
type Manifest struct {
	Modules    *artifacts.Selection
	Components *artifacts.Selection
}

// Has reports whether the manifest contains the program's artifact of the given kind.
func (m *Manifest) Has(p artifacts.Program, kind artifacts.Kind) bool {
	if kind == artifacts.Component {
		return m.Components.Contains(p)
	}
	return m.Modules.Contains(p)
}

// Missing returns the cataloged programs that have no artifact of the given kind.
func (m *Manifest) Missing(kind artifacts.Kind) []artifacts.Program {
	present := m.Modules
	if kind == artifacts.Component {
		present = m.Components
	}
	return artifacts.All().Difference(present).Filter(func(p artifacts.Program) bool {
		return kind == artifacts.Module || p.HasComponent()
	}).Programs()
}

// ReadManifest scans fsys for the artifacts of every cataloged program.
func ReadManifest(fsys fs.FS) (*Manifest, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	present := map[string]bool{}
	for _, e := range entries {
		if !e.IsDir() {
			present[e.Name()] = true
		}
	}

	m := &Manifest{Modules: &artifacts.Selection{}, Components: &artifacts.Selection{}}
	for _, p := range artifacts.Programs() {
		if present[p.FileName(artifacts.Module)] {
			m.Modules.Add(p)
		}
		if p.HasComponent() && present[p.FileName(artifacts.Component)] {
			m.Components.Add(p)
		}
	}
	return m, nil
}
