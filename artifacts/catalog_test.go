package artifacts

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsSortedAndUnique(t *testing.T) {
	programs := Programs()
	require.Len(t, programs, 103)

	assert.True(t, sort.SliceIsSorted(programs, func(i, j int) bool { return programs[i].Name < programs[j].Name }))

	seen := map[string]bool{}
	for i, p := range programs {
		assert.Equal(t, i, p.Index())
		for _, kind := range p.Kinds() {
			id := p.Identifier(kind)
			assert.False(t, seen[id], "duplicate identifier %v", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 204)
}

func TestProgramIdentifiers(t *testing.T) {
	p, ok := Get(Preview1FDReaddir)
	require.True(t, ok)

	assert.Equal(t, SuitePreview1, p.Suite)
	assert.Equal(t, "fd_readdir", p.Test)
	assert.Equal(t, "PREVIEW1_FD_READDIR", p.Identifier(Module))
	assert.Equal(t, "PREVIEW1_FD_READDIR_COMPONENT", p.Identifier(Component))
	assert.Equal(t, "preview1_fd_readdir.wasm", p.FileName(Module))
	assert.Equal(t, "preview1_fd_readdir.component.wasm", p.FileName(Component))
}

func TestNNHasNoComponent(t *testing.T) {
	err := ForEachNN(func(p Program) error {
		assert.False(t, p.HasComponent())
		assert.Equal(t, []Kind{Module}, p.Kinds())
		return nil
	})
	require.NoError(t, err)

	_, _, err = Lookup("NN_IMAGE_CLASSIFICATION_COMPONENT")
	assert.True(t, errors.Is(err, ErrNoComponent))
}

func TestLookup(t *testing.T) {
	cases := []struct {
		in   string
		name Name
		kind Kind
	}{
		{"preview2_tcp_connect", Preview2TCPConnect, Module},
		{"PREVIEW2_TCP_CONNECT", Preview2TCPConnect, Module},
		{"PREVIEW2_TCP_CONNECT_COMPONENT", Preview2TCPConnect, Component},
		{"HTTP_OUTBOUND_REQUEST_UNKNOWN_METHOD_COMPONENT", HTTPOutboundRequestUnknownMethod, Component},
		{"nn_image_classification_named", NNImageClassificationNamed, Module},
		{"preview1_fd_readdir_component", Preview1FDReaddir, Component},
		{"Preview1_Fd_Readdir_Component", Preview1FDReaddir, Component},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			p, kind, err := Lookup(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.name, p.Name)
			assert.Equal(t, c.kind, kind)
		})
	}

	_, _, err := Lookup("preview3_everything")
	assert.True(t, errors.Is(err, ErrUnknownProgram))
}

func TestForEachStopsOnError(t *testing.T) {
	stop := errors.New("stop")

	var visited []Name
	err := ForEachPreview1(func(p Program) error {
		visited = append(visited, p.Name)
		if len(visited) == 3 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, []Name{Preview1BigRandomBuf, Preview1ClockTimeGet, Preview1ClosePreopen}, visited)
}

func TestForEachCoversEverySuite(t *testing.T) {
	counts := map[Suite]int{}
	for _, suite := range Suites() {
		err := ForEach(suite, func(p Program) error {
			assert.Equal(t, suite, p.Suite)
			counts[suite]++
			return nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, map[Suite]int{
		SuiteAPI:      5,
		SuiteCLI:      19,
		SuiteHTTP:     12,
		SuiteNN:       2,
		SuitePreview1: 49,
		SuitePreview2: 16,
	}, counts)
}

func TestParseSuiteAndKind(t *testing.T) {
	for _, suite := range Suites() {
		parsed, err := ParseSuite(suite.String())
		require.NoError(t, err)
		assert.Equal(t, suite, parsed)
	}
	_, err := ParseSuite("preview3")
	assert.Error(t, err)

	kind, err := ParseKind("component")
	require.NoError(t, err)
	assert.Equal(t, Component, kind)
	_, err = ParseKind("library")
	assert.Error(t, err)
}
