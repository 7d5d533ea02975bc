package load

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pgavlin/wasitest/artifacts"
)

// Magic is the preamble shared by WebAssembly modules and components.
var Magic = []byte{0x00, 'a', 's', 'm'}

var (
	moduleVersion    = []byte{0x01, 0x00, 0x00, 0x00}
	componentVersion = []byte{0x0d, 0x00, 0x01, 0x00}
)

var ErrNotWasm = errors.New("not a WebAssembly binary")

// A Binary is the contents of a test program artifact.
type Binary struct {
	Kind  artifacts.Kind
	Bytes []byte
}

// Detect classifies a binary by its eight-byte header.
func Detect(header []byte) (artifacts.Kind, error) {
	if len(header) < 8 || !bytes.Equal(header[:4], Magic) {
		return 0, ErrNotWasm
	}

	switch version := header[4:8]; {
	case bytes.Equal(version, moduleVersion):
		return artifacts.Module, nil
	case bytes.Equal(version, componentVersion):
		return artifacts.Component, nil
	default:
		return 0, fmt.Errorf("%w: unsupported version % x", ErrNotWasm, version)
	}
}

func Load(r io.Reader) (*Binary, error) {
	br := bufio.NewReader(r)

	header, err := br.Peek(8)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotWasm
		}
		return nil, err
	}
	kind, err := Detect(header)
	if err != nil {
		return nil, err
	}

	buf, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	return &Binary{Kind: kind, Bytes: buf}, nil
}

func LoadFile(path string) (*Binary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return b, nil
}
