package harness

import (
	"encoding/binary"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/pgavlin/wasitest/artifacts"
	"github.com/pgavlin/wasitest/load"
)

// The helpers below assemble tiny WASI command modules so that tests do not depend on a wasm toolchain.

func uleb(v uint32) []byte {
	var b []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

func vec(items ...[]byte) []byte {
	b := uleb(uint32(len(items)))
	for _, item := range items {
		b = append(b, item...)
	}
	return b
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func section(id byte, contents []byte) []byte {
	return append(append([]byte{id}, uleb(uint32(len(contents)))...), contents...)
}

func i32Const(v byte) []byte {
	// Values below 64 encode as a single signed LEB128 byte.
	return []byte{0x41, v & 0x3f}
}

const (
	opCall        = 0x10
	opDrop        = 0x1a
	opUnreachable = 0x00
	opEnd         = 0x0b

	i32 = 0x7f
)

// wasiCommand assembles a module that writes message to stdout and then exits with the given status. If trap is
// set, the module traps instead of exiting.
func wasiCommand(message string, status byte, trap bool) []byte {
	const iovec, data = 8, 16

	types := vec(
		[]byte{0x60, 4, i32, i32, i32, i32, 1, i32}, // fd_write
		[]byte{0x60, 1, i32, 0},                     // proc_exit
		[]byte{0x60, 0, 0},                          // _start
	)
	imports := vec(
		append(append(name("wasi_snapshot_preview1"), name("fd_write")...), 0x00, 0),
		append(append(name("wasi_snapshot_preview1"), name("proc_exit")...), 0x00, 1),
	)
	functions := vec([]byte{2})
	memories := vec([]byte{0x00, 1})
	exports := vec(
		append(name("memory"), 0x02, 0),
		append(name("_start"), 0x00, 2),
	)

	var body []byte
	body = append(body, 0) // no locals
	body = append(body, i32Const(1)...)
	body = append(body, i32Const(iovec)...)
	body = append(body, i32Const(1)...)
	body = append(body, i32Const(0)...)
	body = append(body, opCall, 0, opDrop)
	if trap {
		body = append(body, opUnreachable)
	} else {
		body = append(body, i32Const(status)...)
		body = append(body, opCall, 1)
	}
	body = append(body, opEnd)
	code := vec(append(uleb(uint32(len(body))), body...))

	iov := make([]byte, 8)
	binary.LittleEndian.PutUint32(iov[0:], data)
	binary.LittleEndian.PutUint32(iov[4:], uint32(len(message)))
	segments := vec(
		append(append([]byte{0x00}, append(i32Const(iovec), opEnd)...), append(uleb(uint32(len(iov))), iov...)...),
		append(append([]byte{0x00}, append(i32Const(data), opEnd)...), name(message)...),
	)

	m := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}
	m = append(m, section(1, types)...)
	m = append(m, section(2, imports)...)
	m = append(m, section(3, functions)...)
	m = append(m, section(5, memories)...)
	m = append(m, section(7, exports)...)
	m = append(m, section(10, code)...)
	m = append(m, section(11, segments)...)
	return m
}

// foreignImport assembles a module that imports a function from a module other than wasi_snapshot_preview1.
func foreignImport() []byte {
	m := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}
	m = append(m, section(1, vec([]byte{0x60, 0, 0}))...)
	m = append(m, section(2, vec(append(append(name("wasi:cli/environment@0.2.0"), name("get-arguments")...), 0x00, 0)))...)
	return m
}

// mistypedImport assembles a module whose proc_exit import has the wrong signature, so it compiles but fails to
// link.
func mistypedImport() []byte {
	m := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}
	m = append(m, section(1, vec([]byte{0x60, 0, 0}))...)
	m = append(m, section(2, vec(append(append(name("wasi_snapshot_preview1"), name("proc_exit")...), 0x00, 0)))...)
	return m
}

var emptyComponent = []byte{0x00, 'a', 's', 'm', 0x0d, 0x00, 0x01, 0x00}

func getProgram(t *testing.T, name artifacts.Name) artifacts.Program {
	p, ok := artifacts.Get(name)
	require.True(t, ok)
	return p
}

func moduleBinary(bytes []byte) *load.Binary {
	return &load.Binary{Kind: artifacts.Module, Bytes: bytes}
}

// mapArtifacts serves artifacts from memory.
func mapArtifacts(files map[string][]byte) Artifacts {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: data}
	}
	return load.NewFSResolver(fsys, "")
}
