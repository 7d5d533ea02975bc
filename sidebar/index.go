// Package sidebar reads, writes, and checks the sidebar index that documentation viewers load to populate their
// navigation panel. The index maps a fixed set of item categories to ordered lists of identifiers, and is stored
// as a single script assignment:
//
//	window.SIDEBAR_ITEMS = {"constant":["A","B"],"fn":["f"],"macro":["m"]};
package sidebar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrMalformed is returned when an index file cannot be parsed.
var ErrMalformed = errors.New("malformed sidebar index")

// A Category is an item category of the index.
type Category string

const (
	Constant Category = "constant"
	Fn       Category = "fn"
	Macro    Category = "macro"
)

// Categories returns the closed set of known categories in canonical order.
func Categories() []Category {
	return []Category{Constant, Fn, Macro}
}

// Known reports whether c is one of the closed set of categories.
func (c Category) Known() bool {
	switch c {
	case Constant, Fn, Macro:
		return true
	default:
		return false
	}
}

// An Index maps categories to ordered lists of identifiers. Indexes are built once and are read-only afterwards;
// accessors return copies.
type Index struct {
	items map[Category][]string
}

// New creates an index from a map of categories to identifiers. The lists are copied.
func New(items map[Category][]string) *Index {
	x := &Index{items: make(map[Category][]string, len(items))}
	for c, ids := range items {
		x.items[c] = append([]string(nil), ids...)
	}
	return x
}

// Categories returns the categories present in the index: known categories in canonical order, followed by any
// unknown categories in lexical order.
func (x *Index) Categories() []Category {
	var known, unknown []Category
	for _, c := range Categories() {
		if _, ok := x.items[c]; ok {
			known = append(known, c)
		}
	}
	for c := range x.items {
		if !c.Known() {
			unknown = append(unknown, c)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return append(known, unknown...)
}

// Items returns the identifiers listed under a category.
func (x *Index) Items(c Category) []string {
	return append([]string(nil), x.items[c]...)
}

// Len returns the total number of identifiers in the index.
func (x *Index) Len() int {
	n := 0
	for _, ids := range x.items {
		n += len(ids)
	}
	return n
}

// Lookup reports whether name is listed under the given category.
func (x *Index) Lookup(c Category, name string) bool {
	ids := x.items[c]
	if i := sort.SearchStrings(ids, name); i < len(ids) && ids[i] == name {
		return true
	}
	// Lists are sorted by convention only.
	for _, id := range ids {
		if id == name {
			return true
		}
	}
	return false
}

const prefix = "window.SIDEBAR_ITEMS"

// WriteTo writes the index in its script form.
func (x *Index) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(prefix)
	buf.WriteString(" = {")
	for i, c := range x.Categories() {
		if i > 0 {
			buf.WriteByte(',')
		}
		ids := x.items[c]
		if ids == nil {
			ids = []string{}
		}
		if err := writeJSON(&buf, string(c)); err != nil {
			return 0, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, ids); err != nil {
			return 0, err
		}
	}
	buf.WriteString("};")

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// writeJSON writes v without HTML escaping and without the encoder's trailing newline.
func writeJSON(buf *bytes.Buffer, v interface{}) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

func (x *Index) String() string {
	var buf bytes.Buffer
	if _, err := x.WriteTo(&buf); err != nil {
		return fmt.Sprintf("<invalid sidebar index: %v>", err)
	}
	return buf.String()
}
