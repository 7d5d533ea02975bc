package sidebar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Parse reads an index in its script form. Unknown categories are kept; use Validate to reject them.
func Parse(r io.Reader) (*Index, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	body, err := unwrap(src)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	items := map[Category][]string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(dec, "%v", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, malformed(dec, "expected a category name, got %v", tok)
		}
		c := Category(key)
		if _, dup := items[c]; dup {
			return nil, malformed(dec, "duplicate category %q", key)
		}

		ids, err := parseList(dec, c)
		if err != nil {
			return nil, err
		}
		items[c] = ids
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed(dec, "trailing data after index")
	}

	return &Index{items: items}, nil
}

func ParseFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return x, nil
}

// unwrap strips the assignment around the index object.
func unwrap(src []byte) ([]byte, error) {
	src = bytes.TrimSpace(src)
	if !bytes.HasPrefix(src, []byte(prefix)) {
		return nil, fmt.Errorf("%w: missing %v assignment", ErrMalformed, prefix)
	}
	src = bytes.TrimSpace(src[len(prefix):])
	if len(src) == 0 || src[0] != '=' {
		return nil, fmt.Errorf("%w: expected '=' after %v", ErrMalformed, prefix)
	}
	src = bytes.TrimSpace(src[1:])
	src = bytes.TrimSpace(bytes.TrimSuffix(src, []byte(";")))
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty index", ErrMalformed)
	}
	return src, nil
}

func parseList(dec *json.Decoder, c Category) ([]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(dec, "%v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, malformed(dec, "category %q: expected a list, got %v", c, tok)
	}

	ids := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(dec, "%v", err)
		}
		id, ok := tok.(string)
		if !ok {
			return nil, malformed(dec, "category %q: expected an identifier, got %v", c, tok)
		}
		ids = append(ids, id)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return ids, nil
}

func expectDelim(dec *json.Decoder, delim json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return malformed(dec, "%v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != delim {
		return malformed(dec, "expected '%v', got %v", delim, tok)
	}
	return nil
}

func malformed(dec *json.Decoder, msg string, args ...interface{}) error {
	return fmt.Errorf("%w: offset %v: %s", ErrMalformed, dec.InputOffset(), fmt.Sprintf(msg, args...))
}
