package sidebar

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// A ProblemKind classifies a structural problem in an index.
type ProblemKind int

const (
	UnknownCategory ProblemKind = iota
	DuplicateIdentifier
	MalformedIdentifier
	OutOfOrder
)

func (k ProblemKind) String() string {
	switch k {
	case UnknownCategory:
		return "unknown category"
	case DuplicateIdentifier:
		return "duplicate identifier"
	case MalformedIdentifier:
		return "malformed identifier"
	case OutOfOrder:
		return "out of order"
	default:
		return fmt.Sprintf("ProblemKind(%d)", int(k))
	}
}

type Problem struct {
	Kind       ProblemKind
	Category   Category
	Identifier string
}

func (p Problem) String() string {
	if p.Kind == UnknownCategory {
		return fmt.Sprintf("%v %q", p.Kind, p.Category)
	}
	return fmt.Sprintf("%v: %v %q", p.Category, p.Kind, p.Identifier)
}

// A ValidationError lists every problem found in an index.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return "invalid sidebar index: " + strings.Join(msgs, "; ")
}

var identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that every category is known and that each category's identifiers are well-formed, unique,
// and sorted. All problems are reported in a single *ValidationError.
func (x *Index) Validate() error {
	var problems []Problem
	for _, c := range x.Categories() {
		if !c.Known() {
			problems = append(problems, Problem{Kind: UnknownCategory, Category: c})
			continue
		}

		ids := x.items[c]
		seen := make(map[string]bool, len(ids))
		for i, id := range ids {
			switch {
			case !identifierRE.MatchString(id):
				problems = append(problems, Problem{Kind: MalformedIdentifier, Category: c, Identifier: id})
			case seen[id]:
				problems = append(problems, Problem{Kind: DuplicateIdentifier, Category: c, Identifier: id})
			case i > 0 && id < ids[i-1]:
				problems = append(problems, Problem{Kind: OutOfOrder, Category: c, Identifier: id})
			}
			seen[id] = true
		}
	}

	if len(problems) != 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// A Delta lists the identifiers of a category that differ between two indexes.
type Delta struct {
	Category Category
	Added    []string
	Removed  []string
}

// Diff returns the identifiers added to and removed from each category going from a to b. Categories without
// differences are omitted.
func Diff(a, b *Index) []Delta {
	categories := map[Category]bool{}
	for _, c := range a.Categories() {
		categories[c] = true
	}
	for _, c := range b.Categories() {
		categories[c] = true
	}
	ordered := New(nil)
	for c := range categories {
		ordered.items[c] = nil
	}

	var deltas []Delta
	for _, c := range ordered.Categories() {
		before, after := set(a.items[c]), set(b.items[c])

		d := Delta{Category: c}
		for id := range after {
			if !before[id] {
				d.Added = append(d.Added, id)
			}
		}
		for id := range before {
			if !after[id] {
				d.Removed = append(d.Removed, id)
			}
		}
		if len(d.Added) == 0 && len(d.Removed) == 0 {
			continue
		}
		sort.Strings(d.Added)
		sort.Strings(d.Removed)
		deltas = append(deltas, d)
	}
	return deltas
}

func set(ids []string) map[string]bool {
	s := make(map[string]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}
