package artifacts

import (
	"github.com/willf/bitset"
)

// A Selection is a set of cataloged programs. The zero value is an empty selection.
type Selection struct {
	bits bitset.BitSet
}

// NewSelection returns a selection containing the given programs.
func NewSelection(programs ...Program) *Selection {
	s := &Selection{}
	for _, p := range programs {
		s.Add(p)
	}
	return s
}

// All returns a selection containing every cataloged program.
func All() *Selection {
	s := &Selection{}
	for _, p := range catalog {
		s.bits.Set(uint(p.index))
	}
	return s
}

// Select builds a selection from a set of suites and a set of program names or identifiers. A program is
// selected if it belongs to one of the suites or is named explicitly. If both sets are empty, every program
// is selected.
func Select(suites []Suite, names []string) (*Selection, error) {
	if len(suites) == 0 && len(names) == 0 {
		return All(), nil
	}

	s := &Selection{}
	for _, suite := range suites {
		ForEach(suite, func(p Program) error {
			s.Add(p)
			return nil
		})
	}
	for _, name := range names {
		p, _, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		s.Add(p)
	}
	return s, nil
}

func (s *Selection) Add(p Program) {
	s.bits.Set(uint(p.index))
}

func (s *Selection) Remove(p Program) {
	s.bits.Clear(uint(p.index))
}

func (s *Selection) Contains(p Program) bool {
	return s.bits.Test(uint(p.index))
}

// Len returns the number of programs in the selection.
func (s *Selection) Len() int {
	return int(s.bits.Count())
}

// Programs returns the selected programs in name order.
func (s *Selection) Programs() []Program {
	programs := make([]Program, 0, s.Len())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		if int(i) >= len(catalog) {
			break
		}
		programs = append(programs, catalog[i])
	}
	return programs
}

// Union returns a new selection containing the programs in either selection.
func (s *Selection) Union(other *Selection) *Selection {
	return &Selection{bits: *s.bits.Union(&other.bits)}
}

// Difference returns a new selection containing the programs in s that are not in other.
func (s *Selection) Difference(other *Selection) *Selection {
	return &Selection{bits: *s.bits.Difference(&other.bits)}
}

// Filter returns a new selection containing the programs in s for which keep returns true.
func (s *Selection) Filter(keep func(p Program) bool) *Selection {
	result := &Selection{}
	for _, p := range s.Programs() {
		if keep(p) {
			result.Add(p)
		}
	}
	return result
}
