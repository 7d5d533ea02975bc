package harness

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jszwec/csvutil"

	"github.com/pgavlin/wasitest/artifacts"
)

// An Entry records the outcome of one program binary.
type Entry struct {
	Program  artifacts.Program
	Kind     artifacts.Kind
	Outcome  Outcome
	Reason   string
	ExitCode int
	Duration time.Duration
	// Stderr holds the program's error output when it failed.
	Stderr string
}

// A Report collects the entries of a suite run.
type Report struct {
	RunID    string
	Engine   string
	Started  time.Time
	Finished time.Time
	Entries  []Entry
}

func NewReport(engine string) *Report {
	return &Report{RunID: uuid.NewString(), Engine: engine, Started: time.Now()}
}

// Count returns the number of entries with the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, e := range r.Entries {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

// Failed reports whether any entry failed or errored.
func (r *Report) Failed() bool {
	return r.Count(Fail) != 0 || r.Count(Error) != 0
}

// Programs returns the programs whose binary of the given kind had the given outcome.
func (r *Report) Programs(o Outcome, kind artifacts.Kind) *artifacts.Selection {
	s := &artifacts.Selection{}
	for _, e := range r.Entries {
		if e.Outcome == o && e.Kind == kind {
			s.Add(e.Program)
		}
	}
	return s
}

// Summary returns a one-line count of outcomes.
func (r *Report) Summary() string {
	parts := make([]string, 0, 4)
	for _, o := range []Outcome{Pass, Fail, Skip, Error} {
		parts = append(parts, fmt.Sprintf("%v %d", o, r.Count(o)))
	}
	return strings.Join(parts, ", ")
}

// WriteText writes a human-readable line per failed, errored, or (if verbose) other entry, followed by the summary.
func (r *Report) WriteText(w io.Writer, verbose bool) error {
	for _, e := range r.Entries {
		if !verbose && e.Outcome != Fail && e.Outcome != Error {
			continue
		}
		line := fmt.Sprintf("%-5v %v", e.Outcome, e.Program.Identifier(e.Kind))
		if e.Reason != "" {
			line += ": " + e.Reason
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if e.Stderr != "" {
			for _, l := range strings.Split(strings.TrimRight(e.Stderr, "\n"), "\n") {
				if _, err := fmt.Fprintf(w, "      | %v\n", l); err != nil {
					return err
				}
			}
		}
	}
	_, err := fmt.Fprintln(w, r.Summary())
	return err
}

// WriteCSV writes one row per entry.
func (r *Report) WriteCSV(w io.Writer) error {
	type row struct {
		Run        string `csv:"run"`
		Engine     string `csv:"engine"`
		Identifier string `csv:"identifier"`
		Program    string `csv:"program"`
		Suite      string `csv:"suite"`
		Kind       string `csv:"kind"`
		Outcome    string `csv:"outcome"`
		ExitCode   int    `csv:"exit code"`
		DurationMS int64  `csv:"duration ms"`
		Reason     string `csv:"reason,omitempty"`
	}

	csvWriter := csv.NewWriter(w)
	encoder := csvutil.NewEncoder(csvWriter)
	if len(r.Entries) == 0 {
		if err := encoder.EncodeHeader(row{}); err != nil {
			return err
		}
	}

	for _, e := range r.Entries {
		err := encoder.Encode(row{
			Run:        r.RunID,
			Engine:     r.Engine,
			Identifier: e.Program.Identifier(e.Kind),
			Program:    string(e.Program.Name),
			Suite:      e.Program.Suite.String(),
			Kind:       e.Kind.String(),
			Outcome:    e.Outcome.String(),
			ExitCode:   e.ExitCode,
			DurationMS: e.Duration.Milliseconds(),
			Reason:     e.Reason,
		})
		if err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
