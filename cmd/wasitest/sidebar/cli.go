package sidebar

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pgavlin/wasitest/harness"
	"github.com/pgavlin/wasitest/sidebar"
)

// Check parses the index in path, validates it, and compares it with the index generated from the catalog.
// Problems and differences are written to w; the returned bool reports whether there were any.
func Check(w io.Writer, path string) (bool, error) {
	x, err := sidebar.ParseFile(path)
	if err != nil {
		return false, err
	}

	clean := true
	var verr *sidebar.ValidationError
	switch err := x.Validate(); {
	case errors.As(err, &verr):
		for _, p := range verr.Problems {
			fmt.Fprintf(w, "%v: %v\n", path, p)
		}
		clean = false
	case err != nil:
		return false, err
	}

	// Differences are reported relative to the file: "+" for identifiers the catalog adds, "-" for ones it drops.
	for _, d := range sidebar.Diff(x, sidebar.FromCatalog()) {
		for _, id := range d.Added {
			fmt.Fprintf(w, "+ %v %v\n", d.Category, id)
		}
		for _, id := range d.Removed {
			fmt.Fprintf(w, "- %v %v\n", d.Category, id)
		}
		clean = false
	}
	return !clean, nil
}

// Emit writes the index generated from the catalog to path, or to w if path is empty.
func Emit(w io.Writer, path string) error {
	x := sidebar.FromCatalog()
	if path == "" {
		_, err := x.WriteTo(w)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := x.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func Command() *cobra.Command {
	command := &cobra.Command{
		Use:   "sidebar",
		Short: "Generate and check sidebar indexes",
		Long:  "Generate the documentation sidebar index of the test program catalog, or check an existing one against it.",
	}

	var output string
	emit := &cobra.Command{
		Use:   "emit",
		Short: "Write the sidebar index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return errors.New("expected no arguments")
			}
			return Emit(cmd.OutOrStdout(), output)
		},
	}
	emit.Flags().StringVarP(&output, "output", "o", "", "write the index to this file instead of stdout")

	check := &cobra.Command{
		Use:   "check [path to sidebar-items.js]",
		Short: "Check a sidebar index against the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one argument")
			}
			dirty, err := Check(cmd.OutOrStdout(), args[0])
			if err != nil {
				return err
			}
			if dirty {
				return harness.NewExitError(1)
			}
			return nil
		},
	}

	command.AddCommand(emit, check)
	return command
}
