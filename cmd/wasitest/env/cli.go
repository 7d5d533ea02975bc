package env

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgavlin/wasitest/artifacts"
)

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the test environment",
		Long:  "Print the environment variables handed to preview1 and preview2 programs and whether stdio is a terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return errors.New("expected no arguments")
			}

			w := cmd.OutOrStdout()
			for _, kvp := range artifacts.Environ(artifacts.TestsEnvironment()) {
				fmt.Fprintln(w, kvp)
			}
			fmt.Fprintf(w, "# stdio is a terminal: %v\n", artifacts.StdioIsTerminal())
			return nil
		},
	}
}
