package list

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgavlin/wasitest/artifacts"
	"github.com/pgavlin/wasitest/harness"
	"github.com/pgavlin/wasitest/load"
)

// Options are the list command's flags.
type Options struct {
	Suites    []string
	Kind      string
	IDs       bool
	Artifacts string
	Missing   bool
}

// List writes the selected programs to w: one name per line with its suite and kinds, or one identifier per
// binary if IDs is set. If Artifacts names a directory, only binaries present there are listed, or, if Missing
// is set, only binaries absent from it.
func List(w io.Writer, names []string, options Options) error {
	var suites []artifacts.Suite
	for _, s := range options.Suites {
		suite, err := artifacts.ParseSuite(s)
		if err != nil {
			return err
		}
		suites = append(suites, suite)
	}

	kinds := artifacts.Kinds()
	if options.Kind != "" {
		kind, err := artifacts.ParseKind(options.Kind)
		if err != nil {
			return err
		}
		kinds = []artifacts.Kind{kind}
	}

	selection, err := artifacts.Select(suites, names)
	if err != nil {
		return err
	}

	var manifest *load.Manifest
	if options.Artifacts != "" {
		if manifest, err = load.ReadManifest(os.DirFS(options.Artifacts)); err != nil {
			return err
		}
	} else if options.Missing {
		return errors.New("--missing requires --artifacts")
	}

	for _, p := range selection.Programs() {
		var built []string
		for _, kind := range kinds {
			if kind == artifacts.Component && !p.HasComponent() {
				continue
			}
			if manifest != nil {
				if manifest.Has(p, kind) == options.Missing {
					continue
				}
			}
			if options.IDs {
				fmt.Fprintln(w, p.Identifier(kind))
				continue
			}
			built = append(built, kind.String())
		}

		if options.IDs || len(built) == 0 {
			continue
		}
		fmt.Fprintf(w, "%v\t%v\t%v\n", p.Name, p.Suite, strings.Join(built, ","))
	}
	return nil
}

func Command() *cobra.Command {
	var options Options

	command := &cobra.Command{
		Use:   "list [program...]",
		Short: "List test programs",
		Long:  "List the cataloged test programs, optionally filtered by suite and kind.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return List(cmd.OutOrStdout(), args, options)
		},
	}

	command.Flags().StringSliceVarP(&options.Suites, "suite", "s", nil, "only list programs from these suites")
	command.Flags().StringVarP(&options.Kind, "kind", "k", "", "only list binaries of this kind (module or component)")
	command.Flags().BoolVar(&options.IDs, "ids", false, "list one identifier per binary")
	command.Flags().StringVarP(&options.Artifacts, "artifacts", "a", os.Getenv(harness.ArtifactsEnv), "only list binaries present in this directory")
	command.Flags().BoolVar(&options.Missing, "missing", false, "list binaries absent from the artifacts directory instead")

	return command
}
