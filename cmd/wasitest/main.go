package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pgavlin/wasitest/cmd/wasitest/env"
	"github.com/pgavlin/wasitest/cmd/wasitest/list"
	"github.com/pgavlin/wasitest/cmd/wasitest/run"
	"github.com/pgavlin/wasitest/cmd/wasitest/sidebar"
	"github.com/pgavlin/wasitest/harness"
)

var version = "<unknown>"

func newLogger(verbose bool, format string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch format {
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
	default:
		return nil, fmt.Errorf("unknown log format '%v'", format)
	}
	return config.Build()
}

func configureCLI() *cobra.Command {
	var cpuProfile string
	var memProfile string
	var verbose bool
	var logFormat string

	logger := zap.NewNop()

	rootCommand := &cobra.Command{
		Use:           "wasitest",
		Short:         "WASI test program harness",
		Long:          "wasitest - catalog, index, and run the WASI conformance test programs",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose, logFormat)
			if err != nil {
				return err
			}
			logger = l

			if cpuProfile != "" {
				f, err := os.Create(cpuProfile)
				if err != nil {
					return err
				}
				pprof.StartCPUProfile(f)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuProfile != "" {
				pprof.StopCPUProfile()
			}

			if memProfile != "" {
				f, err := os.Create(memProfile)
				if err != nil {
					return err
				}
				defer f.Close()
				runtime.GC()
				pprof.WriteHeapProfile(f)
			}

			logger.Sync()
			return nil
		},
	}

	getLogger := func() *zap.Logger { return logger }

	rootCommand.AddCommand(env.Command())
	rootCommand.AddCommand(list.Command())
	rootCommand.AddCommand(run.Command(getLogger))
	rootCommand.AddCommand(sidebar.Command())

	rootCommand.PersistentFlags().StringVar(&cpuProfile, "cpu", "", "emit Go CPU profile data to this path")
	rootCommand.PersistentFlags().StringVar(&memProfile, "mem", "", "emit Go memory profile data to this path")
	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCommand.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")

	rootCommand.PersistentFlags().MarkHidden("cpu")
	rootCommand.PersistentFlags().MarkHidden("mem")

	return rootCommand
}

func main() {
	rootCommand := configureCLI()

	if err := rootCommand.Execute(); err != nil {
		var exit *harness.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code())
		}

		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
