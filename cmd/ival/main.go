package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/vito/ival/pkg/ival"
)

// Config holds the application configuration
type Config struct {
	Debug        bool
	Strict       bool
	CreateScope  string
	ArgScope     string
	MaxCallDepth int
	ConfigFile   string
	File         string
}

func main() {
	var cfg Config
	var exitCode int

	rootCmd := &cobra.Command{
		Use:   "ival [flags] <tree-file>",
		Short: "Integer expression language evaluator",
		Long: `ival evaluates programs of a small imperative integer language:
literals, variables, scope blocks, arithmetic, assignment, functions,
return and print.

Programs are syntax trees written as YAML or JSON documents. The program's
result becomes the process exit status.`,
		Example: `  # Run a program
  ival program.yaml

  # Fault on reads of unassigned variables
  ival --strict program.yaml

  # Evaluate call arguments in the caller's scope
  ival --arg-scope caller program.yaml

  # Run with debug logging and a tree dump
  ival -d program.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.File = args[0]
			code, err := run(cmd, cfg)
			if err != nil {
				return err
			}
			exitCode = code
			return nil
		},
	}

	bindFlags(rootCmd, &cfg)

	rootCmd.AddCommand(fmtCmd())
	rootCmd.AddCommand(dumpCmd())

	ctx := context.Background()
	ctx = ival.WithStdout(ctx, os.Stdout)
	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func bindFlags(cmd *cobra.Command, cfg *Config) {
	cmd.Flags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging and dump the tree")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "Fault when reading a variable that was never assigned")
	cmd.Flags().StringVar(&cfg.CreateScope, "create-scope", "", `Scope that receives auto-created variables ("innermost" or "outermost")`)
	cmd.Flags().StringVar(&cfg.ArgScope, "arg-scope", "", `Scope call arguments are evaluated in ("callee" or "caller")`)
	cmd.Flags().IntVar(&cfg.MaxCallDepth, "max-call-depth", 0, "Maximum nested function calls before faulting")
	cmd.Flags().StringVar(&cfg.ConfigFile, "config", "", "Path to ival.toml (searched upwards from the program by default)")
}

func run(cmd *cobra.Command, cfg Config) (int, error) {
	setupLogging(cfg.Debug)

	opts, err := resolveOptions(cmd, cfg)
	if err != nil {
		return 0, err
	}

	result, err := ival.RunFile(cmd.Context(), cfg.File, opts, cfg.Debug)
	if err != nil {
		return 0, err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Program finished with exit code %d\n", result)

	// A process status only carries the low byte.
	return int(uint8(result)), nil
}

// resolveOptions layers ival.toml, IVAL_* environment variables and
// explicitly set flags, in increasing precedence.
func resolveOptions(cmd *cobra.Command, cfg Config) (ival.Options, error) {
	var config *ival.Config
	if cfg.ConfigFile != "" {
		loaded, err := ival.LoadConfig(cfg.ConfigFile)
		if err != nil {
			return ival.Options{}, err
		}
		config = loaded
	} else {
		_, found, err := ival.FindConfig(filepath.Dir(cfg.File))
		if err != nil {
			return ival.Options{}, fmt.Errorf("failed to load %s: %w", ival.ConfigFileName, err)
		}
		config = found
	}
	if config == nil {
		config = &ival.Config{}
	}

	if err := config.ApplyEnv(); err != nil {
		return ival.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("strict") {
		config.Strict = cfg.Strict
	}
	if flags.Changed("create-scope") {
		config.CreateScope = cfg.CreateScope
	}
	if flags.Changed("arg-scope") {
		config.ArgScope = cfg.ArgScope
	}
	if flags.Changed("max-call-depth") {
		config.MaxCallDepth = cfg.MaxCallDepth
	}

	opts := config.Options()
	if err := opts.Validate(); err != nil {
		return ival.Options{}, err
	}
	return opts, nil
}
