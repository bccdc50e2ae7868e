package main

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"github.com/vito/ival/pkg/ival"
)

func fmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <tree-file...>",
		Short: "Render tree documents as source text",
		Long: `Render tree documents as indented source text.

Each document is printed to stdout; multiple documents are separated by a
blank line.`,
		Example: `  # Show a program as source
  ival fmt program.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, path := range args {
				root, err := ival.DecodeFile(path)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, ival.Format(root))
			}
			return nil
		},
	}
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <tree-file>",
		Short: "Pretty-print the decoded syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := ival.DecodeFile(args[0])
			if err != nil {
				return err
			}
			_, err = pretty.Fprintf(cmd.OutOrStdout(), "%# v\n", root)
			return err
		},
	}
}
