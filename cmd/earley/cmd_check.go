package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/earley/ebnf"
	"github.com/dhamidi/earley/format"
	"github.com/dhamidi/earley/nullable"
)

func newCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Verify an EBNF grammar file and print the converted grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ebnf.Load(args[0], startProduction)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, format.Grammar(c.Grammar))
			fmt.Fprint(out, format.NullSet(nullable.Compute(c.Grammar)))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}
