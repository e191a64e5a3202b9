package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/earley/earley"
	"github.com/dhamidi/earley/examples"
	"github.com/dhamidi/earley/format"
	"github.com/dhamidi/earley/nullable"
)

func newExampleCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "example <name>",
		Short: "Recognize the input of a built-in example grammar",
		Long: `Print a built-in grammar, its null set and the Earley chart for the
example input, then report whether the input was recognized. The exit
status is 1 when the input is rejected.

Examples: ` + strings.Join(examples.Names(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: examples.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := examples.Lookup(args[0])
			if err != nil {
				return err
			}

			ns := nullable.Compute(ex.Grammar)
			p, err := earley.NewParser(ex.Grammar, ns)
			if err != nil {
				return err
			}
			chart := p.Parse(ex.Input)

			out := cmd.OutOrStdout()
			encoder, err := newEncoder(out, outputFormat)
			if err != nil {
				return err
			}
			if outputFormat == "text" {
				fmt.Fprint(out, format.Grammar(ex.Grammar))
				fmt.Fprint(out, format.NullSet(ns))
			}
			if err := encoder.Encode(chart); err != nil {
				return fmt.Errorf("encode chart: %w", err)
			}
			if outputFormat == "text" {
				fmt.Fprintf(out, "Parse %s.\n", verdict(chart.Accepted()))
			}

			if !chart.Accepted() {
				return errRejected
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}

func verdict(accepted bool) string {
	if accepted {
		return "succeeded"
	}
	return "failed"
}
