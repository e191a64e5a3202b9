package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/earley/earley"
	"github.com/dhamidi/earley/ebnf"
	"github.com/dhamidi/earley/format"
	"github.com/dhamidi/earley/nullable"
)

// recognizer pairs a converted grammar with a parser built once for it.
type recognizer struct {
	converted *ebnf.Converted
	parser    *earley.Parser
	skip      string
}

func newRecognizer(filename, start, skip string) (*recognizer, error) {
	c, err := ebnf.Load(filename, start)
	if err != nil {
		return nil, err
	}
	p, err := earley.NewParser(c.Grammar, nullable.Compute(c.Grammar))
	if err != nil {
		return nil, err
	}
	return &recognizer{converted: c, parser: p, skip: skip}, nil
}

func (r *recognizer) parse(input []byte, filename string) (*earley.Chart, error) {
	lexer := r.converted.NewLexer(input, filename)
	if err := lexer.SetSkip(r.skip); err != nil {
		return nil, err
	}
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	log := commonlog.GetLogger("earley.cmd")
	for _, tok := range tokens {
		log.Debugf("token %s", tok)
	}

	return r.parser.Parse(r.converted.Symbols(tokens)), nil
}

func newEncoder(w io.Writer, outputFormat string) (format.Encoder, error) {
	switch outputFormat {
	case "text":
		return format.NewTextEncoder(w), nil
	case "json":
		return format.NewJSONEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", outputFormat)
	}
}

func newRecognizeCmd() *cobra.Command {
	var startProduction string
	var inputFile string
	var skip string
	var showChart bool
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "recognize <grammar> [input...]",
		Short: "Report whether input is in the language of an EBNF grammar",
		Long: `Tokenize the input with the lexical productions and literals of the
grammar and recognize it with the Earley algorithm.

The input is taken from --file, from the remaining arguments joined by
spaces, or from stdin. The exit status is 1 when the input is rejected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			encoder, err := newEncoder(out, outputFormat)
			if err != nil {
				return err
			}

			r, err := newRecognizer(args[0], startProduction, skip)
			if err != nil {
				return err
			}

			var input []byte
			filename := "<args>"
			switch {
			case inputFile != "":
				filename = inputFile
				input, err = os.ReadFile(inputFile)
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
			case len(args) > 1:
				input = []byte(strings.Join(args[1:], " "))
			default:
				filename = "<stdin>"
				input, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			chart, err := r.parse(input, filename)
			if err != nil {
				return err
			}

			if showChart || outputFormat == "json" {
				if err := encoder.Encode(chart); err != nil {
					return fmt.Errorf("encode chart: %w", err)
				}
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

	cmd.Flags().StringVar(&startProduction, "start", "", "start production")
	cmd.Flags().StringVar(&inputFile, "file", "", "read input from this file")
	cmd.Flags().StringVar(&skip, "skip", ebnf.DefaultSkip, "pattern of trivia skipped between tokens")
	cmd.Flags().BoolVar(&showChart, "chart", false, "print the chart")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}
