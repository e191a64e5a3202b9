package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/earley/ebnf"
	"github.com/dhamidi/earley/format"
)

const historyFile = ".earley_history"

func newReplCmd() *cobra.Command {
	var startProduction string
	var skip string

	cmd := &cobra.Command{
		Use:   "repl <grammar>",
		Short: "Recognize lines typed interactively",
		Long: `Read lines and report for each whether it is in the language of the
grammar. ":chart" toggles printing the chart, ":quit" exits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRecognizer(args[0], startProduction, skip)
			if err != nil {
				return err
			}
			return runRepl(r, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production")
	cmd.Flags().StringVar(&skip, "skip", ebnf.DefaultSkip, "pattern of trivia skipped between tokens")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func runRepl(r *recognizer, out io.Writer) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := &replSession{recognizer: r}
	prompt := r.converted.Start + "> "
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}

		if !isCommand(line) {
			ln.AppendHistory(line)
		}
		quit, err := session.handle(line, out)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// replSession holds the state of the commands typed into the repl.
type replSession struct {
	recognizer *recognizer
	showChart  bool
}

func isCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ":")
}

// handle runs one line of input and reports whether the session should end.
func (s *replSession) handle(line string, out io.Writer) (bool, error) {
	switch cmd := strings.TrimSpace(line); {
	case cmd == ":quit":
		return true, nil
	case cmd == ":chart":
		s.showChart = !s.showChart
		fmt.Fprintf(out, "chart %s\n", onOff(s.showChart))
		return false, nil
	case isCommand(cmd):
		fmt.Fprintf(out, "unknown command %s\n", cmd)
		return false, nil
	}

	chart, err := s.recognizer.parse([]byte(line), "<repl>")
	if err != nil {
		fmt.Fprintln(out, err)
		return false, nil
	}
	if s.showChart {
		if err := format.NewTextEncoder(out).Encode(chart); err != nil {
			return false, fmt.Errorf("encode chart: %w", err)
		}
	}
	if chart.Accepted() {
		fmt.Fprintln(out, "accepted")
	} else {
		fmt.Fprintln(out, "rejected")
	}
	return false, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
