package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// errRejected signals that the input is not in the language. It is reported
// through the exit status only.
var errRejected = errors.New("input rejected")

func newRootCmd() *cobra.Command {
	var verbose int
	var logPath string

	rootCmd := &cobra.Command{
		Use:           "earley",
		Short:         "Recognize token sequences with Earley parsing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logPath != "" {
				path = &logPath
			}
			commonlog.Configure(verbose, path)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write log to this file instead of stderr")

	rootCmd.AddCommand(newExampleCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newRecognizeCmd())
	rootCmd.AddCommand(newReplCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			printErrors(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// printErrors prints every error of an error list found in err's chain, one
// per line, or err itself.
func printErrors(w io.Writer, err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
