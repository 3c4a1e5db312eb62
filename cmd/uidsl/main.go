// Command uidsl compiles and runs programs written in the indentation-based
// UI description language: parse, compile to bytecode, execute against an
// in-memory host, disassemble, or watch a source file for changes.
package main

import (
	"fmt"
	"os"

	"github.com/loomscript/loom/pkgs/config"
	"github.com/loomscript/loom/pkgs/errors"
	"github.com/spf13/cobra"
)

// projectConfig is the uidsl.yaml in the current directory, if any. It is
// loaded once at startup and consulted by the compile subcommand for its
// default output format.
var projectConfig *config.Config

func main() {
	cfg, err := config.Load("uidsl.yaml")
	if err != nil {
		FormatError(os.Stderr, err)
		os.Exit(1)
	}
	projectConfig = cfg

	rootCmd := &cobra.Command{
		Use:           "uidsl",
		Short:         "Compile and run uidsl programs",
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newFmtCmd())

	if err := rootCmd.Execute(); err != nil {
		FormatError(os.Stderr, err)
		os.Exit(1)
	}
}

// FormatError prints err with its line/command context when it is a
// *errors.LangError, falling back to a plain message otherwise.
func FormatError(w *os.File, err error) {
	if err == nil {
		return
	}
	le, ok := err.(*errors.LangError)
	if !ok {
		fmt.Fprintf(w, "Error: %s\n", err.Error())
		return
	}

	fmt.Fprintf(w, "Error [%s]: %s\n", le.Type, le.Message)
	if line, ok := le.GetContext("line"); ok {
		fmt.Fprintf(w, "  at line %v\n", line)
	}
	if cmd, ok := le.GetContext("command"); ok {
		fmt.Fprintf(w, "  in command %v\n", cmd)
	}
	if hint, ok := le.GetContext("suggestion"); ok {
		fmt.Fprintf(w, "  did you mean %v?\n", hint)
	}
}
