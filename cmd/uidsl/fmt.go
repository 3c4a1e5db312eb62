package main

import (
	"io"
	"os"

	"github.com/loomscript/loom/pkgs/ast"
	"github.com/loomscript/loom/pkgs/parser"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Pretty-print a uidsl program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmtFile(args[0], write, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "overwrite the file instead of printing to stdout")
	return cmd
}

func fmtFile(path string, write bool, out io.Writer) error {
	program, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	printed := ast.Print(program)

	if write {
		return os.WriteFile(path, []byte(printed), 0o644)
	}
	_, err = io.WriteString(out, printed)
	return err
}
