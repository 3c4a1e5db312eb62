package main

import (
	"fmt"
	"io"
	"os"

	"github.com/loomscript/loom/pkgs/chunkhash"
	"github.com/loomscript/loom/pkgs/compiler"
	"github.com/loomscript/loom/pkgs/parser"
	"github.com/spf13/cobra"
)

func newCompileCmd() *cobra.Command {
	defaultFormat := "text"
	if projectConfig != nil && projectConfig.Format != "" {
		defaultFormat = projectConfig.Format
	}

	var format string
	var out string

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a uidsl program to bytecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileFile(args[0], format, out, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&format, "format", defaultFormat, "output format: text (disassembly) or cbor")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func compileFile(path, format, out string, stdout io.Writer) error {
	program, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	chunk, err := compiler.Compile(program)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "text":
		hash, err := chunkhash.Hash(chunk)
		if err != nil {
			return err
		}
		data = []byte(fmt.Sprintf("; chunkhash %s\n%s", hash, compiler.Disassemble(chunk)))
	case "cbor":
		data, err = compiler.Marshal(chunk)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown --format %q (want text or cbor)", format)
	}

	if out == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
