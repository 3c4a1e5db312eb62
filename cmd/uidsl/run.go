package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/loomscript/loom/pkgs/compiler"
	"github.com/loomscript/loom/pkgs/parser"
	"github.com/loomscript/loom/pkgs/runtime"
	"github.com/loomscript/loom/pkgs/vm"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a uidsl program against an in-memory host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], trace, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "print every host call as it happens")
	return cmd
}

func runFile(path string, trace bool, out io.Writer) error {
	program, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	chunk, err := compiler.Compile(program)
	if err != nil {
		return err
	}

	rec := runtime.NewRecorder(runtime.FetcherFunc(httpFetch))
	machine := vm.New(rec)

	if _, err := machine.Run(chunk); err != nil {
		return err
	}

	// Give any HTTP GETs fired during the initial run a moment to land, then
	// drain their callbacks on this goroutine.
	for i := 0; i < 50 && rec.Pending(); i++ {
		time.Sleep(10 * time.Millisecond)
	}
	rec.Drain()

	if trace {
		for _, line := range rec.Trace {
			fmt.Fprintln(out, line)
		}
	}

	fmt.Fprintf(out, "widgets: %v\n", rec.WidgetNames())
	fmt.Fprintf(out, "procs: %v\n", rec.ProcNames())
	return nil
}

func httpFetch(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
