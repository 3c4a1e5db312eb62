package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/loomscript/loom/pkgs/chunkhash"
	"github.com/loomscript/loom/pkgs/devwatch"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Recompile a uidsl program every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchFile(args[0], cmd.OutOrStdout())
		},
	}
	return cmd
}

func watchFile(path string, out io.Writer) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	results, err := devwatch.Watch(ctx, path)
	if err != nil {
		return err
	}

	for result := range results {
		if result.Err != nil {
			fmt.Fprintf(out, "compile error: %v\n", result.Err)
			continue
		}
		hash, err := chunkhash.Hash(result.Chunk)
		if err != nil {
			fmt.Fprintf(out, "hash error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "recompiled %s (%s), %d top-level instructions\n",
			path, hash[:12], len(result.Chunk.Instructions))
	}
	return nil
}
