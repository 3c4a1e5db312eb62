// Package devwatch implements the filesystem watch loop behind `uidsl
// watch`: it recompiles a source file every time it changes on disk and
// reports the result (a fresh chunk or a compile error) on a channel.
package devwatch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/loomscript/loom/pkgs/compiler"
	"github.com/loomscript/loom/pkgs/parser"
)

// Result is one recompilation outcome, sent after every observed write to
// the watched file.
type Result struct {
	Chunk *compiler.Chunk
	Err   error
}

// Watch recompiles path once immediately, then again on every subsequent
// write event, sending a Result each time until ctx is cancelled. It
// closes results and returns when ctx is done or the watcher fails
// irrecoverably.
func Watch(ctx context.Context, path string) (<-chan Result, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("devwatch: creating watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("devwatch: watching %s: %w", dir, err)
	}

	results := make(chan Result, 1)
	results <- compile(path)

	go func() {
		defer watcher.Close()
		defer close(results)

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				select {
				case results <- compile(path):
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case results <- Result{Err: fmt.Errorf("devwatch: %w", err)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return results, nil
}

func compile(path string) Result {
	program, err := parser.ParseFile(path)
	if err != nil {
		return Result{Err: err}
	}
	chunk, err := compiler.Compile(program)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Chunk: chunk}
}
