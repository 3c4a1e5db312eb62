package devwatch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/loomscript/loom/pkgs/devwatch"
)

func TestWatchCompilesImmediatelyOnStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.uidsl")
	if err := os.WriteFile(path, []byte("set x \"1\"\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results, err := devwatch.Watch(ctx, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case res := <-results:
		if res.Err != nil {
			t.Fatalf("unexpected compile error: %v", res.Err)
		}
		if res.Chunk == nil {
			t.Fatal("expected a non-nil chunk from the initial compile")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the initial compile result")
	}
}

func TestWatchRecompilesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.uidsl")
	if err := os.WriteFile(path, []byte("set x \"1\"\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results, err := devwatch.Watch(ctx, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	<-results // drain the initial compile

	if err := os.WriteFile(path, []byte("set x \"2\"\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case res := <-results:
		if res.Err != nil {
			t.Fatalf("unexpected compile error: %v", res.Err)
		}
		if res.Chunk == nil {
			t.Fatal("expected a non-nil chunk after the write")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a recompile after write")
	}
}

func TestWatchClosesResultsWhenContextCancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.uidsl")
	if err := os.WriteFile(path, []byte("set x \"1\"\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	results, err := devwatch.Watch(ctx, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-results // drain the initial compile

	cancel()

	select {
	case _, ok := <-results:
		if ok {
			t.Fatal("expected the results channel to close after cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for results to close")
	}
}

func TestWatchReportsCompileErrorsWithoutStoppingTheLoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.uidsl")
	if err := os.WriteFile(path, []byte("set x \"1\"\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results, err := devwatch.Watch(ctx, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-results // drain the initial compile

	if err := os.WriteFile(path, []byte("set x\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case res := <-results:
		if res.Err == nil {
			t.Fatal("expected a compile error for a malformed set command")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a recompile after write")
	}
}
