package runtime_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/loomscript/loom/pkgs/runtime"
)

func TestCreateWidgetCopiesInitialOptions(t *testing.T) {
	rec := runtime.NewRecorder(nil)
	opts := runtime.Object{}
	opts.Set("label", runtime.String("hi"))

	if err := rec.CreateWidget("l1", "LABEL", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, ok := rec.Widget("l1")
	if !ok {
		t.Fatal("expected widget l1 to exist")
	}
	if diff := cmp.Diff(runtime.String("hi"), w.Props["label"]); diff != "" {
		t.Fatalf("props mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateWidgetIgnoresUnrecognizedOptions(t *testing.T) {
	rec := runtime.NewRecorder(nil)
	_ = rec.CreateWidget("l1", "LABEL", runtime.Object{})

	opts := runtime.Object{}
	opts.Set("-text", runtime.String("updated"))
	opts.Set("-bogus", runtime.String("ignored"))

	if err := rec.UpdateWidget("l1", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, _ := rec.Widget("l1")
	if diff := cmp.Diff(runtime.String("updated"), w.Props["text"]); diff != "" {
		t.Fatalf("props mismatch (-want +got):\n%s", diff)
	}
	if _, ok := w.Props["-bogus"]; ok {
		t.Fatal("unrecognized option should not have been stored")
	}
}

func TestSetStateFiresWatchersInRegistrationOrder(t *testing.T) {
	rec := runtime.NewRecorder(nil)
	var order []int
	rec.WatchState("x", func() error { order = append(order, 1); return nil })
	rec.WatchState("x", func() error { order = append(order, 2); return nil })

	rec.SetState("x", runtime.Number(1))

	if diff := cmp.Diff([]int{1, 2}, order); diff != "" {
		t.Fatalf("watcher firing order mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchUnknownWidgetFails(t *testing.T) {
	rec := runtime.NewRecorder(nil)
	if err := rec.Dispatch("nope", "click"); err == nil {
		t.Fatal("expected an error dispatching to a nonexistent widget")
	}
}

func TestHTTPGetAppliesResultOnlyAfterDrain(t *testing.T) {
	rec := runtime.NewRecorder(runtime.FetcherFunc(func(url string) (string, error) {
		return fmt.Sprintf("body for %s", url), nil
	}))

	var called bool
	rec.HTTPGet("http://example.test", map[string]runtime.Callable{
		".callback": func() error { called = true; return nil },
	})

	for i := 0; i < 200 && !rec.Pending(); i++ {
		time.Sleep(time.Millisecond)
	}
	if called {
		t.Fatal("expected the .callback handler not to run before Drain")
	}
	if _, ok := rec.GetState("http_response"); ok {
		t.Fatal("expected http_response to stay unset until Drain")
	}
	rec.Drain()

	if !called {
		t.Fatal("expected the .callback handler to run after Drain")
	}
	v, ok := rec.GetState("http_response")
	if !ok {
		t.Fatal("expected http_response to be set")
	}
	if diff := cmp.Diff(runtime.String("body for http://example.test"), v); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}
