package runtime

import "github.com/loomscript/loom/pkgs/compiler"

// Callable is an opaque, already-bound invocation of a compiled chunk. The
// VM constructs Callables (closing over itself and a chunk) when it
// registers an event handler, a watcher, or an HTTP callback; Host never
// needs to know how a chunk actually runs.
type Callable func() error

// Proc is a stored procedure: its declared parameter names, in source
// order, and its compiled body.
type Proc struct {
	Params []string
	Chunk  *compiler.Chunk
}

// Host is the contract the VM calls for every side-effecting opcode. A
// port targeting a real rendering substrate implements this interface
// against its actual widget tree; Recorder is this repository's
// rendering-free reference implementation, sufficient for tests and the
// CLI's `run` command.
type Host interface {
	// SetState writes state[name] and fires every registered watcher for
	// name, in registration order, before returning.
	SetState(name string, value Value)
	// GetState reads state[name]; ok is false if absent (callers push Null).
	GetState(name string) (Value, bool)

	CreateWidget(name, widgetType string, options Value) error
	UpdateWidget(name string, options Value) error
	PackWidget(name string, options Value) error

	// BindWidget registers handlers keyed by event name with no leading dot.
	BindWidget(name string, handlers map[string]Callable) error
	// WatchState appends cb to the watcher list for name.
	WatchState(name string, cb Callable)

	DefineProc(name string, params []string, chunk *compiler.Chunk)
	GetProc(name string) (Proc, bool)

	// HTTPGet dispatches an asynchronous fetch; callbacks are keyed with
	// their leading dot (".callback", ".error"). On completion the host
	// writes state.http_response or state.error and invokes the matching
	// callback, if registered.
	HTTPGet(url string, callbacks map[string]Callable)
}
