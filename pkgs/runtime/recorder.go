package runtime

import (
	"fmt"

	"github.com/loomscript/loom/pkgs/compiler"
	"github.com/loomscript/loom/pkgs/stdlib"
)

// Widget is a recorded widget: its type tag plus the semantic properties
// accumulated from creation and subsequent conf/pack calls. Recorder does
// not render anything; a real host would translate these into DOM/GUI
// mutations.
type Widget struct {
	Name   string
	Type   string
	Props  map[string]Value
	Layout map[string]Value

	handlers map[string]Callable
}

// Fetcher performs the body of an HTTP GET; Recorder calls it on a
// goroutine and surfaces the result through Drain, preserving the
// single-threaded execution model the VM requires.
type Fetcher interface {
	Fetch(url string) (body string, err error)
}

// FetcherFunc adapts a function to a Fetcher.
type FetcherFunc func(url string) (string, error)

func (f FetcherFunc) Fetch(url string) (string, error) { return f(url) }

// Recorder is an in-memory, rendering-free implementation of Host. It is
// sufficient to drive and test every VM opcode and every end-to-end UI
// scenario without a real rendering substrate.
type Recorder struct {
	state    map[string]Value
	widgets  map[string]*Widget
	procs    map[string]Proc
	watchers map[string][]Callable
	fetcher  Fetcher

	completions chan func()
	Trace       []string
}

// NewRecorder builds an empty Recorder. fetcher may be nil, in which case
// HTTPGet always fails with "no fetcher configured".
func NewRecorder(fetcher Fetcher) *Recorder {
	return &Recorder{
		state:       make(map[string]Value),
		widgets:     make(map[string]*Widget),
		procs:       make(map[string]Proc),
		watchers:    make(map[string][]Callable),
		fetcher:     fetcher,
		completions: make(chan func(), 64),
	}
}

func (r *Recorder) log(format string, args ...interface{}) {
	r.Trace = append(r.Trace, fmt.Sprintf(format, args...))
}

// SetState writes state[name] then fires every watcher registered for name,
// in registration order, before returning — a single SET_STATE fires all
// of them synchronously, and a watcher that itself calls SetState cascades
// depth-first.
func (r *Recorder) SetState(name string, value Value) {
	r.state[name] = value
	r.log("set_state %s", name)
	for _, cb := range r.watchers[name] {
		if err := cb(); err != nil {
			r.log("watcher for %s failed: %v", name, err)
		}
	}
}

func (r *Recorder) GetState(name string) (Value, bool) {
	v, ok := r.state[name]
	return v, ok
}

func (r *Recorder) Widget(name string) (*Widget, bool) {
	w, ok := r.widgets[name]
	return w, ok
}

func (r *Recorder) CreateWidget(name, widgetType string, options Value) error {
	w := &Widget{Name: name, Type: widgetType, Props: map[string]Value{}, Layout: map[string]Value{}}
	if obj, ok := options.(Object); ok {
		for i, k := range obj.Keys {
			w.Props[k] = obj.Values[i]
		}
	}
	r.widgets[name] = w
	r.log("create_widget %s %s", name, widgetType)
	return nil
}

func (r *Recorder) UpdateWidget(name string, options Value) error {
	w, ok := r.widgets[name]
	if !ok {
		return fmt.Errorf("update_widget: no such widget %q", name)
	}
	applyOptions(w.Props, options, stdlib.ConfOptionNames)
	r.log("update_widget %s", name)
	return nil
}

func (r *Recorder) PackWidget(name string, options Value) error {
	w, ok := r.widgets[name]
	if !ok {
		return fmt.Errorf("pack_widget: no such widget %q", name)
	}
	applyOptions(w.Layout, options, stdlib.PackOptionNames)
	r.log("pack_widget %s", name)
	return nil
}

func applyOptions(dst map[string]Value, options Value, keyMap map[string]string) {
	obj, ok := options.(Object)
	if !ok {
		return
	}
	for i, k := range obj.Keys {
		semantic, recognized := keyMap[k]
		if !recognized {
			continue
		}
		dst[semantic] = obj.Values[i]
	}
}

func (r *Recorder) BindWidget(name string, handlers map[string]Callable) error {
	if _, ok := r.widgets[name]; !ok {
		return fmt.Errorf("bind_widget: no such widget %q", name)
	}
	r.log("bind_widget %s (%d handlers)", name, len(handlers))
	// Recorder keeps handlers for Dispatch to use; store on the widget.
	r.widgets[name].handlers = handlers
	return nil
}

// Dispatch fires a bound event on a widget, as the host would when the
// user interacts with it. Returns an error if the widget or event handler
// is unknown.
func (r *Recorder) Dispatch(widgetName, event string) error {
	w, ok := r.widgets[widgetName]
	if !ok {
		return fmt.Errorf("dispatch: no such widget %q", widgetName)
	}
	cb, ok := w.handlers[event]
	if !ok {
		return fmt.Errorf("dispatch: widget %q has no handler for %q", widgetName, event)
	}
	return cb()
}

func (r *Recorder) WatchState(name string, cb Callable) {
	r.watchers[name] = append(r.watchers[name], cb)
	r.log("watch_state %s", name)
}

func (r *Recorder) DefineProc(name string, params []string, chunk *compiler.Chunk) {
	r.procs[name] = Proc{Params: params, Chunk: chunk}
	r.log("define_proc %s", name)
}

func (r *Recorder) GetProc(name string) (Proc, bool) {
	p, ok := r.procs[name]
	return p, ok
}

// ProcNames returns every defined procedure name, used by pkgs/suggest to
// offer "did you mean" hints on an undefined CALL_PROC.
func (r *Recorder) ProcNames() []string {
	names := make([]string, 0, len(r.procs))
	for n := range r.procs {
		names = append(names, n)
	}
	return names
}

// WidgetNames returns every created widget name.
func (r *Recorder) WidgetNames() []string {
	names := make([]string, 0, len(r.widgets))
	for n := range r.widgets {
		names = append(names, n)
	}
	return names
}

// HTTPGet dispatches the fetch on a goroutine; the result is only applied
// to state and its callback only invoked once a caller calls Drain,
// keeping all state mutation on a single designated goroutine.
func (r *Recorder) HTTPGet(url string, callbacks map[string]Callable) {
	r.log("http_get %s", url)
	fetcher := r.fetcher
	go func() {
		var body string
		var err error
		if fetcher == nil {
			err = fmt.Errorf("no fetcher configured")
		} else {
			body, err = fetcher.Fetch(url)
		}
		r.completions <- func() {
			if err != nil {
				r.SetState("error", String(err.Error()))
				if cb, ok := callbacks[".error"]; ok {
					if cbErr := cb(); cbErr != nil {
						r.log("http .error callback failed: %v", cbErr)
					}
				}
				return
			}
			r.SetState("http_response", String(body))
			if cb, ok := callbacks[".callback"]; ok {
				if cbErr := cb(); cbErr != nil {
					r.log("http .callback failed: %v", cbErr)
				}
			}
		}
	}()
}

// Pending reports whether any HTTP completions are waiting to be drained.
func (r *Recorder) Pending() bool {
	return len(r.completions) > 0
}

// Drain runs every currently queued HTTP completion to finish, on the
// calling goroutine, simulating the host's event loop re-entering the VM.
// It does not block waiting for fetches still in flight; call it again
// (or poll Pending) once more goroutines have finished.
func (r *Recorder) Drain() {
	for {
		select {
		case fn := <-r.completions:
			fn()
		default:
			return
		}
	}
}
