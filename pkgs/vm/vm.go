// Package vm implements the stack-based virtual machine: it fetches,
// decodes, and dispatches the instructions in a compiler.Chunk against a
// runtime.Host facade. Every Run invocation owns its own operand stack —
// stacks never leak across chunk boundaries — so the VM is reentrant for
// nested invocation (event handlers, watchers, procedures, HTTP callbacks)
// but is not safe for concurrent use by multiple goroutines at once.
package vm

import (
	"fmt"

	"github.com/loomscript/loom/pkgs/compiler"
	"github.com/loomscript/loom/pkgs/errors"
	"github.com/loomscript/loom/pkgs/runtime"
	"github.com/loomscript/loom/pkgs/suggest"
)

// VM executes compiled chunks against a single runtime.Host.
type VM struct {
	Host runtime.Host
}

// New returns a VM bound to the given host facade.
func New(host runtime.Host) *VM {
	return &VM{Host: host}
}

// frame is the state of one run invocation over a chunk: its own fresh
// operand stack, and bindings that, when non-nil, shadow host state for the
// duration of the call (used by CALL_PROC to bind parameters).
type frame struct {
	chunk    *compiler.Chunk
	stack    []runtime.Value
	bindings map[string]runtime.Value
}

func (f *frame) push(v runtime.Value) {
	f.stack = append(f.stack, v)
}

func (f *frame) pop() (runtime.Value, error) {
	if len(f.stack) == 0 {
		return nil, errors.NewRuntime("stack underflow")
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v, nil
}

func (f *frame) popString() (string, error) {
	v, err := f.pop()
	if err != nil {
		return "", err
	}
	s, ok := runtime.AsString(v)
	if !ok {
		return "", errors.NewRuntime(fmt.Sprintf("expected a string on the stack, got %T", v))
	}
	return s, nil
}

func (f *frame) popChunk() (*compiler.Chunk, error) {
	v, err := f.pop()
	if err != nil {
		return nil, err
	}
	ref, ok := v.(runtime.ChunkRef)
	if !ok {
		return nil, errors.NewRuntime(fmt.Sprintf("expected a chunk on the stack, got %T", v))
	}
	return ref.Chunk, nil
}

// Run executes a top-level chunk with no parameter bindings and returns
// whatever is left on the operand stack (empty, for any well-formed
// top-level chunk — see the stack balance invariant).
func (vm *VM) Run(chunk *compiler.Chunk) ([]runtime.Value, error) {
	return vm.run(chunk, nil)
}

func (vm *VM) run(chunk *compiler.Chunk, bindings map[string]runtime.Value) ([]runtime.Value, error) {
	f := &frame{chunk: chunk, bindings: bindings}

	for ip := 0; ip < len(chunk.Instructions); ip++ {
		instr := chunk.Instructions[ip]
		if err := vm.exec(f, instr); err != nil {
			return nil, err
		}
	}

	return f.stack, nil
}

// callable returns a runtime.Callable that reenters the VM on chunk with a
// fresh stack and no bindings — used for event handlers, watchers, and
// HTTP callbacks, none of which bind parameters.
func (vm *VM) callable(chunk *compiler.Chunk) runtime.Callable {
	return func() error {
		_, err := vm.run(chunk, nil)
		return err
	}
}

func (vm *VM) exec(f *frame, instr compiler.Instruction) error {
	switch instr.Op {
	case compiler.PushConst:
		idx := instr.Operands[0]
		f.push(runtime.FromConstant(f.chunk.Constants[idx]))

	case compiler.PushVar:
		idx := instr.Operands[0]
		name, ok := f.chunk.Constants[idx].(compiler.ConstString)
		if !ok {
			return errors.NewRuntime("PUSH_VAR operand is not a name constant")
		}
		f.push(vm.lookupVar(f, string(name)))

	case compiler.Pop:
		if _, err := f.pop(); err != nil {
			return err
		}

	case compiler.SetState:
		name, err := f.popString()
		if err != nil {
			return err
		}
		value, err := f.pop()
		if err != nil {
			return err
		}
		vm.Host.SetState(name, value)

	case compiler.BuildObj:
		if err := vm.execBuildObj(f, instr.Operands[0]); err != nil {
			return err
		}

	case compiler.CreateWidget:
		name, err := f.popString()
		if err != nil {
			return err
		}
		typ, err := f.popString()
		if err != nil {
			return err
		}
		options, err := f.pop()
		if err != nil {
			return err
		}
		if err := vm.Host.CreateWidget(name, typ, options); err != nil {
			return errors.NewHost("create_widget failed", err)
		}

	case compiler.UpdateWidget:
		name, err := f.popString()
		if err != nil {
			return err
		}
		options, err := f.pop()
		if err != nil {
			return err
		}
		if err := vm.Host.UpdateWidget(name, options); err != nil {
			return errors.NewHost("update_widget failed", err)
		}

	case compiler.PackWidget:
		name, err := f.popString()
		if err != nil {
			return err
		}
		options, err := f.pop()
		if err != nil {
			return err
		}
		if err := vm.Host.PackWidget(name, options); err != nil {
			return errors.NewHost("pack_widget failed", err)
		}

	case compiler.DefBlock:
		idx := instr.Operands[0]
		chunkConst, ok := f.chunk.Constants[idx].(compiler.ConstChunk)
		if !ok {
			return errors.NewRuntime("DEF_BLOCK operand is not a chunk constant")
		}
		f.push(runtime.ChunkRef{Chunk: chunkConst.Chunk})

	case compiler.BindWidget:
		if err := vm.execBindWidget(f, instr.Operands[0]); err != nil {
			return err
		}

	case compiler.WatchState:
		name, err := f.popString()
		if err != nil {
			return err
		}
		chunk, err := f.popChunk()
		if err != nil {
			return err
		}
		vm.Host.WatchState(name, vm.callable(chunk))

	case compiler.DefProc:
		if err := vm.execDefProc(f, instr.Operands[0]); err != nil {
			return err
		}

	case compiler.CallProc:
		if err := vm.execCallProc(f, instr.Operands[0]); err != nil {
			return err
		}

	case compiler.HTTPGet:
		if err := vm.execHTTPGet(f, instr.Operands[0]); err != nil {
			return err
		}

	default:
		return errors.NewRuntime(fmt.Sprintf("unknown opcode %v", instr.Op))
	}

	return nil
}

func (vm *VM) lookupVar(f *frame, name string) runtime.Value {
	if f.bindings != nil {
		if v, ok := f.bindings[name]; ok {
			return v
		}
	}
	if v, ok := vm.Host.GetState(name); ok {
		return v
	}
	return runtime.Null{}
}

// execBuildObj pops n (value, key) pairs — pairs were pushed value-then-key
// so popping order yields them in reverse; reconstructing pairs[i] from the
// top down restores source order, which is what the object's key iteration
// order preserves.
func (vm *VM) execBuildObj(f *frame, n int) error {
	type pair struct {
		key   string
		value runtime.Value
	}
	pairs := make([]pair, n)
	for i := n - 1; i >= 0; i-- {
		key, err := f.popString()
		if err != nil {
			return err
		}
		value, err := f.pop()
		if err != nil {
			return err
		}
		pairs[i] = pair{key: key, value: value}
	}

	obj := runtime.Object{}
	for _, p := range pairs {
		obj.Set(p.key, p.value)
	}
	f.push(obj)
	return nil
}

// execBindWidget pops the widget name then n (chunk, event) pairs; popping
// order yields the pairs in reverse source order, which is harmless since
// the handler map built here has no order of its own.
func (vm *VM) execBindWidget(f *frame, n int) error {
	widgetName, err := f.popString()
	if err != nil {
		return err
	}

	handlers := make(map[string]runtime.Callable, n)
	for i := 0; i < n; i++ {
		eventName, err := f.popString()
		if err != nil {
			return err
		}
		chunk, err := f.popChunk()
		if err != nil {
			return err
		}
		handlers[stripLeadingDot(eventName)] = vm.callable(chunk)
	}

	if err := vm.Host.BindWidget(widgetName, handlers); err != nil {
		return errors.NewHost("bind_widget failed", err)
	}
	return nil
}

func stripLeadingDot(s string) string {
	if len(s) > 0 && s[0] == '.' {
		return s[1:]
	}
	return s
}

// execDefProc pops the proc name, then n parameter names (popped in
// reverse, restored to source order), then the chunk: DEF_PROC's operands
// are pushed chunk, then params, then name, bottom to top.
func (vm *VM) execDefProc(f *frame, n int) error {
	procName, err := f.popString()
	if err != nil {
		return err
	}

	params := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		p, err := f.popString()
		if err != nil {
			return err
		}
		params[i] = p
	}

	chunk, err := f.popChunk()
	if err != nil {
		return err
	}

	vm.Host.DefineProc(procName, params, chunk)
	return nil
}

// execCallProc pops the proc name then n arguments (restored to source
// order), binds them positionally against the proc's declared parameters,
// and runs the proc's chunk with those bindings shadowing state for the
// duration of the call.
func (vm *VM) execCallProc(f *frame, n int) error {
	procName, err := f.popString()
	if err != nil {
		return err
	}

	args := make([]runtime.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := f.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}

	proc, ok := vm.Host.GetProc(procName)
	if !ok {
		return notFoundError(procName, vm.knownProcNames())
	}

	bindings := make(map[string]runtime.Value, len(proc.Params))
	for i, p := range proc.Params {
		if i < len(args) {
			bindings[p] = args[i]
		} else {
			bindings[p] = runtime.Null{}
		}
	}

	_, err = vm.run(proc.Chunk, bindings)
	return err
}

func (vm *VM) knownProcNames() []string {
	type lister interface{ ProcNames() []string }
	if l, ok := vm.Host.(lister); ok {
		return l.ProcNames()
	}
	return nil
}

func notFoundError(name string, known []string) error {
	hint, _ := suggest.Suggest(name, known)
	return errors.NewRuntimeSuggest(fmt.Sprintf("undefined procedure %q", name), hint)
}

// execHTTPGet pops the url then n (chunk, callback-name) pairs; callback
// names retain their leading dot, per the host contract.
func (vm *VM) execHTTPGet(f *frame, n int) error {
	url, err := f.popString()
	if err != nil {
		return err
	}

	callbacks := make(map[string]runtime.Callable, n)
	for i := 0; i < n; i++ {
		cbName, err := f.popString()
		if err != nil {
			return err
		}
		chunk, err := f.popChunk()
		if err != nil {
			return err
		}
		callbacks[cbName] = vm.callable(chunk)
	}

	vm.Host.HTTPGet(url, callbacks)
	return nil
}
