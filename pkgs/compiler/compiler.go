// Package compiler lowers an ast.Program into a Chunk: a linear instruction
// stream paired with a deduplicated constant pool. Each block construct
// (bind/watch/proc/http.get body) is compiled into a fresh, isolated Chunk
// (compileBlock) and nested into the enclosing chunk as a ConstChunk — there is
// no shared mutable compiler state across nesting levels.
package compiler

import (
	"fmt"
	"strings"

	"github.com/loomscript/loom/pkgs/ast"
	"github.com/loomscript/loom/pkgs/errors"
	"github.com/loomscript/loom/pkgs/stdlib"
)

// Compile lowers a Program into a top-level Chunk.
func Compile(program *ast.Program) (*Chunk, error) {
	chunk := newChunk()
	if err := compileBody(chunk, program.Body); err != nil {
		return nil, err
	}
	return chunk, nil
}

// compileBlock compiles a nested block body into its own fresh Chunk,
// isolated from the enclosing pool.
func compileBlock(body []*ast.Command) (*Chunk, error) {
	chunk := newChunk()
	if err := compileBody(chunk, body); err != nil {
		return nil, err
	}
	return chunk, nil
}

func compileBody(chunk *Chunk, body []*ast.Command) error {
	for _, cmd := range body {
		if err := compileCommand(chunk, cmd); err != nil {
			return err
		}
	}
	return nil
}

func compileCommand(chunk *Chunk, cmd *ast.Command) error {
	switch {
	case cmd.Name == "set":
		return compileSet(chunk, cmd)
	case stdlib.IsWidgetConstructor(cmd.Name):
		return compileWidgetConstructor(chunk, cmd)
	case cmd.Name == "conf" || cmd.Name == "config":
		return compileConfOrPack(chunk, cmd, UpdateWidget)
	case cmd.Name == "pack":
		return compileConfOrPack(chunk, cmd, PackWidget)
	case cmd.Name == "bind":
		return compileBind(chunk, cmd)
	case cmd.Name == "watch":
		return compileWatch(chunk, cmd)
	case cmd.Name == "proc":
		return compileProc(chunk, cmd)
	case cmd.Name == "http.get":
		return compileHTTPGet(chunk, cmd)
	default:
		return compileCallProc(chunk, cmd)
	}
}

// pushArg compiles a single argument node to exactly one push instruction:
// PUSH_VAR for a deferred variable substitution, PUSH_CONST for everything
// else (its literal text is pooled as a string constant).
func pushArg(chunk *Chunk, arg ast.Argument) {
	if v, ok := arg.(ast.VariableSubstitution); ok {
		idx := chunk.addConstant(ConstString(v.Name))
		chunk.emit(PushVar, idx)
		return
	}
	idx := chunk.addConstant(ConstString(ast.Text(arg)))
	chunk.emit(PushConst, idx)
}

// compileSet compiles "set name value": push value, push name, SET_STATE.
func compileSet(chunk *Chunk, cmd *ast.Command) error {
	if len(cmd.Args) != 2 {
		return errors.NewCompile(cmd.Name, "set requires exactly a name and a value")
	}
	pushArg(chunk, cmd.Args[1])
	pushArg(chunk, cmd.Args[0])
	chunk.emit(SetState)
	return nil
}

// compileWidgetConstructor compiles a widget family command into an options
// object assembled at run time (BUILD_OBJ), a type tag, and the widget name,
// then CREATE_WIDGET.
func compileWidgetConstructor(chunk *Chunk, cmd *ast.Command) error {
	if len(cmd.Args) < 1 {
		return errors.NewCompile(cmd.Name, "widget constructor requires a widget name")
	}
	nameArg := cmd.Args[0]
	positional := cmd.Args[1:]

	var keys []string
	switch cmd.Name {
	case "l", "label", "b", "button":
		if len(positional) >= 1 {
			keys = []string{"label"}
		}
	case "i", "input":
		if len(positional) >= 1 {
			keys = []string{"initialText"}
		}
	case "canvas":
		if len(positional) >= 1 {
			keys = append(keys, "width")
		}
		if len(positional) >= 2 {
			keys = append(keys, "height")
		}
	}

	// Each positional argument may itself be a deferred variable
	// substitution, so its value is pushed through pushArg and the options
	// object assembled at run time with BUILD_OBJ, exactly like conf/pack.
	n := len(keys)
	for i := 0; i < n; i++ {
		pushArg(chunk, positional[i])
		keyIdx := chunk.addConstant(ConstString(keys[i]))
		chunk.emit(PushConst, keyIdx)
	}
	chunk.emit(BuildObj, n)

	typeIdx := chunk.addConstant(ConstString(stdlib.WidgetTypeTags[cmd.Name]))
	chunk.emit(PushConst, typeIdx)
	pushArg(chunk, nameArg)
	chunk.emit(CreateWidget)
	return nil
}

// compileConfOrPack compiles "conf widget -opt val -opt val..." (or pack):
// BUILD_OBJ over the option/value pairs, then UPDATE_WIDGET/PACK_WIDGET.
func compileConfOrPack(chunk *Chunk, cmd *ast.Command, op Opcode) error {
	if len(cmd.Args) < 1 {
		return errors.NewCompile(cmd.Name, fmt.Sprintf("%s requires a widget name", cmd.Name))
	}
	nameArg := cmd.Args[0]
	pairs := cmd.Args[1:]
	if len(pairs)%2 != 0 {
		return errors.NewCompile(cmd.Name, fmt.Sprintf("%s requires option/value pairs", cmd.Name))
	}

	n := len(pairs) / 2
	for i := 0; i < n; i++ {
		valueArg := pairs[2*i+1]
		keyArg := pairs[2*i]
		pushArg(chunk, valueArg)
		pushArg(chunk, keyArg)
	}
	chunk.emit(BuildObj, n)
	pushArg(chunk, nameArg)
	chunk.emit(op)
	return nil
}

// compileBind compiles "bind widget" with a block of ".event" children.
func compileBind(chunk *Chunk, cmd *ast.Command) error {
	if len(cmd.Args) != 1 {
		return errors.NewCompile(cmd.Name, "bind requires exactly a widget name")
	}
	if !cmd.IsBlock() {
		return errors.NewCompile(cmd.Name, "bind requires a block of event handlers")
	}

	n := 0
	for _, child := range cmd.Body {
		if !strings.HasPrefix(child.Name, ".") {
			return errors.NewCompile(cmd.Name, fmt.Sprintf("bind event %q must begin with '.'", child.Name))
		}
		eventChunk, err := compileBlock(child.Body)
		if err != nil {
			return err
		}
		idx := chunk.addConstant(ConstChunk{Chunk: eventChunk})
		chunk.emit(DefBlock, idx)
		nameIdx := chunk.addConstant(ConstString(child.Name))
		chunk.emit(PushConst, nameIdx)
		n++
	}

	pushArg(chunk, cmd.Args[0])
	chunk.emit(BindWidget, n)
	return nil
}

// compileWatch compiles "watch var" with a single block body.
func compileWatch(chunk *Chunk, cmd *ast.Command) error {
	if len(cmd.Args) != 1 {
		return errors.NewCompile(cmd.Name, "watch requires exactly a variable name")
	}
	if !cmd.IsBlock() {
		return errors.NewCompile(cmd.Name, "watch requires a block body")
	}

	bodyChunk, err := compileBlock(cmd.Body)
	if err != nil {
		return err
	}
	idx := chunk.addConstant(ConstChunk{Chunk: bodyChunk})
	chunk.emit(DefBlock, idx)
	pushArg(chunk, cmd.Args[0])
	chunk.emit(WatchState)
	return nil
}

// compileProc compiles "proc name param...": chunk, each param, proc name.
func compileProc(chunk *Chunk, cmd *ast.Command) error {
	if len(cmd.Args) < 1 {
		return errors.NewCompile(cmd.Name, "proc requires a name")
	}
	if !cmd.IsBlock() {
		return errors.NewCompile(cmd.Name, "proc requires a block body")
	}

	bodyChunk, err := compileBlock(cmd.Body)
	if err != nil {
		return err
	}
	idx := chunk.addConstant(ConstChunk{Chunk: bodyChunk})
	chunk.emit(DefBlock, idx)

	params := cmd.Args[1:]
	for _, p := range params {
		pushArg(chunk, p)
	}
	pushArg(chunk, cmd.Args[0])
	chunk.emit(DefProc, len(params))
	return nil
}

// compileHTTPGet compiles "http.get url" with ".callback"/".error" children.
func compileHTTPGet(chunk *Chunk, cmd *ast.Command) error {
	if len(cmd.Args) != 1 {
		return errors.NewCompile(cmd.Name, "http.get requires exactly a url")
	}
	if !cmd.IsBlock() {
		return errors.NewCompile(cmd.Name, "http.get requires a block of callbacks")
	}

	n := 0
	for _, child := range cmd.Body {
		if !strings.HasPrefix(child.Name, ".") {
			return errors.NewCompile(cmd.Name, fmt.Sprintf("http.get callback %q must begin with '.'", child.Name))
		}
		cbChunk, err := compileBlock(child.Body)
		if err != nil {
			return err
		}
		idx := chunk.addConstant(ConstChunk{Chunk: cbChunk})
		chunk.emit(DefBlock, idx)
		nameIdx := chunk.addConstant(ConstString(child.Name))
		chunk.emit(PushConst, nameIdx)
		n++
	}

	pushArg(chunk, cmd.Args[0])
	chunk.emit(HTTPGet, n)
	return nil
}

// compileCallProc compiles an unrecognized command name as a procedure call.
func compileCallProc(chunk *Chunk, cmd *ast.Command) error {
	for _, arg := range cmd.Args {
		pushArg(chunk, arg)
	}
	idx := chunk.addConstant(ConstString(cmd.Name))
	chunk.emit(PushConst, idx)
	chunk.emit(CallProc, len(cmd.Args))
	return nil
}
