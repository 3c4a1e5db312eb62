package compiler_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/loomscript/loom/pkgs/ast"
	"github.com/loomscript/loom/pkgs/compiler"
	"github.com/loomscript/loom/pkgs/errors"
)

func TestCompileSetEmitsPushPushSetState(t *testing.T) {
	program := ast.NewProgram(ast.Cmd(1, "set", ast.Id("x"), ast.Str("1")))
	chunk, err := compiler.Compile(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOps := []compiler.Opcode{compiler.PushConst, compiler.PushConst, compiler.SetState}
	var gotOps []compiler.Opcode
	for _, instr := range chunk.Instructions {
		gotOps = append(gotOps, instr.Op)
	}
	if diff := cmp.Diff(wantOps, gotOps); diff != "" {
		t.Fatalf("opcode sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileSetRejectsWrongArity(t *testing.T) {
	program := ast.NewProgram(ast.Cmd(1, "set", ast.Id("x")))
	_, err := compiler.Compile(program)
	if err == nil {
		t.Fatal("expected a compile error")
	}
	if !errors.IsType(err, errors.ErrCompile) {
		t.Fatalf("expected a compile error, got %v", err)
	}
}

func TestConstantPoolDedupsEqualScalars(t *testing.T) {
	program := ast.NewProgram(
		ast.Cmd(1, "set", ast.Id("a"), ast.Str("shared")),
		ast.Cmd(2, "set", ast.Id("b"), ast.Str("shared")),
	)
	chunk, err := compiler.Compile(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := 0
	for _, c := range chunk.Constants {
		if s, ok := c.(compiler.ConstString); ok && string(s) == "shared" {
			count++
		}
	}
	if diff := cmp.Diff(1, count); diff != "" {
		t.Fatalf("dedup count mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedBlocksCompileToDistinctConstChunks(t *testing.T) {
	innerA := []*ast.Command{ast.Cmd(2, "set", ast.Id("x"), ast.Str("1"))}
	innerB := []*ast.Command{ast.Cmd(4, "set", ast.Id("x"), ast.Str("1"))}
	program := ast.NewProgram(
		ast.Block(1, "watch", innerA, ast.Id("a")),
		ast.Block(3, "watch", innerB, ast.Id("b")),
	)
	chunk, err := compiler.Compile(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var chunks []*compiler.Chunk
	for _, c := range chunk.Constants {
		if cc, ok := c.(compiler.ConstChunk); ok {
			chunks = append(chunks, cc.Chunk)
		}
	}
	if diff := cmp.Diff(2, len(chunks)); diff != "" {
		t.Fatalf("expected two distinct nested chunks, even though their bodies are\n"+
			"structurally identical (-want +got):\n%s", diff)
	}
	if chunks[0] == chunks[1] {
		t.Fatal("nested chunks with identical bodies were deduplicated, but nested chunks are never pooled by structural equality")
	}
}

func TestCompileBindRequiresDotPrefixedEvents(t *testing.T) {
	body := []*ast.Command{ast.Cmd(2, "click", ast.Id("l1"))}
	program := ast.NewProgram(ast.Block(1, "bind", body, ast.Id("l1")))
	_, err := compiler.Compile(program)
	if err == nil {
		t.Fatal("expected a compile error for a non-dot-prefixed bind event")
	}
}

func TestCompileWatchRequiresABlockBody(t *testing.T) {
	program := ast.NewProgram(ast.Cmd(1, "watch", ast.Id("x")))
	_, err := compiler.Compile(program)
	if err == nil {
		t.Fatal("expected a compile error for a watch with no block body")
	}
}

func TestCompileUnrecognizedCommandIsACallProc(t *testing.T) {
	program := ast.NewProgram(ast.Cmd(1, "greet", ast.Str("world")))
	chunk, err := compiler.Compile(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := chunk.Instructions[len(chunk.Instructions)-1]
	if diff := cmp.Diff(compiler.CallProc, last.Op); diff != "" {
		t.Fatalf("final opcode mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1, last.Operands[0]); diff != "" {
		t.Fatalf("arg count operand mismatch (-want +got):\n%s", diff)
	}
}
