package chunkhash_test

import (
	"testing"

	"github.com/loomscript/loom/pkgs/ast"
	"github.com/loomscript/loom/pkgs/chunkhash"
	"github.com/loomscript/loom/pkgs/compiler"
)

func TestHashIsStableForIdenticalChunks(t *testing.T) {
	program := ast.NewProgram(ast.Cmd(1, "set", ast.Id("x"), ast.Str("1")))

	chunkA, err := compiler.Compile(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chunkB, err := compiler.Compile(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hashA, err := chunkhash.Hash(chunkA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hashB, err := chunkhash.Hash(chunkB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hashA != hashB {
		t.Fatalf("expected identical chunks to hash the same: %s != %s", hashA, hashB)
	}
}

func TestHashDiffersForDifferentChunks(t *testing.T) {
	programA := ast.NewProgram(ast.Cmd(1, "set", ast.Id("x"), ast.Str("1")))
	programB := ast.NewProgram(ast.Cmd(1, "set", ast.Id("x"), ast.Str("2")))

	chunkA, _ := compiler.Compile(programA)
	chunkB, _ := compiler.Compile(programB)

	hashA, err := chunkhash.Hash(chunkA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hashB, err := chunkhash.Hash(chunkB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hashA == hashB {
		t.Fatal("expected different chunks to hash differently")
	}
}
