package compiler

import (
	"fmt"
	"strings"
)

// Disassemble renders a human-readable instruction listing for a chunk, the
// way a bytecode VM's debug dump conventionally does, annotating operands
// with the string constant they reference. Nested chunk constants are
// rendered recursively after the listing, each indented under a
// "const[i] = chunk" header; other pool entries are not listed on their own.
func Disassemble(c *Chunk) string {
	var b strings.Builder
	disassemble(&b, c, 0)
	return b.String()
}

func disassemble(b *strings.Builder, c *Chunk, depth int) {
	indent := strings.Repeat("  ", depth)
	for i, instr := range c.Instructions {
		fmt.Fprintf(b, "%s%4d: %-14s", indent, i, instr.Op.String())
		for _, op := range instr.Operands {
			fmt.Fprintf(b, " %d", op)
		}
		if comment := operandComment(c, instr); comment != "" {
			fmt.Fprintf(b, "  ; %s", comment)
		}
		b.WriteString("\n")
	}
	for i, k := range c.Constants {
		if nested, ok := k.(ConstChunk); ok {
			fmt.Fprintf(b, "%sconst[%d] = chunk {\n", indent, i)
			disassemble(b, nested.Chunk, depth+1)
			fmt.Fprintf(b, "%s}\n", indent)
		}
	}
}

// operandComment annotates an instruction with the constant it references,
// when that's informative (PUSH_CONST / PUSH_VAR / DEF_BLOCK).
func operandComment(c *Chunk, instr Instruction) string {
	switch instr.Op {
	case PushConst, PushVar:
		if len(instr.Operands) == 1 && instr.Operands[0] < len(c.Constants) {
			if s, ok := c.Constants[instr.Operands[0]].(ConstString); ok {
				return fmt.Sprintf("%q", string(s))
			}
		}
	case DefBlock:
		if len(instr.Operands) == 1 {
			return fmt.Sprintf("const[%d]", instr.Operands[0])
		}
	}
	return ""
}
