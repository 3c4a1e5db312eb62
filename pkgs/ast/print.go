package ast

import (
	"fmt"
	"strings"
)

// Print renders a Program back to indented source text, two spaces per
// level, the inverse of pkgs/lexer + pkgs/parser. Re-parsing the output is
// expected to yield a structurally isomorphic Program (modulo comments,
// which are discarded during analysis and so cannot round-trip).
func Print(p *Program) string {
	var b strings.Builder
	printBody(&b, p.Body, 0)
	return b.String()
}

func printBody(b *strings.Builder, body []*Command, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, cmd := range body {
		b.WriteString(indent)
		b.WriteString(cmd.Name)
		for _, arg := range cmd.Args {
			b.WriteString(" ")
			b.WriteString(printArg(arg))
		}
		b.WriteString("\n")
		if cmd.IsBlock() {
			printBody(b, cmd.Body, depth+1)
		}
	}
}

func printArg(a Argument) string {
	switch v := a.(type) {
	case Identifier:
		return v.Value
	case StringLiteral:
		return fmt.Sprintf(`"%s"`, v.Value)
	case VariableSubstitution:
		return "{$" + v.Name + "}"
	case Option:
		return v.Value
	default:
		return ""
	}
}
