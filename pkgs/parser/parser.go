// Package parser implements phase 2 of the language's front end: assembling
// the hierarchical ast.Program from the analyzed lines pkgs/lexer produces.
// It trusts the lexer to have handled tokenization and indentation counting,
// focusing purely on stack-based tree construction and argument
// classification. Parsing fails fast; there is no error recovery.
package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/loomscript/loom/pkgs/ast"
	"github.com/loomscript/loom/pkgs/errors"
	"github.com/loomscript/loom/pkgs/lexer"
)

// Parse tokenizes (via pkgs/lexer) and parses source text into a Program.
func Parse(source string) (*ast.Program, error) {
	lines, err := lexer.Analyze(source)
	if err != nil {
		return nil, err
	}
	return parseLines(lines)
}

// ParseFile reads path and parses its contents.
func ParseFile(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: reading %s: %w", path, err)
	}
	return Parse(string(data))
}

// parseLines runs phase 2: stack-based tree construction over analyzed
// lines, following the indent-delta rules below.
func parseLines(lines []lexer.Line) (*ast.Program, error) {
	program := &ast.Program{}

	// stack of "current body" pointers; bodies are slices built up via
	// append, so we track pointers to the owning slice.
	type frame struct {
		body *[]*ast.Command
	}
	stack := []frame{{body: &program.Body}}
	currentIndent := 0

	for _, line := range lines {
		cmd, err := buildCommand(line)
		if err != nil {
			return nil, err
		}

		switch {
		case line.Indent > currentIndent:
			if line.Indent != currentIndent+1 {
				return nil, errors.NewIndent(line.Number, fmt.Sprintf(
					"Invalid indentation increase: from %d to %d", currentIndent, line.Indent))
			}
			top := stack[len(stack)-1]
			if len(*top.body) == 0 {
				return nil, errors.NewIndent(line.Number,
					"Indentation error: cannot indent on an empty block")
			}
			parent := (*top.body)[len(*top.body)-1]
			parent.Body = []*ast.Command{}
			stack = append(stack, frame{body: &parent.Body})

		case line.Indent < currentIndent:
			pops := currentIndent - line.Indent
			for i := 0; i < pops; i++ {
				stack = stack[:len(stack)-1]
			}
		}

		top := stack[len(stack)-1]
		*top.body = append(*top.body, cmd)
		currentIndent = line.Indent
	}

	return program, nil
}

// buildCommand turns one analyzed line into a leaf ast.Command (Body is set
// by the caller once it knows whether deeper-indented lines follow).
func buildCommand(line lexer.Line) (*ast.Command, error) {
	if len(line.Tokens) == 0 {
		return nil, errors.NewLex(line.Number, "", "empty command line")
	}

	name := line.Tokens[0]
	args := make([]ast.Argument, 0, len(line.Tokens)-1)
	for _, tok := range line.Tokens[1:] {
		args = append(args, classify(tok))
	}

	return &ast.Command{Name: name, Args: args, Line: line.Number}, nil
}

// classify applies the argument classification table, consulted in strict
// priority order: variable substitution, string literal, option, identifier.
func classify(token string) ast.Argument {
	if name, ok := variableSubstitution(token); ok {
		return ast.VariableSubstitution{Name: name}
	}
	if len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) {
		return ast.StringLiteral{Value: token[1 : len(token)-1]}
	}
	if strings.HasPrefix(token, "-") {
		return ast.Option{Value: token}
	}
	return ast.Identifier{Value: token}
}

// variableSubstitution recognizes the shape {$NAME} with a non-empty
// interior containing no inner braces.
func variableSubstitution(token string) (string, bool) {
	if !strings.HasPrefix(token, "{$") || !strings.HasSuffix(token, "}") || len(token) < 4 {
		return "", false
	}
	interior := token[2 : len(token)-1]
	if interior == "" || strings.ContainsAny(interior, "{}") {
		return "", false
	}
	return interior, true
}
