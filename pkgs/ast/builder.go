package ast

// NewProgram builds a Program from a list of top-level commands.
func NewProgram(body ...*Command) *Program {
	return &Program{Body: body}
}

// Cmd builds a leaf command.
func Cmd(line int, name string, args ...Argument) *Command {
	return &Command{Name: name, Args: args, Line: line}
}

// Block builds a command with a nested body.
func Block(line int, name string, body []*Command, args ...Argument) *Command {
	return &Command{Name: name, Args: args, Body: body, Line: line}
}

// Id builds an Identifier argument.
func Id(value string) Identifier { return Identifier{Value: value} }

// Str builds a StringLiteral argument.
func Str(value string) StringLiteral { return StringLiteral{Value: value} }

// Var builds a VariableSubstitution argument.
func Var(name string) VariableSubstitution { return VariableSubstitution{Name: name} }

// Opt builds an Option argument.
func Opt(value string) Option { return Option{Value: value} }
