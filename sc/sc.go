// Package sc declares the grammar of SC, a small C-like statement language.
package sc

import (
	"fmt"
	"sync"

	"github.com/nihei9/sccheck/grammar"
	spec "github.com/nihei9/sccheck/spec/grammar"
)

const Name = "sc"

var (
	compileOnce sync.Once
	compiled    *spec.CompiledGrammar
)

// Grammar returns the compiled SC grammar. The grammar is compiled on the first call and shared
// afterwards. Grammar panics when the declaration is broken because that is a defect of this package.
func Grammar() *spec.CompiledGrammar {
	compileOnce.Do(func() {
		cg, _, err := Compile()
		if err != nil {
			panic(fmt.Errorf("failed to compile the SC grammar: %w", err))
		}
		compiled = cg
	})
	return compiled
}

// Compile compiles the SC grammar from scratch. Use it to get a report or to write a table asset.
func Compile(opts ...grammar.CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	b := grammar.NewBuilder(Name)
	Declare(b)
	g, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	return grammar.Compile(g, opts...)
}

// Declare declares the terminals, the precedences, and the productions of SC.
func Declare(b *grammar.Builder) {
	declareTerminals(b)
	declarePrecedences(b)
	declareProductions(b)
}

func declareTerminals(b *grammar.Builder) {
	b.Skip("white_space", "[\\u{0009}\\u{000A}\\u{000D}\\u{0020}]+")
	b.Skip("line_comment", "//[^\\u{000A}]*")

	// Keywords must precede `id` so that they win over it on the same lexeme.
	b.Literal("kw_int", "int")
	b.Literal("kw_print", "print")
	b.Literal("kw_return", "return")
	b.Literal("kw_if", "if")
	b.Literal("kw_else", "else")
	b.Literal("kw_while", "while")
	b.Literal("kw_true", "true")
	b.Literal("kw_false", "false")

	b.Literal("semicolon", ";", grammar.Delimiter())
	b.Literal("comma", ",", grammar.Delimiter())
	b.Literal("l_paren", "(", grammar.Delimiter())
	b.Literal("r_paren", ")", grammar.Delimiter())
	b.Literal("l_brace", "{", grammar.Delimiter())
	b.Literal("r_brace", "}", grammar.Delimiter())

	b.Literal("or", "||")
	b.Literal("and", "&&")
	b.Literal("eq", "==")
	b.Literal("ne", "!=")
	b.Literal("le", "<=")
	b.Literal("lt", "<")
	b.Literal("ge", ">=")
	b.Literal("gt", ">")
	b.Literal("add", "+")
	b.Literal("sub", "-")
	b.Literal("mul", "*")
	b.Literal("div", "/")
	b.Literal("mod", "%")
	b.Literal("not", "!")
	b.Literal("assign", "=")

	b.Terminal("id", "[A-Za-z_][0-9A-Za-z_]*", grammar.Alias("identifier"))
	b.Terminal("int_literal", "[0-9]+", grammar.Alias("integer"))
	b.Terminal("string_literal", "\"[^\"\\u{000A}]*\"", grammar.Alias("string"))
}

// Later declarations bind tighter.
func declarePrecedences(b *grammar.Builder) {
	b.Precedence(grammar.AssocLeft, "or")
	b.Precedence(grammar.AssocLeft, "and")
	b.Precedence(grammar.AssocNonAssoc, "eq", "ne")
	b.Precedence(grammar.AssocNonAssoc, "lt", "le", "gt", "ge")
	b.Precedence(grammar.AssocLeft, "add", "sub")
	b.Precedence(grammar.AssocLeft, "mul", "div", "mod")
	b.Precedence(grammar.AssocRight, "unary")
}

var binaryOperators = []string{
	"or", "and",
	"eq", "ne",
	"lt", "le", "gt", "ge",
	"add", "sub",
	"mul", "div", "mod",
}

func declareProductions(b *grammar.Builder) {
	b.Start("program")
	b.Production("program", "stmts")

	b.Production("stmts", "stmts", "stmt")
	b.Production("stmts")

	b.Production("stmt", "kw_int", "id", "semicolon")
	b.Production("stmt", "kw_int", "id", "assign", "expr", "semicolon")
	b.Production("stmt", "id", "assign", "expr", "semicolon")
	b.Production("stmt", "expr", "semicolon")
	b.Production("stmt", "kw_print", "l_paren", "args", "r_paren", "semicolon")
	b.Production("stmt", "kw_return", "expr", "semicolon")
	b.Production("stmt", "kw_return", "semicolon")
	// The dangling else: the shift wins the conflict, so `else` binds to the nearest `if`.
	b.Production("stmt", "kw_if", "l_paren", "expr", "r_paren", "stmt")
	b.Production("stmt", "kw_if", "l_paren", "expr", "r_paren", "stmt", "kw_else", "stmt")
	b.Production("stmt", "kw_while", "l_paren", "expr", "r_paren", "stmt")
	b.Production("stmt", "l_brace", "stmts", "r_brace")
	b.Production("stmt", "semicolon")
	b.Production("stmt", "error", "semicolon").Recover()
	b.Production("stmt", "l_brace", "error", "r_brace").Recover()

	for _, op := range binaryOperators {
		b.Production("expr", "expr", op, "expr")
	}
	b.Production("expr", "sub", "expr").Prec("unary")
	b.Production("expr", "not", "expr").Prec("unary")
	b.Production("expr", "l_paren", "expr", "r_paren")
	b.Production("expr", "id")
	b.Production("expr", "int_literal")
	b.Production("expr", "string_literal")
	b.Production("expr", "kw_true")
	b.Production("expr", "kw_false")
	b.Production("expr", "id", "l_paren", "args", "r_paren")
	b.Production("expr", "id", "l_paren", "r_paren")

	b.Production("args", "args", "comma", "expr")
	b.Production("args", "expr")
}
