package grammar

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

func WriteCompiledGrammar(w io.Writer, cg *CompiledGrammar) error {
	return writeJSON(w, cg)
}

// ReadCompiledGrammar decodes a table asset and rejects one lacking a part the parser needs.
func ReadCompiledGrammar(r io.Reader) (*CompiledGrammar, error) {
	cg := &CompiledGrammar{}
	err := json.NewDecoder(r).Decode(cg)
	if err != nil {
		return nil, fmt.Errorf("cannot decode a compiled grammar: %w", err)
	}
	if cg.LexicalSpecification == nil || cg.LexicalSpecification.Maleeni == nil || cg.LexicalSpecification.Maleeni.Spec == nil {
		return nil, fmt.Errorf("a compiled grammar has no lexical specification")
	}
	if cg.LexicalSpecification.Lexer != "maleeni" {
		return nil, fmt.Errorf("unsupported lexer: %v", cg.LexicalSpecification.Lexer)
	}
	if cg.ParsingTable == nil || cg.ParsingTable.Action == nil || cg.ParsingTable.GoTo == nil {
		return nil, fmt.Errorf("a compiled grammar has no parsing table")
	}
	return cg, nil
}

func WriteReport(w io.Writer, report *Report) error {
	return writeJSON(w, report)
}

func ReadReport(r io.Reader) (*Report, error) {
	report := &Report{}
	err := json.NewDecoder(r).Decode(report)
	if err != nil {
		return nil, fmt.Errorf("cannot decode a report: %w", err)
	}
	return report, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}
