// Package checker runs one syntax check of an SC source file.
package checker

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nihei9/sccheck/config"
	"github.com/nihei9/sccheck/driver/lexer"
	"github.com/nihei9/sccheck/driver/parser"
	spec "github.com/nihei9/sccheck/spec/grammar"
	"github.com/rs/zerolog"
)

var _ parser.Diagnostic = &IOError{}

// IOError means a source file could not be read. A check never starts in that case.
type IOError struct {
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%v: %v", e.Path, e.Message())
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

func (e *IOError) Kind() string {
	return "io error"
}

func (e *IOError) Pos() lexer.Position {
	return lexer.Position{}
}

func (e *IOError) Message() string {
	return fmt.Sprintf("cannot read the source file: %v", e.Cause)
}

func (e *IOError) Expected() []string {
	return nil
}

// IOFailure returns the I/O error of a result when reading the source failed.
func IOFailure(res parser.Result) (*IOError, bool) {
	f, ok := res.(*parser.Failure)
	if !ok || len(f.Errors) != 1 {
		return nil, false
	}
	ioErr, ok := f.Errors[0].(*IOError)
	return ioErr, ok
}

// Checker holds what every check shares. Each check owns its scanner and parser.
type Checker struct {
	gram   *spec.CompiledGrammar
	cfg    *config.Config
	logger zerolog.Logger
}

func New(gram *spec.CompiledGrammar, cfg *config.Config, logger zerolog.Logger) *Checker {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Checker{
		gram:   gram,
		cfg:    cfg,
		logger: logger,
	}
}

// CheckFile checks a source file. A file that cannot be read results in a *parser.Failure holding
// only an *IOError.
func (c *Checker) CheckFile(path string) (parser.Result, error) {
	src, err := readSource(path)
	if err != nil {
		c.logger.Debug().Str("path", path).Err(err).Msg("failed to read the source file")
		return &parser.Failure{
			Errors: []parser.Diagnostic{
				&IOError{
					Path:  path,
					Cause: err,
				},
			},
		}, nil
	}
	return c.check(path, bytes.NewReader(src))
}

// Check checks a source text. `name` is only used for logging.
func (c *Checker) Check(name string, src io.Reader) (parser.Result, error) {
	return c.check(name, src)
}

func (c *Checker) check(name string, src io.Reader) (parser.Result, error) {
	start := time.Now()

	toks, err := parser.NewTokenStream(c.gram, src)
	if err != nil {
		return nil, err
	}
	gram := parser.NewGrammar(c.gram)
	opts := c.cfg.ParserOptions()
	if c.logger.GetLevel() <= zerolog.TraceLevel {
		opts = append(opts, parser.SemanticAction(parser.NewTraceActionSet(gram, c.logger)))
	}
	p, err := parser.NewParser(toks, gram, opts...)
	if err != nil {
		return nil, err
	}
	res, err := p.Parse()
	if err != nil {
		c.logger.Error().Str("source", name).Err(err).Msg("the parser stopped")
		return nil, err
	}

	ev := c.logger.Debug().Str("source", name).Dur("elapsed", time.Since(start))
	switch r := res.(type) {
	case *parser.Success:
		ev.Bool("successful", true).Msg("checked")
	case *parser.Failure:
		ev.Bool("successful", false).Int("errors", len(r.Errors)).Msg("checked")
	}
	return res, nil
}

func readSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
