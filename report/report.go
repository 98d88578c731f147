// Package report renders the result of a check.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/nihei9/sccheck/checker"
	"github.com/nihei9/sccheck/config"
	"github.com/nihei9/sccheck/driver/lexer"
	"github.com/nihei9/sccheck/driver/parser"
)

const messageSuccess = "parsing successful"

type Reporter struct {
	format   string
	expected bool
}

func New(cfg config.ReportConfig) (*Reporter, error) {
	switch cfg.Format {
	case config.FormatText, config.FormatJSON:
	default:
		return nil, fmt.Errorf("unknown report format: %v", cfg.Format)
	}
	return &Reporter{
		format:   cfg.Format,
		expected: cfg.Expected,
	}, nil
}

// Write writes a result. An I/O failure is written as a single line without the header,
// and callers usually write it to stderr.
func (r *Reporter) Write(w io.Writer, source string, res parser.Result) error {
	if r.format == config.FormatJSON {
		return r.writeJSON(w, source, res)
	}
	return r.writeText(w, source, res)
}

func (r *Reporter) writeText(w io.Writer, source string, res parser.Result) error {
	if ioErr, ok := checker.IOFailure(res); ok {
		_, err := fmt.Fprintln(w, ioErr.Error())
		return err
	}

	switch res := res.(type) {
	case *parser.Success:
		_, err := fmt.Fprintln(w, messageSuccess)
		return err
	case *parser.Failure:
		var b strings.Builder
		fmt.Fprintf(&b, "parsing failed: %v error(s)\n", len(res.Errors))
		for _, d := range res.Errors {
			b.WriteString(formatDiagnostic(source, d, r.expected))
			b.WriteByte('\n')
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
	return fmt.Errorf("unknown result: %T", res)
}

// Format returns one line per diagnostic. It never modifies the diagnostics.
func Format(source string, diags []parser.Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(formatDiagnostic(source, d, true))
		b.WriteByte('\n')
	}
	return b.String()
}

// formatDiagnostic formats a diagnostic as `<source>:<row>:<col>: <kind>: <message>; expected: a, b`.
func formatDiagnostic(source string, d parser.Diagnostic, withExpected bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:%v: %v: %v", source, d.Pos(), d.Kind(), d.Message())
	if expected := d.Expected(); withExpected && len(expected) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(expected, ", "))
	}
	return b.String()
}

type jsonDiagnostic struct {
	Kind     string   `json:"kind"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	Offset   int      `json:"offset"`
	Message  string   `json:"message"`
	Found    string   `json:"found,omitempty"`
	Expected []string `json:"expected,omitempty"`
}

type jsonReport struct {
	Source      string            `json:"source"`
	Successful  bool              `json:"successful"`
	Diagnostics []*jsonDiagnostic `json:"diagnostics"`
}

func (r *Reporter) writeJSON(w io.Writer, source string, res parser.Result) error {
	rep := &jsonReport{
		Source:      source,
		Diagnostics: []*jsonDiagnostic{},
	}
	switch res := res.(type) {
	case *parser.Success:
		rep.Successful = true
	case *parser.Failure:
		for _, d := range res.Errors {
			rep.Diagnostics = append(rep.Diagnostics, r.newJSONDiagnostic(d))
		}
	default:
		return fmt.Errorf("unknown result: %T", res)
	}

	b, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func (r *Reporter) newJSONDiagnostic(d parser.Diagnostic) *jsonDiagnostic {
	jd := &jsonDiagnostic{
		Kind:    d.Kind(),
		Message: d.Message(),
	}
	if r.expected {
		jd.Expected = d.Expected()
	}

	switch d := d.(type) {
	case *checker.IOError:
		// An I/O failure has no position in the source.
		return jd
	case *parser.SyntaxError:
		if d.FoundEOF {
			jd.Found = "<eof>"
		} else {
			jd.Found = d.Found
		}
	case *lexer.LexicalError:
		jd.Found = d.Text
	}

	pos := d.Pos()
	jd.Row = pos.Row + 1
	jd.Col = pos.Col + 1
	jd.Offset = pos.Offset
	return jd
}
