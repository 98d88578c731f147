package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/sccheck/grammar"
	spec "github.com/nihei9/sccheck/spec/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <report file path>",
		Short:   "Print a report in a readable format",
		Example: `  sccheck show sc-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}
	return writeReport(os.Stdout, report)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	return spec.ReadReport(f)
}

const reportTemplate = `# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ range slice .Terminals 1 -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range slice .Productions 1 -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}{{ if .ErrorTrapper }} (error trapper){{ end }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ printRRConflict . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, report *spec.Report) error {
	termName := func(sym int) string {
		if report.Terminals[sym].Alias != "" {
			return report.Terminals[sym].Alias
		}
		return report.Terminals[sym].Name
	}

	nonTermName := func(sym int) string {
		return report.NonTerminals[sym].Name
	}

	assocName := func(assoc string) string {
		switch assoc {
		case "l":
			return "left"
		case "r":
			return "right"
		case "n":
			return "non"
		default:
			return "no"
		}
	}

	printSymbols := func(b *strings.Builder, rhs []int, dot int) {
		for i, e := range rhs {
			if i == dot {
				fmt.Fprintf(b, " ・")
			}
			if e > 0 {
				fmt.Fprintf(b, " %v", termName(e))
			} else {
				fmt.Fprintf(b, " %v", nonTermName(e*-1))
			}
		}
		if dot >= 0 && dot >= len(rhs) {
			fmt.Fprintf(b, " ・")
		}
	}

	precAndAssoc := func(prec int, assoc string) string {
		p := " -"
		if prec != 0 {
			p = fmt.Sprintf("%2v", prec)
		}
		a := "-"
		if assoc != "" {
			a = assoc
		}
		return p + " " + a
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			var implicitlyResolvedCount int
			var explicitlyResolvedCount int
			for _, s := range report.States {
				for _, c := range s.SRConflict {
					if c.ResolvedBy == grammar.ResolvedByShift.Int() {
						implicitlyResolvedCount++
					} else {
						explicitlyResolvedCount++
					}
				}
				for _, c := range s.RRConflict {
					if c.ResolvedBy == grammar.ResolvedByProdOrder.Int() {
						implicitlyResolvedCount++
					} else {
						explicitlyResolvedCount++
					}
				}
			}

			var b strings.Builder
			if implicitlyResolvedCount == 1 {
				fmt.Fprintf(&b, "%v conflict occurred and resolved implicitly.\n", implicitlyResolvedCount)
			} else if implicitlyResolvedCount > 1 {
				fmt.Fprintf(&b, "%v conflicts occurred and resolved implicitly.\n", implicitlyResolvedCount)
			}
			if explicitlyResolvedCount == 1 {
				fmt.Fprintf(&b, "%v conflict occurred and resolved explicitly.\n", explicitlyResolvedCount)
			} else if explicitlyResolvedCount > 1 {
				fmt.Fprintf(&b, "%v conflicts occurred and resolved explicitly.\n", explicitlyResolvedCount)
			}
			if implicitlyResolvedCount == 0 && explicitlyResolvedCount == 0 {
				fmt.Fprintf(&b, "No conflict")
			}
			return b.String()
		},
		"printTerminal": func(term *spec.Terminal) string {
			if term.Alias != "" {
				return fmt.Sprintf("%4v %v %v (%v)", term.Number, precAndAssoc(term.Precedence, term.Associativity), term.Name, term.Alias)
			}
			return fmt.Sprintf("%4v %v %v", term.Number, precAndAssoc(term.Precedence, term.Associativity), term.Name)
		},
		"printProduction": func(prod *spec.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			if len(prod.RHS) > 0 {
				printSymbols(&b, prod.RHS, -1)
			} else {
				fmt.Fprintf(&b, " ε")
			}
			if prod.Recover {
				fmt.Fprintf(&b, " (recover)")
			}
			return fmt.Sprintf("%4v %v %v", prod.Number, precAndAssoc(prod.Precedence, prod.Associativity), b.String())
		},
		"printItem": func(item *spec.Item) string {
			prod := report.Productions[item.Production]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			printSymbols(&b, prod.RHS, item.Dot)
			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, termName(tran.Symbol))
		},
		"printReduce": func(reduce *spec.Reduce) string {
			las := make([]string, len(reduce.LookAhead))
			for i, a := range reduce.LookAhead {
				las[i] = termName(a)
			}
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, strings.Join(las, ", "))
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, nonTermName(tran.Symbol))
		},
		"printSRConflict": func(sr *spec.SRConflict) string {
			var adopted string
			switch {
			case sr.AdoptedState != nil:
				adopted = fmt.Sprintf("shift %v", *sr.AdoptedState)
			case sr.AdoptedProduction != nil:
				adopted = fmt.Sprintf("reduce %v", *sr.AdoptedProduction)
			default:
				adopted = "error"
			}
			var resolvedBy string
			switch sr.ResolvedBy {
			case grammar.ResolvedByPrec.Int():
				if sr.AdoptedState != nil {
					resolvedBy = fmt.Sprintf("symbol %v has higher precedence than production %v", termName(sr.Symbol), sr.Production)
				} else {
					resolvedBy = fmt.Sprintf("production %v has higher precedence than symbol %v", sr.Production, termName(sr.Symbol))
				}
			case grammar.ResolvedByAssoc.Int():
				resolvedBy = fmt.Sprintf("symbol %v and production %v have the same precedence, and symbol %v has %v associativity",
					termName(sr.Symbol), sr.Production, termName(sr.Symbol), assocName(report.Terminals[sr.Symbol].Associativity))
			case grammar.ResolvedByShift.Int():
				resolvedBy = fmt.Sprintf("symbol %v and production %v don't define a precedence comparison (default rule)", termName(sr.Symbol), sr.Production)
			default:
				resolvedBy = "?" // This is a bug.
			}
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v: %v adopted because %v", sr.State, sr.Production, termName(sr.Symbol), adopted, resolvedBy)
		},
		"printRRConflict": func(rr *spec.RRConflict) string {
			var resolvedBy string
			switch rr.ResolvedBy {
			case grammar.ResolvedByProdOrder.Int():
				resolvedBy = fmt.Sprintf("production %v and %v don't define a precedence comparison (default rule)", rr.Production1, rr.Production2)
			default:
				resolvedBy = "?" // This is a bug.
			}
			return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v: reduce %v adopted because %v", rr.Production1, rr.Production2, termName(rr.Symbol), rr.AdoptedProduction, resolvedBy)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
