package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/nihei9/sccheck/driver/parser"
	"github.com/nihei9/sccheck/report"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	json *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <source file path>",
		Short:   "Parse a source file and print its syntax tree",
		Example: `  sccheck parse main.sc`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.json = cmd.Flags().Bool("json", false, "print the tree in JSON")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("an unexpected error occurred: %v", v)
		}
		fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
		retErr = errCheckFailed
	}()

	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	src, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("Cannot open the source file %s: %w", args[0], err)
	}
	defer src.Close()

	toks, err := parser.NewTokenStream(e.gram, src)
	if err != nil {
		return err
	}
	p, err := parser.NewParser(toks, parser.NewGrammar(e.gram), e.cfg.ParserOptions()...)
	if err != nil {
		return err
	}
	res, err := p.Parse()
	if err != nil {
		return err
	}

	var tree *parser.Node
	switch res := res.(type) {
	case *parser.Success:
		tree = res.Tree
	case *parser.Failure:
		fmt.Fprint(os.Stderr, report.Format(args[0], res.Errors))
		tree = res.Tree
	}
	if tree != nil {
		if *parseFlags.json {
			b, err := tree.MarshalJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(b))
		} else {
			parser.PrintTree(os.Stdout, tree)
		}
	}

	if _, ok := res.(*parser.Success); !ok {
		return errCheckFailed
	}
	return nil
}
