package main

import (
	"fmt"
	"os"

	"github.com/nihei9/sccheck/driver/lexer"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "tokens <source file path>",
		Short:   "Print the tokens of a source file",
		Example: `  sccheck tokens main.sc`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTokens,
	}
	rootCmd.AddCommand(cmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	src, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("Cannot open the source file %s: %w", args[0], err)
	}
	defer src.Close()

	s, err := lexer.NewScanner(e.gram, src)
	if err != nil {
		return err
	}
	for {
		tok, err := s.Next()
		if err != nil {
			return err
		}
		if tok.EOF {
			fmt.Fprintf(os.Stdout, "%v: <eof>\n", tok.Position)
			break
		}
		fmt.Fprintf(os.Stdout, "%v: %v %q\n", tok.Position, tok.KindName, tok.Lexeme)
	}

	errs := s.LexicalErrors()
	for _, lexErr := range errs {
		fmt.Fprintln(os.Stderr, lexErr.Error())
	}
	if len(errs) > 0 {
		return errCheckFailed
	}
	return nil
}
