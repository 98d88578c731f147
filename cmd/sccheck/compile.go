package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nihei9/sccheck/grammar"
	"github.com/nihei9/sccheck/sc"
	spec "github.com/nihei9/sccheck/spec/grammar"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile the SC grammar into a parsing table",
		Example: `  sccheck compile -o sc.json`,
		Args:    cobra.NoArgs,
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	cgram, report, err := sc.Compile(grammar.EnableReporting())
	if err != nil {
		return err
	}

	err = writeCompiledGrammarAndReport(cgram, report, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot write an output files: %w", err)
	}

	var implicitlyResolvedCount int
	for _, s := range report.States {
		for _, c := range s.SRConflict {
			if c.ResolvedBy == grammar.ResolvedByShift.Int() {
				implicitlyResolvedCount++
			}
		}
		for _, c := range s.RRConflict {
			if c.ResolvedBy == grammar.ResolvedByProdOrder.Int() {
				implicitlyResolvedCount++
			}
		}
	}
	if implicitlyResolvedCount > 0 {
		fmt.Fprintf(os.Stderr, "%v conflicts resolved implicitly\n", implicitlyResolvedCount)
	}

	return nil
}

// writeCompiledGrammarAndReport writes a compiled grammar and a report. The output depends on the path.
//
//  1. A directory path: the files are <path>/<grammar-name>.json and <path>/<grammar-name>-report.json.
//  2. A file path or a non-existent path: the compiled grammar goes to the path, and the report goes to
//     <grammar-name>-report.json in the same directory.
//  3. An empty string: the compiled grammar goes to stdout, and the report goes to
//     <current-directory>/<grammar-name>-report.json.
func writeCompiledGrammarAndReport(cgram *spec.CompiledGrammar, report *spec.Report, path string) error {
	cgramPath, reportPath, err := makeOutputFilePaths(cgram.Name, path)
	if err != nil {
		return err
	}

	{
		var cgramW io.Writer
		if cgramPath != "" {
			cgramFile, err := os.OpenFile(cgramPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return err
			}
			defer cgramFile.Close()
			cgramW = cgramFile
		} else {
			cgramW = os.Stdout
		}

		err := spec.WriteCompiledGrammar(cgramW, cgram)
		if err != nil {
			return err
		}
	}

	reportFile, err := os.OpenFile(reportPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer reportFile.Close()

	return spec.WriteReport(reportFile, report)
}

func makeOutputFilePaths(gramName string, path string) (string, string, error) {
	reportFileName := gramName + "-report.json"

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return "", filepath.Join(wd, reportFileName), nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		dir, _ := filepath.Split(path)
		return path, filepath.Join(dir, reportFileName), nil
	}

	return filepath.Join(path, gramName+".json"), filepath.Join(path, reportFileName), nil
}
