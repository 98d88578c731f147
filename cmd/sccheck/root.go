package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/sccheck/checker"
	"github.com/nihei9/sccheck/config"
	"github.com/nihei9/sccheck/driver/parser"
	"github.com/nihei9/sccheck/report"
	"github.com/spf13/cobra"
)

// errCheckFailed means a check found problems. The report has already been written, so Execute
// prints nothing for it.
var errCheckFailed = errors.New("the check failed")

var rootFlags = struct {
	config   *string
	table    *string
	format   *string
	logLevel *string
}{}

var rootCmd = &cobra.Command{
	Use:   "sccheck <source file path>",
	Short: "Check the syntax of an SC source file",
	Long: `sccheck parses an SC source file and reports every lexical and syntax error it finds.
It prints "parsing successful" when the file has no error.`,
	Example:       `  sccheck main.sc`,
	Args:          cobra.ExactArgs(1),
	RunE:          runCheck,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootFlags.config = rootCmd.PersistentFlags().String("config", "", "config file path (default ./"+config.FileName+" when it exists)")
	rootFlags.table = rootCmd.PersistentFlags().String("table", "", "compiled grammar path (default the built-in SC grammar)")
	rootFlags.logLevel = rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootFlags.format = rootCmd.Flags().String("format", "", "report format (text, json)")
}

// Execute runs the command and returns the exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		return exitFailure
	}
	return exitSuccess
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("format") {
		e.cfg.Report.Format = *rootFlags.format
	}
	rep, err := report.New(e.cfg.Report)
	if err != nil {
		return err
	}

	path := args[0]
	res, err := checker.New(e.gram, e.cfg, e.logger).CheckFile(path)
	if err != nil {
		return err
	}

	if _, ok := checker.IOFailure(res); ok {
		err := rep.Write(os.Stderr, path, res)
		if err != nil {
			return err
		}
		return errCheckFailed
	}

	err = rep.Write(os.Stdout, path, res)
	if err != nil {
		return err
	}
	if _, ok := res.(*parser.Success); !ok {
		return errCheckFailed
	}
	return nil
}
