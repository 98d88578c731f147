package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nihei9/sccheck/config"
	"github.com/nihei9/sccheck/sc"
	spec "github.com/nihei9/sccheck/spec/grammar"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// env is what every subcommand that runs the scanner or the parser needs.
type env struct {
	cfg    *config.Config
	gram   *spec.CompiledGrammar
	logger zerolog.Logger
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = *rootFlags.logLevel
	}
	lv, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	logger := zerolog.New(os.Stderr).Level(lv).With().Timestamp().Logger()

	gram, err := loadGrammar(*rootFlags.table)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("grammar", gram.Name).Str("table", *rootFlags.table).Msg("loaded the grammar")

	return &env{
		cfg:    cfg,
		gram:   gram,
		logger: logger,
	}, nil
}

// loadConfig reads the file given by --config. Without the flag, it reads ./sccheck.toml when
// the file exists and otherwise returns the defaults.
func loadConfig() (*config.Config, error) {
	path := *rootFlags.config
	if path == "" {
		_, err := os.Stat(config.FileName)
		if errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		path = config.FileName
	}
	return config.Load(path)
}

func loadGrammar(path string) (*spec.CompiledGrammar, error) {
	if path == "" {
		return sc.Grammar(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the compiled grammar %s: %w", path, err)
	}
	defer f.Close()

	return spec.ReadCompiledGrammar(f)
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
