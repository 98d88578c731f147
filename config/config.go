// Package config loads the sccheck configuration file (sccheck.toml).
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nihei9/sccheck/driver/parser"
	"github.com/rs/zerolog"
)

const FileName = "sccheck.toml"

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	Parser ParserConfig `toml:"parser"`
	Report ReportConfig `toml:"report"`
	Log    LogConfig    `toml:"log"`
}

type ParserConfig struct {
	LAC            bool `toml:"lac"`
	RecoveryShifts int  `toml:"recovery_shifts"`

	// MaxErrors is the number of syntax errors after which the parser gives up. 0 means no limit.
	MaxErrors int `toml:"max_errors"`
}

type ReportConfig struct {
	Format string `toml:"format"`

	// Expected controls whether a diagnostic lists the expected terminals.
	Expected bool `toml:"expected"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given. A file overrides only the keys it has.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			LAC:            true,
			RecoveryShifts: 3,
			MaxErrors:      0,
		},
		Report: ReportConfig{
			Format:   FormatText,
			Expected: true,
		},
		Log: LogConfig{
			Level: zerolog.WarnLevel.String(),
		},
	}
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open the config file: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return cfg, nil
}

func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %v", strings.Join(keys, ", "))
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Parser.RecoveryShifts < 1 {
		return fmt.Errorf("parser.recovery_shifts must be greater than or equal to 1; got: %v", c.Parser.RecoveryShifts)
	}
	if c.Parser.MaxErrors < 0 {
		return fmt.Errorf("parser.max_errors must be greater than or equal to 0; got: %v", c.Parser.MaxErrors)
	}
	switch c.Report.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("report.format must be %v or %v; got: %v", FormatText, FormatJSON, c.Report.Format)
	}
	_, err := c.LogLevel()
	return err
}

func (c *Config) LogLevel() (zerolog.Level, error) {
	lv, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log.level: %w", err)
	}
	return lv, nil
}

// ParserOptions converts the [parser] table into parser options.
func (c *Config) ParserOptions() []parser.ParserOption {
	opts := []parser.ParserOption{
		parser.RecoveryShiftCount(c.Parser.RecoveryShifts),
		parser.MaxErrors(c.Parser.MaxErrors),
	}
	if !c.Parser.LAC {
		opts = append(opts, parser.DisableLAC())
	}
	return opts
}
