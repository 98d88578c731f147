package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		expected *Config
	}{
		{
			caption:  "an empty file gives the defaults",
			src:      ``,
			expected: Default(),
		},
		{
			caption: "a file overrides only the keys it has",
			src: `
[parser]
lac = false
max_errors = 10

[log]
level = "debug"
`,
			expected: &Config{
				Parser: ParserConfig{
					LAC:            false,
					RecoveryShifts: 3,
					MaxErrors:      10,
				},
				Report: ReportConfig{
					Format:   FormatText,
					Expected: true,
				},
				Log: LogConfig{
					Level: "debug",
				},
			},
		},
		{
			caption: "all keys",
			src: `
[parser]
lac = true
recovery_shifts = 5
max_errors = 1

[report]
format = "json"
expected = false

[log]
level = "trace"
`,
			expected: &Config{
				Parser: ParserConfig{
					LAC:            true,
					RecoveryShifts: 5,
					MaxErrors:      1,
				},
				Report: ReportConfig{
					Format:   FormatJSON,
					Expected: false,
				},
				Log: LogConfig{
					Level: "trace",
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			cfg, err := Decode(strings.NewReader(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		errMsg  string
	}{
		{
			caption: "a broken file",
			src:     `[parser`,
			errMsg:  "failed to parse the config",
		},
		{
			caption: "an unknown key",
			src:     "[parser]\nlookahead = 1\n",
			errMsg:  "unknown config keys: parser.lookahead",
		},
		{
			caption: "a mistyped value",
			src:     "[parser]\nlac = \"yes\"\n",
			errMsg:  "failed to parse the config",
		},
		{
			caption: "too few recovery shifts",
			src:     "[parser]\nrecovery_shifts = 0\n",
			errMsg:  "parser.recovery_shifts",
		},
		{
			caption: "a negative error limit",
			src:     "[parser]\nmax_errors = -1\n",
			errMsg:  "parser.max_errors",
		},
		{
			caption: "an unknown format",
			src:     "[report]\nformat = \"xml\"\n",
			errMsg:  "report.format",
		},
		{
			caption: "an unknown log level",
			src:     "[log]\nlevel = \"loud\"\n",
			errMsg:  "invalid log.level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"info\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	lv, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lv)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_ParserOptions(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.ParserOptions(), 2)

	cfg.Parser.LAC = false
	assert.Len(t, cfg.ParserOptions(), 3)
}
