package checker

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/sccheck/config"
	"github.com/nihei9/sccheck/driver/parser"
	"github.com/nihei9/sccheck/sc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.sc")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestChecker_CheckFile(t *testing.T) {
	c := New(sc.Grammar(), nil, zerolog.Nop())

	t.Run("a valid file", func(t *testing.T) {
		res, err := c.CheckFile(writeSource(t, "int x = 1;\nprint(x);\n"))
		require.NoError(t, err)
		assert.IsType(t, &parser.Success{}, res)
	})

	t.Run("an empty file", func(t *testing.T) {
		res, err := c.CheckFile(writeSource(t, ""))
		require.NoError(t, err)
		assert.IsType(t, &parser.Success{}, res)
	})

	t.Run("a file with a syntax error", func(t *testing.T) {
		res, err := c.CheckFile(writeSource(t, "x = 1 + ;\n"))
		require.NoError(t, err)
		f, ok := res.(*parser.Failure)
		require.True(t, ok)
		require.Len(t, f.Errors, 1)
		assert.Equal(t, "1:9", f.Errors[0].Pos().String())
		_, ok = IOFailure(res)
		assert.False(t, ok)
	})

	t.Run("a file ending without a semicolon", func(t *testing.T) {
		res, err := c.CheckFile(writeSource(t, "int x = 1;\ny = 2 +"))
		require.NoError(t, err)
		f, ok := res.(*parser.Failure)
		require.True(t, ok)
		require.Len(t, f.Errors, 1)
		assert.Equal(t, 18, f.Errors[0].Pos().Offset)
		assert.Equal(t, "2:8", f.Errors[0].Pos().String())
		assert.Equal(t, "unexpected <eof>", f.Errors[0].Message())
	})

	t.Run("a missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.sc")
		res, err := c.CheckFile(path)
		require.NoError(t, err)
		ioErr, ok := IOFailure(res)
		require.True(t, ok)
		assert.Equal(t, path, ioErr.Path)
		assert.True(t, errors.Is(ioErr, os.ErrNotExist))
		assert.True(t, strings.HasPrefix(ioErr.Error(), path+": cannot read the source file: "))
	})

	t.Run("a directory", func(t *testing.T) {
		res, err := c.CheckFile(t.TempDir())
		require.NoError(t, err)
		_, ok := IOFailure(res)
		assert.True(t, ok)
	})
}

func TestChecker_Check_Config(t *testing.T) {
	src := "a b; c d; e f;"

	res, err := New(sc.Grammar(), nil, zerolog.Nop()).Check("test", strings.NewReader(src))
	require.NoError(t, err)
	require.IsType(t, &parser.Failure{}, res)
	assert.Len(t, res.(*parser.Failure).Errors, 3)

	cfg := config.Default()
	cfg.Parser.MaxErrors = 1
	res, err = New(sc.Grammar(), cfg, zerolog.Nop()).Check("test", strings.NewReader(src))
	require.NoError(t, err)
	require.IsType(t, &parser.Failure{}, res)
	assert.Len(t, res.(*parser.Failure).Errors, 1)
}

func TestChecker_Check_Logging(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, err := New(sc.Grammar(), nil, logger).Check("test.sc", strings.NewReader("x = 1;"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"checked"`)
	assert.NotContains(t, buf.String(), `"message":"shift"`)

	buf.Reset()
	logger = zerolog.New(&buf).Level(zerolog.TraceLevel)
	_, err = New(sc.Grammar(), nil, logger).Check("test.sc", strings.NewReader("x = 1;"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"shift"`)
}

func TestChecker_Check_Twice(t *testing.T) {
	c := New(sc.Grammar(), nil, zerolog.Nop())
	path := writeSource(t, "int = 1;\nx = $ 2;\n")

	res1, err := c.CheckFile(path)
	require.NoError(t, err)
	res2, err := c.CheckFile(path)
	require.NoError(t, err)
	assert.Equal(t, res1, res2)
}
