package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	writeSource := func(name, src string) string {
		path := filepath.Join(dir, name)
		err := os.WriteFile(path, []byte(src), 0644)
		if err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		caption string
		args    []string
		code    int
	}{
		{
			caption: "a valid file",
			args:    []string{writeSource("valid.sc", "int x = 1;\nprint(x);\n")},
			code:    exitSuccess,
		},
		{
			caption: "a missing semicolon at the end of the file",
			args:    []string{writeSource("eof.sc", "int x = 1")},
			code:    exitFailure,
		},
		{
			caption: "a missing file",
			args:    []string{filepath.Join(dir, "missing.sc")},
			code:    exitFailure,
		},
		{
			caption: "no argument",
			args:    []string{},
			code:    exitFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			code := Execute()
			if code != tt.code {
				t.Fatalf("unexpected exit code; want: %v, got: %v", tt.code, code)
			}
		})
	}
}
