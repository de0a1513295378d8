package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calculator/session"
)

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	color.NoColor = true
	var out, errw bytes.Buffer
	if args == nil {
		// cobra falls back to os.Args for nil args.
		args = []string{}
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errw)
	err = cmd.Execute()
	return out.String(), errw.String(), err
}

func TestBatchArgs(t *testing.T) {
	out, errs, err := run(t, "", "2+3*4", "1/3", "2^3^2")
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "14\n0.3333333333333333\n512\n", out)
}

func TestBatchStdin(t *testing.T) {
	out, _, err := run(t, "1+1\n\n  7%2  \n")
	require.NoError(t, err)
	assert.Equal(t, "2\n1\n", out)
}

func TestBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(path, []byte("10-4\nsqrt(16)\n"), 0o644))
	out, _, err := run(t, "", "--in", path, "1*1")
	require.NoError(t, err)
	assert.Equal(t, "6\n4\n1\n", out)
}

func TestBatchFailure(t *testing.T) {
	out, errs, err := run(t, "", "5/0", "2+2", "(1")
	require.ErrorIs(t, err, errFailed)
	assert.Equal(t, "4\n", out)
	assert.Contains(t, errs, "5/0: 2: division by zero")
	assert.Contains(t, errs, "(1: ")
}

func TestBatchFlags(t *testing.T) {
	out, _, err := run(t, "", "-p", "4", "--rounding", "down", "2/3")
	require.NoError(t, err)
	assert.Equal(t, "0.6666\n", out)

	out, _, err = run(t, "", "--echo", "(2+3)*4")
	require.NoError(t, err)
	assert.Equal(t, "2 3 + 4 * : 20\n", out)

	out, _, err = run(t, "", "--arbitrary", "-p", "30", "sqrt(2)")
	require.NoError(t, err)
	assert.Equal(t, "1.41421356237309504880168872421\n", out)

	_, _, err = run(t, "", "--rounding", "sideways", "1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errFailed)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.json")
	logPath := filepath.Join(dir, "calc.log")
	cfg := `{"precision": 5, "rounding": "up", "log_level": "debug", "log_file": "` + filepath.ToSlash(logPath) + `"}`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	out, _, err := run(t, "", "--config", path, "1/3")
	require.NoError(t, err)
	assert.Equal(t, "0.33334\n", out)

	// Flags override the file.
	out, _, err = run(t, "", "--config", path, "-p", "2", "1/3")
	require.NoError(t, err)
	assert.Equal(t, "0.34\n", out)

	logs, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "precision 5, rounding up")
	assert.Contains(t, string(logs), "[DEBUG] [calculator] 1/3 = ")
}

func TestReplStep(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	s := session.New()
	lines := []string{"2+3", "*4", ":neg", ":back", ":clear", "1/0", "9", ":history", ":bogus", ":help"}
	for _, line := range lines {
		require.False(t, step(&out, s, line), line)
	}
	assert.True(t, step(&out, s, ":quit"))

	got := out.String()
	assert.Contains(t, got, "5\n20\n(-20)\n(-20\n0\n")
	assert.Contains(t, got, "Error: 2: division by zero\n")
	assert.Contains(t, got, "2+3 = 5\n5*4 = 20\n9 = 9\n")
	assert.Contains(t, got, "unknown command :bogus")
	assert.Contains(t, got, ":quit")
	assert.Contains(t, got, `"-3" gives 2`)
}

func TestReplMinusContinues(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	s := session.New()
	step(&out, s, "5")
	step(&out, s, "-3")
	assert.Equal(t, "2", s.Input())
	step(&out, s, "(-3)")
	assert.Equal(t, "-3", s.Input())
	assert.Equal(t, "5\n2\n-3\n", out.String())
}

func TestPrompt(t *testing.T) {
	s := session.New()
	assert.Equal(t, "> ", prompt(s))
	s.Append("1+")
	assert.Equal(t, "1+ > ", prompt(s))
}
