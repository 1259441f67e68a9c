package cliutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exitPanic int

// catchExit runs fn with exit replaced, and returns the code that fn tried to exit with, or -1.
func catchExit(t *testing.T, fn func()) (code int) {
	t.Helper()
	orig := exit
	exit = func(code int) { panic(exitPanic(code)) }
	defer func() {
		exit = orig
		if r := recover(); r != nil {
			p, ok := r.(exitPanic)
			require.True(t, ok, r)
			code = int(p)
		}
	}()
	code = -1
	fn()
	return code
}

//nolint:paralleltest // mutates the exit var
func TestFlagErrorFunc(t *testing.T) {
	cmd := &cobra.Command{Use: "gitver"}
	var stderr strings.Builder
	cmd.SetErr(&stderr)

	assert.Equal(t, -1, catchExit(t, func() {
		assert.NoError(t, FlagErrorFunc(cmd, nil))
	}))
	assert.Empty(t, stderr.String())

	assert.Equal(t, ExitUsage, catchExit(t, func() {
		_ = FlagErrorFunc(cmd, errors.New("unknown flag: --bogus"))
	}))
	assert.Equal(t, ""+
		"gitver: unknown flag: --bogus\n"+
		"See 'gitver --help' for more information.\n",
		stderr.String())

	stderr.Reset()
	assert.Equal(t, ExitUsage, catchExit(t, func() {
		_ = FlagErrorFunc(cmd, errors.New("line one\nline two\n"))
	}))
	assert.Equal(t, ""+
		"gitver: line one\nline two\n\n"+
		"See 'gitver --help' for more information.\n",
		stderr.String())
}

//nolint:paralleltest // mutates the exit var
func TestOnlySubcommands(t *testing.T) {
	root := &cobra.Command{Use: "gitver", Args: OnlySubcommands, RunE: RunSubcommands}
	root.SetFlagErrorFunc(FlagErrorFunc)
	root.AddCommand(&cobra.Command{Use: "render", Run: func(*cobra.Command, []string) {}})
	var stderr strings.Builder
	root.SetErr(&stderr)

	assert.Equal(t, -1, catchExit(t, func() {
		assert.NoError(t, OnlySubcommands(root, nil))
	}))

	assert.Equal(t, ExitUsage, catchExit(t, func() {
		_ = OnlySubcommands(root, []string{"rendr"})
	}))
	assert.Contains(t, stderr.String(), `gitver: invalid subcommand "rendr"`)
	assert.Contains(t, stderr.String(), "Did you mean one of these?\n\trender")
}
