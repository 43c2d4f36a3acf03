package cli_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/htable/internal/cli"
)

func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func Test_Repl_Runs_Table_Operations_When_Scripted(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.RunWithInput(script(
		"insert aa first",
		"insert ai second value",
		"get ai",
		"len",
		"cap",
		"home aa",
		"erase aa",
		"get aa",
		"get ai",
		"quit",
		"get never-reached",
	), "repl", "--capacity", "8")

	assert.Equal(t, 0, exitCode, "stderr: %s", stderr)
	assert.Equal(t, script(
		"ok",
		"ok (collision)",
		"second value",
		"2",
		"8",
		"7",
		"ok",
		`error: get "aa": htable: key not found`,
		"second value",
	), stdout)
}

func Test_Repl_Reports_Capacity_Exhausted_When_Table_Full(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("repl") // empty input ends the session

	assert.Empty(t, stdout)

	stdout, _, exitCode := c.RunWithInput(script(
		"put a 1",
		"put b 2",
		"put c 3",
	), "repl", "-n", "2")

	assert.Equal(t, 0, exitCode)
	cli.AssertContains(t, stdout, `error: insert "c": htable: capacity exhausted`)
}

func Test_Repl_Rejects_Duplicate_When_Config_Policy_Reject(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".htable.json", `{"duplicates": "reject", "capacity": 4}`)

	stdout, _, _ := c.RunWithInput(script(
		"insert egg 1",
		"insert egg 2",
		"get egg",
	), "repl")

	assert.Equal(t, script(
		"ok",
		`error: insert "egg": htable: duplicate key`,
		"1",
	), stdout)
}

func Test_Repl_Prints_And_Saves_Table_When_Requested(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, _, exitCode := c.RunWithInput(script(
		"insert aa 1",
		"insert ai 2",
		"erase aa",
		"print",
		"slots",
		"save out/table.txt",
	), "repl", "-n", "3")

	assert.Equal(t, 0, exitCode)

	want := c.ReadFile("out/table.txt")
	cli.AssertContains(t, stdout, want)
	cli.AssertContains(t, stdout, "saved ")
	cli.AssertContains(t, stdout, "tombstone")
	assert.Equal(t, 3, strings.Count(want, "\n"))

	info, err := os.Stat(filepath.Join(c.Dir, "out", "table.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func Test_Repl_Exits_When_Signal_Arrives_While_Waiting_For_Input(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	in, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	sigCh := make(chan os.Signal, 1)
	done := make(chan int, 1)

	go func() {
		done <- cli.Run(in, io.Discard, io.Discard, []string{"htable", "--cwd", c.Dir, "repl"}, c.Env, sigCh)
	}()

	sigCh <- os.Interrupt

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("repl did not exit after signal")
	}
}

func Test_Repl_Logs_Warning_When_Clearing_Zero_Capacity(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.RunWithInput(script("clear", "print", "home x"), "repl", "-n", "0")

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, script("ok", `error: home of "x": htable: capacity exhausted`), stdout)
	cli.AssertContains(t, stderr, "zero capacity")
}

func Test_Repl_Reports_Usage_When_Arguments_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, _, _ := c.RunWithInput(script("insert onlykey", "get", "frobnicate", "# comment", "help"), "repl")

	cli.AssertContains(t, stdout, "error: usage: insert <key> <value>")
	cli.AssertContains(t, stdout, "error: usage: get <key>")
	cli.AssertContains(t, stdout, "unknown command: frobnicate")
	cli.AssertContains(t, stdout, "insert <key> <value>   Store value under key")
}
