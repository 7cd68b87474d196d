package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dpl/internal/store"
)

const cliFixture = `
pages:
  - id: 1
    title: Oak
    length: 1200
    categories:
      - name: Trees
        added: "20240101000000"
  - id: 2
    title: Dodo tree
    categories:
      - name: Trees
        added: "20240102000000"
      - name: Extinct
  - id: 3
    title: Elm
    length: 400
    categories:
      - name: Trees
        added: "20240103000000"
`

// writeFile writes content to name under a temp dir and returns the path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// seededDB creates a SQLite database holding cliFixture.
func seededDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wiki.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	f, err := store.ParseFixture([]byte(cliFixture))
	require.NoError(t, err)
	require.NoError(t, st.Seed(context.Background(), f))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dpl", cmd.Use)
	assert.Contains(t, cmd.Long, "intersection")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"render", "explain", "seed", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestListCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"render", "explain"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			driver := sub.Flags().Lookup("driver")
			require.NotNil(t, driver)
			assert.Equal(t, store.DriverSQLite, driver.DefValue)
			assert.NotNil(t, sub.Flags().Lookup("config"))
			assert.NotNil(t, sub.Flags().Lookup("lang"))
		})
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--format", "xml", "explain"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootCommand_EndToEnd(t *testing.T) {
	db := seededDB(t)
	tag := writeFile(t, "tag.txt", "category=Trees\nnotcategory=Extinct\nmode=inline\n")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(logs)
	cmd.SetArgs([]string{"--verbose", "render", "--db", db, tag})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "\n"+`<a href="/wiki/Elm" title="Elm">Elm</a>, <a href="/wiki/Oak" title="Oak">Oak</a>`+"\n", out.String())
	assert.Contains(t, logs.String(), `"msg":"list query"`, "verbose logs the SQL to stderr")
	assert.Contains(t, logs.String(), `"render_id"`)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))

	wrapped := WrapExitError(ExitFailure, "render failed", errors.New("locked"))
	assert.Equal(t, "render failed: locked", wrapped.Error())
	assert.Equal(t, "locked", errors.Unwrap(wrapped).Error())
}
