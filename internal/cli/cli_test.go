package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/engine"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/tui"
)

var tadaEnv = []string{
	"TADA_OWNER_ID", "TADA_BACKEND", "TADA_API_URL", "TADA_API_TIMEOUT", "TADA_DATA",
	"TADA_LOG_FILE", "TADA_LOG_LEVEL", "TADA_THEME", "TADA_TOKEN",
}

type env struct {
	t    *testing.T
	data string
}

// newEnv isolates HOME, the working directory and TADA_* variables, and
// points the json backend at a fresh file.
func newEnv(t *testing.T) *env {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range tadaEnv {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
	return &env{t: t, data: filepath.Join(t.TempDir(), "todos.json")}
}

func (e *env) run(args ...string) (int, string, string) {
	e.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--backend", "json", "--data", e.data, "--owner", "7", "--theme", "mono"}, args...)
	code := Execute(context.Background(), full, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestAddAndList(t *testing.T) {
	e := newEnv(t)

	code, out, _ := e.run("add", "Buy", "milk")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "added #1")

	code, _, _ = e.run("add", "eggs")
	require.Equal(t, 0, code)

	code, out, _ = e.run("ls", "--plain")
	require.Equal(t, 0, code)
	assert.Contains(t, out, " 1. [ ] Buy milk")
	assert.Contains(t, out, " 2. [ ] eggs")
	assert.Contains(t, out, "2 items left")
}

func TestDoneFilterAndClear(t *testing.T) {
	e := newEnv(t)
	e.run("add", "a")
	e.run("add", "b")

	code, out, _ := e.run("done", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "toggled")

	_, out, _ = e.run("ls", "--plain", "--filter", "completed")
	assert.Contains(t, out, " 2. [x] b")
	assert.NotContains(t, out, "] a")

	_, out, _ = e.run("ls", "--group")
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "Done")

	code, out, _ = e.run("clear")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "cleared completed")

	code, out, _ = e.run("clear")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "nothing to do")

	_, out, _ = e.run("ls", "--plain")
	assert.Contains(t, out, " 1. [ ] a")
	assert.Contains(t, out, "1 items left")
}

func TestToggleAll(t *testing.T) {
	e := newEnv(t)
	e.run("add", "a")
	e.run("add", "b")

	code, _, _ := e.run("toggle-all")
	require.Equal(t, 0, code)
	_, out, _ := e.run("ls", "--plain")
	assert.Contains(t, out, "0 items left")

	e.run("toggle-all")
	_, out, _ = e.run("ls", "--plain")
	assert.Contains(t, out, "2 items left")
}

func TestEditAndRemove(t *testing.T) {
	e := newEnv(t)
	e.run("add", "milk")
	e.run("add", "eggs")

	code, _, _ := e.run("edit", "1", "oat", "milk")
	require.Equal(t, 0, code)

	code, _, _ = e.run("rm", "2")
	require.Equal(t, 0, code)

	_, out, _ := e.run("ls", "--plain")
	assert.Contains(t, out, " 1. [ ] oat milk")
	assert.NotContains(t, out, "eggs")
}

func TestUsageErrors(t *testing.T) {
	e := newEnv(t)
	e.run("add", "milk")

	cases := []struct {
		name string
		args []string
	}{
		{"blank title", []string{"add", "   "}},
		{"index out of range", []string{"done", "5"}},
		{"not a number", []string{"rm", "x"}},
		{"missing args", []string{"edit", "1"}},
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"ls", "--nope"}},
		{"bad filter", []string{"ls", "--plain", "--filter", "someday"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := e.run(tc.args...)
			assert.Equal(t, codeUsage, code)
			assert.NotEmpty(t, errOut)
		})
	}
}

func TestBlankTitleReportsMessage(t *testing.T) {
	e := newEnv(t)
	_, _, errOut := e.run("add", " ")
	assert.Contains(t, errOut, engine.MsgEmptyTitle)
}

func TestMissingOwnerShowsWarning(t *testing.T) {
	newEnv(t)
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), []string{"--backend", "json", "--theme", "mono", "ls", "--plain"}, &out, &errOut)
	assert.Equal(t, codeFail, code)
	assert.Contains(t, errOut.String(), "No owner id configured")
}

func TestSQLiteBackend(t *testing.T) {
	newEnv(t)
	db := filepath.Join(t.TempDir(), "tada.sqlite")
	run := func(args ...string) (int, string) {
		var out, errOut bytes.Buffer
		full := append([]string{"--backend", "sqlite", "--data", db, "--owner", "3", "--theme", "mono"}, args...)
		return Execute(context.Background(), full, &out, &errOut), out.String()
	}

	code, _ := run("add", "from sqlite")
	require.Equal(t, 0, code)
	code, out := run("ls", "--plain")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "from sqlite")
}

func TestLocalBackendsDefaultToSeparateFiles(t *testing.T) {
	newEnv(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	run := func(backend string, args ...string) (int, string) {
		var out, errOut bytes.Buffer
		full := append([]string{"--backend", backend, "--owner", "5", "--theme", "mono"}, args...)
		return Execute(context.Background(), full, &out, &errOut), out.String()
	}

	code, _ := run("json", "add", "in json")
	require.Equal(t, 0, code)
	code, _ = run("sqlite", "add", "in sqlite")
	require.Equal(t, 0, code)

	assert.FileExists(t, filepath.Join(home, ".tada", "todos.json"))
	assert.FileExists(t, filepath.Join(home, ".tada", "todos.db"))

	code, out := run("json", "ls", "--plain")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "in json")
	assert.NotContains(t, out, "in sqlite")

	code, out = run("sqlite", "ls", "--plain")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "in sqlite")
	assert.NotContains(t, out, "in json")
}

func TestInteractiveGetsFilter(t *testing.T) {
	e := newEnv(t)

	var got tui.Options
	a := &app{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	a.runTUI = func(_ context.Context, eng *engine.Engine, opt tui.Options) error {
		require.NotNil(t, eng)
		got = opt
		return nil
	}
	root := a.rootCmd()
	root.SetArgs([]string{"--backend", "json", "--data", e.data, "--owner", "7", "ls", "--filter", "active"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	a.close()
	assert.Equal(t, model.FilterActive, got.Filter)
}

func TestAuthCommands(t *testing.T) {
	e := newEnv(t)

	code, _, errOut := e.run("auth", "status")
	assert.Equal(t, codeFail, code)
	assert.Contains(t, errOut, "not logged in")

	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"iss": "students-api",
		"exp": exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	code, out, _ := e.run("auth", "login", tok)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "token saved")

	code, out, _ = e.run("auth", "status")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "source:  file")
	assert.NotContains(t, out, tok)

	code, out, _ = e.run("auth", "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "subject: 7")
	assert.Contains(t, out, "issuer:  students-api")

	code, _, _ = e.run("auth", "logout")
	require.Equal(t, 0, code)
	code, _, _ = e.run("auth", "whoami")
	assert.Equal(t, codeFail, code)
}

func TestAuthLoginBadExpiry(t *testing.T) {
	e := newEnv(t)
	code, _, _ := e.run("auth", "login", "tok", "--expires", "tomorrow")
	assert.Equal(t, codeUsage, code)
}
