package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "context", errors.New("cause"))))
}

func TestExitError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := WrapExitError(ExitCommandError, "context", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "context")
	assert.Contains(t, err.Error(), "cause")
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := runCommand(t, "--format", "xml", "explain", "whatever.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestExplain_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "query.yaml", `
select: [id, username]
from: users
where:
  all:
    - column: status
      op: eq
      value: active
    - column: age
      op: gte
      value: 21
limit: 10
`)

	stdout, _, err := runCommand(t, "explain", path)
	require.NoError(t, err)

	assert.Contains(t, stdout,
		"SELECT id, username FROM users WHERE (status = #{param1} AND age >= #{param2}) LIMIT #{param3}")
	assert.Contains(t, stdout, "param1 = active")
	assert.Contains(t, stdout, "param2 = 21")
	assert.Contains(t, stdout, "param3 = 10")
}

func TestExplain_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "query.yaml", `
from: users
where:
  column: deleted_at
  op: is_null
`)

	stdout, _, err := runCommand(t, "--format", "json", "explain", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, `"sql": "SELECT * FROM users WHERE deleted_at IS NULL"`)
	assert.Contains(t, stdout, `"parameters": {}`)
}

func TestExplain_Joins(t *testing.T) {
	path := writeFile(t, t.TempDir(), "query.yaml", `
select: [o.id]
from: orders
joins:
  - kind: inner
    table: users
    alias: u
    on:
      column: o.user_id
      op: eq
      value: u.id
order_by:
  - column: o.id
    direction: desc
`)

	stdout, _, err := runCommand(t, "explain", path)
	require.NoError(t, err)

	assert.Contains(t, stdout,
		"SELECT o.id FROM orders INNER JOIN users AS u ON o.user_id = #{param1} ORDER BY o.id DESC")
}

func TestExplain_ILike(t *testing.T) {
	path := writeFile(t, t.TempDir(), "query.yaml", `
from: users
where:
  column: email
  op: ilike
  value: "%@example.com"
`)

	stdout, _, err := runCommand(t, "explain", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "UPPER(email) LIKE UPPER(#{param1})")
}

func TestExplain_MissingFile(t *testing.T) {
	_, _, err := runCommand(t, "explain", filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExplain_UnknownOp(t *testing.T) {
	path := writeFile(t, t.TempDir(), "query.yaml", `
from: users
where:
  column: status
  op: resembles
  value: x
`)

	_, _, err := runCommand(t, "explain", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "resembles")
}

func TestExplain_EmptyPredicateNode(t *testing.T) {
	path := writeFile(t, t.TempDir(), "query.yaml", `
from: users
where: {}
`)

	_, _, err := runCommand(t, "explain", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestExplain_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "query.yaml", "from: [unclosed")

	_, _, err := runCommand(t, "explain", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGenerate(t *testing.T) {
	entityDir := t.TempDir()
	writeFile(t, entityDir, "shop.cue", `package entities

entity: User: {
	table: "users"
	columns: [
		{name: "id", type: "string", primaryKey: true},
		{name: "username", type: "string"},
	]
}
`)
	outDir := filepath.Join(t.TempDir(), "model")

	stdout, _, err := runCommand(t, "generate", entityDir, "-o", outDir, "--package", "model")
	require.NoError(t, err)
	assert.Contains(t, stdout, "generated 1 files for 1 entities")

	src, err := os.ReadFile(filepath.Join(outDir, "user_meta.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package model")
	assert.Contains(t, string(src), `const UserTable = "users"`)
}

func TestGenerate_JSON(t *testing.T) {
	entityDir := t.TempDir()
	writeFile(t, entityDir, "shop.cue", `package entities

entity: Widget: {
	columns: [{name: "id", type: "string", primaryKey: true}]
}
`)

	stdout, _, err := runCommand(t,
		"--format", "json", "generate", entityDir, "-o", filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)

	assert.Contains(t, stdout, `"Widget"`)
	assert.Contains(t, stdout, `"widget_meta.go"`)
}

func TestGenerate_MissingDirectory(t *testing.T) {
	_, _, err := runCommand(t, "generate", filepath.Join(t.TempDir(), "nope"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerate_InvalidEntity(t *testing.T) {
	entityDir := t.TempDir()
	writeFile(t, entityDir, "bad.cue", `package entities

entity: Widget: {
	columns: [{name: "id", type: "uuid"}]
}
`)

	_, _, err := runCommand(t, "generate", entityDir, "-o", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestVerboseGoesToStderr(t *testing.T) {
	path := writeFile(t, t.TempDir(), "query.yaml", "from: users\n")

	stdout, stderr, err := runCommand(t, "-v", "explain", path)
	require.NoError(t, err)

	assert.Contains(t, stderr, "compiling descriptor")
	assert.NotContains(t, stdout, "compiling descriptor")
}

// Guard against accidentally re-wiring subcommand registration.
func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make([]string, 0, 2)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "explain")
	assert.Contains(t, names, "generate")
}
