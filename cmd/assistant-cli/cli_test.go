package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestAskOffline(t *testing.T) {
	out := execute(t, "", "ask", "--offline", "add", "milk", "to", "the", "list")

	assert.Contains(t, out, "milk")
	assert.Contains(t, out, "shopping list")
}

func TestChatKeepsContext(t *testing.T) {
	out := execute(t, "add bread to the list\ncheck it off\nexit\n", "chat", "--offline", "--session", "cli-test")

	assert.Contains(t, out, "Session cli-test.")
	assert.Contains(t, out, `Checked bread off the shopping list.`)
}

func TestChildRefused(t *testing.T) {
	out := execute(t, "", "ask", "--offline", "--role", "child", "--session", "child-test", "delete", "all", "budget", "entries")

	assert.Contains(t, out, "as a child you can't")
}

func TestRules(t *testing.T) {
	out := execute(t, "", "rules")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 10)
	assert.Contains(t, lines[0], "RULE")
	assert.Contains(t, lines[1], "greeting")
}
