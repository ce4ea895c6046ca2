package main

import (
	"bytes"
	"testing"

	"github.com/aretw0/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "scope version "+scope.Version+"\n", execute(t, "version"))
}

func TestDemoCommand(t *testing.T) {
	out := execute(t, "demo", "--no-banner", "--config", "")
	assert.Contains(t, out, "== stacked declarations ==")
	assert.Contains(t, out, "Freeing pointer (block 1)\nFreeing pointer (block 0)\n")
}

func TestDemoCommand_Metrics(t *testing.T) {
	out := execute(t, "demo", "--no-banner", "--config", "", "--metrics")
	assert.Contains(t, out, `scope_scope_enter_total{scope="interrupt_free"} 1`)
}

func TestExplainCommand(t *testing.T) {
	assert.Contains(t, execute(t, "explain"), "scope.Guard(before, after)")
}
