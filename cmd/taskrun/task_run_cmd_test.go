package taskrun

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--project", t.TempDir()}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTaskRunCommand_MovesTestFiltersIntoInitScript(t *testing.T) {
	out, err := execute(t, "test", "--", "--tests", "com.acme.*Test", "--info")

	require.NoError(t, err)
	assert.Contains(t, out, "tasks: test\n")
	assert.Contains(t, out, "jvm arguments: \n")
	assert.Contains(t, out, "arguments: --info\n")
	assert.Contains(t, out, "init script:\n")
	assert.Contains(t, out, `"com.acme.*Test"`)
}

func TestTaskRunCommand_DebugAddsAgent(t *testing.T) {
	out, err := execute(t, "run", "--debug")

	require.NoError(t, err)
	assert.Contains(t, out, "-agentlib:jdwp=transport=dt_socket,server=y,suspend=y,address=5005")
	assert.NotContains(t, out, "init script:")
}

func TestTaskRunCommand_DebugIgnoredWithoutJavaUnit(t *testing.T) {
	out, err := execute(t, "run", "--debug", "--extensions", "base")

	require.NoError(t, err)
	assert.NotContains(t, out, "jdwp")
}

func TestTaskRunCommand_RequiresTaskBeforeDash(t *testing.T) {
	_, err := execute(t, "--", "--info")

	assert.Error(t, err)
}
