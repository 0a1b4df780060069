package extensions

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionsCommand_ListsRegisteredUnits(t *testing.T) {
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())

	expected := `java (default) - language level, JDK and debugger support for JVM projects
external-project (default) - attaches the build tool's project hierarchy to the project
base (default, terminal) - default project, module, content root, dependency and task resolution

Default chain: java -> external-project -> base
`
	assert.Equal(t, expected, out.String())
}

func TestExtensionsCommand_RejectsArguments(t *testing.T) {
	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"java"})

	assert.Error(t, cmd.Execute())
}
