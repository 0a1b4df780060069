package failure

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/connection"
)

func toolFailure(rootType, rootMessage string) error {
	return &connection.ToolError{
		Type:    "org.gradle.tooling.BuildException",
		Message: "Could not run build action",
		Cause:   &connection.ToolError{Type: rootType, Message: rootMessage},
	}
}

func TestTranslate_PassesImportErrorsThrough(t *testing.T) {
	original := Newf("no modules found in %s", "/p")

	got := Translate(fmt.Errorf("wrapped: %w", original), "/p", "/p/build.gradle")

	assert.Same(t, original, got)
}

func TestTranslate_UnsupportedVersion(t *testing.T) {
	err := &connection.UnsupportedVersionError{
		Version: buildmodel.Version{Major: 1, Minor: 1},
		Minimum: buildmodel.MinimumSupportedVersion,
	}

	got := Translate(err, "/p", "/p/build.gradle")

	assert.Equal(t, CategoryUnsupportedVersion, got.Category)
	assert.Nil(t, got.Location)
	assert.NotEmpty(t, got.Remediation)

	got = Translate(toolFailure("org.gradle.tooling.UnsupportedVersionException", "old"), "/p", "")
	assert.Equal(t, CategoryUnsupportedVersion, got.Category)
}

func TestTranslate_MissingMethodInGroovyScript(t *testing.T) {
	project := t.TempDir()
	buildFile := filepath.Join(project, "build.gradle")
	require.NoError(t, os.WriteFile(buildFile, []byte("plugins {\n    id 'java'\n}\n// compile 'x'\ndependencies {\n    compile 'junit:junit:4.12'\n}\n"), 0o644))

	got := Translate(toolFailure("org.gradle.api.internal.MissingMethodException", "Could not find method compile() for arguments [junit:junit:4.12]"), project, buildFile)

	assert.Equal(t, CategoryMissingMethod, got.Category)
	assert.Equal(t, "Gradle DSL method not found: 'compile()'", got.Message)
	assert.Contains(t, got.Remediation, fmt.Sprintf("The project '%s'", filepath.Base(project)))
	assert.Contains(t, got.Remediation, "missing a Gradle plugin")
	require.NotNil(t, got.Location)
	assert.Equal(t, 6, got.Location.Line)
}

func TestTranslate_MissingMethodInKotlinScript(t *testing.T) {
	project := t.TempDir()
	buildFile := filepath.Join(project, "build.gradle.kts")
	script := "plugins {\n    java\n}\n\ndependencies {\n    implementation(\"a:b:1\")\n    compile(\"junit:junit:4.12\")\n}\n"
	require.NoError(t, os.WriteFile(buildFile, []byte(script), 0o644))

	got := Translate(toolFailure("groovy.lang.MissingMethodException", "Could not find method compile() for arguments"), project, buildFile)

	assert.Equal(t, CategoryMissingMethod, got.Category)
	require.NotNil(t, got.Location)
	assert.Equal(t, 7, got.Location.Line)
	assert.Equal(t, fmt.Sprintf("Build file '%s' line: 7", buildFile), got.Location.Hint())
}

func TestTranslate_OutOfMemory(t *testing.T) {
	got := Translate(toolFailure("java.lang.OutOfMemoryError", "Java heap space"), "/p", "/p/build.gradle")

	assert.Equal(t, CategoryOutOfMemory, got.Category)
	assert.Contains(t, got.Error(), "-Xmx")
	assert.Nil(t, got.Location)

	got = Translate(toolFailure("java.lang.OutOfMemoryError", "Metaspace"), "/p", "/p/build.gradle")
	assert.Equal(t, "Out of memory: Metaspace.", got.Message)
	assert.NotContains(t, got.Error(), "-Xmx")

	got = Translate(toolFailure("java.lang.OutOfMemoryError", ""), "/p", "/p/build.gradle")
	assert.Equal(t, "Out of memory.", got.Message)
}

func TestTranslate_ClassNotFound(t *testing.T) {
	got := Translate(toolFailure("java.lang.ClassNotFoundException", "com/example/Plugin"), "/p", "/p/build.gradle")

	assert.Equal(t, CategoryClassNotFound, got.Category)
	assert.Equal(t, "Unable to load class 'com.example.Plugin'.", got.Message)
	assert.Nil(t, got.Location)
}

func TestTranslate_UnknownHost(t *testing.T) {
	got := Translate(toolFailure("java.net.UnknownHostException", "repo.example.com"), "/p", "")

	assert.Equal(t, CategoryUnknownHost, got.Category)
	assert.Equal(t, "Unknown host 'repo.example.com'.", got.Message)
	assert.Contains(t, got.Error(), "proxy")

	dnsErr := &net.DNSError{Err: "no such host", Name: "plugins.example.org", IsNotFound: true}
	got = Translate(fmt.Errorf("download failed: %w", dnsErr), "/p", "")
	assert.Equal(t, CategoryUnknownHost, got.Category)
	assert.Contains(t, got.Message, "plugins.example.org")
}

func TestTranslate_ConnectionTimeout(t *testing.T) {
	got := Translate(toolFailure("java.net.ConnectException", "Connection timed out: connect"), "/p", "")

	assert.Equal(t, CategoryConnectionTimeout, got.Category)
	assert.Contains(t, got.Remediation, "proxy")
}

func TestTranslate_VersionMismatchHasNoLocation(t *testing.T) {
	got := Translate(toolFailure("java.lang.RuntimeException", "Gradle version 2.2 is required. Current version is 1.12."), "/p", "/p/build.gradle")

	assert.Equal(t, CategoryVersionMismatch, got.Category)
	assert.Equal(t, "Gradle version 2.2 is required. Current version is 1.12.", got.Message)
	assert.Nil(t, got.Location)
}

func TestTranslate_FallbackKeepsMessage(t *testing.T) {
	got := Translate(toolFailure("java.lang.RuntimeException", "something odd"), "/p", "")

	assert.Equal(t, CategoryUncategorized, got.Category)
	assert.Equal(t, "something odd", got.Message)
	assert.Empty(t, got.Remediation)
	assert.Equal(t, "something odd", got.Error())
}

func TestTranslate_FallbackUsesStackWhenMessageEmpty(t *testing.T) {
	err := &connection.ToolError{Type: "java.lang.NullPointerException", Stack: "java.lang.NullPointerException\n\tat Foo.bar(Foo.java:1)"}

	got := Translate(err, "/p", "")

	assert.Contains(t, got.Message, "at Foo.bar(Foo.java:1)")
}

func TestTranslate_LocationHints(t *testing.T) {
	structured := &connection.ToolError{
		Type:     "org.gradle.api.GradleScriptException",
		Message:  "A problem occurred evaluating root project",
		Location: &connection.Location{File: "/p/app/build.gradle", Line: 3},
		Cause:    errors.New("boom"),
	}
	got := Translate(structured, "/p", "/p/build.gradle")
	assert.Equal(t, &Location{File: "/p/app/build.gradle", Line: 3}, got.Location)

	fromMessage := errors.New("Build file '/p/lib/build.gradle' line: 14")
	got = Translate(fmt.Errorf("evaluation failed: %w", fromMessage), "/p", "/p/build.gradle")
	assert.Equal(t, &Location{File: "/p/lib/build.gradle", Line: 14}, got.Location)

	got = Translate(errors.New("boom"), "/p", "/p/build.gradle")
	assert.Equal(t, "boom\nBuild file: '/p/build.gradle'", got.Error())
}

func TestRootCause(t *testing.T) {
	inner := errors.New("inner")

	assert.Same(t, inner, RootCause(fmt.Errorf("a: %w", fmt.Errorf("b: %w", inner))))
	assert.Same(t, inner, RootCause(errors.Join(inner, errors.New("other"))))
	assert.Nil(t, RootCause(nil))
}
