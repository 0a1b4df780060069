package initscript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
)

func TestGenerate_SubstitutesJarArray(t *testing.T) {
	script := Generate(buildmodel.Version{Major: 7, Minor: 4}, false, []string{"/ext/a.jar", `C:\ext\b.jar`})

	assert.Contains(t, script, `classpath files(["/ext/a.jar", "C:\\ext\\b.jar"])`)
	assert.NotContains(t, script, jarsPlaceholder)
	assert.NotContains(t, script, "projectimport.buildSupport")
}

func TestGenerate_PicksTemplateByVersion(t *testing.T) {
	modern := Generate(buildmodel.Version{Major: 4}, false, nil)
	legacy := Generate(buildmodel.Version{Major: 3, Minor: 5}, false, nil)

	assert.NotContains(t, modern, "inheritOutputDirs")
	assert.Contains(t, legacy, "inheritOutputDirs")
	assert.Contains(t, legacy, "classpath files([])")
}

func TestGenerate_AppendsBuildSupportTemplate(t *testing.T) {
	script := Generate(buildmodel.Version{Major: 8}, true, []string{"/ext/a.jar"})

	assert.True(t, strings.HasPrefix(script, "initscript {"))
	assert.Contains(t, script, "projectimport.buildSupport")
}

func TestExtractTestFilters(t *testing.T) {
	filters, rest := ExtractTestFilters([]string{"--info", "--tests", "com.example.*", "--tests=FooTest", "--offline", "--tests"})

	assert.Equal(t, []string{"com.example.*", "FooTest"}, filters)
	assert.Equal(t, []string{"--info", "--offline", "--tests"}, rest)
}

func TestTestFilterScript(t *testing.T) {
	script := TestFilterScript([]string{"com.example.*", `Quoted"Name`})

	assert.Contains(t, script, `def filters = ["com.example.*", "Quoted\"Name"]`)
	assert.NotContains(t, script, filtersPlaceholder)
}

func TestExporter_ReadsOutputProperty(t *testing.T) {
	assert.Contains(t, Exporter(), "projectimport.output")
}
