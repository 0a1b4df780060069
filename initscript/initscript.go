// Package initscript renders the init scripts passed to the build tool when
// models are fetched or tasks are run.
package initscript

import (
	"embed"
	"strings"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
)

const (
	jarsPlaceholder    = "${EXTENSIONS_JARS_PATH}"
	filtersPlaceholder = "${TEST_NAME_FILTERS}"
)

//go:embed templates/*.gradle
var templates embed.FS

func mustTemplate(name string) string {
	data, err := templates.ReadFile("templates/" + name)
	if err != nil {
		panic("initscript: missing template " + name)
	}
	return string(data)
}

// Generate renders the extension init script: the jar paths are substituted
// into the template matching the tool version, and the build-support template
// is appended when buildSupport is set.
func Generate(version buildmodel.Version, buildSupport bool, jars []string) string {
	name := "extensions_legacy.gradle"
	if version.AtLeast(buildmodel.InitScriptDSLVersion) {
		name = "extensions.gradle"
	}

	script := strings.ReplaceAll(mustTemplate(name), jarsPlaceholder, quoteArray(jars))
	if buildSupport {
		script += mustTemplate("build_support.gradle")
	}
	return script
}

// Exporter returns the script that writes the fetched models as a JSON
// snapshot to the path given by the projectimport.output system property.
func Exporter() string {
	return mustTemplate("exporter.gradle")
}

// ExtractTestFilters removes every "--tests <pattern>" pair from args. The
// patterns are returned separately so they can be injected through
// TestFilterScript.
func ExtractTestFilters(args []string) (filters, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--tests" && i+1 < len(args):
			filters = append(filters, args[i+1])
			i++
		case strings.HasPrefix(arg, "--tests="):
			filters = append(filters, strings.TrimPrefix(arg, "--tests="))
		default:
			rest = append(rest, arg)
		}
	}
	return filters, rest
}

// TestFilterScript renders the test filter script for the given patterns.
func TestFilterScript(filters []string) string {
	return strings.ReplaceAll(mustTemplate("test_filter.gradle"), filtersPlaceholder, quoteArray(filters))
}

// quoteArray renders paths as a JSON-like array literal.
func quoteArray(items []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('"')
		item = strings.ReplaceAll(item, `\`, `\\`)
		item = strings.ReplaceAll(item, `"`, `\"`)
		b.WriteString(item)
		b.WriteByte('"')
	}
	b.WriteByte(']')
	return b.String()
}
