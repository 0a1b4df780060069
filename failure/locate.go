package failure

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"
)

const kotlinCallQueryPattern = `(call_expression (simple_identifier) @call.name)`

// locateMethodCall returns the 1-based line of the first call to method in a
// build script. Kotlin DSL scripts are parsed; Groovy scripts are scanned.
func locateMethodCall(buildFile, method string) (int, bool) {
	sourceCode, err := os.ReadFile(buildFile)
	if err != nil {
		return 0, false
	}
	if strings.HasSuffix(buildFile, ".kts") {
		return locateKotlinCall(sourceCode, method)
	}
	return scanGroovyCall(sourceCode, method)
}

func locateKotlinCall(sourceCode []byte, method string) (int, bool) {
	lang := kotlin.GetLanguage()
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return 0, false
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(kotlinCallQueryPattern), lang)
	if err != nil {
		return 0, false
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			return 0, false
		}
		for _, capture := range match.Captures {
			if strings.TrimSpace(capture.Node.Content(sourceCode)) == method {
				return int(capture.Node.StartPoint().Row) + 1, true
			}
		}
	}
}

func scanGroovyCall(sourceCode []byte, method string) (int, bool) {
	call := regexp.MustCompile(`(^|[^\w.])` + regexp.QuoteMeta(method) + `\s*(\(|\{|'|"|\s\S)`)

	scanner := bufio.NewScanner(bytes.NewReader(sourceCode))
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if trimmed := strings.TrimSpace(text); strings.HasPrefix(trimmed, "//") {
			continue
		}
		if call.MatchString(text) {
			return line, true
		}
	}
	return 0, false
}
