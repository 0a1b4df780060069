// Package formatters renders an imported project graph for the terminal.
package formatters

import (
	"fmt"
	"strings"
)

// Formatter is the interface that all graph formatters must implement.
type Formatter interface {
	// Format converts an import view to a formatted string representation.
	Format(v View) (string, error)
}

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatText    OutputFormat = "text"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatDOT     OutputFormat = "dot"
	OutputFormatMermaid OutputFormat = "mermaid"
)

var outputFormats = []OutputFormat{OutputFormatText, OutputFormatJSON, OutputFormatDOT, OutputFormatMermaid}

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(value string) (OutputFormat, bool) {
	for _, f := range outputFormats {
		if string(f) == value {
			return f, true
		}
	}
	return "", false
}

// SupportedFormats lists the accepted flag values.
func SupportedFormats() string {
	names := make([]string, len(outputFormats))
	for i, f := range outputFormats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

// NewFormatter creates a Formatter for the specified format type.
func NewFormatter(format string) (Formatter, error) {
	f, ok := ParseOutputFormat(format)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, SupportedFormats())
	}

	switch f {
	case OutputFormatJSON:
		return &JSONFormatter{}, nil
	case OutputFormatDOT:
		return &DOTFormatter{}, nil
	case OutputFormatMermaid:
		return &MermaidFormatter{}, nil
	default:
		return &TextFormatter{}, nil
	}
}
