// Package failure turns errors raised while talking to the build tool into
// categorized, user-facing import errors.
package failure

import (
	"fmt"
	"strings"
)

// Category classifies an ImportError.
type Category string

const (
	CategoryImport             Category = "import"
	CategoryUnsupportedVersion Category = "unsupported-version"
	CategoryMissingMethod      Category = "missing-method"
	CategoryOutOfMemory        Category = "out-of-memory"
	CategoryClassNotFound      Category = "class-not-found"
	CategoryUnknownHost        Category = "unknown-host"
	CategoryConnectionTimeout  Category = "connection-timeout"
	CategoryVersionMismatch    Category = "version-mismatch"
	CategoryUncategorized      Category = "uncategorized"
)

// Location points into a build file. Line is zero when only the file is known.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line,omitempty"`
}

// Hint renders the location the way build tool messages do.
func (l Location) Hint() string {
	if l.Line > 0 {
		return fmt.Sprintf("Build file '%s' line: %d", l.File, l.Line)
	}
	return fmt.Sprintf("Build file: '%s'", l.File)
}

// ImportError is the only error the importer reports to its callers.
type ImportError struct {
	Category    Category
	Message     string
	Remediation string
	Location    *Location
	Cause       error
}

func (e *ImportError) Error() string {
	parts := []string{e.Message}
	if e.Remediation != "" {
		parts = append(parts, e.Remediation)
	}
	if e.Location != nil {
		parts = append(parts, e.Location.Hint())
	}
	return strings.Join(parts, "\n")
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// New creates an ImportError of CategoryImport.
func New(message string, cause error) *ImportError {
	return &ImportError{Category: CategoryImport, Message: message, Cause: cause}
}

// Newf formats an ImportError of CategoryImport with no cause.
func Newf(format string, args ...any) *ImportError {
	return &ImportError{Category: CategoryImport, Message: fmt.Sprintf(format, args...)}
}
