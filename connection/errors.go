package connection

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
)

// ErrBulkActionUnsupported is returned by Session.FetchAll when the tool's
// protocol predates the bulk action.
var ErrBulkActionUnsupported = errors.New("bulk model action is not supported by this build tool version")

// Location points into a build script.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// ToolError is a failure reported by the build tool itself. Type carries the
// tool-side error class name, e.g. "java.lang.OutOfMemoryError".
type ToolError struct {
	Type     string
	Message  string
	Location *Location
	Stack    string
	Cause    error
}

func (e *ToolError) Error() string {
	if e.Type == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.Type
	}
	return e.Type + ": " + e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Cause
}

// toolErrorReport is the JSON form written by the export script on failure.
type toolErrorReport struct {
	Type     string           `json:"type"`
	Message  string           `json:"message"`
	Location *Location        `json:"location,omitempty"`
	Stack    string           `json:"stack,omitempty"`
	Cause    *toolErrorReport `json:"cause,omitempty"`
}

func (r *toolErrorReport) toError() *ToolError {
	if r == nil {
		return nil
	}
	err := &ToolError{
		Type:     r.Type,
		Message:  r.Message,
		Location: r.Location,
		Stack:    r.Stack,
	}
	if cause := r.Cause.toError(); cause != nil {
		err.Cause = cause
	}
	return err
}

// DecodeToolError parses an error report produced by the export script.
func DecodeToolError(data []byte) (*ToolError, error) {
	var report toolErrorReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode tool error report: %w", err)
	}
	return report.toError(), nil
}

// UnsupportedVersionError reports a tool older than the minimum protocol
// version the importer speaks.
type UnsupportedVersionError struct {
	Version buildmodel.Version
	Minimum buildmodel.Version
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("build tool version %s is not supported; minimum supported version is %s", e.Version, e.Minimum)
}
