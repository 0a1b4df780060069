package failure

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/LegacyCodeHQ/projectimport/connection"
)

const (
	settingsHint   = "Please fix the project's build tool settings."
	proxyHint      = "If you are behind an HTTP proxy, please configure the proxy settings for the build tool."
	bugReportHint  = "This is an unexpected error. Please file a bug report including the import log."
	versionFixHint = "Please point the project to a supported build tool version in the import settings or in the project's wrapper configuration."
	heapSpace      = "Java heap space"
	heapSpaceHint  = ". Configure Gradle memory settings using '-Xmx' JVM option (e.g. '-Xmx2048m'.)"
)

var (
	missingMethodTypes = []string{
		"org.gradle.api.internal.MissingMethodException",
		"groovy.lang.MissingMethodException",
		"org.gradle.internal.metaobject.AbstractDynamicObject$CustomMessageMissingMethodException",
	}
	classNotFoundTypes = []string{
		"java.lang.ClassNotFoundException",
		"java.lang.NoClassDefFoundError",
	}
	timeoutMessages = []string{"Connection timed out", "connect timed out", "Read timed out"}

	missingMethodPattern = regexp.MustCompile(`Could not find method (\w+)\(`)
	versionRequired      = regexp.MustCompile(`Gradle version .* is required`)
	buildFileLine        = regexp.MustCompile(`Build file '(.+)' line: (\d+)`)
)

// Translate classifies err into an ImportError. buildFile is the build script
// to point at when no better location is known; it may be empty.
func Translate(err error, projectPath, buildFile string) *ImportError {
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr
	}

	root := RootCause(err)
	rootType, rootMessage := describe(root)

	if isUnsupportedVersion(err, rootType) {
		return &ImportError{
			Category:    CategoryUnsupportedVersion,
			Message:     "The project is using an unsupported version of Gradle.",
			Remediation: versionFixHint,
			Cause:       err,
		}
	}

	location := extractLocation(err)
	if location == nil && buildFile != "" {
		location = &Location{File: buildFile}
	}

	if slices.Contains(missingMethodTypes, rootType) {
		if match := missingMethodPattern.FindStringSubmatch(rootMessage); match != nil {
			method := match[1]
			if location != nil && location.Line == 0 {
				if line, ok := locateMethodCall(location.File, method); ok {
					location = &Location{File: location.File, Line: line}
				}
			}
			return &ImportError{
				Category: CategoryMissingMethod,
				Message:  fmt.Sprintf("Gradle DSL method not found: '%s()'", method),
				Remediation: strings.Join([]string{
					"Possible causes:",
					fmt.Sprintf("The project '%s' may be using a version of Gradle that does not contain the method.", filepath.Base(projectPath)),
					"The build file may be missing a Gradle plugin.",
					"The build file may contain a typo in the method name.",
				}, "\n"),
				Location: location,
				Cause:    err,
			}
		}
	}

	if rootType == "java.lang.OutOfMemoryError" {
		message := "Out of memory"
		if rootMessage != "" {
			message += ": " + rootMessage
		}
		if strings.HasSuffix(rootMessage, heapSpace) {
			message += heapSpaceHint
		} else if !strings.HasSuffix(message, ".") {
			message += "."
		}
		return &ImportError{
			Category:    CategoryOutOfMemory,
			Message:     message,
			Remediation: settingsHint,
			Cause:       err,
		}
	}

	if slices.Contains(classNotFoundTypes, rootType) {
		return &ImportError{
			Category:    CategoryClassNotFound,
			Message:     fmt.Sprintf("Unable to load class '%s'.", strings.ReplaceAll(rootMessage, "/", ".")),
			Remediation: bugReportHint,
			Cause:       err,
		}
	}

	if host, ok := unknownHost(root, rootType, rootMessage); ok {
		return &ImportError{
			Category:    CategoryUnknownHost,
			Message:     fmt.Sprintf("Unknown host '%s'.", host),
			Remediation: proxyHint,
			Location:    location,
			Cause:       err,
		}
	}

	if containsAny(rootMessage, timeoutMessages) {
		return &ImportError{
			Category:    CategoryConnectionTimeout,
			Message:     "Connection timed out.",
			Remediation: proxyHint,
			Location:    location,
			Cause:       err,
		}
	}

	if versionRequired.MatchString(rootMessage) {
		return &ImportError{
			Category:    CategoryVersionMismatch,
			Message:     rootMessage,
			Remediation: settingsHint,
			Cause:       err,
		}
	}

	message := rootMessage
	if message == "" {
		message = stackDump(err)
	}
	return &ImportError{
		Category: CategoryUncategorized,
		Message:  message,
		Location: location,
		Cause:    err,
	}
}

// RootCause returns the innermost error of err's chain. For joined errors the
// first branch is followed.
func RootCause(err error) error {
	for err != nil {
		var next error
		switch e := err.(type) {
		case interface{ Unwrap() error }:
			next = e.Unwrap()
		case interface{ Unwrap() []error }:
			if errs := e.Unwrap(); len(errs) > 0 {
				next = errs[0]
			}
		}
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

// describe returns the tool-side type name and bare message of err.
func describe(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if toolErr, ok := err.(*connection.ToolError); ok {
		return toolErr.Type, toolErr.Message
	}
	return "", err.Error()
}

func isUnsupportedVersion(err error, rootType string) bool {
	var versionErr *connection.UnsupportedVersionError
	if errors.As(err, &versionErr) {
		return true
	}
	return rootType == "org.gradle.tooling.UnsupportedVersionException"
}

func unknownHost(root error, rootType, rootMessage string) (string, bool) {
	if rootType == "java.net.UnknownHostException" {
		return rootMessage, true
	}
	var dnsErr *net.DNSError
	if errors.As(root, &dnsErr) && dnsErr.IsNotFound {
		return dnsErr.Name, true
	}
	return "", false
}

// extractLocation finds the innermost structured location in err's chain,
// falling back to a location embedded in a message.
func extractLocation(err error) *Location {
	var found *Location
	for e := err; e != nil; e = errors.Unwrap(e) {
		if toolErr, ok := e.(*connection.ToolError); ok && toolErr.Location != nil {
			found = &Location{File: toolErr.Location.File, Line: toolErr.Location.Line}
			continue
		}
		if match := buildFileLine.FindStringSubmatch(messageOf(e)); match != nil {
			line, _ := strconv.Atoi(match[2])
			found = &Location{File: match[1], Line: line}
		}
	}
	return found
}

func messageOf(err error) string {
	if toolErr, ok := err.(*connection.ToolError); ok {
		return toolErr.Message
	}
	return err.Error()
}

func stackDump(err error) string {
	var b strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		if b.Len() > 0 {
			b.WriteString("\nCaused by: ")
		}
		toolErr, ok := e.(*connection.ToolError)
		switch {
		case ok && toolErr.Stack != "":
			b.WriteString(strings.TrimSpace(toolErr.Stack))
		case ok:
			b.WriteString(toolErr.Type)
		default:
			fmt.Fprintf(&b, "%T", e)
		}
	}
	return b.String()
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
