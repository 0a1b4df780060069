package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
)

const (
	propertiesFile     = "gradle.properties"
	jvmArgsProperty    = "org.gradle.jvmargs"
	javaHomeProperty   = "org.gradle.java.home"
	userHomeEnvVar     = "GRADLE_USER_HOME"
	defaultUserHomeDir = ".gradle"
)

// buildEnvironment answers the build environment query from the properties
// files the daemon reads at startup, so no build is configured for it. The
// user-home file overrides the project file.
func (s *processSession) buildEnvironment(ctx context.Context) (*buildmodel.BuildEnvironment, error) {
	version, err := s.ProtocolVersion(ctx)
	if err != nil {
		return nil, err
	}

	paths := []string{filepath.Join(s.projectPath, propertiesFile)}
	if s.userHome != "" {
		paths = append(paths, filepath.Join(s.userHome, propertiesFile))
	}
	props := make(map[string]string)
	for _, path := range paths {
		if err := readProperties(path, props); err != nil {
			return nil, err
		}
	}

	env := &buildmodel.BuildEnvironment{
		ToolVersion:  version.String(),
		JavaHome:     os.Getenv("JAVA_HOME"),
		JVMArguments: strings.Fields(props[jvmArgsProperty]),
	}
	if home := props[javaHomeProperty]; home != "" {
		env.JavaHome = home
	}
	return env, nil
}

// gradleUserHome resolves the tool's user home directory, or "" when it cannot
// be determined.
func gradleUserHome() string {
	if dir := os.Getenv(userHomeEnvVar); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultUserHomeDir)
}

// readProperties merges the key/value lines of a properties file into props.
// A missing file is not an error.
func readProperties(path string, props map[string]string) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer file.Close()

	var pending string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if pending == "" && (line == "" || line[0] == '#' || line[0] == '!') {
			continue
		}
		if continued, ok := strings.CutSuffix(line, `\`); ok {
			pending += continued
			continue
		}
		line, pending = pending+line, ""

		key, value, found := strings.Cut(line, "=")
		if colon := strings.IndexByte(line, ':'); colon >= 0 && (!found || colon < len(key)) {
			key, value = line[:colon], line[colon+1:]
		}
		props[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}
