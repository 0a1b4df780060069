package connection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/initscript"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

const (
	outputProperty = "projectimport.output"
	modelsProperty = "projectimport.models"
	errorSuffix    = ".error.json"
)

var versionLine = regexp.MustCompile(`(?m)^Gradle\s+(\S+)`)

// CommandRunner runs a prepared command. Tests replace it to avoid spawning
// the build tool.
type CommandRunner func(cmd *exec.Cmd) error

// ProcessProvider runs the build tool executable for every query.
type ProcessProvider struct {
	Runner   CommandRunner
	LookPath func(file string) (string, error)
	// TempDir is where per-session scripts and outputs are written.
	TempDir string
	// UserHome overrides the tool's user home directory.
	UserHome string
}

func (p ProcessProvider) Connect(ctx context.Context, projectPath string, s *settings.Settings, l Listener) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s = s.OrDefault()

	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	executable, err := Executable(projectPath, s, lookPath)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp(p.TempDir, "projectimport-")
	if err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	runner := p.Runner
	if runner == nil {
		runner = func(cmd *exec.Cmd) error { return cmd.Run() }
	}
	userHome := p.UserHome
	if userHome == "" {
		userHome = gradleUserHome()
	}

	return &processSession{
		projectPath: projectPath,
		executable:  executable,
		settings:    s,
		listener:    l,
		workDir:     workDir,
		userHome:    userHome,
		run:         runner,
	}, nil
}

// Executable picks the build tool launcher for a project according to the
// configured distribution.
func Executable(projectPath string, s *settings.Settings, lookPath func(string) (string, error)) (string, error) {
	s = s.OrDefault()
	wrapper := filepath.Join(projectPath, wrapperName())

	switch s.Distribution {
	case settings.DistributionWrapper:
		if _, err := os.Stat(wrapper); err != nil {
			return "", fmt.Errorf("wrapper distribution selected but %s does not exist", wrapper)
		}
		return wrapper, nil
	case settings.DistributionLocal:
		if s.HomePath == "" {
			return "", errors.New("local distribution selected but no home path is configured")
		}
		return filepath.Join(s.HomePath, "bin", launcherName()), nil
	default:
		if _, err := os.Stat(wrapper); err == nil {
			return wrapper, nil
		}
		path, err := lookPath(launcherName())
		if err != nil {
			return "", fmt.Errorf("build tool executable not found: %w", err)
		}
		return path, nil
	}
}

func wrapperName() string {
	if runtime.GOOS == "windows" {
		return "gradlew.bat"
	}
	return "gradlew"
}

func launcherName() string {
	if runtime.GOOS == "windows" {
		return "gradle.bat"
	}
	return "gradle"
}

type processSession struct {
	projectPath string
	executable  string
	settings    *settings.Settings
	listener    Listener
	workDir     string
	userHome    string
	run         CommandRunner

	version *buildmodel.Version
	calls   int
}

func (s *processSession) ProtocolVersion(ctx context.Context) (buildmodel.Version, error) {
	if s.version != nil {
		return *s.version, nil
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, s.executable, "--version")
	cmd.Dir = s.projectPath
	cmd.Stdout = &stdout
	if err := s.run(cmd); err != nil {
		if ctx.Err() != nil {
			return buildmodel.Version{}, ctx.Err()
		}
		return buildmodel.Version{}, &ToolError{Type: "process", Message: "failed to query build tool version", Cause: err}
	}

	match := versionLine.FindStringSubmatch(stdout.String())
	if match == nil {
		return buildmodel.Version{}, fmt.Errorf("unrecognized version output: %q", strings.TrimSpace(stdout.String()))
	}
	version, err := buildmodel.ParseVersion(match[1])
	if err != nil {
		return buildmodel.Version{}, err
	}
	s.version = &version
	return version, nil
}

func (s *processSession) FetchAll(ctx context.Context, req Request) (*Result, error) {
	version, err := s.ProtocolVersion(ctx)
	if err != nil {
		return nil, err
	}
	if !version.AtLeast(buildmodel.BulkActionVersion) {
		return nil, ErrBulkActionUnsupported
	}

	snapshot, err := s.export(ctx, req, req.ModelKinds)
	if err != nil {
		return nil, err
	}
	return &Result{
		Project: snapshot.Project,
		Models:  snapshot.ModelSet(req.ModelKinds),
	}, nil
}

func (s *processSession) FetchModel(ctx context.Context, kind buildmodel.ModelKind, req Request) (any, error) {
	if kind == buildmodel.KindBuildEnvironment {
		return s.buildEnvironment(ctx)
	}
	snapshot, err := s.export(ctx, req, []buildmodel.ModelKind{kind})
	if err != nil {
		return nil, err
	}
	model, ok := snapshot.Model(kind)
	if !ok {
		return nil, fmt.Errorf("build tool did not report model %s", kind)
	}
	return model, nil
}

func (s *processSession) Close() error {
	return os.RemoveAll(s.workDir)
}

func (s *processSession) export(ctx context.Context, req Request, kinds []buildmodel.ModelKind) (*buildmodel.Snapshot, error) {
	s.calls++
	output := filepath.Join(s.workDir, fmt.Sprintf("snapshot-%d.json", s.calls))

	args, err := s.arguments(req, kinds, output)
	if err != nil {
		return nil, err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.executable, args...)
	cmd.Dir = s.projectPath
	if req.WorkingDir != "" {
		cmd.Dir = req.WorkingDir
	}
	cmd.Stdout = outputWriter{listener: s.listener, stdout: true}
	cmd.Stderr = io.MultiWriter(&stderr, outputWriter{listener: s.listener})

	if err := s.run(cmd); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("model fetch cancelled: %w", ctx.Err())
		}
		if report, readErr := os.ReadFile(output + errorSuffix); readErr == nil {
			toolErr, decodeErr := DecodeToolError(report)
			if decodeErr == nil {
				return nil, toolErr
			}
		}
		return nil, &ToolError{Type: "process", Message: lastLine(stderr.String()), Cause: err}
	}

	file, err := os.Open(output)
	if err != nil {
		return nil, fmt.Errorf("build tool produced no model output: %w", err)
	}
	defer file.Close()
	return buildmodel.DecodeSnapshot(file, buildmodel.FormatJSON)
}

func (s *processSession) arguments(req Request, kinds []buildmodel.ModelKind, output string) ([]string, error) {
	exporter := filepath.Join(s.workDir, "exporter.gradle")
	if err := os.WriteFile(exporter, []byte(initscript.Exporter()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write export script: %w", err)
	}

	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, string(kind))
	}

	args := []string{
		"--init-script", exporter,
		"-D" + outputProperty + "=" + output,
		"-D" + modelsProperty + "=" + strings.Join(names, ","),
	}

	if req.InitScript != "" {
		extensions := filepath.Join(s.workDir, fmt.Sprintf("extensions-%d.gradle", s.calls))
		if err := os.WriteFile(extensions, []byte(req.InitScript), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write init script: %w", err)
		}
		args = append(args, "--init-script", extensions)
	}

	if timeout := s.settings.DaemonIdleTimeout; timeout > 0 {
		args = append(args, "-Dorg.gradle.daemon.idletimeout="+strconv.FormatInt(timeout.Milliseconds(), 10))
	}

	jvmArgs := append(append([]string{}, s.settings.VMOptions...), req.JVMArguments...)
	if len(jvmArgs) > 0 {
		args = append(args, "-Dorg.gradle.jvmargs="+strings.Join(jvmArgs, " "))
	}

	args = append(args, req.Arguments...)
	return append(args, "help"), nil
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
