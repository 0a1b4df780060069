// Package settings holds the per-project import settings record and loads it
// from .projectimport.yaml files found up the directory tree.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in every ancestor directory.
const FileName = ".projectimport.yaml"

// DefaultDaemonIdleTimeout matches the build tool's own default.
const DefaultDaemonIdleTimeout = 3 * time.Hour

// Distribution selects which build tool installation runs the import.
type Distribution string

const (
	// DistributionDefault uses the executable found on PATH.
	DistributionDefault Distribution = "default"
	// DistributionWrapper uses the project's wrapper script.
	DistributionWrapper Distribution = "wrapper"
	// DistributionLocal uses the installation under HomePath.
	DistributionLocal Distribution = "local"
)

// Settings configures one import attempt. A nil *Settings means defaults.
type Settings struct {
	Distribution       Distribution
	HomePath           string
	VMOptions          []string
	Offline            bool
	ResolverExtensions []string
	DaemonIdleTimeout  time.Duration
}

// Default returns the settings used when no record is supplied.
func Default() *Settings {
	return &Settings{
		Distribution:      DistributionDefault,
		DaemonIdleTimeout: DefaultDaemonIdleTimeout,
	}
}

// OrDefault returns s, or the defaults when s is nil.
func (s *Settings) OrDefault() *Settings {
	if s == nil {
		return Default()
	}
	return s
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	out := *s
	out.VMOptions = slices.Clone(s.VMOptions)
	out.ResolverExtensions = slices.Clone(s.ResolverExtensions)
	return &out
}

// Validate checks field values that cannot be expressed by the type system.
func (s *Settings) Validate() error {
	if s == nil {
		return nil
	}
	switch s.Distribution {
	case DistributionDefault, DistributionWrapper, "":
	case DistributionLocal:
		if s.HomePath == "" {
			return errors.New("distribution \"local\" requires a home path")
		}
	default:
		return fmt.Errorf("unknown distribution %q", s.Distribution)
	}
	if s.DaemonIdleTimeout < 0 {
		return fmt.Errorf("daemon idle timeout must not be negative: %s", s.DaemonIdleTimeout)
	}
	return nil
}

// fileSettings is the on-disk form. Pointer fields distinguish "unset" from
// zero values so that leaf files only override what they name.
type fileSettings struct {
	Distribution       *Distribution `yaml:"distribution"`
	Home               *string       `yaml:"home"`
	VMOptions          []string      `yaml:"vmOptions"`
	Offline            *bool         `yaml:"offline"`
	ResolverExtensions []string      `yaml:"resolverExtensions"`
	DaemonIdleTimeout  *string       `yaml:"daemonIdleTimeout"`
}

// Load merges every settings file from the filesystem root down to startDir.
// It returns nil when no file exists.
func Load(startDir string) (*Settings, error) {
	startDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	var files []string
	currentDir := startDir
	for {
		path := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	if len(files) == 0 {
		return nil, nil
	}

	s := Default()
	for i := len(files) - 1; i >= 0; i-- {
		if err := s.mergeFile(files[i]); err != nil {
			return nil, fmt.Errorf("failed to merge settings file %s: %w", files[i], err)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Decode reads one settings document over the defaults.
func Decode(r io.Reader) (*Settings, error) {
	s := Default()
	if err := s.merge(r); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	return s.merge(bytes.NewReader(data))
}

func (s *Settings) merge(r io.Reader) error {
	var file fileSettings
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse settings: %w", err)
	}

	if file.Distribution != nil {
		s.Distribution = *file.Distribution
	}
	if file.Home != nil {
		s.HomePath = *file.Home
	}
	if file.VMOptions != nil {
		s.VMOptions = file.VMOptions
	}
	if file.Offline != nil {
		s.Offline = *file.Offline
	}
	if file.ResolverExtensions != nil {
		s.ResolverExtensions = file.ResolverExtensions
	}
	if file.DaemonIdleTimeout != nil {
		timeout, err := time.ParseDuration(*file.DaemonIdleTimeout)
		if err != nil {
			return fmt.Errorf("invalid daemonIdleTimeout: %w", err)
		}
		s.DaemonIdleTimeout = timeout
	}
	return nil
}
