package importcmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/projectimport/connection"
	"github.com/LegacyCodeHQ/projectimport/importer"
	"github.com/LegacyCodeHQ/projectimport/internal/ctxlog"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

// recordedSnapshot is the --snapshot value used when the flag is given
// without a path.
const recordedSnapshot = "recorded"

// Options are the import flags shared by every command that runs an import.
type Options struct {
	Snapshot     string
	Preview      bool
	Offline      bool
	Extensions   []string
	Home         string
	Distribution string
	VMOptions    []string
}

// AddFlags registers the import flags on cmd.
func (o *Options) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.Snapshot, "snapshot", "", "Read models from a snapshot file instead of running the build tool (without a path: the project's recorded snapshot)")
	flags.Lookup("snapshot").NoOptDefVal = recordedSnapshot
	flags.BoolVar(&o.Preview, "preview", false, "Skip the build-support sub-project")
	flags.BoolVar(&o.Offline, "offline", false, "Run the build tool in offline mode")
	flags.StringSliceVar(&o.Extensions, "extensions", nil, "Resolver extension ids in chain order, ending with base")
	flags.StringVar(&o.Home, "home", "", "Build tool installation directory")
	flags.StringVar(&o.Distribution, "distribution", "", "Build tool distribution (default, wrapper, local)")
	flags.StringSliceVar(&o.VMOptions, "vm-options", nil, "Extra JVM options for the build tool")
}

// Settings loads the settings files above projectPath and applies the flags
// that were set explicitly.
func (o *Options) Settings(cmd *cobra.Command, projectPath string) (*settings.Settings, error) {
	loaded, err := settings.Load(projectPath)
	if err != nil {
		return nil, err
	}
	s := loaded.Clone()
	if s == nil {
		s = settings.Default()
	}

	flags := cmd.Flags()
	if flags.Changed("offline") {
		s.Offline = o.Offline
	}
	if flags.Changed("extensions") {
		s.ResolverExtensions = o.Extensions
	}
	if flags.Changed("home") {
		s.HomePath = o.Home
	}
	if flags.Changed("distribution") {
		s.Distribution = settings.Distribution(o.Distribution)
	}
	if flags.Changed("vm-options") {
		s.VMOptions = append(s.VMOptions, o.VMOptions...)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Provider selects where models come from.
func (o *Options) Provider() (connection.Provider, error) {
	switch o.Snapshot {
	case "":
		return connection.ProcessProvider{}, nil
	case recordedSnapshot:
		return connection.SnapshotProvider{}, nil
	default:
		path, err := filepath.Abs(o.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve snapshot path: %w", err)
		}
		return connection.SnapshotProvider{Path: path}, nil
	}
}

// Import runs one import of projectPath with the command's logger.
func (o *Options) Import(cmd *cobra.Command, projectPath string) (*importer.Result, error) {
	projectPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}
	s, err := o.Settings(cmd, projectPath)
	if err != nil {
		return nil, err
	}
	provider, err := o.Provider()
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(cmd.Context())
	im := importer.New(importer.Options{Provider: provider, Logger: logger})
	return im.Resolve(cmd.Context(), importer.Request{
		ProjectPath: projectPath,
		Settings:    s,
		Preview:     o.Preview,
		Listener: connection.ListenerFuncs{
			StatusChange: func(status string) { logger.Info(status) },
			Output:       func(text string, _ bool) { logger.Debug("build output", "text", text) },
		},
	})
}

// ProjectDir returns the directory argument, defaulting to the working
// directory.
func ProjectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
