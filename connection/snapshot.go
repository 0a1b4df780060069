package connection

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

// SnapshotDir is the project-relative directory holding recorded snapshots.
const SnapshotDir = ".projectimport"

var snapshotNames = []string{"snapshot.yaml", "snapshot.yml", "snapshot.json"}

// SnapshotProvider serves models from a snapshot recorded earlier, without
// running the build tool.
type SnapshotProvider struct {
	// Path overrides the snapshot location. When empty the provider looks
	// under <project>/.projectimport.
	Path string
}

// FindSnapshot returns the recorded snapshot file of a project, if any.
func FindSnapshot(projectPath string) (string, bool) {
	for _, name := range snapshotNames {
		path := filepath.Join(projectPath, SnapshotDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func (p SnapshotProvider) Connect(ctx context.Context, projectPath string, _ *settings.Settings, l Listener) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := p.Path
	if path == "" {
		found, ok := FindSnapshot(projectPath)
		if !ok {
			return nil, fmt.Errorf("no recorded snapshot under %s", filepath.Join(projectPath, SnapshotDir))
		}
		path = found
	}

	format, err := buildmodel.FormatForPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	snapshot, err := buildmodel.DecodeSnapshot(file, format)
	if err != nil {
		return nil, err
	}
	l.OnStatusChange("loaded snapshot " + path)
	return &snapshotSession{snapshot: snapshot}, nil
}

type snapshotSession struct {
	snapshot *buildmodel.Snapshot
	closed   bool
}

func (s *snapshotSession) ProtocolVersion(context.Context) (buildmodel.Version, error) {
	return s.snapshot.Version()
}

func (s *snapshotSession) FetchAll(ctx context.Context, req Request) (*Result, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	version, err := s.snapshot.Version()
	if err != nil {
		return nil, err
	}
	if !version.AtLeast(buildmodel.BulkActionVersion) {
		return nil, ErrBulkActionUnsupported
	}
	return &Result{
		Project: s.snapshot.Project,
		Models:  s.snapshot.ModelSet(req.ModelKinds),
	}, nil
}

func (s *snapshotSession) FetchModel(ctx context.Context, kind buildmodel.ModelKind, _ Request) (any, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	model, ok := s.snapshot.Model(kind)
	if !ok {
		return nil, fmt.Errorf("model %s is not available in the snapshot", kind)
	}
	return model, nil
}

func (s *snapshotSession) Close() error {
	s.closed = true
	return nil
}

func (s *snapshotSession) ready(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("session is closed")
	}
	return ctx.Err()
}
