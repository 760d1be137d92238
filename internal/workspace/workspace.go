package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/logfields"
)

// stagePrefix names staging directories; leftovers from crashed runs are
// recognisable by it.
const stagePrefix = ".blogsync-stage-"

// Manager handles one staging directory.
type Manager struct {
	baseDir string
	dir     string
}

// NewManager creates a manager whose staging directory lives under baseDir.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// Create makes a fresh, uniquely named staging directory.
func (m *Manager) Create() error {
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create staging base directory").
			WithContext("path", m.baseDir).Fatal().Build()
	}
	dir, err := os.MkdirTemp(m.baseDir, stagePrefix+"*")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create staging directory").
			WithContext("path", m.baseDir).Fatal().Build()
	}
	m.dir = dir
	slog.Debug("Created staging directory", logfields.Path(dir))
	return nil
}

// Path returns the staging directory, or "" before Create.
func (m *Manager) Path() string {
	return m.dir
}

// Stage writes content to relativePath inside the staging directory and
// returns the staged file's full path.
func (m *Manager) Stage(relativePath string, content []byte) (string, error) {
	if m.dir == "" {
		return "", ferrors.InternalError("staging directory not created").Build()
	}
	cleanRel := filepath.Clean(relativePath)
	if relativePath == "" || filepath.IsAbs(cleanRel) || cleanRel == "." || strings.HasPrefix(cleanRel, "..") {
		return "", ferrors.ValidationError("staged path must stay inside the staging directory").
			WithContext("path", relativePath).Build()
	}

	full := filepath.Join(m.dir, cleanRel)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "create staging subdirectory").
			WithContext("path", full).Fatal().Build()
	}
	// #nosec G306 -- published pages must be readable by the web server.
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "write staged file").
			WithContext("path", full).Fatal().Build()
	}
	return full, nil
}

// Cleanup removes the staging directory and anything left in it.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to remove staging directory: %w", err)
	}
	slog.Debug("Removed staging directory", logfields.Path(m.dir))
	m.dir = ""
	return nil
}

// Leftovers lists staging directories under baseDir, typically from runs that
// crashed before cleanup.
func Leftovers(baseDir string) ([]string, error) {
	return filepath.Glob(filepath.Join(baseDir, stagePrefix+"*"))
}
