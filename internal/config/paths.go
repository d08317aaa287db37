package config

import (
	"fmt"
	"os"
	"path/filepath"

	"cyberpulse/pkg/contracts/domain"
)

// Dataset file names as shipped with the survey export. The files must
// co-reside in the data directory; a missing file is fatal at startup.
var datasetFileNames = map[domain.DatasetKey]string{
	domain.DatasetIndustry: "industry.csv",
	domain.DatasetRegion:   "regions.csv",
	domain.DatasetSizeS:    "S-enterprises.csv",
	domain.DatasetSizeML:   "M-L-enterprises.csv",
}

// Paths holds the resolved file system locations used by the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	LogsDir       string
}

// ResolvePaths resolves the configured directories against the executable
// location. Relative directories are anchored at the executable's folder
// so the binary can run from anywhere.
func (c *Config) ResolvePaths() (*Paths, error) {
	execDir := c.Paths.ExecutableDir
	if execDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate executable: %w", err)
		}
		execDir = filepath.Dir(exe)
	}

	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(execDir, dir)
	}

	return &Paths{
		ExecutableDir: execDir,
		DataDir:       resolve(c.Paths.DataDir),
		LogsDir:       resolve(c.Paths.LogsDir),
	}, nil
}

// DatasetFiles maps every dataset key to its absolute file path.
func (p *Paths) DatasetFiles() map[domain.DatasetKey]string {
	files := make(map[domain.DatasetKey]string, len(datasetFileNames))
	for key, name := range datasetFileNames {
		files[key] = filepath.Join(p.DataDir, name)
	}
	return files
}

// EnsureDirectories creates the writable directories if they are absent.
// The data directory is read-only input and deliberately not created: an
// empty data dir would only defer the missing-file failure.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.LogsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
