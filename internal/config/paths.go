package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DefaultInputFile is the workbook name looked up in the data directory
const DefaultInputFile = "Recruiting Task Dataset.xlsx"

// DefaultLogFile is the log file name used in the logs directory
const DefaultLogFile = "analyzer.log"

// Paths contains all the application paths.
// Every path is relative to the executable, never the working directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string
	DefaultInput  string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return PathsFrom(filepath.Dir(exe)), nil
}

// PathsFrom lays out the directory structure under root:
//
//	root/
//	  ├── data/
//	  │   ├── Recruiting Task Dataset.xlsx
//	  │   └── reports/   (optional workbook and CSV exports)
//	  └── logs/
func PathsFrom(root string) *Paths {
	dataDir := filepath.Join(root, "data")
	return &Paths{
		ExecutableDir: root,
		DataDir:       dataDir,
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(root, "logs"),
		DefaultInput:  filepath.Join(dataDir, DefaultInputFile),
	}
}

// EnsureDirectories creates the report and log directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetAnalysisWorkbookPath returns the dated export workbook path
func (p *Paths) GetAnalysisWorkbookPath(date time.Time) string {
	return p.GetReportPath(fmt.Sprintf("analysis_%s.xlsx", date.Format("20060102")))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
