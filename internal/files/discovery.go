package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "approvalcli/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// isLockFile reports whether name is an office lock file such as "~$data.xlsx"
func isLockFile(name string) bool {
	return strings.HasPrefix(name, "~$")
}

func isWorkbook(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx") && !isLockFile(name)
}

// FindWorkbooks lists the .xlsx files directly inside dir, oldest first.
// Lock files and subdirectories are skipped.
func FindWorkbooks(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !isWorkbook(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}

// ResolveInput turns the configured input into a workbook path. A directory
// resolves to its most recently modified workbook; a file must pass
// ValidateWorkbook.
func ResolveInput(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", apperrors.NewMissingFileError(path, err)
	}
	if !info.IsDir() {
		return path, ValidateWorkbook(path)
	}

	workbooks, err := FindWorkbooks(path)
	if err != nil {
		return "", apperrors.NewMissingFileError(path, err)
	}
	latest, ok := GetLatestFile(workbooks)
	if !ok {
		return "", apperrors.NewMissingFileError(path, fmt.Errorf("no .xlsx workbook in directory"))
	}
	return latest.Path, nil
}
