package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "approvalcli/internal/errors"
)

// ValidateWorkbook checks that path is a readable, non-empty .xlsx file
func ValidateWorkbook(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return apperrors.NewMissingFileError(path, err)
	}
	if info.IsDir() {
		return apperrors.NewMissingFileError(path, fmt.Errorf("%s is a directory, not a file", path))
	}
	if info.Size() == 0 {
		return apperrors.NewMissingFileError(path, fmt.Errorf("file is empty"))
	}

	base := filepath.Base(path)
	if isLockFile(base) {
		return apperrors.NewMissingFileError(path, fmt.Errorf("%s is a temporary lock file", base))
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		return apperrors.NewMissingFileError(path, fmt.Errorf("not an xlsx workbook (extension %q)", ext))
	}

	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewMissingFileError(path, err)
	}
	return f.Close()
}
