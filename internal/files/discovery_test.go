package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "approvalcli/internal/errors"
)

func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("PK"), 0644))
	mod := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestFindWorkbooks(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{"only workbooks", []string{"a.xlsx", "b.XLSX"}, []string{"a.xlsx", "b.XLSX"}},
		{"mixed types", []string{"a.xlsx", "data.csv", "old.xls", "notes.txt"}, []string{"a.xlsx"}},
		{"lock files skipped", []string{"~$a.xlsx", "a.xlsx"}, []string{"a.xlsx"}},
		{"empty directory", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for i, name := range tt.files {
				touch(t, dir, name, time.Duration(len(tt.files)-i)*time.Hour)
			}
			require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.xlsx"), 0755))

			found, err := FindWorkbooks(dir)
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFindWorkbooks_MissingDirectory(t *testing.T) {
	_, err := FindWorkbooks(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestGetLatestFile(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		{Name: "old", ModTime: now.Add(-2 * time.Hour)},
		{Name: "new", ModTime: now},
		{Name: "mid", ModTime: now.Add(-time.Hour)},
	}

	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "new", latest.Name)

	_, ok = GetLatestFile(nil)
	assert.False(t, ok)
}

func TestResolveInput(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "older.xlsx", 2*time.Hour)
	newest := touch(t, dir, "newer.xlsx", time.Hour)
	touch(t, dir, "~$newer.xlsx", 0)

	got, err := ResolveInput(dir)
	require.NoError(t, err)
	assert.Equal(t, newest, got)

	got, err = ResolveInput(newest)
	require.NoError(t, err)
	assert.Equal(t, newest, got)
}

func TestResolveInput_Errors(t *testing.T) {
	empty := t.TempDir()
	csvOnly := t.TempDir()
	touch(t, csvOnly, "data.csv", 0)

	tests := []struct {
		name string
		path string
	}{
		{"missing path", filepath.Join(empty, "absent.xlsx")},
		{"directory without workbooks", csvOnly},
		{"empty directory", empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveInput(tt.path)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingFile), "got %v", err)
		})
	}
}
