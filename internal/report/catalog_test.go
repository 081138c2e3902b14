package report_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bundlescope/internal/report"
)

func writeStoreFile(t *testing.T, dir, name string, modTime time.Time) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestList_MergesFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	older := time.Now().Add(-time.Hour).Truncate(time.Second)
	newer := time.Now().Truncate(time.Second)

	writeStoreFile(t, dir, "a.json", older)
	writeStoreFile(t, dir, "a.html", older)
	writeStoreFile(t, dir, "b.html", newer)

	reports, listErr := report.List(dir)
	require.NoError(t, listErr)
	require.Len(t, reports, 2)

	// Most recent first.
	assert.Equal(t, "b", reports[0].Name)
	assert.Equal(t, []string{report.FormatHTML}, reports[0].Formats)

	assert.Equal(t, "a", reports[1].Name)
	assert.Equal(t, []string{report.FormatHTML, report.FormatJSON}, reports[1].Formats)
}

func TestList_SizeAndDateFromJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jsonTime := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	htmlTime := time.Now().Truncate(time.Second)

	jsonPath := filepath.Join(dir, "r.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("12345"), 0o644))
	require.NoError(t, os.Chtimes(jsonPath, jsonTime, jsonTime))

	writeStoreFile(t, dir, "r.html", htmlTime)

	reports, listErr := report.List(dir)
	require.NoError(t, listErr)
	require.Len(t, reports, 1)

	assert.Equal(t, int64(5), reports[0].Size)
	assert.True(t, reports[0].Date.Equal(jsonTime))
}

func TestList_IgnoresUnrelatedEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeStoreFile(t, dir, "a.json", time.Now())
	writeStoreFile(t, dir, "notes.txt", time.Now())
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0o755))

	reports, listErr := report.List(dir)
	require.NoError(t, listErr)
	require.Len(t, reports, 1)
	assert.Equal(t, "a", reports[0].Name)
}

func TestList_EmptyAndMissingDirectory(t *testing.T) {
	t.Parallel()

	reports, listErr := report.List(t.TempDir())
	require.NoError(t, listErr)
	assert.Empty(t, reports)

	reports, listErr = report.List(filepath.Join(t.TempDir(), "never-created"))
	require.NoError(t, listErr)
	assert.Empty(t, reports)
}

func TestResolve_RejectsTraversal(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "../etc/passwd", "a/b", `a\b`, ".."} {
		_, resolveErr := report.JSONPath("/reports", name)
		assert.ErrorIs(t, resolveErr, report.ErrInvalidName, "name %q", name)
	}

	path, resolveErr := report.HTMLPath("/reports", "main-abc1234-ts")
	require.NoError(t, resolveErr)
	assert.Equal(t, filepath.Join("/reports", "main-abc1234-ts.html"), path)
}
