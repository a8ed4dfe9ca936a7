package update

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "fastreer-gui/internal/errors"
)

func TestDownloadWritesFileAndReportsProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("jar-bytes"), 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/octet-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, LocalFileName(DefaultAppName))
	require.NoError(t, os.WriteFile(dest, []byte("old jar"), 0o644))

	var lastWritten, lastTotal int64
	err := NewUpdater().Download(context.Background(), server.URL+"/asset.jar", dest, func(written, total int64) {
		lastWritten, lastTotal = written, total
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), lastWritten)
	assert.Equal(t, int64(len(payload)), lastTotal)
	assertNoPartialFiles(t, dir)
}

func TestDownloadBadStatusLeavesExistingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "app.jar")
	require.NoError(t, os.WriteFile(dest, []byte("old jar"), 0o644))

	err := NewUpdater().Download(context.Background(), server.URL, dest, nil)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeDownload), "got %v", err)
	assert.ErrorIs(t, err, ErrDownloadFailed)

	got, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "old jar", string(got))
	assertNoPartialFiles(t, dir)
}

func TestDownloadTruncatedBodyCleansUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		// the server closes the connection when fewer bytes than declared are written
		_, _ = w.Write([]byte("short"))
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "app.jar")

	err := NewUpdater().Download(context.Background(), server.URL, dest, nil)
	require.Error(t, err)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "dest should not exist after failed download")
	assertNoPartialFiles(t, dir)
}

func TestDownloadUnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := NewUpdater().Download(context.Background(), "http://127.0.0.1:1/x", filepath.Join(blocker, "app.jar"), nil)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeDownload), "got %v", err)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDownloadCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewUpdater().Download(ctx, server.URL, filepath.Join(t.TempDir(), "app.jar"), nil)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeCanceled), "got %v", err)
}

func TestCheckWritePermission(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, checkWritePermission(filepath.Join(dir, "test")))
	assertNoPartialFiles(t, dir)
}

func TestInstallDir(t *testing.T) {
	dir, err := InstallDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
}

func assertNoPartialFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".part-", "partial download left behind")
		assert.NotContains(t, e.Name(), ".fastreer-update-test-", "permission check file left behind")
	}
}
