package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"fastreer-gui/internal/debug"
	appErrors "fastreer-gui/internal/errors"
)

// Error variables for updater-specific errors.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrDownloadFailed   = errors.New("download failed")
)

// ProgressFunc receives the bytes written so far and the expected total
// (-1 when unknown).
type ProgressFunc func(written, total int64)

// Updater downloads release assets into the installation directory.
type Updater struct {
	httpClient *http.Client
}

// UpdaterOption configures an Updater.
type UpdaterOption func(*Updater)

// WithUpdaterHTTPClient sets a custom HTTP client for the updater.
func WithUpdaterHTTPClient(client *http.Client) UpdaterOption {
	return func(u *Updater) {
		u.httpClient = client
	}
}

// NewUpdater creates an updater. Downloads have no client timeout and are
// bounded only by the context.
func NewUpdater(opts ...UpdaterOption) *Updater {
	u := &Updater{
		httpClient: &http.Client{
			Timeout: 0,
		},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// InstallDir returns the directory containing the running executable.
func InstallDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return "", fmt.Errorf("resolve symlinks: %w", err)
	}
	return filepath.Dir(execPath), nil
}

// Download streams rawURL into dest. Data goes to a temporary file next to
// dest which is renamed over dest only after the body was fully written,
// so a failed download never leaves a truncated file at dest.
func (u *Updater) Download(ctx context.Context, rawURL, dest string, progress ProgressFunc) (err error) {
	if err := checkWritePermission(dest); err != nil {
		return appErrors.New(appErrors.CodeDownload, "installation directory not writable", fmt.Errorf("%w: %v", ErrPermissionDenied, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return appErrors.New(appErrors.CodeDownload, "create request", err)
	}
	req.Header.Set("Accept", "application/octet-stream")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return appErrors.New(appErrors.CodeCanceled, "download canceled", ctx.Err())
		}
		return appErrors.New(appErrors.CodeDownload, "download "+rawURL, fmt.Errorf("%w: %v", ErrDownloadFailed, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return appErrors.New(appErrors.CodeDownload, fmt.Sprintf("download %s: status %d", rawURL, resp.StatusCode), ErrDownloadFailed)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".part-*")
	if err != nil {
		return appErrors.New(appErrors.CodeDownload, "create temp file", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	w := io.Writer(tmp)
	if progress != nil {
		w = &progressWriter{w: tmp, total: resp.ContentLength, fn: progress}
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return appErrors.New(appErrors.CodeCanceled, "download canceled", ctx.Err())
		}
		return appErrors.New(appErrors.CodeDownload, "write "+dest, err)
	}
	if resp.ContentLength > 0 && n != resp.ContentLength {
		err = fmt.Errorf("%w: got %d of %d bytes", ErrDownloadFailed, n, resp.ContentLength)
		return appErrors.New(appErrors.CodeDownload, "incomplete download", err)
	}
	if err = tmp.Sync(); err != nil {
		return appErrors.New(appErrors.CodeDownload, "sync "+tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return appErrors.New(appErrors.CodeDownload, "close "+tmpName, err)
	}
	//nolint:gosec // G302: the jar is run by the user
	if err = os.Chmod(tmpName, 0644); err != nil {
		return appErrors.New(appErrors.CodeDownload, "chmod "+tmpName, err)
	}
	if err = os.Rename(tmpName, dest); err != nil {
		return appErrors.New(appErrors.CodeDownload, "install "+dest, err)
	}

	debug.Logf("downloaded %d bytes from %s to %s", n, rawURL, dest)
	return nil
}

type progressWriter struct {
	w       io.Writer
	total   int64
	written int64
	fn      ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.fn(p.written, p.total)
	return n, err
}

// checkWritePermission verifies the current process can write next to path.
func checkWritePermission(path string) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".fastreer-update-test-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
