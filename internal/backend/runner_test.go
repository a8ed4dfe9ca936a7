package backend

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "fastreer-gui/internal/errors"
)

func writeFakeBackend(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake backend relies on /bin/sh")
	}
	script := filepath.Join(t.TempDir(), "fastreeR")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"+body), 0o755))
	return script
}

func quietRunner(stdout, stderr *bytes.Buffer) *Runner {
	return NewRunner(WithStdio(strings.NewReader(""), stdout, stderr))
}

func TestRunSuccess(t *testing.T) {
	t.Parallel()
	script := writeFakeBackend(t, "echo done\nexit 0\n")

	var stdout, stderr bytes.Buffer
	code, err := quietRunner(&stdout, &stderr).Run(context.Background(), []string{script})

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "done\n", stdout.String())
}

func TestRunReturnsNonZeroExitCode(t *testing.T) {
	t.Parallel()
	script := writeFakeBackend(t, "echo 'bad input' >&2\nexit 3\n")

	var stdout, stderr bytes.Buffer
	code, err := quietRunner(&stdout, &stderr).Run(context.Background(), []string{script})

	assert.Equal(t, 3, code)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNonZeroExit))
	assert.Contains(t, err.Error(), "3")

	var exitErr ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "bad input\n", stderr.String())
}

func TestRunPassesDiscreteTokens(t *testing.T) {
	t.Parallel()
	logFile := filepath.Join(t.TempDir(), "args.log")
	script := writeFakeBackend(t, "for a in \"$@\"; do printf '%s\\n' \"$a\"; done > '"+logFile+"'\n")

	job := NewJob(ModeFASTA2Dist, []string{"/in/first file.fa", "/in/$HOME `x`.fa"}, "/out/my out.dist")
	args := BuildArgs(job, Tool{Path: script})

	var stdout, stderr bytes.Buffer
	code, err := quietRunner(&stdout, &stderr).Run(context.Background(), args)
	require.NoError(t, err)
	require.Equal(t, 0, code)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	got := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Equal(t, args[1:], got)
}

func TestRunMissingBackend(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	var stdout, stderr bytes.Buffer
	code, err := quietRunner(&stdout, &stderr).Run(context.Background(), []string{missing, "VCF2DIST"})

	assert.Equal(t, -1, code)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeBackendNotFound), "got %v", err)
}

func TestRunEmptyCommand(t *testing.T) {
	t.Parallel()
	code, err := NewRunner().Run(context.Background(), nil)

	assert.Equal(t, -1, code)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInvalidJob))
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()
	script := writeFakeBackend(t, "exec sleep 10\n")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	start := time.Now()
	code, err := quietRunner(&stdout, &stderr).Run(ctx, []string{script})

	assert.Equal(t, -1, code)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeCanceled), "got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
