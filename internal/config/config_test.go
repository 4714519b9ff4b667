package config

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueabc/go/tools/dwrs/internal/fileserver"
	"github.com/trueabc/go/tools/dwrs/internal/job"
	"github.com/trueabc/go/tools/dwrs/internal/l10n"
	"github.com/trueabc/go/tools/dwrs/internal/limiter"
	"github.com/trueabc/go/tools/dwrs/internal/progress"
)

func catalog(t *testing.T) *l10n.Catalog {
	t.Helper()
	cat, err := l10n.New("en")
	require.NoError(t, err)
	return cat
}

func TestBuild_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		id   string
	}{
		{"zero jobs", Input{URLs: []string{"http://h/a"}, Jobs: 0}, MsgJobs},
		{"negative jobs", Input{URLs: []string{"http://h/a"}, Jobs: -3}, MsgJobs},
		{"no input", Input{Jobs: 1}, MsgInput},
		{"urls and file", Input{URLs: []string{"http://h/a"}, File: "list.txt", Jobs: 1}, MsgExclusive},
		{"outputs and file", Input{Outputs: []string{"a"}, File: "list.txt", Jobs: 1}, MsgExclusive},
		{"bad progress", Input{URLs: []string{"http://h/a"}, Jobs: 1, Progress: "fancy"}, MsgProgress},
		{"count mismatch", Input{URLs: []string{"http://h/a", "http://h/b"}, Outputs: []string{"a"}, Jobs: 1}, job.MsgCount},
		{"missing file", Input{File: filepath.Join(os.TempDir(), "dwrs-does-not-exist.txt"), Jobs: 1}, job.MsgReadFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Build(tt.in, catalog(t), &bytes.Buffer{})
			assert.Nil(t, cfg)

			var cerr *job.ConfigError
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.Equal(t, tt.id, cerr.MessageID)
		})
	}
}

func TestBuild_ZeroJobsWrapsCapacity(t *testing.T) {
	_, err := Build(Input{URLs: []string{"http://h/a"}}, catalog(t), &bytes.Buffer{})
	assert.ErrorIs(t, err, limiter.ErrCapacity)
}

func TestBuild_Args(t *testing.T) {
	in := Input{
		URLs:    []string{"http://h/a.bin", "http://h/b.bin"},
		Jobs:    2,
		Timeout: 5 * time.Second,
		Strict:  true,
	}
	cfg, err := Build(in, catalog(t), &bytes.Buffer{})
	require.NoError(t, err)

	require.Len(t, cfg.Sequence, 2)
	assert.Equal(t, "a.bin", cfg.Sequence[0].Destination)
	assert.Equal(t, "b.bin", cfg.Sequence[1].Destination)
	assert.Equal(t, 2, cfg.Jobs)
	assert.True(t, cfg.Strict)
	client := cfg.HTTPClient()
	assert.Zero(t, client.Timeout)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, transport.ResponseHeaderTimeout)
	assert.Equal(t, 5*time.Second, transport.TLSHandshakeTimeout)
	// a buffer is not a terminal
	assert.Equal(t, progress.ModePlain, cfg.Progress)
}

func TestBuild_ExplicitProgress(t *testing.T) {
	cfg, err := Build(Input{URLs: []string{"http://h/a"}, Jobs: 4, Progress: "pool"}, catalog(t), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, progress.ModePool, cfg.Progress)
}

func TestBuild_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("http://host/x.bin out.bin\na b c\n"), 0644))

	cfg, err := Build(Input{File: path, Jobs: 1}, catalog(t), &bytes.Buffer{})
	require.NoError(t, err)

	require.Len(t, cfg.Sequence, 1)
	assert.Equal(t, "out.bin", cfg.Sequence[0].Destination)
	require.Len(t, cfg.Warnings, 1)
	assert.Equal(t, 2, cfg.Warnings[0].Line)
}

func TestBuild_Verbose(t *testing.T) {
	var quiet, loud bytes.Buffer

	cfg, err := Build(Input{URLs: []string{"http://h/a"}, Jobs: 1}, catalog(t), &quiet)
	require.NoError(t, err)
	cfg.Logger.Print("hidden")
	assert.Empty(t, quiet.String())

	cfg, err = Build(Input{URLs: []string{"http://h/a"}, Jobs: 1, Verbose: true}, catalog(t), &loud)
	require.NoError(t, err)
	cfg.Logger.Print("shown")
	assert.Contains(t, loud.String(), "1 jobs, 1 at a time")
	assert.Contains(t, loud.String(), "shown")
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DWRS_TEST_JOBS=7\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("DWRS_TEST_JOBS") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "7", os.Getenv("DWRS_TEST_JOBS"))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}

func TestHTTPClient_TimeoutSparesLongBodies(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte("p"), 10*1024)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.bin"), payload, 0644))
	srv := httptest.NewServer(fileserver.New(fileserver.Options{Dir: dir, Delay: 20 * time.Millisecond, Chunk: 1024}))
	defer srv.Close()

	cfg := &Config{Timeout: 80 * time.Millisecond}
	start := time.Now()
	resp, err := cfg.HTTPClient().Get(srv.URL + "/big.bin")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()

	require.NoError(t, err)
	assert.Equal(t, payload, body)
	assert.Greater(t, time.Since(start), cfg.Timeout)
}
