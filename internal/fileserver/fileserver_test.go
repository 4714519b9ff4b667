package fileserver

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ServesUnderPrefix(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte("x"), 1000)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), payload, 0644))

	srv := httptest.NewServer(New(Options{Dir: dir, Prefix: "/staticfile/"}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/staticfile/a.bin")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(len(payload)), resp.ContentLength)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, body)

	missing, err := http.Get(srv.URL + "/staticfile/nope.bin")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestServer_SlowBody(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte("y"), 4*1024)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.bin"), payload, 0644))

	s := New(Options{Dir: dir, Delay: 10 * time.Millisecond, Chunk: 1024})
	srv := httptest.NewServer(s)
	defer srv.Close()

	start := time.Now()
	resp, err := http.Get(srv.URL + "/b.bin")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, payload, body)
	// four chunks, each preceded by a delay
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Eventually(t, func() bool { return s.Active() == 0 }, time.Second, 5*time.Millisecond)
}
