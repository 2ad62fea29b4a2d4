package cache

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestEnsureDataDownloadsAndExtracts(t *testing.T) {
	archive := zipArchive(t, map[string]string{
		"coast/ne_test.shp": "shp",
		"coast/ne_test.dbf": "dbf",
		"coast/.DS_Store":   "junk",
	})

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Contains(t, r.Header.Get("User-Agent"), "mapdecor")
		w.Write(archive)
	}))
	defer srv.Close()

	dir := t.TempDir()
	m, err := NewManagerFor(dir, 5*time.Second, []DataFile{
		{Name: "Test", URL: srv.URL + "/ne_test.zip", Base: "ne_test"},
	})
	require.NoError(t, err)
	var progress bytes.Buffer
	m.Progress = &progress

	require.NoError(t, m.EnsureData(context.Background()))
	assert.True(t, m.Has("ne_test"))
	assert.FileExists(t, filepath.Join(dir, "ne_test.dbf"))
	assert.NoFileExists(t, filepath.Join(dir, ".DS_Store"))
	assert.Contains(t, progress.String(), "Downloaded and extracted Test")

	// Second call is served from disk.
	require.NoError(t, m.EnsureData(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestEnsureDataRequiredFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m, err := NewManagerFor(t.TempDir(), time.Second, []DataFile{
		{Name: "Required", URL: srv.URL + "/missing.zip", Base: "missing"},
	})
	require.NoError(t, err)

	err = m.EnsureData(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Required")
	assert.Contains(t, err.Error(), "404")
}

func TestEnsureDataSkipsOptional(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m, err := NewManagerFor(t.TempDir(), time.Second, []DataFile{
		{Name: "Extra", URL: srv.URL + "/extra.zip", Base: "extra", Optional: true},
	})
	require.NoError(t, err)
	var progress bytes.Buffer
	m.Progress = &progress

	require.NoError(t, m.EnsureData(context.Background()))
	assert.Contains(t, progress.String(), "Skipping Extra")
	assert.False(t, m.Has("extra"))
}

func TestEnsureDataArchiveWithoutShapefile(t *testing.T) {
	archive := zipArchive(t, map[string]string{"readme.txt": "hi"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	m, err := NewManagerFor(t.TempDir(), time.Second, []DataFile{
		{Name: "Empty", URL: srv.URL + "/empty.zip", Base: "empty"},
	})
	require.NoError(t, err)
	assert.Error(t, m.EnsureData(context.Background()))
}

func TestEnsureDataCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	m, err := NewManagerFor(t.TempDir(), time.Minute, []DataFile{
		{Name: "Slow", URL: srv.URL + "/slow.zip", Base: "slow", Optional: true},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.EnsureData(ctx), context.Canceled)
}

func TestNewManagerDefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	m, err := NewManager("", time.Second)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".mapdecor", "data"), m.GetCacheDir())

	_, err = os.Stat(m.GetCacheDir())
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".mapdecor", "data", "ne_50m_coastline.shp"), m.GetDataPath("ne_50m_coastline"))
}
