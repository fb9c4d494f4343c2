package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.amr")
	require.NoError(t, os.WriteFile(path, []byte("#!AMR\n"), 0o644))

	data, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("#!AMR\n"), data)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadStdin(t *testing.T) {
	l := NewLoader(WithStdin(strings.NewReader("fLaC")))
	data, err := l.Load(context.Background(), Stdin)
	require.NoError(t, err)
	assert.Equal(t, []byte("fLaC"), data)
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media/photo.jpg", r.URL.Path)
		w.Write([]byte("\xFF\xD8\xFFjpeg"))
	}))
	defer srv.Close()

	data, err := NewLoader().Load(context.Background(), srv.URL+"/media/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("\xFF\xD8\xFFjpeg"), data)
}

func TestLoadURLFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewLoader().Load(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		_, err := NewLoader(WithTimeout(50*time.Millisecond)).Load(context.Background(), srv.URL)
		assert.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(strings.Repeat("x", 64)))
		}))
		defer srv.Close()

		_, err := NewLoader(WithMaxSize(16)).Load(context.Background(), srv.URL)
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

func TestSizeCapOnStdin(t *testing.T) {
	l := NewLoader(WithStdin(strings.NewReader("0123456789")), WithMaxSize(10))
	data, err := l.Load(context.Background(), Stdin)
	require.NoError(t, err)
	assert.Len(t, data, 10)

	l = NewLoader(WithStdin(strings.NewReader("0123456789A")), WithMaxSize(10))
	_, err = l.Load(context.Background(), Stdin)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a.png"))
	assert.True(t, IsURL("http://example.com"))
	assert.False(t, IsURL("ftp://example.com/a.png"))
	assert.False(t, IsURL("/tmp/a.png"))
	assert.False(t, IsURL("C:\\media\\a.png"))
	assert.False(t, IsURL("-"))
}

func TestWithProxyKeepsTimeout(t *testing.T) {
	l := NewLoader(WithTimeout(7*time.Second), WithProxy("http://127.0.0.1:7890"))
	assert.Equal(t, 7*time.Second, l.client.Timeout)
	require.NotNil(t, l.client.Transport)
}

func TestWithTimeoutLeavesCallerClient(t *testing.T) {
	own := &http.Client{Timeout: time.Minute}
	l := NewLoader(WithHTTPClient(own), WithTimeout(2*time.Second))

	assert.Equal(t, time.Minute, own.Timeout)
	assert.Equal(t, 2*time.Second, l.client.Timeout)
	assert.NotSame(t, own, l.client)
}
