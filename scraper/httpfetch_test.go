package scraper

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/threadlikes/config"
	"github.com/use-agent/threadlikes/models"
)

const samplePage = `<html><script>{"like_count":42,"text":{"text":"hi"}}</script></html>`

func testConfig(target string) config.UpstreamConfig {
	return config.UpstreamConfig{
		TargetURL:    target,
		Timeout:      5 * time.Second,
		MaxBodyBytes: 10 << 20,
		MaxRedirects: 10,
	}
}

func TestFetch_SendsBrowserHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, samplePage)
	}))
	defer srv.Close()

	page, err := NewHTTPFetcher(testConfig(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, samplePage, page.HTML)

	for k, v := range browserHeaders {
		assert.Equal(t, v, got.Get(k), "header %s", k)
	}
	assert.Contains(t, got.Get("User-Agent"), "Chrome/131")
}

func TestFetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, samplePage)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	page, err := NewHTTPFetcher(testConfig(srv.URL + "/old")).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/new", page.FinalURL)
	assert.Equal(t, samplePage, page.HTML)
}

func TestFetch_RedirectLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL + "/")
	cfg.MaxRedirects = 3
	_, err := NewHTTPFetcher(cfg).Fetch(context.Background())
	require.Error(t, err)

	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeTransport, se.Code)
	assert.Contains(t, se.Message, "stopped after 3 redirects")
}

func TestFetch_NonSuccessStatusSkipsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "not found page")
	}))
	defer srv.Close()

	page, err := NewHTTPFetcher(testConfig(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, page.OK())
	assert.Equal(t, http.StatusNotFound, page.StatusCode)
	assert.Empty(t, page.HTML)
}

func TestFetch_DecodesContentEncoding(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		encode   func(t *testing.T, s string) []byte
	}{
		{"identity", "", func(t *testing.T, s string) []byte { return []byte(s) }},
		{"gzip", "gzip", func(t *testing.T, s string) []byte {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, err := zw.Write([]byte(s))
			require.NoError(t, err)
			require.NoError(t, zw.Close())
			return buf.Bytes()
		}},
		{"deflate zlib", "deflate", func(t *testing.T, s string) []byte {
			var buf bytes.Buffer
			zw := zlib.NewWriter(&buf)
			_, err := zw.Write([]byte(s))
			require.NoError(t, err)
			require.NoError(t, zw.Close())
			return buf.Bytes()
		}},
		{"deflate raw", "deflate", func(t *testing.T, s string) []byte {
			var buf bytes.Buffer
			fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
			require.NoError(t, err)
			_, err = fw.Write([]byte(s))
			require.NoError(t, err)
			require.NoError(t, fw.Close())
			return buf.Bytes()
		}},
		{"brotli", "br", func(t *testing.T, s string) []byte {
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			_, err := bw.Write([]byte(s))
			require.NoError(t, err)
			require.NoError(t, bw.Close())
			return buf.Bytes()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := tt.encode(t, samplePage)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.encoding != "" {
					w.Header().Set("Content-Encoding", tt.encoding)
				}
				_, _ = w.Write(payload)
			}))
			defer srv.Close()

			page, err := NewHTTPFetcher(testConfig(srv.URL)).Fetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, samplePage, page.HTML)
		})
	}
}

func TestFetch_UnsupportedEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "zstd")
		_, _ = io.WriteString(w, "garbage")
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(testConfig(srv.URL)).Fetch(context.Background())
	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeTransport, se.Code)
}

func TestFetch_BodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("a", 4096))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxBodyBytes = 100
	page, err := NewHTTPFetcher(cfg).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.HTML, 100)
	assert.True(t, page.Truncated)
}

func TestFetch_BodyAtCapNotTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("a", 100))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxBodyBytes = 100
	page, err := NewHTTPFetcher(cfg).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.HTML, 100)
	assert.False(t, page.Truncated)
}

func TestFetch_InjectedClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, samplePage)
	}))
	defer srv.Close()

	page, err := newHTTPFetcher(srv.Client(), srv.URL, 0).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, samplePage, page.HTML)
	assert.False(t, page.Truncated)
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(testConfig(target)).Fetch(context.Background())
	require.Error(t, err)

	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeTransport, se.Code)
	assert.NotEmpty(t, se.Message)
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	_, err := NewHTTPFetcher(cfg).Fetch(context.Background())
	require.Error(t, err)

	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeTransport, se.Code)
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, samplePage)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(testConfig(srv.URL)).Fetch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsZlibHeader(t *testing.T) {
	assert.True(t, isZlibHeader([]byte{0x78, 0x9c}))
	assert.True(t, isZlibHeader([]byte{0x78, 0x01}))
	assert.False(t, isZlibHeader([]byte{0x78}))
	assert.False(t, isZlibHeader([]byte{0x1f, 0x8b}))
}
