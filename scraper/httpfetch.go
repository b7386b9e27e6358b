package scraper

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	tls "github.com/refraction-networking/utls"

	"github.com/use-agent/threadlikes/config"
	"github.com/use-agent/threadlikes/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// browserHeaders is sent on every upstream request so the page is served as
// it would be to a desktop Chrome navigation.
var browserHeaders = map[string]string{
	"User-Agent":      chromeUA,
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Accept-Encoding": "gzip, deflate, br",
	"Sec-Fetch-Dest":  "document",
	"Sec-Fetch-Mode":  "navigate",
	"Sec-Fetch-Site":  "none",
	"Sec-Fetch-User":  "?1",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// net/http cannot speak h2 over a utls conn, so never offer it.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// HTTPFetcher fetches the configured post page with a Chrome TLS fingerprint
// and browser headers. It is safe for concurrent use.
type HTTPFetcher struct {
	client  *http.Client
	target  string
	maxBody int64
}

// NewHTTPFetcher creates an HTTPFetcher from the upstream configuration.
func NewHTTPFetcher(cfg config.UpstreamConfig) *HTTPFetcher {
	transport := &http.Transport{
		DialTLSContext:    dialTLSChrome,
		ForceAttemptHTTP2: false,
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		} else {
			slog.Warn("ignoring unsupported proxy", "proxy", cfg.Proxy)
		}
	}

	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return newHTTPFetcher(client, cfg.TargetURL, cfg.MaxBodyBytes)
}

func newHTTPFetcher(client *http.Client, target string, maxBody int64) *HTTPFetcher {
	if maxBody <= 0 {
		maxBody = 10 << 20
	}
	return &HTTPFetcher{client: client, target: target, maxBody: maxBody}
}

// Fetch issues one GET to the target. A non-2xx status is not an error: the
// page is returned with only StatusCode and FinalURL set and the body unread.
// Transport and body read failures are returned as models.ErrCodeTransport.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.target, nil)
	if err != nil {
		return nil, models.NewTransportError(err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, models.NewTransportError(err)
	}
	defer resp.Body.Close()

	page := &Page{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
	}
	if !page.OK() {
		slog.Warn("upstream returned non-success status",
			"status", resp.StatusCode,
			"url", page.FinalURL,
		)
		return page, nil
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, models.NewTransportError(err)
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, f.maxBody+1))
	if err != nil {
		return nil, models.NewTransportError(err)
	}
	if int64(len(raw)) > f.maxBody {
		raw = raw[:f.maxBody]
		page.Truncated = true
		slog.Warn("upstream body exceeds size cap, truncated",
			"url", page.FinalURL,
			"maxBytes", f.maxBody,
		)
	}
	page.HTML = string(raw)

	slog.Debug("upstream fetched",
		"status", resp.StatusCode,
		"url", page.FinalURL,
		"bytes", len(raw),
		"truncated", page.Truncated,
		"encoding", resp.Header.Get("Content-Encoding"),
		"elapsed", time.Since(start),
	)
	return page, nil
}

// decodeBody undoes the Content-Encoding negotiated by the Accept-Encoding
// header. net/http only decompresses transparently when it set that header
// itself, so every advertised encoding is handled here.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch enc {
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case "deflate":
		return newDeflateReader(resp.Body)
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", enc)
	}
}

// newDeflateReader reads zlib-wrapped deflate, falling back to raw deflate
// for servers that omit the zlib header.
func newDeflateReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(2)
	if isZlibHeader(head) {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		return zr, nil
	}
	return flate.NewReader(br), nil
}

// isZlibHeader checks the RFC 1950 CMF/FLG pair.
func isZlibHeader(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	return b[0]&0x0f == 8 && (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via utls.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}
