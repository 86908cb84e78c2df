package crawler

import (
	"compress/gzip"
	"context"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"linkaudit/internal/models"
)

const DefaultUserAgent = "linkaudit/1.0 (+https://example.com)"

var (
	ErrNonHTML    = errors.New("non-html content")
	ErrInvalidURL = errors.New("invalid url")
)

type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
}

func NewHTTPClient(timeout, dialTimeout time.Duration, sizeCap int64) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap:   sizeCap,
		userAgent: DefaultUserAgent,
	}
}

// WithUserAgent sets the User-Agent sent with every request; empty keeps the default.
func (h *HTTPClient) WithUserAgent(ua string) *HTTPClient {
	if ua != "" {
		h.userAgent = ua
	}
	return h
}

func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidURL, "%q", rawURL)
	}
	return u, nil
}

// Head requests only the headers of rawURL, following redirects. The
// returned info carries the raw status code and the URL reached.
func (h *HTTPClient) Head(ctx context.Context, rawURL string) (models.HeaderInfo, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return models.HeaderInfo{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return models.HeaderInfo{}, errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return models.HeaderInfo{}, errors.Wrapf(err, "head %s", u)
	}
	defer resp.Body.Close()

	return models.HeaderInfo{
		URL:           resp.Request.URL.String(),
		Status:        resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

// Fetch downloads an HTML page. The body is capped at the configured size and
// transparently gunzipped; non-HTML responses fail with ErrNonHTML.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, string, time.Duration, error) {
	start := time.Now()
	u, err := parseURL(rawURL)
	if err != nil {
		return nil, "", "", 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", "", 0, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", "", 0, errors.Wrapf(err, "get %s", u)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, "", "", 0, errors.Errorf("http status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	// servers that omit the header are given the benefit of the doubt
	if mediaType != "" && !strings.Contains(mediaType, "text/html") && !strings.Contains(mediaType, "application/xhtml+xml") {
		resp.Body.Close()
		return nil, "", "", 0, errors.Wrapf(ErrNonHTML, "%s", mediaType)
	}

	var body io.ReadCloser = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, "", "", 0, errors.Wrap(err, "gzip")
		}
		body = &gzipBody{Reader: gz, raw: resp.Body}
	}

	finalURL := resp.Request.URL.String()
	elapsed := time.Since(start)
	return &limitedBody{Reader: io.LimitReader(body, h.sizeCap), closer: body}, finalURL, contentType, elapsed, nil
}

type limitedBody struct {
	io.Reader
	closer io.Closer
}

func (b *limitedBody) Close() error { return b.closer.Close() }

type gzipBody struct {
	*gzip.Reader
	raw io.Closer
}

func (b *gzipBody) Close() error {
	err := b.Reader.Close()
	if cerr := b.raw.Close(); err == nil {
		err = cerr
	}
	return err
}
