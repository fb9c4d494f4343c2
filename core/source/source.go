// Package source reads media bytes from a local file, standard input or an
// http(s) URL.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ankit-chaubey/media-extract/core/logger"
)

var log = logger.WithName("source")

const (
	// Stdin is the reference that reads from standard input.
	Stdin = "-"
	// DefaultTimeout bounds one download.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxSize caps how much is read from any source.
	DefaultMaxSize int64 = 512 << 20
)

// ErrTooLarge is returned when a source exceeds the loader's size cap.
var ErrTooLarge = errors.New("source exceeds size limit")

// Loader resolves references to bytes.
type Loader struct {
	client  *http.Client
	stdin   io.Reader
	maxSize int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient overrides the client used for URLs.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			c := *l.client
			c.Timeout = d
			l.client = &c
		}
	}
}

// WithProxy routes downloads through proxy. An empty or unparsable value
// leaves the transport untouched.
func WithProxy(proxy string) Option {
	return func(l *Loader) {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			return
		}
		u, err := url.Parse(proxy)
		if err != nil {
			log.WithError(err).Warn("ignoring invalid proxy")
			return
		}
		l.client = &http.Client{
			Timeout:   l.client.Timeout,
			Transport: &http.Transport{Proxy: http.ProxyURL(u)},
		}
	}
}

// WithStdin replaces os.Stdin as the reader behind "-".
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		if r != nil {
			l.stdin = r
		}
	}
}

// WithMaxSize overrides DefaultMaxSize.
func WithMaxSize(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxSize = n
		}
	}
}

// NewLoader returns a Loader with DefaultTimeout and DefaultMaxSize.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:  &http.Client{Timeout: DefaultTimeout},
		stdin:   os.Stdin,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsURL reports whether ref is an http or https URL.
func IsURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load returns the bytes behind ref.
func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == Stdin:
		return l.readAll(l.stdin, "stdin")
	case IsURL(ref):
		return l.fetch(ctx, ref)
	default:
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", ref, err)
		}
		defer f.Close()
		return l.readAll(f, ref)
	}
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %s", ref, resp.Status)
	}
	if resp.ContentLength > l.maxSize {
		return nil, fmt.Errorf("download %s (%s): %w", ref, humanize.IBytes(uint64(resp.ContentLength)), ErrTooLarge)
	}
	data, err := l.readAll(resp.Body, ref)
	if err != nil {
		return nil, err
	}
	log.WithField("url", ref).WithField("size", humanize.IBytes(uint64(len(data)))).Debug("downloaded media")
	return data, nil
}

func (l *Loader) readAll(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(data)) > l.maxSize {
		return nil, fmt.Errorf("read %s: %w (limit %s)", name, ErrTooLarge, humanize.IBytes(uint64(l.maxSize)))
	}
	return data, nil
}
