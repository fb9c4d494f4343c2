package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public OpenStreetMap Nominatim endpoint.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	// DefaultUserAgent identifies this client to Nominatim.
	DefaultUserAgent = "AstrBot-ExtractPlugin/1.0.0"
	// DefaultTimeout bounds one reverse lookup.
	DefaultTimeout = 10 * time.Second
)

// Nominatim resolves coordinates with the Nominatim reverse geocoding API.
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ Resolver = (*Nominatim)(nil)

// Option configures a Nominatim client.
type Option func(*Nominatim)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Nominatim) {
		if client != nil {
			n.httpClient = client
		}
	}
}

// WithBaseURL points the client at another Nominatim instance.
func WithBaseURL(base string) Option {
	return func(n *Nominatim) {
		if base = strings.TrimSpace(base); base != "" {
			n.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each lookup.
func WithUserAgent(ua string) Option {
	return func(n *Nominatim) {
		if ua = strings.TrimSpace(ua); ua != "" {
			n.userAgent = ua
		}
	}
}

// WithProxy routes lookups through the given proxy URL. An empty string
// leaves the transport untouched.
func WithProxy(proxy string) Option {
	return func(n *Nominatim) {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			return
		}
		u, err := url.Parse(proxy)
		if err != nil {
			return
		}
		n.httpClient = &http.Client{
			Timeout:   n.httpClient.Timeout,
			Transport: &http.Transport{Proxy: http.ProxyURL(u)},
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(n *Nominatim) {
		if d > 0 {
			c := *n.httpClient
			c.Timeout = d
			n.httpClient = &c
		}
	}
}

// NewNominatim creates a Nominatim resolver.
func NewNominatim(opts ...Option) *Nominatim {
	n := &Nominatim{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// Resolve returns the display name of the place at c.
func (n *Nominatim) Resolve(ctx context.Context, c Coordinate) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	params.Set("zoom", "18")
	params.Set("addressdetails", "1")

	endpoint := n.baseURL + "/reverse?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("nominatim reverse: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("nominatim reverse: unexpected status %d", resp.StatusCode)
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("nominatim decode: %w", err)
	}
	name := strings.TrimSpace(payload.DisplayName)
	if name == "" {
		return "", errors.New("nominatim reverse: empty display_name")
	}
	return name, nil
}
