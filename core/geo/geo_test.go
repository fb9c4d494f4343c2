package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dms(d, m, s int64) []Rational {
	return []Rational{{d, 1}, {m, 1}, {s, 1}}
}

func TestToDecimalDegrees(t *testing.T) {
	assert.InDelta(t, 40.446111, ToDecimalDegrees(40, 26, 46, "N"), 1e-6)
	assert.InDelta(t, -40.446111, ToDecimalDegrees(40, 26, 46, "S"), 1e-6)
	assert.InDelta(t, 79.982222, ToDecimalDegrees(79, 58, 56, "E"), 1e-6)
	assert.InDelta(t, -79.982222, ToDecimalDegrees(79, 58, 56, "W"), 1e-6)
	assert.Equal(t, 10.5, ToDecimalDegrees(10, 30, 0, ""))
}

func TestCoordinates(t *testing.T) {
	info := Info{
		TagLatitudeRef:  "N",
		TagLatitude:     dms(40, 26, 46),
		TagLongitudeRef: "W",
		TagLongitude:    dms(79, 58, 56),
	}
	c, err := Coordinates(info)
	require.NoError(t, err)
	assert.InDelta(t, 40.446111, c.Lat, 1e-6)
	assert.InDelta(t, -79.982222, c.Lon, 1e-6)
}

func TestCoordinatesUnresolved(t *testing.T) {
	tests := []struct {
		name string
		info Info
	}{
		{"empty", Info{}},
		{"missing longitude", Info{TagLatitudeRef: "N", TagLatitude: dms(1, 2, 3)}},
		{"wrong shape", Info{
			TagLatitudeRef: "N", TagLatitude: []Rational{{1, 1}},
			TagLongitudeRef: "E", TagLongitude: dms(1, 2, 3),
		}},
		{"zero denominator", Info{
			TagLatitudeRef: "N", TagLatitude: []Rational{{1, 1}, {2, 0}, {3, 1}},
			TagLongitudeRef: "E", TagLongitude: dms(1, 2, 3),
		}},
		{"ref not a string", Info{
			TagLatitudeRef: 7, TagLatitude: dms(1, 2, 3),
			TagLongitudeRef: "E", TagLongitude: dms(1, 2, 3),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Coordinates(tt.info)
			assert.ErrorIs(t, err, ErrUnresolved)
		})
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		TagLongitude:    []Rational{{79, 1}, {58, 1}, {1, 0}},
		TagLatitudeRef:  "N",
		TagLatitude:     []Rational{{40, 1}, {26, 1}, {93, 2}},
		TagLongitudeRef: "W",
	}
	assert.Equal(t, "{1: N, 2: (40, 26, 46.5), 3: W, 4: (79, 58, 1/0)}", info.String())

	b, err := json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":"N","2":[40,26,46.5],"3":"W","4":[79,58,"1/0"]}`, string(b))
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Resolve(context.Background(), Coordinate{})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.True(t, IsDisabled(Disabled{}))
	assert.True(t, IsDisabled(nil))
	assert.False(t, IsDisabled(NewNominatim()))
}

func TestNominatimResolve(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"Pittsburgh, Allegheny County, Pennsylvania"}`))
	}))
	defer srv.Close()

	n := NewNominatim(WithBaseURL(srv.URL+"/"), WithUserAgent("test-agent/1.0"))
	name, err := n.Resolve(context.Background(), Coordinate{Lat: 40.5, Lon: -79.25})
	require.NoError(t, err)
	assert.Equal(t, "Pittsburgh, Allegheny County, Pennsylvania", name)

	require.NotNil(t, got)
	assert.Equal(t, "/reverse", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "40.5", q.Get("lat"))
	assert.Equal(t, "-79.25", q.Get("lon"))
	assert.Equal(t, "18", q.Get("zoom"))
	assert.Equal(t, "1", q.Get("addressdetails"))
	assert.Equal(t, "test-agent/1.0", got.Header.Get("User-Agent"))
}

func TestNominatimFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"display_name":`))
		}},
		{"missing display_name", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"Unable to geocode"}`))
		}},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"display_name":"late"}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			n := NewNominatim(WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond))
			name, err := n.Resolve(context.Background(), Coordinate{Lat: 1, Lon: 2})
			assert.Error(t, err)
			assert.Empty(t, name)
		})
	}
}

func TestWithProxyKeepsTimeout(t *testing.T) {
	n := NewNominatim(WithTimeout(3*time.Second), WithProxy("http://127.0.0.1:8080"))
	assert.Equal(t, 3*time.Second, n.httpClient.Timeout)
	tr, ok := n.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, tr.Proxy)
}

func TestWithTimeoutLeavesCallerClient(t *testing.T) {
	own := &http.Client{Timeout: time.Minute}
	n := NewNominatim(WithHTTPClient(own), WithTimeout(2*time.Second))

	assert.Equal(t, time.Minute, own.Timeout)
	assert.Equal(t, 2*time.Second, n.httpClient.Timeout)
	assert.NotSame(t, own, n.httpClient)
}
