// Package video reads container and stream properties of MP4 and MKV files
// through an external ffprobe process.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/logger"
)

var log = logger.WithName("video")

// commandContext is swapped out by tests.
var commandContext = exec.CommandContext

const (
	// DefaultBinary is looked up in PATH.
	DefaultBinary = "ffprobe"
	// DefaultTimeout bounds one ffprobe run.
	DefaultTimeout = 5 * time.Second
)

// Decoder probes video bytes with ffprobe.
type Decoder struct {
	binary  string
	timeout time.Duration
	tempDir string
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithBinary sets the ffprobe executable.
func WithBinary(path string) Option {
	return func(d *Decoder) {
		if path = strings.TrimSpace(path); path != "" {
			d.binary = path
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Decoder) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithTempDir sets where the temporary input file is written. The default
// is os.TempDir.
func WithTempDir(dir string) Option {
	return func(d *Decoder) {
		d.tempDir = dir
	}
}

// NewDecoder returns a Decoder running DefaultBinary with DefaultTimeout.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{binary: DefaultBinary, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode writes data to a private temporary file and probes it. Temporary
// file and probe failures are logged and yield a nil record; only a
// non-video type is returned as an error.
func (d *Decoder) Decode(ctx context.Context, data []byte, t core.MediaType) (*core.Record, error) {
	if t.Category() != core.CategoryVideo {
		return nil, fmt.Errorf("video: %w: %s", core.ErrUnsupported, t)
	}

	path, err := writeTemp(d.tempDir, data, t)
	if err != nil {
		log.WithError(err).WithField("dir", d.tempDir).Warn("failed to stage video for ffprobe")
		return nil, nil
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).WithField("path", path).Warn("failed to remove temporary file")
		}
	}()

	result, ok := d.probe(ctx, path)
	if !ok {
		return nil, nil
	}
	return buildRecord(result, int64(len(data))), nil
}

func writeTemp(dir string, data []byte, t core.MediaType) (string, error) {
	f, err := os.CreateTemp(dir, "extract-*"+t.Ext())
	if err != nil {
		return "", fmt.Errorf("video: create temp file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("video: write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("video: close temp file: %w", err)
	}
	return path, nil
}

// probe runs ffprobe against path. ok is false on a non-zero exit, a
// timeout, empty output or output that is not JSON.
func (d *Decoder) probe(ctx context.Context, path string) (probeResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := commandContext(ctx, d.binary, "-v", "error", "-print_format", "json", "-show_format", "-show_streams", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()

	entry := log.WithField("binary", d.binary)
	if stderr.Len() > 0 {
		entry.WithField("stderr", truncate(stderr.String(), 500)).Debug("ffprobe stderr")
	}
	if err != nil {
		entry.WithError(err).Warn("ffprobe failed")
		return probeResult{}, false
	}
	if len(bytes.TrimSpace(out)) == 0 {
		entry.Warn("ffprobe produced no output")
		return probeResult{}, false
	}

	var result probeResult
	if err := json.Unmarshal(out, &result); err != nil {
		entry.WithError(err).WithField("raw", truncate(string(out), 500)).Warn("ffprobe output is not valid JSON")
		return probeResult{}, false
	}
	return result, true
}

// buildRecord reduces ffprobe output to the first video and first audio
// stream.
func buildRecord(r probeResult, size int64) *core.Record {
	rec := core.NewRecord()
	if r.Format.FormatName != "" {
		rec.Set("format", r.Format.FormatName)
	}
	rec.Set("file_size", size)
	if dur, ok := r.Format.duration(); ok {
		rec.Set("duration", round2(dur))
	}

	if v, ok := r.firstStream("video"); ok {
		if v.Width != nil {
			rec.Set("width", *v.Width)
		}
		if v.Height != nil {
			rec.Set("height", *v.Height)
		}
		if fps, ok := frameRate(v.AvgFrameRate); ok {
			rec.Set("fps", fps)
		}
		if v.CodecName != "" {
			rec.Set("video_codec", v.CodecName)
		}
	}

	if a, ok := r.firstStream("audio"); ok {
		if a.CodecName != "" {
			rec.Set("audio_codec", a.CodecName)
		}
		if a.Channels != nil {
			rec.Set("channels", *a.Channels)
		}
		if sr := sampleRate(a.SampleRate); sr != nil {
			rec.Set("sample_rate", sr)
		}
	}
	return rec
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
