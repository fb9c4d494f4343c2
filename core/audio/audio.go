// Package audio extracts stream information and tags from audio files:
// MP3 (ID3v1/v2), WAV (RIFF INFO, id3 chunk), FLAC (Vorbis Comments),
// OGG Vorbis/Opus, and headerless AMR-NB by frame arithmetic.
package audio

import (
	"fmt"
	"math"
	"strings"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/logger"
)

var log = logger.WithName("audio")

// Decoder turns raw audio bytes into a metadata record.
type Decoder struct {
	reader TagReader
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithTagReader replaces the default tag-reading facility.
func WithTagReader(r TagReader) Option {
	return func(d *Decoder) {
		if r != nil {
			d.reader = r
		}
	}
}

// NewDecoder returns a Decoder backed by the library tag reader.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{reader: NewLibraryReader()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode extracts metadata from data. A nil record with a nil error means
// the bytes could not be read; the cause is logged. An error is returned
// only when t is not an audio type.
func (d *Decoder) Decode(data []byte, t core.MediaType) (*core.Record, error) {
	if t.Category() != core.CategoryAudio {
		return nil, fmt.Errorf("audio: %w: %s", core.ErrUnsupported, t)
	}
	if t == core.TypeAMR {
		return decodeAMR(data), nil
	}

	fi, err := d.read(data, t)
	if err != nil {
		log.WithField("type", t).WithError(err).Warn("audio tag reader failed")
		return nil, nil
	}
	if fi == nil {
		log.WithField("type", t).Warn("audio tag reader returned nothing")
		return nil, nil
	}
	return normalize(fi, len(data)), nil
}

func (d *Decoder) read(data []byte, t core.MediaType) (fi *FileInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			fi, err = nil, fmt.Errorf("audio: tag reader panic: %v", r)
		}
	}()
	return d.reader.Read(data, t)
}

func normalize(fi *FileInfo, size int) *core.Record {
	rec := core.NewRecord()
	if len(fi.MIME) > 0 {
		rec.Set("format", fi.MIME[0])
	}
	rec.Set("file_size", int64(size))

	if info := fi.Info; info != nil {
		rec.Set("duration", round(info.Length, 2))
		if info.Bitrate > 0 {
			rec.Set("bitrate", round(float64(info.Bitrate)/1000, 1))
		}
		if info.SampleRate > 0 {
			rec.Set("sample_rate", info.SampleRate)
		}
		if info.Channels > 0 {
			rec.Set("channels", info.Channels)
		}
	}

	if len(fi.Tags) > 0 {
		tags := core.NewRecord()
		for _, tag := range fi.Tags {
			tags.Set(tag.Key, strings.Join(tag.Values, ", "))
		}
		rec.Set("tags", tags)
	}
	return rec
}

// ─── AMR ─────────────────────────────────────────────────────────────────────

const (
	amrHeaderLen    = 6 // "#!AMR\n"
	amrFrameLen     = 32
	amrFrameSeconds = 0.020
	amrSampleRate   = 8000
	amrBitrateKbps  = 12.2
)

// decodeAMR estimates AMR-NB stream properties assuming every 32-byte
// chunk after the header is a full 12.2 kbps voice frame. Streams mixing
// frame types (SID, NO_DATA) are undercounted.
func decodeAMR(data []byte) *core.Record {
	frames := (len(data) - amrHeaderLen) / amrFrameLen
	if frames < 0 {
		frames = 0
	}

	rec := core.NewRecord()
	rec.Set("format", "AMR-NB")
	rec.Set("file_size", int64(len(data)))
	rec.Set("duration", round(float64(frames)*amrFrameSeconds, 2))
	rec.Set("sample_rate", amrSampleRate)
	rec.Set("channels", 1)
	rec.Set("bitrate", amrBitrateKbps)
	return rec
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
