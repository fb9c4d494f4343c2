// Package extract classifies media bytes, dispatches them to the decoder
// for their category and formats the result.
package extract

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/audio"
	"github.com/ankit-chaubey/media-extract/core/config"
	"github.com/ankit-chaubey/media-extract/core/display"
	"github.com/ankit-chaubey/media-extract/core/geo"
	"github.com/ankit-chaubey/media-extract/core/image"
	"github.com/ankit-chaubey/media-extract/core/logger"
	"github.com/ankit-chaubey/media-extract/core/video"
)

var log = logger.WithName("extract")

// AudioDecoder decodes audio bytes of a known type.
type AudioDecoder interface {
	Decode(data []byte, t core.MediaType) (*core.Record, error)
}

// ImageDecoder decodes image bytes.
type ImageDecoder interface {
	Decode(ctx context.Context, data []byte) (*core.Record, error)
}

// VideoDecoder decodes video bytes of a known type.
type VideoDecoder interface {
	Decode(ctx context.Context, data []byte, t core.MediaType) (*core.Record, error)
}

// Extractor runs one extraction per call. It holds no per-call state and
// is safe for concurrent use when its decoders are.
type Extractor struct {
	enabled map[core.Category]bool
	locale  display.Locale
	audio   AudioDecoder
	image   ImageDecoder
	video   VideoDecoder
	newID   func() string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCategories restricts extraction to cats. Other categories are
// reported as unsupported.
func WithCategories(cats ...core.Category) Option {
	return func(e *Extractor) {
		e.enabled = make(map[core.Category]bool, len(cats))
		for _, c := range cats {
			e.enabled[c] = true
		}
	}
}

// WithLocale selects the report labels.
func WithLocale(l display.Locale) Option {
	return func(e *Extractor) { e.locale = l }
}

// WithAudioDecoder replaces the audio decoder.
func WithAudioDecoder(d AudioDecoder) Option {
	return func(e *Extractor) {
		if d != nil {
			e.audio = d
		}
	}
}

// WithImageDecoder replaces the image decoder.
func WithImageDecoder(d ImageDecoder) Option {
	return func(e *Extractor) {
		if d != nil {
			e.image = d
		}
	}
}

// WithVideoDecoder replaces the video decoder.
func WithVideoDecoder(d VideoDecoder) Option {
	return func(e *Extractor) {
		if d != nil {
			e.video = d
		}
	}
}

// New returns an Extractor with every category enabled, the default
// locale and default decoders.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		locale: display.MustLookup(display.DefaultLocale),
		newID:  uuid.NewString,
	}
	WithCategories(core.Categories...)(e)
	for _, opt := range opts {
		opt(e)
	}
	if e.audio == nil {
		e.audio = audio.NewDecoder()
	}
	if e.image == nil {
		e.image = image.NewDecoder(image.WithNames(e.locale.Names))
	}
	if e.video == nil {
		e.video = video.NewDecoder()
	}
	return e
}

// NewFromConfig builds an Extractor from cfg. The Nominatim resolver is
// used only when enable_geo_resolver is set.
func NewFromConfig(cfg *config.Config, opts ...Option) *Extractor {
	locale := display.MustLookup(cfg.Locale)

	var resolver geo.Resolver = geo.Disabled{}
	if cfg.EnableGeoResolver {
		resolver = geo.NewNominatim(
			geo.WithBaseURL(cfg.Geo.BaseURL),
			geo.WithUserAgent(cfg.Geo.UserAgent),
			geo.WithTimeout(cfg.GeoTimeout()),
			geo.WithProxy(cfg.Proxy),
		)
	}

	base := []Option{
		WithCategories(cfg.Categories()...),
		WithLocale(locale),
		WithImageDecoder(image.NewDecoder(
			image.WithResolver(resolver),
			image.WithNames(locale.Names),
			image.WithGeoTimeout(cfg.GeoTimeout()),
		)),
		WithVideoDecoder(video.NewDecoder(
			video.WithBinary(cfg.FFprobe.Binary),
			video.WithTimeout(cfg.FFprobeTimeout()),
		)),
	}
	return New(append(base, opts...)...)
}

// Enabled reports whether c is extracted.
func (e *Extractor) Enabled(c core.Category) bool {
	return e.enabled[c]
}

// Extract classifies data and returns its report. Unknown or disabled
// types fail with core.ErrUnsupported; a decoder that yields nothing
// fails with core.ErrNoMetadata.
func (e *Extractor) Extract(ctx context.Context, source string, data []byte) (*core.Report, error) {
	id := e.newID()
	t := core.Classify(data)
	cat := t.Category()
	entry := log.WithField("extraction_id", id).WithField("source", source).WithField("type", t)

	if cat == core.CategoryUnknown || !e.enabled[cat] {
		entry.Debug("media type not enabled")
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupported, t)
	}

	rec, err := e.decode(ctx, data, t)
	if err != nil {
		entry.WithError(err).Warn("decode failed")
		return nil, err
	}
	if rec == nil {
		entry.Info("no metadata extracted")
		return nil, core.ErrNoMetadata
	}
	entry.WithField("fields", rec.Len()).Debug("metadata extracted")

	return &core.Report{
		ID:     id,
		Source: source,
		Type:   t,
		Record: rec,
		Text:   core.FormatReport(rec, cat, e.locale.Labels),
	}, nil
}

func (e *Extractor) decode(ctx context.Context, data []byte, t core.MediaType) (*core.Record, error) {
	switch t.Category() {
	case core.CategoryAudio:
		return e.audio.Decode(data, t)
	case core.CategoryImage:
		return e.image.Decode(ctx, data)
	case core.CategoryVideo:
		return e.video.Decode(ctx, data, t)
	}
	return nil, core.ErrUnsupported
}
