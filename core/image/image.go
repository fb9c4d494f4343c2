// Package image extracts container properties and EXIF metadata from
// JPEG, PNG, GIF and WebP images.
package image

import (
	"bytes"
	"context"
	"fmt"
	goimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	_ "golang.org/x/image/webp"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/display"
	"github.com/ankit-chaubey/media-extract/core/geo"
	"github.com/ankit-chaubey/media-extract/core/logger"
	"github.com/ankit-chaubey/media-extract/core/tagtext"
)

var log = logger.WithName("image")

// DefaultGeoTimeout bounds one reverse-geocoding lookup.
const DefaultGeoTimeout = 10 * time.Second

// Decoder turns raw image bytes into a metadata record.
type Decoder struct {
	resolver   geo.Resolver
	names      display.Table
	geoTimeout time.Duration
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithResolver sets the reverse geocoder used for GPS data.
func WithResolver(r geo.Resolver) Option {
	return func(d *Decoder) {
		if r != nil {
			d.resolver = r
		}
	}
}

// WithNames sets the table used to translate EXIF and comment keys.
func WithNames(t display.Table) Option {
	return func(d *Decoder) {
		if t != nil {
			d.names = t
		}
	}
}

// WithGeoTimeout overrides DefaultGeoTimeout.
func WithGeoTimeout(timeout time.Duration) Option {
	return func(d *Decoder) {
		if timeout > 0 {
			d.geoTimeout = timeout
		}
	}
}

// NewDecoder returns a Decoder with geocoding disabled and the zh-CN
// display table.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		resolver:   geo.Disabled{},
		names:      display.Chinese(),
		geoTimeout: DefaultGeoTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads the image header and EXIF block of data. The only error is
// an image that cannot be opened; damaged EXIF is skipped.
func (d *Decoder) Decode(ctx context.Context, data []byte) (*core.Record, error) {
	cfg, format, err := goimage.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image: open: %w", err)
	}
	c := inspect(format, data, cfg.ColorModel)

	rec := core.NewRecord()
	rec.Set("format", strings.ToUpper(format))
	rec.Set("width", cfg.Width)
	rec.Set("height", cfg.Height)
	rec.Set("file_size", int64(len(data)))
	rec.Set("mode", c.mode)
	if c.dpi != nil {
		rec.Set("dpi", c.dpi)
	}
	if len(c.exif) > 0 {
		d.addExif(ctx, rec, c.exif)
	}
	return rec, nil
}

func (d *Decoder) addExif(ctx context.Context, rec *core.Record, raw []byte) {
	x, err := decodeExif(raw)
	if err != nil {
		log.WithError(err).Debug("skipping unreadable EXIF")
		return
	}
	b, err := d.readExif(x)
	if err != nil {
		log.WithError(err).Warn("skipping malformed EXIF")
		return
	}

	if b.thumbnail != nil {
		rec.Set("thumbnail", b.thumbnail)
	}
	if len(b.gps) > 0 {
		rec.Set("gps_info", d.describeGPS(ctx, b.gps))
	}
	if b.comment != "" {
		b.fields.Set(d.names.Translate("UserComment"), d.parseComment(b.comment))
	}
	if b.fields.Len() > 0 {
		rec.Set("exif", b.fields)
	}
}

// describeGPS returns the resolver's place description, or the raw GPS
// structure when resolving is disabled or fails.
func (d *Decoder) describeGPS(ctx context.Context, info geo.Info) any {
	if geo.IsDisabled(d.resolver) {
		return info
	}
	coord, err := geo.Coordinates(info)
	if err != nil {
		log.WithError(err).Debug("GPS position not convertible")
		return info
	}

	ctx, cancel := context.WithTimeout(ctx, d.geoTimeout)
	defer cancel()
	name, err := d.resolver.Resolve(ctx, coord)
	if err != nil || name == "" {
		log.WithError(err).WithField("coordinate", coord.String()).Warn("reverse geocoding failed")
		return info
	}
	return name
}

// parseComment expands a "key: value;" debug comment into one translated
// entry per line, keeping the raw text when nothing parses.
func (d *Decoder) parseComment(text string) string {
	parsed := tagtext.Parse(text, d.names)
	if parsed.Len() == 0 {
		return text
	}
	return tagtext.Join(parsed)
}
