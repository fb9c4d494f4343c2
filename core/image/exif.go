package image

import (
	"bytes"
	"encoding/binary"
	"fmt"
	goimage "image"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/geo"
)

// fieldAliases renames goexif fields whose names differ from the common
// EXIF tag names used as display-table keys.
var fieldAliases = map[exif.FieldName]string{
	exif.ExifIFDPointer:             "ExifOffset",
	exif.InteroperabilityIFDPointer: "ExifInteroperabilityOffset",
	exif.FlashpixVersion:            "FlashPixVersion",
	exif.PixelXDimension:            "ExifImageWidth",
	exif.PixelYDimension:            "ExifImageHeight",
	exif.SubSecTime:                 "SubsecTime",
	exif.SubSecTimeOriginal:         "SubsecTimeOriginal",
	exif.SubSecTimeDigitized:        "SubsecTimeDigitized",
}

// IFD1 fields describe the thumbnail, not the image.
var thumbnailFields = map[exif.FieldName]bool{
	exif.ThumbJPEGInterchangeFormat:       true,
	exif.ThumbJPEGInterchangeFormatLength: true,
}

type exifField struct {
	name exif.FieldName
	tag  *tiff.Tag
}

type fieldCollector struct {
	fields []exifField
}

func (c *fieldCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c.fields = append(c.fields, exifField{name: name, tag: tag})
	return nil
}

// exifBlock is the decoded content of one EXIF segment.
type exifBlock struct {
	fields    *core.Record
	gps       geo.Info
	comment   string
	thumbnail *core.Record
}

// decodeExif parses a raw EXIF payload ("Exif\0\0" + TIFF, or bare TIFF).
// Sub-IFD errors are tolerated; the tags read so far are kept.
func decodeExif(raw []byte) (x *exif.Exif, err error) {
	defer func() {
		if r := recover(); r != nil {
			x, err = nil, fmt.Errorf("exif: decoder panic: %v", r)
		}
	}()
	x, err = exif.Decode(bytes.NewReader(raw))
	if err != nil {
		if x == nil || exif.IsCriticalError(err) {
			return nil, err
		}
		log.WithError(err).Debug("partial EXIF data")
	}
	return x, nil
}

// readExif walks x in tag-number order. GPS tags go to gps keyed by tag
// number; UserComment is decoded to text; everything else lands in fields
// under its translated name.
func (d *Decoder) readExif(x *exif.Exif) (b exifBlock, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("exif: malformed tag: %v", r)
		}
	}()

	var c fieldCollector
	if err := x.Walk(&c); err != nil {
		return b, fmt.Errorf("exif: walk: %w", err)
	}
	sort.SliceStable(c.fields, func(i, j int) bool {
		if c.fields[i].tag.Id != c.fields[j].tag.Id {
			return c.fields[i].tag.Id < c.fields[j].tag.Id
		}
		return c.fields[i].name < c.fields[j].name
	})

	b.fields = core.NewRecord()
	for _, f := range c.fields {
		switch {
		case thumbnailFields[f.name]:
			continue
		case f.name == exif.GPSInfoIFDPointer:
			continue
		case strings.HasPrefix(string(f.name), "GPS"):
			if b.gps == nil {
				b.gps = geo.Info{}
			}
			if v := gpsValue(f.tag); v != nil {
				b.gps[f.tag.Id] = v
			}
		case f.name == exif.UserComment:
			b.comment = userComment(f.tag.Val, x.Tiff.Order)
		default:
			if v := tagValue(f.tag); v != nil {
				b.fields.Set(d.names.Translate(fieldName(f.name)), v)
			}
		}
	}
	b.thumbnail = thumbnail(x)
	return b, nil
}

func fieldName(name exif.FieldName) string {
	if alias, ok := fieldAliases[name]; ok {
		return alias
	}
	return string(name)
}

// ─── Tag values ──────────────────────────────────────────────────────────────

// tagValue converts a tag to a record value: a string, an int, a float64,
// or a core.Tuple when the tag holds several numbers.
func tagValue(tag *tiff.Tag) any {
	n := int(tag.Count)
	switch tag.Format() {
	case tiff.StringVal:
		s, _ := tag.StringVal()
		return strings.TrimSpace(s)
	case tiff.UndefVal:
		return printable(tag.Val)
	}
	if n == 0 {
		return nil
	}

	switch tag.Format() {
	case tiff.IntVal:
		if n == 1 {
			v, _ := tag.Int64(0)
			return int(v)
		}
		t := make(core.Tuple, n)
		for i := range t {
			v, _ := tag.Int64(i)
			t[i] = float64(v)
		}
		return t
	case tiff.FloatVal:
		if n == 1 {
			v, _ := tag.Float(0)
			return v
		}
		t := make(core.Tuple, n)
		for i := range t {
			t[i], _ = tag.Float(i)
		}
		return t
	case tiff.RatVal:
		rats := rationals(tag)
		if n == 1 {
			if f, ok := rats[0].Float(); ok {
				return f
			}
			return rats[0].String()
		}
		t := make(core.Tuple, n)
		for i, r := range rats {
			f, ok := r.Float()
			if !ok {
				return formatRationals(rats)
			}
			t[i] = f
		}
		return t
	}
	return nil
}

// gpsValue keeps rationals exact so that coordinates can be converted
// later; references stay strings.
func gpsValue(tag *tiff.Tag) any {
	if tag.Format() == tiff.RatVal && tag.Count > 0 {
		rats := rationals(tag)
		if len(rats) == 1 {
			return rats[0]
		}
		return rats
	}
	return tagValue(tag)
}

func rationals(tag *tiff.Tag) []geo.Rational {
	out := make([]geo.Rational, tag.Count)
	for i := range out {
		num, den, _ := tag.Rat2(i)
		out[i] = geo.Rational{Num: num, Den: den}
	}
	return out
}

func formatRationals(rats []geo.Rational) string {
	parts := make([]string, len(rats))
	for i, r := range rats {
		parts[i] = r.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// printable renders an UNDEFINED value as text when it is text, and as
// space-separated hex otherwise.
func printable(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	if utf8.Valid(b) {
		ok := true
		for _, r := range string(b) {
			if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
				ok = false
				break
			}
		}
		if ok {
			return string(b)
		}
	}
	return fmt.Sprintf("% x", b)
}

// ─── UserComment ─────────────────────────────────────────────────────────────

const commentPrefixLen = 8

// userComment strips the 8-byte character code and decodes the rest.
// UNICODE comments are UTF-16 in the byte order of the TIFF header; all
// others are read as UTF-8, falling back to ISO-8859-1.
func userComment(val []byte, order binary.ByteOrder) string {
	if len(val) < commentPrefixLen {
		return strings.TrimSpace(decodeText(val))
	}
	code, body := string(bytes.TrimRight(val[:commentPrefixLen], "\x00 ")), val[commentPrefixLen:]
	if code == "UNICODE" {
		endian := xunicode.BigEndian
		if order == binary.LittleEndian {
			endian = xunicode.LittleEndian
		}
		if s, err := xunicode.UTF16(endian, xunicode.IgnoreBOM).NewDecoder().Bytes(body); err == nil {
			return strings.TrimSpace(strings.TrimRight(string(s), "\x00"))
		}
	}
	return strings.TrimSpace(decodeText(body))
}

func decodeText(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	if utf8.Valid(b) {
		return string(b)
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// ─── Thumbnail ───────────────────────────────────────────────────────────────

// thumbnail describes the IFD1 JPEG thumbnail without decoding its pixels.
func thumbnail(x *exif.Exif) *core.Record {
	offTag, err := x.Get(exif.ThumbJPEGInterchangeFormat)
	if err != nil {
		return nil
	}
	lenTag, err := x.Get(exif.ThumbJPEGInterchangeFormatLength)
	if err != nil {
		return nil
	}
	start, err1 := offTag.Int64(0)
	length, err2 := lenTag.Int64(0)
	if err1 != nil || err2 != nil || start <= 0 || length <= 0 || start+length > int64(len(x.Raw)) {
		return nil
	}

	cfg, _, err := goimage.DecodeConfig(bytes.NewReader(x.Raw[start : start+length]))
	if err != nil {
		log.WithError(err).Debug("unreadable EXIF thumbnail")
		return nil
	}
	rec := core.NewRecord()
	rec.Set("size", core.Tuple{float64(cfg.Width), float64(cfg.Height)})
	rec.Set("mode", modeOf(cfg.ColorModel))
	return rec
}
