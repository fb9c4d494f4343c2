package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ankit-chaubey/media-extract/core/display"
)

// Report is the result of one extraction.
type Report struct {
	ID     string
	Source string
	Type   MediaType
	Record *Record
	Text   string
}

// ─── Formatting ──────────────────────────────────────────────────────────────

// FormatReport renders rec as the fixed-order text block for its category.
// Only attributes present in rec produce a line.
func FormatReport(rec *Record, cat Category, l display.Labels) string {
	var lines []string
	add := func(label, key, suffix string) {
		if v, ok := rec.Get(key); ok && v != nil {
			lines = append(lines, label+": "+formatScalar(key, v)+suffix)
		}
	}
	dims := func(label string) {
		if rec.Has("width") && rec.Has("height") {
			w, _ := rec.Get("width")
			h, _ := rec.Get("height")
			lines = append(lines, fmt.Sprintf("%s: %v×%v", label, w, h))
		}
	}

	switch cat {
	case CategoryAudio:
		lines = append(lines, l.AudioHeader)
		add(l.Format, "format", "")
		add(l.Size, "file_size", "")
		add(l.Duration, "duration", "s")
		add(l.Bitrate, "bitrate", " kbps")
		add(l.SampleRate, "sample_rate", " Hz")
		add(l.Channels, "channels", "")
		lines = appendBlock(lines, l.Tags, rec, "tags")

	case CategoryImage:
		lines = append(lines, l.ImageHeader)
		add(l.Format, "format", "")
		dims(l.Dimensions)
		add(l.Size, "file_size", "")
		add(l.Mode, "mode", "")
		add(l.DPI, "dpi", "")
		if v, ok := rec.Get("thumbnail"); ok {
			if thumb, ok := v.(*Record); ok {
				lines = append(lines, l.Thumbnail+": "+formatThumbnail(thumb, l))
			}
		}
		add(l.GPS, "gps_info", "")
		if v, ok := rec.Get("exif"); ok {
			if exif, ok := v.(*Record); ok {
				lines = appendFields(lines, exif)
			}
		}

	case CategoryVideo:
		lines = append(lines, l.VideoHeader)
		add(l.Format, "format", "")
		add(l.Size, "file_size", "")
		add(l.Duration, "duration", "s")
		dims(l.Resolution)
		add(l.FPS, "fps", " fps")
		add(l.VideoCodec, "video_codec", "")
		add(l.AudioCodec, "audio_codec", "")
		add(l.Channels, "channels", "")
		add(l.SampleRate, "sample_rate", " Hz")

	default:
		lines = appendFields(lines, rec)
	}
	return strings.Join(lines, "\n")
}

func appendBlock(lines []string, label string, rec *Record, key string) []string {
	v, ok := rec.Get(key)
	if !ok {
		return lines
	}
	nested, ok := v.(*Record)
	if !ok || nested.Len() == 0 {
		return lines
	}
	lines = append(lines, label+":")
	return appendFields(lines, nested)
}

// appendFields renders each non-nil field as "key: value". A value that
// spans several lines starts on the line after its key.
func appendFields(lines []string, rec *Record) []string {
	for _, f := range rec.Fields() {
		if f.Value == nil {
			continue
		}
		s := formatScalar(f.Key, f.Value)
		if strings.Contains(s, "\n") {
			lines = append(lines, f.Key+":", s)
			continue
		}
		lines = append(lines, f.Key+": "+s)
	}
	return lines
}

func formatThumbnail(thumb *Record, l display.Labels) string {
	var parts []string
	if v, ok := thumb.Get("size"); ok && v != nil {
		parts = append(parts, l.ThumbSize+" "+formatScalar("size", v))
	}
	if v, ok := thumb.Get("mode"); ok && v != nil {
		parts = append(parts, l.ThumbMode+" "+formatScalar("mode", v))
	}
	return strings.Join(parts, ", ")
}

func formatScalar(key string, v any) string {
	if key == "file_size" {
		switch n := v.(type) {
		case int64:
			return humanize.IBytes(uint64(n))
		case int:
			return humanize.IBytes(uint64(n))
		}
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return FormatFloat(val)
	case *Record:
		parts := make([]string, 0, val.Len())
		for _, f := range val.Fields() {
			parts = append(parts, f.Key+": "+formatScalar(f.Key, f.Value))
		}
		return strings.Join(parts, ", ")
	case nil:
		return "null"
	default:
		return fmt.Sprint(val)
	}
}

// ─── Printer ─────────────────────────────────────────────────────────────────

// Printer handles all display output for the CLI.
type Printer struct {
	JSON      bool
	Verbose   bool
	Writer    io.Writer
	ErrWriter io.Writer
}

// NewPrinter creates a default Printer writing to stdout.
func NewPrinter(jsonMode, verbose bool) *Printer {
	return &Printer{JSON: jsonMode, Verbose: verbose, Writer: os.Stdout, ErrWriter: os.Stderr}
}

// PrintReport renders a Report to the configured output.
func (p *Printer) PrintReport(r *Report) error {
	if p.JSON {
		return p.printJSON(r)
	}
	if p.Verbose {
		fmt.Fprintf(p.Writer, "File  : %s\n", r.Source)
		fmt.Fprintf(p.Writer, "Type  : %s\n", r.Type)
		if r.ID != "" {
			fmt.Fprintf(p.Writer, "ID    : %s\n", r.ID)
		}
	}
	_, err := fmt.Fprintln(p.Writer, r.Text)
	return err
}

func (p *Printer) printJSON(r *Report) error {
	type jsonOutput struct {
		ID       string  `json:"id,omitempty"`
		Source   string  `json:"file"`
		Type     string  `json:"type"`
		Category string  `json:"category"`
		Metadata *Record `json:"metadata"`
	}
	out := jsonOutput{
		ID:       r.ID,
		Source:   r.Source,
		Type:     r.Type.String(),
		Category: string(r.Type.Category()),
		Metadata: r.Record,
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(p.Writer, string(b))
	return err
}

// PrintError prints a per-input failure.
func (p *Printer) PrintError(source string, err error) {
	w := p.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "✗ %s: %v\n", source, err)
}
