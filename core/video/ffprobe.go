package video

import (
	"math"
	"strconv"
	"strings"
)

// probeResult is the subset of `ffprobe -print_format json` output the
// decoder reads.
type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        *int   `json:"width"`
	Height       *int   `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	SampleRate   string `json:"sample_rate"`
	Channels     *int   `json:"channels"`
}

type probeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// firstStream returns the first stream of the given codec type.
func (r probeResult) firstStream(codecType string) (probeStream, bool) {
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, codecType) {
			return s, true
		}
	}
	return probeStream{}, false
}

// duration returns the container duration in seconds.
func (f probeFormat) duration() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(f.Duration), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// frameRate parses an avg_frame_rate of the form "num/den". An empty
// value, "0/0", a zero denominator or anything unparsable has no rate.
func frameRate(rate string) (float64, bool) {
	rate = strings.TrimSpace(rate)
	if rate == "" || rate == "0/0" {
		return 0, false
	}
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return 0, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || d == 0 {
		return 0, false
	}
	return round2(float64(n) / float64(d)), true
}

// sampleRate reports ffprobe's string sample rate as an integer when it is
// one.
func sampleRate(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
