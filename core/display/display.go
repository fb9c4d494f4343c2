// Package display holds the static display-name table used for EXIF tags
// and debug-comment keys, and the per-locale report labels.
package display

import "strings"

// Table maps an English key to its display name.
type Table map[string]string

// Translate returns the display name for key, or key itself when the table
// has no entry for it.
func (t Table) Translate(key string) string {
	if name, ok := t[key]; ok {
		return name
	}
	return key
}

// Identity is the table that leaves every key unchanged.
var Identity = Table{}

// Chinese returns the zh-CN table.
func Chinese() Table { return chinese }

// Labels are the fixed strings of a formatted report.
type Labels struct {
	AudioHeader string
	ImageHeader string
	VideoHeader string

	Format     string
	Size       string
	Duration   string
	Bitrate    string
	SampleRate string
	Channels   string
	Tags       string

	Dimensions string
	Mode       string
	DPI        string
	Thumbnail  string
	ThumbSize  string
	ThumbMode  string
	GPS        string

	Resolution string
	FPS        string
	VideoCodec string
	AudioCodec string
}

var zhLabels = Labels{
	AudioHeader: "【音频信息】：",
	ImageHeader: "【图片信息】：",
	VideoHeader: "【视频信息】：",
	Format:      "格式",
	Size:        "大小",
	Duration:    "时长",
	Bitrate:     "比特率",
	SampleRate:  "采样率",
	Channels:    "声道数",
	Tags:        "标签信息",
	Dimensions:  "尺寸",
	Mode:        "颜色模式",
	DPI:         "DPI",
	Thumbnail:   "缩略图",
	ThumbSize:   "尺寸",
	ThumbMode:   "模式",
	GPS:         "GPS信息",
	Resolution:  "分辨率",
	FPS:         "帧率",
	VideoCodec:  "视频编码",
	AudioCodec:  "音频编码",
}

var enLabels = Labels{
	AudioHeader: "[Audio]",
	ImageHeader: "[Image]",
	VideoHeader: "[Video]",
	Format:      "Format",
	Size:        "Size",
	Duration:    "Duration",
	Bitrate:     "Bitrate",
	SampleRate:  "Sample rate",
	Channels:    "Channels",
	Tags:        "Tags",
	Dimensions:  "Dimensions",
	Mode:        "Color mode",
	DPI:         "DPI",
	Thumbnail:   "Thumbnail",
	ThumbSize:   "size",
	ThumbMode:   "mode",
	GPS:         "GPS",
	Resolution:  "Resolution",
	FPS:         "Frame rate",
	VideoCodec:  "Video codec",
	AudioCodec:  "Audio codec",
}

// Locale bundles a display table with its report labels.
type Locale struct {
	Name   string
	Names  Table
	Labels Labels
}

var locales = map[string]Locale{
	"zh": {Name: "zh", Names: chinese, Labels: zhLabels},
	"en": {Name: "en", Names: Identity, Labels: enLabels},
}

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "zh"

// Lookup returns the locale registered under name.
func Lookup(name string) (Locale, bool) {
	l, ok := locales[strings.ToLower(strings.TrimSpace(name))]
	return l, ok
}

// MustLookup returns the named locale, or the default one when name is
// unknown.
func MustLookup(name string) Locale {
	if l, ok := Lookup(name); ok {
		return l
	}
	return locales[DefaultLocale]
}
