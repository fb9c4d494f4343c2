// Package core defines the shared types, the media type sniffer and the
// report formatter for media-extract.
package core

// MediaType enumerates every recognised media type.
type MediaType string

const (
	TypeJPG  MediaType = "jpg"
	TypePNG  MediaType = "png"
	TypeGIF  MediaType = "gif"
	TypeWebP MediaType = "webp"

	TypeMP3  MediaType = "mp3"
	TypeWAV  MediaType = "wav"
	TypeOGG  MediaType = "ogg"
	TypeFLAC MediaType = "flac"
	TypeAMR  MediaType = "amr"

	TypeMP4 MediaType = "mp4"
	TypeMKV MediaType = "mkv"

	TypeUnknown MediaType = "unknown"
)

// Category is the broad media family a MediaType belongs to.
type Category string

const (
	CategoryImage   Category = "image"
	CategoryAudio   Category = "audio"
	CategoryVideo   Category = "video"
	CategoryUnknown Category = "unknown"
)

// Categories lists the categories that have a decoder.
var Categories = []Category{CategoryImage, CategoryAudio, CategoryVideo}

// Category returns the media family of t.
func (t MediaType) Category() Category {
	switch t {
	case TypeJPG, TypePNG, TypeGIF, TypeWebP:
		return CategoryImage
	case TypeMP3, TypeWAV, TypeOGG, TypeFLAC, TypeAMR:
		return CategoryAudio
	case TypeMP4, TypeMKV:
		return CategoryVideo
	default:
		return CategoryUnknown
	}
}

// Ext returns the conventional file extension for t, including the dot.
func (t MediaType) Ext() string {
	if t == TypeUnknown || t == "" {
		return ""
	}
	return "." + string(t)
}

func (t MediaType) String() string { return string(t) }

// ParseCategory maps a config or flag value onto a Category.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return CategoryUnknown, false
}
