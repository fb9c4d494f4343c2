package audio

import (
	"errors"
	"fmt"

	"github.com/ankit-chaubey/media-extract/core"
)

// ErrUnreadable is returned by a TagReader when the bytes are not a
// readable file of the requested type.
var ErrUnreadable = errors.New("unreadable audio stream")

// TagReader is the tag-reading facility the Decoder delegates to.
type TagReader interface {
	Read(data []byte, t core.MediaType) (*FileInfo, error)
}

// FileInfo is what a TagReader recovers from one file.
type FileInfo struct {
	MIME []string
	Info *StreamInfo
	Tags []Tag
}

// StreamInfo holds technical stream properties. Bitrate is in bits per second.
type StreamInfo struct {
	Length     float64
	Bitrate    int
	SampleRate int
	Channels   int
}

// Tag is one named tag with all of its values, in file order.
type Tag struct {
	Key    string
	Values []string
}

// tagList accumulates tags, merging repeated keys.
type tagList struct {
	tags  []Tag
	index map[string]int
}

func (l *tagList) add(key string, values ...string) {
	if key == "" || len(values) == 0 {
		return
	}
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[key]; ok {
		l.tags[i].Values = append(l.tags[i].Values, values...)
		return
	}
	l.index[key] = len(l.tags)
	l.tags = append(l.tags, Tag{Key: key, Values: values})
}

// LibraryReader reads MP3, WAV, FLAC and OGG using the container parsers
// in this package together with the id3v2 and dhowden/tag libraries.
type LibraryReader struct{}

// NewLibraryReader returns the default TagReader.
func NewLibraryReader() *LibraryReader { return &LibraryReader{} }

// Read implements TagReader.
func (r *LibraryReader) Read(data []byte, t core.MediaType) (*FileInfo, error) {
	switch t {
	case core.TypeMP3:
		return readMP3(data)
	case core.TypeWAV:
		return readWAV(data)
	case core.TypeFLAC:
		return readFLAC(data)
	case core.TypeOGG:
		return readOGG(data)
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnsupported, t)
}
