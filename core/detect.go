package core

import (
	"bytes"
	"io"
	"os"
)

// SniffLen is the number of leading bytes Classify looks at.
const SniffLen = 16

// signature is one entry of the ordered sniffing table.
type signature struct {
	typ   MediaType
	match func(b []byte) bool
}

func prefix(p string) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, []byte(p)) }
}

func riff(fourCC string) func([]byte) bool {
	return func(b []byte) bool {
		return bytes.HasPrefix(b, []byte("RIFF")) && bytes.Contains(b, []byte(fourCC))
	}
}

// signatures is checked top to bottom; the first match wins.
var signatures = []signature{
	{TypeJPG, prefix("\xFF\xD8\xFF")},
	{TypePNG, prefix("\x89PNG\r\n\x1A\n")},
	{TypeGIF, func(b []byte) bool { return prefix("GIF87a")(b) || prefix("GIF89a")(b) }},
	{TypeWebP, riff("WEBP")},
	{TypeMP3, func(b []byte) bool { return prefix("ID3")(b) || prefix("\xFF\xFB")(b) }},
	{TypeWAV, riff("WAVE")},
	{TypeOGG, prefix("OggS")},
	{TypeFLAC, prefix("fLaC")},
	{TypeAMR, prefix("#!AMR")},
	{TypeMP4, func(b []byte) bool { return bytes.Contains(b, []byte("ftyp")) }},
	{TypeMKV, prefix("\x1A\x45\xDF\xA3")},
}

// Classify returns the MediaType of data judged by its first SniffLen bytes.
// It never fails; anything unrecognised is TypeUnknown.
func Classify(data []byte) MediaType {
	if len(data) > SniffLen {
		data = data[:SniffLen]
	}
	if len(data) == 0 {
		return TypeUnknown
	}
	for _, sig := range signatures {
		if sig.match(data) {
			return sig.typ
		}
	}
	return TypeUnknown
}

// DetectFile classifies the file at path by reading its leading bytes.
func DetectFile(path string) (MediaType, error) {
	f, err := os.Open(path)
	if err != nil {
		return TypeUnknown, err
	}
	defer f.Close()

	buf := make([]byte, SniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && n == 0 && err != io.EOF {
		return TypeUnknown, err
	}
	return Classify(buf[:n]), nil
}
