package image

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"math"

	"github.com/ankit-chaubey/media-extract/core"
)

// container holds what is read from the file structure itself, beyond
// what image.DecodeConfig reports.
type container struct {
	mode string
	dpi  core.Tuple
	exif []byte
}

func inspect(format string, data []byte, model color.Model) container {
	c := container{mode: modeOf(model)}
	switch format {
	case "jpeg":
		inspectJPEG(data, &c)
	case "png":
		inspectPNG(data, &c)
	case "gif":
		c.mode = "P"
	case "webp":
		inspectWebP(data, &c)
	}
	return c
}

// modeOf names a color model the way PIL names image modes.
func modeOf(model color.Model) string {
	if _, ok := model.(color.Palette); ok {
		return "P"
	}
	switch model {
	case color.GrayModel:
		return "L"
	case color.Gray16Model:
		return "I;16"
	case color.CMYKModel:
		return "CMYK"
	case color.RGBAModel, color.NRGBAModel, color.RGBA64Model, color.NRGBA64Model, color.NYCbCrAModel:
		return "RGBA"
	}
	return "RGB"
}

// ─── JPEG ────────────────────────────────────────────────────────────────────

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
)

type jpegSegment struct {
	marker byte
	data   []byte
}

// jpegSegments returns the marker segments before the first scan.
func jpegSegments(data []byte) []jpegSegment {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil
	}
	var segs []jpegSegment
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			break
		}
		marker := data[i+1]
		i += 2
		if marker == 0xFF {
			i-- // fill byte
			continue
		}
		if marker == markerEOI || marker == markerSOS {
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[i:i+2])) - 2
		i += 2
		if segLen < 0 || i+segLen > len(data) {
			break
		}
		segs = append(segs, jpegSegment{marker: marker, data: data[i : i+segLen]})
		i += segLen
	}
	return segs
}

var (
	jfifMagic = []byte("JFIF\x00")
	exifMagic = []byte("Exif\x00\x00")
)

func inspectJPEG(data []byte, c *container) {
	for _, seg := range jpegSegments(data) {
		switch {
		case seg.marker == markerAPP0 && bytes.HasPrefix(seg.data, jfifMagic) && c.dpi == nil:
			c.dpi = jfifDPI(seg.data[len(jfifMagic):])
		case seg.marker == markerAPP1 && bytes.HasPrefix(seg.data, exifMagic) && c.exif == nil:
			c.exif = seg.data
		}
	}
}

// jfifDPI reads the density fields following the JFIF version. Units 1 are
// dots per inch, 2 dots per centimetre; 0 carries only an aspect ratio.
func jfifDPI(b []byte) core.Tuple {
	if len(b) < 7 {
		return nil
	}
	units := b[2]
	x := float64(binary.BigEndian.Uint16(b[3:5]))
	y := float64(binary.BigEndian.Uint16(b[5:7]))
	switch units {
	case 1:
		return core.Tuple{x, y}
	case 2:
		return core.Tuple{round2(x * 2.54), round2(y * 2.54)}
	}
	return nil
}

// ─── PNG ─────────────────────────────────────────────────────────────────────

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

type pngChunk struct {
	typ  string
	data []byte
}

// readPNGChunks walks chunks up to IEND, stopping quietly at truncation.
func readPNGChunks(data []byte) []pngChunk {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil
	}
	var chunks []pngChunk
	i := len(pngSignature)
	for i+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[i : i+4]))
		typ := string(data[i+4 : i+8])
		i += 8
		if length < 0 || i+length > len(data) {
			break
		}
		chunks = append(chunks, pngChunk{typ: typ, data: data[i : i+length]})
		i += length + 4 // CRC
		if typ == "IEND" {
			break
		}
	}
	return chunks
}

// pngModes maps IHDR color types to modes.
var pngModes = map[byte]string{
	0: "L",
	2: "RGB",
	3: "P",
	4: "LA",
	6: "RGBA",
}

func inspectPNG(data []byte, c *container) {
	for _, ch := range readPNGChunks(data) {
		switch ch.typ {
		case "IHDR":
			if len(ch.data) < 10 {
				continue
			}
			depth, colorType := ch.data[8], ch.data[9]
			if mode, ok := pngModes[colorType]; ok {
				c.mode = mode
			}
			if colorType == 0 && depth == 16 {
				c.mode = "I;16"
			}
		case "pHYs":
			// Unit 1 is pixels per metre; unit 0 is an aspect ratio only.
			if len(ch.data) >= 9 && ch.data[8] == 1 {
				x := float64(binary.BigEndian.Uint32(ch.data[0:4]))
				y := float64(binary.BigEndian.Uint32(ch.data[4:8]))
				c.dpi = core.Tuple{round2(x * 0.0254), round2(y * 0.0254)}
			}
		case "eXIf":
			c.exif = ch.data
		}
	}
}

// ─── WebP ────────────────────────────────────────────────────────────────────

func inspectWebP(data []byte, c *container) {
	if len(data) < 12 {
		return
	}
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8
		if chunkSize < 0 || offset+chunkSize > len(data) {
			break
		}
		if chunkID == "EXIF" {
			c.exif = data[offset : offset+chunkSize]
			return
		}
		offset += chunkSize
		if chunkSize%2 != 0 {
			offset++
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
