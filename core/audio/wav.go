package audio

import (
	"encoding/binary"
	"fmt"
	"strings"
)

var wavMIME = []string{"audio/wav", "audio/wave"}

// infoChunkNames maps RIFF INFO sub-chunk IDs to readable names.
var infoChunkNames = map[string]string{
	"IARL": "ArchivalLocation",
	"IART": "Artist",
	"ICMS": "Commissioned",
	"ICMT": "Comment",
	"ICOP": "Copyright",
	"ICRD": "DateCreated",
	"ICRP": "Cropped",
	"IDIM": "Dimensions",
	"IDPI": "DotsPerInch",
	"IENG": "Engineer",
	"IGNR": "Genre",
	"IKEY": "Keywords",
	"ILGT": "Lightness",
	"IMED": "Medium",
	"INAM": "Title",
	"IPLT": "NumberOfColors",
	"IPRD": "Product",
	"ISBJ": "Subject",
	"ISFT": "Software",
	"ISHP": "Sharpness",
	"ISRC": "Source",
	"ISRF": "SourceForm",
	"ITCH": "Technician",
	"ITRK": "Track",
}

type riffChunk struct {
	id   string
	data []byte
}

// riffChunks walks the chunks after a 12-byte RIFF header. A final chunk
// whose declared size runs past the end is clipped to the bytes present.
func riffChunks(data []byte) []riffChunk {
	var chunks []riffChunk
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		off += 8
		end := off + size
		if size < 0 || end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, riffChunk{id: id, data: data[off:end]})
		off = end
		if size%2 != 0 {
			off++
		}
	}
	return chunks
}

func readWAV(data []byte) (*FileInfo, error) {
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrUnreadable)
	}

	var (
		info     *StreamInfo
		byteRate int
		list     tagList
	)
	dataLen := -1
	for _, c := range riffChunks(data) {
		switch c.id {
		case "fmt ":
			if len(c.data) < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrUnreadable)
			}
			channels := int(binary.LittleEndian.Uint16(c.data[2:4]))
			sampleRate := int(binary.LittleEndian.Uint32(c.data[4:8]))
			byteRate = int(binary.LittleEndian.Uint32(c.data[8:12]))
			bits := int(binary.LittleEndian.Uint16(c.data[14:16]))
			info = &StreamInfo{
				SampleRate: sampleRate,
				Channels:   channels,
				Bitrate:    channels * bits * sampleRate,
			}
		case "data":
			dataLen = len(c.data)
		case "LIST":
			if len(c.data) >= 4 && string(c.data[:4]) == "INFO" {
				readInfoList(c.data[4:], &list)
			}
		case "id3 ", "ID3 ":
			tags, err := readID3v2(c.data)
			if err != nil {
				log.WithError(err).Debug("ignoring unreadable id3 chunk")
			}
			for _, t := range tags {
				list.add(t.Key, t.Values...)
			}
		}
	}
	if info == nil {
		return nil, fmt.Errorf("%w: missing fmt chunk", ErrUnreadable)
	}
	if dataLen > 0 && byteRate > 0 {
		info.Length = float64(dataLen) / float64(byteRate)
	}
	return &FileInfo{MIME: wavMIME, Info: info, Tags: list.tags}, nil
}

func readInfoList(data []byte, list *tagList) {
	pos := 0
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		pos += 8
		if size < 0 || pos+size > len(data) {
			return
		}
		if val := strings.TrimRight(string(data[pos:pos+size]), "\x00"); val != "" {
			name := infoChunkNames[id]
			if name == "" {
				name = id
			}
			list.add(name, val)
		}
		pos += size
		if size%2 != 0 {
			pos++
		}
	}
}
