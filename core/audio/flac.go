package audio

import (
	"encoding/binary"
	"fmt"
	"strings"
)

var flacMIME = []string{"audio/flac", "audio/x-flac", "application/x-flac"}

const (
	flacStreamInfo    = 0
	flacVorbisComment = 4
)

type flacBlock struct {
	blockType byte
	data      []byte
}

// parseFLACBlocks returns the metadata blocks after the "fLaC" marker at
// data[0] and the offset where audio frames begin.
func parseFLACBlocks(data []byte) ([]flacBlock, int, error) {
	var blocks []flacBlock
	i := 4
	for i+4 <= len(data) {
		header := binary.BigEndian.Uint32(data[i : i+4])
		isLast := header>>31 == 1
		blockType := byte((header >> 24) & 0x7F)
		length := int(header & 0xFFFFFF)
		i += 4
		if i+length > len(data) {
			return nil, i, fmt.Errorf("%w: FLAC block truncated", ErrUnreadable)
		}
		blocks = append(blocks, flacBlock{blockType: blockType, data: data[i : i+length]})
		i += length
		if isLast {
			break
		}
	}
	return blocks, i, nil
}

func readFLAC(data []byte) (*FileInfo, error) {
	if skip := id3v2Size(data); skip > 0 && skip <= len(data) {
		data = data[skip:]
	}
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		return nil, fmt.Errorf("%w: missing fLaC marker", ErrUnreadable)
	}
	blocks, audioStart, err := parseFLACBlocks(data)
	if err != nil {
		return nil, err
	}

	fi := &FileInfo{MIME: flacMIME}
	var list tagList
	for _, b := range blocks {
		switch b.blockType {
		case flacStreamInfo:
			info, err := parseStreamInfo(b.data)
			if err != nil {
				return nil, err
			}
			if info.Length > 0 {
				info.Bitrate = int(float64(len(data)-audioStart) * 8 / info.Length)
			}
			fi.Info = info
		case flacVorbisComment:
			parseVorbisComments(b.data, &list)
		}
	}
	if fi.Info == nil {
		return nil, fmt.Errorf("%w: missing STREAMINFO", ErrUnreadable)
	}
	fi.Tags = list.tags
	return fi, nil
}

// parseStreamInfo decodes the packed sample rate (20 bits), channel count
// (3 bits) and total sample count (36 bits) of a STREAMINFO block.
func parseStreamInfo(b []byte) (*StreamInfo, error) {
	if len(b) < 18 {
		return nil, fmt.Errorf("%w: short STREAMINFO", ErrUnreadable)
	}
	sampleRate := int(b[10])<<12 | int(b[11])<<4 | int(b[12])>>4
	channels := int(b[12]>>1&0x7) + 1
	total := uint64(b[13]&0x0F)<<32 | uint64(binary.BigEndian.Uint32(b[14:18]))

	info := &StreamInfo{SampleRate: sampleRate, Channels: channels}
	if sampleRate > 0 {
		info.Length = float64(total) / float64(sampleRate)
	}
	return info, nil
}

// parseVorbisComments reads a Vorbis Comment block (little-endian lengths,
// no framing bit). Keys are lowercased; repeated keys keep every value.
func parseVorbisComments(data []byte, list *tagList) {
	if len(data) < 4 {
		return
	}
	vendorLen := int(binary.LittleEndian.Uint32(data[0:4]))
	pos := 4 + vendorLen
	if vendorLen < 0 || pos+4 > len(data) {
		return
	}
	count := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
	pos += 4
	for i := 0; i < count && pos+4 <= len(data); i++ {
		cLen := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if cLen < 0 || pos+cLen > len(data) {
			break
		}
		comment := string(data[pos : pos+cLen])
		pos += cLen
		if eq := strings.Index(comment, "="); eq > 0 {
			list.add(strings.ToLower(comment[:eq]), comment[eq+1:])
		}
	}
}
