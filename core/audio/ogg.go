package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

var (
	vorbisMIME = []string{"audio/ogg", "audio/vorbis"}
	opusMIME   = []string{"audio/ogg", "audio/ogg; codecs=opus"}
)

const (
	oggHeaderLen   = 27
	opusSampleRate = 48000
)

type oggPage struct {
	granule  int64
	serial   uint32
	segments []byte
	body     []byte
}

// nextOggPage parses the page starting at data[0] and returns it with the
// number of bytes it occupies.
func nextOggPage(data []byte) (oggPage, int, bool) {
	if len(data) < oggHeaderLen || string(data[:4]) != "OggS" {
		return oggPage{}, 0, false
	}
	n := int(data[26])
	if len(data) < oggHeaderLen+n {
		return oggPage{}, 0, false
	}
	segments := data[oggHeaderLen : oggHeaderLen+n]
	bodyLen := 0
	for _, s := range segments {
		bodyLen += int(s)
	}
	start := oggHeaderLen + n
	if len(data) < start+bodyLen {
		return oggPage{}, 0, false
	}
	return oggPage{
		granule:  int64(binary.LittleEndian.Uint64(data[6:14])),
		serial:   binary.LittleEndian.Uint32(data[14:18]),
		segments: segments,
		body:     data[start : start+bodyLen],
	}, start + bodyLen, true
}

// firstPacket returns the first packet on a page.
func (p oggPage) firstPacket() []byte {
	n := 0
	for _, s := range p.segments {
		n += int(s)
		if s < 255 {
			break
		}
	}
	return p.body[:n]
}

func readOGG(data []byte) (*FileInfo, error) {
	first, _, ok := nextOggPage(data)
	if !ok {
		return nil, fmt.Errorf("%w: missing first Ogg page", ErrUnreadable)
	}

	var (
		fi      *FileInfo
		preSkip int64
	)
	id := first.firstPacket()
	switch {
	case len(id) >= 30 && string(id[:7]) == "\x01vorbis":
		fi = &FileInfo{MIME: vorbisMIME, Info: &StreamInfo{
			Channels:   int(id[11]),
			SampleRate: int(binary.LittleEndian.Uint32(id[12:16])),
			Bitrate:    int(int32(binary.LittleEndian.Uint32(id[20:24]))),
		}}
	case len(id) >= 19 && string(id[:8]) == "OpusHead":
		fi = &FileInfo{MIME: opusMIME, Info: &StreamInfo{
			Channels:   int(id[9]),
			SampleRate: opusSampleRate,
		}}
		preSkip = int64(binary.LittleEndian.Uint16(id[10:12]))
	default:
		return nil, fmt.Errorf("%w: unknown Ogg codec", ErrUnreadable)
	}

	info := fi.Info
	if info.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate", ErrUnreadable)
	}
	if last := lastGranule(data, first.serial); last > preSkip {
		info.Length = float64(last-preSkip) / float64(info.SampleRate)
	}
	if info.Bitrate <= 0 && info.Length > 0 {
		info.Bitrate = int(float64(len(data)) * 8 / info.Length)
	}

	fi.Tags = readOggComments(data, first.serial)
	return fi, nil
}

// lastGranule returns the final granule position of the logical stream.
func lastGranule(data []byte, serial uint32) int64 {
	last := int64(-1)
	for off := 0; off < len(data); {
		p, n, ok := nextOggPage(data[off:])
		if !ok {
			break
		}
		if p.serial == serial && p.granule >= 0 {
			last = p.granule
		}
		off += n
	}
	return last
}

// headerPackets returns the first n packets of the logical stream,
// reassembling packets that continue across pages.
func headerPackets(data []byte, serial uint32, n int) [][]byte {
	var (
		packets [][]byte
		cur     []byte
	)
	for off := 0; off < len(data) && len(packets) < n; {
		p, size, ok := nextOggPage(data[off:])
		if !ok {
			break
		}
		off += size
		if p.serial != serial {
			continue
		}
		pos := 0
		for _, seg := range p.segments {
			cur = append(cur, p.body[pos:pos+int(seg)]...)
			pos += int(seg)
			if seg < 255 {
				packets = append(packets, cur)
				cur = nil
				if len(packets) == n {
					break
				}
			}
		}
	}
	return packets
}

// readOggComments returns the comment header fields sorted by key. The
// vendor string and embedded picture blocks are not tags.
func readOggComments(data []byte, serial uint32) []Tag {
	packets := headerPackets(data, serial, 2)
	if len(packets) < 2 {
		log.Debug("Ogg stream has no comment header")
		return nil
	}
	body := packets[1]
	switch {
	case bytes.HasPrefix(body, []byte("\x03vorbis")):
		body = body[7:]
	case bytes.HasPrefix(body, []byte("OpusTags")):
		body = body[8:]
	default:
		log.Debug("ignoring unrecognised Ogg comment header")
		return nil
	}

	var all tagList
	parseVorbisComments(body, &all)

	var list tagList
	for _, t := range all.tags {
		if t.Key != "metadata_block_picture" {
			list.add(t.Key, t.Values...)
		}
	}
	sort.SliceStable(list.tags, func(i, j int) bool { return list.tags[i].Key < list.tags[j].Key })
	return list.tags
}
