package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

var mp3MIME = []string{"audio/mpeg", "audio/mpg", "audio/x-mpeg"}

// ─── Frame header tables ─────────────────────────────────────────────────────

const (
	mpeg25 = 0
	mpeg2  = 2
	mpeg1  = 3

	layer3 = 1
	layer2 = 2
	layer1 = 3
)

// Bitrates in kbps indexed by [MPEG1?][layer][index].
var bitrateTable = [2][4][16]int{
	{ // MPEG2 / 2.5
		{},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
	},
	{ // MPEG1
		{},
		{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
		{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
	},
}

var sampleRateTable = map[uint32][3]int{
	mpeg1:  {44100, 48000, 32000},
	mpeg2:  {22050, 24000, 16000},
	mpeg25: {11025, 12000, 8000},
}

type frameHeader struct {
	version    uint32
	layer      uint32
	bitrate    int // bps
	sampleRate int
	channels   int
	padding    int
}

// parseFrameHeader decodes a 4-byte MPEG audio frame header.
func parseFrameHeader(b []byte) (frameHeader, bool) {
	if len(b) < 4 {
		return frameHeader{}, false
	}
	h := binary.BigEndian.Uint32(b)
	if h&0xFFE00000 != 0xFFE00000 {
		return frameHeader{}, false
	}
	version := (h >> 19) & 0x3
	layer := (h >> 17) & 0x3
	brIdx := (h >> 12) & 0xF
	srIdx := (h >> 10) & 0x3
	if version == 1 || layer == 0 || brIdx == 0 || brIdx == 0xF || srIdx == 3 {
		return frameHeader{}, false
	}

	v1 := 0
	if version == mpeg1 {
		v1 = 1
	}
	fh := frameHeader{
		version:    version,
		layer:      layer,
		bitrate:    bitrateTable[v1][layer][brIdx] * 1000,
		sampleRate: sampleRateTable[version][srIdx],
		channels:   2,
		padding:    int((h >> 9) & 0x1),
	}
	if (h>>6)&0x3 == 3 {
		fh.channels = 1
	}
	return fh, true
}

func (fh frameHeader) samplesPerFrame() int {
	switch {
	case fh.layer == layer1:
		return 384
	case fh.layer == layer3 && fh.version != mpeg1:
		return 576
	}
	return 1152
}

func (fh frameHeader) frameLen() int {
	if fh.layer == layer1 {
		return (12*fh.bitrate/fh.sampleRate + fh.padding) * 4
	}
	return fh.samplesPerFrame()/8*fh.bitrate/fh.sampleRate + fh.padding
}

// sideInfoLen is the Layer III side information size that precedes a
// Xing/Info header inside the first frame.
func (fh frameHeader) sideInfoLen() int {
	switch {
	case fh.version == mpeg1 && fh.channels == 1:
		return 17
	case fh.version == mpeg1:
		return 32
	case fh.channels == 1:
		return 9
	}
	return 17
}

// ─── Stream info ─────────────────────────────────────────────────────────────

// id3v2Size returns the total size of a leading ID3v2 tag, or 0.
func id3v2Size(data []byte) int {
	if len(data) < 10 || string(data[:3]) != "ID3" {
		return 0
	}
	size := int(data[6]&0x7F)<<21 | int(data[7]&0x7F)<<14 | int(data[8]&0x7F)<<7 | int(data[9]&0x7F)
	size += 10
	if data[5]&0x10 != 0 {
		size += 10 // footer
	}
	return size
}

// syncFrame finds the first frame header at or after start whose successor
// also syncs, so stray 0xFF bytes in padding are skipped.
func syncFrame(data []byte, start int) (int, frameHeader, bool) {
	for off := start; off+4 <= len(data); off++ {
		if data[off] != 0xFF {
			continue
		}
		fh, ok := parseFrameHeader(data[off:])
		if !ok {
			continue
		}
		next := off + fh.frameLen()
		if next+4 <= len(data) {
			if _, ok := parseFrameHeader(data[next:]); !ok {
				continue
			}
		}
		return off, fh, true
	}
	return 0, frameHeader{}, false
}

func mpegStreamInfo(data []byte) (*StreamInfo, error) {
	audioStart := id3v2Size(data)
	audioEnd := len(data)
	if audioEnd >= 128 && string(data[audioEnd-128:audioEnd-125]) == "TAG" {
		audioEnd -= 128
	}
	if audioStart >= audioEnd {
		return nil, fmt.Errorf("%w: no audio after ID3 tag", ErrUnreadable)
	}

	off, fh, ok := syncFrame(data[:audioEnd], audioStart)
	if !ok {
		return nil, fmt.Errorf("%w: can't sync to MPEG frame", ErrUnreadable)
	}

	info := &StreamInfo{
		Bitrate:    fh.bitrate,
		SampleRate: fh.sampleRate,
		Channels:   fh.channels,
	}
	if frames, ok := vbrFrames(data, off, fh); ok && frames > 0 {
		info.Length = float64(frames) * float64(fh.samplesPerFrame()) / float64(fh.sampleRate)
		if info.Length > 0 {
			info.Bitrate = int(float64(audioEnd-off) * 8 / info.Length)
		}
		return info, nil
	}
	info.Length = float64(audioEnd-off) * 8 / float64(fh.bitrate)
	return info, nil
}

// vbrFrames reads the frame count from a Xing/Info or VBRI header in the
// first frame.
func vbrFrames(data []byte, off int, fh frameHeader) (uint32, bool) {
	xing := off + 4 + fh.sideInfoLen()
	if xing+12 <= len(data) {
		switch string(data[xing : xing+4]) {
		case "Xing", "Info":
			flags := binary.BigEndian.Uint32(data[xing+4:])
			if flags&0x1 != 0 {
				return binary.BigEndian.Uint32(data[xing+8:]), true
			}
			return 0, false
		}
	}
	vbri := off + 4 + 32
	if vbri+18 <= len(data) && string(data[vbri:vbri+4]) == "VBRI" {
		return binary.BigEndian.Uint32(data[vbri+14:]), true
	}
	return 0, false
}

// ─── Tags ────────────────────────────────────────────────────────────────────

func readMP3(data []byte) (*FileInfo, error) {
	info, err := mpegStreamInfo(data)
	if err != nil {
		return nil, err
	}

	fi := &FileInfo{MIME: mp3MIME, Info: info}
	if id3v2Size(data) > 0 {
		tags, err := readID3v2(data)
		if err != nil {
			log.WithError(err).Debug("ignoring unreadable ID3v2 tag")
		}
		fi.Tags = tags
	}
	if len(fi.Tags) == 0 {
		fi.Tags = readID3v1(data)
	}
	return fi, nil
}

// readID3v2 returns every understood frame ordered by frame ID. Comment,
// user text, lyrics and picture frames carry their description in the key.
func readID3v2(data []byte) ([]Tag, error) {
	t, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("parse ID3v2: %w", err)
	}

	frames := t.AllFrames()
	ids := make([]string, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var list tagList
	for _, id := range ids {
		for _, f := range frames[id] {
			key, values := frameValues(id, f)
			list.add(key, values...)
		}
	}
	return list.tags, nil
}

func frameValues(id string, f id3v2.Framer) (string, []string) {
	switch fr := f.(type) {
	case id3v2.TextFrame:
		return id, splitText(fr.Text)
	case id3v2.CommentFrame:
		return "COMM:" + fr.Description + ":" + fr.Language, nonEmpty(fr.Text)
	case id3v2.UserDefinedTextFrame:
		return "TXXX:" + fr.Description, splitText(fr.Value)
	case id3v2.UnsynchronisedLyricsFrame:
		return "USLT:" + fr.ContentDescriptor + ":" + fr.Language, nonEmpty(fr.Lyrics)
	case id3v2.PictureFrame:
		return "APIC:" + fr.Description, []string{fmt.Sprintf("%s, %d bytes", fr.MimeType, len(fr.Picture))}
	case id3v2.UFIDFrame:
		return "UFID:" + fr.OwnerIdentifier, nonEmpty(string(fr.Identifier))
	}
	return "", nil
}

// splitText splits ID3v2.4 null-separated multi-value text.
func splitText(s string) []string {
	var out []string
	for _, v := range strings.Split(s, "\x00") {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// readID3v1 maps a trailing ID3v1 tag onto the equivalent ID3v2 frame IDs.
func readID3v1(data []byte) []Tag {
	m, err := tag.ReadID3v1Tags(bytes.NewReader(data))
	if err != nil {
		if !errors.Is(err, tag.ErrNotID3v1) {
			log.WithError(err).Debug("ignoring unreadable ID3v1 tag")
		}
		return nil
	}

	var list tagList
	list.add("TIT2", nonEmpty(m.Title())...)
	list.add("TPE1", nonEmpty(m.Artist())...)
	list.add("TALB", nonEmpty(m.Album())...)
	if y := m.Year(); y > 0 {
		list.add("TDRC", strconv.Itoa(y))
	}
	list.add("COMM::eng", nonEmpty(m.Comment())...)
	if n, _ := m.Track(); n > 0 {
		list.add("TRCK", strconv.Itoa(n))
	}
	list.add("TCON", nonEmpty(m.Genre())...)
	return list.tags
}
