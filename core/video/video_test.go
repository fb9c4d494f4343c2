package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/display"
)

const probeJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "avg_frame_rate": "30000/1001"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000", "channels": 2},
    {"index": 2, "codec_name": "hevc", "codec_type": "video", "width": 640, "height": 360, "avg_frame_rate": "25/1"},
    {"index": 3, "codec_name": "opus", "codec_type": "audio", "sample_rate": "44100", "channels": 6}
  ],
  "format": {"filename": "x.mp4", "format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "12.345678", "size": "1024"}
}`

const stillJSON = `{
  "streams": [
    {"index": 0, "codec_name": "mjpeg", "codec_type": "video", "width": 320, "height": 240, "avg_frame_rate": "0/0"}
  ],
  "format": {"format_name": "matroska,webm"}
}`

type probeCall struct {
	name       string
	args       []string
	tempExists bool
}

func setHelperCommand(t *testing.T, mode string) *probeCall {
	t.Helper()
	call := &probeCall{}
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		call.name = name
		call.args = append([]string(nil), args...)
		if len(args) > 0 {
			_, err := os.Stat(args[len(args)-1])
			call.tempExists = err == nil
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("FFPROBE_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
	return call
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("FFPROBE_HELPER_MODE") {
	case "success":
		fmt.Print(probeJSON)
		os.Exit(0)
	case "still":
		fmt.Print(stillJSON)
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "Invalid data found when processing input")
		os.Exit(1)
	case "empty":
		os.Exit(0)
	case "bare":
		fmt.Print("{}")
		os.Exit(0)
	case "badjson":
		fmt.Println("not-json")
		os.Exit(0)
	case "hang":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	default:
		os.Exit(0)
	}
}

func TestDecodeFirstStreams(t *testing.T) {
	call := setHelperCommand(t, "success")
	dir := t.TempDir()

	d := NewDecoder(WithTempDir(dir))
	data := []byte("\x00\x00\x00\x18ftypmp42 fake video")
	rec, err := d.Decode(context.Background(), data, core.TypeMP4)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, []string{
		"format", "file_size", "duration", "width", "height", "fps", "video_codec",
		"audio_codec", "channels", "sample_rate",
	}, rec.Keys())

	get := func(k string) any { v, _ := rec.Get(k); return v }
	assert.Equal(t, "mov,mp4,m4a,3gp,3g2,mj2", get("format"))
	assert.Equal(t, int64(len(data)), get("file_size"))
	assert.Equal(t, 12.35, get("duration"))
	assert.Equal(t, 1920, get("width"))
	assert.Equal(t, 1080, get("height"))
	assert.Equal(t, 29.97, get("fps"))
	assert.Equal(t, "h264", get("video_codec"))
	assert.Equal(t, "aac", get("audio_codec"))
	assert.Equal(t, 2, get("channels"))
	assert.Equal(t, 48000, get("sample_rate"))

	assert.Equal(t, DefaultBinary, call.name)
	require.NotEmpty(t, call.args)
	assert.Equal(t, []string{"-v", "error", "-print_format", "json", "-show_format", "-show_streams"}, call.args[:len(call.args)-1])
	tempPath := call.args[len(call.args)-1]
	assert.Equal(t, dir, filepath.Dir(tempPath))
	assert.True(t, strings.HasSuffix(tempPath, ".mp4"))
	assert.True(t, call.tempExists, "temp file should exist while ffprobe runs")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file should be removed")
}

func TestDecodeOmitsMissingFormat(t *testing.T) {
	setHelperCommand(t, "bare")

	data := []byte("\x1a\x45\xdf\xa3")
	rec, err := NewDecoder(WithTempDir(t.TempDir())).Decode(context.Background(), data, core.TypeMKV)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []string{"file_size"}, rec.Keys())

	text := core.FormatReport(rec, core.CategoryVideo, display.MustLookup("en").Labels)
	assert.NotContains(t, text, "Format")
}

func TestDecodeTempFileFailureIsSoft(t *testing.T) {
	call := setHelperCommand(t, "success")
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	rec, err := NewDecoder(WithTempDir(missing)).Decode(context.Background(), []byte("ftyp"), core.TypeMP4)
	assert.NoError(t, err)
	assert.Nil(t, rec)
	assert.Empty(t, call.name, "ffprobe must not run without an input file")
}

func TestDecodeNoFrameRate(t *testing.T) {
	setHelperCommand(t, "still")

	rec, err := NewDecoder(WithTempDir(t.TempDir())).Decode(context.Background(), []byte("\x1a\x45\xdf\xa3"), core.TypeMKV)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.False(t, rec.Has("fps"))
	assert.False(t, rec.Has("duration"))
	assert.False(t, rec.Has("audio_codec"))
	assert.Equal(t, []string{"format", "file_size", "width", "height", "video_codec"}, rec.Keys())
}

func TestDecodeSoftFailures(t *testing.T) {
	for _, mode := range []string{"failure", "empty", "badjson"} {
		t.Run(mode, func(t *testing.T) {
			setHelperCommand(t, mode)
			dir := t.TempDir()

			rec, err := NewDecoder(WithTempDir(dir)).Decode(context.Background(), []byte("video"), core.TypeMP4)
			assert.NoError(t, err)
			assert.Nil(t, rec)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestDecodeTimeout(t *testing.T) {
	setHelperCommand(t, "hang")
	dir := t.TempDir()

	start := time.Now()
	rec, err := NewDecoder(WithTempDir(dir), WithTimeout(200*time.Millisecond)).
		Decode(context.Background(), []byte("video"), core.TypeMP4)
	assert.NoError(t, err)
	assert.Nil(t, rec)
	assert.Less(t, time.Since(start), 5*time.Second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecodeCustomBinary(t *testing.T) {
	call := setHelperCommand(t, "success")

	_, err := NewDecoder(WithTempDir(t.TempDir()), WithBinary("/opt/ffmpeg/bin/ffprobe")).
		Decode(context.Background(), []byte("video"), core.TypeMKV)
	require.NoError(t, err)
	assert.Equal(t, "/opt/ffmpeg/bin/ffprobe", call.name)
	assert.True(t, strings.HasSuffix(call.args[len(call.args)-1], ".mkv"))
}

func TestDecodeRejectsOtherCategories(t *testing.T) {
	_, err := NewDecoder().Decode(context.Background(), []byte("x"), core.TypeMP3)
	assert.ErrorIs(t, err, core.ErrUnsupported)
}

func TestFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"30000/1001", 29.97, true},
		{"25/1", 25, true},
		{"24000/1001", 23.98, true},
		{"0/0", 0, false},
		{"", 0, false},
		{"30/0", 0, false},
		{"abc", 0, false},
		{"30/x", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := frameRate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
