package extract

import (
	"bytes"
	"context"
	"errors"
	goimage "image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/media-extract/core"
	"github.com/ankit-chaubey/media-extract/core/config"
	"github.com/ankit-chaubey/media-extract/core/display"
)

type fakeImage struct {
	rec   *core.Record
	err   error
	calls int
}

func (f *fakeImage) Decode(context.Context, []byte) (*core.Record, error) {
	f.calls++
	return f.rec, f.err
}

type fakeVideo struct {
	rec *core.Record
	typ core.MediaType
}

func (f *fakeVideo) Decode(_ context.Context, _ []byte, t core.MediaType) (*core.Record, error) {
	f.typ = t
	return f.rec, nil
}

func amrClip(frames int) []byte {
	return append([]byte("#!AMR\n"), make([]byte, frames*32)...)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, goimage.NewNRGBA(goimage.Rect(0, 0, 4, 3))))
	return buf.Bytes()
}

func TestExtractAudio(t *testing.T) {
	e := New(WithLocale(display.MustLookup("en")))
	e.newID = func() string { return "id-1" }

	report, err := e.Extract(context.Background(), "memo.amr", amrClip(50))
	require.NoError(t, err)

	assert.Equal(t, "id-1", report.ID)
	assert.Equal(t, "memo.amr", report.Source)
	assert.Equal(t, core.TypeAMR, report.Type)
	d, _ := report.Record.Get("duration")
	assert.Equal(t, 1.0, d)

	lines := strings.Split(report.Text, "\n")
	assert.Equal(t, "[Audio]", lines[0])
	assert.Contains(t, lines, "Format: AMR-NB")
	assert.Contains(t, lines, "Bitrate: 12.2 kbps")
}

func TestExtractUnknown(t *testing.T) {
	_, err := New().Extract(context.Background(), "notes.txt", []byte("hello world"))
	assert.ErrorIs(t, err, core.ErrUnsupported)
	assert.Contains(t, err.Error(), "unsupported media type")
}

func TestExtractDisabledCategory(t *testing.T) {
	img := &fakeImage{rec: core.NewRecord()}
	e := New(WithCategories(core.CategoryAudio), WithImageDecoder(img))

	_, err := e.Extract(context.Background(), "a.png", pngBytes(t))
	assert.ErrorIs(t, err, core.ErrUnsupported)
	assert.Zero(t, img.calls)
	assert.True(t, e.Enabled(core.CategoryAudio))
	assert.False(t, e.Enabled(core.CategoryImage))
}

func TestExtractNoMetadata(t *testing.T) {
	e := New(WithVideoDecoder(&fakeVideo{}))
	_, err := e.Extract(context.Background(), "clip.mkv", []byte("\x1A\x45\xDF\xA3 matroska"))
	assert.ErrorIs(t, err, core.ErrNoMetadata)
	assert.Contains(t, err.Error(), "could not parse media")
}

func TestExtractDecoderError(t *testing.T) {
	cause := errors.New("image: open: broken")
	e := New(WithImageDecoder(&fakeImage{err: cause}))
	_, err := e.Extract(context.Background(), "x.png", pngBytes(t))
	assert.ErrorIs(t, err, cause)
}

func TestExtractVideoDispatch(t *testing.T) {
	rec := core.NewRecord()
	rec.Set("format", "mov,mp4,m4a,3gp,3g2,mj2")
	rec.Set("fps", 29.97)
	v := &fakeVideo{rec: rec}

	report, err := New(WithVideoDecoder(v)).Extract(context.Background(), "clip.mp4", []byte("\x00\x00\x00\x18ftypisom"))
	require.NoError(t, err)
	assert.Equal(t, core.TypeMP4, v.typ)
	assert.True(t, strings.HasPrefix(report.Text, "【视频信息】："))
	assert.Contains(t, report.Text, "帧率: 29.97 fps")
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ExtractTypes = []string{"image"}
	cfg.Locale = "en"

	e := NewFromConfig(&cfg)
	assert.True(t, e.Enabled(core.CategoryImage))
	assert.False(t, e.Enabled(core.CategoryAudio))
	assert.False(t, e.Enabled(core.CategoryVideo))

	report, err := e.Extract(context.Background(), "a.png", pngBytes(t))
	require.NoError(t, err)
	lines := strings.Split(report.Text, "\n")
	assert.Equal(t, "[Image]", lines[0])
	assert.Contains(t, lines, "Format: PNG")
	assert.Contains(t, lines, "Dimensions: 4×3")
	assert.Contains(t, lines, "Color mode: RGBA")

	_, err = e.Extract(context.Background(), "memo.amr", amrClip(1))
	assert.ErrorIs(t, err, core.ErrUnsupported)
}

func TestExtractIDsAreUnique(t *testing.T) {
	e := New()
	a, err := e.Extract(context.Background(), "a.amr", amrClip(1))
	require.NoError(t, err)
	b, err := e.Extract(context.Background(), "b.amr", amrClip(1))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
