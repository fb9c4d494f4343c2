package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOrder(t *testing.T) {
	rec := NewRecord()
	rec.Set("format", "PNG")
	rec.Set("width", 10)
	rec.Set("height", 20)
	rec.Set("width", 11)

	assert.Equal(t, []string{"format", "width", "height"}, rec.Keys())
	w, ok := rec.Get("width")
	assert.True(t, ok)
	assert.Equal(t, 11, w)

	rec.Set("dpi", Tuple{72, 72})
	assert.Equal(t, []string{"format", "width", "height", "dpi"}, rec.Keys())
}

func TestRecordHasIgnoresNil(t *testing.T) {
	rec := NewRecord()
	rec.Set("a", nil)
	_, ok := rec.Get("a")
	assert.True(t, ok)
	assert.False(t, rec.Has("a"))

	var nilRec *Record
	assert.Equal(t, 0, nilRec.Len())
	assert.False(t, nilRec.Has("a"))
}

func TestRecordJSONKeepsOrder(t *testing.T) {
	tags := NewRecord()
	tags.Set("title", "Song")
	rec := NewRecord()
	rec.Set("z", 1)
	rec.Set("a", Tuple{1.5, 2})
	rec.Set("tags", tags)
	rec.Set("none", nil)

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[1.5,2],"tags":{"title":"Song"},"none":null}`, string(b))
}

func TestTupleString(t *testing.T) {
	assert.Equal(t, "(72, 72)", Tuple{72, 72}.String())
	assert.Equal(t, "(0.5, -1.25)", Tuple{0.5, -1.25}.String())
}
