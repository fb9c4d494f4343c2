package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	zh := Chinese()
	assert.Equal(t, "制造商", zh.Translate("Make"))
	assert.Equal(t, "GPS信息", zh.Translate("GPSInfo"))
	assert.Equal(t, "AI场景", zh.Translate("AI_Scene"))
	assert.Equal(t, "NotATag", zh.Translate("NotATag"))
	assert.Equal(t, "Make", Identity.Translate("Make"))
}

func TestLookup(t *testing.T) {
	l, ok := Lookup(" ZH ")
	assert.True(t, ok)
	assert.Equal(t, "【图片信息】：", l.Labels.ImageHeader)

	_, ok = Lookup("fr")
	assert.False(t, ok)
	assert.Equal(t, "zh", MustLookup("fr").Name)
	assert.Equal(t, "Make", MustLookup("en").Names.Translate("Make"))
}
