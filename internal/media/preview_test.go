package media

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 1x1 PNG
var onePixelPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53,
	0xDE, 0x00, 0x00, 0x00, 0x0C, 0x49, 0x44, 0x41,
	0x54, 0x08, 0xD7, 0x63, 0xF8, 0xFF, 0xFF, 0x3F,
	0x00, 0x05, 0xFE, 0x02, 0xFE, 0xDC, 0xCC, 0x59,
	0xE7, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E,
	0x44, 0xAE, 0x42, 0x60, 0x82,
}

func TestPreview(t *testing.T) {
	p := Preview(File{Name: "a.png", Data: onePixelPNG})

	assert.True(t, strings.HasPrefix(p, "data:image/png;base64,"))
	assert.Equal(t, base64.StdEncoding.EncodeToString(onePixelPNG), strings.TrimPrefix(p, "data:image/png;base64,"))
}

func TestPreviewAll_KeepsOrder(t *testing.T) {
	files := make([]File, 0, 50)
	for i := 0; i < 50; i++ {
		files = append(files, File{ContentType: "image/jpeg", Data: []byte{byte(i)}})
	}

	previews := PreviewAll(files)
	assert.Len(t, previews, 50)
	for i, p := range previews {
		assert.Equal(t, Preview(files[i]), p)
	}
}
