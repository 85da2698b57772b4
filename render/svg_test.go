package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neuroglow/neuroglow/models"
)

func TestSVGDocumentShell(t *testing.T) {
	s := NewSVGSurface(640, 360)
	doc := string(s.Bytes())

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0"`))
	assert.Contains(t, doc, `<svg width="640" height="360"`)
	assert.True(t, strings.HasSuffix(doc, "</svg>"))
}

func TestSVGClearStartsFresh(t *testing.T) {
	s := NewSVGSurface(640, 360)
	s.FillCircle(10, 10, 5, "#ffffff", 1)
	s.Clear("#10131c")

	doc := string(s.Bytes())
	assert.NotContains(t, doc, "<circle", "Clear discards prior elements")
	assert.Contains(t, doc, `fill="#10131c"`)
}

func TestSVGShapes(t *testing.T) {
	s := NewSVGSurface(640, 360)
	s.Clear("#10131c")
	s.FillRect(0, 0, 640, 360, "#10131c", 0.16)
	s.FillCircle(100, 50, 3, "#7de2ff", 0.9)
	s.StrokePath([]models.Point{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: 0}}, 1.2, "#3a6ea5", 0.4)

	doc := string(s.Bytes())
	assert.Contains(t, doc, `rgba(16,19,28,0.160)`)
	assert.Contains(t, doc, `<circle cx="100.00" cy="50.00" r="3.00"`)
	assert.Contains(t, doc, `<path d="M0.00,0.00 L10.00,5.00 L20.00,0.00"`)
	assert.Contains(t, doc, `stroke-width="1.20"`)
}

func TestSVGGlowGradients(t *testing.T) {
	s := NewSVGSurface(640, 360)
	s.Glow(100, 100, 12, "#7de2ff", 0.5)
	s.Glow(200, 100, 12, "#7de2ff", 0.5)

	doc := string(s.Bytes())
	assert.Contains(t, doc, `id="glow1"`)
	assert.Contains(t, doc, `id="glow2"`, "each glow gets a distinct gradient id")
	assert.Contains(t, doc, `fill="url(#glow1)"`)
}

func TestSVGStrokePathNeedsTwoPoints(t *testing.T) {
	s := NewSVGSurface(640, 360)
	s.StrokePath([]models.Point{{X: 1, Y: 1}}, 1, "#ffffff", 1)
	assert.NotContains(t, string(s.Bytes()), "<path")
}

func TestSVGResizeDiscards(t *testing.T) {
	s := NewSVGSurface(640, 360)
	s.FillCircle(10, 10, 5, "#ffffff", 1)
	s.Resize(800, 600)

	w, h := s.Size()
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 600.0, h)
	assert.NotContains(t, string(s.Bytes()), "<circle")
}

func TestHexColorParsing(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b uint8
	}{
		{"#ffffff", 255, 255, 255},
		{"#10131c", 0x10, 0x13, 0x1c},
		{"#fff", 255, 255, 255},
		{"#abc", 0xaa, 0xbb, 0xcc},
		{"#zzzzzz", 0, 0, 0},
		{"#12", 0, 0, 0},
		{"", 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := parseHexColor(tt.hex)
		assert.Equal(t, tt.r, r, tt.hex)
		assert.Equal(t, tt.g, g, tt.hex)
		assert.Equal(t, tt.b, b, tt.hex)
	}
}

func TestHexRGBAPremultiplies(t *testing.T) {
	c := HexRGBA("#ffffff", 0.5)
	assert.Equal(t, uint8(127), c.R)
	assert.Equal(t, uint8(127), c.A)

	c = HexRGBA("#ffffff", 2) // clamped
	assert.Equal(t, uint8(255), c.A)

	c = HexRGBA("#ffffff", -1)
	assert.Equal(t, uint8(0), c.A)
}
