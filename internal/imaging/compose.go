// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging renders finished greeting cards. A source image is fitted
// inside a colored border, darkened toward the bottom, and overlaid with
// the card phrase. Production cards are PNG at 2100px with a watermark;
// previews are 800px JPEG without one.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"strings"

	resize "github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Rendering constants, in production pixels unless noted.
const (
	ProductionSize = 2100
	PreviewSize    = 800
	BorderWidth    = 40

	OverlayRatio = 0.30 // share of the canvas height darkened for text
	OverlayAlpha = 153  // alpha at the bottom edge of the gradient

	TextWidthRatio = 0.80
	MinFontSize    = 18

	WatermarkText     = "© eCard Factory"
	WatermarkFontSize = 24
	WatermarkAlpha    = 178

	JPEGQuality = 88

	// DefaultMaxPNGBytes is the ceiling above which a production PNG is
	// re-encoded with a 256-color palette.
	DefaultMaxPNGBytes = 3 << 20
)

// DefaultBorderColor is used when the palette has no usable first color.
var DefaultBorderColor = color.NRGBA{R: 0x1F, G: 0x29, B: 0x37, A: 0xFF}

// Layout fixes the canvas geometry of one output kind.
type Layout struct {
	Size      int
	Border    int
	Watermark bool
}

// ProductionLayout and PreviewLayout are the two card outputs. The preview
// border scales with the canvas.
var (
	ProductionLayout = Layout{Size: ProductionSize, Border: BorderWidth, Watermark: true}
	PreviewLayout    = Layout{Size: PreviewSize, Border: BorderWidth * PreviewSize / ProductionSize, Watermark: false}
)

// Card is the input for one render.
type Card struct {
	Source      image.Image
	Phrase      string
	Palette     []string
	VisualStyle string
}

// Compositor renders cards with a fixed pair of fonts.
type Compositor struct {
	textFont      *truetype.Font
	watermarkFont *truetype.Font

	// MaxPNGBytes triggers palette quantization of production PNGs.
	MaxPNGBytes int
}

// NewCompositor loads the phrase font from fontPath, or uses the bundled
// Go Bold face when fontPath is empty.
func NewCompositor(fontPath string) (*Compositor, error) {
	textTTF := gobold.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("read card font: %w", err)
		}
		textTTF = b
	}

	textFont, err := truetype.Parse(textTTF)
	if err != nil {
		return nil, fmt.Errorf("parse card font: %w", err)
	}
	wmFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse watermark font: %w", err)
	}

	return &Compositor{
		textFont:      textFont,
		watermarkFont: wmFont,
		MaxPNGBytes:   DefaultMaxPNGBytes,
	}, nil
}

// Assemble renders the 2100x2100 production card as PNG.
func (c *Compositor) Assemble(card Card) ([]byte, error) {
	img := c.Render(card, ProductionLayout)

	out, quantized, err := encodePNG(img, c.MaxPNGBytes)
	if err != nil {
		return nil, err
	}
	slog.Debug("card assembled",
		"bytes", len(out),
		"quantized", quantized,
		"visual_style", card.VisualStyle,
	)
	return out, nil
}

// Preview renders the 800x800 preview card as JPEG.
func (c *Compositor) Preview(card Card) ([]byte, error) {
	img := c.Render(card, PreviewLayout)

	var buf bytes.Buffer
	if err := resize.Encode(&buf, img, resize.JPEG, resize.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode preview jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Render draws the card onto a fresh canvas of the layout's size.
func (c *Compositor) Render(card Card, l Layout) image.Image {
	size := float64(l.Size)
	dc := gg.NewContext(l.Size, l.Size)

	dc.SetColor(BorderColor(card.Palette))
	dc.Clear()

	inner := l.Size - 2*l.Border
	fitted := resize.Fill(card.Source, inner, inner, resize.Center, resize.Lanczos)
	dc.DrawImage(fitted, l.Border, l.Border)

	bandHeight := int(size * OverlayRatio)
	bandTop := l.Size - bandHeight
	grad := gg.NewLinearGradient(0, float64(bandTop), 0, size)
	grad.AddColorStop(0, color.NRGBA{A: 0})
	grad.AddColorStop(1, color.NRGBA{A: OverlayAlpha})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, float64(bandTop), size, float64(bandHeight))
	dc.Fill()

	fontSize := ScaleFontSize(BaseFontSize(card.Phrase), l.Size)
	face := truetype.NewFace(c.textFont, &truetype.Options{
		Size:    float64(fontSize),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	dc.SetFontFace(face)

	lines := WrapText(card.Phrase, size*TextWidthRatio, func(s string) float64 {
		w, _ := dc.MeasureString(s)
		return w
	})

	m := face.Metrics()
	ascent := float64(m.Ascent.Ceil())
	lineHeight := ascent + float64(m.Descent.Ceil())
	spacing := math.Max(10, float64(fontSize/4))
	block := lineHeight*float64(len(lines)) + spacing*float64(len(lines)-1)

	y := float64(bandTop) + (float64(bandHeight)-block)/2
	dc.SetColor(color.White)
	for _, line := range lines {
		dc.DrawStringAnchored(line, size/2, y+ascent, 0.5, 0)
		y += lineHeight + spacing
	}

	if l.Watermark {
		c.drawWatermark(dc, l.Size)
	}
	return dc.Image()
}

func (c *Compositor) drawWatermark(dc *gg.Context, size int) {
	face := truetype.NewFace(c.watermarkFont, &truetype.Options{
		Size:    float64(ScaleFontSize(WatermarkFontSize, size)),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	dc.SetFontFace(face)

	w, _ := dc.MeasureString(WatermarkText)
	padding := float64(max(18, size/50))
	descent := float64(face.Metrics().Descent.Ceil())

	dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: WatermarkAlpha})
	dc.DrawString(WatermarkText, float64(size)-w-padding, float64(size)-padding-descent)
}

// BaseFontSize picks the production font size from the phrase length.
func BaseFontSize(phrase string) int {
	switch n := len(strings.Fields(phrase)); {
	case n <= 8:
		return 72
	case n <= 15:
		return 56
	default:
		return 44
	}
}

// ScaleFontSize scales a production font size to a canvas, with a floor.
func ScaleFontSize(base, canvas int) int {
	scaled := int(math.Round(float64(base) * float64(canvas) / ProductionSize))
	return max(MinFontSize, scaled)
}

// BorderColor returns the first palette entry as a color, or the default
// when the palette is empty or its first entry does not parse.
func BorderColor(palette []string) color.Color {
	if len(palette) == 0 {
		return DefaultBorderColor
	}
	if c, ok := ParseColor(palette[0]); ok {
		return c
	}
	return DefaultBorderColor
}

// ParseColor accepts #RGB and #RRGGBB hex strings and SVG color names.
func ParseColor(s string) (color.Color, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if len(s) != 4 && len(s) != 7 {
			return nil, false
		}
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return nil, false
		}
		r, g, b := c.Clamped().RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, true
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, true
	}
	return nil, false
}

// WrapText greedily packs words into lines no wider than maxWidth. A line
// that is still too wide (a single long token) is split into chunks sized
// from the average capital letter width.
func WrapText(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	lines = append(lines, current)

	var out []string
	for _, line := range lines {
		if measure(line) <= maxWidth {
			out = append(out, line)
			continue
		}
		avg := math.Max(measure("ABCDEFGHIJKLMNOPQRSTUVWXYZ")/26, 1)
		perLine := max(1, int(math.Floor(maxWidth/avg)))
		out = append(out, chunkRunes(line, perLine)...)
	}
	return out
}

func chunkRunes(s string, n int) []string {
	r := []rune(s)
	var out []string
	for len(r) > n {
		out = append(out, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}

// encodePNG writes img at maximum compression. If the result exceeds
// maxBytes it is re-encoded once from a 256-color adaptive palette.
func encodePNG(img image.Image, maxBytes int) ([]byte, bool, error) {
	enc := png.Encoder{CompressionLevel: png.BestCompression}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, false, fmt.Errorf("encode card png: %w", err)
	}
	if maxBytes <= 0 || buf.Len() <= maxBytes {
		return buf.Bytes(), false, nil
	}

	var small bytes.Buffer
	if err := enc.Encode(&small, Quantize(img, 256)); err != nil {
		return nil, false, fmt.Errorf("encode quantized png: %w", err)
	}
	return small.Bytes(), true, nil
}
