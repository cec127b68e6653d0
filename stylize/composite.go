package stylize

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/glazeworks/glaze/core"
)

const (
	// Thumbnail occupies a quarter of the canvas width, inset from the
	// bottom-right corner.
	thumbFraction = 4
	thumbMargin   = 16
	thumbBorder   = 4

	captionMargin  = 12
	captionPadding = 6
)

// compose draws the styled image across the full canvas, then overlays the
// caption strip and the bordered thumbnail of the original. A nil original
// skips the thumbnail.
func compose(styled, original image.Image, caption string, width, height int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))

	// Styled image fills the canvas. CatmullRom keeps the hero image crisp.
	draw.CatmullRom.Scale(canvas, canvas.Bounds(), styled, styled.Bounds(), draw.Src, nil)

	if caption != "" {
		drawCaption(canvas, caption)
	}
	if original != nil {
		drawThumbnail(canvas, original)
	}

	return canvas
}

// drawCaption renders the caption in the top-left corner over a dark
// backing strip so it stays legible on any image.
func drawCaption(canvas *image.RGBA, caption string) {
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, caption).Ceil()
	textHeight := face.Metrics().Height.Ceil()

	strip := image.Rect(
		captionMargin,
		captionMargin,
		captionMargin+textWidth+2*captionPadding,
		captionMargin+textHeight+2*captionPadding,
	)
	draw.Draw(canvas, strip, image.NewUniform(color.RGBA{0, 0, 0, 200}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot: fixed.P(
			captionMargin+captionPadding,
			captionMargin+captionPadding+face.Metrics().Ascent.Ceil(),
		),
	}
	d.DrawString(caption)
}

// drawThumbnail scales the original into the bottom-right corner inside a
// white frame.
func drawThumbnail(canvas *image.RGBA, original image.Image) {
	cb := canvas.Bounds()

	thumbW := cb.Dx() / thumbFraction
	ob := original.Bounds()
	thumbH := thumbW * ob.Dy() / ob.Dx()
	if thumbH <= 0 {
		thumbH = thumbW
	}

	inner := image.Rect(
		cb.Max.X-thumbMargin-thumbW,
		cb.Max.Y-thumbMargin-thumbH,
		cb.Max.X-thumbMargin,
		cb.Max.Y-thumbMargin,
	)
	frame := inner.Inset(-thumbBorder)

	draw.Draw(canvas, frame, image.NewUniform(color.White), image.Point{}, draw.Over)
	// ApproxBiLinear is plenty at thumbnail scale and much cheaper.
	draw.ApproxBiLinear.Scale(canvas, inner, original, ob, draw.Src, nil)
}

// EncodePNG encodes the image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encoding png: %v", core.ErrDecode, err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURL wraps PNG bytes in a base64 data URL.
func EncodeDataURL(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}
