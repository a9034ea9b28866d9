package imagepkg

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrInvalidColor is returned for font colors that are not #rgb or #rrggbb.
var ErrInvalidColor = errors.New("invalid font color")

var boldFont = sync.OnceValues(func() (*opentype.Font, error) { //nolint: gochecknoglobals
	return opentype.Parse(gobold.TTF)
})

// ParseColor parses a CSS style hex color ("#000", "#1a2b3c"). The leading
// '#' is optional.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}

	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// BoldFont returns the TrueType bytes of the face names are drawn with.
func BoldFont() []byte { return gobold.TTF }

func boldFace(size float64) (font.Face, error) {
	f, err := boldFont()
	if err != nil {
		return nil, errors.Wrap(err, "parse bold font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new font face")
	}
	return face, nil
}

// centeredOrigin returns the baseline origin that centers the ink bounding
// box of text on (x, y).
func centeredOrigin(face font.Face, text string, x, y float64) fixed.Point26_6 {
	bounds, _ := font.BoundString(face, text)
	cx := (bounds.Min.X + bounds.Max.X) / 2
	cy := (bounds.Min.Y + bounds.Max.Y) / 2
	return fixed.Point26_6{X: toFixed(x) - cx, Y: toFixed(y) - cy}
}

// TextOrigin is the baseline origin at which bold text of the given size,
// one unit per point, is centered on (x, y) both ways.
func TextOrigin(text string, x, y, size float64) (float64, float64, error) {
	face, err := boldFace(size)
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()

	o := centeredOrigin(face, text, x, y)
	return fromFixed(o.X), fromFixed(o.Y), nil
}

// drawCenteredText draws text in bold so that the ink bounding box is centered
// on (x, y) horizontally and vertically. Font size is in canvas pixels.
func drawCenteredText(dst draw.Image, text string, x, y, size float64, c color.Color) error {
	if text == "" {
		return nil
	}
	face, err := boldFace(size)
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	d.Dot = centeredOrigin(face, text, x, y)
	d.DrawString(text)

	return nil
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
