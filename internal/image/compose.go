package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/go-faster/errors"
)

// Certificate canvas, landscape.
const (
	CanvasWidth  = 800
	CanvasHeight = 600
)

// ErrNoTemplate is returned by Compose when no decoded template is supplied.
var ErrNoTemplate = errors.New("template image not loaded")

// NamePosition is where and how the registrant name is drawn. X and Y are the
// center of the rendered text, not its baseline.
type NamePosition struct {
	X         float64
	Y         float64
	FontSize  float64
	FontColor string
}

// QRPosition is the top-left corner and side length of the QR square.
type QRPosition struct {
	X    int
	Y    int
	Size int
}

// Compose layers the template, the name and the QR code onto a fresh
// 800×600 canvas, in that order. The QR image is pasted unscaled and must
// already be qp.Size on a side.
//
// The template is stretched to cover the canvas exactly, so templates should
// be authored at 4:3. Positions are not validated: anything falling outside
// the canvas is cut off by the raster bounds.
func Compose(template image.Image, name string, np NamePosition, qr image.Image, qp QRPosition) (*image.NRGBA, error) {
	if template == nil {
		return nil, ErrNoTemplate
	}
	fg, err := ParseColor(np.FontColor)
	if err != nil {
		return nil, err
	}

	canvas := imaging.New(CanvasWidth, CanvasHeight, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	bg := imaging.Resize(template, CanvasWidth, CanvasHeight, imaging.Lanczos)
	canvas = imaging.Overlay(canvas, bg, image.Pt(0, 0), 1.0)

	if err := drawCenteredText(canvas, name, np.X, np.Y, np.FontSize, fg); err != nil {
		return nil, errors.Wrap(err, "draw name")
	}

	if qr != nil && qp.Size > 0 {
		// pasted 1:1, resampling breaks the module grid
		if b := qr.Bounds(); b.Dx() != qp.Size || b.Dy() != qp.Size {
			return nil, errors.Errorf("qr image is %dx%d, want %dx%d", b.Dx(), b.Dy(), qp.Size, qp.Size)
		}
		canvas = imaging.Paste(canvas, qr, image.Pt(qp.X, qp.Y))
	}

	return canvas, nil
}
