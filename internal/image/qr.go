package imagepkg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/go-faster/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultRecovery tolerates about 30% symbol damage; certificates get printed
// and scanned in poor conditions.
const DefaultRecovery = qrcode.Highest

var (
	// ErrQRCapacity is returned when the text does not fit in the largest QR
	// version at the requested recovery level.
	ErrQRCapacity = errors.New("qr payload exceeds symbol capacity")
	// ErrQRTooSmall is returned when the requested side is below one pixel
	// per module.
	ErrQRTooSmall = errors.New("qr side smaller than its module count")
)

// QR is an encoded symbol without quiet zone.
type QR struct {
	modules [][]bool
}

// EncodeQR encodes text at the given recovery level.
func EncodeQR(text string, level qrcode.RecoveryLevel) (*QR, error) {
	q, err := qrcode.New(text, level)
	if err != nil {
		// go-qrcode only fails on capacity once the level is valid.
		return nil, errors.Wrapf(ErrQRCapacity, "%d bytes: %v", len(text), err)
	}
	q.DisableBorder = true

	return &QR{modules: q.Bitmap()}, nil
}

// Modules is the number of modules on a side.
func (q *QR) Modules() int { return len(q.modules) }

// Dark reports whether the module at column x, row y is black.
func (q *QR) Dark(x, y int) bool { return q.modules[y][x] }

// Image draws the symbol into a size×size image, black on white, at the
// largest whole number of pixels per module. Leftover pixels are split
// evenly around the symbol.
func (q *QR) Image(size int) (image.Image, error) {
	n := q.Modules()
	scale := size / max(n, 1)
	if scale < 1 {
		return nil, errors.Wrapf(ErrQRTooSmall, "%d px for %d modules", size, n)
	}
	off := (size - n*scale) / 2

	img := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{color.White, color.Black})
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !q.modules[y][x] {
				continue
			}
			for py := off + y*scale; py < off+(y+1)*scale; py++ {
				for px := off + x*scale; px < off+(x+1)*scale; px++ {
					img.SetColorIndex(px, py, 1)
				}
			}
		}
	}

	return img, nil
}

// RenderQR encodes text into a size×size image with no quiet zone, black
// modules on white.
func RenderQR(text string, size int, level qrcode.RecoveryLevel) (image.Image, error) {
	q, err := EncodeQR(text, level)
	if err != nil {
		return nil, err
	}
	return q.Image(size)
}

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	img, err := RenderQR(text, size, DefaultRecovery)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, errors.Wrap(err, "encode qr png")
	}
	return buf.Bytes(), nil
}
