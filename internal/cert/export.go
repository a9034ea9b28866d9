package cert

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"time"
	"unicode"

	"github.com/disintegration/imaging"
	"github.com/go-faster/errors"
	"github.com/go-pdf/fpdf"

	imagepkg "github.com/youruser/certapp/internal/image"
)

// Format is an export format.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat accepts "pdf" or "png", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatPNG:
		return f, nil
	default:
		return "", errors.Errorf("unsupported format %q", s)
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string { return "." + string(f) }

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "application/pdf"
}

// ExportMeta is document metadata. Date is pinned as the PDF creation and
// modification date so identical inputs always produce identical bytes.
type ExportMeta struct {
	Title   string
	Subject string
	Date    time.Time
}

// Document is a composed certificate: the 800×600 canvas plus the layers it
// was drawn from, which PDF export redraws at full fidelity.
type Document struct {
	Canvas       image.Image
	Template     image.Image
	Name         string
	NamePosition imagepkg.NamePosition
	QR           *imagepkg.QR
	QRPosition   imagepkg.QRPosition
}

// fallbackDocDate stands in for a missing ExportMeta.Date.
var fallbackDocDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC) //nolint: gochecknoglobals

const pdfFontFamily = "gobold"

// Export serializes a composed certificate. PNG output is the canvas itself.
// PDF output is a single landscape page of 800×600 points holding the
// template at its own resolution, the name as text and the QR as vector
// modules.
func Export(doc *Document, format Format, meta ExportMeta) ([]byte, error) {
	if doc == nil || doc.Canvas == nil {
		return nil, errors.New("no canvas to export")
	}
	if b := doc.Canvas.Bounds(); b.Dx() != imagepkg.CanvasWidth || b.Dy() != imagepkg.CanvasHeight {
		return nil, errors.Errorf("canvas is %dx%d, want %dx%d",
			b.Dx(), b.Dy(), imagepkg.CanvasWidth, imagepkg.CanvasHeight)
	}

	switch format {
	case FormatPNG:
		var out bytes.Buffer
		if err := png.Encode(&out, doc.Canvas); err != nil {
			return nil, errors.Wrap(err, "encode canvas")
		}
		return out.Bytes(), nil
	case FormatPDF:
		return exportPDF(doc, meta)
	default:
		return nil, errors.Errorf("unsupported format %q", format)
	}
}

func exportPDF(doc *Document, meta ExportMeta) ([]byte, error) {
	const w, h = float64(imagepkg.CanvasWidth), float64(imagepkg.CanvasHeight)

	if doc.Template == nil {
		return nil, imagepkg.ErrNoTemplate
	}

	date := meta.Date
	if date.IsZero() {
		date = fallbackDocDate
	}

	// landscape swaps the page size, so Wd/Ht are given portrait-wise
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: h, Ht: w},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(date)
	pdf.SetModificationDate(date)
	pdf.SetCreator("certapp", true)
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Subject != "" {
		pdf.SetSubject(meta.Subject, true)
	}

	pdf.AddPage()

	// template at its own resolution, flattened on white
	tmpl := imaging.Clone(doc.Template)
	tmpl = imaging.Overlay(imaging.New(tmpl.Rect.Dx(), tmpl.Rect.Dy(), color.White), tmpl, image.Pt(0, 0), 1.0)
	var raster bytes.Buffer
	if err := png.Encode(&raster, tmpl); err != nil {
		return nil, errors.Wrap(err, "encode template")
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("template", opts, &raster)
	pdf.ImageOptions("template", 0, 0, w, h, false, opts, 0, "")

	if doc.Name != "" {
		if err := drawPDFName(pdf, doc.Name, doc.NamePosition); err != nil {
			return nil, err
		}
	}
	if doc.QR != nil && doc.QRPosition.Size > 0 {
		drawPDFQR(pdf, doc.QR, doc.QRPosition)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, errors.Wrap(err, "write pdf")
	}
	return out.Bytes(), nil
}

func drawPDFName(pdf *fpdf.Fpdf, name string, np imagepkg.NamePosition) error {
	c, err := imagepkg.ParseColor(np.FontColor)
	if err != nil {
		return err
	}
	x, y, err := imagepkg.TextOrigin(name, np.X, np.Y, np.FontSize)
	if err != nil {
		return err
	}

	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", imagepkg.BoldFont())
	pdf.SetFont(pdfFontFamily, "", np.FontSize)
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	pdf.Text(x, y, name)
	return nil
}

// drawPDFQR fills the QR square white, then one rectangle per horizontal run
// of dark modules.
func drawPDFQR(pdf *fpdf.Fpdf, qr *imagepkg.QR, qp imagepkg.QRPosition) {
	n := qr.Modules()
	x0, y0, side := float64(qp.X), float64(qp.Y), float64(qp.Size)
	m := side / float64(n)

	pdf.SetFillColor(0xff, 0xff, 0xff)
	pdf.Rect(x0, y0, side, side, "F")
	pdf.SetFillColor(0, 0, 0)
	for row := 0; row < n; row++ {
		for col := 0; col < n; {
			if !qr.Dark(col, row) {
				col++
				continue
			}
			start := col
			for col < n && qr.Dark(col, row) {
				col++
			}
			pdf.Rect(x0+float64(start)*m, y0+float64(row)*m, float64(col-start)*m, m, "F")
		}
	}
}

// Filename returns "<eventName>-<registrantName>-certificate<ext>". With
// sanitize set, characters that are illegal in file names on common
// filesystems are replaced by '_'. Path separators are always replaced.
func Filename(eventName, registrantName string, format Format, sanitize bool) string {
	illegal := `/\`
	if sanitize {
		illegal = `/\:*?"<>|`
	}
	return filenamePart(eventName, illegal, sanitize) + "-" +
		filenamePart(registrantName, illegal, sanitize) + "-certificate" + format.Extension()
}

func filenamePart(s, illegal string, controls bool) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegal, r) || (controls && unicode.IsControl(r)) {
			return '_'
		}
		return r
	}, s)
}
