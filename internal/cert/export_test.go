package cert_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/youruser/certapp/internal/cert"
	imagepkg "github.com/youruser/certapp/internal/image"
)

func testCanvas() *image.NRGBA {
	return imaging.New(800, 600, color.NRGBA{R: 0xf0, G: 0xe0, B: 0xd0, A: 0xff})
}

func testDoc(t *testing.T) *cert.Document {
	t.Helper()

	qr, err := imagepkg.EncodeQR("hello", imagepkg.DefaultRecovery)
	require.NoError(t, err)
	return &cert.Document{
		Canvas:       testCanvas(),
		Template:     imaging.New(1600, 1200, color.NRGBA{R: 0xf0, G: 0xe0, B: 0xd0, A: 0xff}),
		Name:         "Zoë Smith",
		NamePosition: imagepkg.NamePosition{X: 400, Y: 300, FontSize: 24, FontColor: "#123456"},
		QR:           qr,
		QRPosition:   imagepkg.QRPosition{X: 700, Y: 500, Size: 80},
	}
}

func TestExportPDF(t *testing.T) {
	meta := cert.ExportMeta{Title: "Bootcamp 2025 - Alice Smith", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)}

	b, err := cert.Export(testDoc(t), cert.FormatPDF, meta)
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
	require.Contains(t, string(b), "/MediaBox [0 0 800.00 600.00]")
	require.Contains(t, string(b), "/Count 1")
	require.Contains(t, string(b), "/Subtype /Image")

	again, err := cert.Export(testDoc(t), cert.FormatPDF, meta)
	require.NoError(t, err)
	require.Equal(t, b, again)
}

func TestExportPDF_TemplateAtOwnResolutionNameAsText(t *testing.T) {
	b, err := cert.Export(testDoc(t), cert.FormatPDF, cert.ExportMeta{})
	require.NoError(t, err)

	// one image, the template, kept at 1600x1200 rather than the page size
	require.Equal(t, 1, strings.Count(string(b), "/Subtype /Image"))
	require.Contains(t, string(b), "/Width 1600")
	require.Contains(t, string(b), "/Height 1200")
	// the name is set in an embedded font instead of being rasterized
	require.Contains(t, string(b), "/FontFile2")
}

func TestExportPDF_ZeroDateIsDeterministic(t *testing.T) {
	a, err := cert.Export(testDoc(t), cert.FormatPDF, cert.ExportMeta{})
	require.NoError(t, err)
	b, err := cert.Export(testDoc(t), cert.FormatPDF, cert.ExportMeta{})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestExportPNG(t *testing.T) {
	doc := testDoc(t)
	canvas := doc.Canvas
	b, err := cert.Export(doc, cert.FormatPNG, cert.ExportMeta{})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 800, 600), img.Bounds())
	require.Equal(t, canvas.At(10, 10), color.NRGBAModel.Convert(img.At(10, 10)))
}

func TestExportFailures(t *testing.T) {
	_, err := cert.Export(nil, cert.FormatPDF, cert.ExportMeta{})
	require.Error(t, err)

	_, err = cert.Export(&cert.Document{Canvas: imaging.New(640, 480, color.White)}, cert.FormatPDF, cert.ExportMeta{})
	require.ErrorContains(t, err, "canvas is 640x480")

	_, err = cert.Export(&cert.Document{Canvas: testCanvas()}, cert.FormatPDF, cert.ExportMeta{})
	require.ErrorIs(t, err, imagepkg.ErrNoTemplate)

	_, err = cert.Export(testDoc(t), cert.Format("gif"), cert.ExportMeta{})
	require.ErrorContains(t, err, "unsupported format")
}

func TestParseFormat(t *testing.T) {
	f, err := cert.ParseFormat(" PDF ")
	require.NoError(t, err)
	require.Equal(t, cert.FormatPDF, f)

	f, err = cert.ParseFormat("png")
	require.NoError(t, err)
	require.Equal(t, cert.FormatPNG, f)
	require.Equal(t, "image/png", f.ContentType())
	require.Equal(t, ".png", f.Extension())

	_, err = cert.ParseFormat("docx")
	require.Error(t, err)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		person   string
		format   cert.Format
		sanitize bool
		want     string
	}{
		{
			name: "plain", event: "Bootcamp 2025", person: "Alice Smith",
			format: cert.FormatPDF, sanitize: true,
			want: "Bootcamp 2025-Alice Smith-certificate.pdf",
		},
		{
			name: "png", event: "Bootcamp 2025", person: "Alice Smith",
			format: cert.FormatPNG, sanitize: true,
			want: "Bootcamp 2025-Alice Smith-certificate.png",
		},
		{
			name: "illegal characters", event: "AI/ML: Intro?", person: `Bob "B" <b>|\`,
			format: cert.FormatPDF, sanitize: true,
			want: "AI_ML_ Intro_-Bob _B_ _b___-certificate.pdf",
		},
		{
			name: "unicode kept", event: "Atelier été", person: "Zoë",
			format: cert.FormatPDF, sanitize: true,
			want: "Atelier été-Zoë-certificate.pdf",
		},
		{
			name: "raw keeps punctuation", event: "AI: Intro?", person: `Bob "B"`,
			format: cert.FormatPDF, sanitize: false,
			want: `AI: Intro?-Bob "B"-certificate.pdf`,
		},
		{
			name: "raw still drops separators", event: "AI/ML", person: `..\..\Bob`,
			format: cert.FormatPDF, sanitize: false,
			want: "AI_ML-.._.._Bob-certificate.pdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, cert.Filename(tt.event, tt.person, tt.format, tt.sanitize))
		})
	}
}
