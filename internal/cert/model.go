package cert

import (
	"context"
	"image"
	"time"

	imagepkg "github.com/youruser/certapp/internal/image"
)

// EventTemplate is an event as the certificate pipeline sees it. It is owned
// by the Directory and only read here.
type EventTemplate struct {
	ID   string
	Name string
	// Date is the calendar date of the event; only year, month and day are used.
	Date time.Time
	// TemplateImage is a reference understood by the asset loader: a file
	// path, an http(s) URL or a data: URL.
	TemplateImage string
	NamePosition  imagepkg.NamePosition
	QRPosition    imagepkg.QRPosition
}

// Directory is the read-only event registry. Both lookups return an error
// matching ErrNotFound when nothing matches.
//
//go:generate mockgen -package mockcert -source=model.go -destination=mock/mockcert.go
type Directory interface {
	FindEvent(ctx context.Context, eventID string) (*EventTemplate, error)
	ResolveRegistrantName(ctx context.Context, eventID, email string) (string, error)
}

// AssetLoader fetches and decodes a template image reference.
type AssetLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// Request asks for one certificate.
type Request struct {
	EventID string
	Email   string
	// Format defaults to the generator's format when empty.
	Format Format
}

// Artifact is the exported certificate. The caller owns it.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}
