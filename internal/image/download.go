package imagepkg

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-faster/errors"
)

// LoaderOptions configure how template references are resolved.
type LoaderOptions struct {
	// BaseDir resolves relative file references.
	BaseDir string
	// Timeout bounds a remote fetch. Zero means no timeout beyond ctx.
	Timeout time.Duration
	// MaxBytes caps the encoded image size. Zero means unlimited.
	MaxBytes int64
	// Client is used for http(s) references; http.DefaultClient when nil.
	Client *http.Client
}

// Loader fetches and decodes template images. A reference is an http(s) URL,
// a data: URL or a file path.
type Loader struct {
	opts LoaderOptions
}

func NewLoader(opts LoaderOptions) *Loader {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	return &Loader{opts: opts}
}

// Load returns the decoded image behind ref. It blocks until the image is
// fully read or ctx is done.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("empty template reference")
	}

	var (
		body []byte
		err  error
	)
	switch {
	case strings.HasPrefix(ref, "data:"):
		body, err = decodeDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		body, err = l.download(ctx, ref)
	default:
		body, err = l.readFile(ref)
	}
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "decode template")
	}
	return img, nil
}

func (l *Loader) download(ctx context.Context, rawURL string) ([]byte, error) {
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := l.opts.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch template")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch template: unexpected status %d", resp.StatusCode)
	}
	return l.readAll(resp.Body)
}

func (l *Loader) readFile(ref string) ([]byte, error) {
	path := ref
	if u, err := url.Parse(ref); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	if !filepath.IsAbs(path) && l.opts.BaseDir != "" {
		path = filepath.Join(l.opts.BaseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open template")
	}
	defer f.Close()
	return l.readAll(f)
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	if l.opts.MaxBytes <= 0 {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "read template")
		}
		return b, nil
	}
	b, err := io.ReadAll(io.LimitReader(r, l.opts.MaxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "read template")
	}
	if int64(len(b)) > l.opts.MaxBytes {
		return nil, errors.Errorf("template larger than %d bytes", l.opts.MaxBytes)
	}
	return b, nil
}

// decodeDataURL handles base64 data URLs as produced by browsers and editors,
// e.g. "data:image/jpeg;base64,/9j/...".
func decodeDataURL(ref string) ([]byte, error) {
	meta, data, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data url")
	}
	if !strings.HasSuffix(meta, ";base64") {
		s, err := url.PathUnescape(data)
		if err != nil {
			return nil, errors.Wrap(err, "unescape data url")
		}
		return []byte(s), nil
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode data url")
	}
	return b, nil
}
