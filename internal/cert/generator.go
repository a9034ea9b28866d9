package cert

import (
	"context"
	"image"
	"strings"

	"github.com/go-faster/errors"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	imagepkg "github.com/youruser/certapp/internal/image"
	"github.com/youruser/certapp/pkg/logger"
)

// State is a step of a single generation.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateLoading
	StateComposing
	StateExporting
	StateDone
	StateFailed
)

var stateNames = [...]string{ //nolint: gochecknoglobals
	StateIdle:       "idle",
	StateValidating: "validating",
	StateLoading:    "loading",
	StateComposing:  "composing",
	StateExporting:  "exporting",
	StateDone:       "done",
	StateFailed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Result is the terminal outcome of Generate: State is StateDone with an
// Artifact, or StateFailed with Err (an *Error).
type Result struct {
	State    State
	Artifact *Artifact
	Err      error
}

// Observer is told about every state change of a generation.
type Observer func(ctx context.Context, from, to State)

// Options configure a Generator.
type Options struct {
	// Verifier is named in the QR payload preamble. Defaults to DefaultVerifier.
	Verifier string
	// Format is used when a Request leaves it empty. Defaults to FormatPDF.
	Format Format
	// Recovery is the QR error correction level. Defaults to the highest.
	Recovery *qrcode.RecoveryLevel
	// RawFilenames disables replacing characters illegal in file names.
	RawFilenames bool
	// Observer, when set, receives every state transition.
	Observer Observer
}

// Generator runs the certificate pipeline. It keeps no per-request state and
// is safe for concurrent use.
type Generator struct {
	directory Directory
	assets    AssetLoader
	opts      Options
	recovery  qrcode.RecoveryLevel
}

func NewGenerator(directory Directory, assets AssetLoader, opts Options) *Generator {
	if opts.Verifier == "" {
		opts.Verifier = DefaultVerifier
	}
	if opts.Format == "" {
		opts.Format = FormatPDF
	}
	recovery := imagepkg.DefaultRecovery
	if opts.Recovery != nil {
		recovery = *opts.Recovery
	}
	return &Generator{directory: directory, assets: assets, opts: opts, recovery: recovery}
}

// run tracks the state of one Generate call.
type run struct {
	g     *Generator
	ctx   context.Context
	state State
}

func (r *run) enter(to State) {
	from := r.state
	r.state = to
	logger.Debug(r.ctx, "certificate state changed",
		zap.Stringer("from", from), zap.Stringer("to", to))
	if r.g.opts.Observer != nil {
		r.g.opts.Observer(r.ctx, from, to)
	}
}

func (r *run) fail(k Kind, cause error) Result {
	err := newError(k, r.state, cause)
	r.enter(StateFailed)
	return Result{State: StateFailed, Err: err}
}

// Generate validates the registrant, loads the template, composes the
// certificate and exports it. Any failure aborts the remaining steps and no
// artifact is returned.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	ctx = logger.WithFields(ctx, zap.String("event_id", req.EventID))
	r := &run{g: g, ctx: ctx, state: StateIdle}

	r.enter(StateValidating)
	event, name, err := g.validate(ctx, req)
	if err != nil {
		return r.fail(ErrNotRegistered, err)
	}

	r.enter(StateLoading)
	template, err := g.load(ctx, event)
	if err != nil {
		return r.fail(ErrAssetLoad, err)
	}

	r.enter(StateComposing)
	payload := EncodePayload(Payload{
		Verifier:  g.opts.Verifier,
		Email:     strings.TrimSpace(req.Email),
		Name:      name,
		EventName: event.Name,
		EventDate: event.Date,
	})
	qr, err := imagepkg.EncodeQR(payload, g.recovery)
	if err != nil {
		return r.fail(ErrEncoding, err)
	}
	var qrImage image.Image
	if event.QRPosition.Size > 0 {
		if qrImage, err = qr.Image(event.QRPosition.Size); err != nil {
			return r.fail(ErrEncoding, err)
		}
	}
	canvas, err := imagepkg.Compose(template, name, event.NamePosition, qrImage, event.QRPosition)
	if err != nil {
		return r.fail(ErrAssetLoad, err)
	}
	doc := &Document{
		Canvas:       canvas,
		Template:     template,
		Name:         name,
		NamePosition: event.NamePosition,
		QR:           qr,
		QRPosition:   event.QRPosition,
	}

	r.enter(StateExporting)
	format := req.Format
	if format == "" {
		format = g.opts.Format
	}
	data, err := Export(doc, format, ExportMeta{
		Title:   event.Name + " - " + name,
		Subject: "Certificate",
		Date:    event.Date,
	})
	if err != nil {
		return r.fail(ErrSerialization, err)
	}

	r.enter(StateDone)
	return Result{
		State: StateDone,
		Artifact: &Artifact{
			Filename:    Filename(event.Name, name, format, !g.opts.RawFilenames),
			ContentType: format.ContentType(),
			Data:        data,
		},
	}
}

func (g *Generator) validate(ctx context.Context, req Request) (*EventTemplate, string, error) {
	email := strings.TrimSpace(req.Email)
	if req.EventID == "" || email == "" {
		return nil, "", errors.New("event id and email are required")
	}
	event, err := g.directory.FindEvent(ctx, req.EventID)
	if err != nil {
		return nil, "", errors.Wrapf(err, "find event %q", req.EventID)
	}
	if event == nil {
		return nil, "", errors.Wrapf(ErrNotFound, "find event %q", req.EventID)
	}
	name, err := g.directory.ResolveRegistrantName(ctx, req.EventID, email)
	if err != nil {
		return nil, "", errors.Wrapf(err, "resolve registrant %q", email)
	}
	if strings.TrimSpace(name) == "" {
		return nil, "", errors.Wrapf(ErrNotFound, "resolve registrant %q", email)
	}
	return event, name, nil
}

func (g *Generator) load(ctx context.Context, event *EventTemplate) (image.Image, error) {
	if _, err := imagepkg.ParseColor(event.NamePosition.FontColor); err != nil {
		return nil, err
	}
	img, err := g.assets.Load(ctx, event.TemplateImage)
	if err != nil {
		return nil, errors.Wrapf(err, "load template %q", event.TemplateImage)
	}
	if img == nil {
		return nil, imagepkg.ErrNoTemplate
	}
	return img, nil
}
