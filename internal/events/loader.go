package events

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"github.com/youruser/certapp/internal/cert"
	imagepkg "github.com/youruser/certapp/internal/image"
)

// LoadFile reads the YAML catalog at path together with the registrant CSVs
// it points to. Relative registrant paths are resolved against the
// catalog's directory.
func LoadFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	var catalog catalogFile
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, errors.Wrapf(err, "parse catalog %s", path)
	}

	dir := filepath.Dir(path)
	s := newStore()
	for i, rec := range catalog.Events {
		ev, err := toTemplate(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "event #%d", i+1)
		}

		regs := rec.Registrants
		if rec.RegistrantsFile != "" {
			p := rec.RegistrantsFile
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			fromFile, err := loadRegistrantsCSV(p)
			if err != nil {
				return nil, errors.Wrapf(err, "event %s", ev.ID)
			}
			regs = append(regs, fromFile...)
		}

		if err := s.add(ev, regs); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func toTemplate(rec eventRecord) (cert.EventTemplate, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return cert.EventTemplate{}, errors.New("missing id")
	}
	date, err := cert.ParseEventDate(rec.Date)
	if err != nil {
		return cert.EventTemplate{}, errors.Wrapf(err, "event %s", id)
	}
	return cert.EventTemplate{
		ID:            id,
		Name:          rec.Name,
		Date:          date,
		TemplateImage: rec.Template,
		NamePosition: imagepkg.NamePosition{
			X:         rec.NamePosition.X,
			Y:         rec.NamePosition.Y,
			FontSize:  rec.NamePosition.FontSize,
			FontColor: rec.NamePosition.FontColor,
		},
		QRPosition: imagepkg.QRPosition{
			X:    rec.QRPosition.X,
			Y:    rec.QRPosition.Y,
			Size: rec.QRPosition.Size,
		},
	}, nil
}

// loadRegistrantsCSV reads a CSV whose header names an email and a name
// column, in any order and case. Rows without an email are skipped.
func loadRegistrantsCSV(path string) ([]Registrant, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "csv %s", path)
	}
	if len(rows) < 1 {
		return nil, errors.Errorf("csv %s has no header", path)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"email", "name"} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Errorf("csv %s: missing %q column", path, required)
		}
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Registrant{}
	for _, row := range rows[1:] {
		reg := Registrant{Email: get(row, "email"), Name: get(row, "name")}
		if reg.Email == "" {
			continue
		}
		out = append(out, reg)
	}
	return out, nil
}
