// Package events is a read-only event directory backed by a YAML catalog and
// registrant CSV files. It implements cert.Directory.
package events

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/youruser/certapp/internal/cert"
)

type entry struct {
	event cert.EventTemplate
	// names maps a normalized email to the registrant's name.
	names map[string]string
}

// Store is immutable after loading and safe for concurrent use.
type Store struct {
	events map[string]*entry
	order  []string
}

func newStore() *Store {
	return &Store{events: map[string]*entry{}}
}

// New builds a Store from already parsed events and their registrants.
func New(events []cert.EventTemplate, registrants map[string][]Registrant) (*Store, error) {
	s := newStore()
	for _, ev := range events {
		if err := s.add(ev, registrants[ev.ID]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) add(ev cert.EventTemplate, regs []Registrant) error {
	if _, dup := s.events[ev.ID]; dup {
		return errors.Errorf("duplicate event id %q", ev.ID)
	}
	e := &entry{event: ev, names: make(map[string]string, len(regs))}
	for _, r := range regs {
		key := normalizeEmail(r.Email)
		name := strings.TrimSpace(r.Name)
		if key == "" || name == "" {
			continue
		}
		// first registration wins
		if _, ok := e.names[key]; !ok {
			e.names[key] = name
		}
	}
	s.events[ev.ID] = e
	s.order = append(s.order, ev.ID)
	return nil
}

// FindEvent returns a copy of the event with the given id.
func (s *Store) FindEvent(_ context.Context, eventID string) (*cert.EventTemplate, error) {
	e, ok := s.events[eventID]
	if !ok {
		return nil, errors.Wrapf(cert.ErrNotFound, "event %q", eventID)
	}
	ev := e.event
	return &ev, nil
}

// ResolveRegistrantName looks the email up among the event's registrants.
// Matching ignores case and surrounding spaces.
func (s *Store) ResolveRegistrantName(_ context.Context, eventID, email string) (string, error) {
	e, ok := s.events[eventID]
	if !ok {
		return "", errors.Wrapf(cert.ErrNotFound, "event %q", eventID)
	}
	name, ok := e.names[normalizeEmail(email)]
	if !ok {
		return "", errors.Wrapf(cert.ErrNotFound, "registrant %q", email)
	}
	return name, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
