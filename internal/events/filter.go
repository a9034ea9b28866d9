package events

import (
	"strings"
	"time"

	"github.com/youruser/certapp/internal/cert"
)

type FilterOptions struct {
	// FreeWords must all appear in the event name or id, case-insensitively.
	FreeWords string
	// From and To bound the event date, inclusive. Zero means unbounded.
	From time.Time
	To   time.Time
}

// List returns the events matching opt in catalog order.
func (s *Store) List(opt FilterOptions) []Summary {
	kw := strings.Fields(strings.ToLower(opt.FreeWords))

	out := []Summary{}
	for _, id := range s.order {
		e := s.events[id]
		if !matches(e.event, kw, opt) {
			continue
		}
		out = append(out, Summary{
			ID:          e.event.ID,
			Name:        e.event.Name,
			Date:        cert.FormatEventDate(e.event.Date),
			Registrants: len(e.names),
		})
	}
	return out
}

func matches(ev cert.EventTemplate, kw []string, opt FilterOptions) bool {
	if !opt.From.IsZero() && ev.Date.Before(opt.From) {
		return false
	}
	if !opt.To.IsZero() && ev.Date.After(opt.To) {
		return false
	}
	hay := strings.ToLower(ev.Name + " " + ev.ID)
	for _, k := range kw {
		if !strings.Contains(hay, k) {
			return false
		}
	}
	return true
}
