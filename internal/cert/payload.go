package cert

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// DefaultVerifier is the verifier named in the payload preamble.
const DefaultVerifier = "nameSpace"

const eventDateLayout = "January 2, 2006"

// Payload is the text embedded in the certificate's QR code.
type Payload struct {
	Verifier  string
	Email     string
	Name      string
	EventName string
	EventDate time.Time
}

// EncodePayload renders p in the fixed format verifiers parse:
//
//	This certificate is verified by <verifier> with the below details:
//
//	Email: <email>
//	Name: <name>
//	Event name: <event name>
//	Date: <Month D, YYYY>
func EncodePayload(p Payload) string {
	var b strings.Builder
	b.WriteString("This certificate is verified by ")
	b.WriteString(p.Verifier)
	b.WriteString(" with the below details:\n\n")
	b.WriteString("Email: " + p.Email + "\n")
	b.WriteString("Name: " + p.Name + "\n")
	b.WriteString("Event name: " + p.EventName + "\n")
	b.WriteString("Date: " + FormatEventDate(p.EventDate))
	return b.String()
}

// FormatEventDate formats the calendar date of t as "January 5, 2025".
// The date is taken as written; t is not converted to another zone.
func FormatEventDate(t time.Time) string {
	return t.Format(eventDateLayout)
}

// ParseEventDate accepts a plain ISO date (2025-01-05) or an RFC 3339
// timestamp. For timestamps the date in the timestamp's own offset is kept.
func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid event date %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
