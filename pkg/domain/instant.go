package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Instant is a point in time that serializes as an RFC 3339 string and
// revives from the looser forms found in older snapshots.
type Instant struct {
	time.Time
}

// instantLayouts are tried in order when reviving a stored string.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// At wraps t, normalised to UTC without a monotonic reading.
func At(t time.Time) Instant {
	if t.IsZero() {
		return Instant{}
	}
	return Instant{Time: t.UTC().Round(0)}
}

// Date returns the UTC midnight instant for the given calendar day.
func Date(year int, month time.Month, day int) Instant {
	return Instant{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseInstant revives a stored date string.
func ParseInstant(s string) (Instant, error) {
	if s == "" {
		return Instant{}, nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return At(t), nil
		}
	}
	return Instant{}, fmt.Errorf("parse instant %q: unrecognised layout", s)
}

// SameDay reports whether both instants fall on the same UTC calendar day.
func (i Instant) SameDay(other Instant) bool {
	y1, m1, d1 := i.UTC().Date()
	y2, m2, d2 := other.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// MarshalJSON encodes the zero instant as null.
func (i Instant) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(i.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts null, an empty string, or any layout in instantLayouts.
func (i *Instant) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*i = Instant{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("instant: %w", err)
	}
	parsed, err := ParseInstant(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
