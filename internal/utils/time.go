package util

import (
	"fmt"
	"strings"
	"time"
)

// Instant is an absolute point in time read from JSON. Values carrying an offset are taken as-is;
// zone-less values ("2006-01-02T15:04:05") are read in the configured location.
type Instant struct {
	time.Time
}

const localLayout = "2006-01-02T15:04:05"

var location = time.UTC

func init() {
	if loc, err := time.LoadLocation("America/Sao_Paulo"); err == nil {
		location = loc
	} else {
		location = time.FixedZone("BRT", -3*60*60)
	}
}

// SetLocation changes the zone used for zone-less instants.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	location = loc
	return nil
}

func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(localLayout, s, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q: expected RFC3339 or %s", s, localLayout)
	}
	return t.UTC(), nil
}

func ToTimePtr(i *Instant) *time.Time {
	if i == nil || i.IsZero() {
		return nil
	}
	t := i.Time
	return &t
}

func (i *Instant) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := ParseInstant(s)
	if err != nil {
		return err
	}
	i.Time = t
	return nil
}

func (i Instant) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + i.UTC().Format(time.RFC3339) + `"`), nil
}
