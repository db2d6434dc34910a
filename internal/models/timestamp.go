package models

import (
	"encoding/json"
	"time"
)

// Timestamp wraps time.Time and decodes the three creation-time shapes
// that existing clients and stored documents produce: an RFC 3339 string,
// a {"seconds": N} wrapper, and a {"_seconds": N} wrapper. A bare number
// is treated as epoch seconds. Unrecognized input resolves to the Unix
// epoch sentinel, never to the current time.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

type epochWrapper struct {
	Seconds           *int64 `json:"seconds"`
	UnderscoreSeconds *int64 `json:"_seconds"`
}

// UnmarshalJSON decodes any of the supported wire shapes.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Unix(0, 0).UTC()

	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Time = parseTimeString(s)
		return nil
	}

	var secs int64
	if err := json.Unmarshal(data, &secs); err == nil {
		t.Time = time.Unix(secs, 0).UTC()
		return nil
	}

	var w epochWrapper
	if err := json.Unmarshal(data, &w); err == nil {
		switch {
		case w.Seconds != nil:
			t.Time = time.Unix(*w.Seconds, 0).UTC()
		case w.UnderscoreSeconds != nil:
			t.Time = time.Unix(*w.UnderscoreSeconds, 0).UTC()
		}
		return nil
	}

	// Malformed input keeps the sentinel; decoding an entry must not fail
	// on a bad timestamp.
	return nil
}

// MarshalJSON emits RFC 3339 UTC.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}

func parseTimeString(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC()
		}
	}
	return time.Unix(0, 0).UTC()
}
