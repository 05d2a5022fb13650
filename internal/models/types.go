package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is an upstream identifier. The API sends ids both as JSON numbers and
// as numeric strings.
type ID int64

// ParseID parses a path or flag value into an ID.
func ParseID(raw string) (ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return ID(v), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	v, err := parseLooseInt(data)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(v)
	return nil
}

// Days is a day count that may arrive quoted.
type Days int

func (d *Days) UnmarshalJSON(data []byte) error {
	v, err := parseLooseInt(data)
	if err != nil {
		return fmt.Errorf("days: %w", err)
	}
	*d = Days(v)
	return nil
}

func parseLooseInt(data []byte) (int64, error) {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return 0, nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// Code is a one-time code. Older records carry it as a bare number.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("code: %w", err)
		}
		*c = Code(strings.TrimSpace(s))
	default:
		if _, err := strconv.ParseUint(string(data), 10, 64); err != nil {
			return fmt.Errorf("code: %q is not numeric", data)
		}
		*c = Code(data)
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp decodes the several date formats the API returns. A zero value
// means the field was absent, empty or unreadable.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Time = time.Time{}
		return nil
	}

	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
