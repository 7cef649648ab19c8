package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number is a JSON field that accepts a number or a numeric string and
// remembers whether it was present at all. Falsy marks the values a
// JavaScript client treats as false: 0, "" and null.
type Number struct {
	Present bool
	Falsy   bool
	Valid   bool
	Value   float64
	Raw     string
}

func (n *Number) UnmarshalJSON(b []byte) error {
	n.Present = true
	n.Raw = string(b)

	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		n.Falsy = true
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.Raw = s
		if s == "" {
			n.Falsy = true
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		n.Valid = true
		n.Value = v
		return nil
	default:
		v, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("invalid number %s", b)
		}
		n.Valid = true
		n.Value = v
		n.Falsy = v == 0
		return nil
	}
}

// Int reports the value truncated to an integer, parsing the raw text
// the way parseInt does for strings like "12abc".
func (n Number) Int() (int, bool) {
	if n.Valid {
		return int(n.Value), true
	}
	s := strings.TrimSpace(n.Raw)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float is the parsed decimal value.
func (n Number) Float() (float64, bool) {
	return n.Value, n.Valid
}
