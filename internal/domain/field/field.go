// Package field holds the lenient JSON input types shared by every write
// endpoint and the clamp rules that turn them into stored values.
//
// Admin clients send numbers as strings, omit fields, or send null; none of
// that is an error. A value that cannot be read is simply not Valid and the
// caller falls back to its default.
package field

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Text is an optional string. Numbers are accepted as their literal text.
type Text struct {
	Value string
	Set   bool
}

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text{}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case string:
		t.Value, t.Set = x, true
	case float64:
		t.Value, t.Set = strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		t.Value, t.Set = strconv.FormatBool(x), true
	}
	return nil
}

// Trimmed returns the trimmed value, or def when that is empty.
func (t Text) Trimmed(def string) string {
	s := strings.TrimSpace(t.Value)
	if s == "" {
		return def
	}
	return s
}

func NewText(s string) Text {
	return Text{Value: s, Set: true}
}

// Number is an optional finite number. JSON numbers, numeric strings and
// booleans are Valid; null, objects, arrays and garbage strings are not.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case float64:
		n.Value, n.Valid = x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			n.Value, n.Valid = f, true
		}
	case bool:
		if x {
			n.Value = 1
		}
		n.Valid = true
	}
	return nil
}

func NewNumber(f float64) Number {
	return Number{Value: f, Valid: true}
}

// Int truncates toward zero. ok is false when the number is not Valid.
func (n Number) Int() (v int, ok bool) {
	if !n.Valid {
		return 0, false
	}
	return truncInt(n.Value), true
}

// Flag is an optional boolean read the way a loosely typed client means it:
// null is false, numbers are true when non-zero, strings when non-empty.
type Flag struct {
	Value bool
	Set   bool
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	*f = Flag{Set: true}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		f.Set = false
		return nil
	}
	switch x := v.(type) {
	case bool:
		f.Value = x
	case float64:
		f.Value = x != 0
	case string:
		f.Value = x != ""
	case []any:
		f.Value = len(x) > 0
	case map[string]any:
		f.Value = len(x) > 0
	}
	return nil
}

// Or returns the flag value, or def when the field was absent.
func (f Flag) Or(def bool) bool {
	if !f.Set {
		return def
	}
	return f.Value
}

func NewFlag(b bool) Flag {
	return Flag{Value: b, Set: true}
}

const maxExactInt = 1 << 53

func truncInt(f float64) int {
	f = math.Trunc(f)
	if f > maxExactInt {
		return maxExactInt
	}
	if f < -maxExactInt {
		return -maxExactInt
	}
	return int(f)
}
