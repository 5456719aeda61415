package nftapi

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is a scalar API field kept exactly as the server sent it.
// Numbers keep their literal form (42 stays "42", 0.10 stays "0.10");
// strings are unquoted; null or missing fields are unset.
type Value struct {
	raw    string
	quoted bool
	set    bool
}

// Number builds a numeric Value from its literal text.
func Number(lit string) Value { return Value{raw: lit, set: true} }

// Text builds a string Value.
func Text(s string) Value { return Value{raw: s, quoted: true, set: true} }

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = Value{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	*v = Value{raw: string(b), set: true}
	return nil
}

// MarshalJSON writes the value back in its original kind; unset values become null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.set:
		return []byte("null"), nil
	case v.quoted:
		return json.Marshal(v.raw)
	default:
		return []byte(v.raw), nil
	}
}

// IsSet reports whether the field was present and non-null.
func (v Value) IsSet() bool { return v.set }

// String returns the display text, or "" when unset.
func (v Value) String() string { return v.raw }

// Or returns the display text, falling back to def when unset.
func (v Value) Or(def string) string {
	if !v.set {
		return def
	}
	return v.raw
}

// OrText returns v, or a string Value holding def when v is unset.
func (v Value) OrText(def string) Value {
	if v.set {
		return v
	}
	return Text(def)
}

// Float parses the value as a float64.
func (v Value) Float() (float64, bool) {
	if !v.set {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
