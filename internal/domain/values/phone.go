package values

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// CanonicalNumber represents a phone number value object normalized to E.164
// format (+14155552671). It is constructed through NewCanonicalNumber and is
// immutable afterwards.
type CanonicalNumber struct {
	number string
}

// ParseError is returned when a raw string cannot be interpreted as a phone
// number. The reason is human-readable and safe to surface to the caller.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse phone number %q: %s", e.Raw, e.Reason)
}

// NewCanonicalNumber parses a raw user-supplied string into a canonical E.164
// number. The default region (ISO 3166-1 alpha-2, e.g. "US") is used to
// interpret national-format input; numbers carrying an explicit "+" country
// code ignore it. Parsing the E.164 output of a previous call yields the same
// value.
func NewCanonicalNumber(raw, defaultRegion string) (CanonicalNumber, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CanonicalNumber{}, &ParseError{Raw: raw, Reason: "empty input"}
	}

	parsed, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return CanonicalNumber{}, &ParseError{Raw: raw, Reason: err.Error()}
	}

	return CanonicalNumber{number: phonenumbers.Format(parsed, phonenumbers.E164)}, nil
}

// MustCanonicalNumber creates a CanonicalNumber and panics on error (for
// constants and tests).
func MustCanonicalNumber(raw, defaultRegion string) CanonicalNumber {
	n, err := NewCanonicalNumber(raw, defaultRegion)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the number in E.164 format.
func (n CanonicalNumber) String() string {
	return n.number
}

// E164 returns the number in E.164 format (alias for String).
func (n CanonicalNumber) E164() string {
	return n.number
}

// IsZero reports whether the value is the uninitialized zero number.
func (n CanonicalNumber) IsZero() bool {
	return n.number == ""
}

// Equal checks if two CanonicalNumber values are equal.
func (n CanonicalNumber) Equal(other CanonicalNumber) bool {
	return n.number == other.number
}

// MarshalJSON implements JSON marshaling.
func (n CanonicalNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.number)
}

// UnmarshalJSON implements JSON unmarshaling. Input must already be in
// international format; no region hint is available at this layer.
func (n *CanonicalNumber) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := NewCanonicalNumber(raw, "")
	if err != nil {
		return err
	}

	*n = parsed
	return nil
}
