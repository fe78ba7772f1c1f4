package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// UnboundedSentinel is the on-disk spelling of an unbounded length limit.
const UnboundedSentinel = "inf"

var ErrInvalidLengthLimit = errors.New("invalid length limit")

// LengthLimit is either a bounded token count or "no upper bound".
// The zero value is Bounded(0). A stored value that could not be parsed
// decodes to an invalid limit, which Valid reports.
type LengthLimit struct {
	n         int
	unbounded bool
	invalid   bool
}

func Bounded(n int) LengthLimit {
	return LengthLimit{n: n}
}

func Unbounded() LengthLimit {
	return LengthLimit{unbounded: true}
}

// Valid is false for a limit decoded from an unparsable stored value.
func (l LengthLimit) Valid() bool {
	return !l.invalid
}

func (l LengthLimit) IsUnbounded() bool {
	return l.unbounded
}

// Value returns the bound and true, or 0 and false when unbounded.
func (l LengthLimit) Value() (int, bool) {
	if l.unbounded {
		return 0, false
	}
	return l.n, true
}

func (l LengthLimit) String() string {
	if l.invalid {
		return ""
	}
	if l.unbounded {
		return UnboundedSentinel
	}
	return strconv.Itoa(l.n)
}

// ParseLengthLimit reads the storage form: "inf" or a non-negative integer.
func ParseLengthLimit(s string) (LengthLimit, error) {
	s = strings.TrimSpace(s)
	if s == UnboundedSentinel {
		return Unbounded(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return LengthLimit{}, fmt.Errorf("%w: %q", ErrInvalidLengthLimit, s)
	}
	return Bounded(n), nil
}

func (l LengthLimit) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(l.String())), nil
}

// UnmarshalJSON accepts "inf", a numeral string, or a bare JSON number.
// Anything else (older clients wrote "" for a cleared field) decodes to
// an invalid limit instead of failing the enclosing record.
func (l *LengthLimit) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			*l = LengthLimit{invalid: true}
			return nil
		}
		raw = unquoted
	}
	parsed, err := ParseLengthLimit(raw)
	if err != nil {
		*l = LengthLimit{invalid: true}
		return nil
	}
	*l = parsed
	return nil
}
