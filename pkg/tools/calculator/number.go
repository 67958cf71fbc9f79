package calculator

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Number is a numeric operand that remembers whether it was written as an
// integer or as a real number. Integer operands use integer arithmetic.
type Number struct {
	i     int64
	f     float64
	isInt bool
}

// Int returns an integer Number.
func Int(v int64) Number { return Number{i: v, f: float64(v), isInt: true} }

// Float returns a real Number.
func Float(v float64) Number { return Number{f: v} }

// ParseNumber parses s as an integer when possible and as a real otherwise.
func ParseNumber(s string) (Number, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(v), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, fmt.Errorf("calculator: invalid number %q", s)
	}
	return Float(v), nil
}

// IsInt reports whether n holds an integer.
func (n Number) IsInt() bool { return n.isInt }

// Float64 returns n as a float64.
func (n Number) Float64() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

// IsZero reports whether n equals zero.
func (n Number) IsZero() bool {
	if n.isInt {
		return n.i == 0
	}
	return n.f == 0
}

// String formats integers verbatim and reals in their shortest form. A real
// with no fractional part keeps a ".0" so it never reads as an integer.
func (n Number) String() string {
	if n.isInt {
		return strconv.FormatInt(n.i, 10)
	}

	s := strconv.FormatFloat(n.f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}
	return s
}

// MarshalJSON encodes n as a JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalJSON accepts a JSON number, or a string holding one since models
// sometimes quote numeric arguments.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("calculator: invalid number %s", data)
		}
		data = []byte(unquoted)
	}

	parsed, err := ParseNumber(string(data))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
