// Package money formats integer rupiah amounts with dot thousands
// separators ("150000" <-> "150.000"). Format and Parse round-trip exactly.
package money

import (
	"errors"
	"strconv"
	"strings"
)

var ErrMalformed = errors.New("malformed amount")

// Format renders n with dot separators every three digits.
func Format(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Parse reads a separated amount back to its integer value. Separators are
// optional; anything else is rejected.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMalformed
	}

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var digits strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '.':
			// separator, skip
		default:
			return 0, ErrMalformed
		}
	}
	if digits.Len() == 0 {
		return 0, ErrMalformed
	}

	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, ErrMalformed
	}
	if neg {
		n = -n
	}
	return n, nil
}
