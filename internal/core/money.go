// Package core holds the domain types and the pure calculations of the
// dashboard: aggregation by category, goal progress and period resolution.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and reais representations.
package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a Brazilian-notation amount to cents.
//
// A comma is the decimal mark and dots group thousands ("1.234,56"). Without a
// comma a single dot is read as the decimal mark ("12.34"), except when it is
// followed by exactly three digits: "1.234" is a grouped integer in pt-BR and
// is rejected as ambiguous. The third decimal place is rounded half-up.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("R$ 1.234,56") -> 123456, nil
//	ParseDecimalToCents("12,345") -> 1235, nil (rounds up)
//	ParseDecimalToCents("1.234") -> 0, ErrInvalidAmount
func ParseDecimalToCents(s string) (int64, error) {
	cents, err := parseCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseNonNegativeCents is ParseDecimalToCents without the zero check. Goal
// current amounts start at zero.
func ParseNonNegativeCents(s string) (int64, error) {
	return parseCents(s)
}

func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	var intPart, fracPart string
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return 0, ErrInvalidAmount
		}
		intPart, fracPart = parts[0], parts[1]
		if strings.Contains(intPart, ".") {
			grouped, ok := ungroupThousands(intPart)
			if !ok {
				return 0, ErrInvalidAmount
			}
			intPart = grouped
		}
	} else {
		parts := strings.Split(s, ".")
		switch {
		case len(parts) > 2:
			return 0, ErrInvalidAmount
		case len(parts) == 2 && len(parts[1]) == 3:
			return 0, ErrInvalidAmount
		}
		intPart = parts[0]
		if len(parts) == 2 {
			fracPart = parts[1]
		}
	}
	return centsFromParts(intPart, fracPart)
}

// ungroupThousands strips the dots of "1.234.567", requiring groups of three
// after a leading group of one to three digits.
func ungroupThousands(s string) (string, bool) {
	groups := strings.Split(s, ".")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func centsFromParts(intPart, fracPart string) (int64, error) {
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// NumberToDecimal rewrites a JSON number ("1.234") with a decimal comma so
// the pt-BR parser reads its dot as the decimal mark.
func NumberToDecimal(n string) string {
	return strings.Replace(n, ".", ",", 1)
}

// Reais returns the value as a float64 for display and charting.
// Use cents for calculations.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount as a plain decimal with two digits ("1234.50").
func (m Money) String() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return sign + strconv.FormatInt(c/100, 10) + "." + twoDigits(c%100)
}

// Format renders the amount in Brazilian notation: "R$ 1.234,50".
func (m Money) Format() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	intPart := strconv.FormatInt(c/100, 10)
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + twoDigits(c%100)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// MarshalJSON writes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a decimal string ("12,50").
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		m.Cents = 0
		return nil
	}
	s := NumberToDecimal(string(data))
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	cents, err := ParseNonNegativeCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
