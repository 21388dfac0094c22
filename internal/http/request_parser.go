// Package http serves the dashboard's JSON API.
//
// This file implements utilities for parsing and validating HTTP request data.
// Bodies may be JSON (fetch calls) or form-encoded (HTMX forms); both are read
// through the same accessor so handlers do not care which one arrived.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
)

// maxBodyBytes caps request bodies. Every payload is a small form.
const maxBodyBytes = 64 << 10

var errBadField = errors.New("valor inválido")

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// Has reports whether key was sent at all, even empty.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// amount returns key as a pt-BR decimal string. JSON numbers carry a decimal
// point, which is rewritten to a comma so 1.234 stays one real and change.
func (p *RequestBodyParser) amount(key string) string {
	if p.jsonData != nil {
		if _, ok := p.jsonData[key].(float64); ok {
			return core.NumberToDecimal(p.Get(key))
		}
	}
	return p.Get(key)
}

// Money parses key as a positive amount ("1.234,50", "12.5", 12.5).
func (p *RequestBodyParser) Money(key string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(p.amount(key))
	if err != nil {
		return core.Money{}, fmt.Errorf("%s: %w", key, err)
	}
	return core.Money{Cents: cents}, nil
}

// OptionalMoney is Money that accepts zero and treats a missing key as zero.
func (p *RequestBodyParser) OptionalMoney(key string) (core.Money, error) {
	v := p.amount(key)
	if v == "" {
		return core.Money{}, nil
	}
	cents, err := core.ParseNonNegativeCents(v)
	if err != nil {
		return core.Money{}, fmt.Errorf("%s: %w", key, err)
	}
	return core.Money{Cents: cents}, nil
}

// Date parses key as YYYY-MM-DD. A missing key yields the zero date.
func (p *RequestBodyParser) Date(key string) (core.Date, error) {
	v := p.Get(key)
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%s: %w", key, errBadField)
	}
	return d, nil
}

// ID parses key as a row id. Missing, empty or zero means no reference.
func (p *RequestBodyParser) ID(key string) (*int64, error) {
	v := p.Get(key)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return nil, fmt.Errorf("%s: %w", key, errBadField)
	}
	if id == 0 {
		return nil, nil
	}
	return &id, nil
}

// Int parses key as an integer, returning def when the key is missing.
func (p *RequestBodyParser) Int(key string, def int) (int, error) {
	v := p.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, errBadField)
	}
	return n, nil
}

// Bool parses key when present; nil means the field was not sent.
func (p *RequestBodyParser) Bool(key string) (*bool, error) {
	if !p.Has(key) || p.Get(key) == "" {
		return nil, nil
	}
	switch strings.ToLower(p.Get(key)) {
	case "true", "1", "on", "sim":
		b := true
		return &b, nil
	case "false", "0", "off", "nao", "não":
		b := false
		return &b, nil
	}
	return nil, fmt.Errorf("%s: %w", key, errBadField)
}

// GetRaw returns the raw body bytes.
func (p *RequestBodyParser) GetRaw() []byte {
	return p.body
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParsePeriodFilter reads modo, ano, mes, inicio and fim from the query.
// Non-numeric year or month values are left at zero so Resolve applies the
// current date.
func ParsePeriodFilter(query url.Values) core.PeriodFilter {
	f := core.PeriodFilter{
		Mode:  core.PeriodMode(strings.TrimSpace(query.Get("modo"))),
		Start: strings.TrimSpace(query.Get("inicio")),
		End:   strings.TrimSpace(query.Get("fim")),
	}
	if v := strings.TrimSpace(query.Get("ano")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			f.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("mes")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			f.Month = m
		}
	}
	return f
}

// ResolvePeriod resolves the request's period filter. Invalid filters fall
// back to the current month; the returned error says what was rejected.
func ResolvePeriod(query url.Values, now time.Time) (core.Period, error) {
	p, err := ParsePeriodFilter(query).Resolve(now)
	if err != nil {
		return core.MonthPeriod(now.Year(), int(now.Month())), err
	}
	return p, nil
}

// PathID reads a positive integer path value.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: %w", name, errBadField)
	}
	return id, nil
}

// PathKind reads the {tipo} segment ("receitas" or "despesas").
func PathKind(r *http.Request) (core.Kind, error) {
	return core.ParseKind(r.PathValue("tipo"))
}
