// Package http exposes the finance service as a JSON API.
//
// This file holds the request-side helpers: body decoding that accepts both
// JSON and form-encoded payloads, and query parameters that fall back to the
// service's current day.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"ledger/internal/core"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidID     = errors.New("invalid id")
	errMalformedBody = errors.New("malformed request body")
)

// RequestBodyParser reads a request body once and answers field lookups
// from either a JSON object or form values.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads at most 1 MiB of r's body.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body. JSON numbers are kept verbatim so amounts never
// pass through float64.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.jsonData = nil
			p.err = fmt.Errorf("%w: %w", errMalformedBody, err)
		}
		return p.err
	}

	if p.formData, p.err = url.ParseQuery(string(trimmed)); p.err != nil {
		p.err = fmt.Errorf("%w: %w", errMalformedBody, p.err)
	}
	return p.err
}

// Get returns the trimmed, sanitized value of key or "".
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// IsJSON reports whether the body was a JSON object.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// ParseTransactionFields extracts transaction fields. The type and amount
// are validated here; everything else is left to the ledger.
func ParseTransactionFields(p *RequestBodyParser) (core.TransactionInput, error) {
	typ, err := core.ParseTransactionType(p.Get("type"))
	if err != nil {
		return core.TransactionInput{}, err
	}
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.TransactionInput{
		Type:     typ,
		Title:    p.Get("title"),
		Category: p.Get("category"),
		Amount:   amount,
		Date:     p.Get("date"),
	}, nil
}

// ParseID reads the {id} path value.
func ParseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// DateParam returns the date query value or today.
func DateParam(query url.Values, today string) string {
	if v := strings.TrimSpace(query.Get("date")); v != "" {
		return v
	}
	return today
}

// MonthParam returns the month query value or the month of today.
func MonthParam(query url.Values, today string) string {
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		return v
	}
	return core.MonthKey(today)
}
