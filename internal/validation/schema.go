// Package validation turns raw form input into a typed record or a set of
// per-field error messages.
package validation

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// FieldErrors maps a field name to its error messages, in rule order.
type FieldErrors map[string][]string

// Add appends msg to the messages reported for field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Record holds the accepted values of a schema, keyed by field name.
type Record map[string]string

// Rule checks a single raw value. present is false when the form did not carry the key.
type Rule struct {
	Message string
	check   func(value string, present bool) bool
}

// Required accepts any submitted value, the empty string included.
func Required(msg string) Rule {
	return Rule{Message: msg, check: func(_ string, present bool) bool {
		return present
	}}
}

// NonBlank rejects missing values and values made only of whitespace.
func NonBlank(msg string) Rule {
	return Rule{Message: msg, check: func(v string, present bool) bool {
		return present && strings.TrimSpace(v) != ""
	}}
}

// PositiveAmount accepts a finite decimal strictly greater than zero.
func PositiveAmount(msg string) Rule {
	return Rule{Message: msg, check: func(v string, present bool) bool {
		if !present {
			return false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		return f > 0
	}}
}

// OneOf accepts only the listed values, compared exactly.
func OneOf(msg string, allowed ...string) Rule {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return Rule{Message: msg, check: func(v string, present bool) bool {
		if !present {
			return false
		}
		_, ok := set[v]
		return ok
	}}
}

// Field describes one schema entry. Source is the form key to read; it
// defaults to Name, which is always the key used in Record and FieldErrors.
type Field struct {
	Name   string
	Source string
	Rules  []Rule
}

func (f Field) source() string {
	if f.Source != "" {
		return f.Source
	}
	return f.Name
}

// Schema is an ordered list of fields.
type Schema struct {
	Fields []Field
}

// New builds a schema from fields.
func New(fields ...Field) Schema {
	return Schema{Fields: fields}
}

// Validate reads every field from form. On success it returns the record and a
// nil error map; otherwise the record is nil. A field stops at its first failing rule.
func (s Schema) Validate(form url.Values) (Record, FieldErrors) {
	rec := make(Record, len(s.Fields))
	errs := FieldErrors{}

	for _, f := range s.Fields {
		raw, present := first(form, f.source())
		for _, r := range f.Rules {
			if !r.check(raw, present) {
				errs.Add(f.Name, r.Message)
				break
			}
		}
		rec[f.Name] = raw
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

func first(form url.Values, key string) (string, bool) {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}
