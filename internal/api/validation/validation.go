// Package validation checks request payloads against declarative per-field rule sets and
// reports every problem in a single, deterministic list of entries.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Location tells the client where an offending field came from.
type Location string

const (
	InBody  Location = "body"
	InQuery Location = "query"
	InParam Location = "param"
)

// ErrValidationFailed is matched by every *Error.
var ErrValidationFailed = errors.New("validation failed")

// Field declares the rule for one input key.
type Field struct {
	Name     string
	In       Location
	Required bool
	// Default is filled into the normalized input when an optional field is absent.
	Default any
	Rule    Rule
	// Sensitive fields never echo their value back in error entries.
	Sensitive bool
}

func (f Field) location() Location {
	if f.In == "" {
		return InBody
	}
	return f.In
}

// RuleSet is checked in declaration order, which fixes the order of reported entries.
type RuleSet []Field

// ErrorEntry describes one failed check.
type ErrorEntry struct {
	Field    string   `json:"field" example:"handle"`
	Message  string   `json:"message" example:"handle is required"`
	Value    any      `json:"value,omitempty"`
	Location Location `json:"location" example:"body"`
}

// Result is the outcome of Validate.
type Result struct {
	OK            bool
	MissingFields []string
	Errors        []ErrorEntry
	Normalized    map[string]any
}

// Err returns nil when the input is valid, otherwise an *Error with every entry.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &Error{Entries: r.Errors, MissingFields: r.MissingFields}
}

// Error carries the entries of a failed validation.
type Error struct {
	Entries       []ErrorEntry
	MissingFields []string
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		msgs[i] = entry.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() error { return ErrValidationFailed }

// Validate checks input against rs. Every field is checked before validity is decided.
// The only change made to the input is filling defaults of absent optional fields, and it
// is applied to a copy.
func Validate(rs RuleSet, input map[string]any) Result {
	res := Result{Normalized: make(map[string]any, len(input)+len(rs))}
	for k, v := range input {
		res.Normalized[k] = v
	}

	for _, f := range rs {
		value, present := input[f.Name]
		if !present || isBlank(value) {
			if f.Required {
				res.MissingFields = append(res.MissingFields, f.Name)
				res.Errors = append(res.Errors, f.entry(nil, "%s is required", f.Name))
				continue
			}
			if f.Default != nil {
				res.Normalized[f.Name] = f.Default
			}
			continue
		}
		if f.Rule == nil {
			continue
		}
		res.Errors = append(res.Errors, f.Rule.check(f, value)...)
	}

	res.OK = len(res.Errors) == 0
	return res
}

// ValidateQuery validates the first value of each query key. Values declared with a
// Number or Bool rule are converted from their text form first; text that does not
// convert is left as a string and fails the rule's type check.
func ValidateQuery(rs RuleSet, q url.Values) Result {
	kinds := make(map[string]Kind, len(rs))
	scoped := make(RuleSet, len(rs))
	for i, f := range rs {
		if f.In == "" {
			f.In = InQuery
		}
		if f.Rule != nil {
			kinds[f.Name] = f.Rule.Kind()
		}
		scoped[i] = f
	}

	input := make(map[string]any, len(q))
	for k, vals := range q {
		if len(vals) == 0 {
			continue
		}
		raw := vals[0]
		input[k] = raw
		switch kinds[k] {
		case KindNumber:
			if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				input[k] = json.Number(strings.TrimSpace(raw))
			}
		case KindBool:
			if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
				input[k] = b
			}
		}
	}
	return Validate(scoped, input)
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
