package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind names the variant of a Rule.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindEnum   Kind = "enum"
	KindBool   Kind = "bool"
)

// Rule is one variant of the per-field rule union: String, Number, Enum or Bool.
type Rule interface {
	Kind() Kind
	check(f Field, value any) []ErrorEntry
}

// String checks type, rune length bounds, an encoded byte bound and an optional pattern.
// Zero bounds are not applied.
type String struct {
	Min int
	Max int
	// MaxBytes bounds the UTF-8 length, for values whose consumer counts bytes (bcrypt).
	MaxBytes       int
	Pattern        *regexp.Regexp
	PatternMessage string
}

func (String) Kind() Kind { return KindString }

func (s String) check(f Field, value any) []ErrorEntry {
	str, ok := value.(string)
	if !ok {
		return []ErrorEntry{f.entry(value, "%s must be a string", f.Name)}
	}
	var out []ErrorEntry
	n := utf8.RuneCountInString(str)
	if s.Min > 0 && n < s.Min {
		out = append(out, f.entry(value, "%s must be at least %d characters long", f.Name, s.Min))
	}
	if s.Max > 0 && n > s.Max {
		out = append(out, f.entry(value, "%s must be at most %d characters long", f.Name, s.Max))
	}
	if s.MaxBytes > 0 && len(str) > s.MaxBytes {
		out = append(out, f.entry(value, "%s must be at most %d bytes long", f.Name, s.MaxBytes))
	}
	if s.Pattern != nil && !s.Pattern.MatchString(str) {
		if s.PatternMessage != "" {
			out = append(out, f.entry(value, "%s", s.PatternMessage))
		} else {
			out = append(out, f.entry(value, "%s has an invalid format", f.Name))
		}
	}
	return out
}

// Number checks numeric type and optional inclusive bounds.
type Number struct {
	Min     *float64
	Max     *float64
	Integer bool
}

// Bound is a convenience for Number.Min and Number.Max.
func Bound(v float64) *float64 { return &v }

func (Number) Kind() Kind { return KindNumber }

func (n Number) check(f Field, value any) []ErrorEntry {
	num, ok := toFloat(value)
	if !ok {
		return []ErrorEntry{f.entry(value, "%s must be a number", f.Name)}
	}
	if n.Integer && math.Trunc(num) != num {
		return []ErrorEntry{f.entry(value, "%s must be an integer", f.Name)}
	}
	var out []ErrorEntry
	if n.Min != nil && num < *n.Min {
		out = append(out, f.entry(value, "%s must be at least %v", f.Name, *n.Min))
	}
	if n.Max != nil && num > *n.Max {
		out = append(out, f.entry(value, "%s must be at most %v", f.Name, *n.Max))
	}
	return out
}

// Enum accepts one of a finite set of strings.
type Enum struct {
	Values []string
}

func (Enum) Kind() Kind { return KindEnum }

func (e Enum) check(f Field, value any) []ErrorEntry {
	if str, ok := value.(string); ok {
		for _, v := range e.Values {
			if v == str {
				return nil
			}
		}
	}
	return []ErrorEntry{f.entry(value, "%s must be one of: %s", f.Name, strings.Join(e.Values, ", "))}
}

// Bool accepts JSON booleans only.
type Bool struct{}

func (Bool) Kind() Kind { return KindBool }

func (Bool) check(f Field, value any) []ErrorEntry {
	if _, ok := value.(bool); !ok {
		return []ErrorEntry{f.entry(value, "%s must be a boolean", f.Name)}
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (f Field) entry(value any, format string, args ...any) ErrorEntry {
	e := ErrorEntry{
		Field:    f.Name,
		Message:  fmt.Sprintf(format, args...),
		Location: f.location(),
	}
	if !f.Sensitive {
		e.Value = value
	}
	return e
}
