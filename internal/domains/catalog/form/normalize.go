package form

import (
	"fmt"
	"strconv"
)

// Body is a submitted request body keyed by field name. Each value is absent,
// a scalar (string, number, bool) or a collection ([]string or []any).
type Body map[string]any

// Collection coerces any submitted value into a list of strings: nil becomes
// an empty list, a scalar a one-element list, and a list is kept as is.
func Collection(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, scalarString(e))
		}
		return out
	default:
		return []string{scalarString(t)}
	}
}

// Scalar reads a single value. A list yields its first element, which is how
// repeated form keys arrive for single-valued fields.
func Scalar(v any) string {
	switch t := v.(type) {
	case []string:
		if len(t) == 0 {
			return ""
		}
		return t[0]
	case []any:
		if len(t) == 0 {
			return ""
		}
		return scalarString(t[0])
	default:
		return scalarString(t)
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; keep them out of exponent form.
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Normalize returns a copy of b in which every named field holds a []string.
// Applying it twice gives the same result as applying it once.
func (b Body) Normalize(fields ...string) Body {
	out := make(Body, len(b)+len(fields))
	for k, v := range b {
		out[k] = v
	}
	for _, f := range fields {
		out[f] = Collection(b[f])
	}
	return out
}

func (b Body) Scalar(field string) string {
	return Scalar(b[field])
}

func (b Body) Collection(field string) []string {
	return Collection(b[field])
}
