package form

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldError reports the first failed check of one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Rule describes how one submitted field is trimmed, checked and sanitized.
// Prepare runs before the checks, so the checks see what will be stored;
// Sanitizers run after them. Checks are ozzo rules evaluated in order; the
// first failure is reported and the remaining checks of that field are
// skipped. Fields without a Required check treat an empty value as "not
// provided".
type Rule struct {
	Field      string
	Trim       bool
	Collection bool
	Prepare    []Sanitizer
	Checks     []validation.Rule
	Sanitizers []Sanitizer
}

func (r Rule) check(v string) (string, bool) {
	for _, c := range r.Checks {
		if err := validation.Validate(v, c); err != nil {
			return err.Error(), false
		}
	}
	return "", true
}

func (r Rule) clean(v string) string {
	if r.Trim {
		v = strings.TrimSpace(v)
	}
	if len(r.Prepare) == 0 {
		return v
	}
	for _, p := range r.Prepare {
		v = p(v)
	}
	if r.Trim {
		v = strings.TrimSpace(v)
	}
	return v
}

func (r Rule) sanitize(v string) string {
	for _, s := range r.Sanitizers {
		v = s(v)
	}
	return v
}

// Schema is the ordered rule list of one entity kind.
type Schema []Rule

func (s Schema) collections() []string {
	var fields []string
	for _, r := range s {
		if r.Collection {
			fields = append(fields, r.Field)
		}
	}
	return fields
}

// Apply checks every field of the schema against body, in declaration order,
// and never stops at the first invalid field. It returns the sanitized values
// together with at most one error per field.
func (s Schema) Apply(body Body) (Values, []FieldError) {
	body = body.Normalize(s.collections()...)
	values := make(Values, len(s))
	var errs []FieldError

	for _, r := range s {
		if r.Collection {
			items := body.Collection(r.Field)
			out := make([]string, len(items))
			failed := false
			for i, item := range items {
				item = r.clean(item)
				if msg, ok := r.check(item); !ok && !failed {
					errs = append(errs, FieldError{Field: r.Field, Message: msg, Value: r.sanitize(item)})
					failed = true
				}
				out[i] = r.sanitize(item)
			}
			values[r.Field] = out
			continue
		}

		v := r.clean(body.Scalar(r.Field))
		clean := r.sanitize(v)
		if msg, ok := r.check(v); !ok {
			errs = append(errs, FieldError{Field: r.Field, Message: msg, Value: clean})
		}
		values[r.Field] = clean
	}
	return values, errs
}

// Values holds sanitized submitted values: a string for scalar fields and a
// []string for collection fields. Redisplayed forms echo them back.
type Values map[string]any

func (v Values) Get(field string) string {
	s, _ := v[field].(string)
	return s
}

func (v Values) List(field string) []string {
	if l, ok := v[field].([]string); ok {
		return l
	}
	return []string{}
}

// Date parses the field, or returns nil for an empty or malformed value.
func (v Values) Date(field string) *time.Time {
	s := v.Get(field)
	if s == "" {
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

// Draft is the immutable result of running a submission through a schema.
// Entity is built even when Errors is not empty so the form can be redisplayed.
type Draft[T any] struct {
	Entity T            `json:"entity"`
	Values Values       `json:"values"`
	Errors []FieldError `json:"errors,omitempty"`
}

func (d Draft[T]) Valid() bool {
	return len(d.Errors) == 0
}

// WithError returns a copy of d with one more field error.
func (d Draft[T]) WithError(field, message string) Draft[T] {
	errs := make([]FieldError, 0, len(d.Errors)+1)
	errs = append(errs, d.Errors...)
	d.Errors = append(errs, FieldError{Field: field, Message: message, Value: d.Values.Get(field)})
	return d
}

// FieldErrors indexes errors by field name.
func (d Draft[T]) FieldErrors() map[string]string {
	out := make(map[string]string, len(d.Errors))
	for _, e := range d.Errors {
		out[e.Field] = e.Message
	}
	return out
}
