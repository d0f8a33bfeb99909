package form

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-catalog/internal/domains/catalog/model"
)

var dateLayouts = []string{
	model.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts a calendar date or an ISO 8601 timestamp.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("not an ISO 8601 date")
}

// isoDate passes empty values, like the other ozzo format rules.
func isoDate(message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, err := ParseDate(s); err != nil {
			return errors.New(message)
		}
		return nil
	})
}
