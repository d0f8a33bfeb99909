package model

import "time"

// Field names shared by request bodies, store filters and projections.
const (
	FieldID = "id"

	FieldFirstName   = "first_name"
	FieldFamilyName  = "family_name"
	FieldDateOfBirth = "date_of_birth"
	FieldDateOfDeath = "date_of_death"

	FieldTitle   = "title"
	FieldSummary = "summary"
	FieldISBN    = "isbn"
	FieldAuthor  = "author"
	FieldGenre   = "genre"

	FieldName = "name"

	FieldBook    = "book"
	FieldImprint = "imprint"
	FieldStatus  = "status"
	FieldDueBack = "due_back"
)

// DateLayout is the calendar-date format used for dates on the wire.
const DateLayout = "2006-01-02"

type fieldSet map[string]bool

// projection reports nil when every field is kept.
func projection(fields []string) fieldSet {
	if len(fields) == 0 {
		return nil
	}
	set := make(fieldSet, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func (s fieldSet) keeps(field string) bool {
	return s == nil || s[field]
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
