package model

import (
	"strconv"
	"time"
)

type Author struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	FamilyName  string     `json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
}

// Name is the display form "family_name, first_name". It is empty when either
// part is missing.
func (a Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

func (a Author) URL() string {
	return DetailPath(KindAuthor, a.ID)
}

// Lifespan renders the birth and death years, e.g. "1920 - 1992".
func (a Author) Lifespan() string {
	var birth, death string
	if a.DateOfBirth != nil {
		birth = strconv.Itoa(a.DateOfBirth.Year())
	}
	if a.DateOfDeath != nil {
		death = strconv.Itoa(a.DateOfDeath.Year())
	}
	if birth == "" && death == "" {
		return ""
	}
	return birth + " - " + death
}

func (a Author) DocID() string { return a.ID }

func (a Author) WithID(id string) Author {
	a.ID = id
	return a
}

func (a Author) Bare() Author {
	a.DateOfBirth = copyTime(a.DateOfBirth)
	a.DateOfDeath = copyTime(a.DateOfDeath)
	return a
}

func (a Author) Match(field, value string) bool {
	switch field {
	case FieldID:
		return a.ID == value
	case FieldFirstName:
		return a.FirstName == value
	case FieldFamilyName:
		return a.FamilyName == value
	case FieldDateOfBirth:
		return formatDate(a.DateOfBirth) == value
	case FieldDateOfDeath:
		return formatDate(a.DateOfDeath) == value
	}
	return false
}

func (a Author) SortKey(field string) string {
	switch field {
	case FieldFirstName:
		return a.FirstName
	case FieldFamilyName:
		return a.FamilyName
	case FieldDateOfBirth:
		return formatDate(a.DateOfBirth)
	case FieldDateOfDeath:
		return formatDate(a.DateOfDeath)
	}
	return a.ID
}

func (a Author) Project(fields []string) Author {
	keep := projection(fields)
	out := Author{ID: a.ID}
	if keep.keeps(FieldFirstName) {
		out.FirstName = a.FirstName
	}
	if keep.keeps(FieldFamilyName) {
		out.FamilyName = a.FamilyName
	}
	if keep.keeps(FieldDateOfBirth) {
		out.DateOfBirth = a.DateOfBirth
	}
	if keep.keeps(FieldDateOfDeath) {
		out.DateOfDeath = a.DateOfDeath
	}
	return out
}

func (a Author) UniqueKey() string { return "" }
