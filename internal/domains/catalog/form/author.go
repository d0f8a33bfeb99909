package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"library-catalog/internal/domains/catalog/model"
)

var authorSchema = Schema{
	{
		Field: model.FieldFirstName,
		Trim:  true,
		Checks: []validation.Rule{
			validation.Required.Error("First name must be specified."),
			is.Alphanumeric.Error("First name has non-alphanumeric characters."),
		},
		Sanitizers: []Sanitizer{Escape},
	},
	{
		Field: model.FieldFamilyName,
		Trim:  true,
		Checks: []validation.Rule{
			validation.Required.Error("Family name must be specified."),
			is.Alphanumeric.Error("Family name has non-alphanumeric characters."),
		},
		Sanitizers: []Sanitizer{Escape},
	},
	{
		Field:  model.FieldDateOfBirth,
		Trim:   true,
		Checks: []validation.Rule{isoDate("Invalid date of birth")},
	},
	{
		Field:  model.FieldDateOfDeath,
		Trim:   true,
		Checks: []validation.Rule{isoDate("Invalid date of death")},
	},
}

// Author runs an author submission through the pipeline. id is empty for
// creates and carries the target for updates.
func Author(body Body, id string) Draft[model.Author] {
	values, errs := authorSchema.Apply(body)
	return Draft[model.Author]{
		Entity: model.Author{
			ID:          id,
			FirstName:   values.Get(model.FieldFirstName),
			FamilyName:  values.Get(model.FieldFamilyName),
			DateOfBirth: values.Date(model.FieldDateOfBirth),
			DateOfDeath: values.Date(model.FieldDateOfDeath),
		},
		Values: values,
		Errors: errs,
	}
}
