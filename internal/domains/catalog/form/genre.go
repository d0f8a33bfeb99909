package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-catalog/internal/domains/catalog/model"
)

var genreSchema = Schema{
	{
		Field:      model.FieldName,
		Trim:       true,
		Checks:     []validation.Rule{validation.Required.Error("Genre name required")},
		Sanitizers: []Sanitizer{Escape},
	},
}

func Genre(body Body, id string) Draft[model.Genre] {
	values, errs := genreSchema.Apply(body)
	return Draft[model.Genre]{
		Entity: model.Genre{ID: id, Name: values.Get(model.FieldName)},
		Values: values,
		Errors: errs,
	}
}
