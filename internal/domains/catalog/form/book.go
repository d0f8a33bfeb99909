package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-catalog/internal/domains/catalog/model"
)

var bookSchema = Schema{
	{
		Field:      model.FieldTitle,
		Trim:       true,
		Checks:     []validation.Rule{validation.Required.Error("Title must not be empty.")},
		Sanitizers: []Sanitizer{Escape},
	},
	{
		Field:      model.FieldAuthor,
		Trim:       true,
		Checks:     []validation.Rule{validation.Required.Error("Author must not be empty.")},
		Sanitizers: []Sanitizer{Escape},
	},
	{
		Field:      model.FieldSummary,
		Trim:       true,
		Prepare:    []Sanitizer{StripMarkup},
		Checks:     []validation.Rule{validation.Required.Error("Summary must not be empty.")},
		Sanitizers: []Sanitizer{Escape},
	},
	{
		Field:      model.FieldISBN,
		Trim:       true,
		Checks:     []validation.Rule{validation.Required.Error("ISBN must not be empty")},
		Sanitizers: []Sanitizer{Escape},
	},
	{
		Field:      model.FieldGenre,
		Collection: true,
		Sanitizers: []Sanitizer{Escape},
	},
}

// Book runs a book submission through the pipeline. The genre field may be
// absent, a single id or a list of ids.
func Book(body Body, id string) Draft[model.Book] {
	values, errs := bookSchema.Apply(body)
	return Draft[model.Book]{
		Entity: model.Book{
			ID:       id,
			Title:    values.Get(model.FieldTitle),
			Summary:  values.Get(model.FieldSummary),
			ISBN:     values.Get(model.FieldISBN),
			AuthorID: values.Get(model.FieldAuthor),
			GenreIDs: values.List(model.FieldGenre),
		},
		Values: values,
		Errors: errs,
	}
}
