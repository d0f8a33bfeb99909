package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-catalog/internal/domains/catalog/model"
)

func statusValues() []interface{} {
	out := make([]interface{}, 0, len(model.InstanceStatuses))
	for _, s := range model.InstanceStatuses {
		out = append(out, string(s))
	}
	return out
}

var instanceSchema = Schema{
	{
		Field:      model.FieldBook,
		Trim:       true,
		Checks:     []validation.Rule{validation.Required.Error("Book must be specified")},
		Sanitizers: []Sanitizer{Escape},
	},
	{
		Field:      model.FieldImprint,
		Trim:       true,
		Checks:     []validation.Rule{validation.Required.Error("Imprint must be specified")},
		Sanitizers: []Sanitizer{Escape},
	},
	{
		Field:  model.FieldStatus,
		Trim:   true,
		Checks: []validation.Rule{validation.In(statusValues()...).Error("Invalid status")},
	},
	{
		Field:  model.FieldDueBack,
		Trim:   true,
		Checks: []validation.Rule{isoDate("Invalid date")},
	},
}

// BookInstance runs a copy submission through the pipeline. A missing status
// becomes model.DefaultStatus.
func BookInstance(body Body, id string) Draft[model.BookInstance] {
	values, errs := instanceSchema.Apply(body)
	status := model.InstanceStatus(values.Get(model.FieldStatus))
	if status == "" {
		status = model.DefaultStatus
	}
	return Draft[model.BookInstance]{
		Entity: model.BookInstance{
			ID:      id,
			BookID:  values.Get(model.FieldBook),
			Imprint: values.Get(model.FieldImprint),
			Status:  status,
			DueBack: values.Date(model.FieldDueBack),
		},
		Values: values,
		Errors: errs,
	}
}
