package form

import (
	"slices"

	"library-catalog/internal/domains/catalog/model"
)

// GenreOption is a genre checkbox of the book form.
type GenreOption struct {
	Genre   model.Genre `json:"genre"`
	Checked bool        `json:"checked"`
}

// MarkSelected pairs every genre with whether its id is among selected.
func MarkSelected(genres []model.Genre, selected []string) []GenreOption {
	out := make([]GenreOption, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreOption{Genre: g, Checked: slices.Contains(selected, g.ID)})
	}
	return out
}
