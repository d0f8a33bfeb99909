package store

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"library-catalog/internal/domains/catalog/model"
)

var authorsTable = table[model.Author]{
	kind:    model.KindAuthor,
	name:    "authors",
	columns: []string{"id", "first_name", "family_name", "date_of_birth", "date_of_death"},
	filters: map[string]string{
		model.FieldID:          "id = %s",
		model.FieldFirstName:   "first_name = %s",
		model.FieldFamilyName:  "family_name = %s",
		model.FieldDateOfBirth: "date_of_birth = %s",
		model.FieldDateOfDeath: "date_of_death = %s",
	},
	sorts: map[string]string{
		model.FieldFirstName:   "first_name",
		model.FieldFamilyName:  "family_name",
		model.FieldDateOfBirth: "date_of_birth",
		model.FieldDateOfDeath: "date_of_death",
	},
	scan: func(s scanner) (model.Author, error) {
		var a model.Author
		var born, died sql.NullTime
		if err := s.Scan(&a.ID, &a.FirstName, &a.FamilyName, &born, &died); err != nil {
			return a, err
		}
		a.DateOfBirth = fromNullTime(born)
		a.DateOfDeath = fromNullTime(died)
		return a, nil
	},
	values: func(a model.Author) []any {
		return []any{a.FirstName, a.FamilyName, toNullTime(a.DateOfBirth), toNullTime(a.DateOfDeath)}
	},
}

var genresTable = table[model.Genre]{
	kind:    model.KindGenre,
	name:    "genres",
	columns: []string{"id", "name"},
	filters: map[string]string{
		model.FieldID:   "id = %s",
		model.FieldName: "name = %s",
	},
	sorts: map[string]string{
		model.FieldName: "name",
	},
	scan: func(s scanner) (model.Genre, error) {
		var g model.Genre
		err := s.Scan(&g.ID, &g.Name)
		return g, err
	},
	values: func(g model.Genre) []any {
		return []any{g.Name}
	},
}

var booksTable = table[model.Book]{
	kind:    model.KindBook,
	name:    "books",
	columns: []string{"id", "title", "summary", "isbn", "author_id", "genre_ids"},
	filters: map[string]string{
		model.FieldID:      "id = %s",
		model.FieldTitle:   "title = %s",
		model.FieldSummary: "summary = %s",
		model.FieldISBN:    "isbn = %s",
		model.FieldAuthor:  "author_id = %s",
		model.FieldGenre:   "%s = ANY(genre_ids)",
	},
	sorts: map[string]string{
		model.FieldTitle:  "title",
		model.FieldISBN:   "isbn",
		model.FieldAuthor: "author_id",
	},
	scan: func(s scanner) (model.Book, error) {
		var b model.Book
		var genres pq.StringArray
		if err := s.Scan(&b.ID, &b.Title, &b.Summary, &b.ISBN, &b.AuthorID, &genres); err != nil {
			return b, err
		}
		b.GenreIDs = []string(genres)
		if b.GenreIDs == nil {
			b.GenreIDs = []string{}
		}
		return b, nil
	},
	values: func(b model.Book) []any {
		return []any{b.Title, b.Summary, b.ISBN, b.AuthorID, pq.StringArray(b.GenreIDs)}
	},
}

var instancesTable = table[model.BookInstance]{
	kind:    model.KindBookInstance,
	name:    "book_instances",
	columns: []string{"id", "book_id", "imprint", "status", "due_back"},
	filters: map[string]string{
		model.FieldID:      "id = %s",
		model.FieldBook:    "book_id = %s",
		model.FieldImprint: "imprint = %s",
		model.FieldStatus:  "status = %s",
		model.FieldDueBack: "due_back = %s",
	},
	sorts: map[string]string{
		model.FieldImprint: "imprint",
		model.FieldStatus:  "status",
		model.FieldDueBack: "due_back",
		model.FieldBook:    "book_id",
	},
	scan: func(s scanner) (model.BookInstance, error) {
		var bi model.BookInstance
		var status string
		var due sql.NullTime
		if err := s.Scan(&bi.ID, &bi.BookID, &bi.Imprint, &status, &due); err != nil {
			return bi, err
		}
		bi.Status = model.InstanceStatus(status)
		bi.DueBack = fromNullTime(due)
		return bi, nil
	},
	values: func(bi model.BookInstance) []any {
		return []any{bi.BookID, bi.Imprint, string(bi.Status), toNullTime(bi.DueBack)}
	},
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
