package model

import "slices"

type Book struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	ISBN     string   `json:"isbn"`
	AuthorID string   `json:"author_id"`
	GenreIDs []string `json:"genre_ids"`

	// Filled only by expanded finds.
	Author *Author `json:"author,omitempty"`
	Genres []Genre `json:"genres,omitempty"`
}

func (b Book) URL() string {
	return DetailPath(KindBook, b.ID)
}

// HasGenre reports whether id is one of the book's genres.
func (b Book) HasGenre(id string) bool {
	return slices.Contains(b.GenreIDs, id)
}

func (b Book) DocID() string { return b.ID }

func (b Book) WithID(id string) Book {
	b.ID = id
	return b
}

// Bare drops the expansion fields and copies the genre list.
func (b Book) Bare() Book {
	ids := make([]string, len(b.GenreIDs))
	copy(ids, b.GenreIDs)
	b.GenreIDs = ids
	b.Author = nil
	b.Genres = nil
	return b
}

// Match treats the genre field as a membership test.
func (b Book) Match(field, value string) bool {
	switch field {
	case FieldID:
		return b.ID == value
	case FieldTitle:
		return b.Title == value
	case FieldSummary:
		return b.Summary == value
	case FieldISBN:
		return b.ISBN == value
	case FieldAuthor:
		return b.AuthorID == value
	case FieldGenre:
		return b.HasGenre(value)
	}
	return false
}

func (b Book) SortKey(field string) string {
	switch field {
	case FieldTitle:
		return b.Title
	case FieldISBN:
		return b.ISBN
	case FieldAuthor:
		return b.AuthorID
	}
	return b.ID
}

func (b Book) Project(fields []string) Book {
	keep := projection(fields)
	out := Book{ID: b.ID}
	if keep.keeps(FieldTitle) {
		out.Title = b.Title
	}
	if keep.keeps(FieldSummary) {
		out.Summary = b.Summary
	}
	if keep.keeps(FieldISBN) {
		out.ISBN = b.ISBN
	}
	if keep.keeps(FieldAuthor) {
		out.AuthorID = b.AuthorID
		out.Author = b.Author
	}
	if keep.keeps(FieldGenre) {
		out.GenreIDs = b.GenreIDs
		out.Genres = b.Genres
	}
	return out
}

func (b Book) UniqueKey() string { return "" }
