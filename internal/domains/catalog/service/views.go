package service

import (
	"library-catalog/internal/domains/catalog/form"
	"library-catalog/internal/domains/catalog/model"
)

type Counts struct {
	Books              int `json:"book_count"`
	Instances          int `json:"book_instance_count"`
	InstancesAvailable int `json:"book_instance_available_count"`
	Authors            int `json:"author_count"`
	Genres             int `json:"genre_count"`
}

type IndexView struct {
	Title  string `json:"title"`
	Counts Counts `json:"counts"`
}

// ========================================
// AUTHOR
// ========================================

type AuthorListView struct {
	Title   string         `json:"title"`
	Authors []model.Author `json:"authors"`
}

type AuthorDetailView struct {
	Title  string        `json:"title"`
	Author *model.Author `json:"author"`
	Books  []model.Book  `json:"books"`
}

type AuthorFormView struct {
	Title  string            `json:"title"`
	Author *model.Author     `json:"author,omitempty"`
	Values form.Values       `json:"values,omitempty"`
	Errors []form.FieldError `json:"errors,omitempty"`
}

type AuthorDeleteView struct {
	Title  string        `json:"title"`
	Author *model.Author `json:"author"`
	Books  []model.Book  `json:"books"`
}

// ========================================
// GENRE
// ========================================

type GenreListView struct {
	Title  string        `json:"title"`
	Genres []model.Genre `json:"genres"`
}

type GenreDetailView struct {
	Title string       `json:"title"`
	Genre *model.Genre `json:"genre"`
	Books []model.Book `json:"books"`
}

type GenreFormView struct {
	Title  string            `json:"title"`
	Genre  *model.Genre      `json:"genre,omitempty"`
	Values form.Values       `json:"values,omitempty"`
	Errors []form.FieldError `json:"errors,omitempty"`
}

type GenreDeleteView struct {
	Title string       `json:"title"`
	Genre *model.Genre `json:"genre"`
	Books []model.Book `json:"books"`
}

// ========================================
// BOOK
// ========================================

type BookListView struct {
	Title string       `json:"title"`
	Books []model.Book `json:"books"`
}

type BookDetailView struct {
	Title     string               `json:"title"`
	Book      *model.Book          `json:"book"`
	Instances []model.BookInstance `json:"instances"`
}

type BookFormView struct {
	Title   string             `json:"title"`
	Book    *model.Book        `json:"book,omitempty"`
	Authors []model.Author     `json:"authors"`
	Genres  []form.GenreOption `json:"genres"`
	Values  form.Values        `json:"values,omitempty"`
	Errors  []form.FieldError  `json:"errors,omitempty"`
}

type BookDeleteView struct {
	Title     string               `json:"title"`
	Book      *model.Book          `json:"book"`
	Instances []model.BookInstance `json:"instances"`
}

// ========================================
// BOOK INSTANCE
// ========================================

type InstanceListView struct {
	Title     string               `json:"title"`
	Instances []model.BookInstance `json:"instances"`
}

type InstanceDetailView struct {
	Title    string              `json:"title"`
	Instance *model.BookInstance `json:"instance"`
}

type InstanceFormView struct {
	Title        string                 `json:"title"`
	Instance     *model.BookInstance    `json:"instance,omitempty"`
	Books        []model.Book           `json:"books"`
	SelectedBook string                 `json:"selected_book,omitempty"`
	Statuses     []model.InstanceStatus `json:"statuses"`
	Values       form.Values            `json:"values,omitempty"`
	Errors       []form.FieldError      `json:"errors,omitempty"`
}

type InstanceDeleteView struct {
	Title    string              `json:"title"`
	Instance *model.BookInstance `json:"instance"`
}
