// Package seed loads a YAML catalogue through the same validation pipeline
// the HTTP forms use. Entries reference each other by key.
package seed

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"library-catalog/internal/domains/catalog/form"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/service"
	"library-catalog/internal/domains/catalog/store"
)

type Catalog struct {
	Genres    []GenreEntry    `yaml:"genres"`
	Authors   []AuthorEntry   `yaml:"authors"`
	Books     []BookEntry     `yaml:"books"`
	Instances []InstanceEntry `yaml:"instances"`
}

type GenreEntry struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type AuthorEntry struct {
	Key         string `yaml:"key"`
	FirstName   string `yaml:"first_name"`
	FamilyName  string `yaml:"family_name"`
	DateOfBirth string `yaml:"date_of_birth"`
	DateOfDeath string `yaml:"date_of_death"`
}

type BookEntry struct {
	Key     string   `yaml:"key"`
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	ISBN    string   `yaml:"isbn"`
	Author  string   `yaml:"author"`
	Genres  []string `yaml:"genres"`
}

type InstanceEntry struct {
	Book    string `yaml:"book"`
	Imprint string `yaml:"imprint"`
	Status  string `yaml:"status"`
	DueBack string `yaml:"due_back"`
}

// Parse decodes a catalogue, rejecting unknown fields.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &c, nil
}

// Problem is an entry the loader skipped.
type Problem struct {
	Kind    model.Kind
	Entry   string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %q: %s", p.Kind, p.Entry, p.Message)
}

type Report struct {
	Created  map[model.Kind]int
	Existing map[model.Kind]int
	Problems []Problem
}

// Total is the number of entities the load inserted.
func (r *Report) Total() int {
	n := 0
	for _, c := range r.Created {
		n += c
	}
	return n
}

func (r *Report) problem(kind model.Kind, entry string, d map[string]string) {
	fields := make([]string, 0, len(d))
	for f := range d {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+d[f])
	}
	r.Problems = append(r.Problems, Problem{Kind: kind, Entry: entry, Message: strings.Join(msgs, "; ")})
}

// Loader inserts a Catalog into a store. Invalid entries, and entries
// whose references failed, are reported and skipped; store errors abort.
type Loader struct {
	store store.Store

	genres  map[string]string
	authors map[string]string
	books   map[string]string
	report  *Report
}

func NewLoader(s store.Store) *Loader {
	return &Loader{store: s}
}

func (l *Loader) Load(ctx context.Context, c *Catalog) (*Report, error) {
	l.genres = map[string]string{}
	l.authors = map[string]string{}
	l.books = map[string]string{}
	l.report = &Report{Created: map[model.Kind]int{}, Existing: map[model.Kind]int{}}

	steps := []func(context.Context, *Catalog) error{
		l.loadGenres,
		l.loadAuthors,
		l.loadBooks,
		l.loadInstances,
	}
	for _, step := range steps {
		if err := step(ctx, c); err != nil {
			return l.report, err
		}
	}
	return l.report, nil
}

func keyOr(key, fallback string) string {
	if key != "" {
		return key
	}
	return fallback
}

func (l *Loader) loadGenres(ctx context.Context, c *Catalog) error {
	for _, e := range c.Genres {
		key := keyOr(e.Key, e.Name)
		d := form.Genre(form.Body{model.FieldName: e.Name}, "")
		if !d.Valid() {
			l.report.problem(model.KindGenre, key, d.FieldErrors())
			continue
		}

		g, created, err := service.FindOrCreateGenre(ctx, l.store.Genres(), d.Entity)
		if err != nil {
			return err
		}
		l.count(model.KindGenre, created)
		l.genres[key] = g.ID
	}
	return nil
}

func (l *Loader) loadAuthors(ctx context.Context, c *Catalog) error {
	for _, e := range c.Authors {
		key := keyOr(e.Key, e.FirstName+" "+e.FamilyName)
		d := form.Author(form.Body{
			model.FieldFirstName:   e.FirstName,
			model.FieldFamilyName:  e.FamilyName,
			model.FieldDateOfBirth: e.DateOfBirth,
			model.FieldDateOfDeath: e.DateOfDeath,
		}, "")
		if !d.Valid() {
			l.report.problem(model.KindAuthor, key, d.FieldErrors())
			continue
		}

		existing, err := store.FindOne(ctx, l.store.Authors(), store.Filter{
			model.FieldFirstName:  d.Entity.FirstName,
			model.FieldFamilyName: d.Entity.FamilyName,
		})
		switch {
		case err == nil:
			l.count(model.KindAuthor, false)
			l.authors[key] = existing.ID
			continue
		case !store.IsNotFound(err):
			return err
		}

		a, err := l.store.Authors().Insert(ctx, d.Entity)
		if err != nil {
			return err
		}
		l.count(model.KindAuthor, true)
		l.authors[key] = a.ID
	}
	return nil
}

func (l *Loader) loadBooks(ctx context.Context, c *Catalog) error {
	for _, e := range c.Books {
		key := keyOr(e.Key, e.Title)

		authorID, ok := l.authors[e.Author]
		if !ok {
			l.report.problem(model.KindBook, key, map[string]string{model.FieldAuthor: fmt.Sprintf("unknown author %q", e.Author)})
			continue
		}
		genreIDs := make([]string, 0, len(e.Genres))
		missing := ""
		for _, g := range e.Genres {
			id, ok := l.genres[g]
			if !ok {
				missing = g
				break
			}
			genreIDs = append(genreIDs, id)
		}
		if missing != "" {
			l.report.problem(model.KindBook, key, map[string]string{model.FieldGenre: fmt.Sprintf("unknown genre %q", missing)})
			continue
		}

		d := form.Book(form.Body{
			model.FieldTitle:   e.Title,
			model.FieldAuthor:  authorID,
			model.FieldSummary: e.Summary,
			model.FieldISBN:    e.ISBN,
			model.FieldGenre:   genreIDs,
		}, "")
		if !d.Valid() {
			l.report.problem(model.KindBook, key, d.FieldErrors())
			continue
		}

		existing, err := store.FindOne(ctx, l.store.Books(), store.Where(model.FieldISBN, d.Entity.ISBN))
		switch {
		case err == nil:
			l.count(model.KindBook, false)
			l.books[key] = existing.ID
			continue
		case !store.IsNotFound(err):
			return err
		}

		b, err := l.store.Books().Insert(ctx, d.Entity)
		if err != nil {
			return err
		}
		l.count(model.KindBook, true)
		l.books[key] = b.ID
	}
	return nil
}

func (l *Loader) loadInstances(ctx context.Context, c *Catalog) error {
	for i, e := range c.Instances {
		entry := fmt.Sprintf("%s#%d", e.Book, i+1)

		bookID, ok := l.books[e.Book]
		if !ok {
			l.report.problem(model.KindBookInstance, entry, map[string]string{model.FieldBook: fmt.Sprintf("unknown book %q", e.Book)})
			continue
		}

		d := form.BookInstance(form.Body{
			model.FieldBook:    bookID,
			model.FieldImprint: e.Imprint,
			model.FieldStatus:  e.Status,
			model.FieldDueBack: e.DueBack,
		}, "")
		if !d.Valid() {
			l.report.problem(model.KindBookInstance, entry, d.FieldErrors())
			continue
		}

		if _, err := l.store.BookInstances().Insert(ctx, d.Entity); err != nil {
			return err
		}
		l.count(model.KindBookInstance, true)
	}
	return nil
}

func (l *Loader) count(kind model.Kind, created bool) {
	if created {
		l.report.Created[kind]++
		return
	}
	l.report.Existing[kind]++
}
