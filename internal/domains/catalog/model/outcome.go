package model

// View names understood by the rendering layer.
const (
	ViewIndex = "index"

	ViewAuthorList   = "author_list"
	ViewAuthorDetail = "author_detail"
	ViewAuthorForm   = "author_form"
	ViewAuthorDelete = "author_delete"

	ViewGenreList   = "genre_list"
	ViewGenreDetail = "genre_detail"
	ViewGenreForm   = "genre_form"
	ViewGenreDelete = "genre_delete"

	ViewBookList   = "book_list"
	ViewBookDetail = "book_detail"
	ViewBookForm   = "book_form"
	ViewBookDelete = "book_delete"

	ViewInstanceList   = "bookinstance_list"
	ViewInstanceDetail = "bookinstance_detail"
	ViewInstanceForm   = "bookinstance_form"
	ViewInstanceDelete = "bookinstance_delete"
)

// Rejection explains why a mutation ended in a view instead of a redirect.
type Rejection string

const (
	RejectedInvalid Rejection = "invalid"
	RejectedBlocked Rejection = "blocked"
)

// Outcome is what every catalog operation hands back to the boundary: either
// a named view with its data or a redirect to a path.
type Outcome struct {
	View       string
	Data       any
	RedirectTo string
	Rejected   Rejection
}

func View(name string, data any) *Outcome {
	return &Outcome{View: name, Data: data}
}

// Redisplay is a view rendered because submitted fields failed validation.
func Redisplay(name string, data any) *Outcome {
	return &Outcome{View: name, Data: data, Rejected: RejectedInvalid}
}

// Blocked is a delete confirmation view shown because dependents still exist.
func Blocked(name string, data any) *Outcome {
	return &Outcome{View: name, Data: data, Rejected: RejectedBlocked}
}

func Redirect(path string) *Outcome {
	return &Outcome{RedirectTo: path}
}

func (o *Outcome) IsRedirect() bool {
	return o.RedirectTo != ""
}
