package model

// Kind identifies one of the four catalog entity kinds.
type Kind string

const (
	KindAuthor       Kind = "author"
	KindBook         Kind = "book"
	KindGenre        Kind = "genre"
	KindBookInstance Kind = "bookinstance"
)

// Kinds lists every catalog kind in dashboard order.
var Kinds = []Kind{KindBook, KindBookInstance, KindAuthor, KindGenre}

const pathPrefix = "/catalog"

// Plural is the path segment used for the kind's list and detail routes.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// ListPath returns the list route of the kind, e.g. /catalog/authors.
func ListPath(k Kind) string {
	return pathPrefix + "/" + k.Plural()
}

// DetailPath returns the canonical detail route of one entity.
func DetailPath(k Kind, id string) string {
	return ListPath(k) + "/" + id
}

// IndexPath is the catalog home route.
func IndexPath() string {
	return pathPrefix
}
