package model

import "time"

type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "Available"
	StatusMaintenance InstanceStatus = "Maintenance"
	StatusLoaned      InstanceStatus = "Loaned"
	StatusReserved    InstanceStatus = "Reserved"
)

// DefaultStatus applies when a copy is submitted without a status.
const DefaultStatus = StatusMaintenance

var InstanceStatuses = []InstanceStatus{
	StatusAvailable,
	StatusMaintenance,
	StatusLoaned,
	StatusReserved,
}

// BookInstance is one physical copy of a Book.
type BookInstance struct {
	ID      string         `json:"id"`
	BookID  string         `json:"book_id"`
	Imprint string         `json:"imprint"`
	Status  InstanceStatus `json:"status"`
	DueBack *time.Time     `json:"due_back,omitempty"`

	Book *Book `json:"book,omitempty"`
}

func (bi BookInstance) URL() string {
	return DetailPath(KindBookInstance, bi.ID)
}

// DueBackFormatted renders the due date as "Jan 2, 2006", or "" if unset.
func (bi BookInstance) DueBackFormatted() string {
	if bi.DueBack == nil {
		return ""
	}
	return bi.DueBack.Format("Jan 2, 2006")
}

func (bi BookInstance) DocID() string { return bi.ID }

func (bi BookInstance) WithID(id string) BookInstance {
	bi.ID = id
	return bi
}

func (bi BookInstance) Bare() BookInstance {
	bi.DueBack = copyTime(bi.DueBack)
	bi.Book = nil
	return bi
}

func (bi BookInstance) Match(field, value string) bool {
	switch field {
	case FieldID:
		return bi.ID == value
	case FieldBook:
		return bi.BookID == value
	case FieldImprint:
		return bi.Imprint == value
	case FieldStatus:
		return string(bi.Status) == value
	case FieldDueBack:
		return formatDate(bi.DueBack) == value
	}
	return false
}

func (bi BookInstance) SortKey(field string) string {
	switch field {
	case FieldImprint:
		return bi.Imprint
	case FieldStatus:
		return string(bi.Status)
	case FieldDueBack:
		return formatDate(bi.DueBack)
	case FieldBook:
		return bi.BookID
	}
	return bi.ID
}

func (bi BookInstance) Project(fields []string) BookInstance {
	keep := projection(fields)
	out := BookInstance{ID: bi.ID}
	if keep.keeps(FieldBook) {
		out.BookID = bi.BookID
		out.Book = bi.Book
	}
	if keep.keeps(FieldImprint) {
		out.Imprint = bi.Imprint
	}
	if keep.keeps(FieldStatus) {
		out.Status = bi.Status
	}
	if keep.keeps(FieldDueBack) {
		out.DueBack = bi.DueBack
	}
	return out
}

func (bi BookInstance) UniqueKey() string { return "" }
