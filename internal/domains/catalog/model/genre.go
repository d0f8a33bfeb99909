package model

type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (g Genre) URL() string {
	return DetailPath(KindGenre, g.ID)
}

func (g Genre) DocID() string { return g.ID }

func (g Genre) WithID(id string) Genre {
	g.ID = id
	return g
}

func (g Genre) Bare() Genre { return g }

func (g Genre) Match(field, value string) bool {
	switch field {
	case FieldID:
		return g.ID == value
	case FieldName:
		return g.Name == value
	}
	return false
}

func (g Genre) SortKey(field string) string {
	if field == FieldName {
		return g.Name
	}
	return g.ID
}

func (g Genre) Project(fields []string) Genre {
	if projection(fields).keeps(FieldName) {
		return g
	}
	return Genre{ID: g.ID}
}

// UniqueKey is the case-sensitive genre name.
func (g Genre) UniqueKey() string { return g.Name }
