package schema

// ReferenceTable represents a slugged lookup table ('core.category', 'core.genre')
type ReferenceTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = ReferenceTable{
	Table: "core.category",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = ReferenceTable{
	Table: "core.genre",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

func (t ReferenceTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
