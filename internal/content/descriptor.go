package content

// Descriptor describes one resource table well enough for the shared CRUD
// handlers to serve it: where it lives, which field names the slug, and
// which attributes requests may read, write, and filter on.
type Descriptor struct {
	// Path is the URL segment, e.g. "blog-posts".
	Path string
	// Table is the qualified table name.
	Table string
	// TitleField is the human-readable name/title column the slug derives
	// from. Always part of Required.
	TitleField string
	// Required fields must be present on create.
	Required []string
	// Writable fields may be set on create and update. Slug, id, and
	// timestamps are managed by the controller and never writable.
	Writable []string
	// Filterable columns accept equality filters on list.
	Filterable []string
	// ArrayFields are text[] columns whose JSON arrays need converting
	// before they reach the driver.
	ArrayFields []string
}

// Resources registers all seven content types. Order here is the order
// routes are mounted; it has no other meaning.
var Resources = []Descriptor{
	{
		Path:       "stories",
		Table:      Story{}.TableName(),
		TitleField: "title",
		Required:   []string{"title"},
		Writable:   []string{"title", "content", "excerpt", "author_id", "featured", "published"},
		Filterable: []string{"author_id", "featured", "published"},
	},
	{
		Path:       "authors",
		Table:      Author{}.TableName(),
		TitleField: "name",
		Required:   []string{"name"},
		Writable:   []string{"name", "bio", "email", "avatar_url"},
		Filterable: []string{"email"},
	},
	{
		Path:       "tags",
		Table:      Tag{}.TableName(),
		TitleField: "name",
		Required:   []string{"name"},
		Writable:   []string{"name", "description"},
		Filterable: []string{},
	},
	{
		Path:       "games",
		Table:      Game{}.TableName(),
		TitleField: "title",
		Required:   []string{"title"},
		Writable:   []string{"title", "description", "embed_url", "category", "published"},
		Filterable: []string{"category", "published"},
	},
	{
		Path:       "blog-posts",
		Table:      BlogPost{}.TableName(),
		TitleField: "title",
		Required:   []string{"title"},
		Writable:   []string{"title", "content", "excerpt", "author_id", "published", "published_at"},
		Filterable: []string{"author_id", "published"},
	},
	{
		Path:        "directory-items",
		Table:       DirectoryItem{}.TableName(),
		TitleField:  "name",
		Required:    []string{"name"},
		Writable:    []string{"name", "description", "url", "category", "keywords", "featured"},
		Filterable:  []string{"category", "featured"},
		ArrayFields: []string{"keywords"},
	},
	{
		Path:        "ai-tools",
		Table:       AiTool{}.TableName(),
		TitleField:  "name",
		Required:    []string{"name"},
		Writable:    []string{"name", "description", "url", "category", "features", "pricing", "featured"},
		Filterable:  []string{"category", "featured", "pricing"},
		ArrayFields: []string{"features"},
	},
}

func (d Descriptor) writable(field string) bool {
	for _, f := range d.Writable {
		if f == field {
			return true
		}
	}
	return false
}

func (d Descriptor) isArray(field string) bool {
	for _, f := range d.ArrayFields {
		if f == field {
			return true
		}
	}
	return false
}
