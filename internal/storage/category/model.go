package category

// Category is unique on the (name, type) pair: the same name under two
// types is two categories.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Type string `db:"type"`
}

const tableName = "categories"

var columns = []any{"id", "name", "type"}
