package tag

type Tag struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

const tableName = "tags"

var columns = []any{"id", "name"}
