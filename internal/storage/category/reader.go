package category

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"
)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByNameAndType(ctx context.Context, name string, categoryType string) (*Category, error) {
	query := sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("name").EQ(sqlite.Arg(name))),
		sm.Where(sqlite.Quote("type").EQ(sqlite.Arg(categoryType))),
	)
	return bob.One(ctx, r.exec, query, scan.StructMapper[*Category]())
}

func (r *Reader) List(ctx context.Context) ([]*Category, error) {
	query := sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.OrderBy("type").Asc(),
		sm.OrderBy("name").Asc(),
	)
	return bob.All(ctx, r.exec, query, scan.StructMapper[*Category]())
}
