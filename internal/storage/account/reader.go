package account

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

// FindByName returns sql.ErrNoRows when no account carries the name.
func (r *Reader) FindByName(ctx context.Context, name string) (*Account, error) {
	query := sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("name").EQ(sqlite.Arg(name))),
	)
	return bob.One(ctx, r.exec, query, scan.StructMapper[*Account]())
}

func (r *Reader) List(ctx context.Context) ([]*Account, error) {
	query := sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.OrderBy("name").Asc(),
	)
	return bob.All(ctx, r.exec, query, scan.StructMapper[*Account]())
}

func (r *Reader) Count(ctx context.Context) (int64, error) {
	query := sqlite.Select(
		sm.Columns("count(*)"),
		sm.From(tableName),
	)
	return bob.One(ctx, r.exec, query, scan.SingleColumnMapper[int64])
}
